// Package ledger is the durable log of payment sessions and their
// consumption state.
package ledger

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sscott1990/contests-unlimited-sub000/blob"
	"github.com/sscott1990/contests-unlimited-sub000/log"
	"github.com/sscott1990/contests-unlimited-sub000/model"
)

const Key = "entries.json"

var (
	// ErrNotFound: no session with that id is usable (unknown or not paid).
	ErrNotFound = errors.New("ledger: no usable session")
	// ErrConsumed: the session already admitted a submission.
	ErrConsumed = errors.New("ledger: session already consumed")
)

type Store struct {
	blobs blob.Store
}

func New(blobs blob.Store) *Store {
	return &Store{blobs: blobs}
}

func (s *Store) load(ctx context.Context) ([]model.PaymentSession, error) {
	data, err := s.blobs.Get(ctx, Key)
	if errors.Is(err, blob.ErrNotFound) {
		return []model.PaymentSession{}, nil
	}
	if err != nil {
		return nil, err
	}

	var sessions []model.PaymentSession
	err = json.Unmarshal(data, &sessions)
	if err != nil {
		log.Warnf("ledger.load.parse: %s", err)
		return []model.PaymentSession{}, nil
	}
	return sessions, nil
}

func (s *Store) save(ctx context.Context, sessions []model.PaymentSession) error {
	data, err := json.MarshalIndent(sessions, "", "  ")
	if err != nil {
		return err
	}
	return s.blobs.Put(ctx, Key, data)
}

// RecordPayment appends a session in state created. A session id already in
// the ledger is left untouched, so a redelivered webhook does not grow it.
func (s *Store) RecordPayment(ctx context.Context, session model.PaymentSession) error {
	sessions, err := s.load(ctx)
	if err != nil {
		return err
	}

	for _, prev := range sessions {
		if prev.ID == session.ID {
			log.Debugf("ledger.record_payment: duplicate delivery for %s", session.ID)
			return nil
		}
	}

	session.Used = false
	sessions = append(sessions, session)
	return s.save(ctx, sessions)
}

// FindUsable returns the session only if it is paid and still in state
// created. ErrNotFound and ErrConsumed are distinct so callers can answer
// unauthorized vs conflict.
func (s *Store) FindUsable(ctx context.Context, id string) (model.PaymentSession, error) {
	sessions, err := s.load(ctx)
	if err != nil {
		return model.PaymentSession{}, err
	}

	for _, session := range sessions {
		if session.ID != id || session.PaymentStatus != model.PaymentStatusPaid {
			continue
		}
		if session.State() == model.StateConsumed {
			return model.PaymentSession{}, ErrConsumed
		}
		return session, nil
	}
	return model.PaymentSession{}, ErrNotFound
}

// MarkConsumed performs the single allowed lifecycle transition,
// created -> consumed. It never reverts.
func (s *Store) MarkConsumed(ctx context.Context, id string) error {
	sessions, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i, session := range sessions {
		if session.ID != id {
			continue
		}
		if session.State() == model.StateConsumed {
			return ErrConsumed
		}
		sessions[i].Used = true
		return s.save(ctx, sessions)
	}
	return ErrNotFound
}

// ListAll returns every recorded session, in insertion order.
func (s *Store) ListAll(ctx context.Context) ([]model.PaymentSession, error) {
	return s.load(ctx)
}
