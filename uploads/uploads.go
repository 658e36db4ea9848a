// Package uploads is the append-only log of contest submissions.
package uploads

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sscott1990/contests-unlimited-sub000/blob"
	"github.com/sscott1990/contests-unlimited-sub000/log"
	"github.com/sscott1990/contests-unlimited-sub000/model"
)

const Key = "uploads.json"

// ErrVariant: the submission does not populate exactly one of the trivia
// and file variants.
var ErrVariant = errors.New("uploads: submission must be either trivia or file")

type Store struct {
	blobs blob.Store
}

func New(blobs blob.Store) *Store {
	return &Store{blobs: blobs}
}

func (s *Store) load(ctx context.Context) ([]model.Submission, error) {
	data, err := s.blobs.Get(ctx, Key)
	if errors.Is(err, blob.ErrNotFound) {
		return []model.Submission{}, nil
	}
	if err != nil {
		return nil, err
	}

	var subs []model.Submission
	err = json.Unmarshal(data, &subs)
	if err != nil {
		log.Warnf("uploads.load.parse: %s", err)
		return []model.Submission{}, nil
	}
	return subs, nil
}

// Append validates the variant rule and writes the grown collection.
// Records are immutable once written.
func (s *Store) Append(ctx context.Context, sub model.Submission) error {
	trivia := sub.TriviaAnswers != nil
	file := sub.SavedFilename != "" || sub.OriginalFilename != ""
	if trivia == file {
		return ErrVariant
	}
	if file && (sub.SavedFilename == "" || sub.OriginalFilename == "") {
		return ErrVariant
	}

	subs, err := s.load(ctx)
	if err != nil {
		return err
	}

	subs = append(subs, sub)
	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return err
	}
	return s.blobs.Put(ctx, Key, data)
}

// ListAll returns every submission, in insertion order.
func (s *Store) ListAll(ctx context.Context) ([]model.Submission, error) {
	return s.load(ctx)
}
