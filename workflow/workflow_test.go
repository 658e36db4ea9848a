package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sscott1990/contests-unlimited-sub000/blob"
	"github.com/sscott1990/contests-unlimited-sub000/ledger"
	"github.com/sscott1990/contests-unlimited-sub000/model"
	"github.com/sscott1990/contests-unlimited-sub000/payment"
	"github.com/sscott1990/contests-unlimited-sub000/uploads"
)

func newWorkflow(t *testing.T) *Workflow {
	t.Helper()
	blobs := blob.NewMemStore()
	return &Workflow{
		Ledger:    ledger.New(blobs),
		Uploads:   uploads.New(blobs),
		UploadDir: t.TempDir(),
	}
}

func recordPaid(t *testing.T, wf *Workflow, id string) {
	t.Helper()
	err := wf.Ledger.RecordPayment(context.Background(), model.PaymentSession{
		ID:            id,
		PaymentStatus: model.PaymentStatusPaid,
		CustomerEmail: "alice@example.com",
		Timestamp:     time.Now(),
	})
	if err != nil {
		t.Fatal(err)
	}
}

func triviaRequest(sessionID string) SubmitRequest {
	return SubmitRequest{
		SessionID:     sessionID,
		UserName:      "Alice",
		Contest:       TriviaContestName,
		TriviaAnswers: `[{"selected":"A"}]`,
		TimeTaken:     "12.5",
	}
}

func countSubmissions(t *testing.T, wf *Workflow) int {
	t.Helper()
	subs, err := wf.Uploads.ListAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	return len(subs)
}

func TestSubmitTriviaConsumesSessionOnce(t *testing.T) {
	ctx := context.Background()
	wf := newWorkflow(t)
	recordPaid(t, wf, "sess_1")

	sub, err := wf.Submit(ctx, triviaRequest("sess_1"))
	if err != nil {
		t.Fatal(err)
	}
	if sub.UserName != "Alice" || sub.TimeTaken != 12.5 {
		t.Fatalf("unexpected submission: %+v", sub)
	}
	if len(sub.TriviaAnswers) != 1 || sub.TriviaAnswers[0].Selected != "A" {
		t.Fatalf("unexpected answers: %+v", sub.TriviaAnswers)
	}

	sessions, err := wf.Ledger.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sessions[0].State() != model.StateConsumed {
		t.Fatalf("session not consumed: %+v", sessions[0])
	}

	// second use of the same session conflicts, store unchanged
	_, err = wf.Submit(ctx, triviaRequest("sess_1"))
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
	if n := countSubmissions(t, wf); n != 1 {
		t.Fatalf("expected 1 submission after conflict, got %d", n)
	}
}

func TestSubmitMissingSessionID(t *testing.T) {
	wf := newWorkflow(t)

	_, err := wf.Submit(context.Background(), SubmitRequest{
		UserName: "Alice",
		Contest:  "Photo Contest",
		File:     strings.NewReader("image bytes"),
		Filename: "cat.jpg",
	})
	if !errors.Is(err, ErrMissingSession) {
		t.Fatalf("expected ErrMissingSession, got %v", err)
	}

	// no file may be retained as a valid record
	if n := countSubmissions(t, wf); n != 0 {
		t.Fatalf("expected no submissions, got %d", n)
	}
	files, err := os.ReadDir(wf.UploadDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Fatalf("expected empty upload dir, found %d files", len(files))
	}
}

func TestSubmitUnknownOrUnpaidSession(t *testing.T) {
	ctx := context.Background()
	wf := newWorkflow(t)

	unpaid := model.PaymentSession{ID: "sess_unpaid", PaymentStatus: "unpaid", Timestamp: time.Now()}
	if err := wf.Ledger.RecordPayment(ctx, unpaid); err != nil {
		t.Fatal(err)
	}

	for _, id := range []string{"sess_unknown", "sess_unpaid"} {
		_, err := wf.Submit(ctx, triviaRequest(id))
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("session %s: expected ErrUnauthorized, got %v", id, err)
		}
	}
	if n := countSubmissions(t, wf); n != 0 {
		t.Fatalf("unauthorized submit wrote to the store: %d records", n)
	}
}

func TestSubmitTriviaInvalidPayloads(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*SubmitRequest)
	}{
		{"missing name", func(r *SubmitRequest) { r.UserName = "" }},
		{"missing answers", func(r *SubmitRequest) { r.TriviaAnswers = "" }},
		{"unparseable answers", func(r *SubmitRequest) { r.TriviaAnswers = "not json" }},
		{"null answers", func(r *SubmitRequest) { r.TriviaAnswers = "null" }},
		{"missing timeTaken", func(r *SubmitRequest) { r.TimeTaken = "" }},
		{"negative timeTaken", func(r *SubmitRequest) { r.TimeTaken = "-3" }},
		{"non-numeric timeTaken", func(r *SubmitRequest) { r.TimeTaken = "fast" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf := newWorkflow(t)
			recordPaid(t, wf, "sess_1")

			req := triviaRequest("sess_1")
			tt.mutate(&req)

			_, err := wf.Submit(ctx, req)
			if !errors.Is(err, ErrInvalidPayload) {
				t.Fatalf("expected ErrInvalidPayload, got %v", err)
			}
			if n := countSubmissions(t, wf); n != 0 {
				t.Fatalf("invalid payload wrote to the store: %d records", n)
			}

			// the session must remain usable for retry
			if _, err := wf.Ledger.FindUsable(ctx, "sess_1"); err != nil {
				t.Fatalf("session no longer usable: %v", err)
			}
		})
	}
}

func TestSubmitFile(t *testing.T) {
	ctx := context.Background()
	wf := newWorkflow(t)
	recordPaid(t, wf, "sess_1")

	sub, err := wf.Submit(ctx, SubmitRequest{
		SessionID: "sess_1",
		UserName:  "Bob Jones",
		Contest:   "Photo Contest",
		File:      strings.NewReader("image bytes"),
		Filename:  "my cat!.jpg",
	})
	if err != nil {
		t.Fatal(err)
	}

	if sub.OriginalFilename != "my cat!.jpg" {
		t.Fatalf("original filename: %q", sub.OriginalFilename)
	}
	if strings.ContainsAny(sub.SavedFilename, " !") {
		t.Fatalf("saved filename not sanitized: %q", sub.SavedFilename)
	}
	if !strings.HasPrefix(sub.SavedFilename, "Bob_Jones-Photo_Contest-") {
		t.Fatalf("saved filename not derived from name and contest: %q", sub.SavedFilename)
	}

	data, err := os.ReadFile(filepath.Join(wf.UploadDir, sub.SavedFilename))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "image bytes" {
		t.Fatalf("stored file content: %q", data)
	}

	// no temp leftovers
	files, err := os.ReadDir(wf.UploadDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 {
		t.Fatalf("expected only the saved file, found %d entries", len(files))
	}
}

func TestSubmitFileMissingAttachment(t *testing.T) {
	ctx := context.Background()
	wf := newWorkflow(t)
	recordPaid(t, wf, "sess_1")

	_, err := wf.Submit(ctx, SubmitRequest{
		SessionID: "sess_1",
		UserName:  "Bob",
		Contest:   "Photo Contest",
	})
	if !errors.Is(err, ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
	if _, err := wf.Ledger.FindUsable(ctx, "sess_1"); err != nil {
		t.Fatalf("session no longer usable: %v", err)
	}
}

func TestPaymentConfirmed(t *testing.T) {
	ctx := context.Background()
	wf := newWorkflow(t)

	err := wf.PaymentConfirmed(ctx, payment.Event{
		ID:   "evt_1",
		Type: payment.EventCheckoutCompleted,
		Session: model.PaymentSession{
			ID:            "sess_1",
			PaymentStatus: model.PaymentStatusPaid,
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	session, err := wf.Ledger.FindUsable(ctx, "sess_1")
	if err != nil {
		t.Fatal(err)
	}
	if session.CustomerEmail != model.AnonymousEmail {
		t.Fatalf("expected anonymous email marker, got %q", session.CustomerEmail)
	}
	if session.Timestamp.IsZero() {
		t.Fatal("timestamp not defaulted")
	}
}

func TestPaymentConfirmedIgnoresOtherEvents(t *testing.T) {
	ctx := context.Background()
	wf := newWorkflow(t)

	err := wf.PaymentConfirmed(ctx, payment.Event{ID: "evt_1", Type: "invoice.paid"})
	if err != nil {
		t.Fatal(err)
	}

	sessions, err := wf.Ledger.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 0 {
		t.Fatalf("unexpected ledger rows: %+v", sessions)
	}
}
