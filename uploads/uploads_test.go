package uploads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sscott1990/contests-unlimited-sub000/blob"
	"github.com/sscott1990/contests-unlimited-sub000/model"
)

func triviaSubmission(name string) model.Submission {
	return model.Submission{
		UserName:      name,
		ContestName:   "Trivia Contest",
		Timestamp:     time.Now(),
		TriviaAnswers: []model.TriviaAnswer{{Selected: "A"}},
		TimeTaken:     12.5,
	}
}

func fileSubmission(name string) model.Submission {
	return model.Submission{
		UserName:         name,
		ContestName:      "Photo Contest",
		Timestamp:        time.Now(),
		OriginalFilename: "cat.jpg",
		SavedFilename:    "bob-Photo_Contest-1700000000-cat.jpg",
	}
}

func TestAppendAndListAll(t *testing.T) {
	ctx := context.Background()
	store := New(blob.NewMemStore())

	if err := store.Append(ctx, triviaSubmission("Alice")); err != nil {
		t.Fatal(err)
	}
	if err := store.Append(ctx, fileSubmission("Bob")); err != nil {
		t.Fatal(err)
	}

	subs, err := store.ListAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(subs) != 2 {
		t.Fatalf("expected 2 submissions, got %d", len(subs))
	}
	if subs[0].UserName != "Alice" || !subs[0].IsTrivia() {
		t.Fatalf("first submission wrong: %+v", subs[0])
	}
	if subs[1].UserName != "Bob" || subs[1].IsTrivia() {
		t.Fatalf("second submission wrong: %+v", subs[1])
	}
}

func TestAppendRejectsBadVariants(t *testing.T) {
	ctx := context.Background()

	both := triviaSubmission("Eve")
	both.OriginalFilename = "sneaky.zip"
	both.SavedFilename = "eve-sneaky.zip"

	half := fileSubmission("Mallory")
	half.OriginalFilename = ""

	tests := []struct {
		name string
		sub  model.Submission
	}{
		{"neither variant", model.Submission{UserName: "Nobody", ContestName: "c", Timestamp: time.Now()}},
		{"both variants", both},
		{"file variant missing original name", half},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := New(blob.NewMemStore())
			if err := store.Append(ctx, tt.sub); !errors.Is(err, ErrVariant) {
				t.Fatalf("expected ErrVariant, got %v", err)
			}

			subs, err := store.ListAll(ctx)
			if err != nil {
				t.Fatal(err)
			}
			if len(subs) != 0 {
				t.Fatalf("rejected submission was written: %+v", subs)
			}
		})
	}
}
