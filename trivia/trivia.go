// Package trivia holds the read-only question bank. The answer key stays
// server-side: clients get question and options only, scoring happens here.
package trivia

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sscott1990/contests-unlimited-sub000/model"
)

type Bank struct {
	questions []model.TriviaQuestion
}

func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("trivia: read question bank: %w", err)
	}

	var questions []model.TriviaQuestion
	err = json.Unmarshal(data, &questions)
	if err != nil {
		return nil, fmt.Errorf("trivia: parse question bank: %w", err)
	}
	return &Bank{questions: questions}, nil
}

// PublicQuestion is the client view, without the answer key.
type PublicQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

func (b *Bank) Public() []PublicQuestion {
	out := make([]PublicQuestion, len(b.questions))
	for i, q := range b.questions {
		out[i] = PublicQuestion{Question: q.Question, Options: q.Options}
	}
	return out
}

// Score counts answers matching the bank, position by position.
func (b *Bank) Score(answers []model.TriviaAnswer) (correct int) {
	for i, a := range answers {
		if i >= len(b.questions) {
			break
		}
		if a.Selected == b.questions[i].Answer {
			correct++
		}
	}
	return
}

func (b *Bank) Len() int {
	return len(b.questions)
}
