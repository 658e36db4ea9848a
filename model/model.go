package model

import "time"

// AnonymousEmail marks payment sessions where the provider did not report
// a customer email.
const AnonymousEmail = "anonymous"

const PaymentStatusPaid = "paid"

// SessionState is the explicit lifecycle of a payment session. The only
// allowed transition is StateCreated -> StateConsumed.
type SessionState string

const (
	StateCreated  SessionState = "created"
	StateConsumed SessionState = "consumed"
)

// PaymentSession is one row of the ledger document. The stored format keeps
// the boolean `used` field; code reasons about State() instead.
type PaymentSession struct {
	ID            string    `json:"id"`
	PaymentStatus string    `json:"paymentStatus"`
	CustomerEmail string    `json:"customerEmail,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	Used          bool      `json:"used,omitempty"`
}

func (s PaymentSession) State() SessionState {
	if s.Used {
		return StateConsumed
	}
	return StateCreated
}

// Submission is one contest entry. Exactly one of the two variants is
// populated: trivia (TriviaAnswers, TimeTaken) or file (OriginalFilename,
// SavedFilename).
type Submission struct {
	UserName    string    `json:"userName"`
	ContestName string    `json:"contestName"`
	Timestamp   time.Time `json:"timestamp"`

	TriviaAnswers []TriviaAnswer `json:"triviaAnswers,omitempty"`
	TimeTaken     float64        `json:"timeTaken,omitempty"`

	OriginalFilename string `json:"originalFilename,omitempty"`
	SavedFilename    string `json:"savedFilename,omitempty"`
}

func (s Submission) IsTrivia() bool {
	return s.TriviaAnswers != nil
}

type TriviaAnswer struct {
	Selected string `json:"selected"`
}

// TriviaQuestion is reference data, never mutated by this service.
type TriviaQuestion struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Answer   string   `json:"answer"`
}
