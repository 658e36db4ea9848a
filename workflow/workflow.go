// Package workflow orchestrates payment-gated contest submissions: a paid
// checkout session admits exactly one submission, then is consumed.
package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sscott1990/contests-unlimited-sub000/ledger"
	"github.com/sscott1990/contests-unlimited-sub000/log"
	"github.com/sscott1990/contests-unlimited-sub000/model"
	"github.com/sscott1990/contests-unlimited-sub000/payment"
	"github.com/sscott1990/contests-unlimited-sub000/uploads"
)

// TriviaContestName is the reserved contest name selecting the trivia
// submission variant.
const TriviaContestName = "Trivia Contest"

var (
	ErrMissingSession = errors.New("workflow: missing session id")
	ErrUnauthorized   = errors.New("workflow: session not found or not paid")
	ErrConflict       = errors.New("workflow: session already consumed")
	ErrInvalidPayload = errors.New("workflow: invalid submission payload")
)

type Workflow struct {
	Ledger    *ledger.Store
	Uploads   *uploads.Store
	UploadDir string
}

// SubmitRequest carries the decoded multipart form. TriviaAnswers and
// TimeTaken are the raw form text; File is nil when no file was attached.
type SubmitRequest struct {
	SessionID     string
	UserName      string
	Contest       string
	TriviaAnswers string
	TimeTaken     string
	File          io.Reader
	Filename      string
}

// Submit admits one submission against a paid, unconsumed session.
// The submission is persisted before the session is consumed: a failed
// write leaves the session usable for retry. A crash between the two
// writes leaves a duplicate-eligible session, visible in the admin report.
func (wf *Workflow) Submit(ctx context.Context, req SubmitRequest) (model.Submission, error) {
	if req.SessionID == "" {
		return model.Submission{}, ErrMissingSession
	}

	session, err := wf.Ledger.FindUsable(ctx, req.SessionID)
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return model.Submission{}, ErrUnauthorized
	case errors.Is(err, ledger.ErrConsumed):
		return model.Submission{}, ErrConflict
	case err != nil:
		return model.Submission{}, err
	}

	sub := model.Submission{
		UserName:    req.UserName,
		ContestName: req.Contest,
		Timestamp:   time.Now(),
	}

	var savedPath string
	if req.Contest == TriviaContestName {
		err = fillTrivia(&sub, req)
	} else {
		savedPath, err = wf.saveFile(&sub, req)
	}
	if err != nil {
		return model.Submission{}, err
	}

	err = wf.Uploads.Append(ctx, sub)
	if err != nil {
		if savedPath != "" {
			os.Remove(savedPath)
		}
		return model.Submission{}, err
	}

	err = wf.Ledger.MarkConsumed(ctx, session.ID)
	if err != nil {
		return model.Submission{}, err
	}

	log.Infof("workflow.submit: accepted %q entry for %q (session %s)",
		sub.ContestName, sub.UserName, session.ID)
	return sub, nil
}

// PaymentConfirmed records a verified checkout completion in the ledger.
// Other event types are ignored.
func (wf *Workflow) PaymentConfirmed(ctx context.Context, ev payment.Event) error {
	if ev.Type != payment.EventCheckoutCompleted {
		log.Debugf("workflow.payment_confirmed: ignoring event %s (%s)", ev.ID, ev.Type)
		return nil
	}

	session := ev.Session
	if session.CustomerEmail == "" {
		session.CustomerEmail = model.AnonymousEmail
	}
	if session.Timestamp.IsZero() {
		session.Timestamp = time.Now()
	}

	log.Infof("workflow.payment_confirmed: recording session %s (%s)", session.ID, session.PaymentStatus)
	return wf.Ledger.RecordPayment(ctx, session)
}

func fillTrivia(sub *model.Submission, req SubmitRequest) error {
	if req.UserName == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidPayload)
	}
	if req.TriviaAnswers == "" {
		return fmt.Errorf("%w: missing triviaAnswers", ErrInvalidPayload)
	}

	var answers []model.TriviaAnswer
	err := json.Unmarshal([]byte(req.TriviaAnswers), &answers)
	if err != nil || answers == nil {
		return fmt.Errorf("%w: unparseable triviaAnswers", ErrInvalidPayload)
	}

	if req.TimeTaken == "" {
		return fmt.Errorf("%w: missing timeTaken", ErrInvalidPayload)
	}
	timeTaken, err := strconv.ParseFloat(req.TimeTaken, 64)
	if err != nil || timeTaken < 0 {
		return fmt.Errorf("%w: invalid timeTaken", ErrInvalidPayload)
	}

	sub.TriviaAnswers = answers
	sub.TimeTaken = timeTaken
	return nil
}

var reUnsafe = regexp.MustCompile(`[^\w.-]+`)

func sanitize(s string) string {
	return reUnsafe.ReplaceAllLiteralString(strings.TrimSpace(s), "_")
}

// saveFile streams the upload to a temp file and renames it into place
// once fully written. No partial file ever becomes a submission record.
func (wf *Workflow) saveFile(sub *model.Submission, req SubmitRequest) (string, error) {
	if req.File == nil {
		return "", fmt.Errorf("%w: missing file", ErrInvalidPayload)
	}

	err := os.MkdirAll(wf.UploadDir, 0o755)
	if err != nil {
		return "", err
	}

	saved := fmt.Sprintf("%s-%s-%d-%s",
		sanitize(req.UserName),
		sanitize(req.Contest),
		sub.Timestamp.Unix(),
		sanitize(filepath.Base(req.Filename)),
	)

	tmpPath := filepath.Join(wf.UploadDir, "."+uuid.NewString()+".part")
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return "", err
	}

	_, err = io.Copy(tmp, req.File)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return "", err
	}

	savedPath := filepath.Join(wf.UploadDir, saved)
	err = os.Rename(tmpPath, savedPath)
	if err != nil {
		os.Remove(tmpPath)
		return "", err
	}

	sub.OriginalFilename = filepath.Base(req.Filename)
	sub.SavedFilename = saved
	return savedPath, nil
}
