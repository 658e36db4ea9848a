package routes

import (
	"errors"
	"html/template"
	"io"
	"net/http"

	"github.com/go-chi/render"

	"github.com/sscott1990/contests-unlimited-sub000/app"
	"github.com/sscott1990/contests-unlimited-sub000/httpx"
	"github.com/sscott1990/contests-unlimited-sub000/log"
	"github.com/sscott1990/contests-unlimited-sub000/payment"
	"github.com/sscott1990/contests-unlimited-sub000/workflow"
)

// Stripe caps webhook payloads well below this.
const maxWebhookBody = 64 * 1024

func CreateCheckoutSession(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := app.Gateway.CreateCheckoutSession(r.Context(), app.SuccessURL, app.CancelURL)
		if err != nil {
			httpx.LogInternalError(w, "stripe.create_session", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"id": id,
		})
	}
}

func Webhook(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Verification needs the exact raw bytes; nothing may parse the
		// body first.
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "stripe.webhook.read_body")
			return
		}

		event, err := app.Gateway.VerifyWebhook(body, r.Header.Get("Stripe-Signature"))
		if err != nil {
			if errors.Is(err, payment.ErrSignature) {
				httpx.LogStatusMsg(w, http.StatusBadRequest, log.WarnLevel,
					"stripe.webhook.verify", "webhook signature verification failed")
			} else {
				httpx.LogStatusMsg(w, http.StatusBadRequest, log.WarnLevel,
					"stripe.webhook.decode", "webhook error: %s", err)
			}
			return
		}

		err = app.PaymentConfirmed(r.Context(), event)
		if err != nil {
			httpx.LogInternalError(w, "stripe.webhook.record", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"received": true,
		})
	}
}

var confirmationPage = template.Must(template.New("confirmation").Parse(`<!DOCTYPE html>
<html>
<head><title>Entry received</title></head>
<body>
<h1>Thank you, {{.UserName}}!</h1>
<p>Your entry for {{.ContestName}} was received.</p>
</body>
</html>
`))

func Upload(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := workflow.SubmitRequest{
			SessionID:     r.FormValue("session_id"),
			UserName:      r.FormValue("name"),
			Contest:       r.FormValue("contest"),
			TriviaAnswers: r.FormValue("triviaAnswers"),
			TimeTaken:     r.FormValue("timeTaken"),
		}

		file, header, err := r.FormFile("file")
		switch {
		case err == nil:
			defer file.Close()
			req.File = file
			req.Filename = header.Filename
		case errors.Is(err, http.ErrMissingFile):
			// trivia entries carry no file
		default:
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "upload.parse_form")
			return
		}

		sub, err := app.Submit(r.Context(), req)
		switch {
		case errors.Is(err, workflow.ErrMissingSession):
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel,
				"upload.submit", "missing session_id")
		case errors.Is(err, workflow.ErrInvalidPayload):
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel,
				"upload.submit", "invalid submission: %s", err)
		case errors.Is(err, workflow.ErrUnauthorized):
			httpx.LogStatus(w, http.StatusForbidden, log.WarnLevel, "upload.submit.unauthorized")
		case errors.Is(err, workflow.ErrConflict):
			httpx.LogStatus(w, http.StatusConflict, log.WarnLevel, "upload.submit.conflict")
		case err != nil:
			httpx.LogInternalError(w, "upload.submit", err)
		default:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			if err := confirmationPage.Execute(w, sub); err != nil {
				log.Errorf("upload.render_confirmation: %s", err)
			}
		}
	}
}

func TriviaQuestions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, app.Trivia.Public())
	}
}
