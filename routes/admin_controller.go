package routes

import (
	"fmt"
	"html/template"
	"net/http"

	"github.com/sscott1990/contests-unlimited-sub000/app"
	"github.com/sscott1990/contests-unlimited-sub000/httpx"
	"github.com/sscott1990/contests-unlimited-sub000/log"
	"github.com/sscott1990/contests-unlimited-sub000/model"
)

var entriesPage = template.Must(template.New("entries").Parse(`<!DOCTYPE html>
<html>
<head><title>Payment sessions</title></head>
<body>
<h1>Payment sessions</h1>
<table border="1" cellpadding="4">
<tr><th>Session</th><th>Status</th><th>Email</th><th>Created</th><th>State</th></tr>
{{range .}}
<tr>
<td>{{.ID}}</td>
<td>{{.PaymentStatus}}</td>
<td>{{.CustomerEmail}}</td>
<td>{{.Timestamp.Format "2006-01-02 15:04:05"}}</td>
<td>{{.State}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

func EntriesReport(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessions, err := app.Ledger.ListAll(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "admin.entries.list", err)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := entriesPage.Execute(w, sessions); err != nil {
			log.Errorf("admin.entries.render: %s", err)
		}
	}
}

type uploadRow struct {
	model.Submission
	Kind  string
	Score string
}

var uploadsPage = template.Must(template.New("uploads").Parse(`<!DOCTYPE html>
<html>
<head><title>Contest entries</title></head>
<body>
<h1>Contest entries</h1>
<table border="1" cellpadding="4">
<tr><th>Name</th><th>Contest</th><th>Submitted</th><th>Kind</th><th>File</th><th>Score</th><th>Time taken</th></tr>
{{range .}}
<tr>
<td>{{.UserName}}</td>
<td>{{.ContestName}}</td>
<td>{{.Timestamp.Format "2006-01-02 15:04:05"}}</td>
<td>{{.Kind}}</td>
<td>{{.OriginalFilename}}</td>
<td>{{.Score}}</td>
<td>{{if .IsTrivia}}{{printf "%.1fs" .TimeTaken}}{{end}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`))

func UploadsReport(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subs, err := app.Uploads.ListAll(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "admin.uploads.list", err)
			return
		}

		rows := make([]uploadRow, len(subs))
		for i, sub := range subs {
			row := uploadRow{Submission: sub, Kind: "file"}
			if sub.IsTrivia() {
				row.Kind = "trivia"
				row.Score = fmt.Sprintf("%d/%d", app.Trivia.Score(sub.TriviaAnswers), app.Trivia.Len())
			}
			rows[i] = row
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := uploadsPage.Execute(w, rows); err != nil {
			log.Errorf("admin.uploads.render: %s", err)
		}
	}
}
