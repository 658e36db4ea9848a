package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sscott1990/contests-unlimited-sub000/app"
	"github.com/sscott1990/contests-unlimited-sub000/routes/middlewares"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Post("/create-checkout-session", CreateCheckoutSession(app))
	root.Post("/webhook", Webhook(app))
	root.Post("/upload", Upload(app))
	root.Get("/api/trivia", TriviaQuestions(app))

	root.Route("/admin", func(r chi.Router) {
		r.Use(middlewares.BasicAuth(app.Config))
		r.Get("/entries", EntriesReport(app))
		r.Get("/uploads", UploadsReport(app))
	})

	root.Mount("/", servePublicFiles())

	return root
}

func servePublicFiles() http.Handler {
	return http.FileServer(http.Dir("public"))
}
