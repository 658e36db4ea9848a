package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/sscott1990/contests-unlimited-sub000/app"
	"github.com/sscott1990/contests-unlimited-sub000/blob"
	"github.com/sscott1990/contests-unlimited-sub000/config"
	"github.com/sscott1990/contests-unlimited-sub000/ledger"
	"github.com/sscott1990/contests-unlimited-sub000/log"
	"github.com/sscott1990/contests-unlimited-sub000/payment"
	"github.com/sscott1990/contests-unlimited-sub000/routes"
	"github.com/sscott1990/contests-unlimited-sub000/trivia"
	"github.com/sscott1990/contests-unlimited-sub000/uploads"
	"github.com/sscott1990/contests-unlimited-sub000/workflow"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	blobs, err := openBlobStore(cfg)
	if err != nil {
		log.Fatal("main.blob.open:", err)
	}
	if closer, ok := blobs.(*blob.SQLiteStore); ok {
		defer closer.Close()
	}

	bank, err := trivia.Load(cfg.TriviaFile)
	if err != nil {
		log.Fatal("main.trivia.load:", err)
	}

	app := app.App{
		Workflow: &workflow.Workflow{
			Ledger:    ledger.New(blobs),
			Uploads:   uploads.New(blobs),
			UploadDir: cfg.UploadDir,
		},
		Gateway: payment.NewStripe(cfg),
		Trivia:  bank,
		Config:  cfg,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func openBlobStore(cfg config.Config) (blob.Store, error) {
	if cfg.Storage == "sqlite" {
		return blob.OpenSQLite(cfg.DBPath)
	}
	return blob.NewFileStore(cfg.DataDir)
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
