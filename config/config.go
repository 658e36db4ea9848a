package config

import (
	"errors"
	"flag"
	"net"
	"os"
	"regexp"
	"strconv"
)

type Config struct {
	Addr string

	// Storage selects the blob backend: "file" or "sqlite".
	Storage   string
	DataDir   string
	DBPath    string
	UploadDir string

	TriviaFile string

	StripeSecretKey     string
	StripeWebhookSecret string
	StripePrice         string
	SuccessURL          string
	CancelURL           string

	AdminUser         string
	AdminPasswordHash string

	Debug bool
}

func ParseFlags() (cfg Config, err error) {
	var host string
	flag.StringVar(&host, "host", "0.0.0.0", "listen host name (default 0.0.0.0)")
	var port uint
	flag.UintVar(&port, "port", 80, "listen port number (default 80)")
	flag.StringVar(&cfg.Storage, "storage", "file", "blob storage backend: file or sqlite (default file)")
	flag.StringVar(&cfg.DataDir, "data-dir", "data", "directory for JSON documents with the file backend (default data)")
	flag.StringVar(&cfg.DBPath, "db-path", "contests.sqlite", "path to SQLite3 DB file with the sqlite backend (default contests.sqlite)")
	flag.StringVar(&cfg.UploadDir, "upload-dir", "uploads", "directory for uploaded contest files (default uploads)")
	flag.StringVar(&cfg.TriviaFile, "trivia-file", "trivia.json", "path to the trivia question bank (default trivia.json)")
	flag.StringVar(&cfg.StripeSecretKey, "stripe-key", os.Getenv("STRIPE_SECRET_KEY"), "Stripe secret API key (default $STRIPE_SECRET_KEY)")
	flag.StringVar(&cfg.StripeWebhookSecret, "stripe-webhook-secret", os.Getenv("STRIPE_WEBHOOK_SECRET"), "Stripe webhook signing secret (default $STRIPE_WEBHOOK_SECRET)")
	flag.StringVar(&cfg.StripePrice, "stripe-price", "", "Stripe price id for one contest entry")
	flag.StringVar(&cfg.SuccessURL, "success-url", "http://localhost/success.html", "checkout success redirect URL")
	flag.StringVar(&cfg.CancelURL, "cancel-url", "http://localhost/cancel.html", "checkout cancel redirect URL")
	flag.StringVar(&cfg.AdminUser, "admin-user", "admin", "admin report username (default admin)")
	flag.StringVar(&cfg.AdminPasswordHash, "admin-password-hash", "", "bcrypt hash of the admin report password")
	flag.BoolVar(&cfg.Debug, "debug", false, "log at DEBUG level")
	flag.Parse()

	cfg.Addr = net.JoinHostPort(host, strconv.Itoa(int(port)))

	switch cfg.Storage {
	case "file", "sqlite":
	default:
		return cfg, errors.New("invalid parameter -storage: must be file or sqlite")
	}
	if cfg.StripeSecretKey == "" {
		return cfg, errors.New("missing parameter -stripe-key")
	}
	if cfg.StripeWebhookSecret == "" {
		return cfg, errors.New("missing parameter -stripe-webhook-secret")
	}
	if cfg.StripePrice == "" {
		return cfg, errors.New("missing parameter -stripe-price")
	}
	if cfg.AdminPasswordHash == "" {
		return cfg, errors.New("missing parameter -admin-password-hash")
	}

	return
}

func (cfg Config) Url() (url string) {
	url = cfg.Addr
	url = regexp.MustCompile(`^0.0.0.0`).ReplaceAllString(url, "localhost")
	url = "http://" + url
	return
}
