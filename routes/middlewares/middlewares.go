package middlewares

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/sscott1990/contests-unlimited-sub000/config"
)

// BasicAuth gates the admin reports. The password is configured as a
// bcrypt hash, never in the clear.
func BasicAuth(cfg config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			if !ok ||
				user != cfg.AdminUser ||
				bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte(pass)) != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="admin"`)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
