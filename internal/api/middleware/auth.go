package middleware

import (
	"context"
	"net/http"

	"github.com/lonnieqin/chatapi/internal/api/services"
	"github.com/lonnieqin/chatapi/internal/models"
	"github.com/lonnieqin/chatapi/internal/utils"
)

type contextKey string

const userKey contextKey = "user"

// APIKeyAuth resolves the API_KEY header to a user row and stores it on the
// request context. Handlers still compare the resolved user against whatever
// user id the request body declares; this middleware only proves the token
// belongs to somebody.
func APIKeyAuth(auth *services.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			user, err := auth.AuthenticateWithAPIKey(r.Header.Get("API_KEY"))
			if err != nil {
				utils.JSONError(w, http.StatusInternalServerError, "Database error")
				return
			}
			if user == nil {
				utils.JSONError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), userKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the authenticated user placed by APIKeyAuth, or nil.
func UserFromContext(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}
