package auth

import (
	"context"
	"log"
	"net/http"

	"github.com/lightmail/lightmail/internal/session"
)

type contextKey string

// SessionKey is the context key used to store the authenticated session.
const SessionKey contextKey = "session"

// RequireSession middleware resolves the session cookie against the store
// and puts the live session on the request context for downstream handlers.
// Requests without a live session get 401 Unauthorized; redirecting the
// user to the login form is the UI's job, not the core's.
func RequireSession(store *session.Store, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := session.FromRequest(r)
		if !ok {
			log.Println("Auth: No session cookie present")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		sess, ok := store.Get(id)
		if !ok {
			log.Printf("Auth: Unknown session id %s", id)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), SessionKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionFromContext returns the session stored by RequireSession.
func GetSessionFromContext(ctx context.Context) (*session.Session, bool) {
	sess, ok := ctx.Value(SessionKey).(*session.Session)
	return sess, ok
}
