package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"sorha/internal/domain/auth"
)

// SessionCookie carries the opaque session token. Only its hash ever
// reaches storage.
const SessionCookie = "sorha_session"

type ctxKey string

const ctxKeyUser ctxKey = "session_user"

type SessionStore interface {
	LookupSession(ctx context.Context, tokenHash string) (auth.SessionUser, error)
}

// Session resolves the cookie into a user and attaches it to the
// request context. Requests without a valid session pass through
// anonymous; the capability gates decide what they may reach.
func Session(store SessionStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := store.LookupSession(r.Context(), auth.HashToken(cookie.Value))
			if err != nil {
				if !errors.Is(err, auth.ErrSessionNotFound) {
					slog.Warn("session lookup failed", "err", err, "requestId", GetRequestID(r.Context()))
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) (auth.SessionUser, bool) {
	user, ok := ctx.Value(ctxKeyUser).(auth.SessionUser)
	return user, ok
}

// WithUser is a test hook for handlers that expect an authenticated
// context.
func WithUser(ctx context.Context, user auth.SessionUser) context.Context {
	return context.WithValue(ctx, ctxKeyUser, user)
}
