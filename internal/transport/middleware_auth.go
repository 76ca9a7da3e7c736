package transport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"event-discovery/internal/auth"
	"event-discovery/internal/domain"

	fbauth "firebase.google.com/go/v4/auth"
)

// TokenVerifier checks Firebase ID tokens. *auth.Client from the Admin SDK
// satisfies it.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

// WithAuthProtection is a middleware that enforces the "Interim State" logic:
// 1. Authenticated Users (with a valid Token) -> Full Access, user in context
// 2. Guest Users (No Token) -> Read Only Access (GET) IF publicRead is true
// 3. Otherwise -> 401 Unauthorized
func WithAuthProtection(next http.Handler, verifier TokenVerifier, publicRead bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/healthz" {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if idToken, ok := strings.CutPrefix(authHeader, "Bearer "); ok && strings.TrimSpace(idToken) != "" {
			token, err := verifier.VerifyIDToken(r.Context(), strings.TrimSpace(idToken))
			if err != nil {
				slog.Debug("rejected id token", "error", err)
				respondError(w, domain.ErrUnauthorized)
				return
			}
			ctx := auth.WithUser(r.Context(), userFromToken(token))
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		// Guest Access Logic
		if publicRead && r.Method == http.MethodGet {
			w.Header().Set("X-Access-Type", "Public-Preview")
			next.ServeHTTP(w, r)
			return
		}

		respondError(w, domain.ErrUnauthorized)
	})
}

func userFromToken(token *fbauth.Token) *auth.User {
	claim := func(name string) string {
		s, _ := token.Claims[name].(string)
		return s
	}
	return &auth.User{
		UID:     token.UID,
		Email:   claim("email"),
		Name:    claim("name"),
		Picture: claim("picture"),
	}
}
