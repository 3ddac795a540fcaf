package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vadimbarashkov/link-shortener/internal/entity"
	"github.com/vadimbarashkov/link-shortener/pkg/middleware"
)

const defaultCookieName = "session"

// AuthConfig configures session token verification. Sessions are HS256 JWTs
// whose subject is the user id.
type AuthConfig struct {
	JWTSecret  string
	CookieName string
}

type userIDKey struct{}

// identify stores the user id of a valid session token in the request
// context. Requests without a valid token continue anonymously.
func identify(cfg AuthConfig, logger *slog.Logger) middleware.Middleware {
	secret := []byte(cfg.JWTSecret)
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = defaultCookieName
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := sessionToken(r, cookieName)
			if token == "" || len(secret) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := verify(token, secret)
			if err != nil {
				logger.Debug("session token rejected", slog.Any("err", err))
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionToken(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}

	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ""
}

func verify(token string, secret []byte) (string, error) {
	claims := &jwt.RegisteredClaims{}

	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", jwt.ErrTokenInvalidClaims
	}

	return claims.Subject, nil
}

// identityFrom builds the caller identity. The fingerprint comes from the
// client as-is and is not verified.
func identityFrom(r *http.Request, fingerprint string) entity.Identity {
	userID, _ := r.Context().Value(userIDKey{}).(string)

	return entity.Identity{
		UserID:      userID,
		Fingerprint: fingerprint,
	}
}
