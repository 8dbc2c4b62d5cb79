package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ClientCookie carries the signed anonymous client id. It plays the role of
// per-browser storage scoping: results are keyed by the id inside it.
const ClientCookie = "quiz_client"

const identityTTL = 365 * 24 * time.Hour

type ctxKey int

const clientIDKey ctxKey = iota

// Identity issues and verifies anonymous client tokens (HS256).
type Identity struct {
	secret []byte
	now    func() time.Time
}

func NewIdentity(secret string) *Identity {
	return &Identity{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for clientID.
func (i *Identity) Issue(clientID string) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   clientID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(identityTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Verify returns the client id inside a valid token.
func (i *Identity) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	if !parsed.Valid || claims.Subject == "" {
		return "", errors.New("invalid client token")
	}
	return claims.Subject, nil
}

// Middleware attaches the caller's client id to the request context, issuing
// a new identity cookie when none or an invalid one was presented.
func (i *Identity) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(ClientCookie); err == nil {
			if clientID, err := i.Verify(c.Value); err == nil {
				next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), clientID)))
				return
			}
		}

		clientID := uuid.NewString()
		token, err := i.Issue(clientID)
		if err != nil {
			log.Printf("issue client token: %v", err)
			http.Error(w, "identity unavailable", http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     ClientCookie,
			Value:    token,
			Path:     "/",
			Expires:  i.now().Add(identityTTL),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), clientID)))
	})
}

// WithClientID returns a context carrying clientID.
func WithClientID(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, clientIDKey, clientID)
}

// ClientIDFrom extracts the client id set by Identity.Middleware.
func ClientIDFrom(ctx context.Context) string {
	clientID, _ := ctx.Value(clientIDKey).(string)
	return clientID
}
