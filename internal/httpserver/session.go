// internal/httpserver/session.go
//
// Session handles for game boards.
// A new game hands the client an HS256 JWT whose subject is the game id.
// Every /game/{id} request must present a token for that id, either as
// "Authorization: Bearer <token>", a ?token= query parameter (websockets),
// or the per-game cookie set by POST /game/new.

package httpserver

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

const sessionCookieName = "tile_session"

var errWrongGame = errors.New("token is for another game")

// Sessions signs and verifies game session tokens.
type Sessions struct {
	secret  []byte
	expires time.Duration
	now     func() time.Time
}

// NewSessions returns a signer using secret. expires <= 0 means 24h.
func NewSessions(secret string, expires time.Duration) *Sessions {
	if expires <= 0 {
		expires = 24 * time.Hour
	}
	return &Sessions{secret: []byte(secret), expires: expires, now: time.Now}
}

// Sign creates a token bound to gameID.
func (s *Sessions) Sign(gameID string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.expires)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   gameID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
	})
	ss, err := t.SignedString(s.secret)
	return ss, exp, err
}

// Verify checks the signature and expiry and returns the game id.
func (s *Sessions) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	t, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return "", err
	}
	if !t.Valid || claims.Subject == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return claims.Subject, nil
}

// ctxGameKey is the context key type for the verified game id.
type ctxGameKey struct{}

// requireSession enforces a valid token for the {id} in the route.
func (s *Server) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := tokenFromRequest(r)
		if tok == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing session token")
			return
		}
		id, err := s.sessions.Verify(tok)
		if err == nil && id != chi.URLParam(r, "id") {
			err = errWrongGame
		}
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token", err.Error())
			return
		}
		ctx := context.WithValue(r.Context(), ctxGameKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// tokenFromRequest extracts a token from the Authorization header, the
// token query parameter, or the session cookie, in that order.
func tokenFromRequest(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if t := r.URL.Query().Get("token"); t != "" {
		return t
	}
	if c, err := r.Cookie(sessionCookieName); err == nil {
		return c.Value
	}
	return ""
}

// setSessionCookie scopes the token cookie to the game's own path.
func setSessionCookie(w http.ResponseWriter, gameID, token string, exp time.Time) {
	secure := os.Getenv("NODE_ENV") == "production"
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/game/" + gameID,
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
	})
}

// gameIDFrom returns the game id verified by requireSession.
func gameIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxGameKey{}).(string)
	return id
}
