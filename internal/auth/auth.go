// Package auth issues and verifies the session tokens that identify a user
// on mutating calls. Identity always comes from here, never from request
// payloads, so a client cannot act as another participant.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "draft_session"

var ErrUnauthenticated = errors.New("unauthenticated")

// Sessions signs and verifies HMAC session tokens carrying the internal
// user id as the subject claim.
type Sessions struct {
	secret []byte
	ttl    time.Duration
}

func NewSessions(secret string, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Sessions{secret: []byte(secret), ttl: ttl}
}

// Issue creates a signed token for userID.
func (s *Sessions) Issue(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"sub": strconv.FormatInt(userID, 10),
		"exp": time.Now().Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature and expiry and returns the user id.
func (s *Sessions) Verify(tokenString string) (int64, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !t.Valid {
		return 0, ErrUnauthenticated
	}
	sub, err := t.Claims.GetSubject()
	if err != nil {
		return 0, ErrUnauthenticated
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrUnauthenticated
	}
	return id, nil
}

// UserID resolves the requesting user from the session cookie or an
// Authorization bearer token.
func (s *Sessions) UserID(r *http.Request) (int64, error) {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return s.Verify(c.Value)
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return s.Verify(strings.TrimPrefix(h, "Bearer "))
	}
	return 0, ErrUnauthenticated
}

// SetCookie attaches a session cookie for token to the response.
func (s *Sessions) SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
}
