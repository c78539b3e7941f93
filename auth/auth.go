// Package auth keeps the logged-in user in a signed session cookie. The
// cookie holds an HS256 JWT whose subject is the user id.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/diewo77/go-vertrieb/httpx"
	"github.com/golang-jwt/jwt/v5"
)

type ctxKey string

const (
	sessionCookieName = "session"
	userIDCtxKey      = ctxKey("userID")
	issuer            = "vertrieb"
)

// DefaultSessionTTL is how long a login stays valid.
const DefaultSessionTTL = 14 * 24 * time.Hour

var ErrInvalidSession = errors.New("invalid session")

// UserVerifier reports whether a session's user still exists and may log in.
type UserVerifier func(ctx context.Context, uid uint) bool

// Sessions issues and checks session cookies.
type Sessions struct {
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
	verifier UserVerifier
	secure   bool
}

func NewSessions(secret string, ttl time.Duration) *Sessions {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &Sessions{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// SetUserVerifier makes RequireAuth reject sessions of removed or
// deactivated users.
func (s *Sessions) SetUserVerifier(v UserVerifier) { s.verifier = v }

// SetSecureCookies marks cookies Secure; enable behind TLS.
func (s *Sessions) SetSecureCookies(secure bool) { s.secure = secure }

// Token signs a session token for userID.
func (s *Sessions) Token(userID uint) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ParseToken validates a session token and returns its user id.
func (s *Sessions) ParseToken(token string) (uint, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSession, err)
	}
	if claims.Issuer != issuer {
		return 0, fmt.Errorf("%w: issuer %q", ErrInvalidSession, claims.Issuer)
	}
	if claims.ExpiresAt == nil || !claims.ExpiresAt.Time.After(s.now()) {
		return 0, fmt.Errorf("%w: expired", ErrInvalidSession)
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: subject %q", ErrInvalidSession, claims.Subject)
	}
	return uint(id), nil
}

// CreateSession sets the session cookie for userID.
func (s *Sessions) CreateSession(w http.ResponseWriter, userID uint) error {
	token, err := s.Token(userID)
	if err != nil {
		return fmt.Errorf("sign session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  s.now().Add(s.ttl),
	})
	return nil
}

// ClearSession deletes the session cookie.
func (s *Sessions) ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ParseSession reads the user id from the request's cookie.
func (s *Sessions) ParseSession(r *http.Request) (uint, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return 0, false
	}
	uid, err := s.ParseToken(c.Value)
	if err != nil {
		return 0, false
	}
	return uid, true
}

func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDCtxKey).(uint)
	return id, ok && id != 0
}

// Middleware attaches the session's user id to the request context.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if uid, ok := s.ParseSession(r); ok {
			r = r.WithContext(WithUserID(r.Context(), uid))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth answers 401 unless Middleware found a valid session for a
// user the verifier accepts.
func (s *Sessions) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		if s.verifier != nil && !s.verifier(r.Context(), uid) {
			s.ClearSession(w)
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
