package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// CookieName is the console session cookie
const CookieName = "fitpay_session"

// ErrInvalidCredentials is returned for a wrong e-mail or password.
var ErrInvalidCredentials = errors.New("invalid credentials")

type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticator checks the single admin login of the console and mints the
// HS256 session tokens kept in the session cookie.
type Authenticator struct {
	email  string
	hash   []byte
	secret []byte
	ttl    time.Duration

	// Now is replaced in tests.
	Now func() time.Time
}

// NewAuthenticator creates an authenticator. With an empty passwordHash the
// console runs without login.
func NewAuthenticator(email, passwordHash, secret string, ttl time.Duration) *Authenticator {
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &Authenticator{
		email:  strings.TrimSpace(email),
		hash:   []byte(passwordHash),
		secret: []byte(secret),
		ttl:    ttl,
		Now:    time.Now,
	}
}

// Enabled reports whether a login is required.
func (a *Authenticator) Enabled() bool {
	return a != nil && len(a.hash) > 0
}

// TTL returns the session lifetime.
func (a *Authenticator) TTL() time.Duration {
	return a.ttl
}

// Login checks the credentials and returns a session token.
func (a *Authenticator) Login(email, password string) (string, error) {
	if !strings.EqualFold(strings.TrimSpace(email), a.email) {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	return a.Mint(a.email)
}

// Mint signs a session token for email.
func (a *Authenticator) Mint(email string) (string, error) {
	now := a.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	return token.SignedString(a.secret)
}

// Parse validates a session token.
func (a *Authenticator) Parse(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.Now))
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
