package auth

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

var ErrBackendTokenExpired = errors.New("backend token already expired")

// Claims is the session cookie payload. APIToken is the backend bearer
// token the session was opened with.
type Claims struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	APIToken string `json:"apiToken"`
	jwt.RegisteredClaims
}

// Sessions signs and validates session cookies.
type Sessions struct {
	key    []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// DeriveKey stretches the configured secret into a 32 byte HMAC key.
func DeriveKey(secret string) ([]byte, error) {
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte("lexflow-web session"))
	key := make([]byte, 32)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, fmt.Errorf("derive session key: %w", err)
	}
	return key, nil
}

func NewSessions(secret string, ttl time.Duration, secure bool) (*Sessions, error) {
	key, err := DeriveKey(secret)
	if err != nil {
		return nil, err
	}
	return &Sessions{key: key, ttl: ttl, secure: secure, now: time.Now}, nil
}

// Issue signs a session for the user. It expires after the session TTL or
// when the backend token does, whichever comes first.
func (s *Sessions) Issue(userID, email, name, apiToken string) (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	if bexp, ok := backendExpiry(apiToken); ok {
		if !bexp.After(now) {
			return "", time.Time{}, ErrBackendTokenExpired
		}
		if bexp.Before(exp) {
			exp = bexp
		}
	}
	claims := Claims{
		UserID:   userID,
		Email:    email,
		Name:     name,
		APIToken: apiToken,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (s *Sessions) Validate(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (any, error) {
		return s.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.APIToken == "" {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}

// backendExpiry reads exp from the backend's own JWT without verifying it;
// the backend owns that key. Opaque tokens report no expiry.
func backendExpiry(tok string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
