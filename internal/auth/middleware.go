package auth

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/lexflow/lexflow-web/internal/backend"
)

const CookieName = "lexflow_session"

type contextKey string

const UserContextKey contextKey = "user"

func (s *Sessions) SetCookie(w http.ResponseWriter, value string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Sessions) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// FromRequest returns the claims of a valid session cookie, or nil.
func (s *Sessions) FromRequest(r *http.Request) *Claims {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	claims, err := s.Validate(c.Value)
	if err != nil {
		return nil
	}
	return claims
}

// Require sends visitors without a valid session to /login. Downstream
// handlers find the claims via GetUser and backend calls carry the token.
func (s *Sessions) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := s.FromRequest(r)
		if claims == nil {
			s.ClearCookie(w)
			http.Redirect(w, r, LoginURL(r.URL.RequestURI()), http.StatusSeeOther)
			return
		}
		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		ctx = backend.WithToken(ctx, claims.APIToken)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LoginURL is the login page, returning to next afterwards.
func LoginURL(next string) string {
	if next == "" || next == "/" {
		return "/login"
	}
	return "/login?next=" + url.QueryEscape(next)
}

func GetUser(ctx context.Context) *Claims {
	claims, _ := ctx.Value(UserContextKey).(*Claims)
	return claims
}
