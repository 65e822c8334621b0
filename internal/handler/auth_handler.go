package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lexflow/lexflow-web/internal/auth"
	"github.com/lexflow/lexflow-web/internal/backend"
	"github.com/lexflow/lexflow-web/internal/models"
	"github.com/lexflow/lexflow-web/internal/service"
	"github.com/lexflow/lexflow-web/internal/view"
)

type AuthHandler struct {
	*Responder
	svc      *service.AuthService
	sessions *auth.Sessions
}

func NewAuthHandler(rs *Responder, svc *service.AuthService, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{Responder: rs, svc: svc, sessions: sessions}
}

type loginData struct {
	Email string
	Next  string
}

type registerData struct {
	FullName string
	FirmName string
	Email    string
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Query().Get("next")
	if h.sessions.FromRequest(r) != nil {
		seeOther(w, r, safeNext(next))
		return
	}
	h.render(w, r, http.StatusOK, "login", view.Page{Title: "Sign In", Data: loginData{Next: next}})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.PostFormValue("email")
	next := r.PostFormValue("next")

	sess, err := h.svc.Login(r.Context(), email, r.PostFormValue("password"))
	if err != nil {
		if !service.Invalid(err) && !backend.IsUnauthorized(err) {
			h.log(r).Warn("login failed", zap.Error(err))
		}
		h.render(w, r, failureStatus(err), "login", view.Page{
			Title: "Sign In",
			Error: service.UserMessage(err, "Login failed. Please check your credentials."),
			Data:  loginData{Email: email, Next: next},
		})
		return
	}
	h.sessions.SetCookie(w, sess.Cookie, sess.Expires)
	seeOther(w, r, safeNext(next))
}

func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if h.sessions.FromRequest(r) != nil {
		seeOther(w, r, "/dashboard")
		return
	}
	h.render(w, r, http.StatusOK, "register", view.Page{Title: "Create Account", Data: registerData{}})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	reg := models.Registration{
		Email:    r.PostFormValue("email"),
		FullName: r.PostFormValue("full_name"),
		FirmName: r.PostFormValue("firm_name"),
		Password: r.PostFormValue("password"),
	}
	sess, err := h.svc.Register(r.Context(), reg)
	if err != nil {
		h.render(w, r, failureStatus(err), "register", view.Page{
			Title: "Create Account",
			Error: service.UserMessage(err, "Registration failed. Please try again."),
			Data:  registerData{FullName: reg.FullName, FirmName: reg.FirmName, Email: reg.Email},
		})
		return
	}
	h.sessions.SetCookie(w, sess.Cookie, sess.Expires)
	seeOther(w, r, "/dashboard")
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.ClearCookie(w)
	seeOther(w, r, "/login")
}

// CurrentUser loads the signed-in attorney for the dashboard layout. A
// session the backend no longer accepts is dropped.
func (h *AuthHandler) CurrentUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := h.svc.Me(r.Context())
		if err != nil {
			if !backend.IsUnauthorized(err) {
				h.log(r).Warn("load current user", zap.Error(err))
			}
			h.sessions.ClearCookie(w)
			seeOther(w, r, auth.LoginURL(r.URL.RequestURI()))
			return
		}
		name := user.FullName
		if name == "" {
			name = user.Email
		}
		next.ServeHTTP(w, r.WithContext(withUserName(r.Context(), name)))
	})
}
