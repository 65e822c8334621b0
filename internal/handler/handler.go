// Package handler holds the HTTP controllers. Each one reads the session,
// calls a service and renders a page; none keeps state between requests.
package handler

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lexflow/lexflow-web/internal/auth"
	"github.com/lexflow/lexflow-web/internal/backend"
	"github.com/lexflow/lexflow-web/internal/service"
	"github.com/lexflow/lexflow-web/internal/view"
)

// Responder renders pages for every handler.
type Responder struct {
	views  *view.Renderer
	logger *zap.Logger
}

func NewResponder(views *view.Renderer, logger *zap.Logger) *Responder {
	return &Responder{views: views, logger: logger}
}

type userNameKey struct{}

func withUserName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, userNameKey{}, name)
}

// userName is the attorney shown in the sidebar, or "" on public pages.
func userName(ctx context.Context) string {
	if name, ok := ctx.Value(userNameKey{}).(string); ok && name != "" {
		return name
	}
	if claims := auth.GetUser(ctx); claims != nil {
		if claims.Name != "" {
			return claims.Name
		}
		return claims.Email
	}
	return ""
}

func (rs *Responder) render(w http.ResponseWriter, r *http.Request, status int, name string, p view.Page) {
	p.CSRF = auth.CSRFToken(r.Context())
	if p.User == "" {
		p.User = userName(r.Context())
	}
	var buf bytes.Buffer
	if err := rs.views.Render(&buf, name, p); err != nil {
		rs.log(r).Error("render page", zap.String("page", name), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

type notFoundData struct {
	Heading   string
	Message   string
	Back      string
	BackLabel string
}

func (rs *Responder) notFound(w http.ResponseWriter, r *http.Request, what, back, backLabel string) {
	rs.render(w, r, http.StatusNotFound, "not_found", view.Page{
		Title: "Not Found",
		Data: notFoundData{
			Heading:   what + " Not Found",
			Message:   "The " + strings.ToLower(what) + " you're looking for doesn't exist or is no longer available.",
			Back:      back,
			BackLabel: backLabel,
		},
	})
}

// fetchFailed logs a read that did not succeed. The page still renders,
// just without the data.
func (rs *Responder) fetchFailed(r *http.Request, what string, err error) {
	rs.log(r).Error("fetch "+what, zap.Error(err))
}

func (rs *Responder) log(r *http.Request) *zap.Logger {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return rs.logger.With(zap.String("request_id", id))
	}
	return rs.logger
}

// failureStatus is the status of a page re-rendered with an error banner.
func failureStatus(err error) int {
	status := backend.StatusOf(err)
	switch {
	case status >= 400 && status < 500:
		return status
	case status == 0 && service.Invalid(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

// validID reports whether id looks like a backend primary key. Anything
// else is answered with the not-found page without asking the backend.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/dashboard"
	}
	return next
}

func seeOther(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}
