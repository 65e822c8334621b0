package handler

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/lexflow/lexflow-web/internal/view"
)

type healthChecker interface {
	Healthy() bool
}

// PageHandler serves the static marketing pages and the health probe.
type PageHandler struct {
	*Responder
	health healthChecker
}

func NewPageHandler(rs *Responder, health healthChecker) *PageHandler {
	return &PageHandler{Responder: rs, health: health}
}

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "home", view.Page{})
}

func (h *PageHandler) HowItWorks(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "how_it_works", view.Page{Title: "How It Works"})
}

func (h *PageHandler) PaymentCancelled(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "payment_cancelled", view.Page{Title: "Payment Cancelled"})
}

func (h *PageHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.notFound(w, r, "Page", "/", "Go Home")
}

// Health reports whether the backend answered its last ping. The web tier
// itself is up if this responds at all.
func (h *PageHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok", "backend": "up"}
	if !h.health.Healthy() {
		resp = map[string]string{"status": "degraded", "backend": "down"}
		render.Status(r, http.StatusServiceUnavailable)
	}
	render.JSON(w, r, resp)
}
