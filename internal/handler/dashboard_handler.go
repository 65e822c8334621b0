package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lexflow/lexflow-web/internal/models"
	"github.com/lexflow/lexflow-web/internal/service"
	"github.com/lexflow/lexflow-web/internal/view"
)

type DashboardHandler struct {
	*Responder
	stats    *service.DashboardService
	settings *service.SettingsService
}

func NewDashboardHandler(rs *Responder, stats *service.DashboardService, settings *service.SettingsService) *DashboardHandler {
	return &DashboardHandler{Responder: rs, stats: stats, settings: settings}
}

type dashboardData struct {
	Stats service.Stats
}

type settingsData struct {
	Firm *models.Firm
}

func (h *DashboardHandler) Index(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Stats(r.Context())
	if err != nil {
		h.fetchFailed(r, "dashboard stats", err)
	}
	h.render(w, r, http.StatusOK, "dashboard", view.Page{Title: "Dashboard", Nav: "dashboard", Data: dashboardData{Stats: stats}})
}

func (h *DashboardHandler) Settings(w http.ResponseWriter, r *http.Request) {
	firm, err := h.settings.Firm(r.Context())
	if err != nil {
		h.fetchFailed(r, "firm", err)
	}
	h.render(w, r, http.StatusOK, "settings", view.Page{Title: "Settings", Nav: "settings", Data: settingsData{Firm: firm}})
}

func (h *DashboardHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	upd := models.FirmUpdate{
		Name:    r.PostFormValue("name"),
		Email:   r.PostFormValue("email"),
		Phone:   r.PostFormValue("phone"),
		Address: r.PostFormValue("address"),
	}
	firm, msg, err := h.settings.Save(r.Context(), upd)
	if err != nil {
		h.log(r).Warn("save settings", zap.Error(err))
		h.render(w, r, failureStatus(err), "settings", view.Page{
			Title: "Settings",
			Nav:   "settings",
			Error: msg,
			Data:  settingsData{Firm: &models.Firm{Name: upd.Name, Email: upd.Email, Phone: upd.Phone, Address: upd.Address}},
		})
		return
	}
	h.render(w, r, http.StatusOK, "settings", view.Page{Title: "Settings", Nav: "settings", Notice: msg, Data: settingsData{Firm: firm}})
}
