package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lexflow/lexflow-web/internal/models"
	"github.com/lexflow/lexflow-web/internal/service"
	"github.com/lexflow/lexflow-web/internal/view"
)

type ClientHandler struct {
	*Responder
	svc *service.ClientService
}

func NewClientHandler(rs *Responder, svc *service.ClientService) *ClientHandler {
	return &ClientHandler{Responder: rs, svc: svc}
}

type clientsData struct {
	Clients []models.Client
}

type clientDetailData struct {
	Client      *models.Client
	Submissions []models.Submission
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	data := clientsData{}
	list, err := h.svc.List(r.Context())
	if err != nil {
		h.fetchFailed(r, "clients", err)
	} else {
		data.Clients = list.Items
	}
	h.render(w, r, http.StatusOK, "clients", view.Page{Title: "Clients", Nav: "clients", Data: data})
}

func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "clientId")
	if !validID(id) {
		h.notFound(w, r, "Client", "/dashboard/clients", "Back to Clients")
		return
	}
	d, err := h.svc.Detail(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.notFound(w, r, "Client", "/dashboard/clients", "Back to Clients")
		return
	case err != nil:
		h.fetchFailed(r, "client", err)
		h.render(w, r, http.StatusOK, "client_detail", view.Page{Title: "Client", Nav: "clients", Data: clientDetailData{}})
		return
	}
	h.render(w, r, http.StatusOK, "client_detail", view.Page{
		Title: d.Client.FullName(),
		Nav:   "clients",
		Data:  clientDetailData{Client: d.Client, Submissions: d.Submissions},
	})
}
