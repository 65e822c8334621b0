package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lexflow/lexflow-web/internal/models"
	"github.com/lexflow/lexflow-web/internal/service"
	"github.com/lexflow/lexflow-web/internal/view"
)

type FormHandler struct {
	*Responder
	svc       *service.FormService
	publicURL string
}

// NewFormHandler creates the forms controller. publicURL is the base of
// shareable intake links; when empty it is taken from the request.
func NewFormHandler(rs *Responder, svc *service.FormService, publicURL string) *FormHandler {
	return &FormHandler{Responder: rs, svc: svc, publicURL: publicURL}
}

type formsData struct {
	Forms []models.IntakeForm
}

type builderData struct {
	Action     string
	FormID     string
	Draft      service.FormDraft
	FieldTypes []string
}

type formDetailData struct {
	Form            *models.IntakeForm
	SubmissionCount int
	PublicLink      string
	Fields          []service.Field
}

func (h *FormHandler) baseURL(r *http.Request) string {
	if h.publicURL != "" {
		return h.publicURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (h *FormHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, http.StatusOK, "")
}

func (h *FormHandler) list(w http.ResponseWriter, r *http.Request, status int, msg string) {
	forms, err := h.svc.List(r.Context())
	if err != nil {
		h.fetchFailed(r, "forms", err)
	}
	h.render(w, r, status, "forms", view.Page{Title: "Intake Forms", Nav: "forms", Error: msg, Data: formsData{Forms: forms}})
}

func (h *FormHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.detail(w, r, chi.URLParam(r, "formId"), http.StatusOK, "")
}

func (h *FormHandler) detail(w http.ResponseWriter, r *http.Request, id string, status int, msg string) {
	if !validID(id) {
		h.notFound(w, r, "Form", "/dashboard/forms", "Back to Forms")
		return
	}
	d, err := h.svc.Detail(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.notFound(w, r, "Form", "/dashboard/forms", "Back to Forms")
		return
	case err != nil:
		h.fetchFailed(r, "form", err)
		h.render(w, r, status, "form_detail", view.Page{Title: "Form", Nav: "forms", Error: msg, Data: formDetailData{}})
		return
	}
	h.render(w, r, status, "form_detail", view.Page{
		Title: d.Form.Name,
		Nav:   "forms",
		Error: msg,
		Data: formDetailData{
			Form:            d.Form,
			SubmissionCount: d.SubmissionCount,
			PublicLink:      service.PublicLink(h.baseURL(r), d.Form.ID),
			Fields:          service.FieldsFromSchema(d.Form.FieldsSchema),
		},
	})
}

func (h *FormHandler) New(w http.ResponseWriter, r *http.Request) {
	h.builder(w, r, http.StatusOK, "", service.FormDraft{Fields: service.DefaultFields()}, "")
}

func (h *FormHandler) Create(w http.ResponseWriter, r *http.Request) {
	draft, save := parseDraft(r)
	if !save {
		h.builder(w, r, http.StatusOK, "", draft, "")
		return
	}
	if _, err := h.svc.Create(r.Context(), draft); err != nil {
		h.builder(w, r, failureStatus(err), "", draft, service.UserMessage(err, "Failed to create form"))
		return
	}
	seeOther(w, r, "/dashboard/forms")
}

func (h *FormHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "formId")
	if !validID(id) {
		h.notFound(w, r, "Form", "/dashboard/forms", "Back to Forms")
		return
	}
	form, err := h.svc.Get(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.notFound(w, r, "Form", "/dashboard/forms", "Back to Forms")
		return
	case err != nil:
		h.fetchFailed(r, "form", err)
		h.builder(w, r, http.StatusOK, id, service.FormDraft{}, "")
		return
	}
	h.builder(w, r, http.StatusOK, id, service.FormDraft{
		Name:            form.Name,
		Description:     form.Description,
		RetainerAmount:  form.RetainerAmount,
		PaymentRequired: form.PaymentRequired,
		Fields:          service.FieldsFromSchema(form.FieldsSchema),
	}, "")
}

func (h *FormHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "formId")
	if !validID(id) {
		h.notFound(w, r, "Form", "/dashboard/forms", "Back to Forms")
		return
	}
	draft, save := parseDraft(r)
	if !save {
		h.builder(w, r, http.StatusOK, id, draft, "")
		return
	}
	_, err := h.svc.Update(r.Context(), id, draft)
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.notFound(w, r, "Form", "/dashboard/forms", "Back to Forms")
		return
	case err != nil:
		h.builder(w, r, failureStatus(err), id, draft, service.UserMessage(err, "Failed to update form"))
		return
	}
	seeOther(w, r, "/dashboard/forms/"+id)
}

// Toggle flips the active flag and returns to the page that asked for it.
func (h *FormHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "formId")
	if !validID(id) {
		h.notFound(w, r, "Form", "/dashboard/forms", "Back to Forms")
		return
	}
	back := "/dashboard/forms/" + id
	fromList := r.PostFormValue("return") == "/dashboard/forms"
	if fromList {
		back = "/dashboard/forms"
	}

	form, err := h.svc.Get(r.Context(), id)
	if err == nil {
		_, err = h.svc.ToggleActive(r.Context(), form)
	}
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.notFound(w, r, "Form", "/dashboard/forms", "Back to Forms")
	case err != nil:
		h.log(r).Warn("toggle form", zap.String("form_id", id), zap.Error(err))
		msg := service.UserMessage(err, "Failed to update form status")
		if fromList {
			h.list(w, r, failureStatus(err), msg)
		} else {
			h.detail(w, r, id, failureStatus(err), msg)
		}
	default:
		seeOther(w, r, back)
	}
}

func (h *FormHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "formId")
	if !validID(id) {
		h.notFound(w, r, "Form", "/dashboard/forms", "Back to Forms")
		return
	}
	err := h.svc.Delete(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.notFound(w, r, "Form", "/dashboard/forms", "Back to Forms")
	case err != nil:
		h.log(r).Warn("delete form", zap.String("form_id", id), zap.Error(err))
		h.detail(w, r, id, failureStatus(err), service.UserMessage(err, "Failed to delete form"))
	default:
		seeOther(w, r, "/dashboard/forms")
	}
}

func (h *FormHandler) builder(w http.ResponseWriter, r *http.Request, status int, id string, draft service.FormDraft, msg string) {
	title, action := "Create Intake Form", "/dashboard/forms/new"
	if id != "" {
		title, action = "Edit Intake Form", "/dashboard/forms/"+id+"/edit"
	}
	h.render(w, r, status, "form_builder", view.Page{
		Title: title,
		Nav:   "forms",
		Error: msg,
		Data: builderData{
			Action:     action,
			FormID:     id,
			Draft:      draft,
			FieldTypes: service.FieldTypes,
		},
	})
}

const maxFields = 100

// parseDraft reads the builder form. The builder has no script: adding or
// removing a row is a submit with action=add or action=remove:N, and only
// action=save (or none) asks for the draft to be stored.
func parseDraft(r *http.Request) (service.FormDraft, bool) {
	draft := service.FormDraft{
		Name:            r.PostFormValue("name"),
		Description:     r.PostFormValue("description"),
		RetainerAmount:  r.PostFormValue("retainer_amount"),
		PaymentRequired: r.PostFormValue("payment_required") != "",
	}
	count, _ := strconv.Atoi(r.PostFormValue("field_count"))
	count = min(max(count, 0), maxFields)
	for i := 0; i < count; i++ {
		prefix := "fields." + strconv.Itoa(i) + "."
		draft.Fields = append(draft.Fields, service.Field{
			Name:     strings.TrimSpace(r.PostFormValue(prefix + "name")),
			Label:    strings.TrimSpace(r.PostFormValue(prefix + "label")),
			Type:     fieldType(r.PostFormValue(prefix + "type")),
			Required: r.PostFormValue(prefix+"required") != "",
		})
	}

	action := r.PostFormValue("action")
	switch {
	case action == "add":
		draft.Fields = append(draft.Fields, service.Field{Type: "text"})
		return draft, false
	case strings.HasPrefix(action, "remove:"):
		if i, err := strconv.Atoi(strings.TrimPrefix(action, "remove:")); err == nil && i >= 0 && i < len(draft.Fields) {
			draft.Fields = append(draft.Fields[:i], draft.Fields[i+1:]...)
		}
		return draft, false
	}
	return draft, true
}

func fieldType(t string) string {
	for _, ft := range service.FieldTypes {
		if ft == t {
			return t
		}
	}
	return "text"
}
