package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lexflow/lexflow-web/internal/models"
	"github.com/lexflow/lexflow-web/internal/service"
	"github.com/lexflow/lexflow-web/internal/view"
)

// IntakeHandler serves the public form a client fills out.
type IntakeHandler struct {
	*Responder
	svc *service.IntakeService
}

func NewIntakeHandler(rs *Responder, svc *service.IntakeService) *IntakeHandler {
	return &IntakeHandler{Responder: rs, svc: svc}
}

type intakeFormData struct {
	Form   *models.IntakeForm
	Inputs []service.Input
	Done   bool
}

type intakeSuccessData struct {
	Submission *models.Submission
	Steps      []service.Step
}

// load fetches the form named in the path. It writes the response itself
// and returns nil when there is nothing to show.
func (h *IntakeHandler) load(w http.ResponseWriter, r *http.Request) *models.IntakeForm {
	id := chi.URLParam(r, "formId")
	if !validID(id) {
		h.notFound(w, r, "Form", "/", "Go Home")
		return nil
	}
	form, err := h.svc.Form(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.notFound(w, r, "Form", "/", "Go Home")
		return nil
	case err != nil:
		h.fetchFailed(r, "intake form", err)
		h.render(w, r, http.StatusOK, "intake_form", view.Page{Title: "Intake Form", Data: intakeFormData{}})
		return nil
	}
	return form
}

func (h *IntakeHandler) Form(w http.ResponseWriter, r *http.Request) {
	form := h.load(w, r)
	if form == nil {
		return
	}
	h.render(w, r, http.StatusOK, "intake_form", view.Page{
		Title: form.Name,
		Data:  intakeFormData{Form: form, Inputs: service.RenderFields(form)},
	})
}

func (h *IntakeHandler) Submit(w http.ResponseWriter, r *http.Request) {
	form := h.load(w, r)
	if form == nil {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form body", http.StatusBadRequest)
		return
	}

	out, err := h.svc.Submit(r.Context(), form, r.PostForm)
	if err != nil {
		inputs := service.RenderFields(form)
		for i := range inputs {
			inputs[i].Value = r.PostForm.Get(inputs[i].Name)
		}
		h.render(w, r, failureStatus(err), "intake_form", view.Page{
			Title: form.Name,
			Error: service.UserMessage(err, "Failed to submit form. Please try again."),
			Data:  intakeFormData{Form: form, Inputs: inputs},
		})
		return
	}

	if out.Dest == service.DestLocal {
		h.render(w, r, http.StatusOK, "intake_form", view.Page{
			Title: form.Name,
			Data:  intakeFormData{Form: form, Done: true},
		})
		return
	}
	seeOther(w, r, out.Redirect)
}

func (h *IntakeHandler) Success(w http.ResponseWriter, r *http.Request) {
	data := intakeSuccessData{}
	if id := r.URL.Query().Get("submission_id"); validID(id) {
		sub, err := h.svc.Submission(r.Context(), id)
		if err != nil {
			h.fetchFailed(r, "submission", err)
		} else {
			data = intakeSuccessData{Submission: sub, Steps: service.NextSteps(sub)}
		}
	}
	h.render(w, r, http.StatusOK, "intake_success", view.Page{Title: "Submission Received", Data: data})
}
