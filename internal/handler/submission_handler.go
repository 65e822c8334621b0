package handler

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lexflow/lexflow-web/internal/models"
	"github.com/lexflow/lexflow-web/internal/service"
	"github.com/lexflow/lexflow-web/internal/view"
)

type SubmissionHandler struct {
	*Responder
	svc    *service.SubmissionService
	export *service.ExportService
}

func NewSubmissionHandler(rs *Responder, svc *service.SubmissionService, export *service.ExportService) *SubmissionHandler {
	return &SubmissionHandler{Responder: rs, svc: svc, export: export}
}

type submissionsData struct {
	Submissions []models.Submission
	Total       int
}

type submissionDetailData struct {
	Submission    *models.Submission
	Client        *models.Client
	Form          *models.IntakeForm
	StatusOptions []string
}

type agreementData struct {
	Agreement service.Agreement
}

func (h *SubmissionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.SubmissionFilter{
		FormID:   q.Get("form_id"),
		ClientID: q.Get("client_id"),
	}
	filter.Skip, _ = strconv.Atoi(q.Get("skip"))
	filter.Limit, _ = strconv.Atoi(q.Get("limit"))

	data := submissionsData{}
	list, err := h.svc.List(r.Context(), filter)
	if err != nil {
		h.fetchFailed(r, "submissions", err)
	} else {
		data = submissionsData{Submissions: list.Items, Total: list.Total}
	}
	h.render(w, r, http.StatusOK, "submissions", view.Page{Title: "Submissions", Nav: "submissions", Data: data})
}

func (h *SubmissionHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.export.Write(r.Context(), &buf); err != nil {
		h.log(r).Error("export submissions", zap.Error(err))
		http.Error(w, "export failed", http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="submissions.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	buf.WriteTo(w)
}

func (h *SubmissionHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.detail(w, r, chi.URLParam(r, "submissionId"), http.StatusOK, "")
}

func (h *SubmissionHandler) detail(w http.ResponseWriter, r *http.Request, id string, status int, msg string) {
	if !validID(id) {
		h.notFound(w, r, "Submission", "/dashboard/submissions", "Back to Submissions")
		return
	}
	d, err := h.svc.Detail(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.notFound(w, r, "Submission", "/dashboard/submissions", "Back to Submissions")
		return
	case err != nil:
		h.fetchFailed(r, "submission", err)
		h.render(w, r, status, "submission_detail", view.Page{Title: "Submission", Nav: "submissions", Error: msg, Data: submissionDetailData{}})
		return
	}
	h.render(w, r, status, "submission_detail", view.Page{
		Title: "Submission " + view.Short(d.Submission.ID),
		Nav:   "submissions",
		Error: msg,
		Data: submissionDetailData{
			Submission:    d.Submission,
			Client:        d.Client,
			Form:          d.Form,
			StatusOptions: service.StatusOptions,
		},
	})
}

func (h *SubmissionHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "submissionId")
	if !validID(id) {
		h.notFound(w, r, "Submission", "/dashboard/submissions", "Back to Submissions")
		return
	}
	sub, err := h.svc.Get(r.Context(), id)
	if err == nil {
		_, err = h.svc.UpdateStatus(r.Context(), sub, r.PostFormValue("status"))
	}
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.notFound(w, r, "Submission", "/dashboard/submissions", "Back to Submissions")
	case err != nil:
		h.log(r).Warn("update submission status", zap.String("submission_id", id), zap.Error(err))
		h.detail(w, r, id, failureStatus(err), service.UserMessage(err, "Failed to update status"))
	default:
		seeOther(w, r, "/dashboard/submissions/"+id)
	}
}

// Agreement shows the retainer agreement as signed by the client.
func (h *SubmissionHandler) Agreement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "submissionId")
	if !validID(id) {
		h.notFound(w, r, "Agreement", "/dashboard/submissions", "Back to Submissions")
		return
	}
	sub, err := h.svc.Get(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.notFound(w, r, "Agreement", "/dashboard/submissions", "Back to Submissions")
		return
	case err != nil:
		h.fetchFailed(r, "submission", err)
		h.notFound(w, r, "Agreement", "/dashboard/submissions", "Back to Submissions")
		return
	}
	h.render(w, r, http.StatusOK, "agreement", view.Page{
		Title: "Signed Agreement",
		Nav:   "submissions",
		Data:  agreementData{Agreement: service.NewAgreement(sub)},
	})
}
