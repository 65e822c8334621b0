package handler

import (
	"errors"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/lexflow/lexflow-web/internal/models"
	"github.com/lexflow/lexflow-web/internal/service"
	"github.com/lexflow/lexflow-web/internal/view"
)

// SignatureHandler serves the client-facing retainer signature and payment
// pages.
type SignatureHandler struct {
	*Responder
	intake   *service.IntakeService
	svc      *service.SignatureService
	verifier *service.PaymentVerifier
}

func NewSignatureHandler(rs *Responder, intake *service.IntakeService, svc *service.SignatureService, verifier *service.PaymentVerifier) *SignatureHandler {
	return &SignatureHandler{Responder: rs, intake: intake, svc: svc, verifier: verifier}
}

type signatureData struct {
	Submission    *models.Submission
	LoadError     string
	Agreement     service.Agreement
	SubmissionID  string
	Name          string
	Agreed        bool
	Signed        bool
	Paid          bool
	SuccessURL    string
	RedirectURL   string
	RedirectAfter int
}

type paymentSuccessData struct {
	Status       string
	Check        *service.PaymentCheck
	SubmissionID string
	SuccessURL   string
	RedirectURL  string
}

func signURL(id string) string {
	return "/signature/sign?submission_id=" + url.QueryEscape(id)
}

// load builds the page state from the submission's current statuses.
func (h *SignatureHandler) load(r *http.Request) signatureData {
	id := r.URL.Query().Get("submission_id")
	data := signatureData{SubmissionID: id, SuccessURL: service.SuccessURL(id)}
	if !validID(id) {
		data.LoadError = "Submission not found"
		return data
	}
	sub, err := h.intake.Submission(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrNotFound):
		data.LoadError = "Submission not found"
		return data
	case err != nil:
		h.fetchFailed(r, "submission", err)
		data.LoadError = "Failed to load submission"
		return data
	}
	data.Submission = sub
	data.Agreement = service.NewAgreement(sub)
	data.Signed = sub.SignatureStatus == "signed"
	data.Paid = sub.PaymentStatus == "succeeded"
	if data.Signed && sub.PaymentAmount == "" {
		data.RedirectURL = data.SuccessURL
		data.RedirectAfter = 2
	}
	return data
}

func (h *SignatureHandler) page(w http.ResponseWriter, r *http.Request, status int, data signatureData, msg string) {
	if data.Submission == nil && status == http.StatusOK {
		status = http.StatusNotFound
	}
	h.render(w, r, status, "signature", view.Page{Title: "Sign Retainer Agreement", Error: msg, Data: data})
}

func (h *SignatureHandler) SignPage(w http.ResponseWriter, r *http.Request) {
	h.page(w, r, http.StatusOK, h.load(r), "")
}

func (h *SignatureHandler) Sign(w http.ResponseWriter, r *http.Request) {
	data := h.load(r)
	if data.Submission == nil {
		h.page(w, r, http.StatusOK, data, "")
		return
	}
	data.Name = r.PostFormValue("signature_name")
	data.Agreed = r.PostFormValue("agreed") != ""

	if _, err := h.svc.Sign(r.Context(), data.SubmissionID, data.Name, data.Agreed); err != nil {
		if !service.Invalid(err) {
			h.log(r).Warn("sign agreement", zap.String("submission_id", data.SubmissionID), zap.Error(err))
		}
		h.page(w, r, failureStatus(err), data, service.UserMessage(err, "Failed to submit signature"))
		return
	}
	seeOther(w, r, signURL(data.SubmissionID))
}

func (h *SignatureHandler) Pay(w http.ResponseWriter, r *http.Request) {
	data := h.load(r)
	if data.Submission == nil {
		h.page(w, r, http.StatusOK, data, "")
		return
	}
	if _, err := h.svc.Pay(r.Context(), data.SubmissionID); err != nil {
		h.log(r).Warn("pay retainer", zap.String("submission_id", data.SubmissionID), zap.Error(err))
		h.page(w, r, failureStatus(err), data, service.UserMessage(err, "Failed to process payment"))
		return
	}
	seeOther(w, r, signURL(data.SubmissionID))
}

// PaymentSuccess is the Stripe return page. The submission's payment
// status is checked once; a succeeded payment forwards to the intake
// success page after a short pause.
func (h *SignatureHandler) PaymentSuccess(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id := q.Get("submission_id")
	data := paymentSuccessData{}

	if sessionID := q.Get("session_id"); sessionID != "" && h.verifier.Enabled() {
		check, err := h.verifier.Verify(sessionID)
		if err != nil {
			h.log(r).Warn("verify checkout session", zap.String("session_id", sessionID), zap.Error(err))
		} else {
			data.Check = check
			if check.Paid {
				data.Status = "succeeded"
			}
		}
	}

	if validID(id) {
		data.SubmissionID = id
		data.SuccessURL = service.SuccessURL(id)
		sub, err := h.intake.Submission(r.Context(), id)
		if err != nil {
			h.fetchFailed(r, "submission", err)
		} else if data.Status == "" {
			data.Status = sub.PaymentStatus
			if data.Status == "" {
				data.Status = "pending"
			}
		}
		if data.Status == "succeeded" {
			data.RedirectURL = data.SuccessURL
		}
	}
	h.render(w, r, http.StatusOK, "payment_success", view.Page{Title: "Payment", Data: data})
}
