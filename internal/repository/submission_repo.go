package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lexflow/lexflow-web/internal/backend"
	"github.com/lexflow/lexflow-web/internal/models"
)

type SubmissionRepo struct {
	client *backend.Client
}

func NewSubmissionRepo(client *backend.Client) *SubmissionRepo {
	return &SubmissionRepo{client: client}
}

func (r *SubmissionRepo) Find(ctx context.Context, filter models.SubmissionFilter) (*models.SubmissionList, error) {
	q := url.Values{}
	if filter.FormID != "" {
		q.Set("form_id", filter.FormID)
	}
	if filter.ClientID != "" {
		q.Set("client_id", filter.ClientID)
	}
	if filter.Skip > 0 {
		q.Set("skip", strconv.Itoa(filter.Skip))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}

	var list models.SubmissionList
	if err := r.client.Do(ctx, http.MethodGet, "/intake/submissions", q, nil, &list); err != nil {
		return nil, err
	}
	if list.Items == nil {
		list.Items = []models.Submission{}
	}
	return &list, nil
}

func (r *SubmissionRepo) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	var s models.Submission
	if err := r.client.Do(ctx, http.MethodGet, "/intake/submissions/"+url.PathEscape(id), nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SubmissionRepo) UpdateStatus(ctx context.Context, id, status string) error {
	body := map[string]string{"status": status}
	return r.client.Do(ctx, http.MethodPut, "/intake/submissions/"+url.PathEscape(id), nil, body, nil)
}

// FindPublic fetches a submission without authentication, used by the
// client-facing signature, payment and success pages.
func (r *SubmissionRepo) FindPublic(ctx context.Context, id string) (*models.Submission, error) {
	var s models.Submission
	if err := r.client.Do(ctx, http.MethodGet, "/intake/public/submissions/"+url.PathEscape(id), nil, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Submit posts a filled public intake form. The response carries the
// workflow fields next_step, signature_url and payment_url.
func (r *SubmissionRepo) Submit(ctx context.Context, formID string, data map[string]any) (*models.Submission, error) {
	var s models.Submission
	in := models.PublicSubmitInput{FormData: data}
	if err := r.client.Do(ctx, http.MethodPost, "/intake/public/forms/"+url.PathEscape(formID)+"/submit", nil, in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
