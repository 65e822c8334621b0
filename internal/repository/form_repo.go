package repository

import (
	"context"
	"net/http"
	"net/url"

	"github.com/lexflow/lexflow-web/internal/backend"
	"github.com/lexflow/lexflow-web/internal/models"
)

type FormRepo struct {
	client *backend.Client
}

func NewFormRepo(client *backend.Client) *FormRepo {
	return &FormRepo{client: client}
}

func (r *FormRepo) FindAll(ctx context.Context) ([]models.IntakeForm, error) {
	var forms []models.IntakeForm
	if err := r.client.Do(ctx, http.MethodGet, "/intake/forms", nil, nil, &forms); err != nil {
		return nil, err
	}
	if forms == nil {
		forms = []models.IntakeForm{}
	}
	return forms, nil
}

func (r *FormRepo) FindByID(ctx context.Context, id string) (*models.IntakeForm, error) {
	var f models.IntakeForm
	if err := r.client.Do(ctx, http.MethodGet, "/intake/forms/"+url.PathEscape(id), nil, nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FormRepo) Create(ctx context.Context, in models.FormInput) (*models.IntakeForm, error) {
	var f models.IntakeForm
	if err := r.client.Do(ctx, http.MethodPost, "/intake/forms", nil, in, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FormRepo) Update(ctx context.Context, id string, upd models.FormUpdate) (*models.IntakeForm, error) {
	var f models.IntakeForm
	if err := r.client.Do(ctx, http.MethodPut, "/intake/forms/"+url.PathEscape(id), nil, upd, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FormRepo) Delete(ctx context.Context, id string) error {
	return r.client.Do(ctx, http.MethodDelete, "/intake/forms/"+url.PathEscape(id), nil, nil, nil)
}

// FindPublic fetches an active form without authentication.
func (r *FormRepo) FindPublic(ctx context.Context, id string) (*models.IntakeForm, error) {
	var f models.IntakeForm
	if err := r.client.Do(ctx, http.MethodGet, "/intake/public/forms/"+url.PathEscape(id), nil, nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
