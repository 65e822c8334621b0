package repository

import (
	"context"
	"net/http"

	"github.com/lexflow/lexflow-web/internal/backend"
	"github.com/lexflow/lexflow-web/internal/models"
)

type FirmRepo struct {
	client *backend.Client
}

func NewFirmRepo(client *backend.Client) *FirmRepo {
	return &FirmRepo{client: client}
}

func (r *FirmRepo) Mine(ctx context.Context) (*models.Firm, error) {
	var f models.Firm
	if err := r.client.Do(ctx, http.MethodGet, "/firms/me", nil, nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FirmRepo) Update(ctx context.Context, upd models.FirmUpdate) (*models.Firm, error) {
	var f models.Firm
	if err := r.client.Do(ctx, http.MethodPut, "/firms/me", nil, upd, &f); err != nil {
		return nil, err
	}
	return &f, nil
}
