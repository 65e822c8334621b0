package repository

import (
	"context"
	"net/http"
	"net/url"

	"github.com/lexflow/lexflow-web/internal/backend"
	"github.com/lexflow/lexflow-web/internal/models"
)

type SignatureRepo struct {
	client *backend.Client
}

func NewSignatureRepo(client *backend.Client) *SignatureRepo {
	return &SignatureRepo{client: client}
}

func (r *SignatureRepo) Sign(ctx context.Context, submissionID string, in models.SignatureInput) (*models.SignResult, error) {
	var res models.SignResult
	if err := r.client.Do(ctx, http.MethodPost, "/signatures/public/sign/"+url.PathEscape(submissionID), nil, in, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (r *SignatureRepo) Pay(ctx context.Context, submissionID string) (*models.PayResult, error) {
	var res models.PayResult
	if err := r.client.Do(ctx, http.MethodPost, "/signatures/public/pay/"+url.PathEscape(submissionID), nil, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
