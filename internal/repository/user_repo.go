package repository

import (
	"context"
	"net/http"

	"github.com/lexflow/lexflow-web/internal/backend"
	"github.com/lexflow/lexflow-web/internal/models"
)

type UserRepo struct {
	client *backend.Client
}

func NewUserRepo(client *backend.Client) *UserRepo {
	return &UserRepo{client: client}
}

// Login exchanges credentials for a backend access token.
func (r *UserRepo) Login(ctx context.Context, creds models.Credentials) (*models.Token, error) {
	var tok models.Token
	if err := r.client.Do(ctx, http.MethodPost, "/auth/login/json", nil, creds, &tok); err != nil {
		return nil, err
	}
	return &tok, nil
}

func (r *UserRepo) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	var u models.User
	if err := r.client.Do(ctx, http.MethodPost, "/auth/register", nil, reg, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Me(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := r.client.Do(ctx, http.MethodGet, "/users/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
