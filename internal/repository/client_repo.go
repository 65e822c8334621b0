package repository

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/lexflow/lexflow-web/internal/backend"
	"github.com/lexflow/lexflow-web/internal/models"
)

type ClientRepo struct {
	client *backend.Client
}

func NewClientRepo(client *backend.Client) *ClientRepo {
	return &ClientRepo{client: client}
}

// FindAll returns the backend's first page of clients.
func (r *ClientRepo) FindAll(ctx context.Context) (*models.ClientList, error) {
	return r.Find(ctx, 0, 0)
}

// Find returns one page of clients. Zero skip or limit leaves the backend
// default.
func (r *ClientRepo) Find(ctx context.Context, skip, limit int) (*models.ClientList, error) {
	q := url.Values{}
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	var list models.ClientList
	if err := r.client.Do(ctx, http.MethodGet, "/clients/", q, nil, &list); err != nil {
		return nil, err
	}
	if list.Items == nil {
		list.Items = []models.Client{}
	}
	return &list, nil
}

func (r *ClientRepo) FindByID(ctx context.Context, id string) (*models.Client, error) {
	var c models.Client
	if err := r.client.Do(ctx, http.MethodGet, "/clients/"+url.PathEscape(id), nil, nil, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
