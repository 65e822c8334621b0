package service

import (
	"context"

	"github.com/lexflow/lexflow-web/internal/models"
	"github.com/lexflow/lexflow-web/internal/repository"
)

// pageSize is the backend's default list limit.
const pageSize = 100

// collect keeps fetching pages until total items have been seen or a page
// comes back empty.
func collect[T any](fetch func(skip int) ([]T, int, error)) ([]T, error) {
	var out []T
	for {
		items, total, err := fetch(len(out))
		if err != nil {
			return nil, err
		}
		out = append(out, items...)
		if len(items) == 0 || len(out) >= total {
			return out, nil
		}
	}
}

// allSubmissions returns every submission matching filter's ids; its Skip
// and Limit are ignored.
func allSubmissions(ctx context.Context, subs *repository.SubmissionRepo, filter models.SubmissionFilter) ([]models.Submission, error) {
	return collect(func(skip int) ([]models.Submission, int, error) {
		filter.Skip, filter.Limit = skip, pageSize
		page, err := subs.Find(ctx, filter)
		if err != nil {
			return nil, 0, err
		}
		return page.Items, page.Total, nil
	})
}

func allClients(ctx context.Context, clients *repository.ClientRepo) ([]models.Client, error) {
	return collect(func(skip int) ([]models.Client, int, error) {
		page, err := clients.Find(ctx, skip, pageSize)
		if err != nil {
			return nil, 0, err
		}
		return page.Items, page.Total, nil
	})
}
