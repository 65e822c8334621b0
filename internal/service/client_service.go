package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/lexflow/lexflow-web/internal/models"
	"github.com/lexflow/lexflow-web/internal/repository"
)

type ClientDetail struct {
	Client      *models.Client
	Submissions []models.Submission
}

type ClientService struct {
	clients *repository.ClientRepo
	subs    *repository.SubmissionRepo
}

func NewClientService(clients *repository.ClientRepo, subs *repository.SubmissionRepo) *ClientService {
	return &ClientService{clients: clients, subs: subs}
}

func (s *ClientService) List(ctx context.Context) (*models.ClientList, error) {
	return s.clients.FindAll(ctx)
}

// Detail loads a client and that client's submissions in parallel.
func (s *ClientService) Detail(ctx context.Context, id string) (*ClientDetail, error) {
	var (
		client *models.Client
		subs   []models.Submission
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		client, err = s.clients.FindByID(gctx, id)
		return notFound(err, "client")
	})
	g.Go(func() error {
		var err error
		subs, err = allSubmissions(gctx, s.subs, models.SubmissionFilter{ClientID: id})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ClientDetail{Client: client, Submissions: forClient(subs, id)}, nil
}
