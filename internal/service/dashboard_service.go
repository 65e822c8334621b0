package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/lexflow/lexflow-web/internal/models"
	"github.com/lexflow/lexflow-web/internal/repository"
)

type Stats struct {
	Forms       int
	Submissions int
	Clients     int
}

type DashboardService struct {
	forms   *repository.FormRepo
	subs    *repository.SubmissionRepo
	clients *repository.ClientRepo
}

func NewDashboardService(forms *repository.FormRepo, subs *repository.SubmissionRepo, clients *repository.ClientRepo) *DashboardService {
	return &DashboardService{forms: forms, subs: subs, clients: clients}
}

// Stats fetches the three overview counters in parallel. Any failure fails
// the whole set.
func (s *DashboardService) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		forms, err := s.forms.FindAll(gctx)
		if err != nil {
			return err
		}
		st.Forms = len(forms)
		return nil
	})
	g.Go(func() error {
		subs, err := s.subs.Find(gctx, models.SubmissionFilter{})
		if err != nil {
			return err
		}
		st.Submissions = subs.Total
		return nil
	})
	g.Go(func() error {
		clients, err := s.clients.FindAll(gctx)
		if err != nil {
			return err
		}
		st.Clients = clients.Total
		return nil
	})
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}
	return st, nil
}
