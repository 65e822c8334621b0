package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/lexflow/lexflow-web/internal/models"
	"github.com/lexflow/lexflow-web/internal/repository"
)

// StatusOptions are the review states an attorney can set.
var StatusOptions = []string{"submitted", "processing", "completed", "rejected"}

var ErrInvalidStatus = errors.New("unknown status")

func validStatus(status string) bool {
	for _, s := range StatusOptions {
		if s == status {
			return true
		}
	}
	return false
}

// SubmissionDetail is a submission plus its client and form. Client and
// Form are nil when their fetch failed.
type SubmissionDetail struct {
	Submission *models.Submission
	Client     *models.Client
	Form       *models.IntakeForm
}

type SubmissionService struct {
	subs    *repository.SubmissionRepo
	forms   *repository.FormRepo
	clients *repository.ClientRepo
	logger  *zap.Logger
}

func NewSubmissionService(subs *repository.SubmissionRepo, forms *repository.FormRepo, clients *repository.ClientRepo, logger *zap.Logger) *SubmissionService {
	return &SubmissionService{subs: subs, forms: forms, clients: clients, logger: logger}
}

// List returns one page of submissions. The backend ignores the form and
// client filters today, so a filtered list is built from every page and
// then cut to filter.Skip and filter.Limit here.
func (s *SubmissionService) List(ctx context.Context, filter models.SubmissionFilter) (*models.SubmissionList, error) {
	if filter.FormID == "" && filter.ClientID == "" {
		return s.subs.Find(ctx, filter)
	}
	items, err := allSubmissions(ctx, s.subs, filter)
	if err != nil {
		return nil, err
	}
	if filter.FormID != "" {
		items = forForm(items, filter.FormID)
	}
	if filter.ClientID != "" {
		items = forClient(items, filter.ClientID)
	}
	total := len(items)
	lo := min(max(filter.Skip, 0), total)
	hi := total
	if filter.Limit > 0 {
		hi = min(lo+filter.Limit, total)
	}
	return &models.SubmissionList{Items: items[lo:hi], Total: total}, nil
}

func (s *SubmissionService) Get(ctx context.Context, id string) (*models.Submission, error) {
	sub, err := s.subs.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "submission")
	}
	return sub, nil
}

// Detail loads the submission, then its client and form in parallel.
func (s *SubmissionService) Detail(ctx context.Context, id string) (*SubmissionDetail, error) {
	sub, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &SubmissionDetail{Submission: sub}

	var g errgroup.Group
	if sub.ClientID != "" {
		g.Go(func() error {
			c, err := s.clients.FindByID(ctx, sub.ClientID)
			if err != nil {
				s.logger.Warn("load submission client", zap.String("submission_id", id), zap.Error(err))
				return nil
			}
			d.Client = c
			return nil
		})
	}
	if sub.FormID != "" {
		g.Go(func() error {
			f, err := s.forms.FindByID(ctx, sub.FormID)
			if err != nil {
				s.logger.Warn("load submission form", zap.String("submission_id", id), zap.Error(err))
				return nil
			}
			d.Form = f
			return nil
		})
	}
	_ = g.Wait()
	return d, nil
}

// UpdateStatus sets the review status. On success the returned copy
// carries the new status; on failure sub is returned unchanged.
func (s *SubmissionService) UpdateStatus(ctx context.Context, sub *models.Submission, status string) (*models.Submission, error) {
	if !validStatus(status) {
		return sub, fmt.Errorf("%q: %w", status, ErrInvalidStatus)
	}
	if err := s.subs.UpdateStatus(ctx, sub.ID, status); err != nil {
		return sub, notFound(err, "submission")
	}
	updated := *sub
	updated.Status = status
	return &updated, nil
}

func forForm(items []models.Submission, formID string) []models.Submission {
	out := make([]models.Submission, 0, len(items))
	for _, it := range items {
		if it.FormID == formID {
			out = append(out, it)
		}
	}
	return out
}

func forClient(items []models.Submission, clientID string) []models.Submission {
	out := make([]models.Submission, 0, len(items))
	for _, it := range items {
		if it.ClientID == clientID {
			out = append(out, it)
		}
	}
	return out
}
