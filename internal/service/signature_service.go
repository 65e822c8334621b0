package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lexflow/lexflow-web/internal/models"
	"github.com/lexflow/lexflow-web/internal/repository"
)

var (
	ErrSignatureName   = errors.New("signature name is required")
	ErrNotAgreed       = errors.New("terms not accepted")
	ErrSignatureFailed = errors.New("signature failed")
	ErrPaymentFailed   = errors.New("payment failed")
)

type SignatureService struct {
	sigs *repository.SignatureRepo
	now  func() time.Time
}

func NewSignatureService(sigs *repository.SignatureRepo) *SignatureService {
	return &SignatureService{sigs: sigs, now: time.Now}
}

// Sign records the typed signature. The freehand pad on the page is never
// sent.
func (s *SignatureService) Sign(ctx context.Context, submissionID, name string, agreed bool) (*models.SignResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrSignatureName
	}
	if !agreed {
		return nil, ErrNotAgreed
	}
	res, err := s.sigs.Sign(ctx, submissionID, models.SignatureInput{
		SignatureName: name,
		SignatureDate: s.now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return nil, errors.Join(ErrSignatureFailed, err)
	}
	return res, nil
}

func (s *SignatureService) Pay(ctx context.Context, submissionID string) (*models.PayResult, error) {
	res, err := s.sigs.Pay(ctx, submissionID)
	if err != nil {
		return nil, errors.Join(ErrPaymentFailed, err)
	}
	return res, nil
}
