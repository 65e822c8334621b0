package service

import (
	"context"
	"strings"

	"github.com/lexflow/lexflow-web/internal/backend"
	"github.com/lexflow/lexflow-web/internal/models"
	"github.com/lexflow/lexflow-web/internal/repository"
)

const (
	SettingsSaved  = "Settings saved successfully!"
	SettingsFailed = "Failed to save settings"
	SettingsError  = "An error occurred"
)

type SettingsService struct {
	firms *repository.FirmRepo
}

func NewSettingsService(firms *repository.FirmRepo) *SettingsService {
	return &SettingsService{firms: firms}
}

func (s *SettingsService) Firm(ctx context.Context) (*models.Firm, error) {
	return s.firms.Mine(ctx)
}

// Save updates the firm and returns the banner to show. err is nil
// exactly when msg is the success banner.
func (s *SettingsService) Save(ctx context.Context, upd models.FirmUpdate) (*models.Firm, string, error) {
	upd.Name = strings.TrimSpace(upd.Name)
	upd.Email = strings.TrimSpace(upd.Email)
	upd.Phone = strings.TrimSpace(upd.Phone)
	upd.Address = strings.TrimSpace(upd.Address)

	firm, err := s.firms.Update(ctx, upd)
	switch {
	case err == nil:
		return firm, SettingsSaved, nil
	case backend.StatusOf(err) != 0:
		return nil, SettingsFailed, err
	default:
		return nil, SettingsError, err
	}
}
