package services

import (
	"fmt"
	"time"

	"github.com/smartengage/smartengage-go/internal/domain/popup"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/logging"
	"github.com/smartengage/smartengage-go/internal/infrastructure/observability/performance"
	"github.com/smartengage/smartengage-go/internal/infrastructure/security"
)

// PopupService manages popup configuration lifecycle.
type PopupService struct {
	repo    popup.Repository
	logger  *logging.ChanneledLogger
	tracker *performance.Tracker
}

// NewPopupService creates a popup service.
func NewPopupService(repo popup.Repository, logger *logging.ChanneledLogger, tracker *performance.Tracker) *PopupService {
	return &PopupService{
		repo:    repo,
		logger:  logger,
		tracker: tracker,
	}
}

// Create stores a new popup configuration, minting its id and timestamps.
func (s *PopupService) Create(cfg *popup.Config) (*popup.Config, error) {
	marker := s.tracker.StartOperation("popup_create")
	defer marker.Complete()

	now := time.Now().UTC()
	cfg.ID = security.GenerateULID()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now
	cfg.Normalize()

	if err := s.repo.Create(cfg); err != nil {
		marker.SetError(err)
		return nil, err
	}

	marker.SetSuccess(true)
	s.logger.Popup().Info("Popup created", "popupId", cfg.ID, "name", cfg.Name, "status", cfg.Status)
	return cfg, nil
}

// Update replaces an existing popup's configuration. The id must already
// exist; created-at is preserved.
func (s *PopupService) Update(id string, cfg *popup.Config) (*popup.Config, error) {
	marker := s.tracker.StartOperation("popup_update")
	defer marker.Complete()

	existing, err := s.repo.GetByID(id)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	cfg.ID = existing.ID
	cfg.CreatedAt = existing.CreatedAt
	cfg.UpdatedAt = time.Now().UTC()
	cfg.Normalize()

	if err := s.repo.Update(cfg); err != nil {
		marker.SetError(err)
		return nil, err
	}

	marker.SetSuccess(true)
	s.logger.Popup().Info("Popup updated", "popupId", cfg.ID, "name", cfg.Name)
	return cfg, nil
}

// Delete removes a popup configuration.
func (s *PopupService) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.logger.Popup().Info("Popup deleted", "popupId", id)
	return nil
}

// GetByID loads one popup configuration.
func (s *PopupService) GetByID(id string) (*popup.Config, error) {
	return s.repo.GetByID(id)
}

// GetAll lists every popup configuration.
func (s *PopupService) GetAll() ([]*popup.Config, error) {
	return s.repo.GetAll()
}

// GetEnabled returns the popups that participate in evaluation.
func (s *PopupService) GetEnabled() ([]*popup.Config, error) {
	configs, err := s.repo.GetEnabled()
	if err != nil {
		return nil, fmt.Errorf("failed to load enabled popups: %w", err)
	}
	return configs, nil
}

// Exists reports whether a popup id is known.
func (s *PopupService) Exists(id string) (bool, error) {
	return s.repo.Exists(id)
}
