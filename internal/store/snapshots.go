package store

import (
	"context"

	apperrors "github.com/iwvelando/liquidity-forecast/internal/errors"
	"github.com/iwvelando/liquidity-forecast/internal/models"
)

// CreateSnapshot inserts a snapshot together with its assumption references.
func (s *Store) CreateSnapshot(ctx context.Context, snapshot *models.ForecastSnapshot) error {
	if err := s.conn(ctx).Create(snapshot).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// ListSnapshots returns the snapshots of a plan, newest first, without payloads.
func (s *Store) ListSnapshots(ctx context.Context, planID string) ([]models.ForecastSnapshot, error) {
	var snapshots []models.ForecastSnapshot
	err := s.conn(ctx).
		Select("id", "plan_id", "label", "created_at", "updated_at").
		Where("plan_id = ?", planID).
		Order("created_at DESC").Order("id DESC").
		Find(&snapshots).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return snapshots, nil
}

// GetSnapshot loads one snapshot including its payload.
func (s *Store) GetSnapshot(ctx context.Context, planID, snapshotID string) (*models.ForecastSnapshot, error) {
	var snapshot models.ForecastSnapshot
	if err := s.conn(ctx).Where("id = ? AND plan_id = ?", snapshotID, planID).First(&snapshot).Error; err != nil {
		return nil, notFound(err, apperrors.ErrSnapshotNotFound)
	}
	return &snapshot, nil
}
