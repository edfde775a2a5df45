package store

import (
	"context"
	"time"

	apperrors "github.com/iwvelando/liquidity-forecast/internal/errors"
	"github.com/iwvelando/liquidity-forecast/internal/models"
)

// ListAssumptions returns the assumptions of a plan in display order.
func (s *Store) ListAssumptions(ctx context.Context, planID string) ([]models.Assumption, error) {
	var assumptions []models.Assumption
	err := s.conn(ctx).
		Where("plan_id = ?", planID).
		Order("sort_order ASC").Order("created_at ASC").Order("id ASC").
		Find(&assumptions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return assumptions, nil
}

// GetAssumption loads one assumption of a plan.
func (s *Store) GetAssumption(ctx context.Context, planID, assumptionID string) (*models.Assumption, error) {
	var a models.Assumption
	if err := s.conn(ctx).Where("id = ? AND plan_id = ?", assumptionID, planID).First(&a).Error; err != nil {
		return nil, notFound(err, apperrors.ErrAssumptionNotFound)
	}
	return &a, nil
}

// CategoryTaken reports whether another assumption of the plan already uses
// the (categoryKey, flowType) pair.
func (s *Store) CategoryTaken(ctx context.Context, planID, categoryKey, flowType, excludeID string) (bool, error) {
	var count int64
	q := s.conn(ctx).Model(&models.Assumption{}).
		Where("plan_id = ? AND category_key = ? AND flow_type = ?", planID, categoryKey, flowType)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// NextSortOrder returns one past the highest sort order of the plan.
func (s *Store) NextSortOrder(ctx context.Context, planID string) (int, error) {
	var result struct {
		MaxOrder *int
	}
	if err := s.conn(ctx).Model(&models.Assumption{}).Where("plan_id = ?", planID).
		Select("MAX(sort_order) AS max_order").Scan(&result).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if result.MaxOrder == nil {
		return 0, nil
	}
	return *result.MaxOrder + 1, nil
}

// CreateAssumption inserts an assumption.
func (s *Store) CreateAssumption(ctx context.Context, a *models.Assumption) error {
	if err := s.conn(ctx).Create(a).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// UpdateAssumptionColumns writes only the named columns of a. Columns that
// were not supplied keep whatever a concurrent writer stored last.
func (s *Store) UpdateAssumptionColumns(ctx context.Context, a *models.Assumption, columns []string) error {
	if len(columns) == 0 {
		return nil
	}
	a.UpdatedAt = time.Now()
	cols := append(append([]string{}, columns...), "updated_at")
	result := s.conn(ctx).Model(a).Select(cols).Updates(a)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrAssumptionNotFound
	}
	return nil
}

// IsAssumptionReferenced reports whether any snapshot references the assumption.
func (s *Store) IsAssumptionReferenced(ctx context.Context, assumptionID string) (bool, error) {
	var count int64
	if err := s.conn(ctx).Model(&models.SnapshotAssumption{}).
		Where("assumption_id = ?", assumptionID).Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// DeleteAssumption removes an assumption row.
func (s *Store) DeleteAssumption(ctx context.Context, planID, assumptionID string) error {
	result := s.conn(ctx).Where("id = ? AND plan_id = ?", assumptionID, planID).Delete(&models.Assumption{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrAssumptionNotFound
	}
	return nil
}
