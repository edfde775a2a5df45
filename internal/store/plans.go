package store

import (
	"context"
	"time"

	apperrors "github.com/iwvelando/liquidity-forecast/internal/errors"
	"github.com/iwvelando/liquidity-forecast/internal/models"
)

// CreatePlan inserts a plan. One plan per case.
func (s *Store) CreatePlan(ctx context.Context, plan *models.Plan) error {
	var count int64
	if err := s.conn(ctx).Model(&models.Plan{}).Where("case_id = ?", plan.CaseID).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count > 0 {
		return apperrors.ErrPlanExists
	}
	if err := s.conn(ctx).Create(plan).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetPlan loads a plan by id.
func (s *Store) GetPlan(ctx context.Context, planID string) (*models.Plan, error) {
	var plan models.Plan
	if err := s.conn(ctx).Where("id = ?", planID).First(&plan).Error; err != nil {
		return nil, notFound(err, apperrors.ErrPlanNotFound)
	}
	return &plan, nil
}

// GetPlanByCase loads the plan of a case.
func (s *Store) GetPlanByCase(ctx context.Context, caseID string) (*models.Plan, error) {
	var plan models.Plan
	if err := s.conn(ctx).Where("case_id = ?", caseID).First(&plan).Error; err != nil {
		return nil, notFound(err, apperrors.ErrPlanNotFound)
	}
	return &plan, nil
}

// UpdatePlan writes only the given columns.
func (s *Store) UpdatePlan(ctx context.Context, planID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := s.conn(ctx).Model(&models.Plan{}).Where("id = ?", planID).Updates(updates)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrPlanNotFound
	}
	return nil
}

// ListIstTotals returns the persisted ledger totals of a plan by period.
func (s *Store) ListIstTotals(ctx context.Context, planID string) ([]models.IstPeriodTotal, error) {
	var totals []models.IstPeriodTotal
	if err := s.conn(ctx).Where("plan_id = ?", planID).Order("period_index").Find(&totals).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return totals, nil
}

// ReplaceIstTotals swaps the ledger snapshot of a plan and records the new
// IST period count. Callers run it inside a transaction.
func (s *Store) ReplaceIstTotals(ctx context.Context, planID string, istPeriodCount int, totals []models.IstPeriodTotal, syncedAt time.Time) error {
	if err := s.conn(ctx).Where("plan_id = ?", planID).Delete(&models.IstPeriodTotal{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	for i := range totals {
		totals[i].ID = 0
		totals[i].PlanID = planID
		totals[i].SyncedAt = syncedAt
	}
	if len(totals) > 0 {
		if err := s.conn(ctx).Create(&totals).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.UpdatePlan(ctx, planID, map[string]interface{}{
		"ist_period_count": istPeriodCount,
		"ist_synced_at":    syncedAt,
	})
}
