package forecast

import (
	"context"

	apperrors "github.com/iwvelando/liquidity-forecast/internal/errors"
	"github.com/iwvelando/liquidity-forecast/internal/models"
	"github.com/iwvelando/liquidity-forecast/internal/store"
	"github.com/iwvelando/liquidity-forecast/pkg/adapters"
	"github.com/iwvelando/liquidity-forecast/pkg/validation"
	"go.uber.org/zap"
)

// ListAssumptions returns the assumptions of a plan in display order.
func (s *Service) ListAssumptions(ctx context.Context, planID string) ([]models.Assumption, error) {
	if _, err := s.store.GetPlan(ctx, planID); err != nil {
		return nil, err
	}
	return s.store.ListAssumptions(ctx, planID)
}

// CreateAssumption validates and stores a new assumption, then recomputes.
// The assumption is returned even when the recompute fails.
func (s *Service) CreateAssumption(ctx context.Context, planID string, in validation.AssumptionInput) (*models.Assumption, *ForecastData, error) {
	var created *models.Assumption
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		plan, err := mutablePlan(ctx, tx, planID)
		if err != nil {
			return err
		}

		validated, err := validation.NewAssumption(in, plan.PeriodCount)
		if err != nil {
			return validationError(err)
		}
		taken, err := tx.CategoryTaken(ctx, planID, validated.CategoryKey, validated.FlowType, "")
		if err != nil {
			return err
		}
		if taken {
			return apperrors.ErrDuplicateAssumption
		}
		if in.SortOrder == nil {
			if validated.SortOrder, err = tx.NextSortOrder(ctx, planID); err != nil {
				return err
			}
		}

		a := &models.Assumption{PlanID: planID}
		adapters.ApplyValidated(a, validated)
		if err := tx.CreateAssumption(ctx, a); err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Assumption created",
		zap.String("op", "forecast.CreateAssumption"),
		zap.String("planId", planID),
		zap.String("assumptionId", created.ID),
		zap.String("categoryKey", created.CategoryKey),
	)

	data, err := s.Recompute(ctx, planID)
	return created, data, err
}

// UpdateAssumption applies a partial update. Only supplied fields are
// written, so concurrent edits of different fields both survive.
func (s *Service) UpdateAssumption(ctx context.Context, planID, assumptionID string, in validation.AssumptionInput) (*models.Assumption, *ForecastData, error) {
	var updated *models.Assumption
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		plan, err := mutablePlan(ctx, tx, planID)
		if err != nil {
			return err
		}
		current, err := tx.GetAssumption(ctx, planID, assumptionID)
		if err != nil {
			return err
		}

		merged, columns, err := validation.ApplyAssumptionInput(adapters.AssumptionToValidated(*current), in, plan.PeriodCount)
		if err != nil {
			return validationError(err)
		}
		if merged.CategoryKey != current.CategoryKey || merged.FlowType != current.FlowType {
			taken, err := tx.CategoryTaken(ctx, planID, merged.CategoryKey, merged.FlowType, assumptionID)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.ErrDuplicateAssumption
			}
		}

		adapters.ApplyValidated(current, merged)
		if err := tx.UpdateAssumptionColumns(ctx, current, columns); err != nil {
			return err
		}
		if updated, err = tx.GetAssumption(ctx, planID, assumptionID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	data, err := s.Recompute(ctx, planID)
	return updated, data, err
}

// ToggleAssumption sets isActive, or flips it when isActive is nil.
func (s *Service) ToggleAssumption(ctx context.Context, planID, assumptionID string, isActive *bool) (*models.Assumption, *ForecastData, error) {
	var toggled *models.Assumption
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := mutablePlan(ctx, tx, planID); err != nil {
			return err
		}
		current, err := tx.GetAssumption(ctx, planID, assumptionID)
		if err != nil {
			return err
		}

		if isActive != nil {
			current.IsActive = *isActive
		} else {
			current.IsActive = !current.IsActive
		}
		if err := tx.UpdateAssumptionColumns(ctx, current, []string{validation.ColIsActive}); err != nil {
			return err
		}
		toggled = current
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	data, err := s.Recompute(ctx, planID)
	return toggled, data, err
}

// DeleteAssumption removes an assumption. One that a snapshot references
// is deactivated instead and softDeleted is true.
func (s *Service) DeleteAssumption(ctx context.Context, planID, assumptionID string) (bool, *ForecastData, error) {
	softDeleted := false
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := mutablePlan(ctx, tx, planID); err != nil {
			return err
		}
		current, err := tx.GetAssumption(ctx, planID, assumptionID)
		if err != nil {
			return err
		}

		referenced, err := tx.IsAssumptionReferenced(ctx, assumptionID)
		if err != nil {
			return err
		}
		if referenced {
			softDeleted = true
			current.IsActive = false
			return tx.UpdateAssumptionColumns(ctx, current, []string{validation.ColIsActive})
		}
		return tx.DeleteAssumption(ctx, planID, assumptionID)
	})
	if err != nil {
		return false, nil, err
	}

	s.logger.Info("Assumption deleted",
		zap.String("op", "forecast.DeleteAssumption"),
		zap.String("planId", planID),
		zap.String("assumptionId", assumptionID),
		zap.Bool("softDeleted", softDeleted),
	)

	data, err := s.Recompute(ctx, planID)
	return softDeleted, data, err
}
