package forecast

import (
	"context"
	"strings"

	apperrors "github.com/iwvelando/liquidity-forecast/internal/errors"
	"github.com/iwvelando/liquidity-forecast/internal/models"
	"github.com/iwvelando/liquidity-forecast/internal/store"
	"github.com/iwvelando/liquidity-forecast/pkg/constants"
	"github.com/iwvelando/liquidity-forecast/pkg/datetime"
	"github.com/iwvelando/liquidity-forecast/pkg/money"
	"github.com/iwvelando/liquidity-forecast/pkg/validation"
	"go.uber.org/zap"
)

// CreatePlan validates and stores a new plan. No forecast is computed: a
// fresh plan may still lack its credit line.
func (s *Service) CreatePlan(ctx context.Context, in PlanInput) (*models.Plan, error) {
	var errs validation.FieldErrors
	add := func(field, msg string) {
		errs = append(errs, validation.FieldError{Field: field, Message: msg})
	}

	caseID := strings.TrimSpace(in.CaseID)
	if caseID == "" {
		add("caseId", "is required")
	}
	start, err := datetime.ParseDate(strings.TrimSpace(in.PlanStartDate))
	if err != nil {
		add("planStartDate", err.Error())
	}

	periodType := strings.ToUpper(strings.TrimSpace(in.PeriodType))
	if periodType == "" {
		periodType = constants.DefaultPeriodType
	}
	if !validation.IsPeriodType(periodType) {
		add("periodType", "must be WEEKLY or MONTHLY")
	}
	periodCount := in.PeriodCount
	if periodCount == 0 {
		periodCount = constants.DefaultPeriodCount
	}
	if periodCount < 0 {
		add("periodCount", "must be positive")
	}

	opening, err := parseOptionalAmount(in.OpeningBalance)
	if err != nil {
		add("openingBalance", err.Error())
	}
	reserves, err := parseOptionalAmount(in.Reserves)
	if err != nil {
		add("reserves", err.Error())
	} else if reserves.IsNegative() {
		add("reserves", "must not be negative")
	}

	var creditLine *money.Cents
	if in.CreditLine != nil && strings.TrimSpace(*in.CreditLine) != "" {
		credit, err := money.ParseLocale(*in.CreditLine)
		if err != nil {
			add("creditLine", err.Error())
		} else if credit.IsNegative() {
			add("creditLine", "must not be negative")
		} else {
			creditLine = &credit
		}
	}
	if len(errs) > 0 {
		return nil, validationError(errs)
	}

	source := strings.TrimSpace(in.OpeningBalanceSource)
	if source == "" {
		source = constants.DefaultBalanceSource
	}

	plan := &models.Plan{
		CaseID:               caseID,
		PlanStartDate:        start,
		PeriodType:           periodType,
		PeriodCount:          periodCount,
		OpeningBalanceCents:  opening,
		OpeningBalanceSource: source,
		CreditLineCents:      creditLine,
		CreditLineSource:     strings.TrimSpace(in.CreditLineSource),
		ReservesTotalCents:   reserves,
	}
	if err := s.store.CreatePlan(ctx, plan); err != nil {
		return nil, err
	}

	s.logger.Info("Plan created",
		zap.String("op", "forecast.CreatePlan"),
		zap.String("planId", plan.ID),
		zap.String("caseId", plan.CaseID),
	)
	return plan, nil
}

// GetPlan returns a plan by id.
func (s *Service) GetPlan(ctx context.Context, planID string) (*models.Plan, error) {
	return s.store.GetPlan(ctx, planID)
}

// GetPlanByCase returns the plan of a case.
func (s *Service) GetPlanByCase(ctx context.Context, caseID string) (*models.Plan, error) {
	return s.store.GetPlanByCase(ctx, caseID)
}

// SetOpeningBalance replaces the opening balance and its source.
func (s *Service) SetOpeningBalance(ctx context.Context, planID, amount, source string) (*ForecastData, error) {
	opening, err := money.ParseLocale(amount)
	if err != nil {
		return nil, apperrors.Validation("amount", err.Error())
	}
	source = strings.TrimSpace(source)
	if source == "" {
		source = constants.DefaultBalanceSource
	}
	return s.updatePlan(ctx, planID, "forecast.SetOpeningBalance", map[string]interface{}{
		"opening_balance_cents":  opening,
		"opening_balance_source": source,
	})
}

// SetCreditLine replaces the credit line. An empty amount removes it, which
// leaves the plan without a computable forecast.
func (s *Service) SetCreditLine(ctx context.Context, planID, amount, source string) (*ForecastData, error) {
	updates := map[string]interface{}{"credit_line_source": strings.TrimSpace(source)}
	if strings.TrimSpace(amount) == "" {
		updates["credit_line_cents"] = nil
	} else {
		credit, err := money.ParseLocale(amount)
		if err != nil {
			return nil, apperrors.Validation("amount", err.Error())
		}
		if credit.IsNegative() {
			return nil, apperrors.Validation("amount", "must not be negative")
		}
		updates["credit_line_cents"] = credit
	}
	return s.updatePlan(ctx, planID, "forecast.SetCreditLine", updates)
}

// SetReserves replaces the total of reserves held back from headroom.
func (s *Service) SetReserves(ctx context.Context, planID, amount string) (*ForecastData, error) {
	reserves, err := money.ParseLocale(amount)
	if err != nil {
		return nil, apperrors.Validation("amount", err.Error())
	}
	if reserves.IsNegative() {
		return nil, apperrors.Validation("amount", "must not be negative")
	}
	return s.updatePlan(ctx, planID, "forecast.SetReserves", map[string]interface{}{
		"reserves_total_cents": reserves,
	})
}

// SetIstCutoffOverride caps the IST prefix. nil removes the cap.
func (s *Service) SetIstCutoffOverride(ctx context.Context, planID string, override *int) (*ForecastData, error) {
	var plan *models.Plan
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		plan, err = mutablePlan(ctx, tx, planID)
		if err != nil {
			return err
		}
		if override != nil && (*override < 0 || *override > plan.PeriodCount) {
			return apperrors.Validation("istCutoffOverride", "must be between 0 and periodCount")
		}
		return tx.UpdatePlan(ctx, planID, map[string]interface{}{"ist_cutoff_override": override})
	})
	if err != nil {
		return nil, err
	}
	return s.Recompute(ctx, planID)
}

// LockPlan freezes a plan against every mutation.
func (s *Service) LockPlan(ctx context.Context, planID, reason string) (*ForecastData, error) {
	return s.updatePlan(ctx, planID, "forecast.LockPlan", map[string]interface{}{
		"is_locked":     true,
		"locked_reason": strings.TrimSpace(reason),
	})
}

// UnlockPlan lifts a lock.
func (s *Service) UnlockPlan(ctx context.Context, planID string) (*ForecastData, error) {
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := tx.GetPlan(ctx, planID); err != nil {
			return err
		}
		return tx.UpdatePlan(ctx, planID, map[string]interface{}{
			"is_locked":     false,
			"locked_reason": "",
		})
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Plan unlocked",
		zap.String("op", "forecast.UnlockPlan"),
		zap.String("planId", planID),
	)
	return s.Recompute(ctx, planID)
}

// updatePlan writes plan columns of an unlocked plan and recomputes.
func (s *Service) updatePlan(ctx context.Context, planID, op string, updates map[string]interface{}) (*ForecastData, error) {
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := mutablePlan(ctx, tx, planID); err != nil {
			return err
		}
		return tx.UpdatePlan(ctx, planID, updates)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Plan updated",
		zap.String("op", op),
		zap.String("planId", planID),
	)
	return s.Recompute(ctx, planID)
}

func parseOptionalAmount(s string) (money.Cents, error) {
	if strings.TrimSpace(s) == "" {
		return money.Zero, nil
	}
	return money.ParseLocale(s)
}
