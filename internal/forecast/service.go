package forecast

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/iwvelando/liquidity-forecast/internal/errors"
	"github.com/iwvelando/liquidity-forecast/internal/ledger"
	"github.com/iwvelando/liquidity-forecast/internal/models"
	"github.com/iwvelando/liquidity-forecast/internal/store"
	"github.com/iwvelando/liquidity-forecast/pkg/adapters"
	"github.com/iwvelando/liquidity-forecast/pkg/constants"
	"github.com/iwvelando/liquidity-forecast/pkg/finance"
	"github.com/iwvelando/liquidity-forecast/pkg/validation"
	"go.uber.org/zap"
)

// Service implements Servicer.
type Service struct {
	store   *store.Store
	engine  *finance.ForecastEngine
	ledger  ledger.Aggregator
	locker  Locker
	lockTTL time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithLedger sets the aggregator used by SyncIst.
func WithLedger(agg ledger.Aggregator) Option {
	return func(s *Service) { s.ledger = agg }
}

// WithLocker replaces the in-process sync lock.
func WithLocker(locker Locker, ttl time.Duration) Option {
	return func(s *Service) {
		s.locker = locker
		if ttl > 0 {
			s.lockTTL = ttl
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a forecast service.
func NewService(st *store.Store, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:   st,
		engine:  finance.NewForecastEngine(logger),
		locker:  NewLocalLocker(),
		lockTTL: time.Duration(constants.DefaultSyncLockTTLSeconds) * time.Second,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recompute derives the forecast of a plan from its persisted state.
func (s *Service) Recompute(ctx context.Context, planID string) (*ForecastData, error) {
	plan, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	return s.recompute(ctx, plan)
}

func (s *Service) recompute(ctx context.Context, plan *models.Plan) (*ForecastData, error) {
	assumptions, err := s.store.ListAssumptions(ctx, plan.ID)
	if err != nil {
		return nil, err
	}
	totals, err := s.store.ListIstTotals(ctx, plan.ID)
	if err != nil {
		return nil, err
	}

	result, err := s.engine.Calculate(
		adapters.PlanToFinancePlan(*plan),
		adapters.AssumptionsToFinanceAssumptions(assumptions),
		adapters.IstTotalsToFinanceTotals(totals),
	)
	if err != nil {
		s.logger.Warn("Forecast computation failed",
			zap.String("op", "forecast.recompute"),
			zap.String("planId", plan.ID),
			zap.Error(err),
		)
		return nil, engineError(err)
	}

	if assumptions == nil {
		assumptions = []models.Assumption{}
	}
	if result.Warnings == nil {
		result.Warnings = []string{}
	}
	return &ForecastData{
		PlanID:      plan.ID,
		CaseID:      plan.CaseID,
		IsLocked:    plan.IsLocked,
		Periods:     result.Periods,
		Assumptions: assumptions,
		Meta:        result.Meta,
		Summary:     result.Summary,
		Warnings:    result.Warnings,
	}, nil
}

// mutablePlan loads a plan that may be changed.
func mutablePlan(ctx context.Context, tx *store.Store, planID string) (*models.Plan, error) {
	plan, err := tx.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := checkUnlocked(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func checkUnlocked(plan *models.Plan) error {
	if !plan.IsLocked {
		return nil
	}
	if plan.LockedReason != "" {
		return apperrors.WithMessage(apperrors.ErrPlanLocked, "Plan is locked: "+plan.LockedReason)
	}
	return apperrors.ErrPlanLocked
}

// engineError maps engine failures onto application errors.
func engineError(err error) error {
	switch {
	case errors.Is(err, finance.ErrInvalidPlanConfig):
		return apperrors.Wrap(apperrors.WithMessage(apperrors.ErrInvalidPlanConfig, err.Error()), err)
	case errors.Is(err, finance.ErrMissingIstData):
		return apperrors.Wrap(apperrors.WithMessage(apperrors.ErrMissingIstData, err.Error()), err)
	default:
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
}

// validationError converts collected field errors into one field-scoped AppError.
func validationError(err error) error {
	var fieldErrs validation.FieldErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return apperrors.Validation(fieldErrs[0].Field, fieldErrs.Error())
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return apperrors.Wrap(apperrors.ErrValidation, err)
}
