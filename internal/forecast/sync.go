package forecast

import (
	"context"
	"errors"

	apperrors "github.com/iwvelando/liquidity-forecast/internal/errors"
	"github.com/iwvelando/liquidity-forecast/internal/ledger"
	"github.com/iwvelando/liquidity-forecast/internal/models"
	"github.com/iwvelando/liquidity-forecast/internal/store"
	"github.com/iwvelando/liquidity-forecast/pkg/finance"
	"go.uber.org/zap"
)

// SyncIst asks the ledger which leading periods are reconciled, stores the
// answer and recomputes. Concurrent syncs of one plan are rejected, not
// queued. The call is not retried.
func (s *Service) SyncIst(ctx context.Context, planID string) (*SyncResult, error) {
	if s.ledger == nil {
		return nil, apperrors.WithMessage(apperrors.ErrLedgerUnavailable, "No ledger aggregation service is configured")
	}

	plan, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if err := checkUnlocked(plan); err != nil {
		return nil, err
	}

	release, ok, err := s.locker.TryLock(ctx, "sync:"+planID, s.lockTTL)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if !ok {
		return nil, apperrors.ErrSyncInProgress
	}
	defer release()

	periods, err := finance.GeneratePeriods(plan.PlanStartDate, plan.PeriodType, plan.PeriodCount, 0)
	if err != nil {
		return nil, engineError(err)
	}
	req := ledger.NewRequest(plan.CaseID, plan.PeriodType, periods)
	resp, err := s.ledger.Aggregate(ctx, req)
	if err == nil {
		err = ledger.Check(req, resp)
	}
	if err != nil {
		s.logger.Error("Ledger aggregation failed",
			zap.String("op", "forecast.SyncIst"),
			zap.String("planId", planID),
			zap.Error(err),
		)
		if errors.Is(err, ledger.ErrInconsistent) {
			return nil, apperrors.Wrap(apperrors.ErrLedgerInconsistent, err)
		}
		return nil, apperrors.Wrap(apperrors.ErrLedgerUnavailable, err)
	}

	previous := plan.EffectiveIstPeriodCount()
	totals := make([]models.IstPeriodTotal, 0, len(resp.Periods))
	for _, t := range resp.Periods {
		totals = append(totals, models.IstPeriodTotal{
			PeriodIndex:       t.PeriodIndex,
			CashInTotalCents:  t.CashIn,
			CashOutTotalCents: t.CashOut,
		})
	}

	syncedAt := s.now().UTC()
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := mutablePlan(ctx, tx, planID); err != nil {
			return err
		}
		return tx.ReplaceIstTotals(ctx, planID, resp.IstPeriodCount, totals, syncedAt)
	})
	if err != nil {
		return nil, err
	}

	updated, err := s.store.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	current := updated.EffectiveIstPeriodCount()

	s.logger.Info("IST synchronized",
		zap.String("op", "forecast.SyncIst"),
		zap.String("planId", planID),
		zap.Int("previousIstPeriodCount", previous),
		zap.Int("istPeriodCount", current),
	)

	data, err := s.recompute(ctx, updated)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{
		Forecast:               data,
		PreviousIstPeriodCount: previous,
		IstPeriodCount:         current,
	}
	// A period that was FORECAST is IST now: suggest the reconciled closing
	// balance as the new opening balance.
	if current > previous && current <= len(data.Periods) {
		suggestion := data.Periods[current-1].ClosingBalanceCents
		result.SuggestedOpeningBalanceCents = &suggestion
	}
	return result, nil
}
