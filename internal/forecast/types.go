// Package forecast is the service layer of the liquidity planner: it runs
// every plan and assumption mutation against the store and answers with a
// fully recomputed forecast.
package forecast

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iwvelando/liquidity-forecast/internal/models"
	"github.com/iwvelando/liquidity-forecast/pkg/finance"
	"github.com/iwvelando/liquidity-forecast/pkg/money"
	"github.com/iwvelando/liquidity-forecast/pkg/validation"
)

// ForecastData is the recomputed forecast of a plan.
type ForecastData struct {
	PlanID      string                   `json:"planId"`
	CaseID      string                   `json:"caseId"`
	IsLocked    bool                     `json:"isLocked"`
	Periods     []finance.ForecastPeriod `json:"periods"`
	Assumptions []models.Assumption      `json:"assumptions"`
	Meta        finance.Meta             `json:"meta"`
	Summary     finance.Summary          `json:"summary"`
	Warnings    []string                 `json:"warnings"`
}

// PlanInput creates a plan. Amounts are locale strings.
type PlanInput struct {
	CaseID               string  `json:"caseId" binding:"required"`
	PlanStartDate        string  `json:"planStartDate" binding:"required"`
	PeriodType           string  `json:"periodType" binding:"omitempty,period_type"`
	PeriodCount          int     `json:"periodCount" binding:"omitempty,min=1"`
	OpeningBalance       string  `json:"openingBalance"`
	OpeningBalanceSource string  `json:"openingBalanceSource"`
	CreditLine           *string `json:"creditLine"`
	CreditLineSource     string  `json:"creditLineSource"`
	Reserves             string  `json:"reserves"`
}

// SyncResult reports an IST synchronization. The suggested opening balance
// is only ever reported, never applied.
type SyncResult struct {
	Forecast                     *ForecastData `json:"forecast"`
	PreviousIstPeriodCount       int           `json:"previousIstPeriodCount"`
	IstPeriodCount               int           `json:"istPeriodCount"`
	SuggestedOpeningBalanceCents *money.Cents  `json:"suggestedOpeningBalanceCents,omitempty"`
}

// SnapshotDetail is a stored snapshot with its frozen forecast.
type SnapshotDetail struct {
	ID        string          `json:"id"`
	PlanID    string          `json:"planId"`
	Label     string          `json:"label"`
	CreatedAt time.Time       `json:"createdAt"`
	Forecast  json.RawMessage `json:"forecast"`
}

// Servicer defines the contract of the forecast service.
type Servicer interface {
	Recompute(ctx context.Context, planID string) (*ForecastData, error)

	CreatePlan(ctx context.Context, in PlanInput) (*models.Plan, error)
	GetPlan(ctx context.Context, planID string) (*models.Plan, error)
	GetPlanByCase(ctx context.Context, caseID string) (*models.Plan, error)
	SetOpeningBalance(ctx context.Context, planID, amount, source string) (*ForecastData, error)
	SetCreditLine(ctx context.Context, planID, amount, source string) (*ForecastData, error)
	SetReserves(ctx context.Context, planID, amount string) (*ForecastData, error)
	SetIstCutoffOverride(ctx context.Context, planID string, override *int) (*ForecastData, error)
	LockPlan(ctx context.Context, planID, reason string) (*ForecastData, error)
	UnlockPlan(ctx context.Context, planID string) (*ForecastData, error)
	SyncIst(ctx context.Context, planID string) (*SyncResult, error)

	ListAssumptions(ctx context.Context, planID string) ([]models.Assumption, error)
	CreateAssumption(ctx context.Context, planID string, in validation.AssumptionInput) (*models.Assumption, *ForecastData, error)
	UpdateAssumption(ctx context.Context, planID, assumptionID string, in validation.AssumptionInput) (*models.Assumption, *ForecastData, error)
	DeleteAssumption(ctx context.Context, planID, assumptionID string) (bool, *ForecastData, error)
	ToggleAssumption(ctx context.Context, planID, assumptionID string, isActive *bool) (*models.Assumption, *ForecastData, error)

	CreateSnapshot(ctx context.Context, planID, label string) (*models.ForecastSnapshot, error)
	ListSnapshots(ctx context.Context, planID string) ([]models.ForecastSnapshot, error)
	GetSnapshot(ctx context.Context, planID, snapshotID string) (*SnapshotDetail, error)
}

// Result returns the engine view of the forecast, as used by the exporters.
func (f *ForecastData) Result() *finance.Result {
	return &finance.Result{
		Periods:  f.Periods,
		Meta:     f.Meta,
		Summary:  f.Summary,
		Warnings: f.Warnings,
	}
}
