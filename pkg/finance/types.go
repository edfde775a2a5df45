// Package finance implements the liquidity forecast engine: period
// generation, assumption evaluation, two-pass period aggregation and
// headroom. It is a pure function of plan, assumptions and IST totals.
package finance

import (
	"errors"
	"time"

	"github.com/iwvelando/liquidity-forecast/pkg/money"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidPlanConfig marks plans that cannot produce any forecast.
	ErrInvalidPlanConfig = errors.New("invalid plan configuration")
	// ErrMissingIstData marks an IST period without a reconciled ledger total.
	ErrMissingIstData = errors.New("missing IST data")
)

// Plan carries the plan attributes the engine needs.
type Plan struct {
	StartDate            time.Time
	PeriodType           string
	PeriodCount          int
	OpeningBalance       money.Cents
	OpeningBalanceSource string
	CreditLine           *money.Cents
	CreditLineSource     string
	ReservesTotal        money.Cents
	IstPeriodCount       int
}

// Assumption is a planning rule projected onto FORECAST periods.
type Assumption struct {
	ID                  string
	CategoryKey         string
	CategoryLabel       string
	FlowType            string
	AssumptionType      string
	BaseAmount          money.Cents
	GrowthFactorPercent *decimal.Decimal
	SeasonalProfile     []decimal.Decimal
	StartPeriodIndex    int
	EndPeriodIndex      int
	IsActive            bool
	SortOrder           int
}

// IstTotal is the reconciled ledger total of one IST period. Both amounts
// are non-negative magnitudes.
type IstTotal struct {
	PeriodIndex int         `json:"periodIndex" yaml:"periodIndex"`
	CashIn      money.Cents `json:"cashInTotalCents" yaml:"cashInTotalCents"`
	CashOut     money.Cents `json:"cashOutTotalCents" yaml:"cashOutTotalCents"`
}

// Period is one generated time bucket of a plan.
type Period struct {
	Index      int
	Label      string
	StartDate  time.Time
	DataSource string
}

// LineItem is the contribution of one assumption to one FORECAST period.
type LineItem struct {
	AssumptionID  string      `json:"assumptionId"`
	CategoryKey   string      `json:"categoryKey"`
	CategoryLabel string      `json:"categoryLabel"`
	FlowType      string      `json:"flowType"`
	AmountCents   money.Cents `json:"amountCents"`
	Formula       string      `json:"formula"`
}

// ForecastPeriod is a derived, never persisted, row of the forecast.
type ForecastPeriod struct {
	PeriodIndex                int         `json:"periodIndex"`
	PeriodLabel                string      `json:"periodLabel"`
	PeriodStartDate            string      `json:"periodStartDate"`
	DataSource                 string      `json:"dataSource"`
	OpeningBalanceCents        money.Cents `json:"openingBalanceCents"`
	CashInTotalCents           money.Cents `json:"cashInTotalCents"`
	CashOutTotalCents          money.Cents `json:"cashOutTotalCents"`
	NetCashflowCents           money.Cents `json:"netCashflowCents"`
	ClosingBalanceCents        money.Cents `json:"closingBalanceCents"`
	CreditLineAvailableCents   money.Cents `json:"creditLineAvailableCents"`
	HeadroomCents              money.Cents `json:"headroomCents"`
	HeadroomAfterReservesCents money.Cents `json:"headroomAfterReservesCents"`
	LineItems                  []LineItem  `json:"lineItems"`
}

// Meta echoes the plan attributes a forecast was computed from.
type Meta struct {
	OpeningBalanceCents  money.Cents `json:"openingBalanceCents"`
	OpeningBalanceSource string      `json:"openingBalanceSource"`
	IstPeriodCount       int         `json:"istPeriodCount"`
	ForecastPeriodCount  int         `json:"forecastPeriodCount"`
	PeriodCount          int         `json:"periodCount"`
	PeriodType           string      `json:"periodType"`
	PlanStartDate        string      `json:"planStartDate"`
	CreditLineCents      money.Cents `json:"creditLineCents"`
	CreditLineSource     string      `json:"creditLineSource"`
	ReservesTotalCents   money.Cents `json:"reservesTotalCents"`
	AssumptionCount      int         `json:"assumptionCount"`
	ActiveAssumptions    int         `json:"activeAssumptionCount"`
}

// Summary condenses the forecast into its solvency signals.
type Summary struct {
	FinalClosingBalanceCents money.Cents `json:"finalClosingBalanceCents"`
	MinHeadroomCents         money.Cents `json:"minHeadroomCents"`
	MinHeadroomPeriodIndex   int         `json:"minHeadroomPeriodIndex"`
	TotalInflowsCents        money.Cents `json:"totalInflowsCents"`
	TotalOutflowsCents       money.Cents `json:"totalOutflowsCents"`
}

// Result is the engine output for one plan.
type Result struct {
	Periods  []ForecastPeriod `json:"periods"`
	Meta     Meta             `json:"meta"`
	Summary  Summary          `json:"summary"`
	Warnings []string         `json:"warnings"`
}
