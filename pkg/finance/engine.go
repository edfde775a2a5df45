package finance

import (
	"fmt"

	"github.com/iwvelando/liquidity-forecast/pkg/datetime"
	"github.com/iwvelando/liquidity-forecast/pkg/format"
	"github.com/iwvelando/liquidity-forecast/pkg/mathutil"
	"github.com/iwvelando/liquidity-forecast/pkg/money"
	"go.uber.org/zap"
)

// ForecastEngine coordinates the overall forecasting process
type ForecastEngine struct {
	logger *zap.Logger
}

// NewForecastEngine creates a new forecast engine
func NewForecastEngine(logger *zap.Logger) *ForecastEngine {
	if logger == nil {
		// Create a no-op logger if none provided
		logger = zap.NewNop()
	}
	return &ForecastEngine{logger: logger}
}

// Calculate derives the full forecast. It either returns a complete result
// or an error; a partial forecast is never produced.
func (fe *ForecastEngine) Calculate(plan Plan, assumptions []Assumption, ist []IstTotal) (*Result, error) {
	if plan.CreditLine == nil {
		return nil, fmt.Errorf("%w: creditLineCents is missing", ErrInvalidPlanConfig)
	}

	periods, err := GeneratePeriods(plan.StartDate, plan.PeriodType, plan.PeriodCount, plan.IstPeriodCount)
	if err != nil {
		return nil, err
	}

	istByIndex := make(map[int]IstTotal, len(ist))
	for _, total := range ist {
		istByIndex[total.PeriodIndex] = total
	}

	aggregator := NewAggregator(fe.logger, NewEvaluator(fe.logger, plan.PeriodType))
	rows, err := aggregator.Aggregate(periods, assumptions, istByIndex, plan.OpeningBalance)
	if err != nil {
		return nil, err
	}
	if err := ApplyHeadroom(rows, plan.CreditLine, plan.ReservesTotal); err != nil {
		return nil, err
	}

	istCount := mathutil.Clamp(plan.IstPeriodCount, 0, plan.PeriodCount)
	active := 0
	for _, a := range assumptions {
		if a.IsActive {
			active++
		}
	}

	result := &Result{
		Periods: rows,
		Meta: Meta{
			OpeningBalanceCents:  plan.OpeningBalance,
			OpeningBalanceSource: plan.OpeningBalanceSource,
			IstPeriodCount:       istCount,
			ForecastPeriodCount:  plan.PeriodCount - istCount,
			PeriodCount:          plan.PeriodCount,
			PeriodType:           plan.PeriodType,
			PlanStartDate:        plan.StartDate.Format(datetime.DateLayout),
			CreditLineCents:      *plan.CreditLine,
			CreditLineSource:     plan.CreditLineSource,
			ReservesTotalCents:   plan.ReservesTotal,
			AssumptionCount:      len(assumptions),
			ActiveAssumptions:    active,
		},
		Summary: Summarize(rows, plan.OpeningBalance),
	}
	result.Warnings = buildWarnings(result, active)

	fe.logger.Debug("Forecast calculated",
		zap.String("op", "finance.Calculate"),
		zap.Int("periods", len(rows)),
		zap.Int("istPeriods", istCount),
		zap.Int("activeAssumptions", active),
	)
	return result, nil
}

// Summarize computes the summary block. The minimum headroom is taken over
// headroomAfterReserves; ties resolve to the earliest period.
func Summarize(periods []ForecastPeriod, opening money.Cents) Summary {
	summary := Summary{FinalClosingBalanceCents: opening}
	for i, p := range periods {
		summary.TotalInflowsCents = summary.TotalInflowsCents.Add(p.CashInTotalCents)
		summary.TotalOutflowsCents = summary.TotalOutflowsCents.Add(p.CashOutTotalCents)
		if i == 0 || p.HeadroomAfterReservesCents.LessThan(summary.MinHeadroomCents) {
			summary.MinHeadroomCents = p.HeadroomAfterReservesCents
			summary.MinHeadroomPeriodIndex = p.PeriodIndex
		}
	}
	if len(periods) > 0 {
		summary.FinalClosingBalanceCents = periods[len(periods)-1].ClosingBalanceCents
	}
	return summary
}

func buildWarnings(result *Result, activeAssumptions int) []string {
	warnings := []string{}
	if result.Summary.MinHeadroomCents.IsNegative() {
		label := fmt.Sprintf("Periode %d", result.Summary.MinHeadroomPeriodIndex)
		if idx := result.Summary.MinHeadroomPeriodIndex; idx < len(result.Periods) {
			label = result.Periods[idx].PeriodLabel
		}
		warnings = append(warnings, fmt.Sprintf("Liquiditätsengpass in %s: Headroom nach Rückstellungen ist negativ (%s)",
			label, format.Currency(result.Summary.MinHeadroomCents)))
	}
	if activeAssumptions == 0 {
		warnings = append(warnings, "Keine aktiven Annahmen vorhanden. Forecast-Perioden zeigen 0 €.")
	}
	return warnings
}
