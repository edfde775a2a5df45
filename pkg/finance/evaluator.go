package finance

import (
	"fmt"
	"strings"

	"github.com/iwvelando/liquidity-forecast/pkg/constants"
	"github.com/iwvelando/liquidity-forecast/pkg/format"
	"github.com/iwvelando/liquidity-forecast/pkg/mathutil"
	"github.com/iwvelando/liquidity-forecast/pkg/money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Evaluator computes the amount one assumption contributes to one period.
type Evaluator struct {
	logger     *zap.Logger
	periodType string
}

// NewEvaluator creates an evaluator for plans of the given period type.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewEvaluator(logger *zap.Logger, periodType string) *Evaluator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Evaluator{logger: logger, periodType: periodType}
}

// Applies reports whether the assumption contributes to the period at all.
func Applies(a Assumption, p Period) bool {
	if !a.IsActive || p.DataSource != constants.DataSourceForecast {
		return false
	}
	if p.Index < a.StartPeriodIndex || p.Index > a.EndPeriodIndex {
		return false
	}
	if a.AssumptionType == constants.AssumptionTypeOneTime && p.Index != a.StartPeriodIndex {
		return false
	}
	return true
}

// Evaluate returns the line item of a non-percentage assumption for period p,
// or false when the assumption contributes nothing there.
func (e *Evaluator) Evaluate(a Assumption, p Period) (LineItem, bool) {
	if !Applies(a, p) {
		return LineItem{}, false
	}

	var amount money.Cents
	var formula string
	switch a.AssumptionType {
	case constants.AssumptionTypeFixed:
		amount = a.BaseAmount
		formula = format.NumericCurrency(a.BaseAmount) + " (fix)"
	case constants.AssumptionTypeOneTime:
		amount = a.BaseAmount
		formula = format.NumericCurrency(a.BaseAmount) + " (einmalig)"
	case constants.AssumptionTypeRunRate:
		amount, formula = e.runRate(a, p)
	default:
		e.logger.Warn("Skipping assumption with unsupported type",
			zap.String("op", "finance.Evaluate"),
			zap.String("assumption", a.ID),
			zap.String("type", a.AssumptionType),
		)
		return LineItem{}, false
	}

	if amount.IsZero() {
		return LineItem{}, false
	}
	return newLineItem(a, amount, formula), true
}

// EvaluatePercentage returns the line item of a PERCENTAGE_OF_REVENUE
// assumption given the finalized cash-in total of the period.
func (e *Evaluator) EvaluatePercentage(a Assumption, p Period, cashIn money.Cents) (LineItem, bool) {
	if a.AssumptionType != constants.AssumptionTypePercentageOfRevenue || !Applies(a, p) {
		return LineItem{}, false
	}
	amount := cashIn.PercentOf(a.BaseAmount)
	if amount.IsZero() {
		return LineItem{}, false
	}
	formula := fmt.Sprintf("%s × %s = %s",
		format.BasisPercent(a.BaseAmount),
		format.NumericCurrency(cashIn),
		format.NumericCurrency(amount),
	)
	return newLineItem(a, amount, formula), true
}

// runRate compounds directly from the base for each k, so rounding never accumulates.
func (e *Evaluator) runRate(a Assumption, p Period) (money.Cents, string) {
	k := p.Index - a.StartPeriodIndex
	factor := mathutil.GrowthFactor(a.GrowthFactorPercent, k)

	parts := []string{format.NumericCurrency(a.BaseAmount)}
	if a.GrowthFactorPercent != nil && !a.GrowthFactorPercent.IsZero() {
		sign := "+"
		if a.GrowthFactorPercent.IsNegative() {
			sign = "-"
		}
		parts = append(parts, fmt.Sprintf("× (1%s%s)^%d", sign, format.Percent(a.GrowthFactorPercent.Abs()), k))
	}

	if season, ok := e.seasonalFactor(a, p); ok {
		factor = factor.Mul(season)
		parts = append(parts, "× "+strings.Replace(season.String(), ".", ",", 1))
	}

	amount := a.BaseAmount.Mul(factor)
	if len(parts) > 1 {
		parts = append(parts, "= "+format.NumericCurrency(amount))
	}
	return amount, strings.Join(parts, " ")
}

func (e *Evaluator) seasonalFactor(a Assumption, p Period) (decimal.Decimal, bool) {
	if e.periodType != constants.PeriodTypeMonthly || len(a.SeasonalProfile) != constants.MonthsPerYear {
		return decimal.Zero, false
	}
	return a.SeasonalProfile[p.StartDate.Month()-1], true
}

func newLineItem(a Assumption, amount money.Cents, formula string) LineItem {
	return LineItem{
		AssumptionID:  a.ID,
		CategoryKey:   a.CategoryKey,
		CategoryLabel: a.CategoryLabel,
		FlowType:      a.FlowType,
		AmountCents:   amount,
		Formula:       formula,
	}
}
