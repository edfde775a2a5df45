package adapters

import (
	"fmt"
	"strings"

	"github.com/iwvelando/liquidity-forecast/internal/config"
	"github.com/iwvelando/liquidity-forecast/pkg/constants"
	"github.com/iwvelando/liquidity-forecast/pkg/datetime"
	"github.com/iwvelando/liquidity-forecast/pkg/finance"
	"github.com/iwvelando/liquidity-forecast/pkg/money"
	"github.com/iwvelando/liquidity-forecast/pkg/validation"
)

// ForecastInput is a plan file converted for the engine.
type ForecastInput struct {
	Plan        finance.Plan
	Assumptions []finance.Assumption
	Ist         []finance.IstTotal
	// IstCutoffOverride may shorten the IST prefix reported for the plan.
	IstCutoffOverride *int
}

// PlanFileToForecastInput validates a plan file the same way the API
// validates its inputs and converts it for the engine. Every problem is
// reported, prefixed with its location in the file.
func PlanFileToForecastInput(pf config.PlanFile) (*ForecastInput, error) {
	var errs validation.FieldErrors
	add := func(field string, err error) {
		errs = append(errs, validation.FieldError{Field: field, Message: err.Error()})
	}

	periodType := strings.ToUpper(strings.TrimSpace(pf.PeriodType))
	if periodType == "" {
		periodType = constants.DefaultPeriodType
	}
	if !validation.IsPeriodType(periodType) {
		add("plan.periodType", fmt.Errorf("must be WEEKLY or MONTHLY"))
	}

	plan := finance.Plan{
		PeriodType:           periodType,
		PeriodCount:          pf.PeriodCount,
		OpeningBalanceSource: pf.OpeningBalanceSource,
		CreditLineSource:     pf.CreditLineSource,
		IstPeriodCount:       pf.IstPeriodCount,
	}
	if plan.OpeningBalanceSource == "" {
		plan.OpeningBalanceSource = constants.DefaultBalanceSource
	}

	if pf.StartDate != "" {
		start, err := datetime.ParseDate(pf.StartDate)
		if err != nil {
			add("plan.startDate", err)
		}
		plan.StartDate = start
	}

	parseAmount := func(field, value string) money.Cents {
		if strings.TrimSpace(value) == "" {
			return money.Zero
		}
		amount, err := money.ParseLocale(value)
		if err != nil {
			add(field, err)
		}
		return amount
	}
	plan.OpeningBalance = parseAmount("plan.openingBalance", pf.OpeningBalance)
	plan.ReservesTotal = parseAmount("plan.reserves", pf.Reserves)
	if strings.TrimSpace(pf.CreditLine) != "" {
		credit := parseAmount("plan.creditLine", pf.CreditLine)
		plan.CreditLine = &credit
	}

	assumptions := make([]finance.Assumption, 0, len(pf.Assumptions))
	for i, in := range pf.Assumptions {
		validated, err := validation.NewAssumption(in, pf.PeriodCount)
		if err != nil {
			prefix := fmt.Sprintf("plan.assumptions[%d].", i)
			if fieldErrs, ok := err.(validation.FieldErrors); ok {
				for _, fe := range fieldErrs {
					errs = append(errs, validation.FieldError{Field: prefix + fe.Field, Message: fe.Message})
				}
			} else {
				add(strings.TrimSuffix(prefix, "."), err)
			}
			continue
		}
		if in.SortOrder == nil {
			validated.SortOrder = i
		}
		assumptions = append(assumptions, ValidatedToFinanceAssumption(fmt.Sprintf("assumption-%d", i+1), validated))
	}

	ist := make([]finance.IstTotal, 0, len(pf.Ist))
	for i, entry := range pf.Ist {
		prefix := fmt.Sprintf("plan.ist[%d].", i)
		cashIn := parseAmount(prefix+"cashIn", entry.CashIn)
		cashOut := parseAmount(prefix+"cashOut", entry.CashOut)
		if cashIn.IsNegative() || cashOut.IsNegative() {
			add(strings.TrimSuffix(prefix, "."), fmt.Errorf("ledger totals are non-negative magnitudes"))
		}
		ist = append(ist, finance.IstTotal{PeriodIndex: entry.PeriodIndex, CashIn: cashIn, CashOut: cashOut})
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &ForecastInput{
		Plan:              plan,
		Assumptions:       assumptions,
		Ist:               ist,
		IstCutoffOverride: pf.IstCutoffOverride,
	}, nil
}

// ValidatedToFinanceAssumption converts a validated assumption that has not
// been persisted.
func ValidatedToFinanceAssumption(id string, v validation.Assumption) finance.Assumption {
	return finance.Assumption{
		ID:                  id,
		CategoryKey:         v.CategoryKey,
		CategoryLabel:       v.CategoryLabel,
		FlowType:            v.FlowType,
		AssumptionType:      v.AssumptionType,
		BaseAmount:          v.BaseAmount,
		GrowthFactorPercent: v.GrowthFactorPercent,
		SeasonalProfile:     v.SeasonalProfile,
		StartPeriodIndex:    v.StartPeriodIndex,
		EndPeriodIndex:      v.EndPeriodIndex,
		IsActive:            v.IsActive,
		SortOrder:           v.SortOrder,
	}
}
