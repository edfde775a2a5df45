// Package adapters converts between persisted models, validated input and
// the engine's types.
package adapters

import (
	"github.com/iwvelando/liquidity-forecast/internal/models"
	"github.com/iwvelando/liquidity-forecast/pkg/finance"
	"github.com/iwvelando/liquidity-forecast/pkg/validation"
)

// PlanToFinancePlan converts a persisted plan, honouring its IST cutoff override.
func PlanToFinancePlan(plan models.Plan) finance.Plan {
	return finance.Plan{
		StartDate:            plan.PlanStartDate,
		PeriodType:           plan.PeriodType,
		PeriodCount:          plan.PeriodCount,
		OpeningBalance:       plan.OpeningBalanceCents,
		OpeningBalanceSource: plan.OpeningBalanceSource,
		CreditLine:           plan.CreditLineCents,
		CreditLineSource:     plan.CreditLineSource,
		ReservesTotal:        plan.ReservesTotalCents,
		IstPeriodCount:       plan.EffectiveIstPeriodCount(),
	}
}

// AssumptionToFinanceAssumption converts one persisted assumption.
func AssumptionToFinanceAssumption(a models.Assumption) finance.Assumption {
	return finance.Assumption{
		ID:                  a.ID,
		CategoryKey:         a.CategoryKey,
		CategoryLabel:       a.CategoryLabel,
		FlowType:            a.FlowType,
		AssumptionType:      a.AssumptionType,
		BaseAmount:          a.BaseAmountCents,
		GrowthFactorPercent: a.GrowthFactorPercent,
		SeasonalProfile:     a.SeasonalProfile,
		StartPeriodIndex:    a.StartPeriodIndex,
		EndPeriodIndex:      a.EndPeriodIndex,
		IsActive:            a.IsActive,
		SortOrder:           a.SortOrder,
	}
}

// AssumptionsToFinanceAssumptions converts persisted assumptions for the engine.
func AssumptionsToFinanceAssumptions(assumptions []models.Assumption) []finance.Assumption {
	if assumptions == nil {
		return nil
	}

	financeAssumptions := make([]finance.Assumption, 0, len(assumptions))
	for _, a := range assumptions {
		financeAssumptions = append(financeAssumptions, AssumptionToFinanceAssumption(a))
	}
	return financeAssumptions
}

// IstTotalsToFinanceTotals converts persisted IST totals for the engine.
func IstTotalsToFinanceTotals(totals []models.IstPeriodTotal) []finance.IstTotal {
	result := make([]finance.IstTotal, 0, len(totals))
	for _, t := range totals {
		result = append(result, finance.IstTotal{
			PeriodIndex: t.PeriodIndex,
			CashIn:      t.CashInTotalCents,
			CashOut:     t.CashOutTotalCents,
		})
	}
	return result
}

// AssumptionToValidated extracts the user-editable fields of a persisted assumption.
func AssumptionToValidated(a models.Assumption) validation.Assumption {
	return validation.Assumption{
		CategoryKey:         a.CategoryKey,
		CategoryLabel:       a.CategoryLabel,
		FlowType:            a.FlowType,
		AssumptionType:      a.AssumptionType,
		BaseAmount:          a.BaseAmountCents,
		BaseAmountSource:    a.BaseAmountSource,
		BaseAmountNote:      a.BaseAmountNote,
		GrowthFactorPercent: a.GrowthFactorPercent,
		SeasonalProfile:     a.SeasonalProfile,
		StartPeriodIndex:    a.StartPeriodIndex,
		EndPeriodIndex:      a.EndPeriodIndex,
		IsActive:            a.IsActive,
		SortOrder:           a.SortOrder,
		Method:              a.Method,
		BaseReferencePeriod: a.BaseReferencePeriod,
		RiskProbability:     a.RiskProbability,
		RiskImpact:          a.RiskImpactCents,
		RiskComment:         a.RiskComment,
		VisibilityScope:     a.VisibilityScope,
		LastReviewedAt:      a.LastReviewedAt,
	}
}

// ApplyValidated copies validated fields onto a persisted assumption.
func ApplyValidated(dst *models.Assumption, v validation.Assumption) {
	dst.CategoryKey = v.CategoryKey
	dst.CategoryLabel = v.CategoryLabel
	dst.FlowType = v.FlowType
	dst.AssumptionType = v.AssumptionType
	dst.BaseAmountCents = v.BaseAmount
	dst.BaseAmountSource = v.BaseAmountSource
	dst.BaseAmountNote = v.BaseAmountNote
	dst.GrowthFactorPercent = v.GrowthFactorPercent
	dst.SeasonalProfile = v.SeasonalProfile
	dst.StartPeriodIndex = v.StartPeriodIndex
	dst.EndPeriodIndex = v.EndPeriodIndex
	dst.IsActive = v.IsActive
	dst.SortOrder = v.SortOrder
	dst.Method = v.Method
	dst.BaseReferencePeriod = v.BaseReferencePeriod
	dst.RiskProbability = v.RiskProbability
	dst.RiskImpactCents = v.RiskImpact
	dst.RiskComment = v.RiskComment
	dst.VisibilityScope = v.VisibilityScope
	dst.LastReviewedAt = v.LastReviewedAt
}
