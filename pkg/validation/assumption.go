package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/iwvelando/liquidity-forecast/pkg/constants"
	"github.com/iwvelando/liquidity-forecast/pkg/datetime"
	"github.com/iwvelando/liquidity-forecast/pkg/mathutil"
	"github.com/iwvelando/liquidity-forecast/pkg/money"
	"github.com/shopspring/decimal"
)

var minGrowthPercent = decimal.NewFromInt(-constants.PercentageMultiplier)

// FieldError is one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldErrors collects every problem of one input before anything is written.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, e := range fe {
		parts[i] = e.Field + ": " + e.Message
	}
	return strings.Join(parts, "; ")
}

func (fe *FieldErrors) add(field, format string, args ...interface{}) {
	*fe = append(*fe, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// AssumptionInput is the user-entered form of an assumption. A nil field was
// not supplied; for nullable values an empty string clears them.
type AssumptionInput struct {
	CategoryKey         *string   `json:"categoryKey" yaml:"categoryKey"`
	CategoryLabel       *string   `json:"categoryLabel" yaml:"categoryLabel"`
	FlowType            *string   `json:"flowType" yaml:"flowType" binding:"omitempty,flow_type"`
	AssumptionType      *string   `json:"assumptionType" yaml:"assumptionType" binding:"omitempty,assumption_type"`
	BaseAmount          *string   `json:"baseAmount" yaml:"baseAmount"`
	BaseAmountSource    *string   `json:"baseAmountSource" yaml:"baseAmountSource"`
	BaseAmountNote      *string   `json:"baseAmountNote" yaml:"baseAmountNote"`
	GrowthFactorPercent *string   `json:"growthFactorPercent" yaml:"growthFactorPercent"`
	SeasonalProfile     *[]string `json:"seasonalProfile" yaml:"seasonalProfile"`
	StartPeriodIndex    *int      `json:"startPeriodIndex" yaml:"startPeriodIndex" binding:"omitempty,min=0"`
	EndPeriodIndex      *int      `json:"endPeriodIndex" yaml:"endPeriodIndex" binding:"omitempty,min=0"`
	IsActive            *bool     `json:"isActive" yaml:"isActive"`
	SortOrder           *int      `json:"sortOrder" yaml:"sortOrder"`
	Method              *string   `json:"method" yaml:"method"`
	BaseReferencePeriod *string   `json:"baseReferencePeriod" yaml:"baseReferencePeriod"`
	RiskProbability     *string   `json:"riskProbability" yaml:"riskProbability"`
	RiskImpact          *string   `json:"riskImpact" yaml:"riskImpact"`
	RiskComment         *string   `json:"riskComment" yaml:"riskComment"`
	VisibilityScope     *string   `json:"visibilityScope" yaml:"visibilityScope" binding:"omitempty,visibility_scope"`
	LastReviewedAt      *string   `json:"lastReviewedAt" yaml:"lastReviewedAt"`
}

// Assumption is the validated, typed form of an assumption.
type Assumption struct {
	CategoryKey         string
	CategoryLabel       string
	FlowType            string
	AssumptionType      string
	BaseAmount          money.Cents
	BaseAmountSource    string
	BaseAmountNote      string
	GrowthFactorPercent *decimal.Decimal
	SeasonalProfile     []decimal.Decimal
	StartPeriodIndex    int
	EndPeriodIndex      int
	IsActive            bool
	SortOrder           int
	Method              string
	BaseReferencePeriod string
	RiskProbability     *decimal.Decimal // fraction 0-1
	RiskImpact          *money.Cents
	RiskComment         string
	VisibilityScope     string
	LastReviewedAt      *time.Time
}

// Columns of an assumption that an input can change.
const (
	ColCategoryKey         = "category_key"
	ColCategoryLabel       = "category_label"
	ColFlowType            = "flow_type"
	ColAssumptionType      = "assumption_type"
	ColBaseAmount          = "base_amount_cents"
	ColBaseAmountSource    = "base_amount_source"
	ColBaseAmountNote      = "base_amount_note"
	ColGrowthFactorPercent = "growth_factor_percent"
	ColSeasonalProfile     = "seasonal_profile"
	ColStartPeriodIndex    = "start_period_index"
	ColEndPeriodIndex      = "end_period_index"
	ColIsActive            = "is_active"
	ColSortOrder           = "sort_order"
	ColMethod              = "method"
	ColBaseReferencePeriod = "base_reference_period"
	ColRiskProbability     = "risk_probability"
	ColRiskImpact          = "risk_impact_cents"
	ColRiskComment         = "risk_comment"
	ColVisibilityScope     = "visibility_scope"
	ColLastReviewedAt      = "last_reviewed_at"
)

// NewAssumption validates a complete create input for a plan of periodCount periods.
func NewAssumption(in AssumptionInput, periodCount int) (Assumption, error) {
	var errs FieldErrors
	requireString(&errs, "categoryLabel", in.CategoryLabel)
	requireString(&errs, "flowType", in.FlowType)
	requireString(&errs, "assumptionType", in.AssumptionType)
	requireString(&errs, "baseAmount", in.BaseAmount)
	requireString(&errs, "baseAmountSource", in.BaseAmountSource)
	if len(errs) > 0 {
		return Assumption{}, errs
	}

	defaults := Assumption{
		IsActive:        true,
		VisibilityScope: constants.VisibilityIntern,
		EndPeriodIndex:  -1,
	}
	merged, _, err := ApplyAssumptionInput(defaults, in, periodCount)
	return merged, err
}

// ApplyAssumptionInput merges the supplied fields of in onto current and
// validates the merged record as a whole. It returns the merged record and
// the columns the input changed, so callers can write only those.
func ApplyAssumptionInput(current Assumption, in AssumptionInput, periodCount int) (Assumption, []string, error) {
	var errs FieldErrors
	next := current
	var changed []string
	touch := func(col string) { changed = append(changed, col) }

	if in.CategoryLabel != nil {
		label := strings.TrimSpace(*in.CategoryLabel)
		if label == "" {
			errs.add("categoryLabel", "must not be empty")
		}
		next.CategoryLabel = label
		touch(ColCategoryLabel)
	}
	switch {
	case in.CategoryKey != nil && strings.TrimSpace(*in.CategoryKey) != "":
		next.CategoryKey = DeriveCategoryKey(*in.CategoryKey)
		touch(ColCategoryKey)
	case current.CategoryKey == "" && next.CategoryLabel != "":
		next.CategoryKey = DeriveCategoryKey(next.CategoryLabel)
		touch(ColCategoryKey)
	}
	if in.CategoryKey != nil && next.CategoryKey == "" {
		errs.add("categoryKey", "must contain at least one letter or digit")
	}

	if in.FlowType != nil {
		next.FlowType = strings.ToUpper(strings.TrimSpace(*in.FlowType))
		if !IsFlowType(next.FlowType) {
			errs.add("flowType", "must be %s or %s", constants.FlowTypeInflow, constants.FlowTypeOutflow)
		}
		touch(ColFlowType)
	}
	if in.AssumptionType != nil {
		next.AssumptionType = strings.ToUpper(strings.TrimSpace(*in.AssumptionType))
		if !IsAssumptionType(next.AssumptionType) {
			errs.add("assumptionType", "unknown assumption type %q", *in.AssumptionType)
		}
		touch(ColAssumptionType)
	}

	if in.BaseAmount != nil {
		amount, err := parseBaseAmount(*in.BaseAmount)
		if err != nil {
			errs.add("baseAmount", "%v", err)
		} else if amount.IsNegative() {
			errs.add("baseAmount", "must not be negative, the direction is given by flowType")
		} else {
			next.BaseAmount = amount
		}
		touch(ColBaseAmount)
	}
	if in.BaseAmountSource != nil {
		next.BaseAmountSource = strings.TrimSpace(*in.BaseAmountSource)
		if next.BaseAmountSource == "" {
			errs.add("baseAmountSource", "must not be empty")
		}
		touch(ColBaseAmountSource)
	}
	if in.BaseAmountNote != nil {
		next.BaseAmountNote = strings.TrimSpace(*in.BaseAmountNote)
		touch(ColBaseAmountNote)
	}

	if in.GrowthFactorPercent != nil {
		if strings.TrimSpace(*in.GrowthFactorPercent) == "" {
			next.GrowthFactorPercent = nil
		} else if g, err := money.ParseDecimal(*in.GrowthFactorPercent); err != nil {
			errs.add("growthFactorPercent", "%v", err)
		} else if !g.GreaterThan(minGrowthPercent) {
			errs.add("growthFactorPercent", "must be greater than -100")
		} else {
			next.GrowthFactorPercent = &g
		}
		touch(ColGrowthFactorPercent)
	}

	if in.SeasonalProfile != nil {
		profile, err := parseSeasonalProfile(*in.SeasonalProfile)
		if err != nil {
			errs.add("seasonalProfile", "%v", err)
		} else {
			next.SeasonalProfile = profile
		}
		touch(ColSeasonalProfile)
	}

	if in.StartPeriodIndex != nil {
		next.StartPeriodIndex = *in.StartPeriodIndex
		touch(ColStartPeriodIndex)
	}
	// The end of a ONE_TIME assumption carries no meaning; it follows the start.
	switch {
	case next.AssumptionType == constants.AssumptionTypeOneTime:
		if in.EndPeriodIndex != nil || next.EndPeriodIndex != next.StartPeriodIndex {
			next.EndPeriodIndex = next.StartPeriodIndex
			touch(ColEndPeriodIndex)
		}
	case in.EndPeriodIndex != nil:
		next.EndPeriodIndex = *in.EndPeriodIndex
		touch(ColEndPeriodIndex)
	case next.EndPeriodIndex < 0:
		next.EndPeriodIndex = periodCount - 1
		touch(ColEndPeriodIndex)
	}

	if in.IsActive != nil {
		next.IsActive = *in.IsActive
		touch(ColIsActive)
	}
	if in.SortOrder != nil {
		next.SortOrder = *in.SortOrder
		touch(ColSortOrder)
	}
	if in.Method != nil {
		next.Method = strings.TrimSpace(*in.Method)
		touch(ColMethod)
	}
	if in.BaseReferencePeriod != nil {
		next.BaseReferencePeriod = strings.TrimSpace(*in.BaseReferencePeriod)
		touch(ColBaseReferencePeriod)
	}

	if in.RiskProbability != nil {
		if strings.TrimSpace(*in.RiskProbability) == "" {
			next.RiskProbability = nil
		} else if p, err := money.ParseDecimal(*in.RiskProbability); err != nil {
			errs.add("riskProbability", "%v", err)
		} else if p.IsNegative() || p.GreaterThan(decimal.NewFromInt(constants.PercentageMultiplier)) {
			errs.add("riskProbability", "must be between 0 and 100")
		} else {
			fraction := mathutil.PercentToFraction(p)
			next.RiskProbability = &fraction
		}
		touch(ColRiskProbability)
	}
	if in.RiskImpact != nil {
		if strings.TrimSpace(*in.RiskImpact) == "" {
			next.RiskImpact = nil
		} else if impact, err := money.ParseLocale(*in.RiskImpact); err != nil {
			errs.add("riskImpact", "%v", err)
		} else {
			next.RiskImpact = &impact
		}
		touch(ColRiskImpact)
	}
	if in.RiskComment != nil {
		next.RiskComment = strings.TrimSpace(*in.RiskComment)
		touch(ColRiskComment)
	}
	if in.VisibilityScope != nil {
		next.VisibilityScope = strings.ToUpper(strings.TrimSpace(*in.VisibilityScope))
		if !IsVisibilityScope(next.VisibilityScope) {
			errs.add("visibilityScope", "must be %s or %s", constants.VisibilityIntern, constants.VisibilityExtern)
		}
		touch(ColVisibilityScope)
	}
	if in.LastReviewedAt != nil {
		if strings.TrimSpace(*in.LastReviewedAt) == "" {
			next.LastReviewedAt = nil
		} else if day, err := datetime.ParseDate(strings.TrimSpace(*in.LastReviewedAt)); err != nil {
			errs.add("lastReviewedAt", "%v", err)
		} else {
			next.LastReviewedAt = &day
		}
		touch(ColLastReviewedAt)
	}

	validateMerged(&errs, next, periodCount)
	if len(errs) > 0 {
		return current, nil, errs
	}
	return next, changed, nil
}

func validateMerged(errs *FieldErrors, a Assumption, periodCount int) {
	if a.AssumptionType == constants.AssumptionTypePercentageOfRevenue && a.FlowType != constants.FlowTypeOutflow {
		errs.add("flowType", "%s requires %s", constants.AssumptionTypePercentageOfRevenue, constants.FlowTypeOutflow)
	}
	if a.StartPeriodIndex < 0 || a.StartPeriodIndex >= periodCount {
		errs.add("startPeriodIndex", "must be within [0, %d)", periodCount)
	}
	if a.EndPeriodIndex < 0 || a.EndPeriodIndex >= periodCount {
		errs.add("endPeriodIndex", "must be within [0, %d)", periodCount)
	}
	if a.StartPeriodIndex > a.EndPeriodIndex {
		errs.add("endPeriodIndex", "must not be before startPeriodIndex")
	}
}

// parseBaseAmount reads a locale amount. Percentages ("10%", "10,5") for
// PERCENTAGE_OF_REVENUE go through the same parser and end up scaled by 100.
func parseBaseAmount(s string) (money.Cents, error) {
	c, err := money.ParseLocale(s)
	if err != nil {
		if errors.Is(err, money.ErrInvalidAmount) {
			return money.Zero, fmt.Errorf("%q is not a valid amount", s)
		}
		return money.Zero, err
	}
	return c, nil
}

func parseSeasonalProfile(values []string) ([]decimal.Decimal, error) {
	if len(values) == 0 {
		return nil, nil
	}
	if len(values) != constants.MonthsPerYear {
		return nil, fmt.Errorf("must have %d monthly factors, got %d", constants.MonthsPerYear, len(values))
	}
	profile := make([]decimal.Decimal, len(values))
	for i, v := range values {
		f, err := decimal.NewFromString(strings.Replace(strings.TrimSpace(v), ",", ".", 1))
		if err != nil {
			return nil, fmt.Errorf("factor %d (%q) is not a number", i+1, v)
		}
		if f.IsNegative() {
			return nil, fmt.Errorf("factor %d must not be negative", i+1)
		}
		profile[i] = f
	}
	return profile, nil
}

func requireString(errs *FieldErrors, field string, value *string) {
	if value == nil || strings.TrimSpace(*value) == "" {
		errs.add(field, "is required")
	}
}

// DeriveCategoryKey upper-cases a label and collapses every run of other
// characters into a single underscore ("Löhne & Gehälter" -> "LÖHNE_GEHÄLTER").
func DeriveCategoryKey(label string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToUpper(strings.TrimSpace(label)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

func IsFlowType(s string) bool {
	return s == constants.FlowTypeInflow || s == constants.FlowTypeOutflow
}

func IsAssumptionType(s string) bool {
	switch s {
	case constants.AssumptionTypeRunRate, constants.AssumptionTypeFixed,
		constants.AssumptionTypeOneTime, constants.AssumptionTypePercentageOfRevenue:
		return true
	}
	return false
}

func IsVisibilityScope(s string) bool {
	return s == constants.VisibilityIntern || s == constants.VisibilityExtern
}

func IsPeriodType(s string) bool {
	return s == constants.PeriodTypeWeekly || s == constants.PeriodTypeMonthly
}
