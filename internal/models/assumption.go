package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iwvelando/liquidity-forecast/pkg/mathutil"
	"github.com/iwvelando/liquidity-forecast/pkg/money"
	"github.com/shopspring/decimal"
)

// Assumption is a planning rule that projects one category onto FORECAST periods.
type Assumption struct {
	Base
	PlanID              string           `gorm:"type:uuid;not null;uniqueIndex:idx_assumption_category_flow" json:"planId"`
	CategoryKey         string           `gorm:"not null;uniqueIndex:idx_assumption_category_flow" json:"categoryKey"`
	CategoryLabel       string           `gorm:"not null" json:"categoryLabel"`
	FlowType            string           `gorm:"type:varchar(10);not null;uniqueIndex:idx_assumption_category_flow" json:"flowType"`
	AssumptionType      string           `gorm:"type:varchar(32);not null" json:"assumptionType"`
	BaseAmountCents     money.Cents      `gorm:"not null" json:"baseAmountCents"`
	BaseAmountSource    string           `gorm:"not null" json:"baseAmountSource"`
	BaseAmountNote      string           `json:"baseAmountNote,omitempty"`
	GrowthFactorPercent *decimal.Decimal `gorm:"type:text" json:"growthFactorPercent"`
	SeasonalProfile     SeasonalProfile  `gorm:"type:text" json:"seasonalProfile,omitempty"`
	StartPeriodIndex    int              `gorm:"not null" json:"startPeriodIndex"`
	EndPeriodIndex      int              `gorm:"not null" json:"endPeriodIndex"`
	IsActive            bool             `gorm:"not null" json:"isActive"`
	SortOrder           int              `gorm:"not null" json:"sortOrder"`
	Method              string           `json:"method,omitempty"`
	BaseReferencePeriod string           `json:"baseReferencePeriod,omitempty"`
	RiskProbability     *decimal.Decimal `gorm:"type:text" json:"riskProbability"`
	RiskImpactCents     *money.Cents     `json:"riskImpactCents"`
	RiskComment         string           `json:"riskComment,omitempty"`
	VisibilityScope     string           `gorm:"type:varchar(10);not null" json:"visibilityScope"`
	LastReviewedAt      *time.Time       `json:"lastReviewedAt"`
}

// MarshalJSON renders riskProbability as a percentage, the scale it is
// entered in. The column keeps the 0-1 fraction.
func (a Assumption) MarshalJSON() ([]byte, error) {
	type plain Assumption
	out := struct {
		plain
		RiskProbability *decimal.Decimal `json:"riskProbability"`
	}{plain: plain(a)}
	if a.RiskProbability != nil {
		percent := mathutil.FractionToPercent(*a.RiskProbability)
		out.RiskProbability = &percent
	}
	return json.Marshal(out)
}

// SeasonalProfile holds twelve monthly factors, January first.
type SeasonalProfile []decimal.Decimal

// Value stores the profile as a JSON array of decimal strings.
func (s SeasonalProfile) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	data, err := json.Marshal([]decimal.Decimal(s))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan reads a profile stored by Value.
func (s *SeasonalProfile) Scan(value interface{}) error {
	var data []byte
	switch v := value.(type) {
	case nil:
		*s = nil
		return nil
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into SeasonalProfile", value)
	}
	var factors []decimal.Decimal
	if err := json.Unmarshal(data, &factors); err != nil {
		return fmt.Errorf("invalid seasonal profile: %w", err)
	}
	*s = factors
	return nil
}

// ForecastSnapshot freezes a computed forecast for later reference.
type ForecastSnapshot struct {
	Base
	PlanID      string               `gorm:"type:uuid;not null;index" json:"planId"`
	Label       string               `gorm:"not null" json:"label"`
	Payload     string               `gorm:"type:text;not null" json:"-"`
	Assumptions []SnapshotAssumption `gorm:"foreignKey:SnapshotID;constraint:OnDelete:CASCADE" json:"-"`
}

// SnapshotAssumption records that a snapshot references an assumption.
type SnapshotAssumption struct {
	SnapshotID   string `gorm:"type:uuid;primaryKey"`
	AssumptionID string `gorm:"type:uuid;primaryKey;index"`
}
