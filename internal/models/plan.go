package models

import (
	"time"

	"github.com/iwvelando/liquidity-forecast/pkg/money"
)

// Plan is the forecasting context of one insolvency case.
type Plan struct {
	Base
	CaseID               string       `gorm:"not null;uniqueIndex" json:"caseId"`
	PlanStartDate        time.Time    `gorm:"not null" json:"planStartDate"`
	PeriodType           string       `gorm:"type:varchar(10);not null" json:"periodType"`
	PeriodCount          int          `gorm:"not null" json:"periodCount"`
	OpeningBalanceCents  money.Cents  `gorm:"not null" json:"openingBalanceCents"`
	OpeningBalanceSource string       `json:"openingBalanceSource"`
	CreditLineCents      *money.Cents `json:"creditLineCents"`
	CreditLineSource     string       `json:"creditLineSource"`
	ReservesTotalCents   money.Cents  `gorm:"not null" json:"reservesTotalCents"`
	IstCutoffOverride    *int         `json:"istCutoffOverride"`
	IstPeriodCount       int          `gorm:"not null" json:"istPeriodCount"`
	IstSyncedAt          *time.Time   `json:"istSyncedAt"`
	IsLocked             bool         `gorm:"not null" json:"isLocked"`
	LockedReason         string       `json:"lockedReason,omitempty"`
}

// EffectiveIstPeriodCount applies the manual cutoff, which may only shorten
// the IST prefix reported by the ledger.
func (p *Plan) EffectiveIstPeriodCount() int {
	count := p.IstPeriodCount
	if p.IstCutoffOverride != nil && *p.IstCutoffOverride < count {
		count = *p.IstCutoffOverride
	}
	return count
}

// IstPeriodTotal is the persisted ledger answer for one IST period.
type IstPeriodTotal struct {
	ID                uint        `gorm:"primaryKey" json:"-"`
	PlanID            string      `gorm:"type:uuid;not null;uniqueIndex:idx_ist_plan_period" json:"planId"`
	PeriodIndex       int         `gorm:"not null;uniqueIndex:idx_ist_plan_period" json:"periodIndex"`
	CashInTotalCents  money.Cents `gorm:"not null" json:"cashInTotalCents"`
	CashOutTotalCents money.Cents `gorm:"not null" json:"cashOutTotalCents"`
	SyncedAt          time.Time   `json:"syncedAt"`
}
