// Package ledger talks to the ledger aggregation service, which reports how
// many leading plan periods are reconciled (IST) and their cash totals.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/iwvelando/liquidity-forecast/pkg/datetime"
	"github.com/iwvelando/liquidity-forecast/pkg/finance"
)

var (
	// ErrUnavailable marks transport failures and non-2xx answers.
	ErrUnavailable = errors.New("ledger aggregation unavailable")
	// ErrInconsistent marks answers that contradict the request.
	ErrInconsistent = errors.New("ledger aggregation inconsistent")
)

// PeriodBounds is one period of the plan as sent to the ledger. Dates are
// inclusive, formatted YYYY-MM-DD.
type PeriodBounds struct {
	PeriodIndex int    `json:"periodIndex"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// Request asks the ledger for the IST totals of a plan.
type Request struct {
	CaseID        string         `json:"caseId"`
	PlanStartDate string         `json:"planStartDate"`
	PeriodType    string         `json:"periodType"`
	Periods       []PeriodBounds `json:"periods"`
}

// Response is the ledger answer: the length of the contiguous IST prefix and
// one total per IST period.
type Response struct {
	IstPeriodCount int                `json:"istPeriodCount"`
	Periods        []finance.IstTotal `json:"periods"`
}

// Aggregator answers IST aggregation requests.
type Aggregator interface {
	Aggregate(ctx context.Context, req Request) (*Response, error)
}

// NewRequest builds the request for the generated periods of a plan.
func NewRequest(caseID string, periodType string, periods []finance.Period) Request {
	req := Request{
		CaseID:     caseID,
		PeriodType: periodType,
		Periods:    make([]PeriodBounds, 0, len(periods)),
	}
	if len(periods) > 0 {
		req.PlanStartDate = periods[0].StartDate.Format(datetime.DateLayout)
	}
	for _, p := range periods {
		req.Periods = append(req.Periods, PeriodBounds{
			PeriodIndex: p.Index,
			StartDate:   p.StartDate.Format(datetime.DateLayout),
			EndDate:     p.EndDate(periodType).Format(datetime.DateLayout),
		})
	}
	return req
}

// Check verifies a response against its request. The IST count must fit the
// plan and every IST period needs exactly one non-negative total.
func Check(req Request, resp *Response) error {
	if resp.IstPeriodCount < 0 || resp.IstPeriodCount > len(req.Periods) {
		return fmt.Errorf("%w: istPeriodCount %d outside [0, %d]", ErrInconsistent, resp.IstPeriodCount, len(req.Periods))
	}
	seen := make(map[int]bool, len(resp.Periods))
	for _, total := range resp.Periods {
		if total.PeriodIndex < 0 || total.PeriodIndex >= resp.IstPeriodCount {
			return fmt.Errorf("%w: total for period %d outside the IST prefix", ErrInconsistent, total.PeriodIndex)
		}
		if seen[total.PeriodIndex] {
			return fmt.Errorf("%w: duplicate total for period %d", ErrInconsistent, total.PeriodIndex)
		}
		seen[total.PeriodIndex] = true
		if total.CashIn.IsNegative() || total.CashOut.IsNegative() {
			return fmt.Errorf("%w: negative total for period %d", ErrInconsistent, total.PeriodIndex)
		}
	}
	for i := 0; i < resp.IstPeriodCount; i++ {
		if !seen[i] {
			return fmt.Errorf("%w: no total for IST period %d", ErrInconsistent, i)
		}
	}
	return nil
}
