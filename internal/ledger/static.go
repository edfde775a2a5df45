package ledger

import (
	"context"

	"github.com/iwvelando/liquidity-forecast/pkg/finance"
)

// Static answers every request with fixed totals, as read from a plan file.
type Static struct {
	IstPeriodCount int
	Totals         []finance.IstTotal
}

// NewStatic creates a static aggregator.
func NewStatic(istPeriodCount int, totals []finance.IstTotal) *Static {
	return &Static{IstPeriodCount: istPeriodCount, Totals: totals}
}

// Aggregate returns the configured totals. The count is capped at the
// request's period count and totals outside the prefix are dropped.
func (s *Static) Aggregate(_ context.Context, req Request) (*Response, error) {
	count := s.IstPeriodCount
	if count > len(req.Periods) {
		count = len(req.Periods)
	}
	if count < 0 {
		count = 0
	}

	resp := &Response{IstPeriodCount: count}
	for _, total := range s.Totals {
		if total.PeriodIndex >= 0 && total.PeriodIndex < count {
			resp.Periods = append(resp.Periods, total)
		}
	}
	if err := Check(req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
