package finance

import (
	"fmt"
	"sort"

	"github.com/iwvelando/liquidity-forecast/pkg/constants"
	"github.com/iwvelando/liquidity-forecast/pkg/datetime"
	"github.com/iwvelando/liquidity-forecast/pkg/money"
	"go.uber.org/zap"
)

// Aggregator turns periods, assumptions and IST totals into the running
// balance of ForecastPeriods.
type Aggregator struct {
	logger    *zap.Logger
	evaluator *Evaluator
}

// NewAggregator creates a new aggregator.
// If logger is nil, it will use a no-op logger to prevent panics.
func NewAggregator(logger *zap.Logger, evaluator *Evaluator) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{logger: logger, evaluator: evaluator}
}

// Aggregate walks the periods in order. IST periods take the ledger totals
// verbatim; FORECAST periods evaluate non-percentage assumptions first and
// PERCENTAGE_OF_REVENUE assumptions against the finalized cash-in total.
func (ag *Aggregator) Aggregate(periods []Period, assumptions []Assumption, ist map[int]IstTotal, opening money.Cents) ([]ForecastPeriod, error) {
	ordered := orderAssumptions(assumptions)
	result := make([]ForecastPeriod, 0, len(periods))
	balance := opening

	for _, p := range periods {
		var cashIn, cashOut money.Cents
		lineItems := []LineItem{}

		if p.DataSource == constants.DataSourceIST {
			total, ok := ist[p.Index]
			if !ok {
				return nil, fmt.Errorf("%w: no reconciled total for period %d (%s)", ErrMissingIstData, p.Index, p.Label)
			}
			cashIn, cashOut = total.CashIn, total.CashOut
		} else {
			for _, a := range ordered {
				if a.AssumptionType == constants.AssumptionTypePercentageOfRevenue {
					continue
				}
				if item, ok := ag.evaluator.Evaluate(a, p); ok {
					lineItems = append(lineItems, item)
				}
			}
			for _, item := range lineItems {
				if item.FlowType == constants.FlowTypeInflow {
					cashIn = cashIn.Add(item.AmountCents)
				}
			}

			for _, a := range ordered {
				if item, ok := ag.evaluator.EvaluatePercentage(a, p, cashIn); ok {
					lineItems = append(lineItems, item)
				}
			}
			for _, item := range lineItems {
				if item.FlowType == constants.FlowTypeOutflow {
					cashOut = cashOut.Add(item.AmountCents)
				}
			}
		}

		net := cashIn.Sub(cashOut)
		closing := balance.Add(net)
		result = append(result, ForecastPeriod{
			PeriodIndex:         p.Index,
			PeriodLabel:         p.Label,
			PeriodStartDate:     p.StartDate.Format(datetime.DateLayout),
			DataSource:          p.DataSource,
			OpeningBalanceCents: balance,
			CashInTotalCents:    cashIn,
			CashOutTotalCents:   cashOut,
			NetCashflowCents:    net,
			ClosingBalanceCents: closing,
			LineItems:           lineItems,
		})

		ag.logger.Debug("Period aggregated",
			zap.String("op", "finance.Aggregate"),
			zap.Int("period", p.Index),
			zap.String("source", p.DataSource),
			zap.Stringer("closing", closing),
		)
		balance = closing
	}

	return result, nil
}

// orderAssumptions sorts by sortOrder, keeping the given order for ties.
func orderAssumptions(assumptions []Assumption) []Assumption {
	ordered := make([]Assumption, len(assumptions))
	copy(ordered, assumptions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SortOrder < ordered[j].SortOrder
	})
	return ordered
}
