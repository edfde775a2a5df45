package finance

import (
	"fmt"

	"github.com/iwvelando/liquidity-forecast/pkg/money"
)

// Headroom returns closing + creditLine and that amount net of reserves.
func Headroom(closing, creditLine, reserves money.Cents) (headroom, afterReserves money.Cents) {
	headroom = closing.Add(creditLine)
	return headroom, headroom.Sub(reserves)
}

// ApplyHeadroom fills the headroom columns of every period in place.
func ApplyHeadroom(periods []ForecastPeriod, creditLine *money.Cents, reserves money.Cents) error {
	if creditLine == nil {
		return fmt.Errorf("%w: creditLineCents is missing", ErrInvalidPlanConfig)
	}
	for i := range periods {
		headroom, after := Headroom(periods[i].ClosingBalanceCents, *creditLine, reserves)
		periods[i].CreditLineAvailableCents = *creditLine
		periods[i].HeadroomCents = headroom
		periods[i].HeadroomAfterReservesCents = after
	}
	return nil
}
