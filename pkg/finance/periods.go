package finance

import (
	"fmt"
	"time"

	"github.com/iwvelando/liquidity-forecast/pkg/constants"
	"github.com/iwvelando/liquidity-forecast/pkg/datetime"
	"github.com/iwvelando/liquidity-forecast/pkg/mathutil"
)

// GeneratePeriods produces count periods starting at start. The first
// clamp(istPeriodCount, 0, count) periods are IST, the rest FORECAST.
func GeneratePeriods(start time.Time, periodType string, count, istPeriodCount int) ([]Period, error) {
	if count <= 0 {
		return nil, fmt.Errorf("%w: periodCount must be positive, got %d", ErrInvalidPlanConfig, count)
	}
	if start.IsZero() {
		return nil, fmt.Errorf("%w: planStartDate is missing", ErrInvalidPlanConfig)
	}

	var startOf func(time.Time, int) time.Time
	var labelOf func(time.Time) string
	switch periodType {
	case constants.PeriodTypeWeekly:
		startOf, labelOf = datetime.WeekStart, datetime.WeekLabel
	case constants.PeriodTypeMonthly:
		startOf, labelOf = datetime.MonthStart, datetime.MonthLabel
	default:
		return nil, fmt.Errorf("%w: unknown periodType %q", ErrInvalidPlanConfig, periodType)
	}

	ist := mathutil.Clamp(istPeriodCount, 0, count)
	periods := make([]Period, count)
	for i := range periods {
		periodStart := startOf(start, i)
		source := constants.DataSourceForecast
		if i < ist {
			source = constants.DataSourceIST
		}
		periods[i] = Period{
			Index:      i,
			Label:      labelOf(periodStart),
			StartDate:  periodStart,
			DataSource: source,
		}
	}
	return periods, nil
}

// EndDate returns the last day of a period.
func (p Period) EndDate(periodType string) time.Time {
	if periodType == constants.PeriodTypeMonthly {
		return p.StartDate.AddDate(0, 1, -1)
	}
	return p.StartDate.AddDate(0, 0, constants.DaysPerWeek-1)
}
