package finance

import (
	"errors"
	"testing"
	"time"

	"github.com/iwvelando/liquidity-forecast/pkg/constants"
	"github.com/iwvelando/liquidity-forecast/pkg/datetime"
)

func TestGeneratePeriods(t *testing.T) {
	start := datetime.MustParseTime(datetime.DateLayout, "2026-02-09")

	tests := []struct {
		name       string
		periodType string
		count      int
		ist        int
		labels     []string
		sources    []string
	}{
		{
			name:       "weekly with IST prefix",
			periodType: constants.PeriodTypeWeekly,
			count:      3,
			ist:        1,
			labels:     []string{"KW 07/2026", "KW 08/2026", "KW 09/2026"},
			sources:    []string{"IST", "FORECAST", "FORECAST"},
		},
		{
			name:       "monthly all forecast",
			periodType: constants.PeriodTypeMonthly,
			count:      2,
			ist:        0,
			labels:     []string{"Feb 2026", "Mär 2026"},
			sources:    []string{"FORECAST", "FORECAST"},
		},
		{
			name:       "ist count beyond plan",
			periodType: constants.PeriodTypeMonthly,
			count:      2,
			ist:        9,
			labels:     []string{"Feb 2026", "Mär 2026"},
			sources:    []string{"IST", "IST"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			periods, err := GeneratePeriods(start, tt.periodType, tt.count, tt.ist)
			if err != nil {
				t.Fatalf("GeneratePeriods() returned error: %v", err)
			}
			if len(periods) != tt.count {
				t.Fatalf("expected %d periods, got %d", tt.count, len(periods))
			}
			for i, p := range periods {
				if p.Index != i {
					t.Errorf("period %d has index %d", i, p.Index)
				}
				if p.Label != tt.labels[i] {
					t.Errorf("period %d label = %q, expected %q", i, p.Label, tt.labels[i])
				}
				if p.DataSource != tt.sources[i] {
					t.Errorf("period %d source = %q, expected %q", i, p.DataSource, tt.sources[i])
				}
			}
		})
	}
}

func TestGeneratePeriodsRejectsInvalidPlans(t *testing.T) {
	start := datetime.MustParseTime(datetime.DateLayout, "2026-02-09")

	if _, err := GeneratePeriods(start, constants.PeriodTypeWeekly, 0, 0); !errors.Is(err, ErrInvalidPlanConfig) {
		t.Errorf("expected ErrInvalidPlanConfig for zero count, got %v", err)
	}
	if _, err := GeneratePeriods(time.Time{}, constants.PeriodTypeWeekly, 3, 0); !errors.Is(err, ErrInvalidPlanConfig) {
		t.Errorf("expected ErrInvalidPlanConfig for missing start, got %v", err)
	}
}

func TestPeriodEndDate(t *testing.T) {
	periods, err := GeneratePeriods(datetime.MustParseTime(datetime.DateLayout, "2026-02-09"), constants.PeriodTypeMonthly, 1, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if end := periods[0].EndDate(constants.PeriodTypeMonthly).Format(datetime.DateLayout); end != "2026-02-28" {
		t.Errorf("monthly end = %s, expected 2026-02-28", end)
	}

	weekly, _ := GeneratePeriods(datetime.MustParseTime(datetime.DateLayout, "2026-02-09"), constants.PeriodTypeWeekly, 1, 0)
	if end := weekly[0].EndDate(constants.PeriodTypeWeekly).Format(datetime.DateLayout); end != "2026-02-15" {
		t.Errorf("weekly end = %s, expected 2026-02-15", end)
	}
}
