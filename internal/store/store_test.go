package store

import (
	"context"
	"testing"
	"time"

	"github.com/iwvelando/liquidity-forecast/internal/models"
	"github.com/iwvelando/liquidity-forecast/pkg/money"
	"github.com/iwvelando/liquidity-forecast/pkg/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAssumption(planID, key string) *models.Assumption {
	growth := decimal.NewFromInt(-5)
	return &models.Assumption{
		PlanID:              planID,
		CategoryKey:         key,
		CategoryLabel:       key,
		FlowType:            "INFLOW",
		AssumptionType:      "RUN_RATE",
		BaseAmountCents:     money.FromInt64(4000000),
		BaseAmountSource:    "BWA",
		GrowthFactorPercent: &growth,
		SeasonalProfile:     models.SeasonalProfile{decimal.RequireFromString("1.25")},
		EndPeriodIndex:      12,
		IsActive:            true,
		VisibilityScope:     "INTERN",
	}
}

func TestPlans(t *testing.T) {
	ctx := context.Background()
	st := New(testutil.SetupTestDB(t))

	plan := &models.Plan{
		CaseID:        "IN-1",
		PlanStartDate: time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC),
		PeriodType:    "WEEKLY",
		PeriodCount:   13,
	}
	require.NoError(t, st.CreatePlan(ctx, plan))
	assert.NotEmpty(t, plan.ID)

	err := st.CreatePlan(ctx, &models.Plan{CaseID: "IN-1", PeriodType: "WEEKLY", PeriodCount: 1})
	testutil.AssertAppError(t, err, "PLAN_EXISTS")

	byCase, err := st.GetPlanByCase(ctx, "IN-1")
	require.NoError(t, err)
	assert.Equal(t, plan.ID, byCase.ID)
	assert.Nil(t, byCase.CreditLineCents)

	credit := money.FromInt64(123)
	require.NoError(t, st.UpdatePlan(ctx, plan.ID, map[string]interface{}{"credit_line_cents": credit}))
	loaded, err := st.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.CreditLineCents)
	assert.True(t, loaded.CreditLineCents.Equal(credit))

	_, err = st.GetPlan(ctx, "missing")
	testutil.AssertAppError(t, err, "PLAN_NOT_FOUND")
	testutil.AssertAppError(t, st.UpdatePlan(ctx, "missing", map[string]interface{}{"reserves_total_cents": credit}), "PLAN_NOT_FOUND")
}

func TestReplaceIstTotals(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	st := New(db)
	plan := testutil.CreateTestPlan(t, db, "IN-1")
	synced := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := []models.IstPeriodTotal{
		{PeriodIndex: 0, CashInTotalCents: money.FromInt64(100), CashOutTotalCents: money.FromInt64(50)},
		{PeriodIndex: 1, CashInTotalCents: money.FromInt64(200), CashOutTotalCents: money.FromInt64(70)},
	}
	require.NoError(t, st.Transaction(ctx, func(tx *Store) error {
		return tx.ReplaceIstTotals(ctx, plan.ID, 2, first, synced)
	}))

	second := []models.IstPeriodTotal{
		{PeriodIndex: 0, CashInTotalCents: money.FromInt64(999), CashOutTotalCents: money.FromInt64(1)},
	}
	require.NoError(t, st.Transaction(ctx, func(tx *Store) error {
		return tx.ReplaceIstTotals(ctx, plan.ID, 1, second, synced)
	}))

	totals, err := st.ListIstTotals(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.Equal(t, int64(999), totals[0].CashInTotalCents.Int64())

	loaded, err := st.GetPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.IstPeriodCount)
	require.NotNil(t, loaded.IstSyncedAt)
	assert.True(t, loaded.IstSyncedAt.Equal(synced))
}

func TestAssumptions(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	st := New(db)
	plan := testutil.CreateTestPlan(t, db, "IN-1")

	next, err := st.NextSortOrder(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, next)

	a := newAssumption(plan.ID, "UMSATZ")
	a.SortOrder = 4
	require.NoError(t, st.CreateAssumption(ctx, a))

	next, err = st.NextSortOrder(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, next)

	taken, err := st.CategoryTaken(ctx, plan.ID, "UMSATZ", "INFLOW", "")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = st.CategoryTaken(ctx, plan.ID, "UMSATZ", "INFLOW", a.ID)
	require.NoError(t, err)
	assert.False(t, taken)
	taken, err = st.CategoryTaken(ctx, plan.ID, "UMSATZ", "OUTFLOW", "")
	require.NoError(t, err)
	assert.False(t, taken)

	loaded, err := st.GetAssumption(ctx, plan.ID, a.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.GrowthFactorPercent)
	assert.True(t, loaded.GrowthFactorPercent.Equal(decimal.NewFromInt(-5)))
	require.Len(t, loaded.SeasonalProfile, 1)
	assert.Nil(t, loaded.RiskProbability)

	_, err = st.GetAssumption(ctx, "other-plan", a.ID)
	testutil.AssertAppError(t, err, "ASSUMPTION_NOT_FOUND")
}

func TestUpdateAssumptionColumnsWritesOnlyNamedColumns(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	st := New(db)
	plan := testutil.CreateTestPlan(t, db, "IN-1")
	a := newAssumption(plan.ID, "UMSATZ")
	require.NoError(t, st.CreateAssumption(ctx, a))

	// two writers load the same row
	first, err := st.GetAssumption(ctx, plan.ID, a.ID)
	require.NoError(t, err)
	second, err := st.GetAssumption(ctx, plan.ID, a.ID)
	require.NoError(t, err)

	first.BaseAmountCents = money.FromInt64(1)
	require.NoError(t, st.UpdateAssumptionColumns(ctx, first, []string{"base_amount_cents"}))

	second.IsActive = false
	require.NoError(t, st.UpdateAssumptionColumns(ctx, second, []string{"is_active"}))

	loaded, err := st.GetAssumption(ctx, plan.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), loaded.BaseAmountCents.Int64())
	assert.False(t, loaded.IsActive)
}

func TestSnapshotsAndReferences(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	st := New(db)
	plan := testutil.CreateTestPlan(t, db, "IN-1")
	a := newAssumption(plan.ID, "UMSATZ")
	require.NoError(t, st.CreateAssumption(ctx, a))

	referenced, err := st.IsAssumptionReferenced(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, referenced)

	snapshot := &models.ForecastSnapshot{
		PlanID:      plan.ID,
		Label:       "Stand März",
		Payload:     `{"periods":[]}`,
		Assumptions: []models.SnapshotAssumption{{AssumptionID: a.ID}},
	}
	require.NoError(t, st.CreateSnapshot(ctx, snapshot))

	referenced, err = st.IsAssumptionReferenced(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, referenced)

	list, err := st.ListSnapshots(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Payload)

	loaded, err := st.GetSnapshot(ctx, plan.ID, snapshot.ID)
	require.NoError(t, err)
	assert.Equal(t, `{"periods":[]}`, loaded.Payload)

	_, err = st.GetSnapshot(ctx, plan.ID, "missing")
	testutil.AssertAppError(t, err, "SNAPSHOT_NOT_FOUND")

	require.NoError(t, st.DeleteAssumption(ctx, plan.ID, a.ID))
	testutil.AssertAppError(t, st.DeleteAssumption(ctx, plan.ID, a.ID), "ASSUMPTION_NOT_FOUND")
}

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	db := testutil.SetupTestDB(t)
	st := New(db)
	plan := testutil.CreateTestPlan(t, db, "IN-1")

	err := st.Transaction(ctx, func(tx *Store) error {
		if err := tx.CreateAssumption(ctx, newAssumption(plan.ID, "UMSATZ")); err != nil {
			return err
		}
		return tx.CreateAssumption(ctx, newAssumption(plan.ID, "UMSATZ"))
	})
	require.Error(t, err)

	list, err := st.ListAssumptions(ctx, plan.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
