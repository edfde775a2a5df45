package server

import (
	"context"

	"github.com/iwvelando/liquidity-forecast/internal/forecast"
	"github.com/iwvelando/liquidity-forecast/internal/models"
	"github.com/iwvelando/liquidity-forecast/pkg/validation"
)

// --- mock forecast service ---

type mockService struct {
	recomputeFn            func(ctx context.Context, planID string) (*forecast.ForecastData, error)
	createPlanFn           func(ctx context.Context, in forecast.PlanInput) (*models.Plan, error)
	getPlanFn              func(ctx context.Context, planID string) (*models.Plan, error)
	getPlanByCaseFn        func(ctx context.Context, caseID string) (*models.Plan, error)
	setOpeningBalanceFn    func(ctx context.Context, planID, amount, source string) (*forecast.ForecastData, error)
	setCreditLineFn        func(ctx context.Context, planID, amount, source string) (*forecast.ForecastData, error)
	setReservesFn          func(ctx context.Context, planID, amount string) (*forecast.ForecastData, error)
	setIstCutoffOverrideFn func(ctx context.Context, planID string, override *int) (*forecast.ForecastData, error)
	lockPlanFn             func(ctx context.Context, planID, reason string) (*forecast.ForecastData, error)
	unlockPlanFn           func(ctx context.Context, planID string) (*forecast.ForecastData, error)
	syncIstFn              func(ctx context.Context, planID string) (*forecast.SyncResult, error)
	listAssumptionsFn      func(ctx context.Context, planID string) ([]models.Assumption, error)
	createAssumptionFn     func(ctx context.Context, planID string, in validation.AssumptionInput) (*models.Assumption, *forecast.ForecastData, error)
	updateAssumptionFn     func(ctx context.Context, planID, assumptionID string, in validation.AssumptionInput) (*models.Assumption, *forecast.ForecastData, error)
	deleteAssumptionFn     func(ctx context.Context, planID, assumptionID string) (bool, *forecast.ForecastData, error)
	toggleAssumptionFn     func(ctx context.Context, planID, assumptionID string, isActive *bool) (*models.Assumption, *forecast.ForecastData, error)
	createSnapshotFn       func(ctx context.Context, planID, label string) (*models.ForecastSnapshot, error)
	listSnapshotsFn        func(ctx context.Context, planID string) ([]models.ForecastSnapshot, error)
	getSnapshotFn          func(ctx context.Context, planID, snapshotID string) (*forecast.SnapshotDetail, error)
}

func (m *mockService) Recompute(ctx context.Context, planID string) (*forecast.ForecastData, error) {
	if m.recomputeFn != nil {
		return m.recomputeFn(ctx, planID)
	}
	return &forecast.ForecastData{PlanID: planID}, nil
}

func (m *mockService) CreatePlan(ctx context.Context, in forecast.PlanInput) (*models.Plan, error) {
	if m.createPlanFn != nil {
		return m.createPlanFn(ctx, in)
	}
	return &models.Plan{CaseID: in.CaseID}, nil
}

func (m *mockService) GetPlan(ctx context.Context, planID string) (*models.Plan, error) {
	if m.getPlanFn != nil {
		return m.getPlanFn(ctx, planID)
	}
	return &models.Plan{}, nil
}

func (m *mockService) GetPlanByCase(ctx context.Context, caseID string) (*models.Plan, error) {
	if m.getPlanByCaseFn != nil {
		return m.getPlanByCaseFn(ctx, caseID)
	}
	return &models.Plan{CaseID: caseID}, nil
}

func (m *mockService) SetOpeningBalance(ctx context.Context, planID, amount, source string) (*forecast.ForecastData, error) {
	if m.setOpeningBalanceFn != nil {
		return m.setOpeningBalanceFn(ctx, planID, amount, source)
	}
	return &forecast.ForecastData{PlanID: planID}, nil
}

func (m *mockService) SetCreditLine(ctx context.Context, planID, amount, source string) (*forecast.ForecastData, error) {
	if m.setCreditLineFn != nil {
		return m.setCreditLineFn(ctx, planID, amount, source)
	}
	return &forecast.ForecastData{PlanID: planID}, nil
}

func (m *mockService) SetReserves(ctx context.Context, planID, amount string) (*forecast.ForecastData, error) {
	if m.setReservesFn != nil {
		return m.setReservesFn(ctx, planID, amount)
	}
	return &forecast.ForecastData{PlanID: planID}, nil
}

func (m *mockService) SetIstCutoffOverride(ctx context.Context, planID string, override *int) (*forecast.ForecastData, error) {
	if m.setIstCutoffOverrideFn != nil {
		return m.setIstCutoffOverrideFn(ctx, planID, override)
	}
	return &forecast.ForecastData{PlanID: planID}, nil
}

func (m *mockService) LockPlan(ctx context.Context, planID, reason string) (*forecast.ForecastData, error) {
	if m.lockPlanFn != nil {
		return m.lockPlanFn(ctx, planID, reason)
	}
	return &forecast.ForecastData{PlanID: planID, IsLocked: true}, nil
}

func (m *mockService) UnlockPlan(ctx context.Context, planID string) (*forecast.ForecastData, error) {
	if m.unlockPlanFn != nil {
		return m.unlockPlanFn(ctx, planID)
	}
	return &forecast.ForecastData{PlanID: planID}, nil
}

func (m *mockService) SyncIst(ctx context.Context, planID string) (*forecast.SyncResult, error) {
	if m.syncIstFn != nil {
		return m.syncIstFn(ctx, planID)
	}
	return &forecast.SyncResult{Forecast: &forecast.ForecastData{PlanID: planID}}, nil
}

func (m *mockService) ListAssumptions(ctx context.Context, planID string) ([]models.Assumption, error) {
	if m.listAssumptionsFn != nil {
		return m.listAssumptionsFn(ctx, planID)
	}
	return []models.Assumption{}, nil
}

func (m *mockService) CreateAssumption(ctx context.Context, planID string, in validation.AssumptionInput) (*models.Assumption, *forecast.ForecastData, error) {
	if m.createAssumptionFn != nil {
		return m.createAssumptionFn(ctx, planID, in)
	}
	return &models.Assumption{}, &forecast.ForecastData{PlanID: planID}, nil
}

func (m *mockService) UpdateAssumption(ctx context.Context, planID, assumptionID string, in validation.AssumptionInput) (*models.Assumption, *forecast.ForecastData, error) {
	if m.updateAssumptionFn != nil {
		return m.updateAssumptionFn(ctx, planID, assumptionID, in)
	}
	return &models.Assumption{}, &forecast.ForecastData{PlanID: planID}, nil
}

func (m *mockService) DeleteAssumption(ctx context.Context, planID, assumptionID string) (bool, *forecast.ForecastData, error) {
	if m.deleteAssumptionFn != nil {
		return m.deleteAssumptionFn(ctx, planID, assumptionID)
	}
	return false, &forecast.ForecastData{PlanID: planID}, nil
}

func (m *mockService) ToggleAssumption(ctx context.Context, planID, assumptionID string, isActive *bool) (*models.Assumption, *forecast.ForecastData, error) {
	if m.toggleAssumptionFn != nil {
		return m.toggleAssumptionFn(ctx, planID, assumptionID, isActive)
	}
	return &models.Assumption{}, &forecast.ForecastData{PlanID: planID}, nil
}

func (m *mockService) CreateSnapshot(ctx context.Context, planID, label string) (*models.ForecastSnapshot, error) {
	if m.createSnapshotFn != nil {
		return m.createSnapshotFn(ctx, planID, label)
	}
	return &models.ForecastSnapshot{PlanID: planID, Label: label}, nil
}

func (m *mockService) ListSnapshots(ctx context.Context, planID string) ([]models.ForecastSnapshot, error) {
	if m.listSnapshotsFn != nil {
		return m.listSnapshotsFn(ctx, planID)
	}
	return []models.ForecastSnapshot{}, nil
}

func (m *mockService) GetSnapshot(ctx context.Context, planID, snapshotID string) (*forecast.SnapshotDetail, error) {
	if m.getSnapshotFn != nil {
		return m.getSnapshotFn(ctx, planID, snapshotID)
	}
	return &forecast.SnapshotDetail{ID: snapshotID, PlanID: planID}, nil
}

var _ forecast.Servicer = (*mockService)(nil)
