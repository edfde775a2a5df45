package forecast

import (
	"context"
	"encoding/json"
	"strings"

	apperrors "github.com/iwvelando/liquidity-forecast/internal/errors"
	"github.com/iwvelando/liquidity-forecast/internal/models"
	"go.uber.org/zap"
)

const snapshotLabelLayout = "02.01.2006 15:04"

// CreateSnapshot freezes the current forecast of a plan together with the
// assumptions it was computed from. Locked plans can still be snapshotted.
func (s *Service) CreateSnapshot(ctx context.Context, planID, label string) (*models.ForecastSnapshot, error) {
	data, err := s.Recompute(ctx, planID)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	label = strings.TrimSpace(label)
	if label == "" {
		label = "Stand " + s.now().Format(snapshotLabelLayout)
	}

	snapshot := &models.ForecastSnapshot{
		PlanID:  planID,
		Label:   label,
		Payload: string(payload),
	}
	for _, a := range data.Assumptions {
		snapshot.Assumptions = append(snapshot.Assumptions, models.SnapshotAssumption{AssumptionID: a.ID})
	}

	if err := s.store.CreateSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}

	s.logger.Info("Snapshot created",
		zap.String("op", "forecast.CreateSnapshot"),
		zap.String("planId", planID),
		zap.String("snapshotId", snapshot.ID),
		zap.Int("assumptions", len(snapshot.Assumptions)),
	)
	return snapshot, nil
}

// ListSnapshots returns the snapshots of a plan, newest first.
func (s *Service) ListSnapshots(ctx context.Context, planID string) ([]models.ForecastSnapshot, error) {
	if _, err := s.store.GetPlan(ctx, planID); err != nil {
		return nil, err
	}
	return s.store.ListSnapshots(ctx, planID)
}

// GetSnapshot returns a snapshot with its frozen forecast.
func (s *Service) GetSnapshot(ctx context.Context, planID, snapshotID string) (*SnapshotDetail, error) {
	snapshot, err := s.store.GetSnapshot(ctx, planID, snapshotID)
	if err != nil {
		return nil, err
	}
	return &SnapshotDetail{
		ID:        snapshot.ID,
		PlanID:    snapshot.PlanID,
		Label:     snapshot.Label,
		CreatedAt: snapshot.CreatedAt,
		Forecast:  json.RawMessage(snapshot.Payload),
	}, nil
}
