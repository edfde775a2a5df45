// Package testutil provides common utility functions for testing.
package testutil

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/iwvelando/liquidity-forecast/internal/errors"
	"github.com/iwvelando/liquidity-forecast/internal/models"
	"github.com/iwvelando/liquidity-forecast/pkg/finance"
	"github.com/iwvelando/liquidity-forecast/pkg/money"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates a private in-memory SQLite database with all models
// migrated. It is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get underlying DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if err := sqlDB.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})
	return db
}

// CreateTestPlan stores a weekly 13-period plan starting 2026-02-09 with
// 100.000,00 opening balance and 50.000,00 credit line.
func CreateTestPlan(t *testing.T, db *gorm.DB, caseID string) *models.Plan {
	t.Helper()

	credit := money.FromInt64(5000000)
	plan := &models.Plan{
		CaseID:               caseID,
		PlanStartDate:        time.Date(2026, 2, 9, 0, 0, 0, 0, time.UTC),
		PeriodType:           "WEEKLY",
		PeriodCount:          13,
		OpeningBalanceCents:  money.FromInt64(10000000),
		OpeningBalanceSource: "Kontoauszug",
		CreditLineCents:      &credit,
		CreditLineSource:     "Kreditvertrag",
	}
	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("failed to create test plan: %v", err)
	}
	return plan
}

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// FindLineItem finds the line item of a category in a period.
// Returns a pointer to the line item if found, nil otherwise.
func FindLineItem(period finance.ForecastPeriod, categoryKey string) *finance.LineItem {
	for i := range period.LineItems {
		if period.LineItems[i].CategoryKey == categoryKey {
			return &period.LineItems[i]
		}
	}
	return nil
}
