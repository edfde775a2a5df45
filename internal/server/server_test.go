package server

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/iwvelando/liquidity-forecast/internal/errors"
	"github.com/iwvelando/liquidity-forecast/internal/forecast"
	"github.com/iwvelando/liquidity-forecast/internal/models"
	"github.com/iwvelando/liquidity-forecast/pkg/finance"
	"github.com/iwvelando/liquidity-forecast/pkg/money"
	"github.com/iwvelando/liquidity-forecast/pkg/validation"
	"go.uber.org/zap"
)

const (
	testPlanID       = "0190f5a4-7c2e-7b3a-9d4e-1a2b3c4d5e6f"
	testAssumptionID = "0190f5a4-7c2e-7b3a-9d4e-aaaaaaaaaaaa"
	testSnapshotID   = "0190f5a4-7c2e-7b3a-9d4e-bbbbbbbbbbbb"
)

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(svc forecast.Servicer) http.Handler {
	return NewRouter(svc, zap.NewNop(), 0, "1.2.3")
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode error body %q: %v", rr.Body.String(), err)
	}
	return body
}

func sampleForecast() *forecast.ForecastData {
	return &forecast.ForecastData{
		PlanID: testPlanID,
		CaseID: "IN 2026/001",
		Periods: []finance.ForecastPeriod{
			{
				PeriodIndex:         0,
				PeriodLabel:         "KW 07/2026",
				PeriodStartDate:     "2026-02-09",
				DataSource:          "FORECAST",
				OpeningBalanceCents: money.FromInt64(10000000),
				CashInTotalCents:    money.FromInt64(4000000),
				ClosingBalanceCents: money.FromInt64(14000000),
				HeadroomCents:       money.FromInt64(19000000),
				LineItems:           []finance.LineItem{},
			},
		},
		Assumptions: []models.Assumption{},
		Meta:        finance.Meta{PlanStartDate: "2026-02-09", PeriodType: "WEEKLY", PeriodCount: 1},
		Summary:     finance.Summary{FinalClosingBalanceCents: money.FromInt64(14000000)},
		Warnings:    []string{},
	}
}

func TestHealthAndVersion(t *testing.T) {
	router := newTestRouter(&mockService{})

	rr := doRequest(t, router, http.MethodGet, "/api/health", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"ok"`) {
		t.Fatalf("health: %d %s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}

	rr = doRequest(t, router, http.MethodGet, "/api/version", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"1.2.3"`) {
		t.Fatalf("version: %d %s", rr.Code, rr.Body.String())
	}
}

func TestCreatePlan(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{
			name:       "created",
			body:       `{"caseId":"IN-1","planStartDate":"2026-02-09","periodType":"weekly","creditLine":"50.000"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing case",
			body:       `{"planStartDate":"2026-02-09"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
			wantField:  "caseId",
		},
		{
			name:       "unknown period type",
			body:       `{"caseId":"IN-1","planStartDate":"2026-02-09","periodType":"DAILY"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
			wantField:  "periodType",
		},
		{
			name:       "malformed json",
			body:       `{"caseId":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got forecast.PlanInput
			svc := &mockService{createPlanFn: func(_ context.Context, in forecast.PlanInput) (*models.Plan, error) {
				got = in
				return &models.Plan{CaseID: in.CaseID}, nil
			}}
			rr := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/v1/plans", tt.body)

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if tt.wantCode == "" {
				if got.CreditLine == nil || *got.CreditLine != "50.000" {
					t.Errorf("credit line not passed through: %+v", got)
				}
				return
			}
			body := decodeError(t, rr)
			if body.Error.Code != tt.wantCode || body.Error.Field != tt.wantField {
				t.Errorf("error = %+v", body.Error)
			}
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{name: "locked", err: apperrors.WithMessage(apperrors.ErrPlanLocked, "Plan is locked: Bericht"), wantStatus: http.StatusLocked, wantCode: "PLAN_LOCKED"},
		{name: "invalid config", err: apperrors.ErrInvalidPlanConfig, wantStatus: http.StatusUnprocessableEntity, wantCode: "INVALID_PLAN_CONFIG"},
		{name: "missing ist", err: apperrors.ErrMissingIstData, wantStatus: http.StatusConflict, wantCode: "MISSING_IST_DATA"},
		{name: "field validation", err: apperrors.Validation("amount", "not a number"), wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_ERROR", wantField: "amount"},
		{name: "internal detail hidden", err: apperrors.Wrap(apperrors.ErrInternalServer, context.DeadlineExceeded), wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
		{name: "plain error", err: context.Canceled, wantStatus: http.StatusInternalServerError, wantCode: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{recomputeFn: func(context.Context, string) (*forecast.ForecastData, error) {
				return nil, tt.err
			}}
			rr := doRequest(t, newTestRouter(svc), http.MethodGet, "/api/v1/plans/"+testPlanID+"/forecast", "")

			if rr.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tt.wantStatus)
			}
			body := decodeError(t, rr)
			if body.Error.Code != tt.wantCode || body.Error.Field != tt.wantField {
				t.Errorf("error = %+v", body.Error)
			}
			if strings.Contains(rr.Body.String(), "deadline") || strings.Contains(rr.Body.String(), "canceled") {
				t.Errorf("internal error leaked: %s", rr.Body.String())
			}
		})
	}
}

func TestMalformedPathIDs(t *testing.T) {
	called := false
	svc := &mockService{
		getPlanFn: func(context.Context, string) (*models.Plan, error) {
			called = true
			return &models.Plan{}, nil
		},
		updateAssumptionFn: func(context.Context, string, string, validation.AssumptionInput) (*models.Assumption, *forecast.ForecastData, error) {
			called = true
			return nil, nil, nil
		},
		getSnapshotFn: func(context.Context, string, string) (*forecast.SnapshotDetail, error) {
			called = true
			return nil, nil
		},
	}
	router := newTestRouter(svc)

	tests := []struct {
		method   string
		path     string
		body     string
		wantCode string
	}{
		{http.MethodGet, "/api/v1/plans/not-a-uuid", "", "PLAN_NOT_FOUND"},
		{http.MethodPatch, "/api/v1/plans/" + testPlanID + "/assumptions/42", `{}`, "ASSUMPTION_NOT_FOUND"},
		{http.MethodGet, "/api/v1/plans/" + testPlanID + "/snapshots/latest", "", "SNAPSHOT_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rr := doRequest(t, router, tt.method, tt.path, tt.body)
			if rr.Code != http.StatusNotFound {
				t.Fatalf("status = %d", rr.Code)
			}
			if code := decodeError(t, rr).Error.Code; code != tt.wantCode {
				t.Errorf("code = %s, want %s", code, tt.wantCode)
			}
		})
	}
	if called {
		t.Error("service must not be called for malformed ids")
	}
}

func TestPlanSettings(t *testing.T) {
	var gotAmount, gotSource, gotReason string
	var gotOverride *int
	overrideCalls := 0
	svc := &mockService{
		setOpeningBalanceFn: func(_ context.Context, _ string, amount, source string) (*forecast.ForecastData, error) {
			gotAmount, gotSource = amount, source
			return sampleForecast(), nil
		},
		setIstCutoffOverrideFn: func(_ context.Context, _ string, override *int) (*forecast.ForecastData, error) {
			gotOverride = override
			overrideCalls++
			return sampleForecast(), nil
		},
		lockPlanFn: func(_ context.Context, _ string, reason string) (*forecast.ForecastData, error) {
			gotReason = reason
			return sampleForecast(), nil
		},
	}
	router := newTestRouter(svc)
	base := "/api/v1/plans/" + testPlanID

	rr := doRequest(t, router, http.MethodPut, base+"/opening-balance", `{"amount":"125.000,00","source":"Kontoauszug"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("opening balance: %d %s", rr.Code, rr.Body.String())
	}
	if gotAmount != "125.000,00" || gotSource != "Kontoauszug" {
		t.Errorf("got %q / %q", gotAmount, gotSource)
	}
	var data forecast.ForecastData
	if err := json.Unmarshal(rr.Body.Bytes(), &data); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(data.Periods) != 1 || !data.Periods[0].ClosingBalanceCents.Equal(money.FromInt64(14000000)) {
		t.Errorf("forecast = %+v", data)
	}

	rr = doRequest(t, router, http.MethodPut, base+"/ist-cutoff", `{"istCutoffOverride":3}`)
	if rr.Code != http.StatusOK || gotOverride == nil || *gotOverride != 3 {
		t.Fatalf("ist cutoff: %d %v", rr.Code, gotOverride)
	}
	rr = doRequest(t, router, http.MethodPut, base+"/ist-cutoff", `{"istCutoffOverride":null}`)
	if rr.Code != http.StatusOK || gotOverride != nil {
		t.Fatalf("clearing ist cutoff: %d %v", rr.Code, gotOverride)
	}
	rr = doRequest(t, router, http.MethodPut, base+"/ist-cutoff", `{"istCutoffOverride":-1}`)
	if rr.Code != http.StatusBadRequest || overrideCalls != 2 {
		t.Fatalf("negative cutoff: %d, calls %d", rr.Code, overrideCalls)
	}

	rr = doRequest(t, router, http.MethodPost, base+"/lock", "")
	if rr.Code != http.StatusOK || gotReason != "" {
		t.Fatalf("lock without body: %d %q", rr.Code, gotReason)
	}
	rr = doRequest(t, router, http.MethodPost, base+"/lock", `{"reason":"Gläubigerausschuss"}`)
	if rr.Code != http.StatusOK || gotReason != "Gläubigerausschuss" {
		t.Fatalf("lock: %d %q", rr.Code, gotReason)
	}
}

func TestSyncIst(t *testing.T) {
	suggestion := money.FromInt64(10100000)
	svc := &mockService{syncIstFn: func(_ context.Context, planID string) (*forecast.SyncResult, error) {
		return &forecast.SyncResult{
			Forecast:                     sampleForecast(),
			PreviousIstPeriodCount:       0,
			IstPeriodCount:               1,
			SuggestedOpeningBalanceCents: &suggestion,
		}, nil
	}}

	rr := doRequest(t, newTestRouter(svc), http.MethodPost, "/api/v1/plans/"+testPlanID+"/sync-ist", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"suggestedOpeningBalanceCents":"10100000"`) {
		t.Errorf("suggestion missing: %s", rr.Body.String())
	}

	svc.syncIstFn = func(context.Context, string) (*forecast.SyncResult, error) {
		return nil, apperrors.ErrSyncInProgress
	}
	rr = doRequest(t, newTestRouter(svc), http.MethodPost, "/api/v1/plans/"+testPlanID+"/sync-ist", "")
	if rr.Code != http.StatusConflict || decodeError(t, rr).Error.Code != "SYNC_IN_PROGRESS" {
		t.Errorf("sync in progress: %d %s", rr.Code, rr.Body.String())
	}
}

func TestAssumptionEndpoints(t *testing.T) {
	var gotInput validation.AssumptionInput
	var gotActive *bool
	svc := &mockService{
		createAssumptionFn: func(_ context.Context, _ string, in validation.AssumptionInput) (*models.Assumption, *forecast.ForecastData, error) {
			gotInput = in
			return &models.Assumption{CategoryLabel: *in.CategoryLabel}, sampleForecast(), nil
		},
		toggleAssumptionFn: func(_ context.Context, _, _ string, isActive *bool) (*models.Assumption, *forecast.ForecastData, error) {
			gotActive = isActive
			return &models.Assumption{}, sampleForecast(), nil
		},
		deleteAssumptionFn: func(context.Context, string, string) (bool, *forecast.ForecastData, error) {
			return true, sampleForecast(), nil
		},
	}
	router := newTestRouter(svc)
	base := "/api/v1/plans/" + testPlanID + "/assumptions"

	rr := doRequest(t, router, http.MethodPost, base, `{"categoryLabel":"Umsatz","flowType":"INFLOW","assumptionType":"RUN_RATE","baseAmount":"40.000,00","baseAmountSource":"BWA"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rr.Code, rr.Body.String())
	}
	if gotInput.BaseAmount == nil || *gotInput.BaseAmount != "40.000,00" || gotInput.GrowthFactorPercent != nil {
		t.Errorf("input = %+v", gotInput)
	}
	if !strings.Contains(rr.Body.String(), `"assumption"`) || !strings.Contains(rr.Body.String(), `"forecast"`) {
		t.Errorf("response = %s", rr.Body.String())
	}

	rr = doRequest(t, router, http.MethodPost, base, `{"categoryLabel":"Umsatz","flowType":"UP"}`)
	if rr.Code != http.StatusBadRequest || decodeError(t, rr).Error.Field != "flowType" {
		t.Errorf("bad flow type: %d %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(t, router, http.MethodPost, base+"/"+testAssumptionID+"/toggle", "")
	if rr.Code != http.StatusOK || gotActive != nil {
		t.Errorf("toggle without body: %d %v", rr.Code, gotActive)
	}
	rr = doRequest(t, router, http.MethodPost, base+"/"+testAssumptionID+"/toggle", `{"isActive":false}`)
	if rr.Code != http.StatusOK || gotActive == nil || *gotActive {
		t.Errorf("toggle off: %d %v", rr.Code, gotActive)
	}

	rr = doRequest(t, router, http.MethodDelete, base+"/"+testAssumptionID, "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"softDeleted":true`) {
		t.Errorf("delete: %d %s", rr.Code, rr.Body.String())
	}
}

func TestSnapshotEndpoints(t *testing.T) {
	var gotLabel string
	svc := &mockService{
		createSnapshotFn: func(_ context.Context, planID, label string) (*models.ForecastSnapshot, error) {
			gotLabel = label
			return &models.ForecastSnapshot{PlanID: planID, Label: "Stand 18.10.2026 09:00"}, nil
		},
		getSnapshotFn: func(_ context.Context, planID, snapshotID string) (*forecast.SnapshotDetail, error) {
			return &forecast.SnapshotDetail{ID: snapshotID, PlanID: planID, Forecast: json.RawMessage(`{"planId":"x"}`)}, nil
		},
	}
	router := newTestRouter(svc)
	base := "/api/v1/plans/" + testPlanID + "/snapshots"

	rr := doRequest(t, router, http.MethodPost, base, "")
	if rr.Code != http.StatusCreated || gotLabel != "" {
		t.Fatalf("create: %d %q", rr.Code, gotLabel)
	}
	rr = doRequest(t, router, http.MethodPost, base, `{"label":"Berichtstermin"}`)
	if rr.Code != http.StatusCreated || gotLabel != "Berichtstermin" {
		t.Fatalf("create labelled: %d %q", rr.Code, gotLabel)
	}

	rr = doRequest(t, router, http.MethodGet, base+"/"+testSnapshotID, "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"forecast":{"planId":"x"}`) {
		t.Errorf("get: %d %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(t, router, http.MethodGet, base, "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"snapshots":[]`) {
		t.Errorf("list: %d %s", rr.Code, rr.Body.String())
	}
}

func TestExportForecast(t *testing.T) {
	svc := &mockService{recomputeFn: func(context.Context, string) (*forecast.ForecastData, error) {
		return sampleForecast(), nil
	}}
	router := newTestRouter(svc)
	base := "/api/v1/plans/" + testPlanID + "/export"

	rr := doRequest(t, router, http.MethodGet, base, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("csv: %d %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("content type = %s", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); !strings.Contains(cd, "liquiditaetsplan-IN_2026_001.csv") {
		t.Errorf("content disposition = %s", cd)
	}
	records, err := csv.NewReader(rr.Body).ReadAll()
	if err != nil || len(records) != 2 {
		t.Fatalf("csv records = %v, err %v", records, err)
	}

	rr = doRequest(t, router, http.MethodGet, base+"?format=yaml", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "planId: "+testPlanID) {
		t.Errorf("yaml: %d %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(t, router, http.MethodGet, base+"?format=pretty", "")
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "KW 07/2026") {
		t.Errorf("pretty: %d %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(t, router, http.MethodGet, base+"?format=xlsx", "")
	if rr.Code != http.StatusBadRequest || decodeError(t, rr).Error.Field != "format" {
		t.Errorf("unknown format: %d %s", rr.Code, rr.Body.String())
	}
}

func TestBodyLimit(t *testing.T) {
	router := NewRouter(&mockService{}, zap.NewNop(), 64, "")
	body := `{"caseId":"` + strings.Repeat("x", 200) + `","planStartDate":"2026-02-09"}`

	rr := doRequest(t, router, http.MethodPost, "/api/v1/plans", body)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d: %s", rr.Code, rr.Body.String())
	}
	if code := decodeError(t, rr).Error.Code; code != "PAYLOAD_TOO_LARGE" {
		t.Errorf("code = %s", code)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	cfg.Address = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, cfg, newTestRouter(&mockService{}), zap.NewNop())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
