package models

import (
	"encoding/json"
	"testing"

	"github.com/iwvelando/liquidity-forecast/pkg/money"
	"github.com/shopspring/decimal"
)

func TestAssumptionJSONRendersRiskAsPercent(t *testing.T) {
	risk := decimal.RequireFromString("0.35")
	a := Assumption{
		Base:             Base{ID: "a-1"},
		CategoryKey:      "REVENUE",
		BaseAmountCents:  money.FromInt64(500000),
		RiskProbability:  &risk,
		StartPeriodIndex: 2,
		EndPeriodIndex:   5,
	}

	data, err := json.Marshal(&a)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if fields["riskProbability"] != "35" {
		t.Errorf("riskProbability = %v, expected \"35\"", fields["riskProbability"])
	}
	if fields["id"] != "a-1" || fields["categoryKey"] != "REVENUE" || fields["baseAmountCents"] != "500000" {
		t.Errorf("other fields not carried over: %s", data)
	}
	if !a.RiskProbability.Equal(risk) {
		t.Errorf("stored fraction changed to %s", a.RiskProbability)
	}
}

func TestAssumptionJSONWithoutRisk(t *testing.T) {
	data, err := json.Marshal(Assumption{CategoryKey: "RENT"})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if v, ok := fields["riskProbability"]; !ok || v != nil {
		t.Errorf("riskProbability = %v, expected null", v)
	}
}
