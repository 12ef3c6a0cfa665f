package explain

import (
	"strings"
	"testing"

	"petrasense/core/model"
)

func demoExplanation() *model.Explanation {
	return &model.Explanation{
		FeatureImportance: map[string]float64{"vibration_x": 60, "temperature": 30, "pressure": 10},
		TopDrivers: []model.Driver{
			{Feature: "vibration_x", ContributionPct: 60, Direction: model.DirectionIncrease},
			{Feature: "temperature", ContributionPct: 30, Direction: model.DirectionIncrease},
			{Feature: "pressure", ContributionPct: 10, Direction: model.DirectionDecrease},
		},
	}
}

func TestNarrativeBothLocalesWithAnomaly(t *testing.T) {
	score := 0.8
	es := Narrative(demoExplanation(), 48, &score, LocaleES)
	en := Narrative(demoExplanation(), 48, &score, LocaleEN)

	if !strings.Contains(es, "48 horas") || !strings.Contains(es, "riesgo de fallo") {
		t.Fatalf("es narrative missing risk sentence: %s", es)
	}
	if !strings.Contains(es, "anomalía zero-day") {
		t.Fatalf("es narrative missing anomaly clause: %s", es)
	}
	if !strings.Contains(en, "48 hours") || !strings.Contains(en, "Failure risk") {
		t.Fatalf("en narrative missing risk sentence: %s", en)
	}
	if !strings.Contains(en, "zero-day anomaly") {
		t.Fatalf("en narrative missing anomaly clause: %s", en)
	}
	if !strings.Contains(en, "vibration x") {
		t.Fatalf("en narrative missing driver clause: %s", en)
	}
}

func TestNarrativeNoAnomalyClauseBelowThreshold(t *testing.T) {
	score := 0.3
	en := Narrative(demoExplanation(), 300, &score, LocaleEN)
	if strings.Contains(en, "anomaly detected") {
		t.Fatalf("unexpected anomaly clause: %s", en)
	}
	if en = Narrative(demoExplanation(), 300, nil, LocaleEN); strings.Contains(en, "anomaly detected") {
		t.Fatalf("unexpected anomaly clause without score: %s", en)
	}
}

func TestRiskPercent(t *testing.T) {
	if got := RiskPercent(0); got != 99.0 {
		t.Fatalf("risk(0) = %v", got)
	}
	if got := RiskPercent(10000); got != 5.0 {
		t.Fatalf("risk(10000) = %v", got)
	}
	mid := RiskPercent(168)
	if mid <= 5 || mid >= 99 {
		t.Fatalf("risk(168) = %v", mid)
	}
}

func TestNarrativeWithoutDrivers(t *testing.T) {
	en := Narrative(nil, 100, nil, LocaleEN)
	if !strings.Contains(en, "estimated RUL") || strings.Contains(en, "driven by") {
		t.Fatalf("narrative = %s", en)
	}
}
