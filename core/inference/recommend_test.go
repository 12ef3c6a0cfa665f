package inference

import (
	"strings"
	"testing"
)

func TestRecommendPriority(t *testing.T) {
	cfg := Config{}
	cfg.SetDefaults()

	f := func(v float64) *float64 { return &v }
	cases := []struct {
		name    string
		rul     *float64
		anomaly bool
		want    string
	}{
		{"anomaly wins over healthy rul", f(500), true, "ANOMALY"},
		{"no model", nil, false, "unavailable"},
		{"critical", f(10), false, "STOP"},
		{"warning", f(48), false, "SCHEDULE MAINTENANCE"},
		{"caution", f(100), false, "MONITOR"},
		{"normal", f(500), false, "operating normally"},
		{"boundary critical", f(24), false, "SCHEDULE MAINTENANCE"},
	}
	for _, tc := range cases {
		got := recommend(cfg, "PUMP", tc.rul, tc.anomaly)
		if !strings.Contains(got, tc.want) {
			t.Errorf("%s: %q does not contain %q", tc.name, got, tc.want)
		}
		if !strings.Contains(got, "PUMP") {
			t.Errorf("%s: recommendation must name the equipment: %q", tc.name, got)
		}
	}
}
