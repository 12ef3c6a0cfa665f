package explain

import (
	"fmt"
	"strings"

	"petrasense/core/model"
)

// Locale selects the narrative language.
type Locale string

const (
	LocaleES Locale = "es"
	LocaleEN Locale = "en"
)

// anomalyClauseScore is the score above which the narrative carries an
// explicit zero-day warning clause.
const anomalyClauseScore = 0.5

const narrativeDrivers = 3

// RiskPercent converts RUL hours into a 0-100 risk figure used by the
// narrative. Equipment with a month or more of remaining life floors
// at 5%.
func RiskPercent(rulHours float64) float64 {
	switch {
	case rulHours <= 0:
		return 99.0
	case rulHours >= 720:
		return 5.0
	default:
		return model.FailureProbability(rulHours)
	}
}

// Narrative renders the explanation as one localized sentence: a risk
// statement, the top drivers, and an anomaly warning clause when the
// anomaly score exceeds 0.5.
func Narrative(expl *model.Explanation, rulHours float64, anomalyScore *float64, loc Locale) string {
	if loc == LocaleES {
		return narrativeES(expl, rulHours, anomalyScore)
	}
	return narrativeEN(expl, rulHours, anomalyScore)
}

func narrativeES(expl *model.Explanation, rulHours float64, anomalyScore *float64) string {
	parts := []string{fmt.Sprintf(
		"El riesgo de fallo es del %.0f%% (vida útil remanente estimada: %.0f horas)",
		RiskPercent(rulHours), rulHours,
	)}
	if drivers := driverPhrases(expl, func(d model.Driver) string {
		word := "aumento"
		if d.Direction == model.DirectionDecrease {
			word = "disminución"
		}
		return fmt.Sprintf("%.0f%% por el %s de %s", d.ContributionPct, word, displayName(d.Feature))
	}); drivers != "" {
		parts = append(parts, "impulsado en un "+drivers)
	}
	if anomalyScore != nil && *anomalyScore > anomalyClauseScore {
		parts = append(parts, fmt.Sprintf("anomalía zero-day detectada (score: %.2f)", *anomalyScore))
	}
	return strings.Join(parts, ", ") + "."
}

func narrativeEN(expl *model.Explanation, rulHours float64, anomalyScore *float64) string {
	parts := []string{fmt.Sprintf(
		"Failure risk at %.0f%% (estimated RUL: %.0f hours)",
		RiskPercent(rulHours), rulHours,
	)}
	if drivers := driverPhrases(expl, func(d model.Driver) string {
		word := "increase"
		if d.Direction == model.DirectionDecrease {
			word = "decrease"
		}
		return fmt.Sprintf("%.0f%% from the %s in %s", d.ContributionPct, word, displayName(d.Feature))
	}); drivers != "" {
		parts = append(parts, "driven by "+drivers)
	}
	if anomalyScore != nil && *anomalyScore > anomalyClauseScore {
		parts = append(parts, fmt.Sprintf("zero-day anomaly detected (score: %.2f)", *anomalyScore))
	}
	return strings.Join(parts, ", ") + "."
}

func driverPhrases(expl *model.Explanation, render func(model.Driver) string) string {
	if expl == nil || len(expl.TopDrivers) == 0 {
		return ""
	}
	n := narrativeDrivers
	if n > len(expl.TopDrivers) {
		n = len(expl.TopDrivers)
	}
	phrases := make([]string, 0, n)
	for _, d := range expl.TopDrivers[:n] {
		phrases = append(phrases, render(d))
	}
	return strings.Join(phrases, ", ")
}

func displayName(feature string) string {
	return strings.ReplaceAll(feature, "_", " ")
}
