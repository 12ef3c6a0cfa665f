package inference

import "fmt"

// recommendInsufficientData is returned when no window could be built.
const recommendInsufficientData = "INSUFFICIENT DATA: waiting for sensor readings"

// recommend synthesizes the maintenance recommendation. The anomaly flag
// wins over any RUL value; a missing RUL model wins over the RUL tiers.
func recommend(cfg Config, equipmentType string, rulHours *float64, isAnomaly bool) string {
	if isAnomaly {
		return fmt.Sprintf("ZERO-DAY ANOMALY DETECTED on %s. Immediate inspection required: pattern not seen in training.", equipmentType)
	}
	if rulHours == nil {
		return fmt.Sprintf("%s: model unavailable. Manual monitoring recommended.", equipmentType)
	}
	rul := *rulHours
	switch {
	case rul < cfg.RULCritical:
		return fmt.Sprintf("STOP %s FOR IMMEDIATE MAINTENANCE. Estimated RUL: %.0fh.", equipmentType, rul)
	case rul < cfg.RULWarning:
		return fmt.Sprintf("SCHEDULE MAINTENANCE for %s within the next 24h. Estimated RUL: %.0fh.", equipmentType, rul)
	case rul < cfg.RULCaution:
		return fmt.Sprintf("MONITOR %s closely: moderate risk. Estimated RUL: %.0fh.", equipmentType, rul)
	default:
		return fmt.Sprintf("%s operating normally. Estimated RUL: %.0fh. Continue monitoring.", equipmentType, rul)
	}
}
