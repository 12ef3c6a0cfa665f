// Package profile holds the static equipment catalog: per-type sensor
// feature lists, nominal operating points and degradation parameters.
// The declared feature order is authoritative for every window tensor
// built by the inference engine.
package profile

import "sort"

// Profile defines the sensor features and degradation physics of one
// equipment type.
type Profile struct {
	EquipmentType    string
	Features         []string
	Nominal          map[string]float64
	FailureThreshold map[string]float64
	// DriftRate and Volatility parameterize the Brownian degradation
	// model used by the simulator and the demo backfill.
	DriftRate  map[string]float64
	Volatility map[string]float64
	MTBFHours  float64
}

// FeatureIndex returns the position of a feature in the declared order,
// or -1 when the profile does not know it.
func (p Profile) FeatureIndex(name string) int {
	for i, f := range p.Features {
		if f == name {
			return i
		}
	}
	return -1
}

// Get looks up the profile for an equipment type.
func Get(equipmentType string) (Profile, bool) {
	p, ok := catalog[equipmentType]
	return p, ok
}

// Types returns all known equipment types in stable order.
func Types() []string {
	out := make([]string, 0, len(catalog))
	for t := range catalog {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
