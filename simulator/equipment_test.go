package simulator

import (
	"math/rand"
	"testing"
)

func TestEquipmentDeterministic(t *testing.T) {
	a, err := NewEquipment(EquipmentConfig{ID: "P1", Type: "PUMP"}, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	b, _ := NewEquipment(EquipmentConfig{ID: "P1", Type: "PUMP"}, rand.New(rand.NewSource(7)))
	for i := 0; i < 10; i++ {
		ra, rb := a.Step(), b.Step()
		for f, v := range ra {
			if rb[f] != v {
				t.Fatalf("step %d feature %s: %v vs %v", i, f, v, rb[f])
			}
		}
	}
}

func TestEquipmentDriftsTowardFailure(t *testing.T) {
	eq, err := NewEquipment(EquipmentConfig{ID: "P1", Type: "PUMP"}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	var vibSum, pressSum float64
	n := 500
	for i := 0; i < n; i++ {
		r := eq.Step()
		vibSum += r["vibration_x"]
		pressSum += r["pressure"]
	}
	// vibration_x rises from 2.5 toward 8.0; pressure falls from 15 toward 5.
	if vibSum/float64(n) <= 2.5 {
		t.Fatalf("vibration did not drift up: mean %.2f", vibSum/float64(n))
	}
	if pressSum/float64(n) >= 15.0 {
		t.Fatalf("pressure did not drift down: mean %.2f", pressSum/float64(n))
	}
}

func TestEquipmentFailedAndReset(t *testing.T) {
	eq, err := NewEquipment(EquipmentConfig{ID: "V1", Type: "VALVE", Wear: 0.99}, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if eq.Failed() {
		t.Fatal("should not start failed at wear 0.99")
	}
	for i := 0; i < 2000 && !eq.Failed(); i++ {
		eq.Step()
	}
	if !eq.Failed() {
		t.Fatal("expected failure after sustained wear")
	}
	eq.Reset()
	if eq.Failed() {
		t.Fatal("reset unit must not be failed")
	}
}

func TestNewEquipmentUnknownType(t *testing.T) {
	if _, err := NewEquipment(EquipmentConfig{ID: "X", Type: "TURBINE"}, rand.New(rand.NewSource(1))); err == nil {
		t.Fatal("expected error for unknown type")
	}
}
