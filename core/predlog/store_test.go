package predlog

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func sampleRecords() []Record {
	rul := 40.0
	score := 0.9
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return []Record{
		{
			ID: "a", Timestamp: base, EquipmentID: "PUMP-101", EquipmentType: "PUMP",
			RULHours: &rul, Recommendation: "ok", ModelSource: "local",
		},
		{
			ID: "b", Timestamp: base.Add(time.Hour), EquipmentID: "COMP-1", EquipmentType: "COMPRESSOR",
			AnomalyScore: &score, IsAnomaly: true, ModelSource: "registry",
		},
	}
}

func runStoreTest(t *testing.T, store LogStore) {
	t.Helper()
	ctx := context.Background()
	for _, rec := range sampleRecords() {
		if err := store.Append(ctx, rec); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := store.Query(ctx, Query{})
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 records, got %d", len(all))
	}
	if all[0].RULHours == nil || *all[0].RULHours != 40.0 {
		t.Fatalf("rul not round-tripped: %+v", all[0])
	}

	byID, err := store.Query(ctx, Query{EquipmentID: "PUMP-101"})
	if err != nil {
		t.Fatalf("query id: %v", err)
	}
	if len(byID) != 1 || byID[0].ID != "a" {
		t.Fatalf("equipment filter: %+v", byID)
	}

	anomalies, err := store.Query(ctx, Query{AnomaliesOnly: true})
	if err != nil {
		t.Fatalf("query anomalies: %v", err)
	}
	if len(anomalies) != 1 || anomalies[0].ID != "b" {
		t.Fatalf("anomaly filter: %+v", anomalies)
	}

	windowed, err := store.Query(ctx, Query{End: time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)})
	if err != nil {
		t.Fatalf("query window: %v", err)
	}
	if len(windowed) != 1 || windowed[0].ID != "a" {
		t.Fatalf("time filter: %+v", windowed)
	}

	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestJSONLStore(t *testing.T) {
	store, err := NewJSONLStore(filepath.Join(t.TempDir(), "pred.jsonl"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	runStoreTest(t, store)
}

func TestSQLiteStore(t *testing.T) {
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "pred.db"))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	runStoreTest(t, store)
}
