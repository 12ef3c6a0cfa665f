package maintenance

import (
	"encoding/json"
	"net/http"

	"petrasense/core/inference"
	coremqtt "petrasense/core/mqtt"
	"petrasense/core/registry"
)

type ingestRequest struct {
	EquipmentID string             `json:"equipment_id"`
	SensorData  map[string]float64 `json:"sensor_data"`
}

// NewIngestHandler returns an HTTP handler accepting sensor readings via
// POST /api/maintenance/readings.
func NewIngestHandler(ing coremqtt.Ingestor) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req ingestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.EquipmentID == "" || len(req.SensorData) == 0 {
			http.Error(w, "equipment_id and sensor_data are required", http.StatusBadRequest)
			return
		}
		ing.IngestReading(req.EquipmentID, req.SensorData)
		w.WriteHeader(http.StatusAccepted)
	})
}

type predictRequest struct {
	EquipmentID   string `json:"equipment_id"`
	EquipmentType string `json:"equipment_type"`
}

// NewPredictHandler returns an HTTP handler running a single prediction via
// POST /api/maintenance/predict.
func NewPredictHandler(eng *inference.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req predictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		res, err := eng.Predict(r.Context(), req.EquipmentID, req.EquipmentType)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(res); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// NewBatchPredictHandler returns an HTTP handler running predictions for a
// list of equipment via POST /api/maintenance/predict/batch.
func NewBatchPredictHandler(eng *inference.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var items []inference.BatchItem
		if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if len(items) == 0 {
			http.Error(w, "empty batch", http.StatusBadRequest)
			return
		}
		results := eng.PredictBatch(r.Context(), items)
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(results); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// NewStatusHandler returns an HTTP handler exposing engine state via
// GET /api/maintenance/status.
func NewStatusHandler(eng *inference.Engine) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(eng.Status()); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// NewModelsHandler returns an HTTP handler listing registry models via
// GET /api/maintenance/models.
func NewModelsHandler(adapter *registry.Adapter) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		models := adapter.ListModels(r.Context())
		if models == nil {
			models = []registry.RegisteredModel{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(models); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
