package maintenance

import (
	"encoding/json"
	"net/http"
	"time"

	"petrasense/core/predlog"
)

// NewLogHandler returns an HTTP handler exposing prediction logs via
// GET /api/maintenance/predictions. Requests must include an Authorization
// header with "Bearer <token>" when token is non-empty.
func NewLogHandler(store predlog.LogStore, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		q := predlog.Query{}
		if s := r.URL.Query().Get("start"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.Start = t
			}
		}
		if s := r.URL.Query().Get("end"); s != "" {
			if t, err := time.Parse(time.RFC3339, s); err == nil {
				q.End = t
			}
		}
		q.EquipmentID = r.URL.Query().Get("equipment_id")
		q.EquipmentType = r.URL.Query().Get("equipment_type")
		if r.URL.Query().Get("anomalies_only") == "true" {
			q.AnomaliesOnly = true
		}
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []predlog.Record{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
