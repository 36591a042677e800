package api

import (
	"encoding/json"
	"net/http"
	"time"
)

// Metadata carries the standard response envelope fields.
type Metadata struct {
	StatusCode    int       `json:"statusCode"`
	Errors        []string  `json:"errors"`
	ExecutionTime float64   `json:"executionTime"`
	Timestamp     time.Time `json:"timestamp"`
}

// Envelope is the standard API response shape.
type Envelope struct {
	Data     any      `json:"data"`
	Metadata Metadata `json:"metadata"`
	Success  int      `json:"success"`
}

func writeSuccess(w http.ResponseWriter, status int, data any, started time.Time) {
	writeEnvelope(w, status, data, nil, started, 1)
}

func writeError(w http.ResponseWriter, status int, message string, started time.Time) {
	writeEnvelope(w, status, map[string]string{"message": message}, []string{message}, started, 0)
}

func writeEnvelope(w http.ResponseWriter, status int, data any, errs []string, started time.Time, success int) {
	if errs == nil {
		errs = []string{}
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Envelope{
		Data: data,
		Metadata: Metadata{
			StatusCode:    status,
			Errors:        errs,
			ExecutionTime: time.Since(started).Seconds(),
			Timestamp:     time.Now().UTC(),
		},
		Success: success,
	})
}
