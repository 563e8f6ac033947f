package utils

import (
	"encoding/json"
	"net/http"
)

// Envelope is the generic success wrapper every JSON endpoint returns.
type Envelope struct {
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// ErrorBody mirrors the {"detail": ...} error shape the API has always used.
type ErrorBody struct {
	Detail string `json:"detail"`
}

// JSONResponse sends an enveloped JSON response with the given status.
func JSONResponse(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// JSONError sends an error response with the given status and detail text.
func JSONError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorBody{Detail: detail})
}
