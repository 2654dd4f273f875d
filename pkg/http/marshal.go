package http

import (
	"encoding/json"
	"net/http"
)

func MarshalJSON(w http.ResponseWriter, i any) {
	MarshalJSONWithStatus(w, i, http.StatusOK)
}

func MarshalJSONWithStatus(w http.ResponseWriter, i any, status int) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	if i == nil {
		return
	}
	err := json.NewEncoder(w).Encode(i)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Envelope is the `{code, message, data}` response shape of the platform API.
type Envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// MarshalEnvelope writes data wrapped in a successful envelope.
func MarshalEnvelope(w http.ResponseWriter, data any) {
	MarshalJSON(w, Envelope{Code: http.StatusOK, Data: data})
}

// MarshalEnvelopeError writes an envelope carrying an API error with HTTP status 200,
// the way the platform reports business errors.
func MarshalEnvelopeError(w http.ResponseWriter, code int, message string) {
	MarshalJSON(w, Envelope{Code: code, Message: message})
}
