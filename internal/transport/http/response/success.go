package response

import (
	"encoding/json"
	"net/http"
)

type Envelope struct {
	Data       any    `json:"data"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// PageEnvelope carries a list plus its paging metadata.
type PageEnvelope struct {
	Data       any    `json:"data"`
	Metadata   any    `json:"metadata"`
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

// WriteJSON writes v as JSON with the given status code.
// It sets Content-Type to application/json; charset=utf-8 if not already set.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a 200 response with {"data", "statusCode", "message"}.
func OK(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, Envelope{Data: data, StatusCode: http.StatusOK, Message: message})
}

// Created writes the same envelope with 201.
func Created(w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusCreated, Envelope{Data: data, StatusCode: http.StatusCreated, Message: message})
}

func Page(w http.ResponseWriter, message string, data, metadata any) {
	WriteJSON(w, http.StatusOK, PageEnvelope{
		Data:       data,
		Metadata:   metadata,
		StatusCode: http.StatusOK,
		Message:    message,
	})
}
