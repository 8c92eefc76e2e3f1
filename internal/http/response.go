package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"portfolio-backend-go/internal/services"
)

type DataResponse struct {
	Data interface{} `json:"data"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Hint    string      `json:"hint,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func WriteData(w http.ResponseWriter, status int, data interface{}) {
	WriteJSON(w, status, DataResponse{Data: data})
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps a service error to its status; anything else is a
// 500 carrying the error text.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var serr services.ServiceError
	if !errors.As(err, &serr) {
		serr = services.ServiceError{Status: http.StatusInternalServerError, Message: err.Error()}
	}
	entry := LoggerFrom(r).WithError(err).WithField("status", serr.Status)
	if serr.Status >= http.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Warn("request rejected")
	}
	WriteJSON(w, serr.Status, ErrorResponse{
		Error:   serr.Message,
		Code:    serr.Code,
		Hint:    serr.Hint,
		Details: serr.Details,
	})
}
