package server

import (
	"encoding/json"
	"net/http"

	"github.com/containerpak/cpakstore/pkg/errors"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error, status int) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Code: string(code), Message: errors.UserMessage(err)}})
}

// statusFor maps an error code to an HTTP status.
func statusFor(err error) int {
	code := errors.GetCode(err)
	switch {
	case code == errors.ErrCodeUnknownCategory, code == errors.ErrCodeUnknownOrigin:
		return http.StatusNotFound
	case code == errors.ErrCodeMalformedOrigin:
		return http.StatusUnprocessableEntity
	case code == errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case code == errors.ErrCodeMissingReference, errors.IsUnreachable(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
