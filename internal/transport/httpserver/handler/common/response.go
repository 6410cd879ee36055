package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"wedding-app-go/pkg/logger"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorMapping turns a domain sentinel into an HTTP status and error code.
type ErrorMapping struct {
	Err    error
	Status int
	Code   string
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, code, message)
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	writeJSON(w, status, payload)
}

// WriteServiceError answers with the first matching mapping, logged as a
// business error. Anything else is an internal error.
func WriteServiceError(w http.ResponseWriter, log logger.Logger, op string, err error, mappings []ErrorMapping, attrs ...any) {
	for _, mapping := range mappings {
		if errors.Is(err, mapping.Err) {
			log.BusinessError(op, err, attrs...)
			writeError(w, mapping.Status, mapping.Code, mapping.Err.Error())
			return
		}
	}
	log.InternalError(op, err, attrs...)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
