package response

import (
	"encoding/json"
	"net/http"
)

// Outcome values carried in the "success" field of every API response.
const (
	StatusSuccess = "SUCCESS"
	StatusFailure = "FAILURE"
)

// M is the payload merged into the envelope at the top level.
type M map[string]interface{}

func write(w http.ResponseWriter, status int, outcome, message string, data M) {
	body := make(map[string]interface{}, len(data)+2)
	for key, value := range data {
		body[key] = value
	}
	body["success"] = outcome
	body["message"] = message

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// OK sends a SUCCESS envelope with data merged at the top level.
func OK(w http.ResponseWriter, message string, data M) {
	write(w, http.StatusOK, StatusSuccess, message, data)
}

// Fail sends a FAILURE envelope. Business failures are HTTP 200; the
// client branches on the "success" field, not the status code.
func Fail(w http.ResponseWriter, message string, data M) {
	write(w, http.StatusOK, StatusFailure, message, data)
}

// ValidationError sends a FAILURE envelope with a field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusOK, StatusFailure, "Validation failed", M{"errors": errs})
}

// Error sends a transport-level error with a real status code. Reserved
// for malformed requests and server faults, not business outcomes.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, StatusFailure, message, nil)
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "Forbidden")
}
