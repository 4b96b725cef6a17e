// Package response shapes the JSON bodies the storefront client expects.
//
// Every body carries a success flag; handlers report failures in the body
// and never let an error escape the request scope:
//
//	response.OK(w, "Payment Completed Successfully", response.M{"result": res})
//	response.Fail(w, http.StatusBadRequest, "Name is required")
package response

import (
	"encoding/json"
	"net/http"
)

// M is a shorthand for response payload maps.
type M map[string]interface{}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

func merge(base envelope, extra M) map[string]interface{} {
	out := map[string]interface{}{"success": base.Success}
	if base.Message != "" {
		out["message"] = base.Message
	}
	if len(base.Errors) > 0 {
		out["errors"] = base.Errors
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// OK sends a 200 success response with an optional message and extra fields.
func OK(w http.ResponseWriter, message string, extra M) {
	write(w, http.StatusOK, merge(envelope{Success: true, Message: message}, extra))
}

// Created sends a 201 success response.
func Created(w http.ResponseWriter, message string, extra M) {
	write(w, http.StatusCreated, merge(envelope{Success: true, Message: message}, extra))
}

// Fail sends a success=false response with the given status and message.
func Fail(w http.ResponseWriter, status int, message string) {
	write(w, status, merge(envelope{Success: false, Message: message}, nil))
}

// FailWith sends a success=false response with extra payload fields.
func FailWith(w http.ResponseWriter, status int, message string, extra M) {
	write(w, status, merge(envelope{Success: false, Message: message}, extra))
}

// ValidationError sends a 422 with a field → message map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusUnprocessableEntity,
		merge(envelope{Success: false, Message: "Validation failed", Errors: errs}, nil))
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Unauthorized"
	}
	Fail(w, http.StatusUnauthorized, message)
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Forbidden"
	}
	Fail(w, http.StatusForbidden, message)
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Not found"
	}
	Fail(w, http.StatusNotFound, message)
}

// ServerError sends a 500. The error itself is logged by the caller,
// never echoed to the client.
func ServerError(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Internal Server Error"
	}
	Fail(w, http.StatusInternalServerError, message)
}
