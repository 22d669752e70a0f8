// Package response writes the JSON envelope used by every Workhive route.
//
// Success:  {"status":200,"data":{...}}
// Failure:  {"status":400,"error":"...","fields":{"email":"..."}}
//
// Failures always carry an `error` field; validation failures additionally
// carry field-level messages and use HTTP 400.
package response

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Status int               `json:"status"`
	Data   interface{}       `json:"data,omitempty"`
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 with data.
func Success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Data: data})
}

// Created sends a 201 with data.
func Created(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusCreated, envelope{Status: http.StatusCreated, Data: data})
}

// Error sends a JSON error with the given status.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Status: status, Error: message})
}

// ValidationError sends a 400 with field-level messages.
func ValidationError(w http.ResponseWriter, fields map[string]string) {
	write(w, http.StatusBadRequest, envelope{
		Status: http.StatusBadRequest,
		Error:  "validation failed",
		Fields: fields,
	})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "unauthorized")
}

// Forbidden sends a 403.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "forbidden")
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "not found")
}

// Conflict sends a 409. Used for rejected status transitions.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, message)
}
