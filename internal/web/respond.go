// Package web holds the small HTTP plumbing shared by the API and the
// page pipeline: JSON reply helpers, the page-handler contract and the
// CORS middleware.
package web

import (
	"encoding/json"
	"net/http"
)

// InternalErrorText is the only detail an unexpected failure leaks.
const InternalErrorText = "Internal server error. Please contact a developer for assistance."

// Result is the JSON reply shape of the account API. Authentication
// failures ride in it with a 200 status; only transport-level problems
// use HTTP error codes.
type Result struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg,omitempty"`
}

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Succeed replies {"success":true}.
func Succeed(w http.ResponseWriter) {
	JSON(w, http.StatusOK, Result{Success: true})
}

// Fail replies {"success":false,"msg":...} with a 200 status.
func Fail(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, Result{Success: false, Msg: msg})
}

// FailStatus replies {"success":false,"msg":...} with an explicit
// status code.
func FailStatus(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Result{Success: false, Msg: msg})
}
