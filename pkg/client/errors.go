package client

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Code    string
	Message string

	body []byte
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	e := &APIError{Method: method, Path: path, Status: status, body: body}
	var env struct {
		Error   string `json:"error"`
		Code    string `json:"code"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if json.Unmarshal(body, &env) == nil {
		e.Code = env.Code
		for _, m := range []string{env.Error, env.Detail, env.Message} {
			if m != "" {
				e.Message = m
				break
			}
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
		if len(e.Message) > 200 {
			e.Message = e.Message[:200]
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s %s: %d %s: %s", e.Method, e.Path, e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// Diagnosis explains the failure in terms an operator can act on.
func (e *APIError) Diagnosis() string {
	switch {
	case e.Status == http.StatusUnauthorized && e.Code == "INVALID_CREDENTIALS":
		return "the username or password was rejected; check the account exists, is active and the password is right"
	case e.Status == http.StatusUnauthorized:
		return "the bearer token is missing, expired or revoked; log in again"
	case e.Status == http.StatusForbidden:
		return "the account is not allowed to use this application; add it to the account's allowed_apps"
	case e.Status == http.StatusNotFound:
		return "the endpoint does not exist on this server; check the base URL and that the deployment is current"
	case e.Status == http.StatusConflict:
		return "the username or email is already taken by another account"
	case e.Status == http.StatusUnprocessableEntity:
		return "the server rejected the payload: " + e.Message
	case e.Status == http.StatusBadRequest:
		return "the request was malformed: " + e.Message
	case e.Status == http.StatusServiceUnavailable:
		return "the server is up but its database or cache is unreachable"
	case e.Status >= 500:
		return "the server failed while handling the request; check its logs"
	default:
		return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Message)
	}
}
