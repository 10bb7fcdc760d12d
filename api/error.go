package api

import (
	"encoding/json"
	"fmt"
)

// APIError is a non-success response from the service. When the body carried
// the structured {detail: {code, message}} envelope, Code and Message hold
// the server-provided values; otherwise both are empty and Error falls back
// to a generic message with the HTTP status code.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed (HTTP %d)", e.StatusCode)
}

type errorEnvelope struct {
	Detail struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"detail"`
}

// parseAPIError builds an APIError from a non-2xx response body. A body that
// is not JSON, or not the expected envelope, yields the generic form.
func parseAPIError(statusCode int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil {
		apiErr.Code = env.Detail.Code
		apiErr.Message = env.Detail.Message
	}
	return apiErr
}
