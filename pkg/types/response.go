// Package types holds the wire envelopes shared by every HTTP response.
package types

// SuccessEnvelope wraps every successful JSON response body under "data".
type SuccessEnvelope struct {
	Data any `json:"data"`
}

// APIError is the public error payload. Code is one of the stable machine
// codes from pkg/errors; Message is safe to show to an operator.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorEnvelope wraps every error JSON response body under "error".
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
