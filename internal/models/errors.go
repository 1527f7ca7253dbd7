package models

// ErrorResponse is the flat error body every endpoint returns on failure.
type ErrorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}
