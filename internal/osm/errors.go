package osm

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gophercloud/gophercloud/v2"
)

// ErrNotFound is returned when a lookup by name or id matches nothing.
var ErrNotFound = errors.New("not found")

// AuthError is returned when no NBI token could be obtained.
type AuthError struct {
	Endpoint string
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("failed to authenticate with %s: %v", e.Endpoint, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// APIError is a non-success NBI response.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Code       string
	Detail     string

	Err error
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}

	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.URL, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

type errorBody struct {
	Code   string `json:"code"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

// asAPIError converts a gophercloud status error into an *APIError carrying the
// NBI detail text. Other errors are returned unchanged.
func asAPIError(err error) error {
	if err == nil {
		return nil
	}

	var codeErr gophercloud.ErrUnexpectedResponseCode
	if !errors.As(err, &codeErr) {
		return err
	}

	apiErr := &APIError{
		Method:     codeErr.Method,
		URL:        codeErr.URL,
		StatusCode: codeErr.Actual,
		Err:        err,
	}

	body := errorBody{}
	if jsonErr := json.Unmarshal(codeErr.Body, &body); jsonErr == nil {
		apiErr.Code = body.Code
		apiErr.Detail = body.Detail
	}

	return apiErr
}
