package campaigns

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/multierr"
)

// ConfigError reports a required environment value that the host did not supply.
type ConfigError struct {
	Key string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("A [%s] environment need for this module.", e.Key)
}

// FieldError describes a single input that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// ValidationError aggregates one or more FieldErrors.
type ValidationError struct {
	err error
}

func (e *ValidationError) Error() string {
	return e.err.Error()
}

// Errors returns the individual field errors in the order they were found.
func (e *ValidationError) Errors() []error {
	return multierr.Errors(e.err)
}

func (e *ValidationError) Unwrap() []error {
	return e.Errors()
}

// validationErrors collects field errors and returns nil when there are none.
func validationErrors(errs ...error) error {
	combined := multierr.Combine(errs...)
	if combined == nil {
		return nil
	}
	return &ValidationError{err: combined}
}

// TransportError wraps a network level failure. No response body was read.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// MailchimpError is the problem document Mailchimp returns alongside error statuses.
type MailchimpError struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Status   int    `json:"status"`
	Detail   string `json:"detail"`
	Instance string `json:"instance"`
}

// RemoteError reports a response with a status other than 200.
// Its message is the raw response body.
type RemoteError struct {
	StatusCode int
	Body       []byte
}

func (e *RemoteError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return string(e.Body)
}

// Problem decodes the body as a Mailchimp problem document.
// The second result is false when the body is not one.
func (e *RemoteError) Problem() (MailchimpError, bool) {
	var result MailchimpError
	if err := json.Unmarshal(e.Body, &result); err != nil {
		return result, false
	}
	return result, result.Title != "" || result.Detail != ""
}
