// Package client provides DigitalOcean API client wrappers
package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/hashicorp/terraform-plugin-framework/diag"
)

// ErrorKind classifies the terminal failures a reconciliation can produce.
// NotFound is deliberately absent from the fatal kinds surfaced to operators:
// the locator treats absence as a valid outcome, and only drift handling in
// Read paths inspects it.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindPreconditionViolated
	KindProviderRejected
	KindTimeout
	KindInternalConsistency
)

// String returns a string representation of the error kind.
func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindPreconditionViolated:
		return "precondition_violated"
	case KindProviderRejected:
		return "provider_rejected"
	case KindTimeout:
		return "timeout"
	case KindInternalConsistency:
		return "internal_consistency"
	default:
		return "unknown"
	}
}

// Error is a classified reconciliation failure. Op names the operation that
// failed; Message is operator-facing and, for provider rejections, carries
// the API's own message verbatim.
type Error struct {
	Kind    ErrorKind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewPreconditionError reports a declared state that cannot be converged
// without operator intervention. Never retriable.
func NewPreconditionError(op, message string) *Error {
	return &Error{Kind: KindPreconditionViolated, Op: op, Message: message}
}

// NewTimeoutError reports a polling deadline exceeded. The message names the
// phase that timed out so operators can tell which wait failed.
func NewTimeoutError(op, message string) *Error {
	return &Error{Kind: KindTimeout, Op: op, Message: message}
}

// NewInternalError reports a success response missing an expected field.
// This is a provider contract violation to report, not a user-correctable
// condition.
func NewInternalError(op, message string) *Error {
	return &Error{Kind: KindInternalConsistency, Op: op, Message: message}
}

// APIError is a non-2xx response from the DigitalOcean API. Message is taken
// from the error body's message field when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("digitalocean API: HTTP %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("digitalocean API: HTTP %d", e.StatusCode)
}

// newAPIError decodes the error envelope {"id": ..., "message": ...} from a
// non-2xx response body. An undecodable body falls back to the raw bytes.
func newAPIError(statusCode int, body []byte) *APIError {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		return &APIError{StatusCode: statusCode, Message: envelope.Message}
	}
	return &APIError{StatusCode: statusCode, Message: string(body)}
}

// KindOf classifies an arbitrary error into an ErrorKind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var rerr *Error
	if errors.As(err, &rerr) {
		return rerr.Kind
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.StatusCode == http.StatusNotFound {
			return KindNotFound
		}
		return KindProviderRejected
	}

	return KindUnknown
}

// IsNotFound returns true if the error represents a 404 response. Used for
// drift detection in Read methods to decide whether the resource was deleted
// outside Terraform.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}

// IsTimeout returns true if the error is a polling deadline failure.
func IsTimeout(err error) bool {
	return KindOf(err) == KindTimeout
}

// MapError converts reconciliation errors to Terraform diagnostics with
// remediation guidance per kind.
func MapError(err error, operation string) diag.Diagnostic {
	if err == nil {
		return diag.NewErrorDiagnostic("", "")
	}

	errorMsg := err.Error()

	switch KindOf(err) {
	case KindPreconditionViolated:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Precondition Violated - %s", operation),
			fmt.Sprintf("The declared state cannot be reached from the resource's current state.\n\n"+
				"Error: %s\n\n"+
				"Recommended actions:\n"+
				"1. Power the droplet off before resizing (state = \"inactive\")\n"+
				"2. Load balancer sizes are immutable; recreate the load balancer to change size", errorMsg),
		)

	case KindProviderRejected:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("DigitalOcean API Error - %s", operation),
			fmt.Sprintf("The DigitalOcean API rejected the request.\n\n"+
				"Error: %s\n\n"+
				"The message above is reported by DigitalOcean verbatim. "+
				"Check the declared attribute values against the API documentation.", errorMsg),
		)

	case KindTimeout:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Wait Timeout - %s", operation),
			fmt.Sprintf("A power transition did not complete within wait_timeout.\n\n"+
				"Error: %s\n\n"+
				"Recommended actions:\n"+
				"1. Increase wait_timeout\n"+
				"2. Re-apply; reconciliation is idempotent and will pick up from the current state", errorMsg),
		)

	case KindInternalConsistency:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Unexpected API Response - %s", operation),
			fmt.Sprintf("A successful DigitalOcean response was missing an expected field.\n\n"+
				"Error: %s\n\n"+
				"This is a defect; please report it with the full error message above.", errorMsg),
		)

	case KindNotFound:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("Resource Not Found - %s", operation),
			fmt.Sprintf("The resource was not found.\n\n"+
				"Error: %s\n\n"+
				"This may occur if the resource was deleted outside Terraform. "+
				"Run 'terraform refresh' to sync state.", errorMsg),
		)

	default:
		return diag.NewErrorDiagnostic(
			fmt.Sprintf("DigitalOcean Provider Error - %s", operation),
			fmt.Sprintf("An error occurred communicating with the DigitalOcean API.\n\n"+
				"Error: %s\n\n"+
				"If this error persists, please report it with the full error message above.", errorMsg),
		)
	}
}
