package errors

import (
	"errors"
	"fmt"
)

// Scraper error taxonomy
//
// Browser, navigation and page-load failures are transient and retryable.
// Parsing errors are not retried: they indicate the page layout changed,
// not that the request flaked.

var (
	// ErrBrowserInit indicates the page-source provider failed to start
	ErrBrowserInit = errors.New("browser initialization failed")

	// ErrNavigation indicates navigation to the target URL failed
	ErrNavigation = errors.New("navigation failed")

	// ErrPageLoad indicates the page did not load within the timeout
	ErrPageLoad = errors.New("page load timed out")

	// ErrElementNotFound indicates expected markup structure was missing
	ErrElementNotFound = errors.New("element not found")

	// ErrParsing indicates the page markup was structurally unexpected
	ErrParsing = errors.New("parsing failed")

	// ErrRateLimited indicates the target server throttled the request
	ErrRateLimited = errors.New("rate limited")

	// ErrBlocked indicates the request was blocked (Cloudflare, CAPTCHA)
	ErrBlocked = errors.New("request blocked")
)

// Service error taxonomy

var (
	// ErrInvalidConfig indicates configuration or parameters out of range
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidDate indicates an invalid date for a calendar lookup
	ErrInvalidDate = errors.New("invalid date")

	// ErrStore indicates a persistence failure
	ErrStore = errors.New("store failure")

	// ErrUpstreamUnavailable indicates no data could be obtained from the source
	ErrUpstreamUnavailable = errors.New("upstream unavailable")

	// ErrRefreshInProgress indicates a background refresh is already running
	ErrRefreshInProgress = errors.New("refresh already in progress")

	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("resource not found")

	// ErrInternal indicates an internal error
	ErrInternal = errors.New("internal error")
)

// Retryable reports whether a scrape attempt that failed with err is worth
// repeating. Parsing failures and configuration errors are terminal.
func Retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case Is(err, ErrParsing), Is(err, ErrInvalidConfig), Is(err, ErrInvalidDate):
		return false
	default:
		return true
	}
}

// DomainError wraps an error with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions

// Is checks if err is or wraps target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target type
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap wraps an error with context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error {
	return errors.New(message)
}

func Newf(format string, args ...interface{}) error {
	return fmt.Errorf(format, args...)
}
