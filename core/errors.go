package core

import (
	"errors"
	"fmt"
)

// ConfigError represents a configuration-related error with actionable instructions.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Error codes for configuration errors
const (
	ErrCodeInvalidServerURL = "INVALID_SERVER_URL"
	ErrCodeMissingConfig    = "MISSING_CONFIG"
	ErrCodeInvalidConfig    = "INVALID_CONFIG"
)

// ErrInvalidServerURL returns an error for an invalid server URL format.
func ErrInvalidServerURL(url string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidServerURL,
		Message: fmt.Sprintf("Invalid MIX_SERVER URL '%s': %s", url, reason),
		Action:  "Set MIX_SERVER to a valid URL (e.g., https://mixanalyzer.example.com)",
	}
}

// ErrMissingConfig returns an error for missing required configuration.
func ErrMissingConfig(varName string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeMissingConfig,
		Message: fmt.Sprintf("Missing required configuration: %s", varName),
		Action:  fmt.Sprintf("Set %s in your .env file or mixanalyzer.yaml", varName),
	}
}

// ErrInvalidConfig returns an error for a malformed configuration value.
func ErrInvalidConfig(varName, value, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInvalidConfig,
		Message: fmt.Sprintf("Invalid value for %s (%q): %s", varName, value, reason),
	}
}

// IsConfigError checks if an error is a ConfigError and returns it if so.
func IsConfigError(err error) (*ConfigError, bool) {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr, true
	}
	return nil, false
}

// ValidationError is a client-side pre-flight failure (unsupported format,
// oversize file). Detected before any network call; always terminal.
type ValidationError struct {
	Path   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid upload %s: %s", e.Path, e.Reason)
}

// TransportError wraps a network-level failure (connection refused, non-2xx
// status with no application payload). Whether it is terminal depends on the
// phase: terminal during upload, retried during polling.
type TransportError struct {
	Op         string // "upload", "poll", "download", ...
	StatusCode int    // 0 when the request never completed
	Err        error
}

func (e *TransportError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Err != nil:
		return fmt.Sprintf("%s failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s failed with status %d", e.Op, e.StatusCode)
	default:
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is an application-level failure: the server answered, and the
// answer says the operation failed (status "error" or success=false).
// Always terminal for the current operation.
type APIError struct {
	Op      string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s failed", e.Op)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

// TimeoutError marks a client-perceived timeout on a long operation. Per the
// upload timeout policy this is NOT treated as a server-side failure: the
// analysis is assumed to continue in the background.
type TimeoutError struct {
	Op      string
	TrackID string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out client-side; the analysis likely continues on the server", e.Op)
}

// IsRetryable reports whether an error should be swallowed and retried on
// the next poll tick. Only transport errors during polling qualify;
// application errors are always terminal.
func IsRetryable(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
