package core

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"transport error", &TransportError{Op: "poll", Err: errors.New("connection refused")}, true},
		{"transport with status", &TransportError{Op: "poll", StatusCode: 502}, true},
		{"wrapped transport", fmt.Errorf("tick 3: %w", &TransportError{Op: "poll"}), true},
		{"api error", &APIError{Op: "poll", Message: "analysis crashed"}, false},
		{"validation error", &ValidationError{Path: "x.txt", Reason: "bad"}, false},
		{"timeout error", &TimeoutError{Op: "upload"}, false},
		{"plain error", errors.New("whatever"), false},
		{"nil", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRetryable(tc.err); got != tc.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestConfigErrorIncludesAction(t *testing.T) {
	err := ErrMissingConfig("MIX_SERVER")
	msg := err.Error()
	if !strings.Contains(msg, "MIX_SERVER") || !strings.Contains(msg, ".env") {
		t.Errorf("message %q should name the variable and how to fix it", msg)
	}

	bare := &ConfigError{Code: ErrCodeInvalidConfig, Message: "broken"}
	if bare.Error() != "broken" {
		t.Errorf("Error() = %q, want message only when no action", bare.Error())
	}
}

func TestTransportErrorMessages(t *testing.T) {
	withStatus := &TransportError{Op: "upload", StatusCode: 500}
	if got := withStatus.Error(); got != "upload failed with status 500" {
		t.Errorf("Error() = %q", got)
	}

	inner := errors.New("dial tcp: refused")
	withErr := &TransportError{Op: "poll", Err: inner}
	if !strings.Contains(withErr.Error(), "refused") {
		t.Errorf("Error() = %q, want wrapped cause", withErr.Error())
	}
	if !errors.Is(withErr, inner) {
		t.Error("TransportError should unwrap to its cause")
	}
}

func TestAPIErrorMessages(t *testing.T) {
	if got := (&APIError{Op: "delete"}).Error(); got != "delete failed" {
		t.Errorf("Error() = %q", got)
	}
	if got := (&APIError{Op: "analyze", Message: "no such track"}).Error(); got != "analyze failed: no such track" {
		t.Errorf("Error() = %q", got)
	}
}

func TestTimeoutErrorIsNotFailure(t *testing.T) {
	err := &TimeoutError{Op: "upload", TrackID: "mix.wav"}
	if !strings.Contains(err.Error(), "continues on the server") {
		t.Errorf("Error() = %q, should explain the analysis keeps running", err.Error())
	}
}
