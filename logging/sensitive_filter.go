package logging

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RedactedPlaceholder is the string used to replace sensitive data.
const RedactedPlaceholder = "[REDACTED]"

// sensitivePatterns are compiled once at package initialization. They cover
// the key shapes this client may see: its own API key and anything that
// looks like a credential assignment echoed back in a server message.
var sensitivePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(bearer\s+[a-zA-Z0-9._-]{20,})`),
	regexp.MustCompile(`(?i)([a-f0-9]{32,})`),
	regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*[^\s,;]{8,})`),
	regexp.MustCompile(`(?i)(password\s*[:=]\s*[^\s,;]{8,})`),
	regexp.MustCompile(`(?i)(secret\s*[:=]\s*[^\s,;]{8,})`),
	regexp.MustCompile(`(?i)(token\s*[:=]\s*[^\s,;]{8,})`),
}

// sensitiveKeys are log field keys whose string values are always redacted
// outright, regardless of pattern matching.
var sensitiveKeys = []string{"api_key", "apikey", "authorization", "password", "secret", "token"}

// RedactSensitiveData scans a string and redacts any detected credentials.
// This is a pure function.
func RedactSensitiveData(value string) string {
	if value == "" {
		return value
	}
	for _, pattern := range sensitivePatterns {
		value = pattern.ReplaceAllString(value, RedactedPlaceholder)
	}
	return value
}

// redactFields returns a copy of fields with sensitive string values
// replaced. Non-string fields pass through untouched.
func redactFields(fields []zap.Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		if f.Type == zapcore.StringType {
			if isSensitiveKey(f.Key) {
				out[i] = zap.String(f.Key, RedactedPlaceholder)
				continue
			}
			out[i] = zap.String(f.Key, RedactSensitiveData(f.String))
			continue
		}
		out[i] = f
	}
	return out
}

func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, k := range sensitiveKeys {
		if lower == k {
			return true
		}
	}
	return false
}
