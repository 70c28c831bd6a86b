package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MIX_SERVER", "MIX_API_KEY", "MIX_CONFIG_FILE", "MIX_POLL_INTERVAL",
		"MIX_MAX_POLL_ATTEMPTS", "MIX_MAX_FILE_SIZE", "MIX_LONG_TIMEOUT",
		"MIX_VISUALS_DIR", "MIX_VISUALS_WAIT", "MIX_VISUALS_FALLBACK",
		"MIX_HISTORY_DB", "MIX_LOG_FILE", "ALLOW_SELF_SIGNED_CERTS", "DEV_MODE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	// Keep the test independent of any mixanalyzer.yaml in the working dir.
	t.Setenv("MIX_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
}

func TestLoadConfigDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("MIX_SERVER", "https://mix.example.com/")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.ServerURL != "https://mix.example.com" {
		t.Errorf("ServerURL = %q, want trailing slash trimmed", cfg.ServerURL)
	}
	if cfg.PollInterval != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.PollInterval)
	}
	if cfg.MaxPollAttempts != 30 {
		t.Errorf("MaxPollAttempts = %d, want 30", cfg.MaxPollAttempts)
	}
	if cfg.MaxFileSize != 100*BytesPerMB {
		t.Errorf("MaxFileSize = %d, want 100MB", cfg.MaxFileSize)
	}
	if cfg.LongTimeout != 600*time.Second {
		t.Errorf("LongTimeout = %v, want 10m", cfg.LongTimeout)
	}
	if cfg.VisualsWait != 30*time.Second {
		t.Errorf("VisualsWait = %v, want 30s", cfg.VisualsWait)
	}
	if !cfg.FallbackEnabled {
		t.Error("FallbackEnabled should default to true")
	}
	if cfg.AllowSelfSignedCerts || cfg.DevMode {
		t.Error("TLS bypass and dev mode should default to off")
	}
}

func TestLoadConfigRequiresServer(t *testing.T) {
	clearEnv(t)

	_, err := LoadConfig()
	if err == nil {
		t.Fatal("expected error when MIX_SERVER is unset")
	}
	ce, ok := IsConfigError(err)
	if !ok {
		t.Fatalf("error type = %T, want *ConfigError", err)
	}
	if ce.Code != ErrCodeMissingConfig {
		t.Errorf("code = %q, want %q", ce.Code, ErrCodeMissingConfig)
	}
}

func TestLoadConfigRejectsBadServerURL(t *testing.T) {
	cases := []string{
		"ftp://mix.example.com",
		"not a url at all://",
		"https://",
	}
	for _, raw := range cases {
		clearEnv(t)
		t.Setenv("MIX_SERVER", raw)

		_, err := LoadConfig()
		if err == nil {
			t.Errorf("MIX_SERVER=%q: expected error", raw)
			continue
		}
		if ce, ok := IsConfigError(err); !ok || ce.Code != ErrCodeInvalidServerURL {
			t.Errorf("MIX_SERVER=%q: got %v, want INVALID_SERVER_URL", raw, err)
		}
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "mixanalyzer.yaml")
	yaml := "server_url: https://from-file.example.com\napi_key: file-key\nvisuals_dir: /tmp/file-visuals\n"
	if err := os.WriteFile(yamlPath, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MIX_CONFIG_FILE", yamlPath)
	t.Setenv("MIX_SERVER", "https://from-env.example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.ServerURL != "https://from-env.example.com" {
		t.Errorf("ServerURL = %q, env must win over file", cfg.ServerURL)
	}
	if cfg.APIKey != "file-key" {
		t.Errorf("APIKey = %q, want fallback to file value", cfg.APIKey)
	}
	if cfg.VisualsDir != "/tmp/file-visuals" {
		t.Errorf("VisualsDir = %q, want file value", cfg.VisualsDir)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	clearEnv(t)

	yamlPath := filepath.Join(t.TempDir(), "mixanalyzer.yaml")
	if err := os.WriteFile(yamlPath, []byte("server_url: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MIX_CONFIG_FILE", yamlPath)
	t.Setenv("MIX_SERVER", "https://mix.example.com")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for malformed config file")
	}
}

func TestLoadConfigPollingOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MIX_SERVER", "https://mix.example.com")
	t.Setenv("MIX_POLL_INTERVAL", "2")
	t.Setenv("MIX_MAX_POLL_ATTEMPTS", "10")
	t.Setenv("MIX_MAX_FILE_SIZE", "25MB")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.PollInterval != 2*time.Second {
		t.Errorf("PollInterval = %v, want 2s", cfg.PollInterval)
	}
	if cfg.MaxPollAttempts != 10 {
		t.Errorf("MaxPollAttempts = %d, want 10", cfg.MaxPollAttempts)
	}
	if cfg.MaxFileSize != 25*BytesPerMB {
		t.Errorf("MaxFileSize = %d, want 25MB", cfg.MaxFileSize)
	}
}

func TestLoadConfigRejectsZeroAttempts(t *testing.T) {
	clearEnv(t)
	t.Setenv("MIX_SERVER", "https://mix.example.com")
	t.Setenv("MIX_MAX_POLL_ATTEMPTS", "0")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for MIX_MAX_POLL_ATTEMPTS=0")
	}
}

func TestGetHTTPClientTimeouts(t *testing.T) {
	cfg := &Config{LongTimeout: 600 * time.Second}

	if got := GetDefaultHTTPClient(cfg).Timeout; got != 30*time.Second {
		t.Errorf("default client timeout = %v, want 30s", got)
	}
	if got := GetLongHTTPClient(cfg).Timeout; got != 600*time.Second {
		t.Errorf("long client timeout = %v, want 10m", got)
	}
	if GetDefaultHTTPClient(cfg).Transport != nil {
		t.Error("default client should use the default transport when TLS bypass is off")
	}

	cfg.AllowSelfSignedCerts = true
	if GetDefaultHTTPClient(cfg).Transport == nil {
		t.Error("self-signed mode should install a custom transport")
	}
}
