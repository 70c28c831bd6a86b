package core

import (
	"crypto/tls"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for the client.
type Config struct {
	// Server Configuration
	ServerURL            string
	APIKey               string
	AllowSelfSignedCerts bool

	// Polling Configuration
	PollInterval    time.Duration
	MaxPollAttempts int

	// Upload Configuration
	MaxFileSize int64
	LongTimeout time.Duration

	// Visualization Configuration
	VisualsDir      string
	VisualsWait     time.Duration
	FallbackEnabled bool

	// Local state
	HistoryDBPath string
	LogFilePath   string
	DevMode       bool
}

// fileConfig mirrors the optional mixanalyzer.yaml file. Environment
// variables take precedence over every field here.
type fileConfig struct {
	ServerURL     string `yaml:"server_url"`
	APIKey        string `yaml:"api_key"`
	VisualsDir    string `yaml:"visuals_dir"`
	HistoryDBPath string `yaml:"history_db"`
	LogFilePath   string `yaml:"log_file"`
}

// Helper function to get environment variable with default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Helper function to parse integer environment variable with default value
func parseIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// parseSizeEnv parses a human-readable size ("100MB", "512KB") environment
// variable with a default in bytes.
func parseSizeEnv(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if size, err := ParseBytes(value); err == nil {
			return size
		}
	}
	return defaultValue
}

// loadFileConfig reads mixanalyzer.yaml from the given path. A missing file
// is not an error; a malformed one is.
func loadFileConfig(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &fileConfig{}, nil
		}
		return nil, err
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, ErrInvalidConfig("config file", path, err.Error())
	}
	return &fc, nil
}

// LoadConfig loads configuration from the optional mixanalyzer.yaml file and
// environment variables, env taking precedence. Only the server URL is
// required; everything else has sensible defaults.
func LoadConfig() (*Config, error) {
	fc, err := loadFileConfig(getEnvOrDefault("MIX_CONFIG_FILE", "mixanalyzer.yaml"))
	if err != nil {
		return nil, err
	}

	serverURL := getEnvOrDefault("MIX_SERVER", fc.ServerURL)
	if serverURL == "" {
		return nil, ErrMissingConfig("MIX_SERVER")
	}
	if err := validateServerURL(serverURL); err != nil {
		return nil, err
	}

	// Polling defaults match the server's expectations: 5 second interval,
	// 30 attempts, then give up client-side and let the server finish alone.
	pollInterval := time.Duration(parseIntEnv("MIX_POLL_INTERVAL", 5)) * time.Second
	maxPollAttempts := parseIntEnv("MIX_MAX_POLL_ATTEMPTS", 30)
	if maxPollAttempts < 1 {
		return nil, ErrInvalidConfig("MIX_MAX_POLL_ATTEMPTS", strconv.Itoa(maxPollAttempts), "must be at least 1")
	}

	// 100MB upload ceiling; the server rejects larger files anyway.
	maxFileSize := parseSizeEnv("MIX_MAX_FILE_SIZE", 100*BytesPerMB)

	// Long operations (upload, analyze) get a 10 minute window. A client
	// timeout past that is reported as "continuing server-side", not failure.
	longTimeout := time.Duration(parseIntEnv("MIX_LONG_TIMEOUT", 600)) * time.Second

	return &Config{
		ServerURL:            strings.TrimRight(serverURL, "/"),
		APIKey:               getEnvOrDefault("MIX_API_KEY", fc.APIKey),
		AllowSelfSignedCerts: getEnvOrDefault("ALLOW_SELF_SIGNED_CERTS", "false") == "true",
		PollInterval:         pollInterval,
		MaxPollAttempts:      maxPollAttempts,
		MaxFileSize:          maxFileSize,
		LongTimeout:          longTimeout,
		VisualsDir:           getEnvOrDefault("MIX_VISUALS_DIR", firstNonEmpty(fc.VisualsDir, "./visualizations")),
		VisualsWait:          time.Duration(parseIntEnv("MIX_VISUALS_WAIT", 30)) * time.Second,
		FallbackEnabled:      getEnvOrDefault("MIX_VISUALS_FALLBACK", "true") == "true",
		HistoryDBPath:        getEnvOrDefault("MIX_HISTORY_DB", firstNonEmpty(fc.HistoryDBPath, "./mixanalyzer.db")),
		LogFilePath:          getEnvOrDefault("MIX_LOG_FILE", firstNonEmpty(fc.LogFilePath, "mixanalyzer.log")),
		DevMode:              getEnvOrDefault("DEV_MODE", "false") == "true",
	}, nil
}

func validateServerURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidServerURL(raw, err.Error())
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ErrInvalidServerURL(raw, "scheme must be http or https")
	}
	if u.Host == "" {
		return ErrInvalidServerURL(raw, "missing host")
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// GetHTTPClient returns an HTTP client configured with TLS settings based on
// AllowSelfSignedCerts. Used for all short API requests.
func GetHTTPClient(cfg *Config, timeout time.Duration) *http.Client {
	client := &http.Client{
		Timeout: timeout,
	}

	if cfg.AllowSelfSignedCerts {
		client.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	return client
}

// GetDefaultHTTPClient returns an HTTP client with the default 30s timeout.
func GetDefaultHTTPClient(cfg *Config) *http.Client {
	return GetHTTPClient(cfg, 30*time.Second)
}

// GetLongHTTPClient returns the extended-timeout client used for uploads and
// analysis kicks, where the server may legitimately hold the request open
// for minutes.
func GetLongHTTPClient(cfg *Config) *http.Client {
	return GetHTTPClient(cfg, cfg.LongTimeout)
}
