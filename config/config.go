// Package config loads the bot configuration from the environment
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment is the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "dev"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "prod"
	EnvTest        Environment = "test"
)

func (e Environment) String() string {
	return string(e)
}

// ParseEnvironment accepts the short and long names of each environment
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dev", "development":
		return EnvDevelopment, nil
	case "staging":
		return EnvStaging, nil
	case "prod", "production":
		return EnvProduction, nil
	case "test":
		return EnvTest, nil
	default:
		return EnvDevelopment, fmt.Errorf("ENV must be one of: [dev staging prod test], got: %s", s)
	}
}

// Config holds all application configuration
type Config struct {
	Port              string
	Address           string
	Env               Environment
	LogLevel          string
	LogDir            string
	LogRetentionWeeks int   // Number of weeks to keep log files
	MaxLogFileSize    int64 // Maximum log file size in bytes
	MaxRequestBody    int64 // Maximum request body size in bytes
	MaxHeaderSize     int64 // Maximum header size in bytes

	APIEndpoint  string
	APIUserAgent string
	APIOrigin    string
	APITimeout   time.Duration
	QueryFile    string // optional override of the embedded query document

	AliasFile string

	TranslateEnabled  bool
	TranslateEndpoint string
	TranslateTarget   string
	TranslateTimeout  time.Duration

	AdminUserIDs   []string
	ViewTimeout    time.Duration
	ConfirmTimeout time.Duration

	SuggestionLimit  int
	SuggestionCutoff float64

	Locale string
}

// LoadDotEnv loads a .env file into the environment. A missing file is not an error.
// Variables already set in the environment win over the file.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load loads and validates configuration from environment variables
func Load() (*Config, error) {
	env, err := ParseEnvironment(getEnvWithDefault("ENV", "dev"))
	if err != nil {
		return nil, fmt.Errorf("configuration validation failed: invalid ENV: %w", err)
	}

	cfg := &Config{
		Port:              getEnvWithDefault("PORT", "8000"),
		Address:           getEnvWithDefault("ADDRESS", "127.0.0.1"),
		Env:               env,
		LogLevel:          getEnvWithDefault("LOG_LEVEL", "info"),
		LogDir:            getEnvWithDefault("LOG_DIR", "logs"),
		LogRetentionWeeks: getIntEnvWithDefault("LOG_RETENTION_WEEKS", 4),         // 4 weeks default
		MaxLogFileSize:    getInt64EnvWithDefault("MAX_LOG_FILE_SIZE", 104857600), // 100MB default
		MaxRequestBody:    getInt64EnvWithDefault("MAX_REQUEST_BODY", 1048576),    // 1MB default
		MaxHeaderSize:     getInt64EnvWithDefault("MAX_HEADER_SIZE", 1048576),     // 1MB default

		APIEndpoint:  getEnvWithDefault("API_ENDPOINT", "https://api.psychonautwiki.org/"),
		APIUserAgent: getEnvWithDefault("API_USER_AGENT", "KetaversoBot/1.0 (https://github.com/Triskis777/ketaverso-bot-info)"),
		APIOrigin:    getEnvWithDefault("API_ORIGIN", "https://api.psychonautwiki.org"),
		APITimeout:   getDurationEnvWithDefault("API_TIMEOUT", 15*time.Second),
		QueryFile:    os.Getenv("QUERY_FILE"),

		AliasFile: getEnvWithDefault("ALIAS_FILE", "alias.json"),

		TranslateEnabled:  getBoolEnvWithDefault("TRANSLATE_ENABLED", true),
		TranslateEndpoint: getEnvWithDefault("TRANSLATE_ENDPOINT", "https://translate.googleapis.com/translate_a/single"),
		TranslateTarget:   getEnvWithDefault("TRANSLATE_TARGET", "en"),
		TranslateTimeout:  getDurationEnvWithDefault("TRANSLATE_TIMEOUT", 10*time.Second),

		AdminUserIDs:   splitList(os.Getenv("ADMIN_USER_IDS")),
		ViewTimeout:    getDurationEnvWithDefault("VIEW_TIMEOUT", 300*time.Second),
		ConfirmTimeout: getDurationEnvWithDefault("CONFIRM_TIMEOUT", 180*time.Second),

		SuggestionLimit:  getIntEnvWithDefault("SUGGESTION_LIMIT", 3),
		SuggestionCutoff: getFloatEnvWithDefault("SUGGESTION_CUTOFF", 0.6),

		Locale: strings.ToLower(getEnvWithDefault("BOT_LOCALE", "en")),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ServerAddr returns the listen address
func (c *Config) ServerAddr() string {
	return net.JoinHostPort(c.Address, c.Port)
}

// IsAdmin reports whether userID may run admin commands. With no admins configured nobody is.
func (c *Config) IsAdmin(userID string) bool {
	if userID == "" {
		return false
	}
	for _, id := range c.AdminUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxRequestBody, "MAX_REQUEST_BODY"); err != nil {
		return fmt.Errorf("invalid MAX_REQUEST_BODY: %w", err)
	}

	if err := validateSizeLimit(cfg.MaxHeaderSize, "MAX_HEADER_SIZE"); err != nil {
		return fmt.Errorf("invalid MAX_HEADER_SIZE: %w", err)
	}

	if err := validateLogRetentionWeeks(cfg.LogRetentionWeeks); err != nil {
		return fmt.Errorf("invalid LOG_RETENTION_WEEKS: %w", err)
	}

	if err := validateMaxLogFileSize(cfg.MaxLogFileSize); err != nil {
		return fmt.Errorf("invalid MAX_LOG_FILE_SIZE: %w", err)
	}

	if err := validateURL(cfg.APIEndpoint); err != nil {
		return fmt.Errorf("invalid API_ENDPOINT: %w", err)
	}

	if cfg.TranslateEnabled {
		if err := validateURL(cfg.TranslateEndpoint); err != nil {
			return fmt.Errorf("invalid TRANSLATE_ENDPOINT: %w", err)
		}
		if strings.TrimSpace(cfg.TranslateTarget) == "" {
			return fmt.Errorf("invalid TRANSLATE_TARGET: cannot be empty")
		}
	}

	for name, d := range map[string]time.Duration{
		"API_TIMEOUT":       cfg.APITimeout,
		"TRANSLATE_TIMEOUT": cfg.TranslateTimeout,
		"VIEW_TIMEOUT":      cfg.ViewTimeout,
		"CONFIRM_TIMEOUT":   cfg.ConfirmTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("invalid %s: must be positive, got: %s", name, d)
		}
	}

	if strings.TrimSpace(cfg.AliasFile) == "" {
		return fmt.Errorf("invalid ALIAS_FILE: cannot be empty")
	}

	if cfg.QueryFile != "" {
		if _, err := os.Stat(cfg.QueryFile); err != nil {
			return fmt.Errorf("invalid QUERY_FILE: %w", err)
		}
	}

	if cfg.SuggestionLimit < 1 || cfg.SuggestionLimit > 25 {
		return fmt.Errorf("invalid SUGGESTION_LIMIT: must be between 1 and 25, got: %d", cfg.SuggestionLimit)
	}

	if cfg.SuggestionCutoff < 0 || cfg.SuggestionCutoff > 1 {
		return fmt.Errorf("invalid SUGGESTION_CUTOFF: must be between 0 and 1, got: %v", cfg.SuggestionCutoff)
	}

	if cfg.Locale != "en" && cfg.Locale != "es" {
		return fmt.Errorf("invalid BOT_LOCALE: must be one of [en es], got: %s", cfg.Locale)
	}

	return nil
}

// validatePort validates the PORT environment variable
func validatePort(port string) error {
	if port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	portNum, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid number: %w", err)
	}

	if portNum < 1 || portNum > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if portNum < 1024 {
		return fmt.Errorf("PORT %d is privileged (less than 1024), use ports 1024-65535", portNum)
	}

	return nil
}

// validateAddress validates the ADDRESS environment variable
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "127.0.0.1" || address == "::1" || address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	// the bot sits behind the chat gateway, it should never listen on a public interface
	if !ip.IsLoopback() && !ip.IsPrivate() && !ip.IsUnspecified() {
		return fmt.Errorf("ADDRESS %s is a public IP, consider using private network ranges for security", address)
	}

	return nil
}

// validateLogLevel validates the LOG_LEVEL environment variable
func validateLogLevel(logLevel string) error {
	if logLevel == "" {
		return fmt.Errorf("LOG_LEVEL cannot be empty")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	logLevel = strings.ToLower(logLevel)

	for _, level := range validLevels {
		if logLevel == level {
			return nil
		}
	}

	return fmt.Errorf("LOG_LEVEL must be one of: %v, got: %s", validLevels, logLevel)
}

// validateSizeLimit validates size limit configuration values
func validateSizeLimit(size int64, configName string) error {
	if size <= 0 {
		return fmt.Errorf("%s must be positive, got: %d", configName, size)
	}

	if size > 100*1024*1024 { // 100MB
		return fmt.Errorf("%s is too large (max 100MB), got: %d bytes", configName, size)
	}

	return nil
}

// validateLogRetentionWeeks validates the LOG_RETENTION_WEEKS environment variable
func validateLogRetentionWeeks(weeks int) error {
	if weeks <= 0 {
		return fmt.Errorf("LOG_RETENTION_WEEKS must be positive, got: %d", weeks)
	}

	if weeks > 52 { // 1 year maximum
		return fmt.Errorf("LOG_RETENTION_WEEKS is too large (max 52 weeks), got: %d", weeks)
	}

	return nil
}

// validateMaxLogFileSize validates the MAX_LOG_FILE_SIZE environment variable
func validateMaxLogFileSize(size int64) error {
	if size <= 0 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE must be positive, got: %d", size)
	}

	// Minimum 1MB, maximum 1GB
	if size < 1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too small (min 1MB), got: %d bytes", size)
	}

	if size > 1024*1024*1024 {
		return fmt.Errorf("MAX_LOG_FILE_SIZE is too large (max 1GB), got: %d bytes", size)
	}

	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got: %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host cannot be empty")
	}
	return nil
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnvWithDefault gets an environment variable as int with a default value
func getIntEnvWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getInt64EnvWithDefault gets an environment variable as int64 with a default value
func getInt64EnvWithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getFloatEnvWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBoolEnvWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// getDurationEnvWithDefault accepts Go durations ("90s", "5m") or a bare number of seconds
func getDurationEnvWithDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// GetEnvVars returns a list of all expected environment variables
func GetEnvVars() []string {
	return []string{
		"PORT", "ADDRESS", "ENV", "LOG_LEVEL", "LOG_DIR", "LOG_RETENTION_WEEKS", "MAX_LOG_FILE_SIZE",
		"MAX_REQUEST_BODY", "MAX_HEADER_SIZE",
		"API_ENDPOINT", "API_USER_AGENT", "API_ORIGIN", "API_TIMEOUT", "QUERY_FILE",
		"ALIAS_FILE",
		"TRANSLATE_ENABLED", "TRANSLATE_ENDPOINT", "TRANSLATE_TARGET", "TRANSLATE_TIMEOUT",
		"ADMIN_USER_IDS", "VIEW_TIMEOUT", "CONFIRM_TIMEOUT",
		"SUGGESTION_LIMIT", "SUGGESTION_CUTOFF", "BOT_LOCALE",
	}
}
