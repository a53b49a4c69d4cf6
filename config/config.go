// Package config has the configuration file for the exporter
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
)

// Config holds all exporter configuration
type Config struct {
	Port        string
	Address     string
	Env         string
	LogLevel    string
	LogEncoding string // character encoding of the incoming log stream
}

// Load loads and validates configuration from environment variables.
// 9114 is the conventional port for nginx exporters.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnvWithDefault("PORT", "9114"),
		Address:     getEnvWithDefault("ADDRESS", "0.0.0.0"),
		Env:         getEnvWithDefault("ENV", "dev"),
		LogLevel:    getEnvWithDefault("LOG_LEVEL", "info"),
		LogEncoding: getEnvWithDefault("LOG_ENCODING", "utf-8"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validateConfig validates all configuration values
func validateConfig(cfg *Config) error {
	if err := validatePort(cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	if err := validateAddress(cfg.Address); err != nil {
		return fmt.Errorf("invalid ADDRESS: %w", err)
	}

	if err := validateEnv(cfg.Env); err != nil {
		return fmt.Errorf("invalid ENV: %w", err)
	}

	if err := validateLogLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validateLogEncoding(cfg.LogEncoding); err != nil {
		return fmt.Errorf("invalid LOG_ENCODING: %w", err)
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

// validateAddress validates the ADDRESS environment variable. The exporter
// is scraped over the network, so binding all interfaces is allowed.
func validateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("ADDRESS cannot be empty")
	}

	if address == "localhost" {
		return nil
	}

	ip := net.ParseIP(address)
	if ip == nil {
		return fmt.Errorf("ADDRESS must be a valid IP address or 'localhost', got: %s", address)
	}

	if ip.IsUnspecified() || ip.IsLoopback() || ip.IsPrivate() {
		return nil
	}

	return fmt.Errorf("ADDRESS %s is a public IP, bind a private or unspecified address and let the scraper reach it through the host network", address)
}

// validateEnv validates the ENV environment variable
func validateEnv(env string) error {
	if env == "" {
		return fmt.Errorf("ENV cannot be empty")
	}

	validEnvs := []string{"dev", "staging", "prod", "test"}
	env = strings.ToLower(env)

	for _, validEnv := range validEnvs {
		if env == validEnv {
			return nil
		}
	}

	return fmt.Errorf("ENV must be one of: %v, got: %s", validEnvs, env)
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

// validateLogEncoding validates the LOG_ENCODING environment variable
func validateLogEncoding(encoding string) error {
	if encoding == "" {
		return fmt.Errorf("LOG_ENCODING cannot be empty")
	}

	validEncodings := []string{"utf-8", "latin-1", "iso-8859-1"}
	encoding = strings.ToLower(encoding)

	for _, valid := range validEncodings {
		if encoding == valid {
			return nil
		}
	}

	return fmt.Errorf("LOG_ENCODING must be one of: %v, got: %s", validEncodings, encoding)
}

// getEnvWithDefault gets an environment variable with a default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
