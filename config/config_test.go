package config

import (
	"os"
	"testing"
)

func cleanupEnv() {
	for _, key := range []string{"PORT", "ADDRESS", "ENV", "LOG_LEVEL", "LOG_ENCODING"} {
		_ = os.Unsetenv(key)
	}
}

func TestLoadValidConfig(t *testing.T) {
	_ = os.Setenv("PORT", "9200")
	_ = os.Setenv("ADDRESS", "127.0.0.1")
	_ = os.Setenv("ENV", "prod")
	_ = os.Setenv("LOG_LEVEL", "warn")
	_ = os.Setenv("LOG_ENCODING", "latin-1")
	defer cleanupEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "9200" {
		t.Errorf("Expected port 9200, got %s", cfg.Port)
	}
	if cfg.Address != "127.0.0.1" {
		t.Errorf("Expected address 127.0.0.1, got %s", cfg.Address)
	}
	if cfg.Env != "prod" {
		t.Errorf("Expected env prod, got %s", cfg.Env)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("Expected log level warn, got %s", cfg.LogLevel)
	}
	if cfg.LogEncoding != "latin-1" {
		t.Errorf("Expected log encoding latin-1, got %s", cfg.LogEncoding)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	cleanupEnv()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Port != "9114" {
		t.Errorf("Expected default port 9114, got %s", cfg.Port)
	}
	if cfg.Address != "0.0.0.0" {
		t.Errorf("Expected default address 0.0.0.0, got %s", cfg.Address)
	}
	if cfg.Env != "dev" {
		t.Errorf("Expected default env dev, got %s", cfg.Env)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.LogEncoding != "utf-8" {
		t.Errorf("Expected default log encoding utf-8, got %s", cfg.LogEncoding)
	}
}

func TestInvalidPort(t *testing.T) {
	testCases := []string{"abc", "0", "65536", "80"}

	for _, port := range testCases {
		cleanupEnv()
		_ = os.Setenv("PORT", port)

		if _, err := Load(); err == nil {
			t.Errorf("Expected error for port %s, got nil", port)
		}
	}
	cleanupEnv()
}

func TestInvalidAddress(t *testing.T) {
	testCases := []string{"invalid", "8.8.8.8"}

	for _, address := range testCases {
		cleanupEnv()
		_ = os.Setenv("ADDRESS", address)

		if _, err := Load(); err == nil {
			t.Errorf("Expected error for address %s, got nil", address)
		}
	}
	cleanupEnv()
}

func TestValidAddresses(t *testing.T) {
	testCases := []string{"0.0.0.0", "127.0.0.1", "localhost", "10.1.2.3", "192.168.0.5", "::1"}

	for _, address := range testCases {
		cleanupEnv()
		_ = os.Setenv("ADDRESS", address)

		if _, err := Load(); err != nil {
			t.Errorf("Expected address %s to be accepted, got %v", address, err)
		}
	}
	cleanupEnv()
}

func TestInvalidEnv(t *testing.T) {
	cleanupEnv()
	_ = os.Setenv("ENV", "production-ish")
	defer cleanupEnv()

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid env, got nil")
	}
}

func TestInvalidLogLevel(t *testing.T) {
	cleanupEnv()
	_ = os.Setenv("LOG_LEVEL", "verbose")
	defer cleanupEnv()

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid log level, got nil")
	}
}

func TestInvalidLogEncoding(t *testing.T) {
	cleanupEnv()
	_ = os.Setenv("LOG_ENCODING", "ebcdic")
	defer cleanupEnv()

	if _, err := Load(); err == nil {
		t.Error("Expected error for invalid log encoding, got nil")
	}
}
