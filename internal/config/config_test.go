package config

import (
	"os"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "PITSTOP_TEST_STR_1", "gemini-1.5-pro", "gemini-1.5-flash", "gemini-1.5-pro"},
		{"uses default when empty", "PITSTOP_TEST_STR_2", "", "gemini-1.5-flash", "gemini-1.5-flash"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "PITSTOP_TEST_INT_1", "45", 30, 45},
		{"uses default for empty", "PITSTOP_TEST_INT_2", "", 30, 30},
		{"uses default for non-numeric", "PITSTOP_TEST_INT_3", "thirty", 30, 30},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("PITSTOP_TEST_REQUIRED_MISSING")
	mustGetEnv("PITSTOP_TEST_REQUIRED_MISSING")
}

func TestMustGetEnv_ReturnsValue(t *testing.T) {
	os.Setenv("PITSTOP_TEST_REQUIRED", "postgres://localhost/pitstop")
	defer os.Unsetenv("PITSTOP_TEST_REQUIRED")

	result := mustGetEnv("PITSTOP_TEST_REQUIRED")
	if result != "postgres://localhost/pitstop" {
		t.Errorf("Expected 'postgres://localhost/pitstop', got %q", result)
	}
}
