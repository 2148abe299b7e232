package config

import (
	"strings"
	"testing"
	"time"
)

// TestValidationError_Error tests the ValidationError.Error() method
func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      ValidationError
		expected string
	}{
		{
			name: "standard error",
			err: ValidationError{
				Path:    "format",
				Message: "invalid format",
			},
			expected: "format: invalid format",
		},
		{
			name: "empty path",
			err: ValidationError{
				Path:    "",
				Message: "some error",
			},
			expected: ": some error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.err.Error()
			if result != tt.expected {
				t.Errorf("Expected '%s' but got '%s'", tt.expected, result)
			}
		})
	}
}

func TestValidateSettings(t *testing.T) {
	valid := func() *Settings {
		return &Settings{
			Timeout:  time.Second,
			Format:   "text",
			LogLevel: "info",
			Headers:  []string{"Accept: */*"},
		}
	}

	tests := []struct {
		name          string
		mutate        func(s *Settings)
		expectedPaths []string
	}{
		{
			name:   "valid settings",
			mutate: func(s *Settings) {},
		},
		{
			name:          "zero timeout",
			mutate:        func(s *Settings) { s.Timeout = 0 },
			expectedPaths: []string{"timeout"},
		},
		{
			name:          "unknown format",
			mutate:        func(s *Settings) { s.Format = "html" },
			expectedPaths: []string{"format"},
		},
		{
			name:          "bad log level",
			mutate:        func(s *Settings) { s.LogLevel = "loud" },
			expectedPaths: []string{"log_level"},
		},
		{
			name:          "bad header line",
			mutate:        func(s *Settings) { s.Headers = append(s.Headers, "oops") },
			expectedPaths: []string{"headers[1]"},
		},
		{
			name: "several problems",
			mutate: func(s *Settings) {
				s.Timeout = -time.Second
				s.Format = ""
			},
			expectedPaths: []string{"timeout", "format"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(s)

			errors := ValidateSettings(s)
			if len(errors) != len(tt.expectedPaths) {
				t.Fatalf("Expected %d errors, got %d: %v", len(tt.expectedPaths), len(errors), errors)
			}
			for i, path := range tt.expectedPaths {
				if errors[i].Path != path {
					t.Errorf("Expected error path %s, got %s", path, errors[i].Path)
				}
			}
		})
	}
}

func TestStringInSlice(t *testing.T) {
	if !stringInSlice("json", Formats) {
		t.Errorf("Expected json to be a known format")
	}
	if stringInSlice("JSON", Formats) {
		t.Errorf("Expected format matching to be case sensitive")
	}
	if !strings.Contains(strings.Join(Formats, ","), "junit") {
		t.Errorf("Expected junit in formats")
	}
}
