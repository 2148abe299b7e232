package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Formats lists the report formats a run can produce.
var Formats = []string{"text", "json", "yaml", "junit"}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Path    string
	Message string
}

// Error returns the error message
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// ValidateSettings validates the settings
func ValidateSettings(s *Settings) []ValidationError {
	var errors []ValidationError

	if s.Timeout <= 0 {
		errors = append(errors, ValidationError{
			Path:    "timeout",
			Message: fmt.Sprintf("must be positive, got %s", s.Timeout),
		})
	}

	if !stringInSlice(s.Format, Formats) {
		errors = append(errors, ValidationError{
			Path:    "format",
			Message: fmt.Sprintf("invalid format %q, must be one of: %s", s.Format, strings.Join(Formats, ", ")),
		})
	}

	if _, err := logrus.ParseLevel(s.LogLevel); err != nil {
		errors = append(errors, ValidationError{
			Path:    "log_level",
			Message: err.Error(),
		})
	}

	for i, line := range s.Headers {
		if _, err := ParseHeaderLines([]string{line}); err != nil {
			errors = append(errors, ValidationError{
				Path:    fmt.Sprintf("headers[%d]", i),
				Message: err.Error(),
			})
		}
	}

	return errors
}

// stringInSlice checks if a string is in a slice
func stringInSlice(str string, slice []string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
