package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override settings,
// e.g. VOLLEY_TIMEOUT=5s.
const EnvPrefix = "VOLLEY"

// Settings configures a run. Values come, in increasing precedence, from
// defaults, the settings file, VOLLEY_* environment variables and flags.
type Settings struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	Format       string        `mapstructure:"format"`
	NoColor      bool          `mapstructure:"no_color"`
	Verbose      bool          `mapstructure:"verbose"`
	LogLevel     string        `mapstructure:"log_level"`
	FailOnStatus bool          `mapstructure:"fail_on_status"`
	Insecure     bool          `mapstructure:"insecure"`
	EnvFile      string        `mapstructure:"env_file"`
	// Headers are baseline "Key: Value" lines sent with every request.
	// They are a list so viper's key folding leaves header names alone.
	Headers []string `mapstructure:"headers"`
}

// NewViper returns a viper instance with defaults and environment binding.
func NewViper(version string) *viper.Viper {
	v := viper.New()

	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("format", "text")
	v.SetDefault("no_color", false)
	v.SetDefault("verbose", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("fail_on_status", false)
	v.SetDefault("insecure", false)
	v.SetDefault("env_file", "")
	v.SetDefault("headers", []string{
		"Content-Type: application/json",
		"User-Agent: volley/" + version,
	})

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return v
}

// LoadSettings reads the optional settings file at path into v and decodes
// the merged result.
func LoadSettings(v *viper.Viper, path string) (*Settings, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading settings file: %w", err)
		}
	}

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, fmt.Errorf("error decoding settings: %w", err)
	}

	return &settings, nil
}

// BaselineHeaders parses Headers into a map, later lines winning.
func (s *Settings) BaselineHeaders() (map[string]string, error) {
	return ParseHeaderLines(s.Headers)
}

// ParseHeaderLines parses "Key: Value" lines.
func ParseHeaderLines(lines []string) (map[string]string, error) {
	headers := make(map[string]string, len(lines))
	var errs []error
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			errs = append(errs, fmt.Errorf("invalid header %q, expected \"Key: Value\"", line))
			continue
		}
		headers[key] = strings.TrimSpace(value)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return headers, nil
}
