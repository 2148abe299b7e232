package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/subosito/gotenv"
)

// Environment is a read-only snapshot of variables used for placeholder
// substitution. It is taken once, before a batch starts.
type Environment map[string]string

var placeholderPattern = regexp.MustCompile(`\{\{\s*([^{}\s]+)\s*\}\}`)

// Snapshot builds an Environment from KEY=VALUE pairs, as returned by os.Environ.
func Snapshot(environ []string) Environment {
	env := make(Environment, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// LoadEnvFile reads a dotenv file
func LoadEnvFile(path string) (Environment, error) {
	vars, err := gotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("error reading env file: %w", err)
	}
	return Environment(vars), nil
}

// ProcessEnvironment replaces every {{name}} in input with its value from env.
// Unknown placeholders are left as they are. Values are inserted verbatim and
// never expanded again.
func ProcessEnvironment(input string, env map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(input, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if value, ok := env[name]; ok {
			return value
		}
		return match
	})
}

// ProcessEnvironmentInMap processes environment variables in a map
func ProcessEnvironmentInMap(input map[string]string, env map[string]string) map[string]string {
	result := make(map[string]string, len(input))

	for key, value := range input {
		result[key] = ProcessEnvironment(value, env)
	}

	return result
}

// Unresolved lists the distinct placeholder names left in input, in order of appearance.
func Unresolved(input string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range placeholderPattern.FindAllStringSubmatch(input, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// MergeEnvironments merges two environments, with the second taking precedence
func MergeEnvironments(base, override map[string]string) map[string]string {
	result := make(map[string]string, len(base)+len(override))

	for key, value := range base {
		result[key] = value
	}

	for key, value := range override {
		result[key] = value
	}

	return result
}
