package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wesleyorama2/volley/internal/config"
	"github.com/wesleyorama2/volley/internal/logging"
	"github.com/wesleyorama2/volley/internal/output"
	"github.com/wesleyorama2/volley/runner"
)

// ErrRequestsFailed is returned by run when at least one request of the
// batch failed. The report has been printed by then.
var ErrRequestsFailed = errors.New("one or more requests failed")

// flagKeys maps run flags to settings keys.
var flagKeys = []struct{ flag, key string }{
	{"timeout", "timeout"},
	{"format", "format"},
	{"no-color", "no_color"},
	{"verbose", "verbose"},
	{"log-level", "log_level"},
	{"fail-on-status", "fail_on_status"},
	{"insecure", "insecure"},
	{"env-file", "env_file"},
}

func newRunCmd() *cobra.Command {
	v := config.NewViper(version)

	cmd := &cobra.Command{
		Use:   "run <collection>",
		Short: "Run every request of a collection concurrently",
		Example: `  volley run api.postman_collection.json
  volley run api.yaml --env-file .env.staging -H "X-Tenant: acme" --format junit`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollection(cmd, v, args[0])
		},
	}

	flags := cmd.Flags()
	flags.StringP("config", "c", "", "Settings file (YAML)")
	flags.String("env-file", "", "dotenv file whose values override the process environment")
	flags.DurationP("timeout", "t", 30*time.Second, "Per-request timeout")
	flags.StringP("format", "f", "text", "Output format: text, json, yaml, junit")
	flags.Bool("no-color", false, "Disable colored output")
	flags.BoolP("verbose", "v", false, "Include URLs and response bodies in the report")
	flags.String("log-level", "info", "Log level for diagnostics on stderr")
	flags.Bool("fail-on-status", false, "Count responses outside 2xx as failures")
	flags.BoolP("insecure", "k", false, "Skip TLS certificate verification")
	flags.StringArrayP("header", "H", nil, `Extra baseline header "Key: Value", repeatable`)

	bindFlags(v, flags)

	return cmd
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	for _, fk := range flagKeys {
		// The flags are declared above, so Lookup never returns nil.
		_ = v.BindPFlag(fk.key, flags.Lookup(fk.flag))
	}
}

func runCollection(cmd *cobra.Command, v *viper.Viper, path string) error {
	configFile, _ := cmd.Flags().GetString("config")
	extraHeaders, _ := cmd.Flags().GetStringArray("header")

	settings, err := config.LoadSettings(v, configFile)
	if err != nil {
		return err
	}
	settings.Headers = append(settings.Headers, extraHeaders...)

	if errs := config.ValidateSettings(settings); len(errs) > 0 {
		return settingsError(errs)
	}

	stderr := cmd.ErrOrStderr()
	log, err := logging.New(settings.LogLevel, stderr, settings.NoColor || !output.ColorEnabled(stderr))
	if err != nil {
		return err
	}

	env := config.Snapshot(os.Environ())
	if settings.EnvFile != "" {
		fileEnv, err := config.LoadEnvFile(settings.EnvFile)
		if err != nil {
			return err
		}
		env = config.MergeEnvironments(env, fileEnv)
	}

	baseline, err := settings.BaselineHeaders()
	if err != nil {
		return err
	}
	baseline = config.ProcessEnvironmentInMap(baseline, env)

	r := runner.NewRunner(runner.Config{
		Env:          env,
		Headers:      baseline,
		Timeout:      settings.Timeout,
		FailOnStatus: settings.FailOnStatus,
		Insecure:     settings.Insecure,
		Logger:       log,
	})

	result, err := r.RunFile(cmd.Context(), path)
	if err != nil {
		return err
	}
	report := result.Report

	out := cmd.OutOrStdout()
	formatter, err := output.GetFormatter(output.OutputFormat(settings.Format), output.Options{
		Title:   result.Name,
		Verbose: settings.Verbose,
		NoColor: settings.NoColor || !output.ColorEnabled(out),
	})
	if err != nil {
		return err
	}

	text, err := formatter.Format(report)
	if err != nil {
		return fmt.Errorf("error formatting report: %w", err)
	}
	fmt.Fprint(out, text)

	if report.Summary.FailureCount > 0 {
		return fmt.Errorf("%w: %d of %d", ErrRequestsFailed, report.Summary.FailureCount, report.Summary.TotalRequests)
	}
	return nil
}

func settingsError(errs []config.ValidationError) error {
	joined := make([]error, len(errs))
	for i, e := range errs {
		joined[i] = e
	}
	return fmt.Errorf("invalid settings: %w", errors.Join(joined...))
}
