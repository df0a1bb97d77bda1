package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewRootCommand creates the ghapi command tree with its global flags bound
// to viper.
func NewRootCommand(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ghapi",
		Short: "GitHub REST API CLI",
		Long: `A command-line interface for the GitHub REST API v3.

Typed commands cover repositories, issues, releases and collaborators;
'ghapi get' reaches any other endpoint and follows pagination links.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return startSession(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return finishSession(cmd)
		},
	}

	setConfigDefaults()

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "config file (default is $HOME/.ghapi/config.yml)")
	flags.StringP("api", "a", "", "API endpoint URL (default https://api.github.com)")
	flags.StringP("token", "t", "", "authentication token")
	flags.StringP("output", "o", "", "output format (table, json, yaml)")
	flags.String("log-level", "", "log level (trace, debug, info, warn, error)")
	flags.String("log-file", "", "also write JSON logs to this rotated file")
	flags.Bool("no-color", false, "disable colored output")
	flags.String("cache", "", "conditional request cache (none, memory, nats)")
	flags.String("nats-url", "", "NATS server for the nats cache")
	flags.Float64("rate-limit", 0, "client-side request rate limit per second")
	flags.Int("retries", 0, "retries for 5xx and connection errors")
	flags.Duration("timeout", 0, "timeout for each HTTP round trip")
	flags.Bool("trace", false, "print OpenTelemetry spans to stderr")
	flags.Bool("metrics", false, "print request metrics to stderr on exit")

	for key, flag := range map[string]string{
		"config":     "config",
		keyAPI:       "api",
		keyToken:     "token",
		keyOutput:    "output",
		keyLogLevel:  "log-level",
		keyLogFile:   "log-file",
		keyNoColor:   "no-color",
		keyCache:     "cache",
		keyNATSURL:   "nats-url",
		keyRateLimit: "rate-limit",
		keyRetries:   "retries",
		keyTimeout:   "timeout",
		keyTrace:     "trace",
		keyMetrics:   "metrics",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(NewVersionCommand(version, commit, date))
	rootCmd.AddCommand(NewLoginCommand())
	rootCmd.AddCommand(NewLogoutCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewGetCommand())
	rootCmd.AddCommand(NewReposCommand())
	rootCmd.AddCommand(NewIssuesCommand())
	rootCmd.AddCommand(NewReleasesCommand())
	rootCmd.AddCommand(NewCollaboratorsCommand())
	rootCmd.AddCommand(NewUserCommand())
	rootCmd.AddCommand(NewRateLimitCommand())

	return rootCmd
}

// Execute runs rootCmd and releases the session afterwards.
func Execute(ctx context.Context, rootCmd *cobra.Command) error {
	err := rootCmd.ExecuteContext(ctx)

	return errors.Join(err, closeSession(ctx))
}
