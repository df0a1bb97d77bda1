package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fivetwenty-io/ghapi-client/internal/auth"
	"github.com/fivetwenty-io/ghapi-client/internal/constants"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghapi"
	"github.com/fivetwenty-io/ghapi-client/pkg/ghclient"
)

// Configuration keys shared by flags, the config file and GHAPI_* variables.
const (
	keyAPI       = "api"
	keyToken     = "token"
	keyOutput    = "output"
	keyLogLevel  = "log_level"
	keyLogFile   = "log_file"
	keyNoColor   = "no_color"
	keyCache     = "cache"
	keyNATSURL   = "nats_url"
	keyRateLimit = "rate_limit"
	keyRetries   = "retries"
	keyTimeout   = "timeout"
	keyTrace     = "trace"
	keyMetrics   = "metrics"
)

// settableKeys are the keys accepted by 'config set' and 'config unset'.
var settableKeys = []string{
	keyAPI, keyOutput, keyLogLevel, keyLogFile, keyNoColor,
	keyCache, keyNATSURL, keyRateLimit, keyRetries, keyTimeout,
}

// ErrUnknownConfigKey is returned by 'config set' for keys it does not manage.
var ErrUnknownConfigKey = errors.New("unknown configuration key")

// Config represents the CLI configuration.
type Config struct {
	API       string        `json:"api"                 yaml:"api"`
	Token     string        `json:"token,omitempty"     yaml:"token,omitempty"`
	Output    string        `json:"output"              yaml:"output"`
	LogLevel  string        `json:"log_level"           yaml:"log_level"`
	LogFile   string        `json:"log_file,omitempty"  yaml:"log_file,omitempty"`
	NoColor   bool          `json:"no_color"            yaml:"no_color"`
	Cache     string        `json:"cache"               yaml:"cache"`
	NATSURL   string        `json:"nats_url,omitempty"  yaml:"nats_url,omitempty"`
	RateLimit float64       `json:"rate_limit"          yaml:"rate_limit"`
	Retries   int           `json:"retries"             yaml:"retries"`
	Timeout   time.Duration `json:"timeout"             yaml:"timeout"`
}

func setConfigDefaults() {
	viper.SetDefault(keyAPI, constants.DefaultBaseURL)
	viper.SetDefault(keyOutput, OutputFormatTable)
	viper.SetDefault(keyLogLevel, "warn")
	viper.SetDefault(keyCache, string(ghapi.CacheTypeNone))
	viper.SetDefault(keyTimeout, constants.DefaultHTTPTimeout)
}

func loadConfig() *Config {
	return &Config{
		API:       viper.GetString(keyAPI),
		Token:     viper.GetString(keyToken),
		Output:    viper.GetString(keyOutput),
		LogLevel:  viper.GetString(keyLogLevel),
		LogFile:   viper.GetString(keyLogFile),
		NoColor:   viper.GetBool(keyNoColor),
		Cache:     viper.GetString(keyCache),
		NATSURL:   viper.GetString(keyNATSURL),
		RateLimit: viper.GetFloat64(keyRateLimit),
		Retries:   viper.GetInt(keyRetries),
		Timeout:   viper.GetDuration(keyTimeout),
	}
}

// session holds per-invocation resources set up before a command runs.
type session struct {
	logger   *slog.Logger
	closers  []io.Closer
	registry *prometheus.Registry
	metrics  *ghapi.MetricsCollector
	shutdown func(context.Context) error
}

var current = &session{logger: slog.New(slog.DiscardHandler)}

func startSession(cmd *cobra.Command) error {
	config := loadConfig()

	logger, logCloser, err := NewLogger(LogConfig{
		Level:   config.LogLevel,
		File:    config.LogFile,
		NoColor: config.NoColor,
		Output:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	current = &session{logger: logger, closers: []io.Closer{logCloser}}

	if viper.GetBool(keyTrace) {
		shutdown, err := setupTracing(cmd.ErrOrStderr())
		if err != nil {
			return err
		}

		current.shutdown = shutdown
	}

	if viper.GetBool(keyMetrics) {
		current.registry = prometheus.NewRegistry()

		current.metrics, err = ghapi.NewMetricsCollector(current.registry)
		if err != nil {
			return fmt.Errorf("failed to create metrics collector: %w", err)
		}
	}

	return nil
}

func finishSession(cmd *cobra.Command) error {
	if current.registry == nil {
		return nil
	}

	return renderMetrics(cmd.ErrOrStderr(), current.registry)
}

func closeSession(ctx context.Context) error {
	var errs []error

	if current.shutdown != nil {
		errs = append(errs, current.shutdown(ctx))
	}

	for _, closer := range current.closers {
		errs = append(errs, closer.Close())
	}

	current = &session{logger: slog.New(slog.DiscardHandler)}

	return errors.Join(errs...)
}

// resolveToken prefers a configured token and falls back to the keyring.
func resolveToken(config *Config) string {
	if config.Token != "" {
		return config.Token
	}

	token, err := auth.NewKeyringStore().Load(config.API)
	if err != nil {
		current.logger.Debug("No stored token, continuing unauthenticated", "api", config.API, "reason", err.Error())

		return ""
	}

	return token
}

func createCache(config *Config) (ghapi.Cache, error) {
	cacheConfig := &ghapi.CacheConfig{Type: ghapi.CacheType(config.Cache)}
	if cacheConfig.Type == "" {
		cacheConfig.Type = ghapi.CacheTypeNone
	}

	if cacheConfig.Type == ghapi.CacheTypeNATS {
		cacheConfig.MaxSize = constants.DefaultCacheSize
		cacheConfig.NATS = &ghapi.NATSKVConfig{URL: config.NATSURL, Bucket: constants.DefaultNATSBucket}
	}

	cache, err := ghapi.NewCacheFromConfig(cacheConfig)
	if errors.Is(err, ghapi.ErrCacheDisabled) {
		return nil, nil //nolint:nilnil // no cache configured
	}

	if err != nil {
		return nil, fmt.Errorf("failed to create cache: %w", err)
	}

	if closer, ok := cache.(io.Closer); ok {
		current.closers = append(current.closers, closer)
	}

	return cache, nil
}

// clientConfig builds the engine configuration without credentials.
func clientConfig(ctx context.Context, config *Config) (*ghapi.Config, error) {
	cache, err := createCache(config)
	if err != nil {
		return nil, err
	}

	return &ghapi.Config{
		BaseURL:           config.API,
		HTTPTimeout:       config.Timeout,
		RetryMax:          config.Retries,
		RequestsPerSecond: config.RateLimit,
		Debug:             current.logger.Enabled(ctx, LevelTrace),
		Logger:            NewClientLogger(current.logger),
		UserAgent:         "ghapi-cli",
		Cache:             cache,
		Metrics:           current.metrics,
	}, nil
}

func newClient(ctx context.Context, config *ghapi.Config) (ghapi.Client, error) {
	client, err := ghclient.New(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}

// CreateClient creates a client from the CLI configuration, authenticated
// with the configured or stored token.
func CreateClient(ctx context.Context) (ghapi.Client, error) {
	config := loadConfig()

	engineConfig, err := clientConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	engineConfig.Token = resolveToken(config)

	return newClient(ctx, engineConfig)
}

// NewConfigCommand creates the config command group.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Show and change the settings stored in the ghapi config file",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())
	cmd.AddCommand(newConfigUnsetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			if config.Token != "" {
				config.Token = constants.MaskedSecret
			}

			return render(cmd, config, func(w io.Writer) error {
				table := tablewriter.NewWriter(w)
				table.Header("Property", "Value")

				_ = table.Append("API", config.API)
				_ = table.Append("Token", valueOrNA(config.Token))
				_ = table.Append("Output", config.Output)
				_ = table.Append("Log Level", config.LogLevel)
				_ = table.Append("Log File", valueOrNA(config.LogFile))
				_ = table.Append("No Color", boolText(config.NoColor))
				_ = table.Append("Cache", config.Cache)
				_ = table.Append("NATS URL", valueOrNA(config.NATSURL))
				_ = table.Append("Rate Limit", strconv.FormatFloat(config.RateLimit, 'f', -1, 64))
				_ = table.Append("Retries", strconv.Itoa(config.Retries))
				_ = table.Append("Timeout", config.Timeout.String())

				err := table.Render()
				if err != nil {
					return fmt.Errorf("failed to render table: %w", err)
				}

				return nil
			})
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long:  "Set a configuration value. Keys: " + joinKeys(),
		Args:  cobra.ExactArgs(2), //nolint:mnd // key and value
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfigFile(cmd, args[0], args[1])
		},
	}
}

func newConfigUnsetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unset KEY",
		Short: "Unset a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfigFile(cmd, args[0], "")
		},
	}
}

// updateConfigFile writes key to the config file only, leaving flags and
// environment overrides out of the saved settings.
func updateConfigFile(cmd *cobra.Command, key, value string) error {
	if !isSettable(key) {
		return fmt.Errorf("%w: %s", ErrUnknownConfigKey, key)
	}

	path, err := configFilePath()
	if err != nil {
		return err
	}

	file := viper.New()
	file.SetConfigFile(path)

	err = file.ReadInConfig()
	if err != nil && !os.IsNotExist(err) {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	settings := file.AllSettings()
	if value == "" {
		delete(settings, key)
	} else {
		settings[key] = value
	}

	out := viper.New()
	for k, v := range settings {
		out.Set(k, v)
	}

	err = os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm)
	if err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	err = out.WriteConfigAs(path)
	if err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	err = os.Chmod(path, constants.ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to secure config: %w", err)
	}

	if value == "" {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Unset %s\n", key)
	} else {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s\n", key, value)
	}

	return nil
}

// configFilePath is the --config file, the file in use, or
// ~/.ghapi/config.yml.
func configFilePath() (string, error) {
	if flagged := viper.GetString("config"); flagged != "" {
		return flagged, nil
	}

	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, ".ghapi", "config.yml"), nil
}

func isSettable(key string) bool {
	for _, k := range settableKeys {
		if k == key {
			return true
		}
	}

	return false
}

func joinKeys() string {
	keys := append([]string{}, settableKeys...)
	sort.Strings(keys)

	return strings.Join(keys, ", ")
}

func valueOrNA(value string) string {
	if value == "" {
		return NotAvailable
	}

	return value
}
