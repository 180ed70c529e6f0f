// Package cli implements the memorybox command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/custodia-labs/memorybox-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memorybox-cli/internal/logger"
)

// DefaultEnvFile is loaded from the working directory when present.
const DefaultEnvFile = ".env"

// Settings are the global options shared by every command.
// Each comes from a flag or a MEMORYBOX_ environment variable.
type Settings struct {
	ConfigPath  string
	EnvFile     string
	MetricsFile string
	Verbose     bool
}

// MetricsWriter persists the metrics of a run.
type MetricsWriter interface {
	WriteTextfile(path string) error
}

// Services are the driving ports the commands call.
type Services struct {
	Connectors driving.ConnectorService
	Config     driving.ConfigService
	// Metrics is nil when no metrics file was requested.
	Metrics MetricsWriter
}

// ServicesBuilder wires services for the resolved settings.
type ServicesBuilder func(Settings) (*Services, error)

var (
	version = "dev"

	settings = newSettings()

	buildServices    ServicesBuilder
	connectorService driving.ConnectorService
	configService    driving.ConfigService
	metricsWriter    MetricsWriter
)

var rootCmd = &cobra.Command{
	Use:   "memorybox",
	Short: "Pull Slack, Google Drive and GitHub content into one export",
	Long: `memorybox authenticates against Slack, Google Drive and GitHub using the
connectors enabled in its JSON config file, fetches their content and writes
normalised documents.

Credentials come from the environment (SLACK_BOT_TOKEN, GITHUB_ACCESS_TOKEN)
or, for Google Drive, from an OAuth client secrets file. A .env file in the
working directory is loaded first.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default config.json, env MEMORYBOX_CONFIG)")
	flags.String("env-file", "", "dotenv file to load (default .env when present)")
	flags.String("metrics-file", "", "write Prometheus metrics to this file after the run")
	flags.BoolP("verbose", "v", false, "print progress and debug logs to stderr")

	for _, name := range []string{"config", "env-file", "metrics-file", "verbose"} {
		_ = settings.BindPFlag(name, flags.Lookup(name))
	}
}

func newSettings() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("MEMORYBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// SetVersion sets the version printed by "memorybox version".
func SetVersion(v string) {
	version = v
}

// SetServicesBuilder registers how services are wired once flags are parsed.
func SetServicesBuilder(b ServicesBuilder) {
	buildServices = b
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// currentSettings resolves the global options.
func currentSettings() Settings {
	return Settings{
		ConfigPath:  settings.GetString("config"),
		EnvFile:     settings.GetString("env-file"),
		MetricsFile: settings.GetString("metrics-file"),
		Verbose:     settings.GetBool("verbose"),
	}
}

// setup loads the dotenv file, configures logging and wires services.
func setup(cmd *cobra.Command, _ []string) error {
	if err := loadEnvFile(settings.GetString("env-file")); err != nil {
		return err
	}

	s := currentSettings()
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetVerbose(s.Verbose)

	if buildServices == nil {
		return nil
	}
	svc, err := buildServices(s)
	if err != nil {
		return fmt.Errorf("initialise: %w", err)
	}
	connectorService = svc.Connectors
	configService = svc.Config
	metricsWriter = svc.Metrics
	return nil
}

// loadEnvFile loads path, or DefaultEnvFile when it exists. Variables
// already set in the environment are not overridden.
func loadEnvFile(path string) error {
	explicit := path != ""
	if !explicit {
		path = DefaultEnvFile
	}
	err := godotenv.Load(path)
	if err == nil {
		logger.Debug("loaded environment from %s", path)
		return nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load env file %s: %w", path, err)
}

// flushMetrics writes the metrics file when one was requested.
func flushMetrics() {
	path := settings.GetString("metrics-file")
	if metricsWriter == nil || path == "" {
		return
	}
	if err := metricsWriter.WriteTextfile(path); err != nil {
		logger.Error("%v", err)
	}
}
