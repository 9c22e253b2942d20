// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"spmadrid/collections-reports/internal/config"
	"spmadrid/collections-reports/internal/container"
	"spmadrid/collections-reports/internal/dateutils"
	"spmadrid/collections-reports/internal/logging"
)

// CommonFlags represents the flags that are common to every report command
type CommonFlags struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
	OutputDir  string
	Reference  string
	Date       string
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// AppConfig is the configuration loaded before any subcommand runs.
	AppConfig *config.Config

	// AppContainer holds the wired dependencies; nil until PersistentPreRunE succeeds.
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "collections-reports",
		Short: "Builds the daily collection reports from contact-management exports.",
		Long: `collections-reports turns raw contact-management and bank exports into the
daily report workbooks of each client campaign: BPI cured lists, BDO agency
reports, ROB bike endorsements and monitoring, and generic sheet clean-ups.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()
			cfg, err := config.InitializeConfig(configFile())
			if err != nil {
				return err
			}
			applyFlags(cfg)
			AppConfig = cfg
			Log = config.ConfigureLoggingFromConfig(cfg)

			c, err := container.NewContainerWithLogger(Context(cmd), cfg, logging.NewLogrusAdapterFromLogger(Log))
			if err != nil {
				return fmt.Errorf("initializing dependencies: %w", err)
			}
			AppContainer = c
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.Warnf("Failed to close reference stores: %v", err)
			}
		},
	}

	// SharedFlags are bound to the persistent flags of Cmd.
	SharedFlags = CommonFlags{}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.ConfigFile, "config", "c", "", "Config file (default search: ./, ./.collections-reports, ~/.collections-reports)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&SharedFlags.LogFormat, "log-format", "", "Log format (text or json)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.OutputDir, "output-dir", "o", "", "Directory the report workbooks are written to")
	Cmd.PersistentFlags().StringVar(&SharedFlags.Reference, "reference", "", "Reference data location (directory or YAML file)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Date, "date", "d", "", "Report date, MM/DD/YYYY or YYYY-MM-DD (default today)")
}

func configFile() string {
	if SharedFlags.ConfigFile != "" {
		return SharedFlags.ConfigFile
	}
	return config.GetEnv("COLLECT_CONFIG", "")
}

// applyFlags lets explicit flags win over the config file and environment.
func applyFlags(cfg *config.Config) {
	if SharedFlags.LogLevel != "" {
		cfg.Log.Level = SharedFlags.LogLevel
	}
	if SharedFlags.LogFormat != "" {
		cfg.Log.Format = SharedFlags.LogFormat
	}
	if SharedFlags.OutputDir != "" {
		cfg.Output.Directory = SharedFlags.OutputDir
	}
	if SharedFlags.Reference != "" {
		cfg.Reference.Path = SharedFlags.Reference
	}
}

// ReportDate parses --date, defaulting to today.
func ReportDate() (time.Time, error) {
	if SharedFlags.Date == "" {
		return dateutils.StartOfDay(time.Now()), nil
	}
	t, ok := dateutils.ParseCell(SharedFlags.Date)
	if !ok {
		return time.Time{}, fmt.Errorf("invalid --date %q", SharedFlags.Date)
	}
	return t, nil
}

// Context returns the command context, or a background one outside cobra.
func Context(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
