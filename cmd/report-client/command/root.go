package command

// root.go defines the root command and the flags shared by every subcommand.

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mediahub/internal/catalogclient"
	"mediahub/internal/config"
	"mediahub/internal/logging"
)

var (
	apiURL   string // overrides CATALOG_URL when set
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "report-client",
	Short: "report-client - reports over the mediahub catalog",
	Long: `report-client reads the mediahub catalog service and produces a fixed
battery of reports (REQ 1 to 10). It can also seed a small demo catalog.

Use "report-client command -h" to see the flags of a command.`,
	SilenceUsage: true,
}

// Execute runs the root command. Called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "catalog service URL (defaults to CATALOG_URL)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (defaults to LOG_LEVEL)")
}

// setup loads configuration, applies flag overrides, and builds the client.
func setup() (*config.Config, *catalogclient.Client, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if apiURL != "" {
		cfg.CatalogURL = apiURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	return cfg, catalogclient.NewFromConfig(cfg), nil
}
