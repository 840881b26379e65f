package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/braunma/buildcheck/internal/config"
	"github.com/braunma/buildcheck/pkg/utils"
)

var (
	configFile   string
	catalogDir   string
	databasePath string
	snapshotFile string
	inventoryURL string
	outputFormat string
	metricsFile  string
	verbose      bool
)

// errBlocked makes the process exit non-zero when a verdict blocks
var errBlocked = errors.New("component addition blocked")

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errBlocked) {
			utils.NewLogger(verbose).Error("buildcheck failed", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "buildcheck",
		Short: "Server hardware compatibility checker",
		Long: `Validates server builds component by component: sockets, memory, PCIe slots and lanes,
drive bays and storage connection paths`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "buildcheck.yaml", "Configuration file path")
	flags.StringVar(&catalogDir, "catalog-dir", "", "Directory with component definitions (one folder per type)")
	flags.StringVar(&databasePath, "db", "", "SQLite configuration store")
	flags.StringVar(&snapshotFile, "snapshots", "", "YAML file with configurations, used instead of the store")
	flags.StringVar(&inventoryURL, "inventory-url", "", "Inventory service URL, used instead of the local catalog")
	flags.StringVarP(&outputFormat, "output", "o", "", "Output format: text or json")
	flags.StringVar(&metricsFile, "metrics-file", "", "Write Prometheus text metrics to this file")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable debug output")

	rootCmd.AddCommand(
		newValidateCmd(),
		newSlotsCmd(),
		newConfigCmd(),
		newCatalogCmd(),
	)

	return rootCmd
}

// loadConfig reads the config file and applies command line overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("catalog-dir") {
		cfg.CatalogDir = catalogDir
	}
	if flags.Changed("db") {
		cfg.DatabasePath = databasePath
	}
	if flags.Changed("snapshots") {
		cfg.SnapshotFile = snapshotFile
	}
	if flags.Changed("inventory-url") {
		cfg.Inventory.URL = inventoryURL
	}
	if flags.Changed("output") {
		cfg.Output = outputFormat
	}
	if flags.Changed("metrics-file") {
		cfg.MetricsFile = metricsFile
	}
	if flags.Changed("verbose") {
		cfg.Verbose = verbose
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
