// Package cli implements the grocer command line using cobra.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/grocer-cli/internal/core/ports/driving"
	"github.com/custodia-labs/grocer-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// annotationNoServices marks commands that run without bootstrapping services.
const annotationNoServices = "grocer/no-services"

// Services used by the commands. Set by the bootstrap or by tests.
var (
	importService    driving.ImportService
	inventoryService driving.InventoryService
	settingsService  driving.SettingsService
)

// Options carries the root flag values needed to build services.
type Options struct {
	// Verbose enables debug logging.
	Verbose bool

	// DataDir overrides the configured data directory when non-empty.
	DataDir string
}

// Bootstrap builds the services for one invocation and registers them with
// the Set functions. The returned cleanup runs when Execute returns.
type Bootstrap func(opts Options) (cleanup func() error, err error)

var (
	bootstrap Bootstrap
	cleanup   func() error

	verbose bool
	dataDir string
)

var rootCmd = &cobra.Command{
	Use:   "grocer",
	Short: "Track grocery purchases from order exports",
	Long: `grocer imports marketplace order history exports (CSV or ZIP), groups
purchases into canonical grocery items, and estimates how often you buy
each item and when you will need it next.

Start with:
  grocer import ~/Downloads/Retail.OrderHistory.1.csv
  grocer list
  grocer stats`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show debug logging")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "directory holding the item store (overrides settings)")
}

// SetBootstrap registers the function that builds services from root flags.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetImportService sets the import service used by the import and watch commands.
func SetImportService(s driving.ImportService) {
	importService = s
}

// SetInventoryService sets the inventory service used by the read commands.
func SetInventoryService(s driving.InventoryService) {
	inventoryService = s
}

// SetSettingsService sets the settings service.
func SetSettingsService(s driving.SettingsService) {
	settingsService = s
}

// Execute runs the root command and releases services afterwards.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

func initServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || cleanup != nil {
		return nil
	}
	if _, ok := cmd.Annotations[annotationNoServices]; ok {
		return nil
	}

	c, err := bootstrap(Options{Verbose: verbose, DataDir: dataDir})
	if err != nil {
		return fmt.Errorf("initialising: %w", err)
	}
	cleanup = c
	return nil
}

func closeServices() {
	if cleanup == nil {
		return
	}
	if err := cleanup(); err != nil {
		logger.Warn("closing stores: %v", err)
	}
	cleanup = nil
}
