package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import orders from a CSV or ZIP export",
	Long: `Import orders from a marketplace order history export.

FILE can be:
  - a ZIP downloaded from the privacy data request page
  - a CSV from any order export

Each row is matched to an existing item by ASIN (or by title when the row
has no ASIN). New items get a short canonical name and a category from the
configured LLM; use --offline to keep raw titles instead.

Re-running with the same file is safe: already-imported rows are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().Bool("all-categories", false, "import every order row, not just grocery rows")
	importCmd.Flags().String("api-key", "", "LLM API key for title normalisation (overrides settings)")
	importCmd.Flags().Bool("offline", false, "skip the LLM and keep raw titles")
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if importService == nil {
		return errors.New("import service not configured")
	}

	opts, err := importOptions(cmd)
	if err != nil {
		return err
	}

	path := args[0]
	cmd.Printf("Parsing: %s\n", filepath.Base(path))

	report, err := importService.Import(cmd.Context(), path, opts)
	if errors.Is(err, domain.ErrAPIKeyRequired) {
		return fmt.Errorf("%w: pass --api-key, set it with 'grocer settings llm', or use --offline", err)
	}
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	printImportReport(cmd, report, opts)
	return nil
}

// importOptions merges import flags with the configured defaults.
func importOptions(cmd *cobra.Command) (domain.ImportOptions, error) {
	allCategories, err := cmd.Flags().GetBool("all-categories")
	if err != nil {
		return domain.ImportOptions{}, fmt.Errorf("getting all-categories flag: %w", err)
	}
	apiKey, err := cmd.Flags().GetString("api-key")
	if err != nil {
		return domain.ImportOptions{}, fmt.Errorf("getting api-key flag: %w", err)
	}
	offline, err := cmd.Flags().GetBool("offline")
	if err != nil {
		return domain.ImportOptions{}, fmt.Errorf("getting offline flag: %w", err)
	}

	groceryOnly := domain.DefaultAppSettings().Import.GroceryOnly
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			groceryOnly = settings.Import.GroceryOnly
		}
	}

	return domain.ImportOptions{
		GroceryOnly: groceryOnly && !allCategories,
		Offline:     offline,
		APIKey:      apiKey,
	}, nil
}

func printImportReport(cmd *cobra.Command, report *domain.ImportReport, opts domain.ImportOptions) {
	if report.Empty() {
		if opts.GroceryOnly {
			cmd.Println("No grocery order rows found in this file.")
			cmd.Println("If you expected grocery rows, try --all-categories.")
			return
		}
		cmd.Println("No order rows found in this file.")
		return
	}

	if report.Skipped > 0 {
		cmd.Printf("Found %d new row(s), skipped %d already-imported.\n", report.NewRows, report.Skipped)
	} else {
		cmd.Printf("Found %d new row(s).\n", report.NewRows)
	}
	if report.Duplicates > 0 {
		cmd.Printf("Dropped %d duplicate row(s) repeated within the file.\n", report.Duplicates)
	}

	if report.NewRows == 0 {
		cmd.Println("Nothing new to import.")
		return
	}

	cmd.Printf("Done. Added %d new item(s), updated %d existing item(s).\n", report.Added, report.Updated)
}
