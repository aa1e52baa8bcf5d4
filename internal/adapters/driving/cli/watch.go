package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/grocer-cli/internal/adapters/driving/watch"
	"github.com/custodia-labs/grocer-cli/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Import new order exports as they appear in a directory",
	Long: `Watch a directory (such as ~/Downloads) and import every CSV or ZIP file
that is created or rewritten there. A file is imported once it has stopped
changing for the settle period.

Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Bool("all-categories", false, "import every order row, not just grocery rows")
	watchCmd.Flags().String("api-key", "", "LLM API key for title normalisation (overrides settings)")
	watchCmd.Flags().Bool("offline", false, "skip the LLM and keep raw titles")
	watchCmd.Flags().Bool("existing", false, "import files already in the directory first")
	watchCmd.Flags().Duration("settle", watch.DefaultSettle, "quiet period before a changed file is imported")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if importService == nil {
		return errors.New("import service not configured")
	}

	opts, err := importOptions(cmd)
	if err != nil {
		return err
	}
	existing, err := cmd.Flags().GetBool("existing")
	if err != nil {
		return fmt.Errorf("getting existing flag: %w", err)
	}
	settle, err := cmd.Flags().GetDuration("settle")
	if err != nil {
		return fmt.Errorf("getting settle flag: %w", err)
	}
	if settle <= 0 {
		return fmt.Errorf("invalid settle %s: must be positive", settle)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w := watch.New(importService, args[0], opts).WithSettle(settle)
	results, err := w.Watch(ctx, existing)
	if err != nil {
		return err
	}

	cmd.Printf("Watching %s for order exports (Ctrl+C to stop)\n", w.Dir())
	for res := range results {
		printWatchResult(cmd, res, opts)
	}
	cmd.Println("Stopped watching.")
	return nil
}

func printWatchResult(cmd *cobra.Command, res watch.Result, opts domain.ImportOptions) {
	cmd.Printf("[%s] %s\n", now().Format(time.TimeOnly), filepath.Base(res.Path))
	switch {
	case errors.Is(res.Err, domain.ErrAPIKeyRequired):
		cmd.Printf("  import failed: %v (restart with --api-key or --offline)\n", res.Err)
	case res.Err != nil:
		cmd.Printf("  import failed: %v\n", res.Err)
	default:
		printImportReport(cmd, res.Report, opts)
	}
}
