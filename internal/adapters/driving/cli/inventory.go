package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/grocer-cli/internal/adapters/driving/report"
	"github.com/custodia-labs/grocer-cli/internal/core/domain"
)

// now is today's clock for overdue tags. Replaced in tests.
var now = time.Now

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List grocery items with purchase frequency",
	Long: `List every purchased item with how often it is bought and when the next
purchase is expected. Items whose expected date has passed are tagged
"(overdue)".

Sort orders:
  frequency  most bought first (default)
  name       alphabetical
  last       most recently bought first
  next       soonest expected first, unknown last`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show top items, category breakdown and overdue items",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

var showCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show the purchase history of one item",
	Long:  `Show one item and its full purchase history. ID may be any prefix of the item id.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	listCmd.Flags().StringP("category", "c", "", "only items in this category (e.g. dairy, produce)")
	listCmd.Flags().String("sort", string(domain.SortByFrequency), "sort order: frequency, name, last or next")
	listCmd.Flags().IntP("limit", "n", 0, "maximum number of items (0 = all)")
	listCmd.Flags().Bool("json", false, "output as JSON")
	statsCmd.Flags().Bool("json", false, "output as JSON")
	showCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(showCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	if inventoryService == nil {
		return errors.New("inventory service not configured")
	}

	category, _ := cmd.Flags().GetString("category") //nolint:errcheck // flag is registered above
	sortFlag, _ := cmd.Flags().GetString("sort")     //nolint:errcheck // flag is registered above
	limit, _ := cmd.Flags().GetInt("limit")          //nolint:errcheck // flag is registered above
	asJSON, _ := cmd.Flags().GetBool("json")         //nolint:errcheck // flag is registered above

	order := domain.SortOrder(strings.ToLower(sortFlag))
	if !order.IsValid() {
		return fmt.Errorf("invalid sort %q: choose one of %s", sortFlag, joinSortOrders())
	}
	if limit < 0 {
		return fmt.Errorf("invalid limit %d: must not be negative", limit)
	}

	freqs, err := inventoryService.List(cmd.Context(), domain.ListOptions{
		Category: category,
		Sort:     order,
		Limit:    limit,
	})
	if err != nil {
		return fmt.Errorf("listing items: %w", err)
	}

	if asJSON {
		return writeJSON(cmd, freqs)
	}

	title := "Grocery Purchase Frequency"
	if category != "" {
		title += ": " + category
	}
	cmd.Println(title)
	report.New(cmd.OutOrStdout(), now()).Frequencies(freqs)
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	if inventoryService == nil {
		return errors.New("inventory service not configured")
	}

	stats, err := inventoryService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("computing stats: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON { //nolint:errcheck // flag is registered above
		return writeJSON(cmd, stats)
	}

	report.New(cmd.OutOrStdout(), now()).Stats(stats)
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	if inventoryService == nil {
		return errors.New("inventory service not configured")
	}

	detail, err := inventoryService.Show(cmd.Context(), args[0])
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("item not found: %s", args[0])
	}
	if err != nil {
		return fmt.Errorf("loading item: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON { //nolint:errcheck // flag is registered above
		return writeJSON(cmd, detail)
	}

	report.New(cmd.OutOrStdout(), now()).Item(detail)
	return nil
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

func joinSortOrders() string {
	orders := domain.SortOrders()
	names := make([]string, len(orders))
	for i, o := range orders {
		names[i] = o.String()
	}
	return strings.Join(names, ", ")
}
