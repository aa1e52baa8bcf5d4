package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
)

// ListItemsInput is the input schema for the list_items tool.
type ListItemsInput struct {
	Category string `json:"category,omitempty" jsonschema:"only items in this category (dairy, produce, meat, bakery, pantry, frozen, beverages, snacks, household, other)"`
	Sort     string `json:"sort,omitempty" jsonschema:"ordering: frequency (default), name, last or next"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of items to return (default all)"`
}

// ListItemsOutput is the output schema for the list_items tool.
type ListItemsOutput struct {
	Items []ItemOutput `json:"items"`
	Count int          `json:"count"`
}

// ItemOutput is an item's buying cadence as seen by an assistant.
type ItemOutput struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	TotalPurchases  int      `json:"total_purchases"`
	TotalUnits      int      `json:"total_units"`
	AvgIntervalDays *float64 `json:"avg_interval_days,omitempty" jsonschema:"average days between purchases, absent with fewer than two purchase dates"`
	LastPurchased   string   `json:"last_purchased"`
	PredictedNext   string   `json:"predicted_next,omitempty"`
	Overdue         bool     `json:"overdue" jsonschema:"true when the predicted date has already passed"`
}

// ShowItemInput is the input schema for the show_item tool.
type ShowItemInput struct {
	ID string `json:"id" jsonschema:"item id or a unique prefix of it"`
}

// ShowItemOutput is the output schema for the show_item tool.
type ShowItemOutput struct {
	Item      ItemOutput        `json:"item"`
	Brand     string            `json:"brand,omitempty"`
	UnitSize  string            `json:"unit_size,omitempty"`
	ASIN      string            `json:"asin,omitempty"`
	Purchases []domain.Purchase `json:"purchases"`
}

// StatsInput is the (empty) input schema for the grocery_stats tool.
type StatsInput struct{}

// StatsOutput is the output schema for the grocery_stats tool.
type StatsOutput struct {
	TotalItems int                    `json:"total_items"`
	Categories []domain.CategoryCount `json:"categories"`
	Top        []ItemOutput           `json:"top"`
	Overdue    []ItemOutput           `json:"overdue"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_items",
		Description: "List purchased grocery items with how often they are bought and when they are next due",
	}, s.handleListItems)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "show_item",
		Description: "Show one grocery item with its full purchase history",
	}, s.handleShowItem)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "grocery_stats",
		Description: "Summarise purchase history: category counts, most bought items and overdue items",
	}, s.handleStats)
}

func (s *Server) handleListItems(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListItemsInput,
) (*mcp.CallToolResult, ListItemsOutput, error) {
	order := domain.SortOrder(input.Sort)
	if order != "" && !order.IsValid() {
		return nil, ListItemsOutput{}, fmt.Errorf("%w: %q", ErrInvalidSort, input.Sort)
	}

	freqs, err := s.ports.Inventory.List(ctx, domain.ListOptions{
		Category: input.Category,
		Sort:     order,
		Limit:    max(input.Limit, 0),
	})
	if err != nil {
		return nil, ListItemsOutput{}, err
	}

	items := s.outputs(freqs)
	return nil, ListItemsOutput{Items: items, Count: len(items)}, nil
}

func (s *Server) handleShowItem(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ShowItemInput,
) (*mcp.CallToolResult, ShowItemOutput, error) {
	detail, err := s.ports.Inventory.Show(ctx, input.ID)
	if err != nil {
		return nil, ShowItemOutput{}, fmt.Errorf("item %q: %w", input.ID, err)
	}

	purchases := detail.Item.Purchases
	if purchases == nil {
		purchases = []domain.Purchase{}
	}
	return nil, ShowItemOutput{
		Item:      s.output(detail.Frequency),
		Brand:     detail.Item.Brand,
		UnitSize:  detail.Item.UnitSize,
		ASIN:      detail.Item.ExternalID,
		Purchases: purchases,
	}, nil
}

func (s *Server) handleStats(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ StatsInput,
) (*mcp.CallToolResult, StatsOutput, error) {
	stats, err := s.ports.Inventory.Stats(ctx)
	if err != nil {
		return nil, StatsOutput{}, err
	}

	categories := stats.Categories
	if categories == nil {
		categories = []domain.CategoryCount{}
	}
	return nil, StatsOutput{
		TotalItems: stats.TotalItems,
		Categories: categories,
		Top:        s.outputs(stats.Top),
		Overdue:    s.outputs(stats.Overdue),
	}, nil
}

func (s *Server) output(f domain.ItemFrequency) ItemOutput {
	return ItemOutput{
		ID:              f.ID,
		Name:            f.CanonicalName,
		Category:        f.Category.String(),
		TotalPurchases:  f.TotalPurchases,
		TotalUnits:      f.TotalUnits,
		AvgIntervalDays: f.AvgIntervalDays,
		LastPurchased:   f.LastPurchased,
		PredictedNext:   f.PredictedNext,
		Overdue:         f.IsOverdue(s.now()),
	}
}

func (s *Server) outputs(freqs []domain.ItemFrequency) []ItemOutput {
	out := make([]ItemOutput, len(freqs))
	for i, f := range freqs {
		out[i] = s.output(f)
	}
	return out
}
