package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for grocer resources.
	uriScheme = "grocer://"

	itemsURI = uriScheme + "items"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         itemsURI,
		Name:        "items",
		Description: "Every purchased grocery item with its buying frequency",
		MIMEType:    "application/json",
	}, s.handleItemsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: itemsURI + "/{itemId}",
		Name:        "item",
		Description: "One grocery item with its purchase history",
		MIMEType:    "application/json",
	}, s.handleItemResource)
}

// handleItemsResource returns the frequency listing.
func (s *Server) handleItemsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	freqs, err := s.ports.Inventory.List(ctx, domain.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return jsonResource(req.Params.URI, s.outputs(freqs))
}

// handleItemResource returns one item with its purchases.
func (s *Server) handleItemResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractItemID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	_, out, err := s.handleShowItem(ctx, nil, ShowItemInput{ID: id})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, out)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractItemID extracts the item ID from a URI like grocer://items/{itemId}.
func extractItemID(uri string) string {
	const prefix = itemsURI + "/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
