package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driven"
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driving"
	"github.com/custodia-labs/grocer-cli/internal/logger"
)

// Ensure ImportService implements the interface.
var _ driving.ImportService = (*ImportService)(nil)

// ImportService runs the import pipeline: parse, match, normalise, persist.
type ImportService struct {
	items       driven.ItemStore
	ledger      driven.LedgerStore
	reader      driven.ExportReader
	normalisers driven.TitleNormaliserFactory
	settings    driving.SettingsService

	// Imports read and rewrite the whole store, so they run one at a time.
	mu sync.Mutex
}

// NewImportService creates a new import service.
// normalisers and settings are optional: without a factory new items keep
// their raw titles, and without settings the defaults apply.
func NewImportService(
	items driven.ItemStore,
	ledger driven.LedgerStore,
	reader driven.ExportReader,
	normalisers driven.TitleNormaliserFactory,
	settings driving.SettingsService,
) *ImportService {
	return &ImportService{
		items:       items,
		ledger:      ledger,
		reader:      reader,
		normalisers: normalisers,
		settings:    settings,
	}
}

// Import parses the export at path and merges it into the store.
func (s *ImportService) Import(
	ctx context.Context,
	path string,
	opts domain.ImportOptions,
) (*domain.ImportReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	normaliser, err := s.normaliser(opts)
	if err != nil {
		return nil, err
	}
	defer normaliser.Close()

	items, err := s.items.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading items: %w", err)
	}
	ledger, err := s.ledger.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading import ledger: %w", err)
	}
	if ledger == nil {
		ledger = domain.NewLedger()
	}

	logger.Section("Import")
	logger.Info("parsing %s", path)

	parsed, err := s.reader.ReadFile(path, ledger, opts.GroceryOnly)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	report := &domain.ImportReport{
		Source:     path,
		Total:      parsed.Total,
		NewRows:    len(parsed.Purchases),
		Skipped:    parsed.Skipped,
		Duplicates: parsed.Duplicates,
	}
	if report.NewRows == 0 {
		return report, nil
	}

	// Normalisation results are shared by rows with the same external id or
	// raw title, for this run only.
	cache := make(map[string]domain.TitleInfo)
	accepted := domain.NewLedger()

	for _, row := range parsed.Purchases {
		accepted.Add(row.DedupKey())

		if existing := matchItem(items, row); existing != nil {
			existing.Purchases = append(existing.Purchases, row.Purchase)
			report.Updated++
			continue
		}

		cacheKey := row.ExternalID
		if cacheKey == "" {
			cacheKey = row.Purchase.RawTitle
		}
		info, ok := cache[cacheKey]
		if !ok {
			info = normaliser.Normalise(ctx, row.Purchase.RawTitle)
			cache[cacheKey] = info
			report.Normalised++
		}

		items = append(items, domain.Item{
			ID:            uuid.NewString(),
			CanonicalName: info.CanonicalName,
			Category:      info.Category,
			Brand:         info.Brand,
			UnitSize:      info.UnitSize,
			ExternalID:    row.ExternalID,
			Purchases:     []domain.Purchase{row.Purchase},
		})
		report.Added++
	}

	if err := s.items.SaveAll(ctx, items); err != nil {
		return nil, fmt.Errorf("saving items: %w", err)
	}
	ledger.Merge(accepted)
	if err := s.ledger.Save(ctx, ledger); err != nil {
		return nil, fmt.Errorf("saving import ledger: %w", err)
	}

	logger.Info("added %d, updated %d, normalised %d", report.Added, report.Updated, report.Normalised)
	return report, nil
}

// matchItem finds the item a new purchase belongs to: by external id when
// the row has one, otherwise by a prior purchase with the same raw title.
func matchItem(items []domain.Item, row domain.ImportedPurchase) *domain.Item {
	if row.ExternalID != "" {
		return domain.FindByExternalID(items, row.ExternalID)
	}
	return domain.FindByPurchaseTitle(items, row.Purchase.RawTitle)
}

// normaliser picks the title normaliser for one run.
func (s *ImportService) normaliser(opts domain.ImportOptions) (driven.TitleNormaliser, error) {
	if s.normalisers == nil {
		return rawTitleNormaliser{}, nil
	}
	if opts.Offline {
		return s.normalisers.Fallback(), nil
	}

	llm := domain.DefaultAppSettings().LLM
	if s.settings != nil {
		settings, err := s.settings.Get()
		if err != nil {
			return nil, fmt.Errorf("loading settings: %w", err)
		}
		llm = settings.LLM
	}
	if opts.APIKey != "" {
		llm.APIKey = opts.APIKey
	}
	if llm.Provider.RequiresAPIKey() && llm.APIKey == "" {
		return nil, fmt.Errorf("%w: %s is not set", domain.ErrAPIKeyRequired, llm.Provider.APIKeyEnv())
	}

	normaliser, err := s.normalisers.Create(llm)
	if err != nil {
		return nil, fmt.Errorf("creating title normaliser: %w", err)
	}
	return normaliser, nil
}

// rawTitleNormaliser keeps the raw title as the canonical name.
type rawTitleNormaliser struct{}

func (rawTitleNormaliser) Normalise(_ context.Context, rawTitle string) domain.TitleInfo {
	return domain.FallbackTitleInfo(rawTitle)
}

func (rawTitleNormaliser) Close() error { return nil }
