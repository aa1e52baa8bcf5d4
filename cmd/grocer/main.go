// Command grocer tracks grocery purchases from marketplace order exports.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/grocer-cli/internal/adapters/driven/ai"
	"github.com/custodia-labs/grocer-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/grocer-cli/internal/adapters/driven/storage/jsonfile"
	"github.com/custodia-labs/grocer-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/grocer-cli/internal/adapters/driving/cli"
	"github.com/custodia-labs/grocer-cli/internal/core/domain"
	"github.com/custodia-labs/grocer-cli/internal/core/ports/driven"
	"github.com/custodia-labs/grocer-cli/internal/core/services"
	"github.com/custodia-labs/grocer-cli/internal/logger"
	"github.com/custodia-labs/grocer-cli/internal/orderexport"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("loading .env: %v", err)
	}

	cli.SetBootstrap(bootstrap)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap wires stores and services for one command invocation.
func bootstrap(opts cli.Options) (func() error, error) {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	dataDir, err := resolveDataDir(opts.DataDir, settings.Storage.DataDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("data directory: %s (%s backend)", dataDir, settings.Storage.Backend)

	items, ledger, closeStore, err := openStore(settings.Storage.Backend, dataDir)
	if err != nil {
		return nil, err
	}

	prompts, err := file.NewPromptStore("")
	if err != nil {
		logger.Warn("prompt templates unavailable, using built-in prompt: %v", err)
	}
	var promptStore driven.PromptStore
	if prompts != nil {
		promptStore = prompts
	}

	importService := services.NewImportService(
		items,
		ledger,
		orderexport.NewReader(nil),
		ai.NewNormaliserFactory(promptStore),
		settingsService,
	)

	cli.SetSettingsService(settingsService)
	cli.SetImportService(importService)
	cli.SetInventoryService(services.NewInventoryService(items, time.Now))

	return closeStore, nil
}

// resolveDataDir picks the data directory: flag, then settings, then ~/.grocer/data.
func resolveDataDir(flagDir, configured string) (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	if configured != "" {
		return configured, nil
	}
	dir, err := file.DefaultDir()
	if err != nil {
		return "", fmt.Errorf("resolving data directory: %w", err)
	}
	return filepath.Join(dir, "data"), nil
}

// openStore opens the configured backend and returns its stores and a close func.
func openStore(
	backend domain.StorageBackend, dataDir string,
) (driven.ItemStore, driven.LedgerStore, func() error, error) {
	switch backend {
	case domain.StorageSQLite:
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store.ItemStore(), store.LedgerStore(), store.Close, nil
	case domain.StorageJSON, "":
		store, err := jsonfile.NewStore(dataDir)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("opening json store: %w", err)
		}
		return store, store, func() error { return nil }, nil
	default:
		return nil, nil, nil, fmt.Errorf("%w: unknown storage backend %q", domain.ErrInvalidInput, backend)
	}
}
