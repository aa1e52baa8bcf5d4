package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grocer-cli/internal/logger"
)

func TestRootCmd_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"import", "list", "stats", "show", "browse", "watch", "settings", "mcp", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootCmd_BootstrapRunsOnce(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer func() { logger.SetVerbose(false) }()

	var calls []Options
	closed := 0
	SetBootstrap(func(opts Options) (func() error, error) {
		calls = append(calls, opts)
		return func() error { closed++; return nil }, nil
	})

	_, err := runCLI(t, "", "stats", "--data-dir", "/tmp/grocer", "-v")
	require.NoError(t, err)

	require.Len(t, calls, 1)
	assert.Equal(t, Options{Verbose: true, DataDir: "/tmp/grocer"}, calls[0])
	assert.True(t, logger.IsVerbose())

	closeServices()
	assert.Equal(t, 1, closed)
	closeServices()
	assert.Equal(t, 1, closed, "cleanup runs once")
}

func TestRootCmd_VersionSkipsBootstrap(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	called := false
	SetBootstrap(func(Options) (func() error, error) {
		called = true
		return nil, nil
	})

	out, err := runCLI(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "grocer version")
	assert.False(t, called)
}

func TestRootCmd_BootstrapError(t *testing.T) {
	_, restore := setupTestServices()
	defer restore()

	SetBootstrap(func(Options) (func() error, error) {
		return nil, errors.New("no home directory")
	})

	_, err := runCLI(t, "", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "initialising: no home directory")
	assert.Nil(t, cleanup, "no cleanup is registered after a failed bootstrap")
}

func TestSetServices(t *testing.T) {
	svc, cleanup := setupTestServices()
	defer cleanup()

	SetImportService(nil)
	SetInventoryService(nil)
	SetSettingsService(nil)
	assert.Nil(t, importService)
	assert.Nil(t, inventoryService)
	assert.Nil(t, settingsService)

	SetImportService(svc.Import)
	SetInventoryService(svc.Inventory)
	SetSettingsService(svc.Settings)
	assert.Equal(t, svc.Import, importService)
	assert.Equal(t, svc.Inventory, inventoryService)
	assert.Equal(t, svc.Settings, settingsService)
}
