package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/grocer-cli/internal/core/domain"
)

func TestLedgerStore_LoadSave(t *testing.T) {
	ctx := context.Background()
	store := NewLedgerStore("1|A")

	ledger, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ledger.Has("1|A"))

	ledger.Add("2|B")
	again, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, again.Has("2|B"), "loaded ledger is a copy")

	require.NoError(t, store.Save(ctx, ledger))
	saved, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"1|A", "2|B"}, saved.Keys())
	assert.Equal(t, 1, store.Saves())
}

func TestLedgerStore_Empty(t *testing.T) {
	ledger, err := NewLedgerStore().Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, ledger.Len())
	assert.Equal(t, domain.NewLedger(), ledger)
}
