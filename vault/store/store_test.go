package store_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"cdpvault/vault"
	"cdpvault/vault/store"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := store.New(filepath.Join(dir, "snapshot.rlp"))

	tokens := &stubLedger{}
	clock := &stubClock{}
	engine := vault.NewEngine(vault.Adapters{Tokens: tokens, Clock: clock, Constraints: vault.DefaultConstraintChecker()})

	var authority vault.Address
	authority[0] = 0xAA
	require.NoError(t, engine.Initialize(authority, authority, authority, authority, authority, authority, authority,
		11_000, 15_000, 100_000_000, 1_000_000_000))

	require.NoError(t, s.Save(engine.State()))

	restored, found, err := s.Load()
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, engine.State().MinCRBps, restored.MinCRBps)
	require.Equal(t, engine.State().TargetCRBps, restored.TargetCRBps)
	require.Equal(t, engine.State().Authority, restored.Authority)
}

func TestLoadMissingSnapshotIsNotFound(t *testing.T) {
	dir := t.TempDir()
	s := store.New(filepath.Join(dir, "does-not-exist.rlp"))

	restored, found, err := s.Load()
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, restored)
}

type stubLedger struct{}

func (stubLedger) Transfer(from, to vault.Address, amount uint64) error { return nil }
func (stubLedger) Mint(mint, to vault.Address, amount uint64) error     { return nil }
func (stubLedger) Burn(mint, from vault.Address, amount uint64) error   { return nil }
func (stubLedger) Supply(mint vault.Address) (uint64, error)            { return 0, nil }
func (stubLedger) Balance(owner, mint vault.Address) (uint64, error)    { return 0, nil }

type stubClock struct{}

func (stubClock) Slot() uint64  { return 0 }
func (stubClock) Epoch() uint64 { return 0 }
