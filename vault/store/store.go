// Package store persists the vault's GlobalState between process restarts
// as a single RLP-encoded snapshot file, written atomically via a temp file
// plus rename, since the vault has exactly one state record rather than an
// open-ended collection needing a keyed store.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/rlp"

	"cdpvault/vault"
)

// record mirrors vault.GlobalState's exported fields. RLP only encodes
// exported struct fields, so the state's private "initialized" flag is
// reconstructed on Load rather than round-tripped directly.
type record struct {
	Version uint64

	Authority [32]byte
	Treasury  [32]byte

	StableMint       [32]byte
	LevMint          [32]byte
	SupportedLSTMint [32]byte

	Vault          [32]byte
	VaultAuthority [32]byte

	TotalLSTAmount uint64
	StableSupply   uint64
	LevSupply      uint64

	MinCRBps    uint64
	TargetCRBps uint64

	FeeStableMintBps   uint64
	FeeStableRedeemBps uint64
	FeeLevMintBps      uint64
	FeeLevRedeemBps    uint64

	FeeMinMultiplierBps uint64
	FeeMaxMultiplierBps uint64

	UncertaintyIndexBps uint64
	UncertaintyMaxBps   uint64

	RoundingReserveLamports    uint64
	MaxRoundingReserveLamports uint64

	MaxOracleStalenessSlots uint64
	MaxConfBps              uint64
	MaxLSTStaleEpochs       uint64

	LastTVLUpdateSlot    uint64
	LastOracleUpdateSlot uint64
	LastLSTSyncEpoch     uint64

	SolPriceUsd       uint64
	LstToSolRate      uint64
	LastOracleConfBps uint64

	MintPaused   bool
	RedeemPaused bool

	OperationCounter uint64
}

// Store persists a single GlobalState snapshot under a directory on disk.
type Store struct {
	path string
}

// New returns a Store that reads/writes the snapshot at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Save RLP-encodes the state and writes it atomically: encode to a temp file
// in the same directory, then rename over the target, so a crash mid-write
// never leaves a truncated snapshot behind.
func (s *Store) Save(state *vault.GlobalState) error {
	if state == nil {
		return fmt.Errorf("store: nil state")
	}
	rec := toRecord(state)
	encoded, err := rlp.EncodeToBytes(&rec)
	if err != nil {
		return fmt.Errorf("store: encode snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".vault-snapshot-*")
	if err != nil {
		return fmt.Errorf("store: create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: rename snapshot into place: %w", err)
	}
	return nil
}

// Load reads and RLP-decodes the snapshot. It returns (nil, false, nil) if no
// snapshot has ever been written, so callers can fall back to Initialize.
func (s *Store) Load() (*vault.GlobalState, bool, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("store: read snapshot: %w", err)
	}
	var rec record
	if err := rlp.DecodeBytes(data, &rec); err != nil {
		return nil, false, fmt.Errorf("store: decode snapshot: %w", err)
	}
	return fromRecord(&rec), true, nil
}

func toRecord(state *vault.GlobalState) record {
	return record{
		Version:                    state.Version,
		Authority:                  state.Authority,
		Treasury:                   state.Treasury,
		StableMint:                 state.StableMint,
		LevMint:                    state.LevMint,
		SupportedLSTMint:           state.SupportedLSTMint,
		Vault:                      state.Vault,
		VaultAuthority:             state.VaultAuthority,
		TotalLSTAmount:             state.TotalLSTAmount,
		StableSupply:               state.StableSupply,
		LevSupply:                  state.LevSupply,
		MinCRBps:                   state.MinCRBps,
		TargetCRBps:                state.TargetCRBps,
		FeeStableMintBps:           state.FeeStableMintBps,
		FeeStableRedeemBps:         state.FeeStableRedeemBps,
		FeeLevMintBps:              state.FeeLevMintBps,
		FeeLevRedeemBps:            state.FeeLevRedeemBps,
		FeeMinMultiplierBps:        state.FeeMinMultiplierBps,
		FeeMaxMultiplierBps:        state.FeeMaxMultiplierBps,
		UncertaintyIndexBps:        state.UncertaintyIndexBps,
		UncertaintyMaxBps:          state.UncertaintyMaxBps,
		RoundingReserveLamports:    state.RoundingReserveLamports,
		MaxRoundingReserveLamports: state.MaxRoundingReserveLamports,
		MaxOracleStalenessSlots:    state.MaxOracleStalenessSlots,
		MaxConfBps:                 state.MaxConfBps,
		MaxLSTStaleEpochs:          state.MaxLSTStaleEpochs,
		LastTVLUpdateSlot:          state.LastTVLUpdateSlot,
		LastOracleUpdateSlot:       state.LastOracleUpdateSlot,
		LastLSTSyncEpoch:           state.LastLSTSyncEpoch,
		SolPriceUsd:                state.SolPriceUsd,
		LstToSolRate:               state.LstToSolRate,
		LastOracleConfBps:          state.LastOracleConfBps,
		MintPaused:                 state.MintPaused,
		RedeemPaused:               state.RedeemPaused,
		OperationCounter:           state.OperationCounter,
	}
}

func fromRecord(rec *record) *vault.GlobalState {
	state := vault.RestoreGlobalState(vault.GlobalStateFields{
		Version:                    rec.Version,
		Authority:                  rec.Authority,
		Treasury:                   rec.Treasury,
		StableMint:                 rec.StableMint,
		LevMint:                    rec.LevMint,
		SupportedLSTMint:           rec.SupportedLSTMint,
		Vault:                      rec.Vault,
		VaultAuthority:             rec.VaultAuthority,
		TotalLSTAmount:             rec.TotalLSTAmount,
		StableSupply:               rec.StableSupply,
		LevSupply:                  rec.LevSupply,
		MinCRBps:                   rec.MinCRBps,
		TargetCRBps:                rec.TargetCRBps,
		FeeStableMintBps:           rec.FeeStableMintBps,
		FeeStableRedeemBps:         rec.FeeStableRedeemBps,
		FeeLevMintBps:              rec.FeeLevMintBps,
		FeeLevRedeemBps:            rec.FeeLevRedeemBps,
		FeeMinMultiplierBps:        rec.FeeMinMultiplierBps,
		FeeMaxMultiplierBps:        rec.FeeMaxMultiplierBps,
		UncertaintyIndexBps:        rec.UncertaintyIndexBps,
		UncertaintyMaxBps:          rec.UncertaintyMaxBps,
		RoundingReserveLamports:    rec.RoundingReserveLamports,
		MaxRoundingReserveLamports: rec.MaxRoundingReserveLamports,
		MaxOracleStalenessSlots:    rec.MaxOracleStalenessSlots,
		MaxConfBps:                 rec.MaxConfBps,
		MaxLSTStaleEpochs:          rec.MaxLSTStaleEpochs,
		LastTVLUpdateSlot:          rec.LastTVLUpdateSlot,
		LastOracleUpdateSlot:       rec.LastOracleUpdateSlot,
		LastLSTSyncEpoch:           rec.LastLSTSyncEpoch,
		SolPriceUsd:                rec.SolPriceUsd,
		LstToSolRate:               rec.LstToSolRate,
		LastOracleConfBps:          rec.LastOracleConfBps,
		MintPaused:                 rec.MintPaused,
		RedeemPaused:               rec.RedeemPaused,
		OperationCounter:           rec.OperationCounter,
	})
	return state
}
