package vault

// Fixed precisions (§3).
const (
	LSTDecimals = 9
	SOLDecimals = 9
	USDDecimals = 6

	SOLPrecision = 1_000_000_000 // 10^9
	USDPrecision = 1_000_000     // 10^6
	BPSPrecision = 10_000        // basis points

	// SentinelMax is the CR value reported when liability is zero.
	SentinelMax = ^uint64(0)

	// UncertaintyK scales the oracle uncertainty index into a bps multiplier
	// delta (§4.4).
	UncertaintyK = 1_000
)

// Dust floors below which mint/redeem amounts are rejected outright.
const (
	MinLSTDeposit = 1_000_000 // ~0.001 LST-equivalent base units
	MinStableMint = 1_000_000 // 1 USD (6 decimals)
	MinLevMint    = 1_000_000 // 1e-3 SOL-equivalent (9 decimals)
	MinLSTOut     = 1_000
)

// Direction labels the fee-engine branch an operation belongs to (§4.4).
type Direction int

const (
	RiskIncreasing Direction = iota
	RiskReducing
)

func (d Direction) String() string {
	if d == RiskIncreasing {
		return "risk_increasing"
	}
	return "risk_reducing"
}

// Address is an opaque account identifier. The core treats it as an
// uninterpreted key; adapters (§6, §9) resolve it to a real account.
type Address [32]byte

// IsZero reports whether the address has never been assigned.
func (a Address) IsZero() bool {
	return a == Address{}
}

// GlobalState is the single process-wide accounting record (§3).
type GlobalState struct {
	Version uint64

	Authority Address
	Treasury  Address

	StableMint       Address
	LevMint          Address
	SupportedLSTMint Address

	Vault          Address
	VaultAuthority Address

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

	initialized bool
}

// GlobalStateFields is the exported mirror of GlobalState used by
// vault/store to rehydrate a snapshot without reaching into the package's
// unexported "initialized" bookkeeping flag directly.
type GlobalStateFields struct {
	Version uint64

	Authority Address
	Treasury  Address

	StableMint       Address
	LevMint          Address
	SupportedLSTMint Address

	Vault          Address
	VaultAuthority Address

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

// RestoreGlobalState reconstructs a GlobalState from a persisted snapshot
// (vault/store), marking it initialized since only a previously-initialized
// state is ever persisted.
func RestoreGlobalState(f GlobalStateFields) *GlobalState {
	return &GlobalState{
		Version:                    f.Version,
		Authority:                  f.Authority,
		Treasury:                   f.Treasury,
		StableMint:                 f.StableMint,
		LevMint:                    f.LevMint,
		SupportedLSTMint:           f.SupportedLSTMint,
		Vault:                      f.Vault,
		VaultAuthority:             f.VaultAuthority,
		TotalLSTAmount:             f.TotalLSTAmount,
		StableSupply:               f.StableSupply,
		LevSupply:                  f.LevSupply,
		MinCRBps:                   f.MinCRBps,
		TargetCRBps:                f.TargetCRBps,
		FeeStableMintBps:           f.FeeStableMintBps,
		FeeStableRedeemBps:         f.FeeStableRedeemBps,
		FeeLevMintBps:              f.FeeLevMintBps,
		FeeLevRedeemBps:            f.FeeLevRedeemBps,
		FeeMinMultiplierBps:        f.FeeMinMultiplierBps,
		FeeMaxMultiplierBps:        f.FeeMaxMultiplierBps,
		UncertaintyIndexBps:        f.UncertaintyIndexBps,
		UncertaintyMaxBps:          f.UncertaintyMaxBps,
		RoundingReserveLamports:    f.RoundingReserveLamports,
		MaxRoundingReserveLamports: f.MaxRoundingReserveLamports,
		MaxOracleStalenessSlots:    f.MaxOracleStalenessSlots,
		MaxConfBps:                 f.MaxConfBps,
		MaxLSTStaleEpochs:          f.MaxLSTStaleEpochs,
		LastTVLUpdateSlot:          f.LastTVLUpdateSlot,
		LastOracleUpdateSlot:       f.LastOracleUpdateSlot,
		LastLSTSyncEpoch:           f.LastLSTSyncEpoch,
		SolPriceUsd:                f.SolPriceUsd,
		LstToSolRate:               f.LstToSolRate,
		LastOracleConfBps:          f.LastOracleConfBps,
		MintPaused:                 f.MintPaused,
		RedeemPaused:               f.RedeemPaused,
		OperationCounter:           f.OperationCounter,
		initialized:                true,
	}
}

// newGlobalState returns a GlobalState with the configured policy
// defaults from Initialize, before any admin override.
func newGlobalState(minCRBps, targetCRBps, initSolUsd, initLstRate uint64) *GlobalState {
	return &GlobalState{
		Version:     1,
		MinCRBps:    minCRBps,
		TargetCRBps: targetCRBps,

		FeeStableMintBps:   30,
		FeeStableRedeemBps: 30,
		FeeLevMintBps:      30,
		FeeLevRedeemBps:    30,

		FeeMinMultiplierBps: 10_000,
		FeeMaxMultiplierBps: 40_000,

		UncertaintyMaxBps: 20_000,

		MaxRoundingReserveLamports: 1_000_000_000,

		MaxOracleStalenessSlots: 150,
		MaxConfBps:              200,
		MaxLSTStaleEpochs:       2,

		SolPriceUsd:  initSolUsd,
		LstToSolRate: initLstRate,

		initialized: true,
	}
}
