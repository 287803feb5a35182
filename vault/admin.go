package vault

// AdminParams bundles the mutable policy knobs UpdateParameters is allowed
// to change (§4.7). Every field is applied as given, including zero values:
// neither the engine nor the HTTP handler that decodes it has a notion of
// "unset".
type AdminParams struct {
	MinCRBps            uint64
	TargetCRBps         uint64
	FeeStableMintBps    uint64
	FeeStableRedeemBps  uint64
	FeeLevMintBps       uint64
	FeeLevRedeemBps     uint64
	FeeMinMultiplierBps uint64
	FeeMaxMultiplierBps uint64
	UncertaintyMaxBps   uint64

	MaxOracleStalenessSlots uint64
	MaxConfBps              uint64
	MaxLSTStaleEpochs       uint64

	MaxRoundingReserveLamports uint64
}

// Initialize sets up a fresh GlobalState (§4.7). It is the only operation
// permitted before the engine is otherwise usable, and may run exactly once.
func (e *Engine) Initialize(authority, treasury, stableMint, levMint, supportedLSTMint, vault, vaultAuthority Address, minCRBps, targetCRBps, initSolUsd, initLstRate uint64) error {
	if e.state != nil && e.state.initialized {
		return ErrAlreadyInitialized
	}
	if minCRBps < BPSPrecision || targetCRBps < minCRBps {
		return ErrInvalidParameter
	}
	if initSolUsd == 0 || initLstRate == 0 {
		return ErrZeroAmount
	}

	state := newGlobalState(minCRBps, targetCRBps, initSolUsd, initLstRate)
	state.Authority = authority
	state.Treasury = treasury
	state.StableMint = stableMint
	state.LevMint = levMint
	state.SupportedLSTMint = supportedLSTMint
	state.Vault = vault
	state.VaultAuthority = vaultAuthority

	e.state = state
	return nil
}

func (e *Engine) requireAuthority(caller Address) error {
	if e.state == nil || !e.state.initialized {
		return ErrNilState
	}
	if caller != e.state.Authority {
		return ErrUnauthorized
	}
	return nil
}

// UpdateParameters applies a new set of policy knobs (§4.7). Every field is
// validated for internal consistency before any of them are committed, so a
// rejected call never leaves the state half-updated.
func (e *Engine) UpdateParameters(caller Address, p AdminParams) error {
	if err := e.requireAuthority(caller); err != nil {
		return err
	}
	if p.MinCRBps < BPSPrecision || p.TargetCRBps < p.MinCRBps {
		return ErrInvalidParameter
	}
	if p.FeeMaxMultiplierBps < p.FeeMinMultiplierBps {
		return ErrInvalidParameter
	}
	if p.MaxOracleStalenessSlots == 0 || p.MaxLSTStaleEpochs == 0 {
		return ErrInvalidParameter
	}

	e.state.MinCRBps = p.MinCRBps
	e.state.TargetCRBps = p.TargetCRBps
	e.state.FeeStableMintBps = p.FeeStableMintBps
	e.state.FeeStableRedeemBps = p.FeeStableRedeemBps
	e.state.FeeLevMintBps = p.FeeLevMintBps
	e.state.FeeLevRedeemBps = p.FeeLevRedeemBps
	e.state.FeeMinMultiplierBps = p.FeeMinMultiplierBps
	e.state.FeeMaxMultiplierBps = p.FeeMaxMultiplierBps
	e.state.UncertaintyMaxBps = p.UncertaintyMaxBps
	e.state.MaxOracleStalenessSlots = p.MaxOracleStalenessSlots
	e.state.MaxConfBps = p.MaxConfBps
	e.state.MaxLSTStaleEpochs = p.MaxLSTStaleEpochs
	e.state.MaxRoundingReserveLamports = p.MaxRoundingReserveLamports
	return nil
}

// UpdatePrices pushes a new oracle reading into the state, refreshing the
// SOL/USD price, the LST/SOL exchange rate, and last_oracle_update_slot
// atomically (§4.3, §4.7) — a rejected call leaves every cursor untouched.
// The confidence width is stored in LastOracleConfBps and not validated
// here. The freshness gate does not read this stored value: it checks the
// confidence supplied with each operation (OpContext.ConfBps).
func (e *Engine) UpdatePrices(caller Address, solUsdPrice, lstToSolRate, confBps, currentSlot uint64) error {
	if err := e.requireAuthority(caller); err != nil {
		return err
	}
	if solUsdPrice == 0 || lstToSolRate == 0 {
		return ErrZeroAmount
	}
	e.state.SolPriceUsd = solUsdPrice
	e.state.LstToSolRate = lstToSolRate
	e.state.LastOracleConfBps = confBps
	e.state.LastOracleUpdateSlot = currentSlot
	return nil
}

// SyncExchangeRate pushes a freshly-read LST/SOL exchange rate and advances
// the staleness cursor in one call (§4.3, §4.7).
func (e *Engine) SyncExchangeRate(caller Address, lstToSolRate, currentEpoch uint64) error {
	if err := e.requireAuthority(caller); err != nil {
		return err
	}
	if lstToSolRate == 0 {
		return ErrInvalidParameter
	}
	e.state.LstToSolRate = lstToSolRate
	return SyncExchangeRate(e.state, currentEpoch)
}

// EmergencyPause sets or clears the mint/redeem circuit breakers (§4.7).
// Redeem is deliberately left pausable independent of mint so an operator
// can halt new risk intake while still letting existing holders exit.
func (e *Engine) EmergencyPause(caller Address, pauseMint, pauseRedeem bool) error {
	if err := e.requireAuthority(caller); err != nil {
		return err
	}
	e.state.MintPaused = pauseMint
	e.state.RedeemPaused = pauseRedeem
	return nil
}
