package vault

// Engine orchestrates the mint/redeem state machine and admin surface over a
// single GlobalState (§4.5, §4.7). It holds no ambient time/slot state of
// its own; every call is handed an OpContext describing the invocation
// envelope, keeping the core runtime-agnostic (§9).
type Engine struct {
	state    *GlobalState
	adapters Adapters
}

// NewEngine constructs an engine bound to the supplied external adapters.
// Call Initialize before any mint/redeem operation.
func NewEngine(adapters Adapters) *Engine {
	return &Engine{adapters: adapters}
}

// State returns the live GlobalState for read-only inspection (query
// surface, §9 supplemented feature). Callers must not mutate the returned
// pointer's fields directly.
func (e *Engine) State() *GlobalState {
	return e.state
}

// LoadState rehydrates the engine from a previously persisted GlobalState
// (used by cmd/vaultd to restore a vault/store snapshot on restart).
func (e *Engine) LoadState(state *GlobalState) {
	e.state = state
}

// OpContext describes the invocation envelope for a single mint/redeem call:
// who is calling, where this instruction sits in its enclosing transaction
// (§4.5 step 1), and any oracle confidence reading supplied alongside the
// price (§4.3).
type OpContext struct {
	Caller      Address
	Instruction InstructionContext
	ConfBps     uint64
}

// MintResult reports the outcome of a mint operation.
type MintResult struct {
	GrossAmount uint64
	FeeAmount   uint64
	UserAmount  uint64
	FeeBps      uint64
	CRPostBps   uint64
}

// RedeemResult reports the outcome of a redeem operation.
type RedeemResult struct {
	GrossAmount uint64
	FeeAmount   uint64
	UserAmount  uint64
	FeeBps      uint64
	CRPostBps   uint64
	Haircut     bool
}

func (e *Engine) requireTopLevel(ctx OpContext) error {
	if ctx.Instruction == nil {
		return ErrInvalidCPIContext
	}
	if ctx.Instruction.InstructionIndex() != 0 {
		return ErrInvalidCPIContext
	}
	return nil
}

func (e *Engine) requireReady() error {
	if e.state == nil || !e.state.initialized {
		return ErrNilState
	}
	if err := e.adapters.validate(); err != nil {
		return err
	}
	return nil
}

// MintStable converts LST collateral into STABLE (§4.5 "Mint STABLE",
// risk-increasing).
func (e *Engine) MintStable(ctx OpContext, lstIn, minStableOut uint64) (MintResult, error) {
	if err := e.requireReady(); err != nil {
		return MintResult{}, err
	}
	if err := e.requireTopLevel(ctx); err != nil {
		return MintResult{}, err
	}
	if e.state.MintPaused {
		return MintResult{}, ErrMintPaused
	}
	if err := e.checkFreshness(ctx); err != nil {
		return MintResult{}, err
	}
	if lstIn == 0 {
		return MintResult{}, ErrZeroAmount
	}
	if lstIn < MinLSTDeposit {
		return MintResult{}, ErrAmountTooSmall
	}

	snap, err := PriceState(e.state)
	if err != nil {
		return MintResult{}, err
	}

	solIn, err := MulDivDown(lstIn, e.state.LstToSolRate, SOLPrecision)
	if err != nil {
		return MintResult{}, err
	}
	usdGross, err := MulDivDown(solIn, e.state.SolPriceUsd, SOLPrecision)
	if err != nil {
		return MintResult{}, err
	}
	if usdGross < MinStableMint {
		return MintResult{}, ErrAmountTooSmall
	}

	feeBps, err := EffectiveFeeBps(FeeParams{
		BaseFeeBps:          e.state.FeeStableMintBps,
		Direction:           RiskIncreasing,
		CRBps:               snap.CRBps,
		TargetCRBps:         e.state.TargetCRBps,
		MinCRBps:            e.state.MinCRBps,
		FeeMinMultiplierBps: e.state.FeeMinMultiplierBps,
		FeeMaxMultiplierBps: e.state.FeeMaxMultiplierBps,
		UncertaintyIndexBps: e.state.UncertaintyIndexBps,
		UncertaintyMaxBps:   e.state.UncertaintyMaxBps,
	})
	if err != nil {
		return MintResult{}, err
	}

	feeStable, err := MulDivUp(usdGross, feeBps, BPSPrecision)
	if err != nil {
		return MintResult{}, err
	}
	if feeStable > usdGross {
		feeStable = usdGross
	}
	userStable := usdGross - feeStable

	if userStable < minStableOut {
		return MintResult{}, ErrSlippageExceeded
	}

	// Post-state CR check: simulate the new liability/TVL after minting.
	postTVL, err := TVLSol(e.state.TotalLSTAmount+lstIn, e.state.LstToSolRate)
	if err != nil {
		return MintResult{}, err
	}
	postLiability, err := LiabilitySol(e.state.StableSupply+usdGross, e.state.SolPriceUsd)
	if err != nil {
		return MintResult{}, err
	}
	postCR, err := CRBps(postTVL, postLiability)
	if err != nil {
		return MintResult{}, err
	}
	if postCR < e.state.MinCRBps {
		return MintResult{}, ErrCollateralRatioTooLow
	}

	// Effects.
	if err := e.adapters.Tokens.Transfer(ctx.Caller, e.state.Vault, lstIn); err != nil {
		return MintResult{}, err
	}
	if userStable > 0 {
		if err := e.adapters.Tokens.Mint(e.state.StableMint, ctx.Caller, userStable); err != nil {
			return MintResult{}, err
		}
	}
	if feeStable > 0 {
		if err := e.adapters.Tokens.Mint(e.state.StableMint, e.state.Treasury, feeStable); err != nil {
			return MintResult{}, err
		}
	}

	e.state.TotalLSTAmount += lstIn
	e.state.StableSupply += usdGross
	e.accrueRoundingResidue(usdGross, feeBps, feeStable)
	e.finishOp(ctx)

	if err := EnforceInvariants(e.state, e.adapters, true); err != nil {
		return MintResult{}, err
	}

	return MintResult{GrossAmount: usdGross, FeeAmount: feeStable, UserAmount: userStable, FeeBps: feeBps, CRPostBps: postCR}, nil
}

// MintLev converts LST collateral into LEV (§4.5 "Mint LEV", risk-reducing,
// first-mint rule).
func (e *Engine) MintLev(ctx OpContext, lstIn, minLevOut uint64) (MintResult, error) {
	if err := e.requireReady(); err != nil {
		return MintResult{}, err
	}
	if err := e.requireTopLevel(ctx); err != nil {
		return MintResult{}, err
	}
	if e.state.MintPaused {
		return MintResult{}, ErrMintPaused
	}
	if err := e.checkFreshness(ctx); err != nil {
		return MintResult{}, err
	}
	if lstIn == 0 {
		return MintResult{}, ErrZeroAmount
	}
	if lstIn < MinLSTDeposit {
		return MintResult{}, ErrAmountTooSmall
	}

	snap, err := PriceState(e.state)
	if err != nil {
		return MintResult{}, err
	}

	solIn, err := MulDivDown(lstIn, e.state.LstToSolRate, SOLPrecision)
	if err != nil {
		return MintResult{}, err
	}

	var levGross uint64
	if e.state.LevSupply == 0 {
		levGross = solIn // first-mint bootstrap, exact 1:1 (§4.2, §8)
	} else {
		levGross, err = MulDivDown(solIn, SOLPrecision, snap.LevNAV)
		if err != nil {
			return MintResult{}, err
		}
	}
	if levGross < MinLevMint {
		return MintResult{}, ErrAmountTooSmall
	}

	feeBps, err := EffectiveFeeBps(FeeParams{
		BaseFeeBps:          e.state.FeeLevMintBps,
		Direction:           RiskReducing,
		CRBps:               snap.CRBps,
		TargetCRBps:         e.state.TargetCRBps,
		MinCRBps:            e.state.MinCRBps,
		FeeMinMultiplierBps: e.state.FeeMinMultiplierBps,
		FeeMaxMultiplierBps: e.state.FeeMaxMultiplierBps,
		UncertaintyIndexBps: e.state.UncertaintyIndexBps,
		UncertaintyMaxBps:   e.state.UncertaintyMaxBps,
	})
	if err != nil {
		return MintResult{}, err
	}

	feeLev, err := MulDivUp(levGross, feeBps, BPSPrecision)
	if err != nil {
		return MintResult{}, err
	}
	if feeLev > levGross {
		feeLev = levGross
	}
	userLev := levGross - feeLev

	if userLev < minLevOut {
		return MintResult{}, ErrSlippageExceeded
	}

	// Mint LEV is risk-reducing: no post-CR floor gate (§4.5 step 10 only
	// applies to risk-increasing ops).
	if err := e.adapters.Tokens.Transfer(ctx.Caller, e.state.Vault, lstIn); err != nil {
		return MintResult{}, err
	}
	if userLev > 0 {
		if err := e.adapters.Tokens.Mint(e.state.LevMint, ctx.Caller, userLev); err != nil {
			return MintResult{}, err
		}
	}
	if feeLev > 0 {
		if err := e.adapters.Tokens.Mint(e.state.LevMint, e.state.Treasury, feeLev); err != nil {
			return MintResult{}, err
		}
	}

	e.state.TotalLSTAmount += lstIn
	e.state.LevSupply += levGross
	e.accrueRoundingResidue(levGross, feeBps, feeLev)
	e.finishOp(ctx)

	if err := EnforceInvariants(e.state, e.adapters, false); err != nil {
		return MintResult{}, err
	}

	return MintResult{GrossAmount: levGross, FeeAmount: feeLev, UserAmount: userLev, FeeBps: feeBps}, nil
}

// RedeemLev converts LEV back into LST (§4.5 "Redeem LEV", risk-increasing).
// LEV is the junior tranche: if the protocol is insolvent there is no
// equity left to pay out, so this path has no haircut fallback.
func (e *Engine) RedeemLev(ctx OpContext, levIn, minLstOut uint64) (RedeemResult, error) {
	if err := e.requireReady(); err != nil {
		return RedeemResult{}, err
	}
	if err := e.requireTopLevel(ctx); err != nil {
		return RedeemResult{}, err
	}
	if e.state.RedeemPaused {
		return RedeemResult{}, ErrRedeemPaused
	}
	if err := e.checkFreshness(ctx); err != nil {
		return RedeemResult{}, err
	}
	if levIn == 0 {
		return RedeemResult{}, ErrZeroAmount
	}

	snap, err := PriceState(e.state)
	if err != nil {
		return RedeemResult{}, err
	}
	if snap.TVLSol < snap.LiabilitySol {
		return RedeemResult{}, ErrInsolventProtocol
	}

	solOut, err := MulDivDown(levIn, snap.LevNAV, SOLPrecision)
	if err != nil {
		return RedeemResult{}, err
	}
	lstOutGross, err := MulDivDown(solOut, SOLPrecision, e.state.LstToSolRate)
	if err != nil {
		return RedeemResult{}, err
	}
	if lstOutGross < MinLSTOut {
		return RedeemResult{}, ErrAmountTooSmall
	}

	feeBps, err := EffectiveFeeBps(FeeParams{
		BaseFeeBps:          e.state.FeeLevRedeemBps,
		Direction:           RiskIncreasing,
		CRBps:               snap.CRBps,
		TargetCRBps:         e.state.TargetCRBps,
		MinCRBps:            e.state.MinCRBps,
		FeeMinMultiplierBps: e.state.FeeMinMultiplierBps,
		FeeMaxMultiplierBps: e.state.FeeMaxMultiplierBps,
		UncertaintyIndexBps: e.state.UncertaintyIndexBps,
		UncertaintyMaxBps:   e.state.UncertaintyMaxBps,
	})
	if err != nil {
		return RedeemResult{}, err
	}

	feeLst, err := MulDivUp(lstOutGross, feeBps, BPSPrecision)
	if err != nil {
		return RedeemResult{}, err
	}
	if feeLst > lstOutGross {
		feeLst = lstOutGross
	}
	userLst := lstOutGross - feeLst

	if userLst < minLstOut {
		return RedeemResult{}, ErrSlippageExceeded
	}

	bal, err := e.adapters.Tokens.Balance(ctx.Caller, e.state.LevMint)
	if err != nil {
		return RedeemResult{}, err
	}
	if bal < levIn {
		return RedeemResult{}, ErrInsufficientSupply
	}
	if e.state.TotalLSTAmount < lstOutGross {
		return RedeemResult{}, ErrInsufficientCollateral
	}

	// Post-state CR check: simulate the new TVL/liability after paying out
	// LST (redeeming LEV is risk-increasing: it removes equity cover).
	postTVL, err := TVLSol(e.state.TotalLSTAmount-lstOutGross, e.state.LstToSolRate)
	if err != nil {
		return RedeemResult{}, err
	}
	postCR, err := CRBps(postTVL, snap.LiabilitySol)
	if err != nil {
		return RedeemResult{}, err
	}
	if postCR < e.state.MinCRBps {
		return RedeemResult{}, ErrCollateralRatioTooLow
	}

	if err := e.adapters.Tokens.Burn(e.state.LevMint, ctx.Caller, levIn); err != nil {
		return RedeemResult{}, err
	}
	if userLst > 0 {
		if err := e.adapters.Tokens.Transfer(e.state.Vault, ctx.Caller, userLst); err != nil {
			return RedeemResult{}, err
		}
	}
	if feeLst > 0 {
		if err := e.adapters.Tokens.Transfer(e.state.Vault, e.state.Treasury, feeLst); err != nil {
			return RedeemResult{}, err
		}
	}

	e.state.LevSupply -= levIn
	e.state.TotalLSTAmount -= lstOutGross
	e.accrueRoundingResidue(lstOutGross, feeBps, feeLst)
	e.finishOp(ctx)

	if err := EnforceInvariants(e.state, e.adapters, true); err != nil {
		return RedeemResult{}, err
	}

	return RedeemResult{GrossAmount: lstOutGross, FeeAmount: feeLst, UserAmount: userLst, FeeBps: feeBps, CRPostBps: postCR}, nil
}

func (e *Engine) checkFreshness(ctx OpContext) error {
	return CheckFreshness(e.state, e.adapters.Clock.Slot(), e.adapters.Clock.Epoch(), ctx.ConfBps)
}

func (e *Engine) finishOp(ctx OpContext) {
	e.state.OperationCounter++
	e.state.LastTVLUpdateSlot = e.adapters.Clock.Slot()
}

// accrueRoundingResidue tracks the integer-division residue kept in the
// protocol's favor by rounding the fee up rather than down (§3 invariant 3,
// §4.1). The residue is capped by MaxRoundingReserveLamports (§3 invariant
// 7); once the cap is reached further residue is simply not accumulated
// rather than rejected, since it is bookkeeping, not a transferable amount.
func (e *Engine) accrueRoundingResidue(gross, feeBps, feeCharged uint64) {
	if feeBps == 0 || gross == 0 {
		return
	}
	floorFee, err := MulDivDown(gross, feeBps, BPSPrecision)
	if err != nil {
		return
	}
	if feeCharged <= floorFee {
		return
	}
	residue := feeCharged - floorFee
	next := e.state.RoundingReserveLamports + residue
	if next > e.state.MaxRoundingReserveLamports {
		next = e.state.MaxRoundingReserveLamports
	}
	e.state.RoundingReserveLamports = next
}
