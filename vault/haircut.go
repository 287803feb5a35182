package vault

// RedeemStable converts STABLE back into LST (§4.5 "Redeem STABLE"). Under
// normal conditions (CR >= 100%) this is the risk-reducing fee-bearing path;
// once the protocol is undercollateralized (CR < 100%, §4.6) it switches to
// the zero-fee pro-rata haircut so senior-tranche holders are paid out of
// whatever collateral remains rather than racing each other to the exit.
func (e *Engine) RedeemStable(ctx OpContext, stableIn, minLstOut uint64) (RedeemResult, error) {
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
	if stableIn == 0 {
		return RedeemResult{}, ErrZeroAmount
	}

	bal, err := e.adapters.Tokens.Balance(ctx.Caller, e.state.StableMint)
	if err != nil {
		return RedeemResult{}, err
	}
	if bal < stableIn {
		return RedeemResult{}, ErrInsufficientSupply
	}
	if e.state.StableSupply < stableIn {
		return RedeemResult{}, ErrInsufficientSupply
	}

	snap, err := PriceState(e.state)
	if err != nil {
		return RedeemResult{}, err
	}

	if snap.CRBps < BPSPrecision {
		return e.redeemStableHaircut(ctx, stableIn, minLstOut, snap)
	}
	return e.redeemStableNormal(ctx, stableIn, minLstOut, snap)
}

func (e *Engine) redeemStableNormal(ctx OpContext, stableIn, minLstOut uint64, snap Snapshot) (RedeemResult, error) {
	if stableIn < MinStableMint {
		return RedeemResult{}, ErrAmountTooSmall
	}

	solOut, err := MulDivDown(stableIn, SOLPrecision, e.state.SolPriceUsd)
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
		BaseFeeBps:          e.state.FeeStableRedeemBps,
		Direction:           RiskReducing,
		CRBps:               snap.CRBps,
		TargetCRBps:         e.state.TargetCRBps,
		MinCRBps:            e.state.MinCRBps,
		FeeMinMultiplierBps: e.state.FeeMinMultiplierBps,
		FeeMaxMultiplierBps: e.state.FeeMaxMultiplierBps,
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
	if e.state.TotalLSTAmount < lstOutGross {
		return RedeemResult{}, ErrInsufficientCollateral
	}

	if err := e.adapters.Tokens.Burn(e.state.StableMint, ctx.Caller, stableIn); err != nil {
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

	e.state.StableSupply -= stableIn
	e.state.TotalLSTAmount -= lstOutGross
	e.accrueRoundingResidue(lstOutGross, feeBps, feeLst)
	e.finishOp(ctx)

	if err := EnforceInvariants(e.state, e.adapters, false); err != nil {
		return RedeemResult{}, err
	}

	return RedeemResult{GrossAmount: lstOutGross, FeeAmount: feeLst, UserAmount: userLst, FeeBps: feeBps, CRPostBps: snap.CRBps}, nil
}

// redeemStableHaircut pays STABLE holders their pro-rata share of the
// remaining LST pool with no fee (§4.6). Because the pool no longer fully
// covers the liability, every redeemer — regardless of order — receives the
// same discounted rate, removing the incentive to race for the exit.
func (e *Engine) redeemStableHaircut(ctx OpContext, stableIn, minLstOut uint64, snap Snapshot) (RedeemResult, error) {
	lstOut, err := MulDivDown(stableIn, e.state.TotalLSTAmount, e.state.StableSupply)
	if err != nil {
		return RedeemResult{}, err
	}
	if lstOut < minLstOut {
		return RedeemResult{}, ErrSlippageExceeded
	}
	if e.state.TotalLSTAmount < lstOut {
		return RedeemResult{}, ErrInsufficientCollateral
	}

	if err := e.adapters.Tokens.Burn(e.state.StableMint, ctx.Caller, stableIn); err != nil {
		return RedeemResult{}, err
	}
	if lstOut > 0 {
		if err := e.adapters.Tokens.Transfer(e.state.Vault, ctx.Caller, lstOut); err != nil {
			return RedeemResult{}, err
		}
	}

	e.state.StableSupply -= stableIn
	e.state.TotalLSTAmount -= lstOut
	e.finishOp(ctx)

	// The post-op CR floor is the one invariant the haircut is explicitly
	// exempt from (§4.6, §8): it exists precisely to let CR stay below
	// min_cr_bps while the pool unwinds pro-rata.
	if err := EnforceInvariants(e.state, e.adapters, false); err != nil {
		return RedeemResult{}, err
	}

	return RedeemResult{GrossAmount: lstOut, FeeAmount: 0, UserAmount: lstOut, FeeBps: 0, CRPostBps: snap.CRBps, Haircut: true}, nil
}
