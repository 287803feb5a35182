package vault

// EnforceInvariants re-derives the accounting relationships that must hold
// after every state mutation (§3, §8) and fails closed if any of them does
// not. enforceCRFloor is false for risk-reducing operations and for the
// haircut path, both of which are allowed to leave (or find) CR below
// min_cr_bps (§4.6).
func EnforceInvariants(state *GlobalState, adapters Adapters, enforceCRFloor bool) error {
	if state == nil {
		return ErrNilState
	}

	if adapters.Tokens != nil {
		vaultBal, err := adapters.Tokens.Balance(state.Vault, state.SupportedLSTMint)
		if err == nil && vaultBal != state.TotalLSTAmount {
			return ErrInvariantBroken
		}
		stableSupply, err := adapters.Tokens.Supply(state.StableMint)
		if err == nil && stableSupply != state.StableSupply {
			return ErrInvariantBroken
		}
		levSupply, err := adapters.Tokens.Supply(state.LevMint)
		if err == nil && levSupply != state.LevSupply {
			return ErrInvariantBroken
		}
	}

	snap, err := PriceState(state)
	if err != nil {
		return err
	}

	// TVL >= Liability + Equity, within a small tolerance, holds by
	// construction whenever the protocol is solvent (equity is defined as
	// TVL - Liability floored at zero). Once CR < 100% the pool is, by
	// definition, short of its liability; that gap is exactly what the
	// haircut path exists to unwind, so the check is skipped rather than
	// tripped on every redemption during an unwind.
	if snap.CRBps >= BPSPrecision {
		sum := snap.LiabilitySol + snap.EquitySol
		tolerance := snap.TVLSol / 10_000
		if tolerance < 1_000 {
			tolerance = 1_000
		}
		if sum > snap.TVLSol && sum-snap.TVLSol > tolerance {
			return ErrInvariantBroken
		}
	}

	// Invariant 5 (§3): min_cr_bps >= 10_000 must hold unconditionally,
	// independent of enforceCRFloor, which only gates the *current* CR
	// against the floor, not the floor's own validity.
	if state.MinCRBps < BPSPrecision {
		return ErrInvariantBroken
	}

	if enforceCRFloor && snap.CRBps < state.MinCRBps {
		return ErrInvariantBroken
	}

	if state.RoundingReserveLamports > state.MaxRoundingReserveLamports {
		return ErrInvariantBroken
	}

	return nil
}
