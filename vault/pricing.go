package vault

// Snapshot is the pure pricing view derived from a GlobalState (§4.2). It is
// the only source of truth consumed by the fee engine and the mint/redeem
// state machine; computing it never mutates state.
type Snapshot struct {
	TotalLST     uint64
	StableSupply uint64
	LevSupply    uint64
	SolUsdPrice  uint64
	LstToSolRate uint64

	TVLSol       uint64
	LiabilitySol uint64
	EquitySol    uint64
	CRBps        uint64
	LevNAV       uint64
}

// Price derives the pricing view from the raw snapshot inputs (§4.2). It is
// a pure function: no GlobalState mutation happens here.
func Price(totalLST, stableSupply, levSupply, solUsdPrice, lstToSolRate uint64) (Snapshot, error) {
	snap := Snapshot{
		TotalLST:     totalLST,
		StableSupply: stableSupply,
		LevSupply:    levSupply,
		SolUsdPrice:  solUsdPrice,
		LstToSolRate: lstToSolRate,
	}
	tvl, err := TVLSol(totalLST, lstToSolRate)
	if err != nil {
		return Snapshot{}, err
	}
	snap.TVLSol = tvl

	var liability uint64
	if stableSupply > 0 {
		liability, err = LiabilitySol(stableSupply, solUsdPrice)
		if err != nil {
			return Snapshot{}, err
		}
	}
	snap.LiabilitySol = liability
	snap.EquitySol = EquitySol(tvl, liability)

	cr, err := CRBps(tvl, liability)
	if err != nil {
		return Snapshot{}, err
	}
	snap.CRBps = cr

	nav, err := LevNAV(snap.EquitySol, levSupply)
	if err != nil {
		return Snapshot{}, err
	}
	snap.LevNAV = nav

	return snap, nil
}

// PriceState derives the pricing view from the live GlobalState.
func PriceState(state *GlobalState) (Snapshot, error) {
	if state == nil {
		return Snapshot{}, ErrNilState
	}
	return Price(state.TotalLSTAmount, state.StableSupply, state.LevSupply, state.SolPriceUsd, state.LstToSolRate)
}
