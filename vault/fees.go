package vault

// FeeParams bundles the inputs the fee engine needs beyond the current CR
// snapshot (§4.4).
type FeeParams struct {
	BaseFeeBps          uint64
	Direction           Direction
	CRBps               uint64
	TargetCRBps         uint64
	MinCRBps            uint64
	FeeMinMultiplierBps uint64
	FeeMaxMultiplierBps uint64
	UncertaintyIndexBps uint64
	UncertaintyMaxBps   uint64
}

// EffectiveFeeBps derives the effective fee in basis points from the current
// collateral ratio and oracle uncertainty (§4.4). It is a pure function of
// its inputs: no ambient state, no mutation, making it trivial to property
// test in isolation from the mint/redeem state machine.
func EffectiveFeeBps(p FeeParams) (uint64, error) {
	crMult, err := crMultiplier(p)
	if err != nil {
		return 0, err
	}

	uncMult := uint64(BPSPrecision)
	if p.Direction == RiskIncreasing {
		uncMult, err = uncertaintyMultiplier(p.UncertaintyIndexBps, p.UncertaintyMaxBps)
		if err != nil {
			return 0, err
		}
	}

	totalMult, err := MulDivDown(crMult, uncMult, BPSPrecision)
	if err != nil {
		return 0, err
	}

	switch p.Direction {
	case RiskIncreasing:
		if totalMult < BPSPrecision {
			totalMult = BPSPrecision
		}
	case RiskReducing:
		if totalMult > BPSPrecision {
			totalMult = BPSPrecision
		}
	}

	totalMult = clampBps(totalMult, p.FeeMinMultiplierBps, p.FeeMaxMultiplierBps)

	return MulDivDown(p.BaseFeeBps, totalMult, BPSPrecision)
}

// crMultiplier implements the piecewise-linear CR-derived multiplier
// described in §4.4.
func crMultiplier(p FeeParams) (uint64, error) {
	if p.CRBps >= p.TargetCRBps {
		return BPSPrecision, nil
	}

	switch p.Direction {
	case RiskIncreasing:
		if p.CRBps <= p.MinCRBps {
			return p.FeeMaxMultiplierBps, nil
		}
		return interpolate(p.CRBps, p.MinCRBps, p.TargetCRBps, p.FeeMaxMultiplierBps, BPSPrecision)
	default: // RiskReducing
		if p.CRBps <= p.MinCRBps {
			return p.FeeMinMultiplierBps, nil
		}
		return interpolate(p.CRBps, p.MinCRBps, p.TargetCRBps, p.FeeMinMultiplierBps, BPSPrecision)
	}
}

// interpolate returns the linear interpolation of cr within [minCR, targetCR]
// between valueAtMin (cr == minCR) and valueAtTarget (cr == targetCR). Callers
// guarantee minCR < cr < targetCR.
func interpolate(cr, minCR, targetCR, valueAtMin, valueAtTarget uint64) (uint64, error) {
	span := targetCR - minCR
	if span == 0 {
		return valueAtTarget, nil
	}
	progressFromMin := cr - minCR // 0 at minCR, span at targetCR

	if valueAtTarget >= valueAtMin {
		delta := valueAtTarget - valueAtMin
		add, err := MulDivDown(delta, progressFromMin, span)
		if err != nil {
			return 0, err
		}
		return valueAtMin + add, nil
	}
	delta := valueAtMin - valueAtTarget
	sub, err := MulDivDown(delta, progressFromMin, span)
	if err != nil {
		return 0, err
	}
	return valueAtMin - sub, nil
}

// uncertaintyMultiplier implements the risk-increasing uncertainty scaler
// (§4.4); risk-reducing ops never see a discount from oracle uncertainty.
func uncertaintyMultiplier(uncertaintyIndexBps, uncertaintyMaxBps uint64) (uint64, error) {
	delta, err := MulDivDown(uncertaintyIndexBps, BPSPrecision, UncertaintyK)
	if err != nil {
		return 0, err
	}
	mult := BPSPrecision + delta
	return clampBps(mult, BPSPrecision, uncertaintyMaxBps), nil
}

func clampBps(value, min, max uint64) uint64 {
	if max > 0 && value > max {
		value = max
	}
	if value < min {
		value = min
	}
	return value
}
