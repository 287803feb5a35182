package vault

import "testing"

func baseFeeParams(direction Direction, crBps uint64) FeeParams {
	return FeeParams{
		BaseFeeBps:          30,
		Direction:           direction,
		CRBps:               crBps,
		TargetCRBps:         15_000,
		MinCRBps:            11_000,
		FeeMinMultiplierBps: 10_000,
		FeeMaxMultiplierBps: 40_000,
		UncertaintyIndexBps: 0,
		UncertaintyMaxBps:   20_000,
	}
}

func TestEffectiveFeeBpsAtOrAboveTargetIsBase(t *testing.T) {
	got, err := EffectiveFeeBps(baseFeeParams(RiskIncreasing, 20_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 30 {
		t.Fatalf("expected base fee 30 bps at/above target CR, got %d", got)
	}
}

func TestEffectiveFeeBpsRiskIncreasingEscalatesBelowTarget(t *testing.T) {
	atTarget, err := EffectiveFeeBps(baseFeeParams(RiskIncreasing, 15_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	midway, err := EffectiveFeeBps(baseFeeParams(RiskIncreasing, 13_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	atMin, err := EffectiveFeeBps(baseFeeParams(RiskIncreasing, 11_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !(atTarget < midway && midway < atMin) {
		t.Fatalf("expected monotonically increasing fee as CR falls toward min: target=%d mid=%d min=%d", atTarget, midway, atMin)
	}
	// At CR == MinCRBps the multiplier saturates at FeeMaxMultiplierBps (4x).
	if atMin != 30*4 {
		t.Fatalf("expected 4x base fee at CR floor, got %d", atMin)
	}
}

func TestEffectiveFeeBpsRiskIncreasingClampsBelowMin(t *testing.T) {
	got, err := EffectiveFeeBps(baseFeeParams(RiskIncreasing, 5_000))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 30*4 {
		t.Fatalf("expected multiplier to clamp at FeeMaxMultiplierBps below CR floor, got %d", got)
	}
}

func TestEffectiveFeeBpsRiskReducingDiscountsBelowTarget(t *testing.T) {
	// The default 1x FeeMinMultiplierBps leaves no room for a discount, so
	// this test lowers the floor to 0.5x.
	targetParams := baseFeeParams(RiskReducing, 15_000)
	targetParams.FeeMinMultiplierBps = 5_000
	minParams := baseFeeParams(RiskReducing, 11_000)
	minParams.FeeMinMultiplierBps = 5_000
	atTarget, err := EffectiveFeeBps(targetParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	atMin, err := EffectiveFeeBps(minParams)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if atMin >= atTarget {
		t.Fatalf("expected risk-reducing fee to fall toward min CR: target=%d min=%d", atTarget, atMin)
	}
	// FeeMinMultiplierBps is 5_000 (0.5x), so the discount floor is half the base fee.
	if atMin != 15 {
		t.Fatalf("expected discount to floor at half the base fee, got %d", atMin)
	}
}

func TestUncertaintyMultiplierOnlyAppliesToRiskIncreasing(t *testing.T) {
	params := baseFeeParams(RiskIncreasing, 20_000)
	params.UncertaintyIndexBps = 5_000
	withUncertainty, err := EffectiveFeeBps(params)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withUncertainty <= 30 {
		t.Fatalf("expected oracle uncertainty to raise the fee above base, got %d", withUncertainty)
	}

	reducing := baseFeeParams(RiskReducing, 20_000)
	reducing.UncertaintyIndexBps = 5_000
	noUncertaintyEffect, err := EffectiveFeeBps(reducing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if noUncertaintyEffect != 30 {
		t.Fatalf("expected risk-reducing ops to ignore oracle uncertainty, got %d", noUncertaintyEffect)
	}
}

func TestClampBps(t *testing.T) {
	if got := clampBps(50, 10, 40); got != 40 {
		t.Fatalf("expected clamp to max 40, got %d", got)
	}
	if got := clampBps(5, 10, 40); got != 10 {
		t.Fatalf("expected clamp to min 10, got %d", got)
	}
	if got := clampBps(25, 10, 40); got != 25 {
		t.Fatalf("expected value within range unchanged, got %d", got)
	}
}
