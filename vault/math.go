package vault

import "github.com/holiman/uint256"

// MulDivDown computes floor(a*b/c) using a 256-bit widening intermediate so
// that a*b never overflows before the division (§4.1). c == 0 is always a
// DivisionByZero; callers that treat c == 0 as a sentinel must check before
// calling.
func MulDivDown(a, b, c uint64) (uint64, error) {
	return mulDiv(a, b, c, false)
}

// MulDivUp computes ceil(a*b/c) using the same widening intermediate as
// MulDivDown (§4.1).
func MulDivUp(a, b, c uint64) (uint64, error) {
	return mulDiv(a, b, c, true)
}

func mulDiv(a, b, c uint64, roundUp bool) (uint64, error) {
	if c == 0 {
		return 0, ErrDivisionByZero
	}
	prod := new(uint256.Int).Mul(uint256.NewInt(a), uint256.NewInt(b))
	divisor := uint256.NewInt(c)
	quot, rem := new(uint256.Int).DivMod(prod, divisor, new(uint256.Int))
	if roundUp && !rem.IsZero() {
		quot.AddUint64(quot, 1)
	}
	if !quot.IsUint64() {
		return 0, ErrMathOverflow
	}
	return quot.Uint64(), nil
}

// SaturatingSub returns max(0, a-b) without underflowing (§4.1 equity_sol).
func SaturatingSub(a, b uint64) uint64 {
	if b >= a {
		return 0
	}
	return a - b
}

// TVLSol computes the SOL value of the vault's LST holdings (§4.1).
func TVLSol(totalLST, lstToSolRate uint64) (uint64, error) {
	return MulDivDown(totalLST, lstToSolRate, SOLPrecision)
}

// LiabilitySol computes the SOL value of outstanding STABLE supply, rounded
// up because it increases accounted protocol liability (§4.1).
func LiabilitySol(stableSupply, solUsdPrice uint64) (uint64, error) {
	if solUsdPrice == 0 {
		return 0, ErrDivisionByZero
	}
	return MulDivUp(stableSupply, SOLPrecision, solUsdPrice)
}

// EquitySol computes TVL - Liability floored at zero (§4.1).
func EquitySol(tvlSol, liabilitySol uint64) uint64 {
	return SaturatingSub(tvlSol, liabilitySol)
}

// CRBps computes the collateral ratio in basis points, sentinel-infinite
// when no liability exists (§4.1).
func CRBps(tvlSol, liabilitySol uint64) (uint64, error) {
	if liabilitySol == 0 {
		return SentinelMax, nil
	}
	return MulDivDown(tvlSol, BPSPrecision, liabilitySol)
}

// LevNAV computes the SOL value of one LEV unit, defined as SOLPrecision
// (1:1 with SOL) when no LEV has been minted yet (§4.1).
func LevNAV(equitySol, levSupply uint64) (uint64, error) {
	if levSupply == 0 {
		return SOLPrecision, nil
	}
	return MulDivDown(equitySol, SOLPrecision, levSupply)
}
