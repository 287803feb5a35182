package vault

import (
	"errors"
	"testing"
)

func TestEnforceInvariantsNilStateGuard(t *testing.T) {
	if err := EnforceInvariants(nil, Adapters{}, true); !errors.Is(err, ErrNilState) {
		t.Fatalf("expected ErrNilState, got %v", err)
	}
}

func TestEnforceInvariantsRoundingReserveCap(t *testing.T) {
	e, _, _ := newTestEngine(t, 1_000*SOLPrecision)
	e.state.RoundingReserveLamports = e.state.MaxRoundingReserveLamports + 1
	if err := EnforceInvariants(e.state, e.adapters, false); !errors.Is(err, ErrInvariantBroken) {
		t.Fatalf("expected ErrInvariantBroken on rounding reserve overflow, got %v", err)
	}
}

func TestEnforceInvariantsCRFloorOnlyWhenRequested(t *testing.T) {
	e, tokens, _ := newTestEngine(t, 1_000*SOLPrecision)
	// Force CR below the floor synthetically and confirm the floor check is
	// the thing that trips, not some other invariant. The ledger balance is
	// kept in sync with the synthetic state so the vault/supply-sync
	// invariant does not trip first.
	e.state.TotalLSTAmount = 50 * SOLPrecision
	e.state.StableSupply = 10_000 * USDPrecision
	tokens.fund(vaultAddr, lstMintAddr, 50*SOLPrecision)
	tokens.Mint(stableMintAddr, userAddr, 10_000*USDPrecision)

	if err := EnforceInvariants(e.state, e.adapters, false); err != nil {
		t.Fatalf("expected no error when CR floor enforcement is skipped, got %v", err)
	}
	if err := EnforceInvariants(e.state, e.adapters, true); !errors.Is(err, ErrInvariantBroken) {
		t.Fatalf("expected ErrInvariantBroken when CR floor enforcement requested, got %v", err)
	}
}

func TestEnforceInvariantsSkipsBalanceCheckWhenInsolvent(t *testing.T) {
	e, tokens, _ := newTestEngine(t, 0)
	// TVL far below liability (protocol insolvent): the TVL >= Liability +
	// Equity check is explicitly skipped here, since equity floors at zero
	// and the gap is exactly what the haircut path exists to unwind.
	e.state.TotalLSTAmount = 10 * SOLPrecision
	e.state.StableSupply = 10_000 * USDPrecision
	tokens.fund(vaultAddr, lstMintAddr, 10*SOLPrecision)
	tokens.Mint(stableMintAddr, userAddr, 10_000*USDPrecision)
	if err := EnforceInvariants(e.state, e.adapters, false); err != nil {
		t.Fatalf("expected insolvency to not trip the balance-sheet invariant, got %v", err)
	}
}
