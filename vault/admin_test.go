package vault

import (
	"errors"
	"testing"
)

func TestInitializeRejectsSecondCall(t *testing.T) {
	e, _, _ := newTestEngine(t, 0)
	err := e.Initialize(authorityAddr, treasuryAddr, stableMintAddr, levMintAddr, lstMintAddr, vaultAddr, vaultAuthAddr,
		11_000, 15_000, 100*USDPrecision, SOLPrecision)
	if !errors.Is(err, ErrAlreadyInitialized) {
		t.Fatalf("expected ErrAlreadyInitialized, got %v", err)
	}
}

func TestInitializeRejectsInvertedCRPolicy(t *testing.T) {
	e := NewEngine(Adapters{Tokens: newTestLedger(), Clock: &testClock{}, Constraints: DefaultConstraintChecker()})
	err := e.Initialize(authorityAddr, treasuryAddr, stableMintAddr, levMintAddr, lstMintAddr, vaultAddr, vaultAuthAddr,
		15_000, 11_000, 100*USDPrecision, SOLPrecision)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestUpdateParametersRejectsUnauthorizedCaller(t *testing.T) {
	e, _, _ := newTestEngine(t, 0)
	err := e.UpdateParameters(userAddr, AdminParams{
		MinCRBps: 11_000, TargetCRBps: 15_000,
		FeeMinMultiplierBps: 10_000, FeeMaxMultiplierBps: 40_000,
		MaxOracleStalenessSlots: 150, MaxLSTStaleEpochs: 2,
	})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUpdateParametersAppliesByAuthority(t *testing.T) {
	e, _, _ := newTestEngine(t, 0)
	err := e.UpdateParameters(authorityAddr, AdminParams{
		MinCRBps: 12_000, TargetCRBps: 16_000,
		FeeStableMintBps: 50, FeeStableRedeemBps: 50, FeeLevMintBps: 50, FeeLevRedeemBps: 50,
		FeeMinMultiplierBps: 10_000, FeeMaxMultiplierBps: 50_000,
		MaxOracleStalenessSlots: 300, MaxLSTStaleEpochs: 4,
		MaxRoundingReserveLamports: 2_000_000_000,
	})
	if err != nil {
		t.Fatalf("UpdateParameters: %v", err)
	}
	if e.state.MinCRBps != 12_000 || e.state.TargetCRBps != 16_000 {
		t.Fatalf("expected policy to update, got min=%d target=%d", e.state.MinCRBps, e.state.TargetCRBps)
	}
}

func TestEmergencyPauseIndependentFlags(t *testing.T) {
	e, _, _ := newTestEngine(t, 1_000*SOLPrecision)
	seedLevEquity(t, e)
	if err := e.EmergencyPause(authorityAddr, false, true); err != nil {
		t.Fatalf("EmergencyPause: %v", err)
	}
	if _, err := e.MintStable(opCtx(), 100*SOLPrecision, 0); err != nil {
		t.Fatalf("expected mint to still succeed while only redeem paused: %v", err)
	}
	if _, err := e.RedeemStable(opCtx(), 1, 0); !errors.Is(err, ErrRedeemPaused) {
		t.Fatalf("expected ErrRedeemPaused, got %v", err)
	}
}

func TestSyncExchangeRateAdvancesFreshnessCursor(t *testing.T) {
	e, _, clock := newTestEngine(t, 0)
	clock.epoch += 1
	if err := e.SyncExchangeRate(authorityAddr, 1_100_000_000, clock.epoch); err != nil {
		t.Fatalf("SyncExchangeRate: %v", err)
	}
	if e.state.LstToSolRate != 1_100_000_000 {
		t.Fatalf("expected updated LST rate, got %d", e.state.LstToSolRate)
	}
	if e.state.LastLSTSyncEpoch != clock.epoch {
		t.Fatalf("expected freshness cursor to advance to %d, got %d", clock.epoch, e.state.LastLSTSyncEpoch)
	}
}

func TestUpdatePricesRejectsUnauthorized(t *testing.T) {
	e, _, _ := newTestEngine(t, 0)
	if err := e.UpdatePrices(userAddr, 200*USDPrecision, SOLPrecision, 0, 1_000); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestUpdatePricesRejectsZeroValues(t *testing.T) {
	e, _, _ := newTestEngine(t, 0)
	if err := e.UpdatePrices(authorityAddr, 0, SOLPrecision, 0, 1_000); !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount for zero sol_usd, got %v", err)
	}
	if err := e.UpdatePrices(authorityAddr, 200*USDPrecision, 0, 0, 1_000); !errors.Is(err, ErrZeroAmount) {
		t.Fatalf("expected ErrZeroAmount for zero lst_rate, got %v", err)
	}
}

func TestUpdatePricesRefreshesAtomically(t *testing.T) {
	e, _, _ := newTestEngine(t, 0)
	if err := e.UpdatePrices(authorityAddr, 200*USDPrecision, 1_100_000_000, 50, 2_000); err != nil {
		t.Fatalf("UpdatePrices: %v", err)
	}
	if e.state.SolPriceUsd != 200*USDPrecision || e.state.LstToSolRate != 1_100_000_000 ||
		e.state.LastOracleConfBps != 50 || e.state.LastOracleUpdateSlot != 2_000 {
		t.Fatalf("expected every cursor to refresh together, got %+v", e.state)
	}
}

func TestInitializeRejectsMinCRBpsBelowFloor(t *testing.T) {
	e := NewEngine(Adapters{Tokens: newTestLedger(), Clock: &testClock{}, Constraints: DefaultConstraintChecker()})
	err := e.Initialize(authorityAddr, treasuryAddr, stableMintAddr, levMintAddr, lstMintAddr, vaultAddr, vaultAuthAddr,
		5_000, 15_000, 100*USDPrecision, SOLPrecision)
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for min_cr_bps below 10_000, got %v", err)
	}
}

func TestUpdateParametersRejectsMinCRBpsBelowFloor(t *testing.T) {
	e, _, _ := newTestEngine(t, 0)
	err := e.UpdateParameters(authorityAddr, AdminParams{
		MinCRBps: 9_000, TargetCRBps: 15_000,
		FeeMinMultiplierBps: 10_000, FeeMaxMultiplierBps: 40_000,
		MaxOracleStalenessSlots: 150, MaxLSTStaleEpochs: 2,
	})
	if !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for min_cr_bps below 10_000, got %v", err)
	}
}
