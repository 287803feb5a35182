package vault

import "testing"

func TestPriceNoLiabilitySentinelCR(t *testing.T) {
	snap, err := Price(1_000*SOLPrecision, 0, 0, 150_000_000, SOLPrecision)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.CRBps != SentinelMax {
		t.Fatalf("expected sentinel CR with zero liability, got %d", snap.CRBps)
	}
	if snap.LevNAV != SOLPrecision {
		t.Fatalf("expected bootstrap NAV with zero LEV supply, got %d", snap.LevNAV)
	}
}

func TestPriceOrdinary(t *testing.T) {
	// 1000 LST at 1:1 LST->SOL, SOL at $100 -> TVL = 1000 SOL = $100,000.
	// 50,000 STABLE outstanding -> liability = 500 SOL -> CR = 1000/500 = 200%.
	snap, err := Price(1_000*SOLPrecision, 50_000*USDPrecision, 0, 100*USDPrecision, SOLPrecision)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.TVLSol != 1_000*SOLPrecision {
		t.Fatalf("unexpected TVL: %d", snap.TVLSol)
	}
	if snap.LiabilitySol != 500*SOLPrecision {
		t.Fatalf("unexpected liability: %d", snap.LiabilitySol)
	}
	if snap.CRBps != 20_000 {
		t.Fatalf("expected 200%% CR (20000 bps), got %d", snap.CRBps)
	}
	if snap.EquitySol != 500*SOLPrecision {
		t.Fatalf("unexpected equity: %d", snap.EquitySol)
	}
}

func TestPriceInsolventEquityFloored(t *testing.T) {
	// TVL less than liability: equity floors at zero rather than going negative.
	snap, err := Price(100*SOLPrecision, 50_000*USDPrecision, 0, 100*USDPrecision, SOLPrecision)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.EquitySol != 0 {
		t.Fatalf("expected equity floored at 0, got %d", snap.EquitySol)
	}
	if snap.CRBps >= BPSPrecision {
		t.Fatalf("expected CR below 100%%, got %d", snap.CRBps)
	}
}

func TestPriceStateNilGuard(t *testing.T) {
	if _, err := PriceState(nil); err != ErrNilState {
		t.Fatalf("expected ErrNilState, got %v", err)
	}
}
