package vault

import (
	"errors"
	"testing"
)

func TestMulDivDownFloors(t *testing.T) {
	got, err := MulDivDown(7, 3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 10 { // 21/2 = 10.5 -> floor 10
		t.Fatalf("expected 10, got %d", got)
	}
}

func TestMulDivUpCeils(t *testing.T) {
	got, err := MulDivUp(7, 3, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 11 { // 21/2 = 10.5 -> ceil 11
		t.Fatalf("expected 11, got %d", got)
	}
}

func TestMulDivExactNoRoundingDifference(t *testing.T) {
	down, err := MulDivDown(10, 10, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	up, err := MulDivUp(10, 10, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if down != up || down != 20 {
		t.Fatalf("expected exact division to agree at 20, got down=%d up=%d", down, up)
	}
}

func TestMulDivDivisionByZero(t *testing.T) {
	if _, err := MulDivDown(1, 1, 0); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
}

func TestMulDivWideningAvoidsOverflow(t *testing.T) {
	huge := uint64(1) << 63
	got, err := MulDivDown(huge, huge, huge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != huge {
		t.Fatalf("expected %d, got %d", huge, got)
	}
}

func TestSaturatingSub(t *testing.T) {
	if got := SaturatingSub(10, 3); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := SaturatingSub(3, 10); got != 0 {
		t.Fatalf("expected saturating floor of 0, got %d", got)
	}
	if got := SaturatingSub(5, 5); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestCRBpsSentinelWhenLiabilityZero(t *testing.T) {
	got, err := CRBps(1_000, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != SentinelMax {
		t.Fatalf("expected SentinelMax, got %d", got)
	}
}

func TestCRBpsOrdinary(t *testing.T) {
	got, err := CRBps(15_000, 10_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 15_000 {
		t.Fatalf("expected 15000 bps (150%%), got %d", got)
	}
}

func TestLevNAVBootstrap(t *testing.T) {
	got, err := LevNAV(0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != SOLPrecision {
		t.Fatalf("expected 1:1 bootstrap NAV, got %d", got)
	}
}

func TestLevNAVOrdinary(t *testing.T) {
	got, err := LevNAV(2*SOLPrecision, SOLPrecision)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 2*SOLPrecision {
		t.Fatalf("expected 2x NAV, got %d", got)
	}
}
