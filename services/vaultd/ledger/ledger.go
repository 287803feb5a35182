// Package ledger provides the standalone vaultd daemon's adapter
// implementations of vault.TokenLedger, vault.ClockSource and
// vault.InstructionContext — an in-process balance sheet standing in for
// the host runtime's token program and clock sysvar (§6, §9). A real
// integration swaps this package out for one backed by the actual chain
// runtime; the core engine is unaware of the difference.
package ledger

import (
	"sync"
	"time"

	"cdpvault/vault"
)

type balanceKey struct {
	owner vault.Address
	mint  vault.Address
}

// MemoryLedger is a concurrency-safe in-memory token ledger. The engine's
// TokenLedger.Transfer has no mint parameter because the core only ever
// moves one asset by plain transfer — the supported LST collateral; STABLE
// and LEV only ever move by Mint/Burn. MemoryLedger is told that collateral
// mint at construction, and SetLSTMint can rebind it, so Transfer is
// unambiguous.
type MemoryLedger struct {
	mu       sync.Mutex
	lstMint  vault.Address
	balances map[balanceKey]uint64
	supply   map[vault.Address]uint64
}

// NewMemoryLedger returns an empty ledger whose plain Transfer moves lstMint.
func NewMemoryLedger(lstMint vault.Address) *MemoryLedger {
	return &MemoryLedger{
		lstMint:  lstMint,
		balances: make(map[balanceKey]uint64),
		supply:   make(map[vault.Address]uint64),
	}
}

// SetLSTMint rebinds which mint plain Transfer moves. Called once the
// supported LST mint is known, e.g. right after a successful Initialize.
func (l *MemoryLedger) SetLSTMint(mint vault.Address) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lstMint = mint
}

// Fund credits owner's balance of mint without affecting supply; used to
// seed LST collateral balances for callers in tests and local runs.
func (l *MemoryLedger) Fund(owner, mint vault.Address, amount uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[balanceKey{owner, mint}] += amount
}

// Transfer moves amount of the collateral LST mint from one owner to another.
func (l *MemoryLedger) Transfer(from, to vault.Address, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if amount == 0 {
		return nil
	}
	key := balanceKey{from, l.lstMint}
	if l.balances[key] < amount {
		return vault.ErrInsufficientCollateral
	}
	l.balances[key] -= amount
	l.balances[balanceKey{to, l.lstMint}] += amount
	return nil
}

// Mint increases to's balance and mint's tracked supply.
func (l *MemoryLedger) Mint(mint, to vault.Address, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[balanceKey{to, mint}] += amount
	l.supply[mint] += amount
	return nil
}

// Burn decreases from's balance and mint's tracked supply.
func (l *MemoryLedger) Burn(mint, from vault.Address, amount uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := balanceKey{from, mint}
	if l.balances[key] < amount {
		return vault.ErrInsufficientSupply
	}
	l.balances[key] -= amount
	l.supply[mint] -= amount
	return nil
}

// Supply reports the tracked total supply of mint.
func (l *MemoryLedger) Supply(mint vault.Address) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.supply[mint], nil
}

// Balance reports owner's balance of mint.
func (l *MemoryLedger) Balance(owner, mint vault.Address) (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[balanceKey{owner, mint}], nil
}

// SystemClock reads wall-clock time, mapped onto monotonically increasing
// slot/epoch counters (§6, §9 — a real runtime would read the chain's slot
// and epoch sysvars instead).
type SystemClock struct {
	genesis       time.Time
	slotDuration  time.Duration
	slotsPerEpoch uint64
}

// NewSystemClock builds a clock with the given slot cadence.
func NewSystemClock(slotDuration time.Duration, slotsPerEpoch uint64) *SystemClock {
	return &SystemClock{genesis: time.Now(), slotDuration: slotDuration, slotsPerEpoch: slotsPerEpoch}
}

// Slot returns the elapsed slot count since the clock was constructed.
func (c *SystemClock) Slot() uint64 {
	if c.slotDuration <= 0 {
		return 0
	}
	return uint64(time.Since(c.genesis) / c.slotDuration)
}

// Epoch returns the elapsed epoch count derived from Slot.
func (c *SystemClock) Epoch() uint64 {
	if c.slotsPerEpoch == 0 {
		return 0
	}
	return c.Slot() / c.slotsPerEpoch
}

// TopLevelInstruction is the trivial InstructionContext used by vaultd,
// where every HTTP-triggered call is itself the top-level invocation (there
// is no surrounding transaction to be nested inside).
type TopLevelInstruction struct{}

// InstructionIndex always reports 0 for a directly-invoked HTTP call.
func (TopLevelInstruction) InstructionIndex() uint32 { return 0 }
