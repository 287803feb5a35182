package vault

// The host runtime's account/key model, token-mint primitives, signature
// verification, compute-budget framing, ATA derivation, and network
// transport are explicitly out of scope (§1, §9). The core depends only on
// the small set of capabilities below; a real integration resolves these
// against whatever runtime it embeds, tests swap in an in-memory double.

// TokenLedger captures the mint/burn/transfer/supply/balance capabilities
// the core needs from the host's token primitives (§6, §9).
type TokenLedger interface {
	Transfer(from, to Address, amount uint64) error
	Mint(mint Address, to Address, amount uint64) error
	Burn(mint Address, from Address, amount uint64) error
	Supply(mint Address) (uint64, error)
	Balance(owner, mint Address) (uint64, error)
}

// ClockSource exposes the current slot/epoch, standing in for the runtime's
// clock sysvar (§6, §9).
type ClockSource interface {
	Slot() uint64
	Epoch() uint64
}

// InstructionContext exposes the invoking instruction's position within its
// enclosing transaction, the minimal surface the CPI guard (§4.5 step 1)
// needs. Preamble compute-budget instructions are permitted because they
// never invoke this program, so they do not appear in InstructionIndex.
type InstructionContext interface {
	// InstructionIndex is this program's index within the ordered list of
	// instructions that invoke it in the current transaction.
	InstructionIndex() uint32
}

// AccountConstraintChecker compares an expected account key against the one
// actually supplied, standing in for the runtime's account-constraint
// checks (§6).
type AccountConstraintChecker interface {
	CheckAddress(expected, actual Address) error
}

// VaultAuthority is an opaque handle over the vault's program-derived
// signing authority (§9). The core never derives or inspects the key
// material itself. The engine does not take a VaultAuthority: it moves vault
// tokens through TokenLedger, and GlobalState.VaultAuthority records the key.
type VaultAuthority interface {
	Address() Address
}

// Adapters bundles every external capability the engine needs, wired once
// at construction time.
type Adapters struct {
	Tokens      TokenLedger
	Clock       ClockSource
	Constraints AccountConstraintChecker
}

func (a *Adapters) validate() error {
	if a == nil || a.Tokens == nil || a.Clock == nil {
		return ErrNilAdapters
	}
	return nil
}

// staticConstraintChecker is the trivial AccountConstraintChecker used when
// the caller does not need key-equality enforcement beyond what the engine
// itself already checks (Authority comparisons).
type staticConstraintChecker struct{}

func (staticConstraintChecker) CheckAddress(expected, actual Address) error {
	if expected != actual {
		return ErrConstraintAddress
	}
	return nil
}

// DefaultConstraintChecker returns the basic byte-equality checker used when
// no richer adapter is supplied.
func DefaultConstraintChecker() AccountConstraintChecker {
	return staticConstraintChecker{}
}
