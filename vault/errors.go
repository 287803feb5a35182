package vault

import "errors"

// Auth / context errors.
var (
	ErrUnauthorized      = errors.New("vault: authority mismatch")
	ErrInvalidCPIContext = errors.New("vault: operation not invoked at top level")
	ErrConstraintAddress = errors.New("vault: account key mismatch")
)

// Pause errors.
var (
	ErrMintPaused   = errors.New("vault: mint operations paused")
	ErrRedeemPaused = errors.New("vault: redeem operations paused")
)

// Input errors.
var (
	ErrZeroAmount             = errors.New("vault: amount must be positive")
	ErrAmountTooSmall         = errors.New("vault: amount below dust floor")
	ErrSlippageExceeded       = errors.New("vault: output below minimum requested")
	ErrInsufficientCollateral = errors.New("vault: insufficient LST balance")
	ErrInsufficientSupply     = errors.New("vault: insufficient token balance")
)

// Safety errors.
var (
	ErrCollateralRatioTooLow = errors.New("vault: collateral ratio below minimum")
	ErrInsolventProtocol     = errors.New("vault: protocol insolvent for this operation")
	ErrBelowMinimumTVL       = errors.New("vault: resulting TVL below minimum")
)

// Freshness errors.
var (
	ErrOraclePriceStale        = errors.New("vault: oracle price snapshot stale")
	ErrOracleConfidenceTooWide = errors.New("vault: oracle confidence exceeds bound")
	ErrLstRateStale            = errors.New("vault: LST exchange rate stale")
)

// Admin errors.
var (
	ErrInvalidParameter   = errors.New("vault: invalid parameter")
	ErrAlreadyInitialized = errors.New("vault: global state already initialized")
)

// Arithmetic errors.
var (
	ErrMathOverflow   = errors.New("vault: arithmetic overflow")
	ErrDivisionByZero = errors.New("vault: division by zero")
)

// Internal/bookkeeping errors required by the adapter-shaped design.
var (
	ErrNilState        = errors.New("vault: global state not initialized")
	ErrNilAdapters     = errors.New("vault: external adapters not configured")
	ErrInvariantBroken = errors.New("vault: post-operation invariant violated")
)
