package vault

// CheckFreshness validates oracle staleness/confidence and LST-rate
// staleness before any mint/redeem operation (§4.3). confBps is the
// oracle-reported confidence interval in basis points; pass 0 to skip the
// confidence check when the caller's oracle feed does not provide one.
func CheckFreshness(state *GlobalState, currentSlot, currentEpoch uint64, confBps uint64) error {
	if state == nil {
		return ErrNilState
	}
	if currentSlot < state.LastOracleUpdateSlot {
		return ErrOraclePriceStale
	}
	if currentSlot-state.LastOracleUpdateSlot > state.MaxOracleStalenessSlots {
		return ErrOraclePriceStale
	}
	if confBps > 0 && confBps > state.MaxConfBps {
		return ErrOracleConfidenceTooWide
	}
	if currentEpoch < state.LastLSTSyncEpoch {
		return ErrLstRateStale
	}
	if currentEpoch-state.LastLSTSyncEpoch > state.MaxLSTStaleEpochs {
		return ErrLstRateStale
	}
	return nil
}

// SyncExchangeRate refreshes the LST-rate cache cursor (§4.3, §4.7). The
// caller is expected to have already refreshed the cached exchange rate via
// the adapter-resolved oracle read; this operation only advances the
// freshness cursor — a refresh is always an explicit call, never an
// implicit side effect of reading state.
func SyncExchangeRate(state *GlobalState, currentEpoch uint64) error {
	if state == nil {
		return ErrNilState
	}
	state.LastLSTSyncEpoch = currentEpoch
	return nil
}
