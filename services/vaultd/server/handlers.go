package server

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strings"

	"cdpvault/vault"
)

func decodeHex(s string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(s, "0x"))
}

type mintRequest struct {
	Caller    string `json:"caller"`
	LstIn     uint64 `json:"lst_in"`
	MinOut    uint64 `json:"min_out"`
	ConfBps   uint64 `json:"conf_bps"`
}

type redeemStableRequest struct {
	Caller    string `json:"caller"`
	StableIn  uint64 `json:"stable_in"`
	MinLstOut uint64 `json:"min_lst_out"`
	ConfBps   uint64 `json:"conf_bps"`
}

type redeemLevRequest struct {
	Caller    string `json:"caller"`
	LevIn     uint64 `json:"lev_in"`
	MinLstOut uint64 `json:"min_lst_out"`
	ConfBps   uint64 `json:"conf_bps"`
}

func (s *Server) opContext(callerHex string, confBps uint64) vault.OpContext {
	return vault.OpContext{
		Caller:      decodeAddress(callerHex),
		Instruction: s.instruction,
		ConfBps:     confBps,
	}
}

func (s *Server) handleMintStable(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	result, err := s.engine.MintStable(s.opContext(req.Caller, req.ConfBps), req.LstIn, req.MinOut)
	if err != nil {
		s.reject("mint_stable", err)
		s.writeError(w, err)
		return
	}
	s.persist()
	s.observe("mint_stable", result.CRPostBps)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMintLev(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	result, err := s.engine.MintLev(s.opContext(req.Caller, req.ConfBps), req.LstIn, req.MinOut)
	if err != nil {
		s.reject("mint_lev", err)
		s.writeError(w, err)
		return
	}
	s.persist()
	snap, _ := vault.PriceState(s.engine.State())
	s.observe("mint_lev", snap.CRBps)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRedeemStable(w http.ResponseWriter, r *http.Request) {
	var req redeemStableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	result, err := s.engine.RedeemStable(s.opContext(req.Caller, req.ConfBps), req.StableIn, req.MinLstOut)
	if err != nil {
		s.reject("redeem_stable", err)
		s.writeError(w, err)
		return
	}
	s.persist()
	s.observe("redeem_stable", result.CRPostBps)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRedeemLev(w http.ResponseWriter, r *http.Request) {
	var req redeemLevRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	result, err := s.engine.RedeemLev(s.opContext(req.Caller, req.ConfBps), req.LevIn, req.MinLstOut)
	if err != nil {
		s.reject("redeem_lev", err)
		s.writeError(w, err)
		return
	}
	s.persist()
	s.observe("redeem_lev", result.CRPostBps)
	s.writeJSON(w, http.StatusOK, result)
}

type initializeRequest struct {
	Caller           string `json:"caller"`
	Authority        string `json:"authority"`
	Treasury         string `json:"treasury"`
	StableMint       string `json:"stable_mint"`
	LevMint          string `json:"lev_mint"`
	SupportedLSTMint string `json:"supported_lst_mint"`
	Vault            string `json:"vault"`
	VaultAuthority   string `json:"vault_authority"`
	MinCRBps         uint64 `json:"min_cr_bps"`
	TargetCRBps      uint64 `json:"target_cr_bps"`
	InitSolUsd       uint64 `json:"init_sol_usd"`
	InitLstRate      uint64 `json:"init_lst_rate"`
}

func (s *Server) handleInitialize(w http.ResponseWriter, r *http.Request) {
	var req initializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	err := s.engine.Initialize(
		decodeAddress(req.Authority),
		decodeAddress(req.Treasury),
		decodeAddress(req.StableMint),
		decodeAddress(req.LevMint),
		decodeAddress(req.SupportedLSTMint),
		decodeAddress(req.Vault),
		decodeAddress(req.VaultAuthority),
		req.MinCRBps, req.TargetCRBps, req.InitSolUsd, req.InitLstRate,
	)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if s.onInitialize != nil {
		s.onInitialize(decodeAddress(req.SupportedLSTMint))
	}
	s.persist()
	s.writeJSON(w, http.StatusCreated, s.engine.State())
}

type updateParametersRequest struct {
	Caller string           `json:"caller"`
	Params vault.AdminParams `json:"params"`
}

func (s *Server) handleUpdateParameters(w http.ResponseWriter, r *http.Request) {
	var req updateParametersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	if err := s.engine.UpdateParameters(decodeAddress(req.Caller), req.Params); err != nil {
		s.writeError(w, err)
		return
	}
	s.persist()
	s.writeJSON(w, http.StatusOK, s.engine.State())
}

type updatePricesRequest struct {
	Caller       string `json:"caller"`
	SolUsdPrice  uint64 `json:"sol_usd_price"`
	LstToSolRate uint64 `json:"lst_to_sol_rate"`
	ConfBps      uint64 `json:"conf_bps"`
	CurrentSlot  uint64 `json:"current_slot"`
}

func (s *Server) handleUpdatePrices(w http.ResponseWriter, r *http.Request) {
	var req updatePricesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	if err := s.engine.UpdatePrices(decodeAddress(req.Caller), req.SolUsdPrice, req.LstToSolRate, req.ConfBps, req.CurrentSlot); err != nil {
		s.writeError(w, err)
		return
	}
	s.persist()
	s.writeJSON(w, http.StatusOK, s.engine.State())
}

type syncExchangeRateRequest struct {
	Caller       string `json:"caller"`
	LstToSolRate uint64 `json:"lst_to_sol_rate"`
	CurrentEpoch uint64 `json:"current_epoch"`
}

func (s *Server) handleSyncExchangeRate(w http.ResponseWriter, r *http.Request) {
	var req syncExchangeRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	if err := s.engine.SyncExchangeRate(decodeAddress(req.Caller), req.LstToSolRate, req.CurrentEpoch); err != nil {
		s.writeError(w, err)
		return
	}
	s.persist()
	s.writeJSON(w, http.StatusOK, s.engine.State())
}

type pauseRequest struct {
	Caller       string `json:"caller"`
	PauseMint    bool   `json:"pause_mint"`
	PauseRedeem  bool   `json:"pause_redeem"`
}

func (s *Server) handlePause(w http.ResponseWriter, r *http.Request) {
	var req pauseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}
	if err := s.engine.EmergencyPause(decodeAddress(req.Caller), req.PauseMint, req.PauseRedeem); err != nil {
		s.writeError(w, err)
		return
	}
	s.persist()
	s.writeJSON(w, http.StatusOK, s.engine.State())
}
