// Package server exposes the vault engine over HTTP: a Config/New/
// buildRouter/writeJSON shape with a chi router, vaultd's own
// correlation-id and access-log middleware layered between chi's RealIP
// (outermost) and Recoverer (innermost).
package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"cdpvault/observability/metrics"
	"cdpvault/services/vaultd/middleware"
	"cdpvault/vault"
	"cdpvault/vault/store"
)

// Config captures the dependencies required to construct the server.
type Config struct {
	Engine      *vault.Engine
	Instruction vault.InstructionContext
	Store       *store.Store
	Metrics     *metrics.Metrics
	Logger      *slog.Logger
	RateLimiter *middleware.RateLimiter
	// OnInitialize runs after a successful /v1/admin/initialize, letting the
	// caller rebind any adapter state that depends on the chosen mints (e.g.
	// the in-memory ledger's collateral mint).
	OnInitialize func(supportedLSTMint vault.Address)
}

// Server encapsulates vaultd's HTTP API.
type Server struct {
	engine       *vault.Engine
	instruction  vault.InstructionContext
	store        *store.Store
	metrics      *metrics.Metrics
	logger       *slog.Logger
	rateLimiter  *middleware.RateLimiter
	onInitialize func(vault.Address)

	router http.Handler
}

// New constructs a configured HTTP router.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	s := &Server{
		engine:       cfg.Engine,
		instruction:  cfg.Instruction,
		store:        cfg.Store,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
		rateLimiter:  cfg.RateLimiter,
		onInitialize: cfg.OnInitialize,
	}
	s.router = s.buildRouter()
	return s
}

// Handler returns the server's composed http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// route wraps a handler with the metrics middleware labeled by name, when
// metrics are configured; otherwise it returns the handler unchanged.
func (s *Server) route(name string, h http.HandlerFunc) http.HandlerFunc {
	if s.metrics == nil {
		return h
	}
	return s.metrics.Middleware(name)(h).ServeHTTP
}

func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.CorrelationID)
	r.Use(middleware.AccessLog(s.logger))
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.route("healthz", s.handleHealthz))
	r.Get("/state", s.route("state", s.handleState))
	r.Get("/pricing", s.route("pricing", s.handlePricing))

	r.Route("/v1/mint", func(mint chi.Router) {
		if s.rateLimiter != nil {
			mint.Use(s.rateLimiter.Middleware)
		}
		mint.Post("/stable", s.route("mint_stable", s.handleMintStable))
		mint.Post("/lev", s.route("mint_lev", s.handleMintLev))
	})
	r.Route("/v1/redeem", func(redeem chi.Router) {
		if s.rateLimiter != nil {
			redeem.Use(s.rateLimiter.Middleware)
		}
		redeem.Post("/stable", s.route("redeem_stable", s.handleRedeemStable))
		redeem.Post("/lev", s.route("redeem_lev", s.handleRedeemLev))
	})
	r.Route("/v1/admin", func(admin chi.Router) {
		if s.rateLimiter != nil {
			admin.Use(s.rateLimiter.Middleware)
		}
		admin.Post("/initialize", s.route("admin_initialize", s.handleInitialize))
		admin.Post("/parameters", s.route("admin_parameters", s.handleUpdateParameters))
		admin.Post("/prices", s.route("admin_prices", s.handleUpdatePrices))
		admin.Post("/sync-exchange-rate", s.route("admin_sync_exchange_rate", s.handleSyncExchangeRate))
		admin.Post("/pause", s.route("admin_pause", s.handlePause))
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	return r
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	state := s.engine.State()
	if state == nil {
		http.Error(w, "engine not initialized", http.StatusServiceUnavailable)
		return
	}
	s.writeJSON(w, http.StatusOK, state)
}

func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	snap, err := vault.PriceState(s.engine.State())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) persist() {
	if s.store == nil {
		return
	}
	if err := s.store.Save(s.engine.State()); err != nil {
		s.logger.Error("persist snapshot", slog.String("error", err.Error()))
	}
}

func (s *Server) observe(operation string, crBps uint64) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordOperation(operation)
	s.metrics.SetCollateralRatio(crBps)
	if state := s.engine.State(); state != nil {
		s.metrics.SetRoundingReserve(state.RoundingReserveLamports)
	}
}

func (s *Server) reject(operation string, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordRejection(operation, err.Error())
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, vault.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, vault.ErrNilState), errors.Is(err, vault.ErrNilAdapters):
		status = http.StatusServiceUnavailable
	case errors.Is(err, vault.ErrInvariantBroken):
		status = http.StatusInternalServerError
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func decodeAddress(hexStr string) vault.Address {
	var addr vault.Address
	raw, err := decodeHex(hexStr)
	if err != nil {
		return addr
	}
	copy(addr[:], raw)
	return addr
}
