// Package api is the thin HTTP layer over the order engine and the
// projection. It validates wire shapes, maps engine error kinds to
// status codes, and serializes projections; none of the admission logic
// lives here.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/rustyeddy/brokerd/account"
	"github.com/rustyeddy/brokerd/engine"
	"github.com/rustyeddy/brokerd/instrument"
	"github.com/rustyeddy/brokerd/ledger"
	"github.com/rustyeddy/brokerd/portfolio"
)

type Server struct {
	engine    *engine.Engine
	projector *portfolio.Projector
	catalog   instrument.Catalog
	accounts  account.Store
	store     ledger.Store
	router    *mux.Router
	log       *zap.Logger
}

func NewServer(
	eng *engine.Engine,
	projector *portfolio.Projector,
	catalog instrument.Catalog,
	accounts account.Store,
	store ledger.Store,
	log *zap.Logger,
) *Server {
	s := &Server{
		engine:    eng,
		projector: projector,
		catalog:   catalog,
		accounts:  accounts,
		store:     store,
		router:    mux.NewRouter(),
		log:       log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/orders", s.handleCreateOrder).Methods("POST")
	api.HandleFunc("/accounts/{id}/portfolio", s.handleGetPortfolio).Methods("GET")
	api.HandleFunc("/accounts/{id}/orders", s.handleGetOrders).Methods("GET")
	api.HandleFunc("/instruments", s.handleGetInstruments).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Handler wraps the router with CORS for use by http.Server.
func (s *Server) Handler(origins []string) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return c.Handler(s.router)
}

// Start serves until the listener fails.
func (s *Server) Start(addr string, origins []string) error {
	s.log.Info("api server starting", zap.String("addr", addr))
	return http.ListenAndServe(addr, s.Handler(origins))
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "malformed request body", err.Error())
		return
	}

	// The engine expects exactly one of size/totalInvestment; reject the
	// contradiction before it gets there.
	if (req.Size == nil) == (req.TotalInvestment == nil) {
		respondError(w, http.StatusBadRequest, "invalid request",
			"provide either size or totalInvestment, but not both")
		return
	}
	if req.AccountID <= 0 || req.InstrumentID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid request",
			"accountId and instrumentId must be positive")
		return
	}

	ok, err := s.accounts.Exists(r.Context(), req.AccountID)
	if err != nil {
		s.log.Error("account lookup failed", zap.Int64("account", req.AccountID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "account not found",
			"account "+strconv.FormatInt(req.AccountID, 10)+" does not exist")
		return
	}

	order, err := s.engine.Submit(r.Context(), engine.Submission{
		AccountID:       req.AccountID,
		InstrumentID:    req.InstrumentID,
		Side:            ledger.Side(req.Side),
		Type:            ledger.Type(req.Type),
		Size:            req.Size,
		TotalInvestment: req.TotalInvestment,
		Price:           req.Price,
	})
	if err != nil {
		s.respondEngineError(w, err)
		return
	}

	s.log.Info("order admitted",
		zap.String("order", order.ID),
		zap.Int64("account", order.AccountID),
		zap.String("side", string(order.Side)),
		zap.String("status", string(order.Status)),
	)
	// REJECTED is a normal outcome, same 201 as FILLED/NEW.
	respondJSON(w, http.StatusCreated, newOrderResponse(order))
}

func (s *Server) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	accountID, ok := s.accountFromPath(w, r)
	if !ok {
		return
	}

	balance, err := s.projector.Balance(r.Context(), accountID)
	if err != nil {
		s.log.Error("balance projection failed", zap.Int64("account", accountID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error", "")
		return
	}
	holdings, err := s.projector.Holdings(r.Context(), accountID)
	if err != nil {
		s.log.Error("holdings projection failed", zap.Int64("account", accountID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error", "")
		return
	}

	respondJSON(w, http.StatusOK, newPortfolioResponse(balance, holdings))
}

func (s *Server) handleGetOrders(w http.ResponseWriter, r *http.Request) {
	accountID, ok := s.accountFromPath(w, r)
	if !ok {
		return
	}

	orders, err := s.store.ListByAccount(r.Context(), accountID)
	if err != nil {
		s.log.Error("order list failed", zap.Int64("account", accountID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error", "")
		return
	}

	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, newOrderResponse(o))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetInstruments(w http.ResponseWriter, r *http.Request) {
	page := instrument.Page{
		Limit:  intQuery(r, "limit", 10),
		Offset: intQuery(r, "offset", 0),
	}

	var (
		insts []instrument.Instrument
		count int
		err   error
	)
	if search := r.URL.Query().Get("search"); search != "" {
		insts, count, err = s.catalog.Search(r.Context(), search, page)
	} else {
		insts, count, err = s.catalog.List(r.Context(), page)
	}
	if err != nil {
		s.log.Error("instrument query failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error", "")
		return
	}

	resp := InstrumentListResponse{Assets: make([]InstrumentResponse, 0, len(insts)), Count: count}
	for _, inst := range insts {
		resp.Assets = append(resp.Assets, InstrumentResponse{
			ID:     inst.ID,
			Ticker: inst.Ticker,
			Name:   inst.Name,
			Type:   string(inst.Class),
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) accountFromPath(w http.ResponseWriter, r *http.Request) (int64, bool) {
	accountID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || accountID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid account id", "")
		return 0, false
	}

	ok, err := s.accounts.Exists(r.Context(), accountID)
	if err != nil {
		s.log.Error("account lookup failed", zap.Int64("account", accountID), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error", "")
		return 0, false
	}
	if !ok {
		respondError(w, http.StatusNotFound, "account not found", "")
		return 0, false
	}
	return accountID, true
}

func (s *Server) respondEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrInvalidRequest):
		respondError(w, http.StatusBadRequest, "invalid request", err.Error())
	case errors.Is(err, engine.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found", err.Error())
	default:
		s.log.Error("admission failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "internal error", "")
	}
}

func intQuery(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
