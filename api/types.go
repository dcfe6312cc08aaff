package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/brokerd/ledger"
	"github.com/rustyeddy/brokerd/portfolio"
)

// CreateOrderRequest is the wire shape for POST /api/v1/orders. Exactly
// one of size and totalInvestment must be present; price only matters
// for LIMIT orders.
type CreateOrderRequest struct {
	AccountID       int64            `json:"accountId"`
	InstrumentID    int64            `json:"instrumentId"`
	Side            string           `json:"side"`
	Type            string           `json:"type"`
	Size            *decimal.Decimal `json:"size,omitempty"`
	TotalInvestment *decimal.Decimal `json:"totalInvestment,omitempty"`
	Price           *decimal.Decimal `json:"price,omitempty"`
}

type OrderResponse struct {
	ID           string          `json:"id"`
	AccountID    int64           `json:"accountId"`
	InstrumentID int64           `json:"instrumentId"`
	Side         string          `json:"side"`
	Type         string          `json:"type"`
	Size         decimal.Decimal `json:"size"`
	Price        decimal.Decimal `json:"price"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"createdAt"`
}

func newOrderResponse(o ledger.Order) OrderResponse {
	return OrderResponse{
		ID:           o.ID,
		AccountID:    o.AccountID,
		InstrumentID: o.InstrumentID,
		Side:         string(o.Side),
		Type:         string(o.Type),
		Size:         o.Size,
		Price:        o.Price,
		Status:       string(o.Status),
		CreatedAt:    o.CreatedAt,
	}
}

type BalanceResponse struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

// AssetResponse is one holding. DailyYield renders like "1.25%" and is
// null when the yield is undefined.
type AssetResponse struct {
	InstrumentID int64           `json:"instrumentId"`
	Ticker       string          `json:"ticker"`
	Name         string          `json:"name"`
	Quantity     decimal.Decimal `json:"quantity"`
	CurrentValue decimal.Decimal `json:"currentValue"`
	DailyYield   *string         `json:"dailyYield"`
}

type PortfolioResponse struct {
	Balance BalanceResponse `json:"balance"`
	Assets  []AssetResponse `json:"assets"`
}

func newPortfolioResponse(b portfolio.Balance, holdings []portfolio.Holding) PortfolioResponse {
	assets := make([]AssetResponse, 0, len(holdings))
	for _, h := range holdings {
		a := AssetResponse{
			InstrumentID: h.InstrumentID,
			Ticker:       h.Ticker,
			Name:         h.Name,
			Quantity:     h.Quantity,
			CurrentValue: h.CurrentValue,
		}
		if h.DailyYield != nil {
			y := h.DailyYield.String() + "%"
			a.DailyYield = &y
		}
		assets = append(assets, a)
	}
	return PortfolioResponse{
		Balance: BalanceResponse{Value: b.Value, Currency: b.Currency},
		Assets:  assets,
	}
}

type InstrumentResponse struct {
	ID     int64  `json:"id"`
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}

type InstrumentListResponse struct {
	Assets []InstrumentResponse `json:"assets"`
	Count  int                  `json:"count"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg, detail string) {
	respondJSON(w, status, errorResponse{Error: msg, Detail: detail})
}
