package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/JeyadeepakUR/credresolve/internal/ledger"
	"github.com/JeyadeepakUR/credresolve/internal/middleware"
	"github.com/JeyadeepakUR/credresolve/internal/storage"
)

// SettlementService records settlements and serves settlement history.
type SettlementService struct {
	store  storage.Store
	engine *ledger.Engine
}

func NewSettlementService(store storage.Store, engine *ledger.Engine) *SettlementService {
	return &SettlementService{store: store, engine: engine}
}

type recordSettlementRequest struct {
	GroupID    string          `json:"groupId"`
	FromUserID string          `json:"fromUserId"`
	ToUserID   string          `json:"toUserId"`
	Amount     decimal.Decimal `json:"amount"`
}

func (s *SettlementService) Routes(r chi.Router) {
	r.Post("/", s.recordSettlement)
	r.Get("/{settlementID}", s.getSettlement)
	r.Get("/groups/{groupID}", s.getGroupSettlements)
}

func (s *SettlementService) recordSettlement(w http.ResponseWriter, r *http.Request) {
	var req recordSettlementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}

	fromUserID := req.FromUserID
	if fromUserID == "" {
		fromUserID = middleware.GetUserID(r.Context())
	}

	if req.GroupID == "" || fromUserID == "" || req.ToUserID == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "groupId, fromUserId and toUserId are required")
		return
	}

	result, err := s.engine.RecordSettlement(r.Context(), ledger.SettlementInput{
		GroupID:    req.GroupID,
		FromUserID: fromUserID,
		ToUserID:   req.ToUserID,
		Amount:     req.Amount,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (s *SettlementService) getSettlement(w http.ResponseWriter, r *http.Request) {
	settlementID := chi.URLParam(r, "settlementID")

	settlement, err := s.store.GetSettlement(r.Context(), settlementID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if settlement == nil {
		writeError(w, http.StatusNotFound, "SETTLEMENT_NOT_FOUND", "settlement not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"settlement": settlement})
}

func (s *SettlementService) getGroupSettlements(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	exists, err := s.store.GroupExists(r.Context(), groupID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !exists {
		writeError(w, http.StatusNotFound, "GROUP_NOT_FOUND", "group not found")
		return
	}

	settlements, err := s.store.ListGroupSettlements(r.Context(), groupID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"settlements": settlements})
}
