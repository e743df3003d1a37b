package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/JeyadeepakUR/credresolve/internal/ledger"
	"github.com/JeyadeepakUR/credresolve/internal/middleware"
	"github.com/JeyadeepakUR/credresolve/internal/models"
	"github.com/JeyadeepakUR/credresolve/internal/storage"
)

// ExpenseService records, fetches and deletes expenses through the engine.
type ExpenseService struct {
	store  storage.Store
	engine *ledger.Engine
}

func NewExpenseService(store storage.Store, engine *ledger.Engine) *ExpenseService {
	return &ExpenseService{store: store, engine: engine}
}

type addExpenseRequest struct {
	GroupID     string                `json:"groupId"`
	Description string                `json:"description"`
	TotalAmount decimal.Decimal       `json:"totalAmount"`
	PaidBy      string                `json:"paidBy"`
	SplitType   models.SplitType      `json:"splitType"`
	Splits      []models.ExpenseShare `json:"splits"`
}

func (s *ExpenseService) Routes(r chi.Router) {
	r.Post("/", s.addExpense)
	r.Get("/{expenseID}", s.getExpense)
	r.Delete("/{expenseID}", s.deleteExpense)
}

func (s *ExpenseService) addExpense(w http.ResponseWriter, r *http.Request) {
	var req addExpenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if req.GroupID == "" || req.Description == "" || len(req.Splits) == 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "groupId, description and splits are required")
		return
	}

	paidBy := req.PaidBy
	if paidBy == "" {
		paidBy = middleware.GetUserID(r.Context())
	}

	result, err := s.engine.ApplyExpense(r.Context(), ledger.ExpenseInput{
		GroupID:     req.GroupID,
		Description: req.Description,
		TotalAmount: req.TotalAmount,
		PaidBy:      paidBy,
		SplitType:   req.SplitType,
		Shares:      req.Splits,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

func (s *ExpenseService) getExpense(w http.ResponseWriter, r *http.Request) {
	expenseID := chi.URLParam(r, "expenseID")

	expense, err := s.store.GetExpense(r.Context(), expenseID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if expense == nil {
		writeError(w, http.StatusNotFound, "EXPENSE_NOT_FOUND", "expense not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"expense": expense})
}

func (s *ExpenseService) deleteExpense(w http.ResponseWriter, r *http.Request) {
	expenseID := chi.URLParam(r, "expenseID")

	if err := s.engine.DeleteExpense(r.Context(), expenseID); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "expense deleted and balances recalculated",
		"success": true,
	})
}
