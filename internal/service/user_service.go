package service

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JeyadeepakUR/credresolve/internal/auth"
	"github.com/JeyadeepakUR/credresolve/internal/ledger"
	"github.com/JeyadeepakUR/credresolve/internal/storage"
)

// UserService exposes user records and cross-group balance summaries.
type UserService struct {
	store         storage.Store
	engine        *ledger.Engine
	authenticator auth.Authenticator
}

func NewUserService(store storage.Store, engine *ledger.Engine, authenticator auth.Authenticator) *UserService {
	return &UserService{store: store, engine: engine, authenticator: authenticator}
}

func (s *UserService) Routes(r chi.Router) {
	r.Post("/", s.createUser)
	r.Get("/", s.listUsers)
	r.Get("/{userID}", s.getUser)
	r.Get("/{userID}/balances", s.getUserBalances)
	r.Get("/{userID}/settlements", s.getUserSettlements)
}

func (s *UserService) createUser(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "name, email and password are required")
		return
	}

	user, err := s.authenticator.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			writeError(w, http.StatusConflict, "EMAIL_EXISTS", "a user with this email already exists")
		case errors.Is(err, auth.ErrWeakPassword):
			writeError(w, http.StatusBadRequest, "WEAK_PASSWORD", "password must be at least 8 characters")
		default:
			writeDomainError(w, err)
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": user})
}

func (s *UserService) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (s *UserService) getUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "USER_NOT_FOUND", "user not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (s *UserService) getUserBalances(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	balances, err := s.engine.UserBalances(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, balances)
}

func (s *UserService) getUserSettlements(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	settlements, err := s.store.ListUserSettlements(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"settlements": settlements})
}
