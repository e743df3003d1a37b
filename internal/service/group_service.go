package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JeyadeepakUR/credresolve/internal/ledger"
	"github.com/JeyadeepakUR/credresolve/internal/middleware"
	"github.com/JeyadeepakUR/credresolve/internal/models"
	"github.com/JeyadeepakUR/credresolve/internal/storage"
)

// GroupService manages groups, membership and the per-group read endpoints.
type GroupService struct {
	store  storage.Store
	engine *ledger.Engine
}

func NewGroupService(store storage.Store, engine *ledger.Engine) *GroupService {
	return &GroupService{store: store, engine: engine}
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CreatedBy   string `json:"createdBy"`
}

type addMemberRequest struct {
	UserID string `json:"userId"`
}

func (s *GroupService) Routes(r chi.Router) {
	r.Post("/", s.createGroup)
	r.Get("/", s.listGroups)
	r.Get("/{groupID}", s.getGroup)
	r.Post("/{groupID}/members", s.addMember)
	r.Get("/{groupID}/expenses", s.getGroupExpenses)
	r.Get("/{groupID}/balances", s.getGroupBalances)
	r.Get("/{groupID}/balances/simplified", s.getSimplifiedBalances)
	r.Get("/{groupID}/settlements", s.getGroupSettlements)
	r.Post("/{groupID}/recalculate", s.recalculate)
}

func (s *GroupService) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "name is required")
		return
	}

	createdBy := req.CreatedBy
	if createdBy == "" {
		createdBy = middleware.GetUserID(r.Context())
	}

	exists, err := s.store.UserExists(r.Context(), createdBy)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !exists {
		writeError(w, http.StatusBadRequest, "USER_NOT_FOUND", "creator user does not exist")
		return
	}

	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   createdBy,
	}
	if err := s.store.CreateGroup(r.Context(), group); err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"group": group})
}

func (s *GroupService) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.store.ListGroups(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"groups": groups})
}

func (s *GroupService) getGroup(w http.ResponseWriter, r *http.Request) {
	group, ok := s.requireGroup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"group": group})
}

func (s *GroupService) addMember(w http.ResponseWriter, r *http.Request) {
	group, ok := s.requireGroup(w, r)
	if !ok {
		return
	}

	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "userId is required")
		return
	}

	exists, err := s.store.UserExists(r.Context(), req.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !exists {
		writeError(w, http.StatusBadRequest, "USER_NOT_FOUND", "user does not exist")
		return
	}

	added, err := s.store.AddGroupMember(r.Context(), group.ID, req.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !added {
		writeError(w, http.StatusBadRequest, "MEMBER_EXISTS", "user is already a member of this group")
		return
	}

	updated, err := s.store.GetGroup(r.Context(), group.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"group": updated})
}

func (s *GroupService) getGroupExpenses(w http.ResponseWriter, r *http.Request) {
	group, ok := s.requireGroup(w, r)
	if !ok {
		return
	}

	expenses, err := s.store.ListGroupExpenses(r.Context(), group.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	// The store returns creation order for replay; the API shows newest first.
	for i, j := 0, len(expenses)-1; i < j; i, j = i+1, j-1 {
		expenses[i], expenses[j] = expenses[j], expenses[i]
	}

	writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})
}

func (s *GroupService) getGroupBalances(w http.ResponseWriter, r *http.Request) {
	group, ok := s.requireGroup(w, r)
	if !ok {
		return
	}

	balances, err := s.engine.GroupBalances(r.Context(), group.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"balances": balances})
}

func (s *GroupService) getSimplifiedBalances(w http.ResponseWriter, r *http.Request) {
	group, ok := s.requireGroup(w, r)
	if !ok {
		return
	}

	balances, err := s.engine.SimplifiedBalances(r.Context(), group.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"balances": balances})
}

func (s *GroupService) getGroupSettlements(w http.ResponseWriter, r *http.Request) {
	group, ok := s.requireGroup(w, r)
	if !ok {
		return
	}

	settlements, err := s.store.ListGroupSettlements(r.Context(), group.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"settlements": settlements})
}

func (s *GroupService) recalculate(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "groupID")

	if err := s.engine.Recalculate(r.Context(), groupID); err != nil {
		writeDomainError(w, err)
		return
	}

	balances, err := s.engine.GroupBalances(r.Context(), groupID)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"balances": balances})
}

func (s *GroupService) requireGroup(w http.ResponseWriter, r *http.Request) (*models.Group, bool) {
	groupID := chi.URLParam(r, "groupID")

	group, err := s.store.GetGroup(r.Context(), groupID)
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}
	if group == nil {
		writeError(w, http.StatusNotFound, "GROUP_NOT_FOUND", "group not found")
		return nil, false
	}

	return group, true
}
