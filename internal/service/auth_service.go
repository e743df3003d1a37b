package service

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JeyadeepakUR/credresolve/internal/auth"
	"github.com/JeyadeepakUR/credresolve/internal/middleware"
	"github.com/JeyadeepakUR/credresolve/internal/storage"
)

// AuthService handles registration, login and the current-user lookup.
type AuthService struct {
	authenticator auth.Authenticator
	tokens        *auth.JWTManager
	store         storage.Store
}

func NewAuthService(authenticator auth.Authenticator, tokens *auth.JWTManager, store storage.Store) *AuthService {
	return &AuthService{authenticator: authenticator, tokens: tokens, store: store}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *AuthService) Routes(tokens *auth.JWTManager) func(chi.Router) {
	return func(r chi.Router) {
		r.Post("/register", s.register)
		r.Post("/login", s.login)
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens))
			r.Get("/me", s.me)
		})
	}
}

func (s *AuthService) register(w http.ResponseWriter, r *http.Request) {
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

	token, err := s.tokens.Generate(user)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": user, "token": token})
}

func (s *AuthService) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid request body")
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password")
			return
		}
		writeDomainError(w, err)
		return
	}

	token, err := s.tokens.Generate(user)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

func (s *AuthService) me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing authenticated user")
		return
	}

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
