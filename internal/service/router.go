package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JeyadeepakUR/credresolve/internal/auth"
	"github.com/JeyadeepakUR/credresolve/internal/ledger"
	"github.com/JeyadeepakUR/credresolve/internal/middleware"
	"github.com/JeyadeepakUR/credresolve/internal/storage"
)

// NewRouter assembles the full HTTP surface. Auth registration and login are
// public; everything else under /api requires a bearer token.
func NewRouter(store storage.Store, engine *ledger.Engine, authenticator auth.Authenticator, tokens *auth.JWTManager) http.Handler {
	authService := NewAuthService(authenticator, tokens, store)
	userService := NewUserService(store, engine, authenticator)
	groupService := NewGroupService(store, engine)
	expenseService := NewExpenseService(store, engine)
	settlementService := NewSettlementService(store, engine)

	r := chi.NewRouter()
	r.Use(middleware.Logging)
	r.Use(middleware.Metrics)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", authService.Routes(tokens))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth(tokens))

			r.Route("/users", userService.Routes)
			r.Route("/groups", groupService.Routes)
			r.Route("/expenses", expenseService.Routes)
			r.Route("/settlements", settlementService.Routes)
		})
	})

	return r
}
