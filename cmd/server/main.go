package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/shopspring/decimal"

	"github.com/JeyadeepakUR/credresolve/internal/auth"
	"github.com/JeyadeepakUR/credresolve/internal/config"
	"github.com/JeyadeepakUR/credresolve/internal/ledger"
	"github.com/JeyadeepakUR/credresolve/internal/service"
	"github.com/JeyadeepakUR/credresolve/internal/storage/sqlite"
	"github.com/JeyadeepakUR/credresolve/pkg/logging"
)

func main() {
	logging.Setup()

	// Monetary amounts go over the wire as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	engine := ledger.NewEngine(store)
	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	router := service.NewRouter(store, engine, authenticator, tokens)

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Server starting", "address", addr, "url", fmt.Sprintf("http://localhost%s", addr))
	if err := http.ListenAndServe(addr, router); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
