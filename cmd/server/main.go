package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mypts/internal/cache"
	"mypts/internal/config"
	"mypts/internal/db"
	"mypts/internal/handlers"
	"mypts/internal/points"
	"mypts/internal/services"
	"mypts/internal/store"
	"mypts/internal/websocket"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	profiles := store.NewProfileStore(database)
	balances := store.NewBalanceStore(database)
	transactions := store.NewTransactionStore(database)
	hubStore := store.NewHubStore(database)
	stats := store.NewStatsStore(database)
	admin := store.NewAdminStore(database)
	txRunner := db.NewTxRunner(database)

	if err := applyHubOverrides(database, hubStore, cfg); err != nil {
		log.Fatalf("failed to apply hub overrides: %v", err)
	}

	balanceCache := cache.New(cfg.RedisAddr, cfg.RedisPassword)
	if balanceCache == nil {
		log.Printf("redis unavailable at %s, balance cache disabled", cfg.RedisAddr)
	}
	hub := websocket.NewHub()

	ledger := services.NewLedgerService(txRunner, balances, transactions, hubStore, profiles, balanceCache, hub)
	hubService := services.NewHubService(txRunner, hubStore)
	reconciler := services.NewReconcileService(txRunner, balances, hubStore)

	handler := handlers.New(txRunner, cfg, profiles, balances, transactions, hubStore, stats, admin, ledger, hubService, reconciler, balanceCache, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("mypts API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

// applyHubOverrides lets the environment seed the initial hub parameters. The
// ceiling only applies while still unset and the valuation only before any
// supply exists, so later admin adjustments survive restarts.
func applyHubOverrides(database store.DB, hubStore *store.HubStore, cfg config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	state, err := hubStore.Get(ctx)
	if err != nil {
		return err
	}
	if cfg.HubMaxSupply != nil && state.MaxSupply == nil {
		if err := hubStore.UpdateMaxSupply(ctx, database, cfg.HubMaxSupply); err != nil {
			return err
		}
	}
	if state.TotalSupply == 0 && cfg.HubValuePerUnit != "" && cfg.HubValuePerUnit != state.ValuePerUnit {
		value, err := points.ParseValuePerUnit(cfg.HubValuePerUnit)
		if err != nil {
			return err
		}
		if err := hubStore.UpdateValuePerUnit(ctx, database, value.String()); err != nil {
			return err
		}
	}
	return nil
}
