package handlers

import (
	"net/http"

	"mypts/internal/cache"
	"mypts/internal/config"
	"mypts/internal/db"
	"mypts/internal/middleware"
	"mypts/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Handler struct {
	txRunner     db.TxRunner
	cfg          config.Config
	profiles     ProfileStore
	balances     BalanceStore
	transactions TransactionStore
	hubStore     HubStore
	stats        StatsStore
	admin        AdminStore
	ledger       LedgerService
	hubService   HubService
	reconciler   ReconcileService
	balanceCache *cache.BalanceCache
	hub          *websocket.Hub
}

func New(txRunner db.TxRunner, cfg config.Config, profiles ProfileStore, balances BalanceStore, transactions TransactionStore, hubStore HubStore, stats StatsStore, admin AdminStore, ledger LedgerService, hubService HubService, reconciler ReconcileService, balanceCache *cache.BalanceCache, hub *websocket.Hub) *Handler {
	return &Handler{
		txRunner:     txRunner,
		cfg:          cfg,
		profiles:     profiles,
		balances:     balances,
		transactions: transactions,
		hubStore:     hubStore,
		stats:        stats,
		admin:        admin,
		ledger:       ledger,
		hubService:   hubService,
		reconciler:   reconciler,
		balanceCache: balanceCache,
		hub:          hub,
	}
}

func (h *Handler) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(chimiddleware.Logger)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.cfg.AllowedOrigins},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.With(middleware.Auth(h.cfg.JWTSecret)).Get("/me", h.Me)
	})
	router.Route("/mypts", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.Post("/buy", h.Buy)
		r.Post("/sell", h.Sell)
		r.Post("/withdraw", h.Withdraw)
		r.Post("/earn", h.Earn)
		r.Post("/donate", h.Donate)
		r.Post("/purchase", h.PurchaseProduct)
		r.Get("/balance", h.GetBalance)
		r.Get("/balance/quick", h.GetQuickBalance)
		r.Get("/transactions", h.ListTransactions)
		r.Get("/transactions/{id}", h.GetTransaction)
		r.Get("/recipients/{username}", h.LookupRecipient)
	})
	router.Get("/hub/state", h.GetHubState)
	router.Get("/ws/balances", h.WSBalances)

	router.Route("/admin", func(r chi.Router) {
		r.Use(middleware.Auth(h.cfg.JWTSecret))
		r.With(middleware.RequireAdmin(h.admin, "CanManagePoints")).Post("/mypts/award", h.Award)
		r.With(middleware.RequireAdmin(h.admin, "CanManageSupply")).Post("/hub/issue", h.IssueSupply)
		r.With(middleware.RequireAdmin(h.admin, "CanManageSupply")).Post("/hub/move-to-circulation", h.MoveToCirculation)
		r.With(middleware.RequireAdmin(h.admin, "CanManageSupply")).Post("/hub/move-to-reserve", h.MoveToReserve)
		r.With(middleware.RequireAdmin(h.admin, "CanManageSupply")).Post("/hub/max-supply", h.AdjustMaxSupply)
		r.With(middleware.RequireAdmin(h.admin, "CanManageSupply")).Post("/hub/value", h.UpdateValuePerUnit)
		r.With(middleware.RequireAdmin(h.admin, "CanManageSupply")).Post("/hub/reconcile", h.ReconcileSupply)
		r.With(middleware.RequireAdmin(h.admin, "CanViewTransactions")).Get("/hub/verify", h.VerifyConsistency)
		r.With(middleware.RequireAdmin(h.admin, "CanViewTransactions")).Get("/hub/logs", h.ListSupplyLogs)
		r.With(middleware.RequireAdmin(h.admin, "CanViewTransactions")).Get("/stats", h.Stats)
		r.With(middleware.RequireAdmin(h.admin, "CanViewTransactions")).Get("/transactions", h.AdminListTransactions)
		r.With(middleware.RequireAdmin(h.admin, "")).Post("/roles/grant", h.GrantRole)
		r.With(middleware.RequireAdmin(h.admin, "")).Post("/promote", h.PromoteAdmin)
	})

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return router
}
