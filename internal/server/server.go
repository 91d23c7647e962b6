package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/pbmartins/estoque/internal/backup"
	"github.com/pbmartins/estoque/internal/config"
	"github.com/pbmartins/estoque/internal/email"
	"github.com/pbmartins/estoque/internal/handler"
	"github.com/pbmartins/estoque/internal/invite"
	"github.com/pbmartins/estoque/internal/middleware"
	"github.com/pbmartins/estoque/internal/push"
	"github.com/pbmartins/estoque/internal/scan"
	"github.com/pbmartins/estoque/internal/store"
	ws "github.com/pbmartins/estoque/internal/websocket"
)

type Server struct {
	db  *sql.DB
	hub *ws.Hub

	authH         *handler.AuthHandler
	itemH         *handler.ItemHandler
	recordH       *handler.RecordHandler
	inviteH       *handler.InviteHandler
	subscriptionH *handler.SubscriptionHandler
	orderH        *handler.OrderHandler
	scanH         *handler.ScanHandler
	exportH       *handler.ExportHandler
	statsH        *handler.StatsHandler
	pushH         *handler.PushHandler
	backupH       *handler.BackupHandler

	userStore     *store.UserStore
	sessionStore  *store.SessionStore
	authCodeStore *store.AuthCodeStore
	resolver      *invite.Resolver
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	pushService   *push.Service
	logger        *slog.Logger
}

func New(db *sql.DB, cfg config.Config, emailClient *email.Client, extractor scan.Extractor, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	userStore := store.NewUserStore(db)
	sessionStore := store.NewSessionStore(db)
	authCodeStore := store.NewAuthCodeStore(db)
	inviteStore := store.NewInviteStore(db)
	itemStore := store.NewItemStore(db)
	recordStore := store.NewRecordStore(db)
	subscriptionStore := store.NewSubscriptionStore(db)
	orderStore := store.NewOrderStore(db)
	pushStore := store.NewPushStore(db)
	backupStore := store.NewBackupStore(db)

	resolver := invite.NewResolver(inviteStore)

	var pushSvc *push.Service
	if cfg.PushEnabled() {
		pushSvc = push.NewService(cfg.VAPIDPublicKey, cfg.VAPIDPrivateKey, cfg.VAPIDSubject, pushStore, logger)
	}

	backupMgr := backup.NewManager(backup.Config{
		Endpoint:   cfg.BackupEndpoint,
		Bucket:     cfg.BackupBucket,
		Region:     cfg.BackupRegion,
		AccessKey:  cfg.BackupAccessKey,
		SecretKey:  cfg.BackupSecretKey,
		Passphrase: cfg.BackupPassphrase,
		DBPath:     cfg.DBPath,
		Interval:   cfg.BackupInterval,
		Retention:  cfg.BackupRetention,
	}, db, backupStore, logger)

	return &Server{
		db:  db,
		hub: hub,

		authH:         handler.NewAuthHandler(userStore, sessionStore, authCodeStore, resolver, emailClient, logger),
		itemH:         handler.NewItemHandler(itemStore, hub, logger.With("component", "item")),
		recordH:       handler.NewRecordHandler(itemStore, recordStore, subscriptionStore, hub, pushSvc, logger.With("component", "record")),
		inviteH:       handler.NewInviteHandler(resolver, userStore, emailClient, logger.With("component", "invite")),
		subscriptionH: handler.NewSubscriptionHandler(subscriptionStore, hub, logger.With("component", "subscription")),
		orderH:        handler.NewOrderHandler(orderStore, hub, pushSvc, logger.With("component", "order")),
		scanH:         handler.NewScanHandler(extractor, itemStore, recordStore, hub, logger.With("component", "scan")),
		exportH:       handler.NewExportHandler(itemStore, recordStore, logger.With("component", "export")),
		statsH:        handler.NewStatsHandler(itemStore, recordStore, logger.With("component", "stats")),
		pushH:         handler.NewPushHandler(pushStore, pushSvc, logger.With("component", "push_handler")),
		backupH:       handler.NewBackupHandler(backupMgr, backupStore, logger.With("component", "backup_handler")),

		userStore:     userStore,
		sessionStore:  sessionStore,
		authCodeStore: authCodeStore,
		resolver:      resolver,
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		pushService:   pushSvc,
		logger:        logger,
	}
}

// SessionStore returns the session store for cleanup tasks.
func (s *Server) SessionStore() *store.SessionStore {
	return s.sessionStore
}

// AuthCodeStore returns the auth code store for cleanup tasks.
func (s *Server) AuthCodeStore() *store.AuthCodeStore {
	return s.authCodeStore
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// BackupManager returns the backup manager.
func (s *Server) BackupManager() *backup.Manager {
	return s.backupManager
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("POST /auth/verify", s.rateLimitedHandler(s.authH.Verify))
	outerMux.HandleFunc("POST /auth/anonymous", s.rateLimitedHandler(s.authH.Anonymous))
	outerMux.HandleFunc("GET /convite/{token}", s.authH.InviteInfo)
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.sessionStore, s.userStore, s.resolver)
	outerMux.Handle("/", authMiddleware(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.authH.Logout)
	mux.HandleFunc("POST /convite/{token}", s.authH.InviteAccept)

	// Custom item API routes
	mux.HandleFunc("GET /api/items", s.itemH.List)
	mux.HandleFunc("POST /api/items", s.itemH.Create)
	mux.HandleFunc("POST /api/items/sort", s.itemH.Sort)
	mux.HandleFunc("PUT /api/items/{id}", s.itemH.Update)
	mux.HandleFunc("DELETE /api/items/{id}", s.itemH.Delete)

	// Monthly sheet and record routes
	mux.HandleFunc("GET /api/sheet/{month}", s.recordH.Sheet)
	mux.HandleFunc("PUT /api/records/{month}/{item_id}", s.recordH.SetQuantity)

	// Invite routes
	mux.HandleFunc("GET /api/invites", s.inviteH.List)
	mux.HandleFunc("POST /api/invites", s.inviteH.Create)
	mux.HandleFunc("DELETE /api/invites/{id}", s.inviteH.Delete)

	// Subscription checklist routes
	mux.HandleFunc("GET /api/subscriptions", s.subscriptionH.List)
	mux.HandleFunc("POST /api/subscriptions", s.subscriptionH.Create)
	mux.HandleFunc("PUT /api/subscriptions/{id}", s.subscriptionH.Update)
	mux.HandleFunc("DELETE /api/subscriptions/{id}", s.subscriptionH.Delete)
	mux.HandleFunc("POST /api/subscriptions/{id}/check/{month}", s.subscriptionH.ToggleCheck)

	// Special order routes
	mux.HandleFunc("GET /api/orders", s.orderH.List)
	mux.HandleFunc("POST /api/orders", s.orderH.Create)
	mux.HandleFunc("PUT /api/orders/{id}/status", s.orderH.SetStatus)
	mux.HandleFunc("DELETE /api/orders/{id}", s.orderH.Delete)

	// Document scan import
	mux.HandleFunc("POST /api/scan", s.scanH.Import)

	// PDF export and stats
	mux.HandleFunc("GET /api/export/{month}", s.exportH.Month)
	mux.HandleFunc("GET /api/stats/{month}", s.statsH.Month)

	// Push notification routes
	mux.HandleFunc("GET /api/push/vapid", s.pushH.VAPIDKey)
	mux.HandleFunc("POST /api/push/subscribe", s.pushH.Subscribe)
	mux.HandleFunc("GET /api/push/subscriptions", s.pushH.ListSubscriptions)
	mux.HandleFunc("DELETE /api/push/subscriptions/{id}", s.pushH.Unsubscribe)

	// Backup routes
	mux.HandleFunc("POST /api/backup/now", s.backupH.RunNow)
	mux.HandleFunc("GET /api/backup/status", s.backupH.Status)
	mux.HandleFunc("GET /api/backup/history", s.backupH.History)

	// Live updates
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))
}
