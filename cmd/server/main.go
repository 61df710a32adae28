package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"medstock-backend/internal/auth"
	"medstock-backend/internal/backup"
	"medstock-backend/internal/cache"
	"medstock-backend/internal/config"
	"medstock-backend/internal/connectivity"
	"medstock-backend/internal/db"
	"medstock-backend/internal/handlers"
	"medstock-backend/internal/health"
	h "medstock-backend/internal/http"
	"medstock-backend/internal/localcache"
	"medstock-backend/internal/middleware"
	"medstock-backend/internal/services"
	"medstock-backend/internal/store"
	"medstock-backend/internal/syncengine"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Initialize Redis (optional, degrades gracefully)
	if err := cache.Init(cfg); err != nil {
		log.Printf("[Redis] Cache unavailable, continuing without: %v", err)
	}

	// Connect to the document store. With no database configured the
	// server runs entirely on the in-memory store, which is enough for
	// a single vehicle station.
	var (
		pool          *pgxpool.Pool
		documentStore store.CollectionStore
	)
	if cfg.Database.Host == "" {
		log.Println("[Store] No database configured, using in-memory store")
		documentStore = store.NewMemoryStore()
	} else {
		var err error
		pool, err = db.Connect(ctx, cfg)
		if err != nil {
			log.Printf("[Store] Database unreachable, falling back to in-memory store: %v", err)
			documentStore = store.NewMemoryStore()
		} else {
			defer pool.Close()
			pgStore, err := store.NewPostgresStore(ctx, pool, cache.GetClient())
			if err != nil {
				log.Fatalf("Failed to initialize document store: %v", err)
			}
			documentStore = pgStore
			log.Println("[Store] Connected to PostgreSQL document store")
		}
	}
	defer documentStore.Close()

	// Local cache keeps the last-known state readable across restarts
	// even when the store is unreachable.
	localCache, err := localcache.New(cfg.Cache.Dir)
	if err != nil {
		log.Fatalf("Failed to open local cache: %v", err)
	}

	// Connectivity watcher drives the offline banner and resync-on-
	// reconnect. In-memory mode has nothing to probe.
	probe := func(ctx context.Context) bool { return true }
	if pool != nil {
		probe = func(ctx context.Context) bool {
			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			return pool.Ping(ctx) == nil
		}
	}
	watcher := connectivity.NewWatcher(probe, time.Duration(cfg.Connectivity.ProbeIntervalSeconds)*time.Second)

	// Sync engine: seed from cache, then go live against the store.
	engine := syncengine.New(documentStore, localCache, watcher)
	if err := engine.Start(ctx); err != nil {
		log.Fatalf("Failed to start sync engine: %v", err)
	}
	defer engine.Close()

	watcher.Start()
	defer watcher.Stop()

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize services
	userService := services.NewUserService(engine, jwtManager)
	inventoryService := services.NewInventoryService(engine)
	withdrawalService := services.NewWithdrawalService(engine)
	orderService := services.NewOrderService(engine)
	alertService := services.NewAlertService(engine)
	taskService := services.NewTaskService(engine)
	auditService := services.NewAuditService(engine)
	reportService := services.NewReportService(engine)

	// Bootstrap the admin account on a fresh install
	if err := userService.EnsureAdmin(ctx, cfg); err != nil {
		log.Fatalf("Failed to bootstrap admin user: %v", err)
	}

	// Backup scheduler (optional)
	var backupScheduler *backup.Scheduler
	if cfg.Backup.Enabled {
		backupScheduler = backup.NewScheduler(cfg.Backup, engine)
		backupScheduler.Start()
		defer backupScheduler.Stop()
	} else {
		log.Println("[Backup] Disabled")
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, jwtManager, engine)
	stateHandler := handlers.NewStateHandler(engine)
	medicineHandler := handlers.NewMedicineHandler(inventoryService, engine)
	withdrawalHandler := handlers.NewWithdrawalHandler(withdrawalService, engine)
	orderHandler := handlers.NewOrderHandler(orderService, engine)
	alertHandler := handlers.NewAlertHandler(alertService, engine)
	taskHandler := handlers.NewTaskHandler(taskService, engine)
	auditHandler := handlers.NewAuditHandler(auditService, engine)
	userHandler := handlers.NewUserHandler(userService, engine)
	settingHandler := handlers.NewSettingHandler(engine)
	reportHandler := handlers.NewReportHandler(reportService)
	backupHandler := handlers.NewBackupHandler(backupScheduler)
	healthChecker := health.NewHealthChecker(pool)
	healthHandler := handlers.NewHealthHandler(healthChecker, engine)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, engine)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(
		authHandler,
		stateHandler,
		medicineHandler,
		withdrawalHandler,
		orderHandler,
		alertHandler,
		taskHandler,
		auditHandler,
		userHandler,
		settingHandler,
		reportHandler,
		backupHandler,
		healthHandler,
		authMiddleware,
	)

	// Wrap with panic recovery and metrics middleware
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
