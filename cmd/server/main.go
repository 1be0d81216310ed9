package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/engagement-backend/internal/audit"
	"github.com/ignatzorin/engagement-backend/internal/auth"
	"github.com/ignatzorin/engagement-backend/internal/cache"
	"github.com/ignatzorin/engagement-backend/internal/config"
	"github.com/ignatzorin/engagement-backend/internal/db"
	"github.com/ignatzorin/engagement-backend/internal/domain/repository"
	"github.com/ignatzorin/engagement-backend/internal/infrastructure/memory"
	"github.com/ignatzorin/engagement-backend/internal/infrastructure/persistence"
	"github.com/ignatzorin/engagement-backend/internal/interface/http/handler"
	"github.com/ignatzorin/engagement-backend/internal/interface/http/router"
	"github.com/ignatzorin/engagement-backend/internal/logger"
	"github.com/ignatzorin/engagement-backend/internal/storage"
	"github.com/ignatzorin/engagement-backend/internal/telemetry"
	"github.com/ignatzorin/engagement-backend/internal/usecase/application"
	"github.com/ignatzorin/engagement-backend/internal/usecase/contract"
	"github.com/ignatzorin/engagement-backend/internal/usecase/job"
	"github.com/ignatzorin/engagement-backend/internal/usecase/payment"
	"github.com/ignatzorin/engagement-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	logger.Init(cfg.LogLevel)
	if !cfg.IsProduction() {
		logger.SetTextFormatter()
	}

	shutdownTracing, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		log.Fatalf("main: ошибка инициализации трассировки: %v", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Log.WithFields(logrus.Fields{"error": err.Error()}).Warn("main: ошибка остановки трассировки")
		}
	}()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("main: %v", err)
	}
	defer closeStore()

	// Инфраструктура.
	hub := ws.NewHub()
	go hub.Run(ctx)

	statsCache := cache.New()
	statsCache.StartCleanup(ctx, time.Minute)

	documents, err := storage.NewDocumentStorage(cfg.DocumentStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL)

	events := audit.NewDispatcher(
		audit.NewStoreSink(store.AuditLog()),
		audit.LogSink{},
		ws.NewEventSink(hub),
	).Async()

	// Use cases.
	updateContract := contract.NewUpdateContractUseCase(store, events)

	handlers := router.Handlers{
		Jobs: handler.NewJobHandler(handler.JobUseCases{
			Create:    job.NewCreateJobUseCase(store, events),
			Update:    job.NewUpdateJobUseCase(store, events),
			SetStatus: job.NewSetJobStatusUseCase(store, events),
			Get:       job.NewGetJobUseCase(store),
			ListMine:  job.NewListEmployerJobsUseCase(store),
			Search:    job.NewSearchJobsUseCase(store),
		}),
		Applications: handler.NewApplicationHandler(handler.ApplicationUseCases{
			Apply:          application.NewApplyUseCase(store, events),
			UpdateStatus:   application.NewUpdateApplicationStatusUseCase(store, events),
			Withdraw:       application.NewWithdrawApplicationUseCase(store, events),
			Recommend:      application.NewToggleRecommendationUseCase(store, events),
			Get:            application.NewGetApplicationUseCase(store),
			ListForJob:     application.NewListJobApplicationsUseCase(store),
			ListForTalent:  application.NewListTalentApplicationsUseCase(store),
			StatusCounters: application.NewStatusCountsUseCase(store),
		}),
		Contracts: handler.NewContractHandler(handler.ContractUseCases{
			Create:       contract.NewCreateContractUseCase(store, events, cfg.DefaultCommissionPercent),
			Update:       updateContract,
			UpdateStatus: contract.NewUpdateContractStatusUseCase(store, events),
			Attach:       contract.NewAttachDocumentUseCase(store, documents, updateContract),
			Get:          contract.NewGetContractUseCase(store),
			List:         contract.NewListContractsUseCase(store),
			Stats:        contract.NewContractStatsUseCase(store),
		}),
		Payments: handler.NewPaymentHandler(handler.PaymentUseCases{
			Record:          payment.NewRecordPaymentUseCase(store, events, statsCache, cache.PaymentsPrefix),
			UpdateStatus:    payment.NewUpdatePaymentStatusUseCase(store, events, statsCache, cache.PaymentsPrefix),
			Refund:          payment.NewRefundPaymentUseCase(store, events, statsCache, cache.PaymentsPrefix),
			Get:             payment.NewGetPaymentUseCase(store),
			ListForContract: payment.NewListContractPaymentsUseCase(store),
			Stats:           payment.NewStats(store, statsCache, cfg.StatsCacheTTL),
		}),
		Health: handler.NewHealthHandler(store),
		WS:     handler.NewWSHandler(hub),
	}

	engine := router.SetupRouter(cfg, handlers, tokenManager)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithFields(logrus.Fields{"error": err.Error()}).Error("main: ошибка остановки http сервера")
		}
	}()

	logger.Log.WithFields(logrus.Fields{
		"port":    cfg.HTTPPort,
		"env":     cfg.Env,
		"storage": cfg.StorageDriver,
	}).Info("main: HTTP сервер запущен")

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// openStore выбирает хранилище по STORAGE_DRIVER. Для postgres сразу накатывает миграции.
func openStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	if cfg.StorageDriver == config.DriverMemory {
		logger.Log.Warn("main: данные хранятся в памяти и пропадут при перезапуске")
		return memory.NewStore(), func() {}, nil
	}

	conn, err := db.NewPostgres(ctx, cfg.DatabaseURL, db.DefaultPool)
	if err != nil {
		return nil, nil, err
	}
	if err := db.RunMigrations(ctx, conn, cfg.MigrationsPath); err != nil {
		safeClose(conn)
		return nil, nil, err
	}
	return persistence.NewStore(conn), func() { safeClose(conn) }, nil
}

// safeClose закрывает соединение с базой.
func safeClose(conn *sqlx.DB) {
	if err := conn.Close(); err != nil {
		logger.Log.WithFields(logrus.Fields{"error": err.Error()}).Error("main: ошибка закрытия базы")
	}
}
