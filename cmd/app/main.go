package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"review-dashboard/internal/config"
	"review-dashboard/internal/database"
	"review-dashboard/internal/domain"
	"review-dashboard/internal/handler"
	"review-dashboard/internal/metrics"
	"review-dashboard/internal/provider"
	"review-dashboard/internal/repository"
	"review-dashboard/internal/schedule"
	"review-dashboard/internal/usecase"
	"review-dashboard/internal/view"

	"github.com/hashicorp/go-multierror"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

func main() {
	// Логгер
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Конфиг
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Warnf("Config loaded with warnings: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warnf("Unknown log level %q, using info", cfg.LogLevel)
	}

	// Источник метрик
	var (
		db           *sql.DB
		metricsSrc   domain.MetricsProvider
		statsHandler *handler.StatsHandler
	)
	months := len(cfg.Dashboard.MonthLabels)

	switch cfg.MetricsSource {
	case config.SourcePostgres:
		db, err = database.NewPostgresDB(cfg)
		if err != nil {
			logger.Fatalf("Database connection failed: %v", err)
		}
		logger.Info("Database connected")

		snapshotRepo := repository.NewSnapshotRepository(db)
		metricsSrc = snapshotRepo
		statsHandler = handler.NewStatsHandler(snapshotRepo, snapshotRepo, months, logger)

	case config.SourceHTTP:
		// Снапшоты отдает внешний сервис, собственный /api/dashboard-stats не публикуется
		metricsSrc = provider.NewHTTP(cfg.MetricsAPIURL, cfg.MetricsAPITimeout)

	default:
		mock := provider.NewMock(cfg.Dashboard.BotUsername).WithMonths(months)
		metricsSrc = mock
		statsHandler = handler.NewStatsHandler(mock, nil, months, logger)
	}
	logger.WithField("source", cfg.MetricsSource).Info("Metrics provider configured")

	// Метрики
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	refreshMetrics := metrics.NewRefresh(registry)
	httpMetrics := metrics.NewHTTP(registry)

	// Представление и рендерер
	memory := view.NewMemory(view.DefaultLayout())
	page, err := view.NewPage(cfg.Dashboard.RepoOwner, cfg.Dashboard.RepoName, cfg.Dashboard.RefreshInterval)
	if err != nil {
		logger.Fatalf("Dashboard page init failed: %v", err)
	}

	scheduler := schedule.NewGocron(cfg.Dashboard.RefreshTimeout, logger)
	dashboardUC := usecase.NewDashboardUseCase(
		cfg.Dashboard, memory, metricsSrc, scheduler, logger,
		usecase.WithObserver(refreshMetrics),
	)

	initCtx, cancelInit := context.WithTimeout(context.Background(), cfg.Dashboard.RefreshTimeout)
	task, err := dashboardUC.Initialize(initCtx)
	cancelInit()
	if err != nil {
		logger.Fatalf("Dashboard initialization failed: %v", err)
	}

	// Echo + Handlers
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(handler.MetricsMiddleware(httpMetrics))
	e.Use(handler.LoggingMiddleware(logger))

	dashboardHandler := handler.NewDashboardHandler(dashboardUC, memory, page, cfg.Dashboard.RefreshTimeout, logger)
	handler.RegisterHandlers(e, handler.NewAPIHandler(dashboardHandler, statsHandler), registry)

	// Запуск сервера
	go func() {
		if err := e.Start(":" + cfg.ServerPort); err != nil {
			logger.Infof("Server stopped: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var result *multierror.Error
	if err := task.Stop(); err != nil {
		result = multierror.Append(result, err)
	}
	if err := e.Shutdown(ctx); err != nil {
		result = multierror.Append(result, err)
	}
	if db != nil {
		if err := db.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if err := result.ErrorOrNil(); err != nil {
		logger.Fatalf("Shutdown failed: %v", err)
	}

	logger.Info("Server exited")
}
