package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Gunvolt24/rmq_pruner/config"
	"github.com/Gunvolt24/rmq_pruner/internal/domain"
	"github.com/Gunvolt24/rmq_pruner/internal/match"
	"github.com/Gunvolt24/rmq_pruner/internal/ports"
	"github.com/Gunvolt24/rmq_pruner/internal/pruner"
	"github.com/Gunvolt24/rmq_pruner/internal/rabbit"
	"github.com/Gunvolt24/rmq_pruner/pkg/logger"
	"github.com/Gunvolt24/rmq_pruner/pkg/metrics"
	"github.com/Gunvolt24/rmq_pruner/pkg/telemetry"
)

// App — собранное приложение: координатор запуска и опциональный
// HTTP-сервер метрик.
type App struct {
	Logger      ports.Logger // логгер
	Coordinator ports.Runner // координатор запуска
	MetricsSrv  *http.Server // HTTP-сервер метрик (опционален)
}

// Cleanup — функция освобождения ресурсов.
type Cleanup func()

// Bootstrap — собирает зависимости и возвращает приложение, функцию
// очистки и ошибку. Ошибка подключения к брокеру фатальна: до RUNNING
// дело не доходит.
func Bootstrap(ctx context.Context, cfg *config.Config) (*App, Cleanup, error) {
	// Логгер (dev/prod режим задаётся конфигурацией).
	logg, cleanupLogger, err := logger.NewZapLogger(cfg.Logger.IsProd)
	if err != nil {
		return nil, func() {}, err
	}

	// Регистрация метрик (Prometheus).
	metrics.MustRegister()

	// Трейсинг OTEL (при включённой конфигурации); по умолчанию — no-op.
	shutdownTrace := func(context.Context) error { return nil }
	if cfg.Tracing.Enabled {
		setup, tErr := telemetry.SetupTracing(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
		if tErr != nil {
			logg.Warnf(ctx, "failed to setup tracing: %v", tErr)
		} else {
			logg.Infof(ctx, "otel tracing enabled service=%s endpoint=%s sample=%.2f",
				cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SampleRatio)
			shutdownTrace = setup
		}
	}

	// Единственное соединение и канал на весь запуск; prefetch по
	// размеру ack-батча, как делал оригинальный инструмент.
	ch, err := rabbit.Dial(rabbit.Config{
		Host:     cfg.Rabbit.Host,
		Port:     cfg.Rabbit.Port,
		Vhost:    cfg.Rabbit.Vhost,
		User:     cfg.Rabbit.User,
		Password: cfg.Rabbit.Password,
		Prefetch: cfg.Run.BatchSize,
	})
	if err != nil {
		if cErr := cleanupLogger(); cErr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cErr)
		}
		return nil, func() {}, err
	}
	logg.Infof(ctx, "connected to rabbitmq host=%s port=%d vhost=%q", cfg.Rabbit.Host, cfg.Rabbit.Port, cfg.Rabbit.Vhost)

	// Правила отбора (режим уже проверен в config.Validate).
	mode, err := match.ParseMode(cfg.Filter.MatchMode)
	if err != nil {
		_ = ch.Close()
		return nil, func() {}, err
	}
	matcher, err := match.New(match.Config{
		Terms:      cfg.Filter.Match,
		Mode:       mode,
		IgnoreCase: cfg.Filter.IgnoreCase,
	})
	if err != nil {
		_ = ch.Close()
		return nil, func() {}, err
	}

	counters := pruner.NewCounters(cfg.Run.MaxMessages)
	acker := pruner.NewAcker(ch, cfg.Filter.Queue, cfg.Run.BatchSize)
	coordinator := pruner.NewCoordinator(ch, matcher, acker, counters, logg, pruner.Options{
		Queue:     cfg.Filter.Queue,
		Workers:   cfg.Run.Workers,
		Republish: cfg.Filter.Republish,
	})

	app := &App{
		Logger:      logg,
		Coordinator: coordinator,
	}

	// Метрики поднимаются только при заданном адресе.
	if cfg.Metrics.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		app.MetricsSrv = &http.Server{
			Addr:              cfg.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
	}

	// Очистка ресурсов (в обратном порядке).
	cleanup := func() {
		if terr := shutdownTrace(context.Background()); terr != nil {
			logg.Warnf(ctx, "shutdown tracing: %v", terr)
		}
		if err := ch.Close(); err != nil {
			logg.Warnf(ctx, "channel close error: %v", err)
		}
		if cerr := cleanupLogger(); cerr != nil {
			logg.Warnf(ctx, "cleanup logger: %v", cerr)
		}
	}

	return app, cleanup, nil
}

// Run — выполняет запуск координатора; сервер метрик живёт рядом и
// останавливается после завершения.
func (a *App) Run(ctx context.Context) (domain.Summary, error) {
	if a.MetricsSrv != nil {
		go func() {
			a.Logger.Infof(ctx, "metrics server starting (addr=%s)", a.MetricsSrv.Addr)
			if err := a.MetricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.Logger.Warnf(ctx, "metrics server stopped: %v", err)
			}
		}()
	}

	sum, runErr := a.Coordinator.Run(ctx)

	if a.MetricsSrv != nil {
		shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.MetricsSrv.Shutdown(shCtx); err != nil {
			a.Logger.Warnf(ctx, "metrics server shutdown failed: %v", err)
		}
	}

	return sum, runErr
}
