package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Gunvolt24/rmq_pruner/config"
	"github.com/Gunvolt24/rmq_pruner/internal/app"
)

// stringList — повторяемый флаг (--match можно указывать несколько раз).
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// parseFlags — флаги CLI поверх значений из окружения (PRUNER_*).
func parseFlags(cfg *config.Config) {
	var terms stringList

	flag.StringVar(&cfg.Rabbit.Host, "host", cfg.Rabbit.Host, "rabbitmq host")
	flag.IntVar(&cfg.Rabbit.Port, "port", cfg.Rabbit.Port, "rabbitmq port")
	flag.StringVar(&cfg.Rabbit.Vhost, "vhost", cfg.Rabbit.Vhost, "rabbitmq virtual host")
	flag.StringVar(&cfg.Rabbit.User, "user", cfg.Rabbit.User, "rabbitmq user")
	flag.StringVar(&cfg.Rabbit.Password, "password", cfg.Rabbit.Password, "rabbitmq password")

	flag.StringVar(&cfg.Filter.Queue, "queue", "", "source/destination queue (required)")
	flag.Var(&terms, "match", "substring rule; repeat for multiple rules")
	flag.StringVar(&cfg.Filter.MatchMode, "match-mode", cfg.Filter.MatchMode, "rule combination policy: any|all")
	flag.BoolVar(&cfg.Filter.IgnoreCase, "ignore-case", cfg.Filter.IgnoreCase, "case-insensitive matching")
	flag.BoolVar(&cfg.Filter.Republish, "republish", cfg.Filter.Republish, "republish non-matching messages instead of dropping them")

	flag.IntVar(&cfg.Run.Workers, "workers", cfg.Run.Workers, "concurrent consumer count")
	flag.IntVar(&cfg.Run.BatchSize, "batch-size", cfg.Run.BatchSize, "ack batch threshold")
	flag.Int64Var(&cfg.Run.MaxMessages, "max-messages", cfg.Run.MaxMessages, "processing cap, 0 = unbounded")

	flag.Parse()
	cfg.Filter.Match = terms
}

func main() {
	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	parseFlags(&cfg)

	// Валидация до любого обращения к брокеру.
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	// Отмена по SIGINT/SIGTERM доезжает до воркеров как отмена контекста.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, cleanup, err := app.Bootstrap(ctx, &cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "bootstrap: %v\n", err)
		os.Exit(1)
	}
	sum, runErr := a.Run(ctx)
	if runErr != nil {
		a.Logger.Errorf(ctx, "run failed: %v", runErr)
	}

	cleanup()

	// Итог печатается всегда — и при чистой, и при грязной остановке.
	fmt.Printf("processed=%d matched=%d republished=%d dropped=%d\n",
		sum.Processed, sum.Matched, sum.Republished, sum.Dropped())

	if runErr != nil {
		os.Exit(1)
	}
}
