package config

import (
	"errors"
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/Gunvolt24/rmq_pruner/internal/match"
)

// Rabbit — параметры подключения к брокеру. Значения по умолчанию
// совпадают с дефолтами RabbitMQ; каждое можно переопределить флагом CLI.
// Имена переменных окружения выводятся только из имён полей
// (PRUNER_RABBIT_HOST и т.д.): альтернативные envconfig-теги здесь
// запрещены — безпрефиксный фоллбек подхватил бы $USER/$HOST/$PORT
// из окружения шелла.
type Rabbit struct {
	Host     string `default:"localhost"`
	Port     int    `default:"5672"`
	Vhost    string `default:"/"`
	User     string `default:"guest"`
	Password string `default:"guest"`
}

// Filter — правила отбора сообщений.
type Filter struct {
	// Queue и Match задаются только флагами CLI (--queue обязателен).
	Queue      string   `ignored:"true"`
	Match      []string `ignored:"true"`
	MatchMode  string   `default:"any" split_words:"true"`
	IgnoreCase bool     `default:"false" split_words:"true"`
	Republish  bool     `default:"false"`
}

// Run — параметры исполнения.
type Run struct {
	Workers     int   `default:"1"`
	BatchSize   int   `default:"50" split_words:"true"`
	MaxMessages int64 `default:"0" split_words:"true"` // 0 — без лимита
}

// Metrics — адрес promhttp-эндпоинта; пустой адрес выключает метрики.
type Metrics struct {
	Addr string `default:""`
}

type Logger struct {
	IsProd bool `default:"false" split_words:"true"`
}

// Tracing — OTLP-трейсинг; по умолчанию выключен. Ключи только с
// префиксом (PRUNER_TRACING_*): стандартные переменные OTEL_* SDK
// читает сам, дублировать их здесь нельзя.
type Tracing struct {
	Enabled     bool    `default:"false"`
	ServiceName string  `default:"rmq-pruner" split_words:"true"`
	Endpoint    string  `default:"localhost:4318"`
	SampleRatio float64 `default:"1" split_words:"true"`
}

type Config struct {
	Rabbit  Rabbit
	Filter  Filter
	Run     Run
	Metrics Metrics
	Logger  Logger
	Tracing Tracing
}

// Load — конфигурация из окружения с префиксом PRUNER.
func Load() (Config, error) {
	return LoadWithPrefix("PRUNER")
}

// LoadWithPrefix — то же с произвольным префиксом (нужно тестам,
// чтобы не толкаться в общем окружении).
func LoadWithPrefix(prefix string) (Config, error) {
	var c Config

	if err := envconfig.Process(prefix, &c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// Validate — проверка до любого обращения к брокеру; ошибка здесь
// означает немедленный выход без подключения.
func (c Config) Validate() error {
	var errs []error

	if c.Filter.Queue == "" {
		errs = append(errs, errors.New("queue name is required"))
	}
	if _, err := match.ParseMode(c.Filter.MatchMode); err != nil {
		errs = append(errs, err)
	}
	if c.Run.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", c.Run.Workers))
	}
	if c.Run.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("batch-size must be >= 1, got %d", c.Run.BatchSize))
	}
	if c.Run.MaxMessages < 0 {
		errs = append(errs, fmt.Errorf("max-messages must be >= 0, got %d", c.Run.MaxMessages))
	}
	if c.Rabbit.Port < 1 || c.Rabbit.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be in [1..65535], got %d", c.Rabbit.Port))
	}

	return errors.Join(errs...)
}
