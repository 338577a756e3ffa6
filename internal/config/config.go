package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

// Источники метрик
const (
	SourceMock     = "mock"
	SourceHTTP     = "http"
	SourcePostgres = "postgres"
)

var DefaultMonthLabels = []string{"Oct", "Nov", "Dec", "Jan", "Feb", "Mar", "Apr"}

// Dashboard - неизменяемые настройки рендерера, передаются ему явно.
type Dashboard struct {
	RepoOwner       string
	RepoName        string
	BotUsername     string
	CostPerUser     float64
	MonthLabels     []string
	RefreshInterval time.Duration
	RefreshTimeout  time.Duration
}

type Config struct {
	Dashboard Dashboard

	MetricsSource     string
	MetricsAPIURL     string
	MetricsAPITimeout time.Duration

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string
	LogLevel   string
}

// LoadConfig читает .env (если есть) и переменные окружения.
// Некорректные значения заменяются значениями по умолчанию и попадают в возвращаемую ошибку.
func LoadConfig() (Config, error) {
	var result *multierror.Error
	if err := godotenv.Load(); err != nil {
		result = multierror.Append(result, fmt.Errorf(".env not loaded: %w", err))
	}

	p := &parser{}
	cfg := Config{
		Dashboard: Dashboard{
			RepoOwner:       getEnv("REPO_OWNER", "roopxx"),
			RepoName:        getEnv("REPO_NAME", "pr-agent-test"),
			BotUsername:     getEnv("BOT_USERNAME", "coderabbitai[bot]"),
			CostPerUser:     p.float("COST_PER_USER", 10),
			MonthLabels:     p.list("MONTH_LABELS", DefaultMonthLabels),
			RefreshInterval: p.duration("REFRESH_INTERVAL", 5*time.Minute),
			RefreshTimeout:  p.duration("REFRESH_TIMEOUT", 30*time.Second),
		},
		MetricsSource:     strings.ToLower(getEnv("METRICS_SOURCE", SourceMock)),
		MetricsAPIURL:     getEnv("METRICS_API_URL", "http://localhost:8080"),
		MetricsAPITimeout: p.duration("METRICS_API_TIMEOUT", 10*time.Second),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "password"),
		DBName:            getEnv("DB_NAME", "review_dashboard"),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
	}
	result = multierror.Append(result, p.errs...)

	switch cfg.MetricsSource {
	case SourceMock, SourceHTTP, SourcePostgres:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown METRICS_SOURCE %q, using %q", cfg.MetricsSource, SourceMock))
		cfg.MetricsSource = SourceMock
	}

	if cfg.Dashboard.RefreshInterval <= 0 {
		result = multierror.Append(result, fmt.Errorf("REFRESH_INTERVAL must be positive, using %s", 5*time.Minute))
		cfg.Dashboard.RefreshInterval = 5 * time.Minute
	}

	return cfg, result.ErrorOrNil()
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parser копит ошибки разбора значений окружения.
type parser struct {
	errs []error
}

// list разбирает значения через запятую. Пустой итог заменяется defaultValue.
func (p *parser) list(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return append([]string(nil), defaultValue...)
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		p.errs = append(p.errs, fmt.Errorf("invalid %s %q: no values", key, value))
		return append([]string(nil), defaultValue...)
	}
	return items
}

func (p *parser) float(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s %q: %w", key, value, err))
		return defaultValue
	}
	return f
}

func (p *parser) duration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("invalid %s %q: %w", key, value, err))
		return defaultValue
	}
	return d
}
