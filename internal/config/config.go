package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/commander-stats/internal/platform/logging"
	"github.com/riskibarqy/commander-stats/internal/platform/resilience"
)

const (
	DriverPostgres = "postgres"
	DriverDuckDB   = "duckdb"
)

// Config stores runtime configuration for the reconciliation job.
type Config struct {
	AppEnv         string `validate:"oneof=dev stage prod"`
	ServiceName    string `validate:"required"`
	ServiceVersion string `validate:"required"`
	LogLevel       logging.Level
	LogFormat      logging.Format `validate:"oneof=json console"`

	DBDriver                string `validate:"oneof=postgres duckdb"`
	DBURL                   string
	DBDisablePreparedBinary bool

	SourcePath          string
	SourceRosterSheet   string `validate:"required"`
	SourceRosterColumn  string `validate:"required"`
	SourceRegisterSheet string `validate:"required"`
	SourceDateLayouts   []string

	MatchThreshold int `validate:"min=1,max=100"`

	ScryfallBaseURL               string        `validate:"required,url"`
	ScryfallQuery                 string        `validate:"required"`
	ScryfallUserAgent             string        `validate:"required"`
	ScryfallTimeout               time.Duration `validate:"gt=0"`
	ScryfallMaxRetries            int           `validate:"min=0"`
	ScryfallPageDelay             time.Duration `validate:"min=0"`
	ScryfallCircuitEnabled        bool
	ScryfallCircuitFailureCount   int           `validate:"min=1"`
	ScryfallCircuitOpenTimeout    time.Duration `validate:"gt=0"`
	ScryfallCircuitHalfOpenMaxReq int           `validate:"min=1"`

	UptraceEnabled bool
	UptraceDSN     string `validate:"required_if=UptraceEnabled true"`
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logFormatDefault := string(logging.FormatConsole)
	if appEnv == EnvProd {
		logFormatDefault = string(logging.FormatJSON)
	}

	cfg := Config{
		AppEnv:              appEnv,
		ServiceName:         getEnv("APP_SERVICE_NAME", "commander-stats"),
		ServiceVersion:      getEnv("APP_SERVICE_VERSION", "dev"),
		LogLevel:            parseLogLevel(getEnv("APP_LOG_LEVEL", "info")),
		LogFormat:           logging.ParseFormat(getEnv("APP_LOG_FORMAT", logFormatDefault)),
		DBDriver:            strings.ToLower(strings.TrimSpace(getEnv("DB_DRIVER", DriverDuckDB))),
		DBURL:               strings.TrimSpace(getEnv("DB_URL", "")),
		SourcePath:          strings.TrimSpace(getEnv("SOURCE_PATH", "")),
		SourceRosterSheet:   getEnv("SOURCE_ROSTER_SHEET", "players"),
		SourceRosterColumn:  getEnv("SOURCE_ROSTER_COLUMN", "NOME"),
		SourceRegisterSheet: getEnv("SOURCE_REGISTER_SHEET", "REG"),
		SourceDateLayouts:   splitList(getEnv("SOURCE_DATE_LAYOUTS", ""), "|"),
		ScryfallBaseURL:     strings.TrimRight(getEnv("SCRYFALL_BASE_URL", "https://api.scryfall.com"), "/"),
		ScryfallQuery:       getEnv("SCRYFALL_QUERY", `(type:legendary AND type:creature) OR (oracle:"can be your commander")`),
		ScryfallUserAgent:   getEnv("SCRYFALL_USER_AGENT", "commander-stats/1.0"),
		UptraceDSN:          strings.TrimSpace(getEnv("UPTRACE_DSN", "")),
	}

	if cfg.UptraceDSN == "" {
		cfg.UptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}

	if cfg.DBDisablePreparedBinary, err = strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "false")); err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	if cfg.MatchThreshold, err = getEnvAsInt("MATCH_THRESHOLD", 85); err != nil {
		return Config{}, fmt.Errorf("parse MATCH_THRESHOLD: %w", err)
	}
	if cfg.ScryfallTimeout, err = time.ParseDuration(getEnv("SCRYFALL_TIMEOUT", "30s")); err != nil {
		return Config{}, fmt.Errorf("parse SCRYFALL_TIMEOUT: %w", err)
	}
	if cfg.ScryfallMaxRetries, err = getEnvAsInt("SCRYFALL_MAX_RETRIES", 3); err != nil {
		return Config{}, fmt.Errorf("parse SCRYFALL_MAX_RETRIES: %w", err)
	}
	if cfg.ScryfallPageDelay, err = time.ParseDuration(getEnv("SCRYFALL_PAGE_DELAY", "100ms")); err != nil {
		return Config{}, fmt.Errorf("parse SCRYFALL_PAGE_DELAY: %w", err)
	}
	breaker := resilience.DefaultCircuitBreakerConfig()
	if cfg.ScryfallCircuitEnabled, err = strconv.ParseBool(getEnv("SCRYFALL_CIRCUIT_ENABLED", strconv.FormatBool(breaker.Enabled))); err != nil {
		return Config{}, fmt.Errorf("parse SCRYFALL_CIRCUIT_ENABLED: %w", err)
	}
	if cfg.ScryfallCircuitFailureCount, err = getEnvAsInt("SCRYFALL_CIRCUIT_FAILURE_COUNT", breaker.FailureThreshold); err != nil {
		return Config{}, fmt.Errorf("parse SCRYFALL_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if cfg.ScryfallCircuitOpenTimeout, err = time.ParseDuration(getEnv("SCRYFALL_CIRCUIT_OPEN_TIMEOUT", breaker.OpenTimeout.String())); err != nil {
		return Config{}, fmt.Errorf("parse SCRYFALL_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if cfg.ScryfallCircuitHalfOpenMaxReq, err = getEnvAsInt("SCRYFALL_CIRCUIT_HALF_OPEN_MAX_REQ", breaker.HalfOpenMaxReq); err != nil {
		return Config{}, fmt.Errorf("parse SCRYFALL_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if cfg.UptraceEnabled, err = strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false")); err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the struct tags and the driver specific requirements. It is called again by
// the CLI after flags have overridden the environment.
func (c Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.DBDriver == DriverPostgres && c.DBURL == "" {
		return fmt.Errorf("DB_URL is required when DB_DRIVER=%s", DriverPostgres)
	}
	return nil
}

// DatabaseURL returns the connection string. DuckDB falls back to an in-process database file.
func (c Config) DatabaseURL() string {
	if c.DBURL == "" && c.DBDriver == DriverDuckDB {
		return "commander_stats.duckdb"
	}
	return c.DBURL
}

func parseLogLevel(v string) logging.Level {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "debug":
		return logging.LevelDebug
	case "warn", "warning":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	default:
		return logging.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	value := os.Getenv(key)
	if strings.TrimSpace(value) == "" {
		return fallback
	}

	return value
}

func getEnvAsInt(key string, fallback int) (int, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}

	out, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}

	return out, nil
}

func splitList(v, sep string) []string {
	parts := strings.Split(v, sep)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}

	return out
}

func parseUptraceDSNFromOTLPHeaders(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	items := strings.Split(raw, ",")
	for _, item := range items {
		parts := strings.SplitN(strings.TrimSpace(item), "=", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "uptrace-dsn") {
			value := strings.TrimSpace(parts[1])
			return strings.Trim(value, "\"'")
		}
	}

	return ""
}

const (
	EnvDev   = "dev"
	EnvStage = "stage"
	EnvProd  = "prod"
)

func parseAppEnv(v string) (string, error) {
	value := strings.ToLower(strings.TrimSpace(v))
	switch value {
	case EnvDev, EnvStage, EnvProd:
		return value, nil
	default:
		return "", fmt.Errorf("invalid APP_ENV %q: valid values are %s, %s, %s", v, EnvDev, EnvStage, EnvProd)
	}
}
