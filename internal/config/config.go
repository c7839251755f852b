package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/thehubfc/prediction-league/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                      string
	ServiceName                 string
	ServiceVersion              string
	HTTPAddr                    string
	DBURL                       string
	DBDisablePreparedBinary     bool
	CacheEnabled                bool
	CacheTTL                    time.Duration
	CORSAllowedOrigins          []string
	ReadTimeout                 time.Duration
	WriteTimeout                time.Duration
	PprofEnabled                bool
	PprofAddr                   string
	SwaggerEnabled              bool
	AnubisBaseURL               string
	AnubisIntrospectURL         string
	AnubisAdminKey              string
	AnubisTimeout               time.Duration
	AnubisCircuitEnabled        bool
	AnubisCircuitFailureCount   int
	AnubisCircuitOpenTimeout    time.Duration
	AnubisCircuitHalfOpenMaxReq int
	UptraceEnabled              bool
	UptraceDSN                  string
	UptraceLogsEnabled          bool
	PyroscopeEnabled            bool
	PyroscopeServerAddress      string
	PyroscopeAppName            string
	PyroscopeAuthToken          string
	PyroscopeBasicAuthUser      string
	PyroscopeBasicAuthPassword  string
	PyroscopeUploadRate         time.Duration
	MailerEnabled               bool
	MailerBaseURL               string
	MailerServiceID             string
	MailerPublicKey             string
	MailerPrivateKey            string
	MailerTemplateActive        string
	MailerTemplateFinal         string
	MailerTimeout               time.Duration
	MailerMaxRetries            int
	MailerWorkers               int
	MailerCircuitEnabled        bool
	MailerCircuitFailureCount   int
	MailerCircuitOpenTimeout    time.Duration
	MailerCircuitHalfOpenMaxReq int
	WinnerMinParticipants       int
	WinnerAllowZeroPoints       bool
	LogLevel                    logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	swaggerDefault := "true"
	if appEnv == EnvProd {
		swaggerDefault = "false"
	}

	swaggerEnabled, err := strconv.ParseBool(getEnv("SWAGGER_ENABLED", swaggerDefault))
	if err != nil {
		return Config{}, fmt.Errorf("parse SWAGGER_ENABLED: %w", err)
	}

	uptraceEnabled, err := strconv.ParseBool(getEnv("UPTRACE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_ENABLED: %w", err)
	}

	uptraceDSN := strings.TrimSpace(getEnv("UPTRACE_DSN", ""))
	if uptraceDSN == "" {
		uptraceDSN = parseUptraceDSNFromOTLPHeaders(getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""))
	}
	if uptraceEnabled && uptraceDSN == "" {
		return Config{}, fmt.Errorf("UPTRACE_DSN is required when UPTRACE_ENABLED=true")
	}
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	pprofEnabled, err := strconv.ParseBool(getEnv("PPROF_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PPROF_ENABLED: %w", err)
	}
	pprofAddr := strings.TrimSpace(getEnv("PPROF_ADDR", ":6060"))
	if pprofEnabled && pprofAddr == "" {
		return Config{}, fmt.Errorf("PPROF_ADDR is required when PPROF_ENABLED=true")
	}

	pyroscopeEnabled, err := strconv.ParseBool(getEnv("PYROSCOPE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_ENABLED: %w", err)
	}
	pyroscopeServerAddress := strings.TrimSpace(getEnv("PYROSCOPE_SERVER_ADDRESS", ""))
	if pyroscopeEnabled && pyroscopeServerAddress == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_SERVER_ADDRESS is required when PYROSCOPE_ENABLED=true")
	}
	pyroscopeUploadRate, err := time.ParseDuration(getEnv("PYROSCOPE_UPLOAD_RATE", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PYROSCOPE_UPLOAD_RATE: %w", err)
	}
	if pyroscopeUploadRate <= 0 {
		return Config{}, fmt.Errorf("PYROSCOPE_UPLOAD_RATE must be > 0")
	}

	mailerEnabled, err := strconv.ParseBool(getEnv("MAILER_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_ENABLED: %w", err)
	}
	mailerTimeout, err := time.ParseDuration(getEnv("MAILER_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_TIMEOUT: %w", err)
	}
	if mailerTimeout <= 0 {
		return Config{}, fmt.Errorf("MAILER_TIMEOUT must be > 0")
	}
	mailerMaxRetries, err := getEnvAsInt("MAILER_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_MAX_RETRIES: %w", err)
	}
	if mailerMaxRetries < 0 {
		return Config{}, fmt.Errorf("MAILER_MAX_RETRIES must be >= 0")
	}
	mailerWorkers, err := getEnvAsInt("MAILER_WORKERS", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_WORKERS: %w", err)
	}
	if mailerWorkers < 1 {
		return Config{}, fmt.Errorf("MAILER_WORKERS must be >= 1")
	}
	mailerCircuitEnabled, err := strconv.ParseBool(getEnv("MAILER_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_CIRCUIT_ENABLED: %w", err)
	}
	mailerCircuitFailureCount, err := getEnvAsInt("MAILER_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if mailerCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("MAILER_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	mailerCircuitOpenTimeout, err := time.ParseDuration(getEnv("MAILER_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if mailerCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("MAILER_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	mailerCircuitHalfOpenMaxReq, err := getEnvAsInt("MAILER_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse MAILER_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if mailerCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("MAILER_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	mailerServiceID := strings.TrimSpace(getEnv("MAILER_SERVICE_ID", ""))
	mailerPublicKey := strings.TrimSpace(getEnv("MAILER_PUBLIC_KEY", ""))
	mailerTemplateActive := strings.TrimSpace(getEnv("MAILER_TEMPLATE_ACTIVE", ""))
	mailerTemplateFinal := strings.TrimSpace(getEnv("MAILER_TEMPLATE_FINAL", ""))
	if mailerEnabled {
		if mailerServiceID == "" {
			return Config{}, fmt.Errorf("MAILER_SERVICE_ID is required when MAILER_ENABLED=true")
		}
		if mailerPublicKey == "" {
			return Config{}, fmt.Errorf("MAILER_PUBLIC_KEY is required when MAILER_ENABLED=true")
		}
		if mailerTemplateActive == "" {
			return Config{}, fmt.Errorf("MAILER_TEMPLATE_ACTIVE is required when MAILER_ENABLED=true")
		}
		if mailerTemplateFinal == "" {
			return Config{}, fmt.Errorf("MAILER_TEMPLATE_FINAL is required when MAILER_ENABLED=true")
		}
	}

	winnerMinParticipants, err := getEnvAsInt("WINNER_MIN_PARTICIPANTS", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse WINNER_MIN_PARTICIPANTS: %w", err)
	}
	if winnerMinParticipants < 1 {
		return Config{}, fmt.Errorf("WINNER_MIN_PARTICIPANTS must be >= 1")
	}
	winnerAllowZeroPoints, err := strconv.ParseBool(getEnv("WINNER_ALLOW_ZERO_POINTS", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse WINNER_ALLOW_ZERO_POINTS: %w", err)
	}

	cfg := Config{
		AppEnv:                      appEnv,
		ServiceName:                 getEnv("APP_SERVICE_NAME", "prediction-league-api"),
		ServiceVersion:              getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                    getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                       strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary:     true,
		CORSAllowedOrigins:          splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:                pprofEnabled,
		PprofAddr:                   pprofAddr,
		SwaggerEnabled:              swaggerEnabled,
		AnubisBaseURL:               getEnv("ANUBIS_BASE_URL", "http://localhost:8081"),
		AnubisIntrospectURL:         getEnv("ANUBIS_INTROSPECT_PATH", "/v1/auth/introspect"),
		AnubisAdminKey:              getEnv("ANUBIS_ADMIN_KEY", ""),
		UptraceEnabled:              uptraceEnabled,
		UptraceDSN:                  uptraceDSN,
		UptraceLogsEnabled:          uptraceLogsEnabled,
		PyroscopeEnabled:            pyroscopeEnabled,
		PyroscopeServerAddress:      pyroscopeServerAddress,
		PyroscopeAuthToken:          strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:      strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:  strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:         pyroscopeUploadRate,
		MailerEnabled:               mailerEnabled,
		MailerBaseURL:               strings.TrimSpace(getEnv("MAILER_BASE_URL", "https://api.emailjs.com")),
		MailerServiceID:             mailerServiceID,
		MailerPublicKey:             mailerPublicKey,
		MailerPrivateKey:            strings.TrimSpace(getEnv("MAILER_PRIVATE_KEY", "")),
		MailerTemplateActive:        mailerTemplateActive,
		MailerTemplateFinal:         mailerTemplateFinal,
		MailerTimeout:               mailerTimeout,
		MailerMaxRetries:            mailerMaxRetries,
		MailerWorkers:               mailerWorkers,
		MailerCircuitEnabled:        mailerCircuitEnabled,
		MailerCircuitFailureCount:   mailerCircuitFailureCount,
		MailerCircuitOpenTimeout:    mailerCircuitOpenTimeout,
		MailerCircuitHalfOpenMaxReq: mailerCircuitHalfOpenMaxReq,
		WinnerMinParticipants:       winnerMinParticipants,
		WinnerAllowZeroPoints:       winnerAllowZeroPoints,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	dbDisablePreparedBinary, err := strconv.ParseBool(getEnv("DB_DISABLE_PREPARED_BINARY_RESULT", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse DB_DISABLE_PREPARED_BINARY_RESULT: %w", err)
	}
	cfg.DBDisablePreparedBinary = dbDisablePreparedBinary

	cacheEnabled, err := strconv.ParseBool(getEnv("CACHE_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_ENABLED: %w", err)
	}
	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "60s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	cfg.CacheEnabled = cacheEnabled
	cfg.CacheTTL = cacheTTL

	readTimeout, err := time.ParseDuration(getEnv("APP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_READ_TIMEOUT: %w", err)
	}

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	anubisTimeout, err := time.ParseDuration(getEnv("ANUBIS_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ANUBIS_TIMEOUT: %w", err)
	}

	anubisCircuitEnabled, err := strconv.ParseBool(getEnv("ANUBIS_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ANUBIS_CIRCUIT_ENABLED: %w", err)
	}

	anubisCircuitFailureCount, err := getEnvAsInt("ANUBIS_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse ANUBIS_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if anubisCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("ANUBIS_CIRCUIT_FAILURE_COUNT must be >= 1")
	}

	anubisCircuitOpenTimeout, err := time.ParseDuration(getEnv("ANUBIS_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ANUBIS_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if anubisCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("ANUBIS_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}

	anubisCircuitHalfOpenMaxReq, err := getEnvAsInt("ANUBIS_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse ANUBIS_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if anubisCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("ANUBIS_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	logLevel := parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.AnubisTimeout = anubisTimeout
	cfg.AnubisCircuitEnabled = anubisCircuitEnabled
	cfg.AnubisCircuitFailureCount = anubisCircuitFailureCount
	cfg.AnubisCircuitOpenTimeout = anubisCircuitOpenTimeout
	cfg.AnubisCircuitHalfOpenMaxReq = anubisCircuitHalfOpenMaxReq
	cfg.LogLevel = logLevel

	return cfg, nil
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

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
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
