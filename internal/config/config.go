package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/dota-match-insight/internal/platform/logging"
)

// Config stores runtime configuration for the service and the CLI.
type Config struct {
	AppEnv                        string
	ServiceName                   string
	ServiceVersion                string
	HTTPAddr                      string
	CORSAllowedOrigins            []string
	ReadTimeout                   time.Duration
	WriteTimeout                  time.Duration
	LogLevel                      logging.Level
	LogFormat                     logging.Format
	CacheTTL                      time.Duration
	ReferenceCacheTTL             time.Duration
	RunTimeout                    time.Duration
	OpenDotaBaseURL               string
	OpenDotaAPIKey                string
	OpenDotaTimeout               time.Duration
	OpenDotaMaxRetries            int
	OpenDotaRateInterval          time.Duration
	OpenDotaFetchWorkers          int
	OpenDotaCircuitEnabled        bool
	OpenDotaCircuitFailureCount   int
	OpenDotaCircuitOpenTimeout    time.Duration
	OpenDotaCircuitHalfOpenMaxReq int
	ArchiveEnabled                bool
	ArchivePath                   string
	PprofEnabled                  bool
	PprofAddr                     string
	UptraceEnabled                bool
	UptraceDSN                    string
	UptraceLogsEnabled            bool
	PyroscopeEnabled              bool
	PyroscopeServerAddress        string
	PyroscopeAppName              string
	PyroscopeAuthToken            string
	PyroscopeBasicAuthUser        string
	PyroscopeBasicAuthPassword    string
	PyroscopeUploadRate           time.Duration
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
	if err != nil {
		return Config{}, err
	}

	logFormatDefault := string(logging.FormatConsole)
	if appEnv != EnvDev {
		logFormatDefault = string(logging.FormatJSON)
	}
	logFormat, err := parseLogFormat(getEnv("LOG_FORMAT", logFormatDefault))
	if err != nil {
		return Config{}, err
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
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "false"))
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

	readTimeout, err := time.ParseDuration(getEnv("HTTP_READ_TIMEOUT", "10s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_READ_TIMEOUT: %w", err)
	}
	// a cold run fetches every match one by one, so the write side gets room
	writeTimeout, err := time.ParseDuration(getEnv("HTTP_WRITE_TIMEOUT", "10m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse HTTP_WRITE_TIMEOUT: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "1h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse CACHE_TTL: %w", err)
	}
	if cacheTTL <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL must be > 0")
	}
	referenceCacheTTL, err := time.ParseDuration(getEnv("REFERENCE_CACHE_TTL", "6h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse REFERENCE_CACHE_TTL: %w", err)
	}
	if referenceCacheTTL <= 0 {
		return Config{}, fmt.Errorf("REFERENCE_CACHE_TTL must be > 0")
	}
	runTimeout, err := time.ParseDuration(getEnv("RUN_TIMEOUT", "15m"))
	if err != nil {
		return Config{}, fmt.Errorf("parse RUN_TIMEOUT: %w", err)
	}
	if runTimeout <= 0 {
		return Config{}, fmt.Errorf("RUN_TIMEOUT must be > 0")
	}

	openDotaTimeout, err := time.ParseDuration(getEnv("OPENDOTA_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENDOTA_TIMEOUT: %w", err)
	}
	if openDotaTimeout <= 0 {
		return Config{}, fmt.Errorf("OPENDOTA_TIMEOUT must be > 0")
	}
	openDotaMaxRetries, err := getEnvAsInt("OPENDOTA_MAX_RETRIES", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENDOTA_MAX_RETRIES: %w", err)
	}
	if openDotaMaxRetries < 0 {
		return Config{}, fmt.Errorf("OPENDOTA_MAX_RETRIES must be >= 0")
	}
	openDotaRateInterval, err := time.ParseDuration(getEnv("OPENDOTA_RATE_INTERVAL", "1100ms"))
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENDOTA_RATE_INTERVAL: %w", err)
	}
	if openDotaRateInterval < 0 {
		return Config{}, fmt.Errorf("OPENDOTA_RATE_INTERVAL must be >= 0")
	}
	openDotaFetchWorkers, err := getEnvAsInt("OPENDOTA_FETCH_WORKERS", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENDOTA_FETCH_WORKERS: %w", err)
	}
	if openDotaFetchWorkers < 1 {
		return Config{}, fmt.Errorf("OPENDOTA_FETCH_WORKERS must be >= 1")
	}
	openDotaCircuitEnabled, err := strconv.ParseBool(getEnv("OPENDOTA_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENDOTA_CIRCUIT_ENABLED: %w", err)
	}
	openDotaCircuitFailureCount, err := getEnvAsInt("OPENDOTA_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENDOTA_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if openDotaCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("OPENDOTA_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	openDotaCircuitOpenTimeout, err := time.ParseDuration(getEnv("OPENDOTA_CIRCUIT_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENDOTA_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if openDotaCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("OPENDOTA_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	openDotaCircuitHalfOpenMaxReq, err := getEnvAsInt("OPENDOTA_CIRCUIT_HALF_OPEN_MAX_REQ", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse OPENDOTA_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if openDotaCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("OPENDOTA_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	archiveEnabled, err := strconv.ParseBool(getEnv("ARCHIVE_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse ARCHIVE_ENABLED: %w", err)
	}
	archivePath := strings.TrimSpace(getEnv("ARCHIVE_PATH", "data/insight.db"))
	if archiveEnabled && archivePath == "" {
		return Config{}, fmt.Errorf("ARCHIVE_PATH is required when ARCHIVE_ENABLED=true")
	}

	cfg := Config{
		AppEnv:                        appEnv,
		ServiceName:                   getEnv("SERVICE_NAME", "dota-match-insight"),
		ServiceVersion:                getEnv("SERVICE_VERSION", "dev"),
		HTTPAddr:                      getEnv("HTTP_ADDR", ":8080"),
		CORSAllowedOrigins:            splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		ReadTimeout:                   readTimeout,
		WriteTimeout:                  writeTimeout,
		LogLevel:                      logging.ParseLevel(getEnv("LOG_LEVEL", "info")),
		LogFormat:                     logFormat,
		CacheTTL:                      cacheTTL,
		ReferenceCacheTTL:             referenceCacheTTL,
		RunTimeout:                    runTimeout,
		OpenDotaBaseURL:               strings.TrimSpace(getEnv("OPENDOTA_BASE_URL", "https://api.opendota.com/api")),
		OpenDotaAPIKey:                strings.TrimSpace(getEnv("OPENDOTA_API_KEY", "")),
		OpenDotaTimeout:               openDotaTimeout,
		OpenDotaMaxRetries:            openDotaMaxRetries,
		OpenDotaRateInterval:          openDotaRateInterval,
		OpenDotaFetchWorkers:          openDotaFetchWorkers,
		OpenDotaCircuitEnabled:        openDotaCircuitEnabled,
		OpenDotaCircuitFailureCount:   openDotaCircuitFailureCount,
		OpenDotaCircuitOpenTimeout:    openDotaCircuitOpenTimeout,
		OpenDotaCircuitHalfOpenMaxReq: openDotaCircuitHalfOpenMaxReq,
		ArchiveEnabled:                archiveEnabled,
		ArchivePath:                   archivePath,
		PprofEnabled:                  pprofEnabled,
		PprofAddr:                     pprofAddr,
		UptraceEnabled:                uptraceEnabled,
		UptraceDSN:                    uptraceDSN,
		UptraceLogsEnabled:            uptraceLogsEnabled,
		PyroscopeEnabled:              pyroscopeEnabled,
		PyroscopeServerAddress:        pyroscopeServerAddress,
		PyroscopeAuthToken:            strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:        strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:    strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:           pyroscopeUploadRate,
	}
	cfg.PyroscopeAppName = strings.TrimSpace(getEnv("PYROSCOPE_APP_NAME", cfg.ServiceName))
	if cfg.PyroscopeEnabled && cfg.PyroscopeAppName == "" {
		return Config{}, fmt.Errorf("PYROSCOPE_APP_NAME cannot be empty when PYROSCOPE_ENABLED=true")
	}
	if cfg.OpenDotaBaseURL == "" {
		return Config{}, fmt.Errorf("OPENDOTA_BASE_URL cannot be empty")
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		return Config{}, fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}

	return cfg, nil
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

func parseLogFormat(v string) (logging.Format, error) {
	switch logging.Format(strings.ToLower(strings.TrimSpace(v))) {
	case logging.FormatJSON:
		return logging.FormatJSON, nil
	case logging.FormatConsole:
		return logging.FormatConsole, nil
	default:
		return "", fmt.Errorf("invalid LOG_FORMAT %q: valid values are %s, %s", v, logging.FormatJSON, logging.FormatConsole)
	}
}
