package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/clubkit/league-sync/internal/platform/logging"
)

// Config stores runtime configuration for the service.
type Config struct {
	AppEnv                            string
	ServiceName                       string
	ServiceVersion                    string
	HTTPAddr                          string
	DBURL                             string
	DBDisablePreparedBinary           bool
	CacheEnabled                      bool
	CacheTTL                          time.Duration
	CORSAllowedOrigins                []string
	ReadTimeout                       time.Duration
	WriteTimeout                      time.Duration
	PprofEnabled                      bool
	PprofAddr                         string
	SnapshotTTL                       time.Duration
	ClubTeamName                      string
	ForfeitTeam                       string
	ForfeitScore                      [2]int
	IgnoredTeams                      []string
	RefreshWorkerCount                int
	PlayFootballReaderBaseURL         string
	PlayFootballTimeout               time.Duration
	PlayFootballMaxRetries            int
	PlayFootballCircuitEnabled        bool
	PlayFootballCircuitFailureCount   int
	PlayFootballCircuitOpenTimeout    time.Duration
	PlayFootballCircuitHalfOpenMaxReq int
	UptraceEnabled                    bool
	UptraceDSN                        string
	UptraceLogsEnabled                bool
	BetterStackEnabled                bool
	BetterStackEndpoint               string
	BetterStackToken                  string
	BetterStackTimeout                time.Duration
	BetterStackMinLevel               logging.Level
	PyroscopeEnabled                  bool
	PyroscopeServerAddress            string
	PyroscopeAppName                  string
	PyroscopeAuthToken                string
	PyroscopeBasicAuthUser            string
	PyroscopeBasicAuthPassword        string
	PyroscopeUploadRate               time.Duration
	InternalJobToken                  string
	QStashEnabled                     bool
	QStashBaseURL                     string
	QStashToken                       string
	QStashTargetBaseURL               string
	QStashRetries                     int
	QStashCircuitEnabled              bool
	QStashCircuitFailureCount         int
	QStashCircuitOpenTimeout          time.Duration
	QStashCircuitHalfOpenMaxReq       int
	RefreshScheduleCron               string
	LogLevel                          logging.Level
}

func Load() (Config, error) {
	appEnv, err := parseAppEnv(getEnv("APP_ENV", EnvDev))
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
	uptraceLogsEnabled, err := strconv.ParseBool(getEnv("UPTRACE_LOGS_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse UPTRACE_LOGS_ENABLED: %w", err)
	}

	betterStackEnabled, err := strconv.ParseBool(getEnv("BETTERSTACK_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_ENABLED: %w", err)
	}
	betterStackEndpoint := strings.TrimSpace(getEnv("BETTERSTACK_ENDPOINT", ""))
	if betterStackEnabled && betterStackEndpoint == "" {
		return Config{}, fmt.Errorf("BETTERSTACK_ENDPOINT is required when BETTERSTACK_ENABLED=true")
	}
	betterStackTimeout, err := time.ParseDuration(getEnv("BETTERSTACK_TIMEOUT", "3s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse BETTERSTACK_TIMEOUT: %w", err)
	}
	if betterStackTimeout <= 0 {
		return Config{}, fmt.Errorf("BETTERSTACK_TIMEOUT must be > 0")
	}
	betterStackMinLevel := parseLogLevel(getEnv("BETTERSTACK_MIN_LEVEL", "error"))

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

	snapshotTTL, err := time.ParseDuration(getEnv("SNAPSHOT_TTL", "6h"))
	if err != nil {
		return Config{}, fmt.Errorf("parse SNAPSHOT_TTL: %w", err)
	}
	if snapshotTTL <= 0 {
		return Config{}, fmt.Errorf("SNAPSHOT_TTL must be > 0")
	}

	forfeitScore, err := parseScore(getEnv("LEAGUE_FORFEIT_SCORE", "8-0"))
	if err != nil {
		return Config{}, fmt.Errorf("parse LEAGUE_FORFEIT_SCORE: %w", err)
	}

	refreshWorkerCount, err := getEnvAsInt("REFRESH_WORKER_COUNT", 4)
	if err != nil {
		return Config{}, fmt.Errorf("parse REFRESH_WORKER_COUNT: %w", err)
	}
	if refreshWorkerCount < 1 {
		return Config{}, fmt.Errorf("REFRESH_WORKER_COUNT must be >= 1")
	}

	playFootballTimeout, err := time.ParseDuration(getEnv("PLAYFOOTBALL_TIMEOUT", "20s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PLAYFOOTBALL_TIMEOUT: %w", err)
	}
	if playFootballTimeout <= 0 {
		return Config{}, fmt.Errorf("PLAYFOOTBALL_TIMEOUT must be > 0")
	}
	playFootballMaxRetries, err := getEnvAsInt("PLAYFOOTBALL_MAX_RETRIES", 1)
	if err != nil {
		return Config{}, fmt.Errorf("parse PLAYFOOTBALL_MAX_RETRIES: %w", err)
	}
	if playFootballMaxRetries < 0 {
		return Config{}, fmt.Errorf("PLAYFOOTBALL_MAX_RETRIES must be >= 0")
	}
	playFootballCircuitEnabled, err := strconv.ParseBool(getEnv("PLAYFOOTBALL_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PLAYFOOTBALL_CIRCUIT_ENABLED: %w", err)
	}
	playFootballCircuitFailureCount, err := getEnvAsInt("PLAYFOOTBALL_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse PLAYFOOTBALL_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if playFootballCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("PLAYFOOTBALL_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	playFootballCircuitOpenTimeout, err := time.ParseDuration(getEnv("PLAYFOOTBALL_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse PLAYFOOTBALL_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if playFootballCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("PLAYFOOTBALL_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	playFootballCircuitHalfOpenMaxReq, err := getEnvAsInt("PLAYFOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse PLAYFOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if playFootballCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("PLAYFOOTBALL_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}

	qstashEnabled, err := strconv.ParseBool(getEnv("QSTASH_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_ENABLED: %w", err)
	}
	qstashRetries, err := getEnvAsInt("QSTASH_RETRIES", 3)
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_RETRIES: %w", err)
	}
	if qstashRetries < 0 {
		return Config{}, fmt.Errorf("QSTASH_RETRIES must be >= 0")
	}
	qstashCircuitEnabled, err := strconv.ParseBool(getEnv("QSTASH_CIRCUIT_ENABLED", "true"))
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_CIRCUIT_ENABLED: %w", err)
	}
	qstashCircuitFailureCount, err := getEnvAsInt("QSTASH_CIRCUIT_FAILURE_COUNT", 5)
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_CIRCUIT_FAILURE_COUNT: %w", err)
	}
	if qstashCircuitFailureCount < 1 {
		return Config{}, fmt.Errorf("QSTASH_CIRCUIT_FAILURE_COUNT must be >= 1")
	}
	qstashCircuitOpenTimeout, err := time.ParseDuration(getEnv("QSTASH_CIRCUIT_OPEN_TIMEOUT", "15s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_CIRCUIT_OPEN_TIMEOUT: %w", err)
	}
	if qstashCircuitOpenTimeout <= 0 {
		return Config{}, fmt.Errorf("QSTASH_CIRCUIT_OPEN_TIMEOUT must be > 0")
	}
	qstashCircuitHalfOpenMaxReq, err := getEnvAsInt("QSTASH_CIRCUIT_HALF_OPEN_MAX_REQ", 2)
	if err != nil {
		return Config{}, fmt.Errorf("parse QSTASH_CIRCUIT_HALF_OPEN_MAX_REQ: %w", err)
	}
	if qstashCircuitHalfOpenMaxReq < 1 {
		return Config{}, fmt.Errorf("QSTASH_CIRCUIT_HALF_OPEN_MAX_REQ must be >= 1")
	}
	qstashBaseURL := strings.TrimSpace(getEnv("QSTASH_BASE_URL", "https://qstash.upstash.io"))
	qstashToken := strings.TrimSpace(getEnv("QSTASH_TOKEN", ""))
	qstashTargetBaseURL := strings.TrimSpace(getEnv("QSTASH_TARGET_BASE_URL", ""))
	internalJobToken := strings.TrimSpace(getEnv("INTERNAL_JOB_TOKEN", ""))
	if qstashEnabled {
		if qstashToken == "" {
			return Config{}, fmt.Errorf("QSTASH_TOKEN is required when QSTASH_ENABLED=true")
		}
		if qstashTargetBaseURL == "" {
			return Config{}, fmt.Errorf("QSTASH_TARGET_BASE_URL is required when QSTASH_ENABLED=true")
		}
		if internalJobToken == "" {
			return Config{}, fmt.Errorf("INTERNAL_JOB_TOKEN is required when QSTASH_ENABLED=true")
		}
	}

	cfg := Config{
		AppEnv:                            appEnv,
		ServiceName:                       getEnv("APP_SERVICE_NAME", "league-sync-api"),
		ServiceVersion:                    getEnv("APP_SERVICE_VERSION", "dev"),
		HTTPAddr:                          getEnv("APP_HTTP_ADDR", ":8080"),
		DBURL:                             strings.TrimSpace(getEnv("DB_URL", "")),
		DBDisablePreparedBinary:           true,
		CORSAllowedOrigins:                splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		PprofEnabled:                      pprofEnabled,
		PprofAddr:                         pprofAddr,
		SnapshotTTL:                       snapshotTTL,
		ClubTeamName:                      strings.TrimSpace(getEnv("CLUB_TEAM_NAME", "I think we struck goals here")),
		ForfeitTeam:                       strings.TrimSpace(getEnv("LEAGUE_FORFEIT_TEAM", "Call Now To Enter 01702 414079")),
		ForfeitScore:                      forfeitScore,
		IgnoredTeams:                      splitCSV(getEnv("LEAGUE_IGNORED_TEAMS", "")),
		RefreshWorkerCount:                refreshWorkerCount,
		PlayFootballReaderBaseURL:         strings.TrimSpace(getEnv("PLAYFOOTBALL_READER_BASE_URL", "https://r.jina.ai/http://")),
		PlayFootballTimeout:               playFootballTimeout,
		PlayFootballMaxRetries:            playFootballMaxRetries,
		PlayFootballCircuitEnabled:        playFootballCircuitEnabled,
		PlayFootballCircuitFailureCount:   playFootballCircuitFailureCount,
		PlayFootballCircuitOpenTimeout:    playFootballCircuitOpenTimeout,
		PlayFootballCircuitHalfOpenMaxReq: playFootballCircuitHalfOpenMaxReq,
		UptraceEnabled:                    uptraceEnabled,
		UptraceDSN:                        uptraceDSN,
		UptraceLogsEnabled:                uptraceLogsEnabled,
		BetterStackEnabled:                betterStackEnabled,
		BetterStackEndpoint:               betterStackEndpoint,
		BetterStackToken:                  strings.TrimSpace(getEnv("BETTERSTACK_TOKEN", "")),
		BetterStackTimeout:                betterStackTimeout,
		BetterStackMinLevel:               betterStackMinLevel,
		PyroscopeEnabled:                  pyroscopeEnabled,
		PyroscopeServerAddress:            pyroscopeServerAddress,
		PyroscopeAuthToken:                strings.TrimSpace(getEnv("PYROSCOPE_AUTH_TOKEN", "")),
		PyroscopeBasicAuthUser:            strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_USER", "")),
		PyroscopeBasicAuthPassword:        strings.TrimSpace(getEnv("PYROSCOPE_BASIC_AUTH_PASSWORD", "")),
		PyroscopeUploadRate:               pyroscopeUploadRate,
		InternalJobToken:                  internalJobToken,
		QStashEnabled:                     qstashEnabled,
		QStashBaseURL:                     qstashBaseURL,
		QStashToken:                       qstashToken,
		QStashTargetBaseURL:               qstashTargetBaseURL,
		QStashRetries:                     qstashRetries,
		QStashCircuitEnabled:              qstashCircuitEnabled,
		QStashCircuitFailureCount:         qstashCircuitFailureCount,
		QStashCircuitOpenTimeout:          qstashCircuitOpenTimeout,
		QStashCircuitHalfOpenMaxReq:       qstashCircuitHalfOpenMaxReq,
		RefreshScheduleCron:               strings.TrimSpace(getEnv("REFRESH_SCHEDULE_CRON", "0 3 * * *")),
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

	writeTimeout, err := time.ParseDuration(getEnv("APP_WRITE_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("parse APP_WRITE_TIMEOUT: %w", err)
	}

	cfg.ReadTimeout = readTimeout
	cfg.WriteTimeout = writeTimeout
	cfg.LogLevel = parseLogLevel(getEnv("APP_LOG_LEVEL", "info"))

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

// parseScore reads "8-0" style values.
func parseScore(raw string) ([2]int, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), "-", 2)
	if len(parts) != 2 {
		return [2]int{}, fmt.Errorf("invalid score %q, expected home-away", raw)
	}
	home, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return [2]int{}, fmt.Errorf("invalid home goals in %q: %w", raw, err)
	}
	away, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return [2]int{}, fmt.Errorf("invalid away goals in %q: %w", raw, err)
	}
	if home < 0 || away < 0 {
		return [2]int{}, fmt.Errorf("goals must be >= 0 in %q", raw)
	}
	return [2]int{home, away}, nil
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
