package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	NATS      NATSConfig
	Predictor PredictorConfig
	Scoring   ScoringConfig
	Tracing   TracingConfig
	Sentry    SentryConfig
	RateLimit RateLimitConfig
	Secrets   SecretsConfig
	Storage   StorageConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	Environment    string
	ServiceName    string
	ReadTimeout    int
	WriteTimeout   int
	CORSOrigins    string // Comma-separated list of allowed origins
	MaxBodyBytes   int64
	// RequestTimeout bounds a single handler; zero disables it.
	RequestTimeout time.Duration
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Enabled     bool
	AutoMigrate bool
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
	MinConns    int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

// NATSConfig holds event bus configuration
type NATSConfig struct {
	URL     string
	Enabled bool
}

// PredictorConfig holds the remote model endpoint and its resilience knobs
type PredictorConfig struct {
	URL                     string
	APIKey                  string
	Timeout                 time.Duration
	BreakerIntervalSeconds  int
	BreakerTimeoutSeconds   int
	BreakerFailureThreshold int
	BreakerSuccessThreshold int
	RetryAttempts           int
	// BaselineProbability is used by the offline heuristic predictor when URL is empty.
	BaselineProbability float64
}

// ScoringConfig holds scoring engine tuning
type ScoringConfig struct {
	BatchConcurrency int
	MaxBatchSize     int
	CacheTTL         time.Duration
	SequenceLength   int
	VocabularySize   int
}

// TracingConfig holds OpenTelemetry exporter configuration
type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	Insecure    bool
	SampleRatio float64
}

// SentryConfig holds error reporting configuration
type SentryConfig struct {
	DSN         string
	SampleRate  float64
	Environment string
}

// RateLimitConfig holds the token bucket settings applied per client
type RateLimitConfig struct {
	Enabled           bool
	WindowSeconds     int
	DefaultLimit      int
	DefaultBurst      int
	AnonymousLimit    int
	AnonymousBurst    int
	RedisPrefix       string
	// APIKeys identify trusted callers, who get the default (authenticated) limits.
	APIKeys           []string
	EndpointOverrides map[string]EndpointRateLimitConfig
}

// EndpointRateLimitConfig overrides the defaults for one route
type EndpointRateLimitConfig struct {
	AuthenticatedLimit int
	AuthenticatedBurst int
	AnonymousLimit     int
	AnonymousBurst     int
	WindowSeconds      int
}

// Window returns the refill window, defaulting to one minute
func (c RateLimitConfig) Window() time.Duration {
	if c.WindowSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(c.WindowSeconds) * time.Second
}

// StorageConfig holds the object store that archives assessment reports.
// Endpoint targets S3-compatible stores such as MinIO.
type StorageConfig struct {
	Enabled       bool
	Bucket        string
	Region        string
	Endpoint      string
	AccessKey     string
	SecretKey     string
	UsePathStyle  bool
	Prefix        string
	PresignExpiry time.Duration
}

// SecretsConfig selects a secret backend and the references resolved at startup.
// An empty reference leaves the environment value in place.
type SecretsConfig struct {
	Provider           string
	CacheTTL           time.Duration
	AuditEnabled       bool
	VaultAddress       string
	VaultToken         string
	VaultNamespace     string
	VaultMount         string
	AWSRegion          string
	AWSProfile         string
	AWSEndpoint        string
	GCPProjectID       string
	GCPCredentialsFile string
	KubernetesBasePath string

	DatabaseRef      string
	RedisRef         string
	PredictorRef     string
	SentryRef        string
	RateLimitKeysRef string
	StorageRef       string
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	environment := getEnv("ENVIRONMENT", "development")

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Environment:    environment,
			ServiceName:    serviceName,
			ReadTimeout:    getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout:   getEnvAsInt("WRITE_TIMEOUT", 30),
			CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000"),
			MaxBodyBytes:   int64(getEnvAsInt("MAX_BODY_BYTES", 10<<20)),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 25*time.Second),
		},
		Database: DatabaseConfig{
			Enabled:     getEnvAsBool("DB_ENABLED", false),
			AutoMigrate: getEnvAsBool("DB_AUTO_MIGRATE", true),
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        getEnv("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "reviewguard"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Enabled: getEnvAsBool("NATS_ENABLED", false),
		},
		Predictor: PredictorConfig{
			URL:                     getEnv("PREDICTOR_URL", ""),
			APIKey:                  getEnv("PREDICTOR_API_KEY", ""),
			Timeout:                 getEnvAsDuration("PREDICTOR_TIMEOUT", 5*time.Second),
			BreakerIntervalSeconds:  getEnvAsInt("PREDICTOR_BREAKER_INTERVAL", 60),
			BreakerTimeoutSeconds:   getEnvAsInt("PREDICTOR_BREAKER_TIMEOUT", 30),
			BreakerFailureThreshold: getEnvAsInt("PREDICTOR_BREAKER_FAILURES", 5),
			BreakerSuccessThreshold: getEnvAsInt("PREDICTOR_BREAKER_SUCCESSES", 1),
			RetryAttempts:           getEnvAsInt("PREDICTOR_RETRY_ATTEMPTS", 3),
			BaselineProbability:     getEnvAsFloat("PREDICTOR_BASELINE", 0.2),
		},
		Scoring: ScoringConfig{
			BatchConcurrency: getEnvAsInt("SCORING_BATCH_CONCURRENCY", 8),
			MaxBatchSize:     getEnvAsInt("SCORING_MAX_BATCH_SIZE", 1000),
			CacheTTL:         getEnvAsDuration("SCORING_CACHE_TTL", 10*time.Minute),
			SequenceLength:   getEnvAsInt("SCORING_SEQUENCE_LENGTH", 100),
			VocabularySize:   getEnvAsInt("SCORING_VOCABULARY_SIZE", 10000),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("OTEL_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getEnvAsBool("OTEL_EXPORTER_OTLP_INSECURE", true),
			SampleRatio: getEnvAsFloat("OTEL_SAMPLE_RATIO", 1.0),
		},
		Sentry: SentryConfig{
			DSN:         getEnv("SENTRY_DSN", ""),
			SampleRate:  getEnvAsFloat("SENTRY_SAMPLE_RATE", 1.0),
			Environment: environment,
		},
		RateLimit: RateLimitConfig{
			Enabled:        getEnvAsBool("RATE_LIMIT_ENABLED", false),
			WindowSeconds:  getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
			DefaultLimit:   getEnvAsInt("RATE_LIMIT_DEFAULT_LIMIT", 600),
			DefaultBurst:   getEnvAsInt("RATE_LIMIT_DEFAULT_BURST", 60),
			AnonymousLimit: getEnvAsInt("RATE_LIMIT_ANON_LIMIT", 120),
			AnonymousBurst: getEnvAsInt("RATE_LIMIT_ANON_BURST", 20),
			RedisPrefix:    getEnv("RATE_LIMIT_REDIS_PREFIX", "reviewguard:rl"),
			APIKeys:        getEnvAsList("RATE_LIMIT_API_KEYS"),
			EndpointOverrides: map[string]EndpointRateLimitConfig{
				"/api/v1/reviews/batch": {
					AuthenticatedLimit: 60,
					AuthenticatedBurst: 10,
					AnonymousLimit:     10,
					AnonymousBurst:     2,
				},
				"/api/v1/sellers/:seller_id/risk": {
					AuthenticatedLimit: 60,
					AuthenticatedBurst: 10,
					AnonymousLimit:     10,
					AnonymousBurst:     2,
				},
			},
		},
		Secrets: SecretsConfig{
			Provider:           getEnv("SECRETS_PROVIDER", ""),
			CacheTTL:           getEnvAsDuration("SECRETS_CACHE_TTL", 5*time.Minute),
			AuditEnabled:       getEnvAsBool("SECRETS_AUDIT_ENABLED", true),
			VaultAddress:       getEnv("VAULT_ADDR", ""),
			VaultToken:         getEnv("VAULT_TOKEN", ""),
			VaultNamespace:     getEnv("VAULT_NAMESPACE", ""),
			VaultMount:         getEnv("VAULT_MOUNT", "secret"),
			AWSRegion:          getEnv("AWS_REGION", ""),
			AWSProfile:         getEnv("AWS_PROFILE", ""),
			AWSEndpoint:        getEnv("AWS_SECRETS_ENDPOINT", ""),
			GCPProjectID:       getEnv("GCP_PROJECT_ID", ""),
			GCPCredentialsFile: getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
			KubernetesBasePath: getEnv("K8S_SECRETS_PATH", ""),

			DatabaseRef:      getEnv("SECRET_REF_DATABASE", ""),
			RedisRef:         getEnv("SECRET_REF_REDIS", ""),
			PredictorRef:     getEnv("SECRET_REF_PREDICTOR", ""),
			SentryRef:        getEnv("SECRET_REF_SENTRY", ""),
			RateLimitKeysRef: getEnv("SECRET_REF_RATE_LIMIT_KEYS", ""),
			StorageRef:       getEnv("SECRET_REF_STORAGE", ""),
		},
		Storage: StorageConfig{
			Enabled:       getEnvAsBool("REPORTS_ENABLED", false),
			Bucket:        getEnv("REPORTS_BUCKET", "review-guard-reports"),
			Region:        getEnv("REPORTS_REGION", "us-east-1"),
			Endpoint:      getEnv("REPORTS_ENDPOINT", ""),
			AccessKey:     getEnv("REPORTS_ACCESS_KEY", ""),
			SecretKey:     getEnv("REPORTS_SECRET_KEY", ""),
			UsePathStyle:  getEnvAsBool("REPORTS_PATH_STYLE", false),
			Prefix:        getEnv("REPORTS_PREFIX", "assessments"),
			PresignExpiry: getEnvAsDuration("REPORTS_PRESIGN_EXPIRY", 15*time.Minute),
		},
	}

	if cfg.Scoring.BatchConcurrency <= 0 {
		return nil, fmt.Errorf("SCORING_BATCH_CONCURRENCY must be positive, got %d", cfg.Scoring.BatchConcurrency)
	}
	if cfg.Scoring.SequenceLength <= 0 || cfg.Scoring.VocabularySize <= 0 {
		return nil, fmt.Errorf("scoring sequence length and vocabulary size must be positive")
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var values []string
	for _, v := range strings.Split(getEnv(key, ""), ",") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
