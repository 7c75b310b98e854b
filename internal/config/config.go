package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	App        AppConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Auth       AuthConfig
	VertexAI   VertexAIConfig
	Classifier ClassifierConfig
	Crawler    CrawlerConfig
	Upload     UploadConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout time.Duration
	PoolMaxConns   int32
	PoolMinConns   int32
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	TTL      time.Duration
}

type AuthConfig struct {
	AccessSecret     string
	RefreshSecret    string
	AccessExpiresIn  time.Duration
	RefreshExpiresIn time.Duration
}

type VertexAIConfig struct {
	ProjectID      string
	Location       string
	GenerateModel  string
	EmbeddingModel string
	// CentroidsFile points at the output of cmd/embeddings; empty means
	// centroids are computed live during warmup.
	CentroidsFile string
}

type ClassifierConfig struct {
	ConfidenceThreshold float64
	AmbiguityMargin     float64
}

type CrawlerConfig struct {
	Timeout       time.Duration
	MinTextLength int
	UseHeadless   bool
}

type UploadConfig struct {
	MaxFileSize  int64
	MaxQuestions int
}

var errMissingRequiredEnv = errors.New("missing required environment variables")

func Load() (Config, error) {
	cfg := Config{}

	var missing []string
	req := func(key string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}
	opt := func(key, def string) string {
		v := strings.TrimSpace(os.Getenv(key))
		if v == "" {
			return def
		}
		return v
	}

	cfg.App = AppConfig{
		AppName:     opt("APP_NAME", "sseojum"),
		Environment: opt("APP_ENV", "development"),
		HTTPPort:    opt("HTTP_PORT", "8080"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:         opt("DB_HOST", "localhost"),
		DBPort:         opt("DB_PORT", "5432"),
		DBName:         opt("DB_NAME", "sseojum"),
		DBUser:         opt("DB_USER", "postgres"),
		DBPassword:     strings.TrimSpace(os.Getenv("DB_PASSWORD")),
		DBSSLMode:      opt("DB_SSL_MODE", "disable"),
		ConnectTimeout: optDuration("DB_CONNECT_TIMEOUT_SECONDS", 10*time.Second),
		PoolMaxConns:   int32(optInt("DB_POOL_MAX_CONNS", 10)),
		PoolMinConns:   int32(optInt("DB_POOL_MIN_CONNS", 1)),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST", "localhost"),
		Port:     opt("REDIS_PORT", "6379"),
		Password: strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		TTL:      optDuration("REDIS_TTL_SECONDS", 600*time.Second),
	}

	cfg.Auth = AuthConfig{
		AccessSecret:     req("JWT_ACCESS_SECRET"),
		RefreshSecret:    req("JWT_REFRESH_SECRET"),
		AccessExpiresIn:  optDuration("JWT_ACCESS_EXPIRES_SECONDS", 30*time.Minute),
		RefreshExpiresIn: optDuration("JWT_REFRESH_EXPIRES_SECONDS", 14*24*time.Hour),
	}

	cfg.VertexAI = VertexAIConfig{
		ProjectID:      req("PROJECT_ID"),
		Location:       req("LOCATION"),
		GenerateModel:  opt("GEMINI_MODEL_NAME", "gemini-2.0-flash-001"),
		EmbeddingModel: opt("EMBEDDING_MODEL_NAME", "text-embedding-005"),
		CentroidsFile:  strings.TrimSpace(os.Getenv("CENTROIDS_FILE")),
	}

	cfg.Classifier = ClassifierConfig{
		ConfidenceThreshold: optFloat("CLASSIFIER_CONFIDENCE_THRESHOLD", 0.58),
		AmbiguityMargin:     optFloat("CLASSIFIER_AMBIGUITY_MARGIN", 0.15),
	}

	cfg.Crawler = CrawlerConfig{
		Timeout:       optDuration("CRAWLING_TIMEOUT_SECONDS", 10*time.Second),
		MinTextLength: optInt("CRAWLING_MIN_TEXT_LENGTH", 200),
		UseHeadless:   optBool("USE_CHROME_HEADLESS", true),
	}

	cfg.Upload = UploadConfig{
		MaxFileSize:  int64(optInt("MAX_FILE_SIZE", 10*1024*1024)),
		MaxQuestions: optInt("MAX_QUESTIONS_PER_SESSION", 3),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	return cfg, nil
}

func optInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

func optFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return def
	}
	return v
}

func optBool(key string, def bool) bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if raw == "" {
		return def
	}
	return raw == "true" || raw == "1" || raw == "yes"
}

func optDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return time.Duration(v) * time.Second
}
