package config

import (
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Server   ServerConfig
	Logger   LoggerConfig
	Postgres PostgresConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Elastic  ElasticsearchConfig
	Taxonomy TaxonomyConfig
	I18n     I18nConfig
}

type ServerConfig struct {
	AppEnv   string
	HTTPPort string
	GRPCPort string
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
	File              string
	MaxSizeMB         int
	MaxBackups        int
	MaxAgeDays        int
}

type PostgresConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
	WriteRetries    int
	RetryBackoffMS  int
	AutoMigrate     bool
}

type JWTConfig struct {
	SecretKey string
	Issuer    string
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
	TTLSec   int
}

type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	ListingsTopic string
	TaxonomyTopic string
	TaxonomyGroup string
}

type ElasticsearchConfig struct {
	Enabled   bool
	Addresses []string
	Username  string
	Password  string
	Index     string
}

type TaxonomyConfig struct {
	MediaBaseURL string
	MaxDepth     int
}

type I18nConfig struct {
	// ExtraCatalogs are message files loaded on top of the embedded ones.
	ExtraCatalogs []string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:   getEnv("APP_ENV", "dev"),
			HTTPPort: getEnv("HTTP_PORT", ":8080"),
			GRPCPort: getEnv("GRPC_PORT", ":8082"),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
			File:              getEnv("LOG_FILE", ""),
			MaxSizeMB:         getEnvInt("LOG_MAX_SIZE_MB", 100),
			MaxBackups:        getEnvInt("LOG_MAX_BACKUPS", 5),
			MaxAgeDays:        getEnvInt("LOG_MAX_AGE_DAYS", 30),
		},
		Postgres: PostgresConfig{
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            getEnv("POSTGRES_USER", "marketplace"),
			Password:        getEnv("POSTGRES_PASSWORD", "marketplace"),
			DBName:          getEnv("POSTGRES_DB", "marketplace"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
			WriteRetries:    getEnvInt("DB_WRITE_RETRIES", 3),
			RetryBackoffMS:  getEnvInt("DB_RETRY_BACKOFF_MS", 100),
			AutoMigrate:     getEnvBool("DB_AUTO_MIGRATE", true),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", "your-secret-key-change-this-in-prod"),
			Issuer:    getEnv("JWT_ISSUER", "marketplace-accounts"),
		},
		Redis: RedisConfig{
			Enabled:  getEnvBool("REDIS_ENABLED", true),
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTLSec:   getEnvInt("CACHE_TTL_SECONDS", 600),
		},
		Kafka: KafkaConfig{
			Enabled:       getEnvBool("KAFKA_ENABLED", true),
			Brokers:       getEnvSlice("KAFKA_BROKERS", []string{"localhost:9092"}),
			ListingsTopic: getEnv("KAFKA_TOPIC_LISTINGS", "listings.events"),
			TaxonomyTopic: getEnv("KAFKA_TOPIC_TAXONOMY", "taxonomy.events"),
			TaxonomyGroup: getEnv("KAFKA_GROUP_TAXONOMY", "marketplace-taxonomy-cache"),
		},
		Elastic: ElasticsearchConfig{
			Enabled:   getEnvBool("ELASTICSEARCH_ENABLED", true),
			Addresses: getEnvSlice("ELASTICSEARCH_ADDRESSES", []string{"http://localhost:9200"}),
			Username:  getEnv("ELASTICSEARCH_USERNAME", ""),
			Password:  getEnv("ELASTICSEARCH_PASSWORD", ""),
			Index:     getEnv("ELASTICSEARCH_INDEX_LISTINGS", "listings"),
		},
		Taxonomy: TaxonomyConfig{
			MediaBaseURL: getEnv("MEDIA_BASE_URL", ""),
			MaxDepth:     getEnvInt("CATEGORY_MAX_DEPTH", 16),
		},
		I18n: I18nConfig{
			ExtraCatalogs: getEnvSlice("I18N_EXTRA_CATALOGS", nil),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return strings.Split(value, ",")
	}
	return fallback
}
