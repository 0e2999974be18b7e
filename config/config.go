package config

import (
	"context"
	"database/sql"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Backend       string
	HTTPAddr      string
	DBHost        string
	DBPort        string
	DBName        string
	DBUser        string
	DBPassword    string
	RedisAddr     string
	KafkaBroker   string
	EventsTopic   string
	StatsGroupID  string
	PublicBaseURL string
	StoreSvcURL   string
	StatsSvcURL   string
	CartTTL       time.Duration
	StatsTTL      time.Duration
	RetryAttempts int
	RetryBackoff  time.Duration
	LogLevel      string
}

// Load reads .env when present; the process environment always wins.
func Load(defaultAddr string) *Config {
	_ = godotenv.Load(".env")

	return &Config{
		Backend:       getEnv("STORE_BACKEND", "postgres"),
		HTTPAddr:      getEnv("HTTP_ADDR", defaultAddr),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBName:        getEnv("DB_NAME", "currycraft"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		RedisAddr:     getEnv("REDIS_HOST", "localhost") + ":" + getEnv("REDIS_PORT", "6379"),
		KafkaBroker:   getEnv("KAFKA_BROKER", "localhost:9092"),
		EventsTopic:   getEnv("ORDER_EVENTS_TOPIC", "order-events"),
		StatsGroupID:  getEnv("STATS_GROUP_ID", "stats-svc"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", "http://localhost:3000"),
		StoreSvcURL:   getEnv("STORE_SVC_URL", "http://localhost:8081"),
		StatsSvcURL:   getEnv("STATS_SVC_URL", "http://localhost:8083"),
		CartTTL:       getDuration("CART_TTL", 7*24*time.Hour),
		StatsTTL:      getDuration("STATS_TTL", 90*24*time.Hour),
		RetryAttempts: getInt("RETRY_ATTEMPTS", 3),
		RetryBackoff:  getDuration("RETRY_BACKOFF", 100*time.Millisecond),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}

// NewLogger builds a production zap logger at the given level; unknown levels fall back to info.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func (c *Config) PostgresDSN() string {
	return "host=" + c.DBHost + " port=" + c.DBPort + " user=" + c.DBUser +
		" password=" + c.DBPassword + " dbname=" + c.DBName + " sslmode=disable"
}

func MustInitPostgres(cfg *Config, logger *zap.Logger) *sql.DB {
	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}

	if err = db.Ping(); err != nil {
		logger.Fatal("failed to ping database", zap.Error(err))
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis(cfg *Config, logger *zap.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Fatal("failed to connect to redis", zap.String("addr", cfg.RedisAddr), zap.Error(err))
	}

	return client
}

func NewKafkaReader(cfg *Config) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{cfg.KafkaBroker},
		Topic:   cfg.EventsTopic,
		GroupID: cfg.StatsGroupID,
	})
}

func NewKafkaWriter(cfg *Config) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.KafkaBroker),
		Topic:                  cfg.EventsTopic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
}
