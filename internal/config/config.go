// Package config 用 envconfig 把环境变量映射到配置结构体。
package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// --- HTTP ---
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// --- MySQL ---
	MySQLDSN string `envconfig:"MYSQL_DSN" required:"true"`

	// --- Redis ---
	RedisAddr     string `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// --- Kafka ---
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS" default:"127.0.0.1:9092"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"vote-events"`

	// --- JWT ---
	JWTAccessSecret  string `envconfig:"JWT_ACCESS_SECRET" required:"true"`
	JWTRefreshSecret string `envconfig:"JWT_REFRESH_SECRET" required:"true"`

	// --- SMTP ---
	SMTPHost     string `envconfig:"SMTP_HOST" default:""`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUsername string `envconfig:"SMTP_USERNAME" default:""`
	SMTPPassword string `envconfig:"SMTP_PASSWORD" default:""`
	SMTPFrom     string `envconfig:"SMTP_FROM" default:""`

	// --- Application ---
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	// 建社区所需的最低karma
	CommunityKarmaMin int64 `envconfig:"COMMUNITY_KARMA_MIN" default:"50"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
