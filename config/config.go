package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type MongoDBConfig struct {
	DBHost string
	DBPort string
	DBName string
	URI    string
}

// ConnectionURI prefers an explicit DB_URI over host and port.
func (c MongoDBConfig) ConnectionURI() string {
	if c.URI != "" {
		return c.URI
	}
	return fmt.Sprintf("mongodb://%s:%s", c.DBHost, c.DBPort)
}

type KafkaConfig struct {
	BrokerAddress   string
	BrokerTopic     string
	BrokerPartition int
}

type TracingConfig struct {
	CollectorHost string
}

type SMTPConfig struct {
	Host      string
	Port      int
	Sender    string
	Password  string
	Recipient string
}

type ScheduleConfig struct {
	DailyResetTime    string
	Timezone          string
	BroadcastInterval time.Duration
}

type Config struct {
	ServicePort    string
	MetricsPort    string
	Environment    string
	MongoDBConfig  MongoDBConfig
	JWTSecret      string
	KafkaConfig    KafkaConfig
	TracingConfig  TracingConfig
	SMTPConfig     SMTPConfig
	ScheduleConfig ScheduleConfig
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServicePort: getEnv("SERVICE_PORT", "3000"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),
		Environment: getEnv("ENVIRONMENT", "production"),
		MongoDBConfig: MongoDBConfig{
			DBHost: getEnv("DB_HOST", "localhost"),
			DBPort: getEnv("DB_PORT", "27017"),
			DBName: getEnv("DB_NAME", "leitstelle"),
			URI:    os.Getenv("DB_URI"),
		},
		JWTSecret: os.Getenv("JWT_SECRET"),
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   getEnv("BROKER_TOPIC", "leitstelle-events"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
		SMTPConfig: SMTPConfig{
			Host:      os.Getenv("SMTP_HOST"),
			Sender:    os.Getenv("SMTP_SENDER"),
			Password:  os.Getenv("SMTP_PASSWORD"),
			Recipient: os.Getenv("REPORT_RECIPIENT"),
		},
		ScheduleConfig: ScheduleConfig{
			DailyResetTime:    getEnv("DAILY_RESET_TIME", "05:00"),
			Timezone:          getEnv("TIMEZONE", "Europe/Berlin"),
			BroadcastInterval: 5 * time.Second,
		},
	}

	if brokerPartition, err := strconv.Atoi(os.Getenv("BROKER_PARTITION")); err == nil {
		conf.KafkaConfig.BrokerPartition = brokerPartition
	}

	conf.SMTPConfig.Port = 587
	if smtpPort, err := strconv.Atoi(os.Getenv("SMTP_PORT")); err == nil {
		conf.SMTPConfig.Port = smtpPort
	}

	if interval, err := time.ParseDuration(os.Getenv("BROADCAST_INTERVAL")); err == nil && interval > 0 {
		conf.ScheduleConfig.BroadcastInterval = interval
	}

	return &conf
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
