package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// DevJWTSecret is the signing secret used when none is configured. It is only
// accepted in the development environment.
const DevJWTSecret = "dev-secret-change-me"

// Ticket history sinks.
const (
	SinkDatabase = "database"
	SinkKafka    = "kafka"
)

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// DSN renders the key/value connection string understood by the postgres driver.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// KafkaConfig holds broker settings for ticket events.
type KafkaConfig struct {
	Brokers     []string
	GroupPrefix string
	TicketTopic string
}

// JWTConfig holds admin session token settings.
type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

// ServiceConfig holds all configuration for the ticket machine service.
type ServiceConfig struct {
	Port              string
	AppEnv            string
	StorageBackend    string
	TicketHistorySink string
	OriginStation     string
	DBConfig          DatabaseConfig
	KafkaConfig       KafkaConfig
	JWTConfig         JWTConfig
}

// IsDevelopment reports whether the service runs in the development environment.
func (c *ServiceConfig) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads configuration from the environment and an optional ticketmachine.yaml.
func Load() (*ServiceConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("ticketmachine")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("SERVICE_PORT", ":8080")
	v.SetDefault("STORAGE_BACKEND", StoragePostgres)
	v.SetDefault("TICKET_HISTORY_SINK", SinkDatabase)
	v.SetDefault("ORIGIN_STATION", "Leeds")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "ticketmachine")
	v.SetDefault("DB_SSLMODE", "disable")

	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_GROUP_PREFIX", "ticketmachine-")
	v.SetDefault("KAFKA_TICKET_TOPIC", "ticket.events")

	v.SetDefault("JWT_SECRET", DevJWTSecret)
	v.SetDefault("JWT_TTL", "8h")
}

func fromViper(v *viper.Viper) (*ServiceConfig, error) {
	cfg := &ServiceConfig{
		Port:              servicePort(v.GetString("SERVICE_PORT")),
		AppEnv:            v.GetString("APP_ENV"),
		StorageBackend:    strings.ToLower(v.GetString("STORAGE_BACKEND")),
		TicketHistorySink: strings.ToLower(v.GetString("TICKET_HISTORY_SINK")),
		OriginStation:     v.GetString("ORIGIN_STATION"),
		DBConfig: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSLMODE"),
		},
		KafkaConfig: KafkaConfig{
			Brokers:     splitList(v.GetString("KAFKA_BROKERS")),
			GroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
			TicketTopic: v.GetString("KAFKA_TICKET_TOPIC"),
		},
		JWTConfig: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    v.GetDuration("JWT_TTL"),
		},
	}

	switch cfg.StorageBackend {
	case StoragePostgres, StorageMemory:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND %q", cfg.StorageBackend)
	}
	switch cfg.TicketHistorySink {
	case SinkDatabase, SinkKafka:
	default:
		return nil, fmt.Errorf("unsupported TICKET_HISTORY_SINK %q", cfg.TicketHistorySink)
	}
	if cfg.TicketHistorySink == SinkKafka && cfg.StorageBackend != StoragePostgres {
		return nil, errors.New("TICKET_HISTORY_SINK=kafka requires STORAGE_BACKEND=postgres")
	}
	if !cfg.IsDevelopment() {
		if secret := strings.TrimSpace(cfg.JWTConfig.Secret); secret == "" || secret == DevJWTSecret {
			return nil, fmt.Errorf("JWT_SECRET must be set to a non-default value when APP_ENV=%s", cfg.AppEnv)
		}
	}
	if cfg.JWTConfig.TTL <= 0 {
		cfg.JWTConfig.TTL = 8 * time.Hour
	}
	return cfg, nil
}

// servicePort accepts "8080" or ":8080".
func servicePort(p string) string {
	if p != "" && !strings.Contains(p, ":") {
		return ":" + p
	}
	return p
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
