package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/vedran77/pulse-mirror/pkg/validator"
)

const envPrefix = "MIRROR"

// Source kinds.
const (
	SourceWS    = "ws"
	SourceNATS  = "nats"
	SourceKafka = "kafka"
)

// Snapshot kinds.
const (
	SnapshotFile     = "file"
	SnapshotPostgres = "postgres"
)

type Config struct {
	LogLevel  string         `mapstructure:"log_level"`
	LogFormat string         `mapstructure:"log_format"`
	Source    SourceConfig   `mapstructure:"source"`
	Snapshot  SnapshotConfig `mapstructure:"snapshot"`
	Database  DatabaseConfig `mapstructure:"database"`
	HTTP      HTTPConfig     `mapstructure:"http"`
}

type SourceConfig struct {
	Kind         string   `mapstructure:"kind"`
	WSURL        string   `mapstructure:"ws_url"`
	Token        string   `mapstructure:"token"`
	JWTSecret    string   `mapstructure:"jwt_secret"`
	NATSURL      string   `mapstructure:"nats_url"`
	NATSSubject  string   `mapstructure:"nats_subject"`
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
	KafkaTopic   string   `mapstructure:"kafka_topic"`
	KafkaGroup   string   `mapstructure:"kafka_group"`
}

type SnapshotConfig struct {
	Kind        string `mapstructure:"kind"`
	File        string `mapstructure:"file"`
	WorkspaceID string `mapstructure:"workspace_id"`
	UserID      string `mapstructure:"user_id"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
}

// DSN is the pgx connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable", d.User, d.Password, d.Host, d.Port, d.Name)
}

// HTTPConfig configures the status server. JWTSecret protects /metrics and
// the status API when set.
type HTTPConfig struct {
	Addr      string `mapstructure:"addr"`
	JWTSecret string `mapstructure:"jwt_secret"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")

	v.SetDefault("source.kind", SourceWS)
	v.SetDefault("source.ws_url", "")
	v.SetDefault("source.token", "")
	v.SetDefault("source.jwt_secret", "")
	v.SetDefault("source.nats_url", "nats://localhost:4222")
	v.SetDefault("source.nats_subject", "rtm.events")
	v.SetDefault("source.kafka_brokers", []string{"localhost:9092"})
	v.SetDefault("source.kafka_topic", "rtm-events")
	v.SetDefault("source.kafka_group", "mirror")

	v.SetDefault("snapshot.kind", SnapshotFile)
	v.SetDefault("snapshot.file", "")
	v.SetDefault("snapshot.workspace_id", "")
	v.SetDefault("snapshot.user_id", "")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "pulse")
	v.SetDefault("database.password", "pulse_dev_password")
	v.SetDefault("database.name", "pulse")

	v.SetDefault("http.addr", ":9090")
	v.SetDefault("http.jwt_secret", "")
}

// Load reads .env (if present), then the optional YAML file at path, then
// MIRROR_* environment variables, in increasing priority.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings the selected source and snapshot kinds need.
func (c *Config) Validate() validator.ValidationErrors {
	errs := make(validator.ValidationErrors)

	validator.OneOf(errs, "log_level", c.LogLevel, "debug", "info", "warn", "error")
	validator.OneOf(errs, "log_format", c.LogFormat, "json", "console")

	switch c.Source.Kind {
	case SourceWS:
		validator.URL(errs, "source.ws_url", c.Source.WSURL, "ws", "wss")
	case SourceNATS:
		validator.URL(errs, "source.nats_url", c.Source.NATSURL, "nats", "tls")
		validator.Required(errs, "source.nats_subject", c.Source.NATSSubject)
	case SourceKafka:
		if len(c.Source.KafkaBrokers) == 0 {
			errs.Add("source.kafka_brokers", "At least one broker is required")
		}
		for _, b := range c.Source.KafkaBrokers {
			validator.HostPort(errs, "source.kafka_brokers", b)
		}
		validator.Required(errs, "source.kafka_topic", c.Source.KafkaTopic)
		validator.Required(errs, "source.kafka_group", c.Source.KafkaGroup)
	default:
		validator.OneOf(errs, "source.kind", c.Source.Kind, SourceWS, SourceNATS, SourceKafka)
	}

	switch c.Snapshot.Kind {
	case SnapshotFile:
		validator.Required(errs, "snapshot.file", c.Snapshot.File)
	case SnapshotPostgres:
		validator.UUID(errs, "snapshot.workspace_id", c.Snapshot.WorkspaceID)
		validator.UUID(errs, "snapshot.user_id", c.Snapshot.UserID)
		validator.Required(errs, "database.host", c.Database.Host)
		validator.Required(errs, "database.name", c.Database.Name)
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			errs.Add("database.port", "Invalid port")
		}
	default:
		validator.OneOf(errs, "snapshot.kind", c.Snapshot.Kind, SnapshotFile, SnapshotPostgres)
	}

	validator.HostPort(errs, "http.addr", c.HTTP.Addr)
	return errs
}
