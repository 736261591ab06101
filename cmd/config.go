package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

type Config struct {
	HTTP   HTTPConfig
	DB     DBConfig
	Log    LogConfig
	Kafka  KafkaConfig
	Redis  RedisConfig
	Outbox OutboxConfig
	Payout PayoutConfig
}

type HTTPConfig struct {
	Port            string        `envconfig:"MARKETPLACE_HTTP_PORT" default:"8080"`
	ShutdownTimeout time.Duration `envconfig:"MARKETPLACE_HTTP_SHUTDOWN_TIMEOUT" default:"10s"`
}

type DBConfig struct {
	Host     string `envconfig:"MARKETPLACE_DB_HOST" required:"true"`
	Port     string `envconfig:"MARKETPLACE_DB_PORT" default:"5432"`
	User     string `envconfig:"MARKETPLACE_DB_USER" required:"true"`
	Password string `envconfig:"MARKETPLACE_DB_PASSWORD"`
	Name     string `envconfig:"MARKETPLACE_DB_NAME" required:"true"`
	SSLMode  string `envconfig:"MARKETPLACE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"MARKETPLACE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"MARKETPLACE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"MARKETPLACE_DB_CONN_MAX_LIFETIME" default:"1h"`
}

func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type LogConfig struct {
	Level  string `envconfig:"MARKETPLACE_LOG_LEVEL" default:"info"`
	Format string `envconfig:"MARKETPLACE_LOG_FORMAT" default:"json"`
}

// KafkaConfig leaves the outbox publisher disabled when Brokers is empty.
type KafkaConfig struct {
	Brokers      []string      `envconfig:"MARKETPLACE_KAFKA_BROKERS"`
	Topic        string        `envconfig:"MARKETPLACE_KAFKA_ORDER_EVENTS_TOPIC" default:"marketplace.order-events"`
	WriteTimeout time.Duration `envconfig:"MARKETPLACE_KAFKA_WRITE_TIMEOUT" default:"10s"`
}

// RedisConfig is optional. Without it every replica drains the outbox.
type RedisConfig struct {
	URL string `envconfig:"MARKETPLACE_REDIS_URL"`
}

type OutboxConfig struct {
	Schedule    string        `envconfig:"MARKETPLACE_OUTBOX_SCHEDULE" default:"*/5 * * * * *"`
	BatchSize   int           `envconfig:"MARKETPLACE_OUTBOX_BATCH_SIZE" default:"100"`
	MaxAttempts int           `envconfig:"MARKETPLACE_OUTBOX_MAX_ATTEMPTS" default:"10"`
	LeaseKey    string        `envconfig:"MARKETPLACE_OUTBOX_LEASE_KEY" default:"marketplace:outbox-publisher"`
	LeaseTTL    time.Duration `envconfig:"MARKETPLACE_OUTBOX_LEASE_TTL" default:"30s"`
}

type PayoutConfig struct {
	Minimum string `envconfig:"MARKETPLACE_PAYOUT_MINIMUM" default:"500"`
}

func (c PayoutConfig) MinimumAmount() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.Minimum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse minimum payout %q: %w", c.Minimum, err)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("minimum payout %q is negative", c.Minimum)
	}
	return d, nil
}

// LoadConfig reads envFile when it exists and then the environment. Values
// already present in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	brokers := c.Kafka.Brokers[:0]
	for _, b := range c.Kafka.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	c.Kafka.Brokers = brokers

	var problems []error
	if len(c.Kafka.Brokers) > 0 && strings.TrimSpace(c.Kafka.Topic) == "" {
		problems = append(problems, errors.New("MARKETPLACE_KAFKA_ORDER_EVENTS_TOPIC is required with brokers"))
	}
	if c.Outbox.BatchSize <= 0 {
		problems = append(problems, errors.New("MARKETPLACE_OUTBOX_BATCH_SIZE must be positive"))
	}
	if c.Outbox.MaxAttempts <= 0 {
		problems = append(problems, errors.New("MARKETPLACE_OUTBOX_MAX_ATTEMPTS must be positive"))
	}
	if c.Outbox.LeaseTTL <= 0 {
		problems = append(problems, errors.New("MARKETPLACE_OUTBOX_LEASE_TTL must be positive"))
	}
	if _, err := c.Payout.MinimumAmount(); err != nil {
		problems = append(problems, err)
	}
	return errors.Join(problems...)
}
