package config

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string `env:"ENV" env-default:"dev"`
	ServerPort string `env:"SERVER_PORT" env-default:":5001"`
	BaseURL    string `env:"BASE_URL" env-default:"http://localhost:3000"`
	BodyLimit  int    `env:"BODY_LIMIT" env-default:"26214400"`

	DatabaseDriver string `env:"DATABASE_DRIVER" env-default:"postgres"`
	DatabaseDSN    string `env:"DATABASE_DSN"`

	AccessSecret string `env:"ACCESS_SECRET"`
	// TokenTTL of zero issues tokens without an exp claim.
	TokenTTL time.Duration `env:"TOKEN_TTL" env-default:"1h"`

	UploadDir string `env:"UPLOAD_DIR" env-default:"uploads"`

	ListingDeleteOwnerScoped bool   `env:"LISTING_DELETE_OWNER_SCOPED" env-default:"false"`
	BootstrapAdminID         string `env:"BOOTSTRAP_ADMIN_ID"`

	LogLevel string `env:"LOG_LEVEL" env-default:"info"`
	LogJSON  bool   `env:"LOG_JSON" env-default:"true"`

	KafkaBroker   string `env:"KAFKA_BROKER"`
	KafkaTopic    string `env:"KAFKA_TOPIC" env-default:"bachelor-point.events"`
	KafkaUsername string `env:"KAFKA_USERNAME"`
	KafkaPassword string `env:"KAFKA_PASSWORD"`
	KafkaGroupID  string `env:"KAFKA_GROUP_ID" env-default:"mail-svc"`

	RedisAddr       string        `env:"REDIS_ADDR"`
	ListingCacheTTL time.Duration `env:"LISTING_CACHE_TTL" env-default:"10m"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT" env-default:"587"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	MailFrom     string `env:"MAIL_FROM"`
	MailFromName string `env:"MAIL_FROM_NAME" env-default:"Bachelor Point"`
}

func LoadConfig() (Config, error) {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: env file not found or could not be loaded:", err)
		}
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings the API server cannot start without.
func (c Config) Validate() error {
	if c.AccessSecret == "" {
		return errors.New("ACCESS_SECRET is required")
	}
	if c.DatabaseDSN == "" {
		return errors.New("DATABASE_DSN is required")
	}
	switch c.DatabaseDriver {
	case "postgres", "sqlite":
	default:
		return errors.New("DATABASE_DRIVER must be postgres or sqlite")
	}
	if c.TokenTTL < 0 {
		return errors.New("TOKEN_TTL must not be negative")
	}
	return nil
}

// KafkaEnabled reports whether events should be published.
func (c Config) KafkaEnabled() bool {
	return c.KafkaBroker != ""
}
