package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/vasapolrittideah/challan-api/shared/security"
)

// Original n8n webhook endpoints the submission routes post to by default.
const (
	defaultCSVWebhookURL    = "https://sibwue.app.n8n.cloud/webhook-test/13175e0f-b742-485a-bf22-c08a2b11a041"
	defaultManualWebhookURL = "https://hamzaaliawan.app.n8n.cloud/webhook-test/13175e0f-b742-485a-bf22-c08a2b11a041"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// ChallanServiceConfig holds every setting the service reads at startup.
type ChallanServiceConfig struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"challan-service"`
	AppEnv      string `env:"APP_ENV"      envDefault:"production"`
	LogLevel    string `env:"LOG_LEVEL"    envDefault:"info"`

	HTTP    HTTPConfig
	Mongo   MongoConfig
	Token   TokenConfig
	Hash    HashConfig
	Webhook WebhookConfig
	Consul  ConsulConfig
}

type HTTPConfig struct {
	Host              string        `env:"HTTP_HOST"             envDefault:"0.0.0.0"`
	Port              int           `env:"HTTP_PORT"             envDefault:"8000"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT"        envDefault:"15s"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT"       envDefault:"30s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT"        envDefault:"60s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxUploadBytes    int64         `env:"MAX_UPLOAD_BYTES"      envDefault:"10485760"`
}

type MongoConfig struct {
	StorageDriver  string        `env:"STORAGE_DRIVER"  envDefault:"mongo"`
	URL            string        `env:"MONGO_URL"`
	Database       string        `env:"MONGO_DATABASE"  envDefault:"auth_db"`
	ConnectTimeout time.Duration `env:"MONGO_TIMEOUT"   envDefault:"10s"`
}

type TokenConfig struct {
	SecretKey                string `env:"SECRET_KEY,required,notEmpty"`
	Algorithm                string `env:"ALGORITHM"                   envDefault:"HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"1440"`
	Issuer                   string `env:"TOKEN_ISSUER"                envDefault:"challan-service"`
}

// AccessTokenExpiresIn is the lifetime of issued access tokens.
func (c TokenConfig) AccessTokenExpiresIn() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

type HashConfig struct {
	Scheme     string `env:"PASSWORD_HASH_SCHEME" envDefault:"bcrypt"`
	BcryptCost int    `env:"BCRYPT_COST"          envDefault:"10"`
}

type WebhookConfig struct {
	CSVURL     string        `env:"CSV_WEBHOOK_URL"`
	ManualURL  string        `env:"MANUAL_WEBHOOK_URL"`
	Timeout    time.Duration `env:"WEBHOOK_TIMEOUT"     envDefault:"10s"`
	MaxRetries uint64        `env:"WEBHOOK_MAX_RETRIES" envDefault:"1"`
	Backoff    time.Duration `env:"WEBHOOK_BACKOFF"     envDefault:"500ms"`
}

type ConsulConfig struct {
	Addr           string `env:"CONSUL_ADDR"`
	ServiceAddress string `env:"CONSUL_SERVICE_ADDRESS"`
}

// Load reads an optional .env file and then the environment.
func Load(dotenvFiles ...string) (*ChallanServiceConfig, error) {
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, f := range dotenvFiles {
		// A missing .env file is fine; variables may come from the environment.
		_ = godotenv.Load(f)
	}

	cfg, err := env.ParseAs[ChallanServiceConfig]()
	if err != nil {
		return nil, fmt.Errorf("parse environment variables: %w", err)
	}

	if cfg.Webhook.CSVURL == "" {
		cfg.Webhook.CSVURL = defaultCSVWebhookURL
	}
	if cfg.Webhook.ManualURL == "" {
		cfg.Webhook.ManualURL = defaultManualWebhookURL
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Development reports whether the service runs in development mode.
func (c *ChallanServiceConfig) Development() bool {
	return c.AppEnv == "development"
}

// ListenAddr is the address the HTTP server binds to.
func (c *ChallanServiceConfig) ListenAddr() string {
	return net.JoinHostPort(c.HTTP.Host, strconv.Itoa(c.HTTP.Port))
}

func (c *ChallanServiceConfig) validate() error {
	switch c.Mongo.StorageDriver {
	case StorageMongo:
		if c.Mongo.URL == "" {
			return fmt.Errorf("missing MONGO_URL environment variable")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q", c.Mongo.StorageDriver)
	}

	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP_PORT %d", c.HTTP.Port)
	}
	if c.Token.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	switch security.Scheme(c.Hash.Scheme) {
	case security.SchemeBcrypt, security.SchemeArgon2id:
	default:
		return fmt.Errorf("invalid PASSWORD_HASH_SCHEME %q", c.Hash.Scheme)
	}
	if c.Webhook.Timeout <= 0 {
		return fmt.Errorf("WEBHOOK_TIMEOUT must be positive")
	}
	if c.HTTP.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}

	return nil
}
