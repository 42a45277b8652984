package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the single immutable configuration struct, constructed once
// at process start and passed down explicitly.
type Config struct {
	Env      string `env:"APP_ENV" env-default:"development"`
	HTTP     HTTP
	Checkout Checkout
	Store    Store
	Postgres Postgres
	Redis    Redis
	Kafka    Kafka
	Gateway  Gateway
	Auth     Auth
}

type HTTP struct {
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
}

type Checkout struct {
	// SessionTTL bounds how long a session may sit before it expires.
	SessionTTL time.Duration `env:"CHECKOUT_SESSION_TTL" env-default:"30m"`
}

type Store struct {
	// Backend selects the session/order/product storage: "postgres" or "memory".
	Backend string `env:"STORE_BACKEND" env-default:"postgres"`
}

type Postgres struct {
	Host              string        `env:"POSTGRES_HOST" env-default:"localhost"`
	Port              int           `env:"POSTGRES_PORT" env-default:"5432"`
	User              string        `env:"POSTGRES_USER" env-default:"postgres"`
	Password          string        `env:"POSTGRES_PASSWORD" env-default:"postgres"`
	DBName            string        `env:"POSTGRES_DB" env-default:"checkout"`
	MigrationsDirPath string        `env:"MIGRATIONS_DIR" env-default:"./internal/repository/migrations"`
	ConnRetryAttempts uint          `env:"POSTGRES_CONN_RETRY_ATTEMPTS" env-default:"5"`
	ConnRetryDelay    time.Duration `env:"POSTGRES_CONN_RETRY_DELAY" env-default:"1s"`
}

type Redis struct {
	// Addr empty disables the product cache.
	Addr string `env:"REDIS_ADDR" env-default:""`
}

type Kafka struct {
	// Brokers empty disables order event publishing.
	Brokers []string `env:"KAFKA_BROKERS"`
	Topic   string   `env:"KAFKA_ORDER_TOPIC" env-default:"order-events"`
}

type Gateway struct {
	// BaseURL empty selects the simulated gateway (development only).
	BaseURL string        `env:"PAYMENT_GATEWAY_URL" env-default:""`
	APIKey  string        `env:"PAYMENT_GATEWAY_API_KEY" env-default:""`
	Timeout time.Duration `env:"PAYMENT_GATEWAY_TIMEOUT" env-default:"10s"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET" env-default:"dev-secret"`
}

func MustLoad() (cfg Config) {
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		log.Fatalf("Error loading config: %v", err)
	}
	return
}
