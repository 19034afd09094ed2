package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	EnvProduction = "production"
	EnvTest       = "test"

	testJWTSecret = "test_secret"

	DefaultAccessTTL     = time.Hour
	DefaultRefreshTTL    = 7 * 24 * time.Hour
	DefaultRefreshMaxAge = 7 * 24 * time.Hour
)

var (
	ErrMissingSecret      = errors.New("JWT_SECRET is not set")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is not set")
)

type Config struct {
	ServiceName string
	ServerPort  int
	AppEnv      string
	LogLevel    string

	// Origin patterns allowed by CORS, "*" acts as a wildcard.
	FrontendOrigins []string

	DatabaseURL string

	Auth    Auth
	Admin   Admin
	Storage Storage
	Kafka   Kafka
	Search  Search
}

type Auth struct {
	JWTSecret     []byte
	AccessTTL     time.Duration
	RefreshSecret []byte
	RefreshTTL    time.Duration

	// RefreshMaxAge bounds the registry record and the refresh cookie.
	RefreshMaxAge  time.Duration
	ReuseDetection bool
	BcryptCost     int
	SecureCookies  bool
}

type Admin struct {
	Username string
	Password string
}

type Storage struct {
	Endpoint    string
	Region      string
	AccessKey   string
	SecretKey   string
	PublicURL   string
	ImageBucket string
	SpecsBucket string
}

func (s Storage) Enabled() bool {
	return s.Endpoint != "" && s.AccessKey != "" && s.SecretKey != ""
}

type Kafka struct {
	Brokers []string
}

type Search struct {
	URL      string
	User     string
	Password string
	Index    string
}

func (s Search) Enabled() bool { return s.URL != "" }

func (c *Config) IsProduction() bool { return c.AppEnv == EnvProduction }

func (c *Config) IsTest() bool { return c.AppEnv == EnvTest }

// Load reads the process environment. It fails when a secret or the database
// URL is missing outside of test mode.
func Load() (*Config, error) {
	cfg := &Config{
		ServiceName:     EnvDefault("SERVICE_NAME", "shop-admin"),
		ServerPort:      EnvIntDefault("SERVER_PORT", EnvIntDefault("PORT", 3000)),
		AppEnv:          EnvDefault("APP_ENV", os.Getenv("NODE_ENV")),
		LogLevel:        EnvDefault("LOG_LEVEL", "info"),
		FrontendOrigins: CSV(os.Getenv("FRONTEND_URL")),
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		Admin: Admin{
			Username: os.Getenv("ADMIN_USERNAME"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
		Storage: Storage{
			Endpoint:    os.Getenv("STORAGE_ENDPOINT"),
			Region:      EnvDefault("STORAGE_REGION", "us-east-1"),
			AccessKey:   os.Getenv("STORAGE_ACCESS_KEY"),
			SecretKey:   os.Getenv("STORAGE_SECRET_KEY"),
			PublicURL:   os.Getenv("STORAGE_PUBLIC_URL"),
			ImageBucket: EnvDefault("STORAGE_IMAGE_BUCKET", "products"),
			SpecsBucket: EnvDefault("STORAGE_SPECS_BUCKET", "products-specs"),
		},
		Kafka: Kafka{Brokers: CSV(os.Getenv("KAFKA_BROKERS"))},
		Search: Search{
			URL:      os.Getenv("ES_URL"),
			User:     os.Getenv("ES_USER"),
			Password: os.Getenv("ES_PASSWORD"),
			Index:    EnvDefault("ES_INDEX", "products"),
		},
	}

	auth, err := loadAuth(cfg.IsTest())
	if err != nil {
		return nil, err
	}
	auth.SecureCookies = cfg.IsProduction()
	cfg.Auth = auth

	if cfg.DatabaseURL == "" && !cfg.IsTest() {
		return nil, ErrMissingDatabaseURL
	}

	return cfg, nil
}

func loadAuth(testMode bool) (Auth, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if !testMode {
			return Auth{}, ErrMissingSecret
		}
		secret = testJWTSecret
	}

	accessTTL, err := envDuration("JWT_EXPIRES", DefaultAccessTTL)
	if err != nil {
		return Auth{}, err
	}
	refreshTTL, err := envDuration("REFRESH_TOKEN_EXPIRES", DefaultRefreshTTL)
	if err != nil {
		return Auth{}, err
	}

	return Auth{
		JWTSecret:      []byte(secret),
		AccessTTL:      accessTTL,
		RefreshSecret:  []byte(EnvDefault("REFRESH_TOKEN_SECRET", secret)),
		RefreshTTL:     refreshTTL,
		RefreshMaxAge:  refreshMaxAge(os.Getenv("REFRESH_TOKEN_MAX_AGE_MS")),
		ReuseDetection: EnvBool("REFRESH_REUSE_DETECTION"),
		BcryptCost:     EnvIntDefault("BCRYPT_COST", 10),
	}, nil
}

// refreshMaxAge falls back to seven days for empty, unparsable or non-positive values.
func refreshMaxAge(ms string) time.Duration {
	n, err := strconv.ParseInt(ms, 10, 64)
	if err != nil || n <= 0 {
		return DefaultRefreshMaxAge
	}
	return time.Duration(n) * time.Millisecond
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.ServerPort)
}
