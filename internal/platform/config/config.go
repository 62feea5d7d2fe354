package config

import (
	"os"
	"strconv"
	"time"

	dErrors "storefront/pkg/domain-errors"
)

// Config is resolved once at startup and passed down by parameter. Business
// logic never re-reads the environment.
type Config struct {
	Addr      string
	Upstream  Upstream
	RateLimit RateLimit
	Redis     Redis
	CartTTL   time.Duration
}

// Upstream configures the outbound gateway client.
type Upstream struct {
	APIKey  string
	ShopID  string
	BaseURL string
	Timeout time.Duration
}

// RateLimit bounds outbound request volume per shop.
type RateLimit struct {
	MaxRequests int
	Window      time.Duration
}

// Redis configures the optional shared rate-limit backend. An empty URL
// means the in-memory window store is used instead.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds the configuration from environment variables so main stays
// lean. The two upstream secrets are required; everything else has a default.
func FromEnv() (Config, error) {
	apiKey := os.Getenv("UPSTREAM_API_KEY")
	if apiKey == "" {
		return Config{}, dErrors.New(dErrors.CodeMissingConfiguration,
			"UPSTREAM_API_KEY is not set; the gateway cannot authenticate without it")
	}
	shopID := os.Getenv("UPSTREAM_SHOP_ID")
	if shopID == "" {
		return Config{}, dErrors.New(dErrors.CodeMissingConfiguration,
			"UPSTREAM_SHOP_ID is not set; upstream resources are scoped per shop")
	}

	addr := os.Getenv("STOREFRONT_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	baseURL := os.Getenv("UPSTREAM_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.printify.com/v1"
	}

	return Config{
		Addr: addr,
		Upstream: Upstream{
			APIKey:  apiKey,
			ShopID:  shopID,
			BaseURL: baseURL,
			Timeout: envDuration("UPSTREAM_TIMEOUT", 15*time.Second),
		},
		RateLimit: RateLimit{
			MaxRequests: envInt("UPSTREAM_RATE_LIMIT", 600),
			Window:      envDuration("UPSTREAM_RATE_WINDOW", time.Minute),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		// 0 disables cart expiry; carts then live for the process lifetime.
		CartTTL: envDuration("CART_TTL", 0),
	}, nil
}

func envInt(name string, def int) int {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func envDuration(name string, def time.Duration) time.Duration {
	v := os.Getenv(name)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return def
	}
	return d
}
