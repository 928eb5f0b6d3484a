package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	Database Database `envPrefix:"DATABASE_"`
	Redis    Redis    `envPrefix:"REDIS_"`
	Paypal   Paypal   `envPrefix:"PAYPAL_"`
	Webhook  Webhook  `envPrefix:"WEBHOOK_"`
	Publish  Publish  `envPrefix:"PUBLISH_"`
}

type Paypal struct {
	BaseApiURL   string `env:"BASE_API_URL" envDefault:"https://api-m.sandbox.paypal.com"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	Currency     string `env:"CURRENCY" envDefault:"USD"`
}

type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"` // sqlite | mysql
	URL    string `env:"URL" envDefault:"pages.db"`
}

// Redis is optional; an empty address keeps counters in the database and
// disables the cross-replica publish lock.
type Redis struct {
	Address  string `env:"ADDRESS"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type Webhook struct {
	Secret    string        `env:"SECRET"`
	Tolerance time.Duration `env:"TOLERANCE" envDefault:"5m"`
}

type Publish struct {
	// RequireEntitlement switches between the paid flow and the free tier.
	RequireEntitlement bool          `env:"REQUIRE_ENTITLEMENT" envDefault:"true"`
	FreePlan           string        `env:"FREE_PLAN" envDefault:"normal"`
	FreeDeviceLimit    int64         `env:"FREE_DEVICE_LIMIT" envDefault:"3"`
	LockTTL            time.Duration `env:"LOCK_TTL" envDefault:"10s"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host      string  `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port      string  `env:"HTTP_PORT" envDefault:"8080"`
	RateLimit float64 `env:"HTTP_RATE_LIMIT" envDefault:"10"` // requests per second per client
	RateBurst int     `env:"HTTP_RATE_BURST" envDefault:"20"`
}
