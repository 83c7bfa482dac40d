package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
)

type Config struct {
	MongoURL     string `env:"MONGO_URL,required"`
	DatabaseName string `env:"DATABASE_NAME" envDefault:"financeApp"`
	JWTSecret    string `env:"JWT_SECRET,required"`
	JWTExpiryH   int    `env:"JWT_EXPIRY_HOURS" envDefault:"24"`

	AMQPURL   string `env:"AMQP_URL,required"`
	QueueName string `env:"QUEUE_NAME" envDefault:"transactionQueue"`

	QuoteBaseURL string `env:"QUOTE_BASE_URL" envDefault:"https://api.twelvedata.com"`
	QuoteAPIKey  string `env:"QUOTE_API_KEY,required"`

	DisplayCurrency string `env:"DISPLAY_CURRENCY" envDefault:"EUR"`
	NativeCurrency  string `env:"NATIVE_CURRENCY" envDefault:"USD"`

	ReconnectWaitS int `env:"CONSUMER_RECONNECT_WAIT_S" envDefault:"10"`
	PollIntervalS  int `env:"CONSUMER_POLL_INTERVAL_S" envDefault:"1"`
	IdleIntervalS  int `env:"CONSUMER_IDLE_INTERVAL_S" envDefault:"5"`

	Port     int    `env:"PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	AppEnv   string `env:"APP_ENV" envDefault:"production"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	return &cfg, nil
}

func (c *Config) ReconnectWait() time.Duration { return time.Duration(c.ReconnectWaitS) * time.Second }
func (c *Config) PollInterval() time.Duration  { return time.Duration(c.PollIntervalS) * time.Second }
func (c *Config) IdleInterval() time.Duration  { return time.Duration(c.IdleIntervalS) * time.Second }
func (c *Config) JWTExpiry() time.Duration     { return time.Duration(c.JWTExpiryH) * time.Hour }
