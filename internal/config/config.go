package config

import (
	"crypto"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/golang-jwt/jwt/v4"
)

const jwtSigningAlgorithmEd25519 = "EdDSA"

type HttpCfg struct {
	Port            int           `env:"HTTP_PORT" envDefault:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	AllowOrigins    []string      `env:"HTTP_ALLOW_ORIGINS" envSeparator:"," envDefault:"*"`
}

type PostgresCfg struct {
	User        string `env:"POSTGRES_USER"`
	Password    string `env:"POSTGRES_PASSWORD"`
	Database    string `env:"POSTGRES_DB"`
	Host        string `env:"POSTGRES_HOST" envDefault:"localhost"`
	SslMode     string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`
	Port        int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PoolMaxConn int    `env:"POSTGRES_POOL_MAX_CONN" envDefault:"20"`
}

// ConnString builds postgres url, it is used by the pool and by the change listener
func (c PostgresCfg) ConnString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s&pool_max_conns=%d",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SslMode, c.PoolMaxConn,
	)
}

type RedisCfg struct {
	Addr       string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password   string        `env:"REDIS_PASSWORD" envDefault:""`
	DB         int           `env:"REDIS_DB" envDefault:"0"`
	TimeToLive time.Duration `env:"REDIS_CUSTOMER_TTL" envDefault:"10m"`
}

type JwtCfg struct {
	SigningMethod jwt.SigningMethod
	PublicKey     crypto.PublicKey
}

type ResendCfg struct {
	ApiKey  string `env:"RESEND_API_KEY" envDefault:""`
	From    string `env:"RESEND_FROM" envDefault:"WeDoCheapies <loyalty@wedocheapies.co.za>"`
	BaseURL string `env:"RESEND_BASE_URL" envDefault:"https://api.resend.com"`
}

// Enabled reports whether emails can be sent, otherwise notifications are only logged
func (c ResendCfg) Enabled() bool {
	return c.ApiKey != ""
}

type NotifyCfg struct {
	QueueSize int `env:"NOTIFY_QUEUE_SIZE" envDefault:"100"`
}

type RealtimeCfg struct {
	SubscriberBuffer int `env:"REALTIME_SUBSCRIBER_BUFFER" envDefault:"64"`
}

type LogCfg struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type Config struct {
	HttpCfg     HttpCfg
	PostgresCfg PostgresCfg
	RedisCfg    RedisCfg
	JwtCfg      JwtCfg
	ResendCfg   ResendCfg
	NotifyCfg   NotifyCfg
	RealtimeCfg RealtimeCfg
	LogCfg      LogCfg
}

func Build() (Config, error) {
	var cfg Config
	opts := env.Options{RequiredIfNoDef: true}

	if err := env.Parse(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("failed to parse environment variables - %w", err)
	}

	cfg.JwtCfg.SigningMethod = jwt.GetSigningMethod(jwtSigningAlgorithmEd25519)

	jwtPublicKeyFile := os.Getenv("AUTH_JWT_PUBLIC_KEY_FILE")
	jwtPublicKeyBytes, err := os.ReadFile(jwtPublicKeyFile)
	if err != nil {
		return cfg, fmt.Errorf("failed to read public key file for jwt - %w", err)
	}

	jwtPublicKey, err := jwt.ParseEdPublicKeyFromPEM(jwtPublicKeyBytes)
	if err != nil {
		return cfg, fmt.Errorf("failed to parse public key for jwt - %w", err)
	}
	cfg.JwtCfg.PublicKey = jwtPublicKey

	return cfg, nil
}
