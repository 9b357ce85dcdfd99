package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	AES      AESConfig      `mapstructure:"aes"`
	Log      LogConfig      `mapstructure:"log"`
	Momo     MomoConfig     `mapstructure:"momo"`
}

type ServerConfig struct {
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
	Mode    string `mapstructure:"mode"` // debug, release, test
	Version string `mapstructure:"version"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// AESConfig holds the key that seals wallet secrets (ohash, setupKey, rkey)
// at rest. Hex encoded, 32 bytes.
type AESConfig struct {
	Key string `mapstructure:"key"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// MomoConfig selects the app release to impersonate and where to send calls.
type MomoConfig struct {
	Release    string          `mapstructure:"release"`
	Timeout    time.Duration   `mapstructure:"timeout"`
	SessionTTL time.Duration   `mapstructure:"session_ttl"`
	Endpoints  EndpointsConfig `mapstructure:"endpoints"`
}

type EndpointsConfig struct {
	SendOTP         string `mapstructure:"send_otp"`
	RegDevice       string `mapstructure:"reg_device"`
	Login           string `mapstructure:"login"`
	Browse          string `mapstructure:"browse"`
	Details         string `mapstructure:"details"`
	FindReceiver    string `mapstructure:"find_receiver"`
	TransferInit    string `mapstructure:"transfer_init"`
	TransferConfirm string `mapstructure:"transfer_confirm"`
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: BRIDGE_.
// Nested keys use underscore: BRIDGE_DATABASE_HOST, BRIDGE_MOMO_RELEASE, etc.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("BRIDGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The file is optional, env vars can suffice.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.version", "0.0.0")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "momo_bridge")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "momo-bridge")
	v.SetDefault("aes.key", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	v.SetDefault("momo.release", "3.1.17")
	v.SetDefault("momo.timeout", "30s")
	v.SetDefault("momo.session_ttl", "12h")
	v.SetDefault("momo.endpoints.send_otp", "https://api.momo.vn/backend/otp-app/public/SEND_OTP_MSG")
	v.SetDefault("momo.endpoints.reg_device", "https://api.momo.vn/backend/otp-app/public/REG_DEVICE_MSG")
	v.SetDefault("momo.endpoints.login", "https://owa.momo.vn/public/login")
	v.SetDefault("momo.endpoints.browse", "https://api.momo.vn/sync/transhis/browse")
	v.SetDefault("momo.endpoints.details", "https://api.momo.vn/sync/transhis/details")
	v.SetDefault("momo.endpoints.find_receiver", "https://owa.momo.vn/api/FIND_RECEIVER_PROFILE")
	v.SetDefault("momo.endpoints.transfer_init", "https://owa.momo.vn/api/M2MU_INIT")
	v.SetDefault("momo.endpoints.transfer_confirm", "https://owa.momo.vn/api/M2MU_CONFIRM")
}

func (c *Config) validate() error {
	if c.Momo.Release == "" {
		return fmt.Errorf("momo.release must not be empty")
	}
	if c.Momo.Timeout <= 0 {
		return fmt.Errorf("momo.timeout must be positive, got %s", c.Momo.Timeout)
	}
	if c.Momo.SessionTTL <= 0 {
		return fmt.Errorf("momo.session_ttl must be positive, got %s", c.Momo.SessionTTL)
	}
	return nil
}
