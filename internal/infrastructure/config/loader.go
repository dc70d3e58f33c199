package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environment constants
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// ConfigPaths defines the paths to look for config files
var ConfigPaths = []string{
	"./configs",
	"../configs",
	"../../configs",
}

// DotEnvPaths defines the paths to look for .env files
var DotEnvPaths = []string{
	".env",
	"./configs/.env",
	"../configs/.env",
}

// LoadConfig loads configuration from file based on the environment, with
// AC_-prefixed environment variables overriding file values
func LoadConfig() (*Config, error) {
	if err := loadDotEnvFile(); err != nil {
		// A missing .env file is expected outside local development
		fmt.Println("Warning: Could not load .env file:", err)
	}

	env := getEnvironment()

	v := viper.New()
	v.SetConfigName(env)
	v.SetConfigType("yaml")
	for _, path := range ConfigPaths {
		v.AddConfigPath(path)
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config files are optional: defaults plus env vars are enough to run
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("AC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Environment = env
	normalizeDurations(&config)

	return &config, nil
}

// loadDotEnvFile attempts to load environment variables from .env files
func loadDotEnvFile() error {
	for _, path := range DotEnvPaths {
		if _, err := os.Stat(path); err == nil {
			return godotenv.Load(path)
		}
	}
	return fmt.Errorf("no .env file found in search paths")
}

func getEnvironment() string {
	env := os.Getenv("AC_ENVIRONMENT")
	switch env {
	case Production, Test:
		return env
	default:
		return Development
	}
}

// setDefaults sets default values for non-critical configuration
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.readTimeout", 15)
	v.SetDefault("server.writeTimeout", 15)
	v.SetDefault("server.idleTimeout", 60)
	v.SetDefault("server.readHeaderTimeout", 10)
	v.SetDefault("server.shutdownTimeout", 10)

	v.SetDefault("database.port", "5432")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 30)
	v.SetDefault("database.connMaxIdleTime", 5)
	v.SetDefault("database.queryTimeout", 10)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")

	v.SetDefault("credit.initialGrant", 120)
	v.SetDefault("credit.maxRetries", 3)

	v.SetDefault("webhook.signatureHeader", "X-Webhook-Signature")
	v.SetDefault("webhook.requireSignature", false)
}

// normalizeDurations converts raw numeric config values into durations with
// their documented units
func normalizeDurations(config *Config) {
	config.Server.ReadTimeout = toDuration(config.Server.ReadTimeout, time.Second)
	config.Server.WriteTimeout = toDuration(config.Server.WriteTimeout, time.Second)
	config.Server.IdleTimeout = toDuration(config.Server.IdleTimeout, time.Second)
	config.Server.ReadHeaderTimeout = toDuration(config.Server.ReadHeaderTimeout, time.Second)
	config.Server.ShutdownTimeout = toDuration(config.Server.ShutdownTimeout, time.Second)

	config.Database.ConnMaxLifetime = toDuration(config.Database.ConnMaxLifetime, time.Minute)
	config.Database.ConnMaxIdleTime = toDuration(config.Database.ConnMaxIdleTime, time.Minute)
	config.Database.QueryTimeout = toDuration(config.Database.QueryTimeout, time.Second)
}

// toDuration interprets a bare number as a count of the given unit
func toDuration(d time.Duration, unit time.Duration) time.Duration {
	if d > 0 && d < time.Microsecond {
		return time.Duration(int64(d)) * unit
	}
	return d
}
