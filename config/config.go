package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverMongo  = "mongo"
	DriverMemory = "memory"
)

type Config struct {
	Port            string        `mapstructure:"port"`
	APISecretToken  string        `mapstructure:"api_secret_token"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Storage         StorageConfig `mapstructure:"storage"`
	Mongo           MongoConfig   `mapstructure:"mongo"`
	Log             LogConfig     `mapstructure:"log"`
	CORS            CORSConfig    `mapstructure:"cors"`
}

type StorageConfig struct {
	Driver string `mapstructure:"driver"` // mongo / memory
}

type MongoConfig struct {
	URI           string        `mapstructure:"uri"`
	Database      string        `mapstructure:"database"`
	Timeout       time.Duration `mapstructure:"timeout"`
	EnsureIndexes bool          `mapstructure:"ensure_indexes"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// Load reads the optional YAML file at path, then lets environment variables
// override any key (mongo.uri -> MONGO_URI). A .env file in the working
// directory is loaded first if present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	// ENV 覆盖 YAML
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("api_secret_token", "")
	v.SetDefault("shutdown_timeout", 10*time.Second)
	v.SetDefault("storage.driver", DriverMongo)
	v.SetDefault("mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("mongo.database", "lumos")
	v.SetDefault("mongo.timeout", 5*time.Second)
	v.SetDefault("mongo.ensure_indexes", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("cors.allow_origins", []string{"*"})
}

func (c *Config) Validate() error {
	if c.APISecretToken == "" {
		return fmt.Errorf("api_secret_token is required")
	}
	switch c.Storage.Driver {
	case DriverMongo:
		if c.Mongo.URI == "" || c.Mongo.Database == "" {
			return fmt.Errorf("mongo.uri and mongo.database are required for the mongo driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
