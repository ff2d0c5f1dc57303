package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Warehouse  WarehouseConfig  `mapstructure:"warehouse"`
	Completion CompletionConfig `mapstructure:"completion"`
	S3         S3Config         `mapstructure:"s3"`
	Events     EventsConfig     `mapstructure:"events"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// WarehouseConfig picks the SQL driver and its connection settings.
// DSN, when set, is passed to the driver verbatim.
type WarehouseConfig struct {
	Driver    string `mapstructure:"driver"` // snowflake, duckdb or postgres
	DSN       string `mapstructure:"dsn"`
	Account   string `mapstructure:"account"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	Role      string `mapstructure:"role"`
	Warehouse string `mapstructure:"warehouse"`
	Database  string `mapstructure:"database"`
	Schema    string `mapstructure:"schema"`
}

type CompletionConfig struct {
	Backend         string `mapstructure:"backend"` // cortex or anthropic
	Model           string `mapstructure:"model"`
	Structured      bool   `mapstructure:"structured"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	MaxTokens       int64  `mapstructure:"max_tokens"`
}

// S3Config configures the transcript archive. An empty bucket disables it.
type S3Config struct {
	Endpoint        string        `mapstructure:"endpoint"`
	Region          string        `mapstructure:"region"`
	AccessKeyID     string        `mapstructure:"access_key_id"`
	SecretAccessKey string        `mapstructure:"secret_access_key"`
	BucketName      string        `mapstructure:"bucket_name"`
	Prefix          string        `mapstructure:"prefix"`
	PresignTTL      time.Duration `mapstructure:"presign_ttl"`
}

// EventsConfig selects where the activity log goes.
type EventsConfig struct {
	Sink     string `mapstructure:"sink"` // warehouse, mongo or none
	MongoURI string `mapstructure:"mongo_uri"`
	MongoDB  string `mapstructure:"mongo_db"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

const (
	DriverSnowflake = "snowflake"
	DriverDuckDB    = "duckdb"
	DriverPostgres  = "postgres"

	BackendCortex    = "cortex"
	BackendAnthropic = "anthropic"

	SinkWarehouse = "warehouse"
	SinkMongo     = "mongo"
	SinkNone      = "none"
)

// LoadConfig reads configuration from file or environment variables.
// A .env file in path is loaded into the process environment first.
func LoadConfig(path string) (config Config, err error) {
	if err = godotenv.Load(path + "/.env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return config, fmt.Errorf("read config: %w", err)
	}

	if err = v.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("decode config: %w", err)
	}
	return config, config.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "10s")
	// Completion calls run inside the request, so writes get a long budget.
	v.SetDefault("server.write_timeout", "3m")
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("warehouse.driver", DriverSnowflake)
	v.SetDefault("warehouse.account", "")
	v.SetDefault("warehouse.user", "")
	v.SetDefault("warehouse.password", "")
	v.SetDefault("warehouse.dsn", "")
	v.SetDefault("warehouse.role", "TRAINING_APP_ROLE")
	v.SetDefault("warehouse.warehouse", "TRAINING_WH")
	v.SetDefault("warehouse.database", "TRAINING_DB")
	v.SetDefault("warehouse.schema", "PUBLIC")

	v.SetDefault("completion.backend", BackendCortex)
	v.SetDefault("completion.model", "mistral-7b")
	v.SetDefault("completion.structured", false)
	v.SetDefault("completion.anthropic_api_key", "")
	v.SetDefault("completion.max_tokens", 4096)

	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.prefix", "transcripts")
	v.SetDefault("s3.presign_ttl", "15m")

	v.SetDefault("events.sink", SinkWarehouse)
	v.SetDefault("events.mongo_uri", "mongodb://localhost:27017")
	v.SetDefault("events.mongo_db", "trainer_ai")

	v.SetDefault("log.level", "info")
}

// Validate rejects combinations that cannot work at runtime.
func (c Config) Validate() error {
	switch c.Warehouse.Driver {
	case DriverSnowflake:
		if c.Warehouse.DSN == "" && (c.Warehouse.Account == "" || c.Warehouse.User == "") {
			return errors.New("warehouse.account and warehouse.user are required for snowflake")
		}
	case DriverDuckDB, DriverPostgres:
	default:
		return fmt.Errorf("unknown warehouse.driver %q", c.Warehouse.Driver)
	}

	switch c.Completion.Backend {
	case BackendCortex:
		if c.Warehouse.Driver != DriverSnowflake {
			return fmt.Errorf("completion.backend cortex needs the snowflake driver, got %q", c.Warehouse.Driver)
		}
	case BackendAnthropic:
		if c.Completion.AnthropicAPIKey == "" {
			return errors.New("completion.anthropic_api_key is required for the anthropic backend")
		}
	default:
		return fmt.Errorf("unknown completion.backend %q", c.Completion.Backend)
	}
	if c.Completion.Model == "" {
		return errors.New("completion.model is required")
	}

	switch c.Events.Sink {
	case SinkWarehouse, SinkNone:
	case SinkMongo:
		if c.Events.MongoURI == "" {
			return errors.New("events.mongo_uri is required for the mongo sink")
		}
	default:
		return fmt.Errorf("unknown events.sink %q", c.Events.Sink)
	}
	return nil
}
