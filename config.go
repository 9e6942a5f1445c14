package petstore

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// StoreBackend selects the PetStore implementation
type StoreBackend string

const (
	StoreDynamoDB StoreBackend = "dynamodb"
	StoreMemory   StoreBackend = "memory"
)

// LogFormat selects the log output encoding
type LogFormat string

const (
	LogFormatJSON    LogFormat = "json"
	LogFormatConsole LogFormat = "console"
)

// Environment variable names
const (
	EnvTableName       = "PETS_TABLE_NAME"
	EnvRegion          = "AWS_REGION"
	EnvEndpoint        = "DYNAMODB_ENDPOINT"
	EnvStoreBackend    = "STORE_BACKEND"
	EnvLogLevel        = "LOG_LEVEL"
	EnvLogFormat       = "LOG_FORMAT"
	EnvServerAddr      = "SERVER_ADDR"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)

// Config holds process-level configuration shared by the Lambda and local server
type Config struct {
	// Storage
	TableName string
	Region    string
	Endpoint  string // optional override, e.g. DynamoDB Local
	Store     StoreBackend

	// Logging
	LogLevel  string
	LogFormat LogFormat

	// Local server
	ServerAddr      string
	ShutdownTimeout time.Duration
}

// DefaultConfig provides defaults for every setting
var DefaultConfig = Config{
	TableName:       "PetsTable",
	Region:          "us-east-1",
	Store:           StoreDynamoDB,
	LogLevel:        "info",
	LogFormat:       LogFormatJSON,
	ServerAddr:      ":3000",
	ShutdownTimeout: 5 * time.Second,
}

// LoadConfig reads configuration from the environment and an optional .env file
func LoadConfig() (Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault(EnvTableName, DefaultConfig.TableName)
	v.SetDefault(EnvRegion, DefaultConfig.Region)
	v.SetDefault(EnvStoreBackend, string(DefaultConfig.Store))
	v.SetDefault(EnvLogLevel, DefaultConfig.LogLevel)
	v.SetDefault(EnvLogFormat, string(DefaultConfig.LogFormat))
	v.SetDefault(EnvServerAddr, DefaultConfig.ServerAddr)
	v.SetDefault(EnvShutdownTimeout, DefaultConfig.ShutdownTimeout)

	cfg := Config{
		TableName:       v.GetString(EnvTableName),
		Region:          v.GetString(EnvRegion),
		Endpoint:        v.GetString(EnvEndpoint),
		Store:           StoreBackend(v.GetString(EnvStoreBackend)),
		LogLevel:        v.GetString(EnvLogLevel),
		LogFormat:       LogFormat(v.GetString(EnvLogFormat)),
		ServerAddr:      v.GetString(EnvServerAddr),
		ShutdownTimeout: v.GetDuration(EnvShutdownTimeout),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for unusable values
func (c Config) Validate() error {
	switch c.Store {
	case StoreDynamoDB:
		if c.TableName == "" {
			return fmt.Errorf("%s must be set for the %s store", EnvTableName, c.Store)
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store)
	}

	switch c.LogFormat {
	case LogFormatJSON, LogFormatConsole:
	default:
		return fmt.Errorf("unknown log format %q", c.LogFormat)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	return nil
}

// NewLogger builds the process logger described by the configuration
func NewLogger(cfg Config) zerolog.Logger {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.LogFormat == LogFormatConsole {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		With().
		Timestamp().
		Logger().
		Level(level)
}
