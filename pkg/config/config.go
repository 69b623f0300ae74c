package config

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	DefaultStorePath   = "idqueue.db"
	DefaultLogLevel    = "info"
	DefaultQueueAnchor = int64(0)
)

var ErrEmptyStorePath = errors.New("store.path cannot be empty")

// Config is the idqueue configuration. Field tags use mapstructure for viper
// unmarshalling.
type Config struct {
	Store StoreConfig `mapstructure:"store"`
	Log   LogConfig   `mapstructure:"log"`
	Queue QueueConfig `mapstructure:"queue"`
}

type StoreConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// QueueConfig holds the defaults of newly created queues.
type QueueConfig struct {
	Anchor int64 `mapstructure:"anchor"`
}

func (c *Config) Validate() error {
	if c.Store.Path == "" {
		return ErrEmptyStorePath
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c *Config) level() (zapcore.Level, error) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return l, fmt.Errorf("invalid log.level %q: %w", c.Log.Level, err)
	}
	return l, nil
}

// Logger builds a production logger writing at the configured level to
// stderr.
func (c *Config) Logger() (*zap.SugaredLogger, error) {
	l, err := c.level()
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(l)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.Sugar(), nil
}
