package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/liquidity-forecast/internal/config"
	"github.com/iwvelando/liquidity-forecast/pkg/constants"
	"gopkg.in/yaml.v3"
)

// Config holds the HTTP runtime settings of liquidity-server. Database,
// ledger and lock settings live in the application config.
type Config struct {
	Address                  string               `yaml:"address"`
	MaxBodySize              string               `yaml:"maxBodySize"`
	ReadHeaderTimeoutSeconds int                  `yaml:"readHeaderTimeoutSeconds"`
	ShutdownTimeoutSeconds   int                  `yaml:"shutdownTimeoutSeconds"`
	Logging                  config.LoggingConfig `yaml:"logging"`

	maxBodyBytes int64
}

// LoadConfig reads the server config file. A missing file or an empty path
// yields the defaults; unknown keys are rejected so typos do not silently
// fall back to a default.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read server config: %w", err)
		default:
			decoder := yaml.NewDecoder(bytes.NewReader(data))
			decoder.KnownFields(true)
			if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("failed to parse server config: %w", err)
			}
		}
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() error {
	if strings.TrimSpace(c.Address) == "" {
		c.Address = constants.DefaultServerAddress
	}
	if c.ReadHeaderTimeoutSeconds <= 0 {
		c.ReadHeaderTimeoutSeconds = constants.DefaultReadHeaderTimeoutSeconds
	}
	if c.ShutdownTimeoutSeconds <= 0 {
		c.ShutdownTimeoutSeconds = constants.DefaultShutdownTimeoutSeconds
	}

	c.maxBodyBytes = constants.DefaultMaxBodySizeBytes
	if strings.TrimSpace(c.MaxBodySize) != "" {
		size, err := ParseSize(c.MaxBodySize)
		if err != nil {
			return fmt.Errorf("invalid maxBodySize: %w", err)
		}
		c.maxBodyBytes = size
	}
	return nil
}

// BodySizeBytes is the largest JSON request body the API accepts. Larger
// bodies are answered with 413.
func (c *Config) BodySizeBytes() int64 {
	return c.maxBodyBytes
}

// ReadHeaderTimeout bounds how long a client may take to send request headers.
func (c *Config) ReadHeaderTimeout() time.Duration {
	return time.Duration(c.ReadHeaderTimeoutSeconds) * time.Second
}

// ShutdownTimeout bounds how long in-flight requests may run after a stop signal.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

var sizeUnits = []struct {
	suffix     string
	multiplier int64
}{
	{"KB", 1 << 10}, {"MB", 1 << 20},
	{"K", 1 << 10}, {"M", 1 << 20},
	{"B", 1},
}

// ParseSize reads a body limit such as "512", "256K" or "1MB". Plan and
// assumption payloads are small, so units stop at megabytes.
func ParseSize(value string) (int64, error) {
	s := strings.ToUpper(strings.TrimSpace(value))
	multiplier := int64(1)
	for _, unit := range sizeUnits {
		if strings.HasSuffix(s, unit.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, unit.suffix))
			multiplier = unit.multiplier
			break
		}
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("size %q is not a number with an optional K or M unit", value)
	}
	if n <= 0 {
		return 0, fmt.Errorf("size %q must be positive", value)
	}
	if n > (1<<62)/multiplier {
		return 0, fmt.Errorf("size %q is too large", value)
	}
	return n * multiplier, nil
}
