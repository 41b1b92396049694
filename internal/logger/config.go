package logger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"

	consoleTimeFormat = "15:04:05.000"
	// how many frames to skip to get the real caller (ContextLogger method + logMessage)
	callerSkipFrames = 4
)

// GlobalConfig is the logging configuration shared by all loggers.
type GlobalConfig struct {
	DefaultLevel  LogLevel            `yaml:"defaultLevel"`
	PackageLevels map[string]LogLevel `yaml:"packageLevels"`
	// console or json
	Format string `yaml:"format"`
	// file path or one of: stdout, stderr, discard
	OutputPath   string `yaml:"outputPath"`
	ShowCaller   bool   `yaml:"showCaller"`
	TimeLocation string `yaml:"timeLocation"`

	// when set OutputPath is ignored
	Writer io.Writer `yaml:"-"`
}

func DefaultConfig() GlobalConfig {
	return GlobalConfig{
		DefaultLevel: INFO,
		Format:       FormatConsole,
		OutputPath:   "stderr",
	}
}

// LoadGlobalConfig decodes YAML logger configuration. Values missing from the
// file keep their defaults.
func LoadGlobalConfig(fileURL string) (*GlobalConfig, error) {
	f, err := os.Open(filepath.Clean(fileURL))
	if err != nil {
		return nil, fmt.Errorf("opening logger configuration file: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding logger configuration (%s): %w", fileURL, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid logger configuration (%s): %w", fileURL, err)
	}
	return &cfg, nil
}

func (c *GlobalConfig) Validate() error {
	switch c.Format {
	case "", FormatConsole, FormatJSON:
		return nil
	default:
		return fmt.Errorf("unsupported log format %q", c.Format)
	}
}

// writer returns the destination of log records. The closer is nil unless a
// file was opened.
func (c *GlobalConfig) writer() (io.Writer, io.Closer, error) {
	if c.Writer != nil {
		return c.Writer, nil, nil
	}
	switch c.OutputPath {
	case "", "stderr":
		return os.Stderr, nil, nil
	case "stdout":
		return os.Stdout, nil, nil
	case "discard":
		return io.Discard, nil, nil
	default:
		if err := os.MkdirAll(filepath.Dir(c.OutputPath), 0700); err != nil {
			return nil, nil, fmt.Errorf("creating directory for log file: %w", err)
		}
		f, err := os.OpenFile(c.OutputPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		return f, f, nil
	}
}
