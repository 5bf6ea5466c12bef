package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	LogLevel        string
	LogFormat       string
	MetricsEnabled  bool
	MaxBodyBytes    int64
	ConfigFile      string
}

// fileConfig is the YAML layout. Values sit beneath environment variables
// and flags.
type fileConfig struct {
	ListenAddr      string        `yaml:"listen_addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	LogLevel        string        `yaml:"log_level"`
	LogFormat       string        `yaml:"log_format"`
	MetricsEnabled  bool          `yaml:"metrics_enabled"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes"`
}

func defaults() fileConfig {
	return fileConfig{
		ListenAddr:      "127.0.0.1:8080",
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    60 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
		LogFormat:       "text",
		MetricsEnabled:  true,
		MaxBodyBytes:    1 << 20,
	}
}

// Load parses the process arguments and exits on invalid configuration.
func Load() *Config {
	cfg, err := Parse(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return cfg
}

// Parse builds a Config from args, the environment, an optional .env file
// (ENV_FILE, default ".env") and an optional YAML file (-config or CONFIG_FILE).
// Flags win over the environment, which wins over the file.
func Parse(args []string) (*Config, error) {
	envFile := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	path := lookupFlag(args, "config")
	if path == "" {
		path = getEnv("CONFIG_FILE", "")
	}
	file := defaults()
	if path != "" {
		if err := readFile(path, &file); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	flags := flag.NewFlagSet("llm-stream-sim", flag.ContinueOnError)

	flags.StringVar(&cfg.ConfigFile, "config", path, "YAML configuration file")
	flags.StringVar(&cfg.ListenAddr, "listen-addr", getEnv("LISTEN_ADDR", file.ListenAddr), "HTTP listen address")
	flags.DurationVar(&cfg.ReadTimeout, "read-timeout", getEnvDuration("READ_TIMEOUT", file.ReadTimeout), "HTTP read timeout")
	flags.DurationVar(&cfg.WriteTimeout, "write-timeout", getEnvDuration("WRITE_TIMEOUT", file.WriteTimeout), "HTTP write timeout, must outlast a full stream")
	flags.DurationVar(&cfg.IdleTimeout, "idle-timeout", getEnvDuration("IDLE_TIMEOUT", file.IdleTimeout), "HTTP keep-alive idle timeout")
	flags.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", getEnvDuration("SHUTDOWN_TIMEOUT", file.ShutdownTimeout), "Grace period for in-flight streams on shutdown")
	flags.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", file.LogLevel), "Log level: debug, info, warn, error")
	flags.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", file.LogFormat), "Log format: text or json")
	flags.BoolVar(&cfg.MetricsEnabled, "metrics", getEnvBool("METRICS_ENABLED", file.MetricsEnabled), "Expose Prometheus metrics on /metrics")
	flags.Int64Var(&cfg.MaxBodyBytes, "max-body-bytes", getEnvInt64("MAX_BODY_BYTES", file.MaxBodyBytes), "Maximum request body size")

	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports settings the server cannot run with.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("listen-addr must not be empty")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log-format %q", c.LogFormat)
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("max-body-bytes must be positive, got %d", c.MaxBodyBytes)
	}
	return nil
}

func readFile(path string, out *fileConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// lookupFlag finds -name / --name value forms in args before the flag set is built.
func lookupFlag(args []string, name string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}
		key, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if key != name {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	switch v {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d == 0 {
		return fallback
	}
	return d
}
