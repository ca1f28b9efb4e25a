package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Transcriber providers
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderMock   = "mock"
)

// Artifact store types
const (
	StoreFile  = "file"
	StoreMinio = "minio"
)

// Database drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Defaults
const (
	DefaultHTTPPort        = "5000"
	DefaultModelDir        = "model"
	DefaultMaxAudioBytes   = 5 * 1024 * 1024
	DefaultSTTTimeout      = 60 * time.Second
	DefaultCacheTTL        = 24 * time.Hour
	DefaultSQLitePath      = "data/feedback.db"
	DefaultRateLimitRPS    = 5
	DefaultRateLimitBurst  = 10
	DefaultTemporalHost    = "localhost:7233"
	DefaultTemporalNS      = "default"
	DefaultTemporalQueue   = "callguard-training"
	DefaultGeminiModel     = "gemini-2.0-flash"
	DefaultMockTranscript  = "sample transcript"
	defaultShutdownTimeout = 10 * time.Second
)

// Config is the complete application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Model       ModelConfig       `yaml:"model"`
	Transcriber TranscriberConfig `yaml:"transcriber"`
	Database    DatabaseConfig    `yaml:"database"`
	Temporal    TemporalConfig    `yaml:"temporal"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            string        `yaml:"port"`
	Environment     string        `yaml:"environment"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxAudioBytes   int64         `yaml:"max_audio_bytes"`
	RateLimitRPS    float64       `yaml:"rate_limit_rps"`
	RateLimitBurst  int           `yaml:"rate_limit_burst"`
	CORSOrigins     []string      `yaml:"cors_origins"`

	// AllowMissingModel starts the server degraded when the model store is
	// empty. A partial, corrupt or mismatched artifact still fails startup.
	AllowMissingModel bool `yaml:"allow_missing_model"`
}

// ModelConfig tells where the trained artifact pair lives
type ModelConfig struct {
	Store     string      `yaml:"store"`
	Dir       string      `yaml:"dir"`
	Threshold float64     `yaml:"threshold"`
	Minio     MinioConfig `yaml:"minio"`
}

// MinioConfig holds object storage settings for the artifact store
type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// TranscriberConfig selects and tunes the speech-to-text provider
type TranscriberConfig struct {
	Provider string        `yaml:"provider"`
	Model    string        `yaml:"model"`
	Language string        `yaml:"language"`
	BaseURL  string        `yaml:"base_url"`
	APIKey   string        `yaml:"api_key"`
	Timeout  time.Duration `yaml:"timeout"`
	MockText string        `yaml:"mock_text"`
	Cache    CacheConfig   `yaml:"cache"`
}

// CacheConfig enables the Redis transcript cache when RedisAddr is set
type CacheConfig struct {
	RedisAddr string        `yaml:"redis_addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	TTL       time.Duration `yaml:"ttl"`
}

// DatabaseConfig selects the feedback store
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// TemporalConfig holds Temporal client configuration
type TemporalConfig struct {
	HostPort  string `yaml:"host_port"`
	Namespace string `yaml:"namespace"`
	TaskQueue string `yaml:"task_queue"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            DefaultHTTPPort,
			Environment:     "development",
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    90 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: defaultShutdownTimeout,
			MaxAudioBytes:   DefaultMaxAudioBytes,
			RateLimitRPS:    DefaultRateLimitRPS,
			RateLimitBurst:  DefaultRateLimitBurst,
			CORSOrigins:     []string{"*"},
		},
		Model: ModelConfig{
			Store:     StoreFile,
			Dir:       DefaultModelDir,
			Threshold: 0.5,
		},
		Transcriber: TranscriberConfig{
			Provider: ProviderOpenAI,
			Timeout:  DefaultSTTTimeout,
			MockText: DefaultMockTranscript,
			Cache:    CacheConfig{TTL: DefaultCacheTTL},
		},
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			DSN:    DefaultSQLitePath,
		},
		Temporal: TemporalConfig{
			HostPort:  DefaultTemporalHost,
			Namespace: DefaultTemporalNS,
			TaskQueue: DefaultTemporalQueue,
		},
	}
}

// Load reads the YAML file at path on top of the defaults, expands ${VAR}
// references, applies CALLGUARD_* environment overrides and validates the
// result. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(os.ExpandEnv(path))
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Server.Host = getEnvOrDefault("CALLGUARD_HOST", c.Server.Host)
	c.Server.Port = getEnvOrDefault("CALLGUARD_PORT", c.Server.Port)
	c.Server.Environment = getEnvOrDefault("CALLGUARD_ENV", c.Server.Environment)
	c.Model.Store = getEnvOrDefault("CALLGUARD_MODEL_STORE", c.Model.Store)
	c.Model.Dir = getEnvOrDefault("CALLGUARD_MODEL_DIR", c.Model.Dir)
	c.Model.Minio.Endpoint = getEnvOrDefault("MINIO_ENDPOINT", c.Model.Minio.Endpoint)
	c.Model.Minio.AccessKey = getEnvOrDefault("MINIO_ACCESS_KEY", c.Model.Minio.AccessKey)
	c.Model.Minio.SecretKey = getEnvOrDefault("MINIO_SECRET_KEY", c.Model.Minio.SecretKey)
	c.Model.Minio.Bucket = getEnvOrDefault("MINIO_BUCKET", c.Model.Minio.Bucket)
	c.Transcriber.Provider = getEnvOrDefault("CALLGUARD_TRANSCRIBER", c.Transcriber.Provider)
	c.Transcriber.Cache.RedisAddr = getEnvOrDefault("REDIS_ADDR", c.Transcriber.Cache.RedisAddr)
	c.Database.Driver = getEnvOrDefault("CALLGUARD_DB_DRIVER", c.Database.Driver)
	c.Database.DSN = getEnvOrDefault("CALLGUARD_DB_DSN", c.Database.DSN)
	c.Temporal.HostPort = getEnvOrDefault("TEMPORAL_HOST", c.Temporal.HostPort)
	c.Temporal.Namespace = getEnvOrDefault("TEMPORAL_NAMESPACE", c.Temporal.Namespace)
	c.Temporal.TaskQueue = getEnvOrDefault("TASK_QUEUE", c.Temporal.TaskQueue)

	if v := os.Getenv("CALLGUARD_THRESHOLD"); v != "" {
		t, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid CALLGUARD_THRESHOLD %q: %w", v, err)
		}
		c.Model.Threshold = t
	}
	if v := os.Getenv("CALLGUARD_ALLOW_MISSING_MODEL"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid CALLGUARD_ALLOW_MISSING_MODEL %q: %w", v, err)
		}
		c.Server.AllowMissingModel = b
	}
	if v := os.Getenv("CALLGUARD_MAX_AUDIO_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid CALLGUARD_MAX_AUDIO_BYTES %q: %w", v, err)
		}
		c.Server.MaxAudioBytes = n
	}
	return nil
}

// Validate checks the configuration for values the application cannot run with
func (c *Config) Validate() error {
	if err := ValidatePort(c.Server.Port, "server"); err != nil {
		return err
	}
	if err := ValidateTimeout(c.Server.ReadTimeout, "server read"); err != nil {
		return err
	}
	if err := ValidateTimeout(c.Server.WriteTimeout, "server write"); err != nil {
		return err
	}
	if c.Server.MaxAudioBytes <= 0 {
		return fmt.Errorf("server max_audio_bytes must be positive")
	}
	if c.Server.RateLimitRPS < 0 || c.Server.RateLimitBurst < 0 {
		return fmt.Errorf("server rate limit cannot be negative")
	}

	if err := ValidateOneOf(c.Model.Store, "model store", StoreFile, StoreMinio); err != nil {
		return err
	}
	if err := ValidateThreshold(c.Model.Threshold, "model"); err != nil {
		return err
	}
	switch c.Model.Store {
	case StoreFile:
		if c.Model.Dir == "" {
			return fmt.Errorf("model dir is required for the file store")
		}
	case StoreMinio:
		if c.Model.Minio.Endpoint == "" || c.Model.Minio.Bucket == "" {
			return fmt.Errorf("model minio endpoint and bucket are required for the minio store")
		}
	}

	if err := ValidateOneOf(c.Transcriber.Provider, "transcriber provider",
		ProviderOpenAI, ProviderGemini, ProviderMock); err != nil {
		return err
	}
	if err := ValidateTimeout(c.Transcriber.Timeout, "transcriber"); err != nil {
		return err
	}
	if c.Transcriber.BaseURL != "" {
		if err := ValidateURL(c.Transcriber.BaseURL, "transcriber base"); err != nil {
			return err
		}
	}

	if err := ValidateOneOf(c.Database.Driver, "database driver", DriverSQLite, DriverPostgres); err != nil {
		return err
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	return nil
}
