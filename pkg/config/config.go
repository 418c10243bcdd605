package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pyronexus/cointracking/pkg/cointracking"
	"github.com/pyronexus/cointracking/pkg/logger"
	sdkhttp "github.com/pyronexus/cointracking/pkg/sdk/http"
	"github.com/pyronexus/cointracking/pkg/updatejob"
)

// APIConfig holds the credentials and tuning of the authenticated client.
type APIConfig struct {
	URL         string
	Key         string
	Secret      string
	Timeout     time.Duration
	MinInterval time.Duration // zero disables pacing
	Strict      bool          // fail calls on success=0 instead of logging
}

// UpdateConfig drives the update job runner.
type UpdateConfig struct {
	URL         string
	UserAgent   string
	JobIDDelay  time.Duration
	JobDelay    time.Duration
	StopOnError bool
	Jobs        []updatejob.Job
}

// Config is the resolved application configuration.
type Config struct {
	API    APIConfig
	Update UpdateConfig
	Log    logger.Config
}

// ConfigFile mirrors the YAML/JSON layout. Durations are Go duration strings.
type ConfigFile struct {
	API struct {
		URL         string `yaml:"url" json:"url"`
		Key         string `yaml:"key" json:"key"`
		Secret      string `yaml:"secret" json:"secret"`
		Timeout     string `yaml:"timeout" json:"timeout"`
		MinInterval string `yaml:"min_interval" json:"min_interval"`
		Strict      bool   `yaml:"strict" json:"strict"`
	} `yaml:"api" json:"api"`
	Update struct {
		URL         string          `yaml:"url" json:"url"`
		UserAgent   string          `yaml:"user_agent" json:"user_agent"`
		JobIDDelay  string          `yaml:"job_id_delay" json:"job_id_delay"`
		JobDelay    string          `yaml:"job_delay" json:"job_delay"`
		StopOnError bool            `yaml:"stop_on_error" json:"stop_on_error"`
		Jobs        []updatejob.Job `yaml:"jobs" json:"jobs"`
	} `yaml:"update" json:"update"`
	Log struct {
		Level      string `yaml:"level" json:"level"`
		File       string `yaml:"file" json:"file"`
		Format     string `yaml:"format" json:"format"`
		MaxSize    int    `yaml:"max_size" json:"max_size"`
		MaxBackups int    `yaml:"max_backups" json:"max_backups"`
		MaxAge     int    `yaml:"max_age" json:"max_age"`
		Compress   bool   `yaml:"compress" json:"compress"`
	} `yaml:"log" json:"log"`
}

// LoadFromFile reads filePath (skipped when empty), applies environment
// overrides and defaults, and validates the result.
// Priority: environment > config file > defaults.
func LoadFromFile(filePath string) (*Config, error) {
	configFile := &ConfigFile{}
	if filePath != "" {
		var err error
		configFile, err = loadConfigFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("load config file %s: %w", filePath, err)
		}
	}

	config, err := build(configFile)
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func loadConfigFile(filePath string) (*ConfigFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var configFile ConfigFile
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &configFile); err != nil {
			return nil, fmt.Errorf("parse yaml config: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &configFile); err != nil {
			return nil, fmt.Errorf("parse json config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (use .yaml, .yml or .json)", ext)
	}

	return &configFile, nil
}

func build(cf *ConfigFile) (*Config, error) {
	timeout, err := parseDuration("api.timeout", cf.API.Timeout, sdkhttp.DefaultTimeout)
	if err != nil {
		return nil, err
	}
	minInterval, err := parseDuration("api.min_interval", cf.API.MinInterval, 0)
	if err != nil {
		return nil, err
	}
	jobIDDelay, err := parseDuration("update.job_id_delay", cf.Update.JobIDDelay, updatejob.DefaultJobIDDelay)
	if err != nil {
		return nil, err
	}
	jobDelay, err := parseDuration("update.job_delay", cf.Update.JobDelay, updatejob.DefaultJobDelay)
	if err != nil {
		return nil, err
	}

	return &Config{
		API: APIConfig{
			URL:         getEnv("COINTRACKING_API_URL", valueOr(cf.API.URL, cointracking.DefaultBaseURL)),
			Key:         getEnv("COINTRACKING_API_KEY", cf.API.Key),
			Secret:      getEnv("COINTRACKING_API_SECRET", cf.API.Secret),
			Timeout:     timeout,
			MinInterval: minInterval,
			Strict:      parseBoolEnv("COINTRACKING_STRICT", cf.API.Strict),
		},
		Update: UpdateConfig{
			URL:         getEnv("COINTRACKING_IMPORT_URL", valueOr(cf.Update.URL, sdkhttp.DefaultImportURL)),
			UserAgent:   valueOr(cf.Update.UserAgent, sdkhttp.BrowserUserAgent),
			JobIDDelay:  jobIDDelay,
			JobDelay:    jobDelay,
			StopOnError: cf.Update.StopOnError,
			Jobs:        cf.Update.Jobs,
		},
		Log: logger.Config{
			Level:      getEnv("LOG_LEVEL", valueOr(cf.Log.Level, "info")),
			Format:     valueOr(cf.Log.Format, "text"),
			OutputFile: getEnv("LOG_FILE", cf.Log.File),
			MaxSize:    intOr(cf.Log.MaxSize, 100),
			MaxBackups: intOr(cf.Log.MaxBackups, 3),
			MaxAge:     intOr(cf.Log.MaxAge, 7),
			Compress:   cf.Log.Compress,
		},
	}, nil
}

// Validate checks the values every command relies on. Credentials are
// checked separately by RequireCredentials since the update runner does not
// need them.
func (c *Config) Validate() error {
	if c.API.URL == "" {
		return fmt.Errorf("api.url is empty")
	}
	if c.API.MinInterval < 0 {
		return fmt.Errorf("api.min_interval must not be negative")
	}
	if c.Update.JobIDDelay < 0 || c.Update.JobDelay < 0 {
		return fmt.Errorf("update delays must not be negative")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	for _, job := range c.Update.Jobs {
		if err := job.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// RequireCredentials reports missing API credentials.
func (c *Config) RequireCredentials() error {
	if c.API.Key == "" {
		return fmt.Errorf("COINTRACKING_API_KEY is not configured")
	}
	if c.API.Secret == "" {
		return fmt.Errorf("COINTRACKING_API_SECRET is not configured")
	}
	return nil
}

func parseDuration(field, value string, defaultValue time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	return d, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func valueOr(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}

func intOr(value, defaultValue int) int {
	if value > 0 {
		return value
	}
	return defaultValue
}
