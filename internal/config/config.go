package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jimezsa/jobmatch/internal/generate"
	"github.com/jimezsa/jobmatch/internal/models"
	"github.com/jimezsa/jobmatch/internal/scoring"
	"github.com/yosuke-furukawa/json5/encoding/json5"
)

const (
	DirName         = "jobmatch"
	ConfigFileName  = "config.json"
	ProxiesFileName = "proxies.txt"
	EnvPrefix       = "JOBMATCH_"
)

// Config contains default search, ranking and generation settings.
type Config struct {
	DefaultQuery    string        `json:"default_query"`
	DefaultLocation string        `json:"default_location"`
	DefaultCountry  string        `json:"default_country"`
	TopN            int           `json:"top_n" validate:"min=1,max=100"`
	TimeoutSeconds  int           `json:"timeout_seconds" validate:"min=1,max=300"`
	RatePerSecond   float64       `json:"rate_per_second" validate:"gte=0"`
	ResumePath      string        `json:"resume_path"`
	Model           string        `json:"model" validate:"required"`
	Temperature     float64       `json:"temperature" validate:"gte=0,lte=2"`
	Terms           scoring.Terms `json:"terms"`
	TermsFile       string        `json:"terms_file"`
	Cache           CacheConfig   `json:"cache"`
}

// CacheConfig controls the search result cache. A zero capacity disables the
// in-memory cache; a redis_url switches to Redis.
type CacheConfig struct {
	Capacity   int    `json:"capacity" validate:"min=0,max=10000"`
	TTLMinutes int    `json:"ttl_minutes" validate:"min=0"`
	RedisURL   string `json:"redis_url" validate:"omitempty,url"`
}

func DefaultConfig() Config {
	return Config{
		DefaultQuery:    models.DefaultQuery,
		DefaultLocation: models.DefaultLocation,
		DefaultCountry:  "usa",
		TopN:            10,
		TimeoutSeconds:  30,
		RatePerSecond:   1,
		Model:           generate.DefaultModel,
		Temperature:     generate.DefaultTemperature,
		Terms:           scoring.DefaultTerms(),
		Cache: CacheConfig{
			Capacity:   64,
			TTLMinutes: 60,
		},
	}
}

func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, DirName), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

func ProxiesPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ProxiesFileName), nil
}

// Load reads the user config file, then applies JOBMATCH_* overrides.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), err
	}
	return LoadFrom(path)
}

func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	case len(strings.TrimSpace(string(data))) > 0:
		if err := json5.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	applyEnv(&cfg)
	cfg.Terms = cfg.Terms.Merge(scoring.DefaultTerms())

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.DefaultQuery = envString("DEFAULT_QUERY", cfg.DefaultQuery)
	cfg.DefaultLocation = envString("DEFAULT_LOCATION", cfg.DefaultLocation)
	cfg.DefaultCountry = envString("DEFAULT_COUNTRY", cfg.DefaultCountry)
	cfg.TopN = envInt("TOP_N", cfg.TopN)
	cfg.TimeoutSeconds = envInt("TIMEOUT_SECONDS", cfg.TimeoutSeconds)
	cfg.ResumePath = envString("RESUME", cfg.ResumePath)
	cfg.Model = envString("MODEL", cfg.Model)
	cfg.Temperature = envFloat("TEMPERATURE", cfg.Temperature)
	cfg.TermsFile = envString("TERMS_FILE", cfg.TermsFile)
	cfg.Cache.RedisURL = envString("REDIS_URL", cfg.Cache.RedisURL)
}

// Init writes default config.json and proxies.txt if they don't already exist.
func Init() ([]string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return InitDir(dir)
}

func InitDir(dir string) ([]string, error) {
	var created []string
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return created, err
	}

	configPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := writeConfig(configPath, DefaultConfig()); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	proxiesPath := filepath.Join(dir, ProxiesFileName)
	if _, err := os.Stat(proxiesPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(proxiesPath, []byte(""), 0o644); err != nil {
			return created, err
		}
		created = append(created, proxiesPath)
	}

	return created, nil
}

func writeConfig(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// LoadProxies returns proxies from the flag, JOBMATCH_PROXIES, or proxies.txt.
func LoadProxies(flagValue string) ([]string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return splitCSV(flagValue), nil
	}

	if env := envString("PROXIES", ""); env != "" {
		return splitCSV(env), nil
	}

	path, err := ProxiesPath()
	if err != nil {
		return nil, err
	}
	return readProxyFile(path)
}

func readProxyFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return proxies, nil
}

func envString(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(EnvPrefix + key)); val != "" {
		return val
	}
	return fallback
}

func envInt(key string, fallback int) int {
	val := strings.TrimSpace(os.Getenv(EnvPrefix + key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func envFloat(key string, fallback float64) float64 {
	val := strings.TrimSpace(os.Getenv(EnvPrefix + key))
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
