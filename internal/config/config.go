package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

// Duration parses yaml scalars like "90s" or "720h"; bare integers are
// taken as nanoseconds.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	if n, err := strconv.ParseInt(value.Value, 10, 64); err == nil {
		*d = Duration(n)
		return nil
	}
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

type ServerConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type SessionConfig struct {
	Store         string   `yaml:"store"` // memory | redis
	CookieName    string   `yaml:"cookie_name"`
	CookieMaxAge  Duration `yaml:"cookie_max_age"`
	IdleTTL       Duration `yaml:"idle_ttl"` // 0 disables eviction
	SweepInterval Duration `yaml:"sweep_interval"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type TranslatorConfig struct {
	URL     string   `yaml:"url"` // base URL of the remote translation service
	Timeout Duration `yaml:"timeout"`
}

type AIConfig struct {
	GeminiKey       string `yaml:"gemini_key"`
	GeminiURL       string `yaml:"gemini_url"`
	OpenAIKey       string `yaml:"openai_key"`
	OpenAIBaseURL   string `yaml:"openai_base_url"`
	Model           string `yaml:"model"`
	MaxOutputTokens int    `yaml:"max_output_tokens"`
	ConcurrentLimit int    `yaml:"concurrent_limit"` // max concurrent AI calls
}

type LanguagesConfig struct {
	Pivot string            `yaml:"pivot"`
	Names map[string]string `yaml:"names"` // code -> display name
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Session    SessionConfig    `yaml:"session"`
	Redis      RedisConfig      `yaml:"redis"`
	Translator TranslatorConfig `yaml:"translator"`
	AI         AIConfig         `yaml:"ai"`
	Languages  LanguagesConfig  `yaml:"languages"`

	Runtime RuntimeConfig `yaml:"-"`
}

// LoadConfig reads the yaml file at path, applies defaults and environment
// overrides, and validates. A missing file is not fatal: the service can run
// entirely off environment variables, with unconfigured backends degraded to
// noop adapters at wiring time.
func LoadConfig(path string, dev bool) (*Config, error) {
	var cfg Config
	if b, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.Runtime.Dev = dev
	return &cfg, nil
}

// applyEnv lets the environment override secrets and endpoints so the
// service can run without a config file, dotenv style.
func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.AI.GeminiKey = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.AI.OpenAIKey = v
	}
	if v := os.Getenv("TRANSLATOR_URL"); v != "" {
		c.Translator.URL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.Redis.URL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 5001
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	if c.Session.Store == "" {
		c.Session.Store = "memory"
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "session_id"
	}
	if c.Session.CookieMaxAge <= 0 {
		c.Session.CookieMaxAge = Duration(30 * 24 * time.Hour)
	}
	if c.Session.SweepInterval <= 0 {
		c.Session.SweepInterval = Duration(5 * time.Minute)
	}
	if c.Translator.Timeout <= 0 {
		c.Translator.Timeout = Duration(90 * time.Second)
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-1.5-flash-latest"
	}
	if c.AI.MaxOutputTokens <= 0 {
		c.AI.MaxOutputTokens = 2048
	}
	if c.AI.ConcurrentLimit <= 0 {
		c.AI.ConcurrentLimit = 16
	}
	if c.Languages.Pivot == "" {
		c.Languages.Pivot = "eng"
	}
}

func (c *Config) validate() error {
	switch c.Session.Store {
	case "memory", "redis":
	default:
		return fmt.Errorf("session.store must be memory or redis, got %q", c.Session.Store)
	}
	if c.Session.Store == "redis" && c.Redis.URL == "" {
		return fmt.Errorf("session.store is redis but redis.url is empty")
	}
	if len(c.Languages.Names) > 0 {
		if _, ok := c.Languages.Names[c.Languages.Pivot]; !ok {
			return fmt.Errorf("languages.pivot %q is not in languages.names", c.Languages.Pivot)
		}
	}
	return nil
}
