package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	Database    DatabaseConfig    `mapstructure:"database"`
	AI          AIConfig          `mapstructure:"ai"`
	Images      ImagesConfig      `mapstructure:"images"`
	Deck        DeckConfig        `mapstructure:"deck"`
	Application ApplicationConfig `mapstructure:"application"`
}

type ApplicationConfig struct {
	Name     string        `mapstructure:"name"`
	Version  string        `mapstructure:"version"`
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	LogLevel string        `mapstructure:"log_level"`
	Language string        `mapstructure:"language"`
	Storage  StorageConfig `mapstructure:"storage"`
}

type StorageConfig struct {
	Output     string `mapstructure:"output"`
	Temp       string `mapstructure:"temp"`
	Inbox      string `mapstructure:"inbox"`
	Done       string `mapstructure:"done"`
	Thumbnails string `mapstructure:"thumbnails"`
	Themes     string `mapstructure:"themes"`
}

type AIConfig struct {
	ActiveProvider string                      `mapstructure:"active_provider"`
	Providers      map[string]ProviderSettings `mapstructure:"providers"`
}

type ProviderSettings struct {
	Driver      string  `mapstructure:"driver"` // openai, gemini, mock
	Key         string  `mapstructure:"key"`
	Endpoint    string  `mapstructure:"endpoint"`
	Model       string  `mapstructure:"model"`
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	// USD per million tokens, used for the usage ledger.
	PromptPrice     float64 `mapstructure:"prompt_price"`
	CompletionPrice float64 `mapstructure:"completion_price"`
}

// Active returns the provider selected by ai.active_provider.
func (c *AIConfig) Active() (string, ProviderSettings, error) {
	name := strings.ToLower(c.ActiveProvider)
	p, ok := c.Providers[name]
	if !ok {
		return name, ProviderSettings{}, fmt.Errorf("ai provider %q is not configured", c.ActiveProvider)
	}
	return name, p, nil
}

type ImagesConfig struct {
	Key      string `mapstructure:"key"`
	Endpoint string `mapstructure:"endpoint"`
	Timeout  int    `mapstructure:"timeout"` // seconds
}

type DeckConfig struct {
	Theme    string `mapstructure:"theme"`
	Slides   int    `mapstructure:"slides"`
	Subtitle string `mapstructure:"subtitle"`
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
	Options  string `mapstructure:"options"`
}

// Enabled reports whether enough is configured to open a connection.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != "" || c.Host != ""
}

func (c *DatabaseConfig) GetConnectStr() string {
	if c.URL != "" {
		return c.URL
	}
	sslmode := c.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, sslmode)

	if c.Options != "" {
		// space -> %20 is all the escaping libpq options need here
		encodedOptions := strings.ReplaceAll(c.Options, " ", "%20")
		connStr += fmt.Sprintf("&options=%s", encodedOptions)
	}

	return connStr
}

// LoadConfig reads .env, then the optional YAML file at path (config.yaml when
// empty), then environment variables. Later sources win.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("Note: .env file not found, using system environment variables")
	}

	if path == "" {
		path = "config.yaml"
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.AutomaticEnv()

	// Environment variable mappings
	mappings := []struct {
		key, env string
	}{
		{"database.url", "DB_URL"},
		{"database.host", "PG_HOST"},
		{"database.port", "PG_PORT"},
		{"database.user", "PG_USER"},
		{"database.password", "PG_PASSWORD"},
		{"database.dbname", "PG_DB"},
		{"database.sslmode", "PG_SSLMODE"},
		{"database.options", "PG_OPTIONS"},
		{"application.port", "PORT"},
		{"application.log_level", "LOG_LEVEL"},
		{"application.language", "UI_LANG"},
		{"ai.active_provider", "AI_PROVIDER"},

		// Storage
		{"application.storage.output", "STORAGE_OUTPUT"},
		{"application.storage.temp", "STORAGE_TEMP"},
		{"application.storage.inbox", "STORAGE_INBOX"},
		{"application.storage.done", "STORAGE_DONE"},
		{"application.storage.thumbnails", "STORAGE_THUMBNAILS"},
		{"application.storage.themes", "STORAGE_THEMES"},

		// AI Providers
		{"ai.providers.groq.key", "GROQ_API_KEY"},
		{"ai.providers.groq.model", "GROQ_MODEL"},
		{"ai.providers.gemini.key", "GEMINI_KEY"},
		{"ai.providers.gemini.model", "GEMINI_MODEL"},
		{"ai.providers.openai.key", "OPENAI_API_KEY"},
		{"ai.providers.openai.model", "OPENAI_MODEL"},

		// Images
		{"images.key", "UNSPLASH_API_KEY"},
		{"images.endpoint", "UNSPLASH_ENDPOINT"},

		// Deck
		{"deck.theme", "DECK_THEME"},
		{"deck.subtitle", "DECK_SUBTITLE"},
	}

	for _, m := range mappings {
		if err := v.BindEnv(m.key, m.env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", m.env, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.AI.ActiveProvider == "" {
		cfg.AI.ActiveProvider = "groq"
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("application.name", "DeckForge")
	v.SetDefault("application.version", "0.1.0")
	v.SetDefault("application.port", 8080)
	v.SetDefault("application.log_level", "info")
	v.SetDefault("application.language", "en")

	v.SetDefault("application.storage.output", "data/output")
	v.SetDefault("application.storage.temp", "data/tmp")
	v.SetDefault("application.storage.inbox", "data/inbox")
	v.SetDefault("application.storage.done", "data/done")
	v.SetDefault("application.storage.thumbnails", "data/thumbnails")
	v.SetDefault("application.storage.themes", "data/themes")

	v.SetDefault("ai.active_provider", "groq")

	v.SetDefault("ai.providers.groq.driver", "openai")
	v.SetDefault("ai.providers.groq.endpoint", "https://api.groq.com/openai/v1")
	v.SetDefault("ai.providers.groq.model", "llama-3.3-70b-versatile")
	v.SetDefault("ai.providers.groq.temperature", 0.7)
	v.SetDefault("ai.providers.groq.max_tokens", 1500)
	v.SetDefault("ai.providers.groq.prompt_price", 0.59)
	v.SetDefault("ai.providers.groq.completion_price", 0.79)

	v.SetDefault("ai.providers.openai.driver", "openai")
	v.SetDefault("ai.providers.openai.model", "gpt-4o-mini")
	v.SetDefault("ai.providers.openai.temperature", 0.7)
	v.SetDefault("ai.providers.openai.max_tokens", 1500)

	v.SetDefault("ai.providers.gemini.driver", "gemini")
	v.SetDefault("ai.providers.gemini.model", "gemini-1.5-flash")
	v.SetDefault("ai.providers.gemini.temperature", 0.7)
	v.SetDefault("ai.providers.gemini.max_tokens", 1500)

	v.SetDefault("ai.providers.mock.driver", "mock")
	v.SetDefault("ai.providers.mock.model", "mock")

	v.SetDefault("images.endpoint", "https://api.unsplash.com")
	v.SetDefault("images.timeout", 10)

	v.SetDefault("deck.theme", "Modern Blue")
	v.SetDefault("deck.slides", 5)
	v.SetDefault("deck.subtitle", "Generated by Groq AI")
}
