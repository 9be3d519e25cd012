package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone  = "Europe/Oslo"
	configPathEnv    = "HEALTHTALK_CONFIG"
	databaseDSNEnv   = "DATABASE_DSN"
	firecrawlKeyEnv  = "FIRECRAWL_API_KEY"
	openAIKeyEnv     = "OPENAI_API_KEY"
	openAIModelEnv   = "OPENAI_MODEL"
	telegramTokenEnv = "TELEGRAM_BOT_TOKEN"
	telegramChatEnv  = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Pipeline      PipelineConfig     `yaml:"pipeline"`
	Firecrawl     FirecrawlConfig    `yaml:"firecrawl"`
	Extractors    ExtractorConfig    `yaml:"extractors"`
	Selectors     map[string]string  `yaml:"selectors"`
	Database      DatabaseConfig     `yaml:"database"`
	OpenAI        OpenAIConfig       `yaml:"openai"`
	Notifications NotificationConfig `yaml:"notifications"`
	Scheduler     SchedulerConfig    `yaml:"scheduler"`
}

// LoggingConfig controls the slog level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// PipelineConfig describes state-file locations and filter behavior.
type PipelineConfig struct {
	SourcesFile       string `yaml:"sourcesFile"`
	DatabaseFile      string `yaml:"databaseFile"`
	SeenURLsFile      string `yaml:"seenUrlsFile"`
	WindowDays        int    `yaml:"windowDays"`
	SourceTimeoutSecs int    `yaml:"sourceTimeoutSeconds"`
}

// SourceTimeout resolves the per-source extraction deadline.
func (p PipelineConfig) SourceTimeout() time.Duration {
	if p.SourceTimeoutSecs <= 0 {
		return 60 * time.Second
	}
	return time.Duration(p.SourceTimeoutSecs) * time.Second
}

// FirecrawlConfig defines how to contact the extraction provider.
type FirecrawlConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"apiKey"`
}

// ExtractorConfig picks an extraction strategy per source domain.
type ExtractorConfig struct {
	Default   string            `yaml:"default"`
	Overrides map[string]string `yaml:"overrides"`
}

// Resolve returns the strategy name registered for the given domain.
func (e ExtractorConfig) Resolve(domain string) string {
	if name, ok := e.Overrides[domain]; ok && name != "" {
		return name
	}
	if e.Default != "" {
		return e.Default
	}
	return "firecrawl"
}

// DatabaseConfig describes the optional Postgres mirror.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// OpenAIConfig defines how to contact the chat-completions API
// used for article draft generation.
type OpenAIConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send messages.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// SchedulerConfig defines when daemon-mode runs execute.
type SchedulerConfig struct {
	CronExpression string         `yaml:"cronExpression"`
	Timezone       string         `yaml:"timezone"`
	location       *time.Location `yaml:"-"`
}

// Location resolves the scheduler timezone string to a time.Location.
func (s SchedulerConfig) Location() *time.Location {
	if s.location != nil {
		return s.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(firecrawlKeyEnv); v != "" {
		c.Firecrawl.APIKey = v
	}

	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}

	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}

	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}

	if v := os.Getenv(telegramChatEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Scheduler.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.Scheduler.location = loc
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Pipeline.SourcesFile != "" {
		base.Pipeline.SourcesFile = override.Pipeline.SourcesFile
	}
	if override.Pipeline.DatabaseFile != "" {
		base.Pipeline.DatabaseFile = override.Pipeline.DatabaseFile
	}
	if override.Pipeline.SeenURLsFile != "" {
		base.Pipeline.SeenURLsFile = override.Pipeline.SeenURLsFile
	}
	if override.Pipeline.WindowDays > 0 {
		base.Pipeline.WindowDays = override.Pipeline.WindowDays
	}
	if override.Pipeline.SourceTimeoutSecs > 0 {
		base.Pipeline.SourceTimeoutSecs = override.Pipeline.SourceTimeoutSecs
	}

	if override.Firecrawl.Endpoint != "" {
		base.Firecrawl.Endpoint = override.Firecrawl.Endpoint
	}
	if override.Firecrawl.APIKey != "" {
		base.Firecrawl.APIKey = override.Firecrawl.APIKey
	}

	if override.Extractors.Default != "" {
		base.Extractors.Default = override.Extractors.Default
	}
	if len(override.Extractors.Overrides) > 0 {
		base.Extractors.Overrides = override.Extractors.Overrides
	}

	if len(override.Selectors) > 0 {
		base.Selectors = override.Selectors
	}

	if override.Database.DSN != "" {
		base.Database = override.Database
	}

	if override.OpenAI.Endpoint != "" {
		base.OpenAI.Endpoint = override.OpenAI.Endpoint
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if override.Scheduler.CronExpression != "" {
		base.Scheduler.CronExpression = override.Scheduler.CronExpression
	}
	if override.Scheduler.Timezone != "" {
		base.Scheduler.Timezone = override.Scheduler.Timezone
	}

	return base
}

func defaultConfig() Config {
	tz, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Logging: LoggingConfig{Level: "info"},
		Pipeline: PipelineConfig{
			SourcesFile:       "sources.txt",
			DatabaseFile:      "artikkel_database.json",
			SeenURLsFile:      "seen_urls.json",
			WindowDays:        3,
			SourceTimeoutSecs: 60,
		},
		Firecrawl: FirecrawlConfig{Endpoint: "https://api.firecrawl.dev"},
		Extractors: ExtractorConfig{
			Default: "firecrawl",
		},
		Selectors: map[string]string{
			"legemiddelverket.no": ".PageContent_pageContent__3313R",
			"dmp.no":              "main#main-content",
		},
		OpenAI: OpenAIConfig{
			Endpoint: "https://api.openai.com/v1/chat/completions",
			Model:    "gpt-4o",
		},
		Scheduler: SchedulerConfig{CronExpression: "0 6 * * *", Timezone: defaultTimezone, location: tz},
	}
}
