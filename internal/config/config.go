package config

import (
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv     = "MCPRADAR_CONFIG"
	llmAPIKeyEnv      = "OPENAI_API_KEY"
	llmModelEnv       = "OPENAI_MODEL"
	apifyTokenEnv     = "APIFY_API_TOKEN"
	databaseURLEnv    = "DATABASE_PROXY_URL"
	databaseTokenEnv  = "DATABASE_AUTH_TOKEN"
	apiKeysEnv        = "API_KEYS"
	telegramTokenEnv  = "TELEGRAM_BOT_TOKEN"
	telegramChatIDEnv = "TELEGRAM_CHAT_ID"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging       LoggingConfig      `yaml:"logging"`
	Database      DatabaseConfig     `yaml:"database"`
	LLM           LLMConfig          `yaml:"llm"`
	Apify         ApifyConfig        `yaml:"apify"`
	Reddit        RedditConfig       `yaml:"reddit"`
	Notifications NotificationConfig `yaml:"notifications"`
	Server        ServerConfig       `yaml:"server"`
	Seeds         SeedConfig         `yaml:"seeds"`
}

// LoggingConfig controls console verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DatabaseConfig describes the SQL-over-JSON-RPC proxy.
type DatabaseConfig struct {
	ProxyURL  string `yaml:"proxyUrl"`
	AuthToken string `yaml:"authToken"`
}

// LLMConfig defines how to contact the chat-completion provider.
type LLMConfig struct {
	BaseURL string `yaml:"baseUrl"`
	Model   string `yaml:"model"`
	APIKey  string `yaml:"apiKey"`
}

// ApifyConfig wires the actor-based LinkedIn scraping service.
type ApifyConfig struct {
	Token   string `yaml:"token"`
	ActorID string `yaml:"actorId"`
}

// RedditConfig bounds the public listing fetch.
type RedditConfig struct {
	PostLimit int `yaml:"postLimit"`
}

// NotificationConfig encapsulates outbound channels.
type NotificationConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
}

// TelegramConfig wires all data required to send digests.
type TelegramConfig struct {
	BotToken string `yaml:"botToken"`
	ChatID   string `yaml:"chatId"`
}

// ServerConfig recognizes the control-endpoint API-key allowlist. The
// endpoint itself lives outside this binary; the option is kept so one config
// file serves both.
type ServerConfig struct {
	APIKeys []string `yaml:"apiKeys"`
}

// SeedConfig declares the initially tracked publishers.
type SeedConfig struct {
	Blogs            []SeedSource `yaml:"blogs"`
	LinkedInProfiles []SeedSource `yaml:"linkedinProfiles"`
	Subreddits       []SeedSource `yaml:"subreddits"`
}

// SeedSource describes one publisher to insert at seeding time.
type SeedSource struct {
	Name      string  `yaml:"name"`
	Address   string  `yaml:"address"`
	Authority float64 `yaml:"authority"`
	Type      string  `yaml:"type"`
}

// Load reads .env, the YAML configuration (if present), and applies
// environment overrides.
func Load() Config {
	_ = godotenv.Load()

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
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(llmAPIKeyEnv); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(llmModelEnv); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(apifyTokenEnv); v != "" {
		c.Apify.Token = v
	}
	if v := os.Getenv(databaseURLEnv); v != "" {
		c.Database.ProxyURL = v
	}
	if v := os.Getenv(databaseTokenEnv); v != "" {
		c.Database.AuthToken = v
	}
	if v := os.Getenv(apiKeysEnv); v != "" {
		c.Server.APIKeys = splitCSV(v)
	}
	if v := os.Getenv(telegramTokenEnv); v != "" {
		c.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv(telegramChatIDEnv); v != "" {
		c.Notifications.Telegram.ChatID = v
	}
}

func splitCSV(v string) []string {
	var keys []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			keys = append(keys, part)
		}
	}
	return keys
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging = override.Logging
	}

	if override.Database.ProxyURL != "" {
		base.Database.ProxyURL = override.Database.ProxyURL
	}
	if override.Database.AuthToken != "" {
		base.Database.AuthToken = override.Database.AuthToken
	}

	if override.LLM.BaseURL != "" {
		base.LLM.BaseURL = override.LLM.BaseURL
	}
	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}

	if override.Apify.Token != "" {
		base.Apify.Token = override.Apify.Token
	}
	if override.Apify.ActorID != "" {
		base.Apify.ActorID = override.Apify.ActorID
	}

	if override.Reddit.PostLimit > 0 {
		base.Reddit.PostLimit = override.Reddit.PostLimit
	}

	if override.Notifications.Telegram.BotToken != "" {
		base.Notifications.Telegram.BotToken = override.Notifications.Telegram.BotToken
	}
	if override.Notifications.Telegram.ChatID != "" {
		base.Notifications.Telegram.ChatID = override.Notifications.Telegram.ChatID
	}

	if len(override.Server.APIKeys) > 0 {
		base.Server.APIKeys = override.Server.APIKeys
	}

	if len(override.Seeds.Blogs) > 0 {
		base.Seeds.Blogs = override.Seeds.Blogs
	}
	if len(override.Seeds.LinkedInProfiles) > 0 {
		base.Seeds.LinkedInProfiles = override.Seeds.LinkedInProfiles
	}
	if len(override.Seeds.Subreddits) > 0 {
		base.Seeds.Subreddits = override.Seeds.Subreddits
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging:  LoggingConfig{Level: "info"},
		Database: DatabaseConfig{ProxyURL: "http://localhost:8787/mcp"},
		LLM: LLMConfig{
			Model: "gpt-4o-mini",
		},
		Apify: ApifyConfig{
			ActorID: "apimaestro~linkedin-profile-posts",
		},
		Reddit: RedditConfig{PostLimit: 25},
		Seeds: SeedConfig{
			Blogs: []SeedSource{
				{Name: "Anthropic News", Address: "https://www.anthropic.com/news", Authority: 0.95, Type: "trendsetter"},
				{Name: "Block Engineering", Address: "https://engineering.block.xyz", Authority: 0.8, Type: "enterprise"},
			},
			Subreddits: []SeedSource{
				{Name: "mcp", Authority: 0.7, Type: "community"},
				{Name: "modelcontextprotocol", Authority: 0.6, Type: "community"},
			},
		},
	}
}
