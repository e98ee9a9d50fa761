package config

import (
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig
	Logging LoggingConfig
	Ads     AdsConfig
	Report  ReportConfig
	LLM     LLMConfig
	Kafka   KafkaConfig
}

type ServerConfig struct {
	Port string
}

type LoggingConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AdsConfig holds the ad platform connection. AccessToken is the static bearer credential.
type AdsConfig struct {
	AccessToken string
	BaseURL     string
	APIVersion  string
	AccountID   string
	HTTPTimeout time.Duration
}

// ReportConfig is the default parameter set sent with the initial insights request.
type ReportConfig struct {
	DatePreset         string
	Level              string
	Fields             []string
	ActionReportTime   string
	AttributionWindows []string
	TimeIncrement      string
	RefreshSchedule    string // cron spec with seconds; empty disables scheduled refresh
}

type LLMConfig struct {
	Provider            string // "openai", "anthropic" or "gemini"
	Model               string
	MaxTokens           int
	SystemPromptEnabled bool
	Timeout             time.Duration
	OpenAIAPIKey        string
	OpenAIBaseURL       string
	AnthropicAPIKey     string
	AnthropicBaseURL    string
	GeminiAPIKey        string
	GeminiBaseURL       string
}

type KafkaConfig struct {
	Brokers    []string
	QueryTopic string
}

// Enabled reports whether query events should be published.
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0 && k.QueryTopic != ""
}

func NewConfig() (*Config, error) {
	// Configure Viper to read .env file
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	// Enable automatic environment variable loading
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("FACEBOOK_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("FACEBOOK_API_VERSION", "v20.0")
	viper.SetDefault("FACEBOOK_AD_ACCOUNT_ID", "1385837205024797")
	viper.SetDefault("REPORT_HTTP_TIMEOUT", "30s")
	viper.SetDefault("REPORT_DATE_PRESET", "last_7d")
	viper.SetDefault("REPORT_LEVEL", "ad")
	viper.SetDefault("REPORT_FIELDS", "campaign_name,adset_name,ad_name,ad_id,spend,impressions,inline_link_clicks")
	viper.SetDefault("REPORT_ACTION_REPORT_TIME", "impression")
	viper.SetDefault("REPORT_ATTRIBUTION_WINDOWS", "1d_click")
	viper.SetDefault("REPORT_TIME_INCREMENT", "")
	viper.SetDefault("REPORT_REFRESH_SCHEDULE", "")
	viper.SetDefault("LLM_PROVIDER", "openai")
	viper.SetDefault("LLM_MODEL", "") // provider default when empty
	viper.SetDefault("LLM_MAX_TOKENS", 1024)
	viper.SetDefault("LLM_SYSTEM_PROMPT_ENABLED", true)
	viper.SetDefault("LLM_TIMEOUT", "60s")
	viper.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_QUERY_TOPIC", "ad_insight_queries")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config
	config.Server.Port = viper.GetString("SERVER_PORT")

	config.Logging.Level = viper.GetString("LOG_LEVEL")
	config.Logging.Format = viper.GetString("LOG_FORMAT")

	// --- Ad platform ---
	config.Ads.AccessToken = viper.GetString("FACEBOOK_API_KEY")
	config.Ads.BaseURL = strings.TrimRight(viper.GetString("FACEBOOK_BASE_URL"), "/")
	config.Ads.APIVersion = viper.GetString("FACEBOOK_API_VERSION")
	config.Ads.AccountID = strings.TrimPrefix(viper.GetString("FACEBOOK_AD_ACCOUNT_ID"), "act_")
	config.Ads.HTTPTimeout = viper.GetDuration("REPORT_HTTP_TIMEOUT")

	// --- Report ---
	config.Report.DatePreset = viper.GetString("REPORT_DATE_PRESET")
	config.Report.Level = viper.GetString("REPORT_LEVEL")
	config.Report.Fields = splitList(viper.GetString("REPORT_FIELDS"))
	config.Report.ActionReportTime = viper.GetString("REPORT_ACTION_REPORT_TIME")
	config.Report.AttributionWindows = splitList(viper.GetString("REPORT_ATTRIBUTION_WINDOWS"))
	config.Report.TimeIncrement = viper.GetString("REPORT_TIME_INCREMENT")
	config.Report.RefreshSchedule = viper.GetString("REPORT_REFRESH_SCHEDULE")

	// --- LLM ---
	config.LLM.Provider = strings.ToLower(viper.GetString("LLM_PROVIDER"))
	config.LLM.Model = viper.GetString("LLM_MODEL")
	config.LLM.MaxTokens = viper.GetInt("LLM_MAX_TOKENS")
	config.LLM.SystemPromptEnabled = viper.GetBool("LLM_SYSTEM_PROMPT_ENABLED")
	config.LLM.Timeout = viper.GetDuration("LLM_TIMEOUT")
	config.LLM.OpenAIAPIKey = viper.GetString("OPENAI_API_KEY")
	config.LLM.OpenAIBaseURL = viper.GetString("OPENAI_BASE_URL")
	config.LLM.AnthropicAPIKey = viper.GetString("ANTHROPIC_API_KEY")
	config.LLM.AnthropicBaseURL = viper.GetString("ANTHROPIC_BASE_URL")
	config.LLM.GeminiAPIKey = viper.GetString("GEMINI_API_KEY")
	config.LLM.GeminiBaseURL = strings.TrimRight(viper.GetString("GEMINI_BASE_URL"), "/")

	// --- Kafka ---
	config.Kafka.Brokers = splitList(viper.GetString("KAFKA_BROKERS"))
	config.Kafka.QueryTopic = viper.GetString("KAFKA_QUERY_TOPIC")

	log.Info().Interface("config", config.Redacted()).Msg("Config loaded")
	return &config, nil
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	c.Ads.AccessToken = mask(c.Ads.AccessToken)
	c.LLM.OpenAIAPIKey = mask(c.LLM.OpenAIAPIKey)
	c.LLM.AnthropicAPIKey = mask(c.LLM.AnthropicAPIKey)
	c.LLM.GeminiAPIKey = mask(c.LLM.GeminiAPIKey)
	return c
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}

// splitList splits a comma separated value, trimming blanks. An empty input yields nil.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
