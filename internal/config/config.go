package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Logger LoggerConfig
	LLM    LLMConfig
	Redis  RedisConfig
	DB     DBConfig
	Quiz   QuizConfig
	Events EventsConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LoggerConfig struct {
	Level string
	Env   string
}

// LLMConfig selects the language model backend used for question generation.
type LLMConfig struct {
	Provider    string // "ollama" or "openai"
	ServerURL   string
	Model       string
	APIKey      string
	Temperature float64
	MaxTokens   int
	HTTPTimeout time.Duration
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// DBConfig points at the portal database holding the lectures table.
// An empty DSN disables the lecture content provider.
type DBConfig struct {
	DSN string
}

type QuizConfig struct {
	GenerationTimeout    time.Duration
	FeedbackDwell        time.Duration
	StateTTL             time.Duration
	ContentLimit         int
	TranscriptLimit      int
	QuestionCount        int
	RebalanceProbability float64
}

type EventsConfig struct {
	Enabled bool
	Channel string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "45s")
	v.SetDefault("server.write_timeout", "45s")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.server_url", "")
	v.SetDefault("llm.model", "gpt-4o")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 2000)
	v.SetDefault("llm.http_timeout", "40s")

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("db.dsn", "")

	v.SetDefault("quiz.generation_timeout", "30s")
	v.SetDefault("quiz.feedback_dwell", "2s")
	v.SetDefault("quiz.state_ttl", "24h")
	v.SetDefault("quiz.content_limit", 3000)
	v.SetDefault("quiz.transcript_limit", 1500)
	v.SetDefault("quiz.question_count", 10)
	v.SetDefault("quiz.rebalance_probability", 0.3)

	v.SetDefault("events.enabled", false)
	v.SetDefault("events.channel", "lecturequiz:events")
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Add config paths based on environment
	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Printf("Using config file: %s\n", absPath)
	}

	config := &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		LLM: LLMConfig{
			Provider:    strings.ToLower(v.GetString("llm.provider")),
			ServerURL:   v.GetString("llm.server_url"),
			Model:       v.GetString("llm.model"),
			APIKey:      v.GetString("llm.api_key"),
			Temperature: v.GetFloat64("llm.temperature"),
			MaxTokens:   v.GetInt("llm.max_tokens"),
			HTTPTimeout: v.GetDuration("llm.http_timeout"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		DB: DBConfig{
			DSN: v.GetString("db.dsn"),
		},
		Quiz: QuizConfig{
			GenerationTimeout:    v.GetDuration("quiz.generation_timeout"),
			FeedbackDwell:        v.GetDuration("quiz.feedback_dwell"),
			StateTTL:             v.GetDuration("quiz.state_ttl"),
			ContentLimit:         v.GetInt("quiz.content_limit"),
			TranscriptLimit:      v.GetInt("quiz.transcript_limit"),
			QuestionCount:        v.GetInt("quiz.question_count"),
			RebalanceProbability: v.GetFloat64("quiz.rebalance_probability"),
		},
		Events: EventsConfig{
			Enabled: v.GetBool("events.enabled"),
			Channel: v.GetString("events.channel"),
		},
	}

	// The provider SDK convention wins over the nested key.
	if openAIKey := os.Getenv("OPENAI_API_KEY"); openAIKey != "" {
		config.LLM.APIKey = openAIKey
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings the quiz engine cannot run with.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "ollama", "openai":
	default:
		return fmt.Errorf("unsupported llm provider %q", c.LLM.Provider)
	}
	if c.Quiz.GenerationTimeout <= 0 {
		return fmt.Errorf("quiz.generation_timeout must be positive")
	}
	if c.Quiz.FeedbackDwell < 0 {
		return fmt.Errorf("quiz.feedback_dwell must not be negative")
	}
	if c.Quiz.QuestionCount <= 0 {
		return fmt.Errorf("quiz.question_count must be positive")
	}
	if c.Quiz.ContentLimit <= 0 || c.Quiz.TranscriptLimit <= 0 {
		return fmt.Errorf("quiz content and transcript limits must be positive")
	}
	if c.Quiz.RebalanceProbability < 0 || c.Quiz.RebalanceProbability > 1 {
		return fmt.Errorf("quiz.rebalance_probability must be within [0, 1]")
	}
	return nil
}

// DefaultQuizConfig mirrors the defaults registered with viper.
func DefaultQuizConfig() QuizConfig {
	return QuizConfig{
		GenerationTimeout:    30 * time.Second,
		FeedbackDwell:        2 * time.Second,
		StateTTL:             24 * time.Hour,
		ContentLimit:         3000,
		TranscriptLimit:      1500,
		QuestionCount:        10,
		RebalanceProbability: 0.3,
	}
}
