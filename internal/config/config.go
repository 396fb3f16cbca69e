package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	StorePinecone = "pinecone"
	StorePgVector = "pgvector"

	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

type Config struct {
	ServiceName string `yaml:"service_name"`
	Version     string `yaml:"version"`
	ServerAddr  string `yaml:"server_addr"`

	IndexName  string   `yaml:"index_name"`
	Namespaces []string `yaml:"namespaces"`
	TopK       int      `yaml:"top_k"`

	VectorStore    string `yaml:"vector_store"`
	PineconeAPIKey string `yaml:"-"`
	PgConn         string `yaml:"-"`

	Provider        string  `yaml:"provider"`
	OpenAIAPIKey    string  `yaml:"-"`
	OpenAIBaseURL   string  `yaml:"openai_base_url"`
	GeminiAPIKey    string  `yaml:"-"`
	GeminiBaseURL   string  `yaml:"gemini_base_url"`
	EmbedModel      string  `yaml:"embed_model"`
	EmbedDimensions int     `yaml:"embed_dimensions"`
	ChatModel       string  `yaml:"chat_model"`
	Temperature     float32 `yaml:"temperature"`

	CORSOrigins []string `yaml:"cors_origins"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Load builds the configuration from an optional YAML file (CONFIG_FILE,
// default config.yaml) overlaid with environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	path := getenv("CONFIG_FILE", "config.yaml")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist):
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	applyConfigDefaults(cfg)
	return cfg, nil
}

// Validate reports configuration the service cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if len(c.Namespaces) == 0 {
		errs = append(errs, errors.New("at least one namespace is required"))
	}
	if c.IndexName == "" {
		errs = append(errs, errors.New("index name is required"))
	}

	switch c.VectorStore {
	case StorePinecone:
		if c.PineconeAPIKey == "" {
			errs = append(errs, errors.New("PINECONE_API_KEY is not set"))
		}
	case StorePgVector:
		if c.PgConn == "" {
			errs = append(errs, errors.New("PG_CONN is not set"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown vector store %q", c.VectorStore))
	}

	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			errs = append(errs, errors.New("OPENAI_API_KEY is not set"))
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is not set"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown llm provider %q", c.Provider))
	}

	return errors.Join(errs...)
}

func defaultConfig() *Config {
	return &Config{
		ServiceName:     "RAG Chatbot API",
		Version:         "1.0.0",
		ServerAddr:      ":8000",
		IndexName:       "network-dsa",
		Namespaces:      []string{"computer-networking-pdf", "networking-pdf"},
		TopK:            3,
		VectorStore:     StorePinecone,
		Provider:        ProviderOpenAI,
		OpenAIBaseURL:   "https://api.openai.com/v1",
		EmbedModel:      "text-embedding-3-small",
		EmbedDimensions: 1024,
		ChatModel:       "gpt-4o-mini",
		Temperature:     0.7,
		CORSOrigins: []string{
			"http://localhost:3000",
			"http://localhost:3001",
			"https://*.vercel.app",
			"*",
		},
		LogLevel:  "info",
		LogFormat: "json",
	}
}

func applyEnv(cfg *Config) error {
	cfg.ServerAddr = getenv("SERVER_ADDR", cfg.ServerAddr)
	cfg.IndexName = getenv("INDEX_NAME", cfg.IndexName)
	cfg.Namespaces = getenvList("NAMESPACES", cfg.Namespaces)
	cfg.VectorStore = strings.ToLower(getenv("VECTOR_STORE", cfg.VectorStore))
	cfg.PineconeAPIKey = getenv("PINECONE_API_KEY", cfg.PineconeAPIKey)
	cfg.PgConn = getenv("PG_CONN", cfg.PgConn)
	cfg.Provider = strings.ToLower(getenv("LLM_PROVIDER", cfg.Provider))
	cfg.OpenAIAPIKey = getenv("OPENAI_API_KEY", cfg.OpenAIAPIKey)
	cfg.OpenAIBaseURL = getenv("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.GeminiAPIKey = getenv("GEMINI_API_KEY", cfg.GeminiAPIKey)
	cfg.GeminiBaseURL = getenv("GEMINI_BASE_URL", cfg.GeminiBaseURL)
	cfg.EmbedModel = getenv("EMBED_MODEL", cfg.EmbedModel)
	cfg.ChatModel = getenv("LLM_MODEL", cfg.ChatModel)
	cfg.CORSOrigins = getenvList("CORS_ORIGINS", cfg.CORSOrigins)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenv("LOG_FORMAT", cfg.LogFormat)

	var err error
	if cfg.TopK, err = getenvInt("TOP_K", cfg.TopK); err != nil {
		return err
	}
	if cfg.EmbedDimensions, err = getenvInt("EMBED_DIMENSIONS", cfg.EmbedDimensions); err != nil {
		return err
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		t, err := strconv.ParseFloat(v, 32)
		if err != nil {
			return fmt.Errorf("LLM_TEMPERATURE: %w", err)
		}
		cfg.Temperature = float32(t)
	}
	return nil
}

func applyConfigDefaults(cfg *Config) {
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	if cfg.ServerAddr == "" {
		cfg.ServerAddr = ":8000"
	}
	if cfg.Provider == ProviderGemini {
		// OpenAI model names mean nothing to Gemini.
		if strings.HasPrefix(cfg.EmbedModel, "text-embedding-3") {
			cfg.EmbedModel = "gemini-embedding-001"
		}
		if strings.HasPrefix(cfg.ChatModel, "gpt-") {
			cfg.ChatModel = "gemini-2.5-flash"
		}
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", k, err)
	}
	return n, nil
}

func getenvList(k string, def []string) []string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
