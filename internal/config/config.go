// Package config loads service configuration from the environment, with an
// optional YAML overlay file for the pieces that are awkward as env vars
// (the translation target table in particular).
package config

import (
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Configuration is the full service configuration.
type Configuration struct {
	Service       ServiceConfig       `yaml:"service"`
	Filters       FiltersConfig       `yaml:"filters"`
	Translation   TranslationConfig   `yaml:"translation"`
	Kafka         KafkaConfig         `yaml:"kafka"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// ServiceConfig identifies the service and its HTTP surfaces.
type ServiceConfig struct {
	Principal   string `yaml:"principal"`
	HTTPPort    string `yaml:"http_port"`    // transcript API
	MetricsPort string `yaml:"metrics_port"` // prometheus + health
}

// FiltersConfig carries the pipeline filter thresholds.
type FiltersConfig struct {
	CommaThreshold      float64 `yaml:"comma_threshold"`
	RepetitionThreshold int     `yaml:"repetition_threshold"`
	ConfidenceThreshold float64 `yaml:"confidence_threshold"`
	MinimumWordCount    int     `yaml:"minimum_word_count"`
}

// TranslationConfig carries the enrichment stage configuration.
type TranslationConfig struct {
	Enabled          bool              `yaml:"enabled"`
	Provider         string            `yaml:"provider"` // mock, ollama
	OllamaEndpoint   string            `yaml:"ollama_endpoint"`
	OllamaModel      string            `yaml:"ollama_model"`
	MinimumWordCount int               `yaml:"minimum_word_count"`
	Targets          map[string]string `yaml:"targets"` // locale to target language
}

// KafkaConfig carries the event publisher configuration.
type KafkaConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Brokers      []string `yaml:"brokers"`
	TopicPartial string   `yaml:"topic_partial"`
	TopicFinal   string   `yaml:"topic_final"`
	Principal    string   `yaml:"principal"`
}

// ObservabilityConfig carries logging configuration.
type ObservabilityConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // json, console
}

// Load builds the configuration from defaults, then env vars, then the YAML
// file named by CONFIG_FILE (if set). Later layers win.
func Load() *Configuration {
	cfg := &Configuration{
		Service: ServiceConfig{
			Principal:   envOrDefault("SERVICE_PRINCIPAL", "svc-transcript-core"),
			HTTPPort:    envOrDefault("HTTP_PORT", "8080"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
		Filters: FiltersConfig{
			CommaThreshold:      envFloat("FILTER_COMMA_THRESHOLD", 0.5),
			RepetitionThreshold: envInt("FILTER_REPETITION_THRESHOLD", 4),
			ConfidenceThreshold: envFloat("FILTER_CONFIDENCE_THRESHOLD", 0.7),
			MinimumWordCount:    envInt("FILTER_MINIMUM_WORD_COUNT", 5),
		},
		Translation: TranslationConfig{
			Enabled:          envBool("TRANSLATION_ENABLED", true),
			Provider:         envOrDefault("TRANSLATION_PROVIDER", "mock"),
			OllamaEndpoint:   envOrDefault("TRANSLATION_OLLAMA_ENDPOINT", "http://localhost:11434"),
			OllamaModel:      envOrDefault("TRANSLATION_OLLAMA_MODEL", ""),
			MinimumWordCount: envInt("TRANSLATION_MINIMUM_WORD_COUNT", 5),
			Targets:          envPairs("TRANSLATION_TARGETS", map[string]string{"en": "fr", "fr": "en"}),
		},
		Kafka: KafkaConfig{
			Enabled:      envBool("KAFKA_ENABLED", false),
			Brokers:      envList("KAFKA_BROKERS"),
			TopicPartial: envOrDefault("KAFKA_TOPIC_PARTIAL", "transcripts.partial"),
			TopicFinal:   envOrDefault("KAFKA_TOPIC_FINAL", "transcripts.final"),
			Principal:    envOrDefault("KAFKA_PRINCIPAL", "svc-transcript-core"),
		},
		Observability: ObservabilityConfig{
			LogLevel:  envOrDefault("LOG_LEVEL", "info"),
			LogFormat: envOrDefault("LOG_FORMAT", "json"),
		},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := overlayFile(cfg, path); err != nil {
			// No fallback for a file the operator named explicitly.
			panic("config: " + err.Error())
		}
	}

	return cfg
}

func overlayFile(cfg *Configuration, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// envPairs parses "en=fr,fr=en" style mappings.
func envPairs(key string, def map[string]string) map[string]string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	out := make(map[string]string)
	for _, pair := range strings.Split(v, ",") {
		k, val, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(val)
	}
	return out
}
