package config

import (
	"os"
	"path/filepath"
	"testing"
)

var configEnvVars = []string{
	"SERVICE_PRINCIPAL", "HTTP_PORT", "METRICS_PORT",
	"FILTER_COMMA_THRESHOLD", "FILTER_REPETITION_THRESHOLD",
	"FILTER_CONFIDENCE_THRESHOLD", "FILTER_MINIMUM_WORD_COUNT",
	"TRANSLATION_ENABLED", "TRANSLATION_PROVIDER", "TRANSLATION_OLLAMA_ENDPOINT",
	"TRANSLATION_OLLAMA_MODEL", "TRANSLATION_MINIMUM_WORD_COUNT", "TRANSLATION_TARGETS",
	"KAFKA_ENABLED", "KAFKA_BROKERS", "KAFKA_TOPIC_PARTIAL", "KAFKA_TOPIC_FINAL", "KAFKA_PRINCIPAL",
	"LOG_LEVEL", "LOG_FORMAT", "CONFIG_FILE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range configEnvVars {
		os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	if cfg.Service.Principal != "svc-transcript-core" {
		t.Errorf("expected default principal 'svc-transcript-core', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "8080" {
		t.Errorf("expected default HTTP port '8080', got %s", cfg.Service.HTTPPort)
	}
	if cfg.Service.MetricsPort != "9090" {
		t.Errorf("expected default metrics port '9090', got %s", cfg.Service.MetricsPort)
	}

	if cfg.Filters.CommaThreshold != 0.5 {
		t.Errorf("expected default comma threshold 0.5, got %v", cfg.Filters.CommaThreshold)
	}
	if cfg.Filters.RepetitionThreshold != 4 {
		t.Errorf("expected default repetition threshold 4, got %d", cfg.Filters.RepetitionThreshold)
	}
	if cfg.Filters.ConfidenceThreshold != 0.7 {
		t.Errorf("expected default confidence threshold 0.7, got %v", cfg.Filters.ConfidenceThreshold)
	}
	if cfg.Filters.MinimumWordCount != 5 {
		t.Errorf("expected default minimum word count 5, got %d", cfg.Filters.MinimumWordCount)
	}

	if !cfg.Translation.Enabled {
		t.Error("expected translation enabled by default")
	}
	if cfg.Translation.Provider != "mock" {
		t.Errorf("expected default provider 'mock', got %s", cfg.Translation.Provider)
	}
	if got := cfg.Translation.Targets["en"]; got != "fr" {
		t.Errorf("expected default en target 'fr', got %s", got)
	}
	if got := cfg.Translation.Targets["fr"]; got != "en" {
		t.Errorf("expected default fr target 'en', got %s", got)
	}

	if cfg.Kafka.Enabled {
		t.Error("expected Kafka disabled by default")
	}
	if cfg.Kafka.TopicPartial != "transcripts.partial" {
		t.Errorf("expected default partial topic, got %s", cfg.Kafka.TopicPartial)
	}
	if cfg.Kafka.TopicFinal != "transcripts.final" {
		t.Errorf("expected default final topic, got %s", cfg.Kafka.TopicFinal)
	}

	if cfg.Observability.LogLevel != "info" {
		t.Errorf("expected default log level 'info', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)

	t.Setenv("SERVICE_PRINCIPAL", "custom-principal")
	t.Setenv("HTTP_PORT", "9999")
	t.Setenv("FILTER_COMMA_THRESHOLD", "0.3")
	t.Setenv("FILTER_REPETITION_THRESHOLD", "6")
	t.Setenv("FILTER_CONFIDENCE_THRESHOLD", "0.85")
	t.Setenv("FILTER_MINIMUM_WORD_COUNT", "3")
	t.Setenv("TRANSLATION_ENABLED", "false")
	t.Setenv("TRANSLATION_PROVIDER", "ollama")
	t.Setenv("TRANSLATION_TARGETS", "en=de, de=en")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Service.Principal != "custom-principal" {
		t.Errorf("expected principal 'custom-principal', got %s", cfg.Service.Principal)
	}
	if cfg.Service.HTTPPort != "9999" {
		t.Errorf("expected HTTP port '9999', got %s", cfg.Service.HTTPPort)
	}
	if cfg.Filters.CommaThreshold != 0.3 {
		t.Errorf("expected comma threshold 0.3, got %v", cfg.Filters.CommaThreshold)
	}
	if cfg.Filters.RepetitionThreshold != 6 {
		t.Errorf("expected repetition threshold 6, got %d", cfg.Filters.RepetitionThreshold)
	}
	if cfg.Filters.ConfidenceThreshold != 0.85 {
		t.Errorf("expected confidence threshold 0.85, got %v", cfg.Filters.ConfidenceThreshold)
	}
	if cfg.Filters.MinimumWordCount != 3 {
		t.Errorf("expected minimum word count 3, got %d", cfg.Filters.MinimumWordCount)
	}
	if cfg.Translation.Enabled {
		t.Error("expected translation disabled")
	}
	if cfg.Translation.Provider != "ollama" {
		t.Errorf("expected provider 'ollama', got %s", cfg.Translation.Provider)
	}
	if got := cfg.Translation.Targets["en"]; got != "de" {
		t.Errorf("expected en target 'de', got %s", got)
	}
	if !cfg.Kafka.Enabled {
		t.Error("expected Kafka enabled")
	}
	if len(cfg.Kafka.Brokers) != 2 || cfg.Kafka.Brokers[0] != "broker1:9092" || cfg.Kafka.Brokers[1] != "broker2:9092" {
		t.Errorf("unexpected brokers: %v", cfg.Kafka.Brokers)
	}
	if cfg.Observability.LogLevel != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Observability.LogLevel)
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	clearEnv(t)

	t.Setenv("FILTER_COMMA_THRESHOLD", "not-a-float")
	t.Setenv("FILTER_REPETITION_THRESHOLD", "four")
	t.Setenv("TRANSLATION_ENABLED", "definitely")

	cfg := Load()

	if cfg.Filters.CommaThreshold != 0.5 {
		t.Errorf("expected fallback comma threshold 0.5, got %v", cfg.Filters.CommaThreshold)
	}
	if cfg.Filters.RepetitionThreshold != 4 {
		t.Errorf("expected fallback repetition threshold 4, got %d", cfg.Filters.RepetitionThreshold)
	}
	if !cfg.Translation.Enabled {
		t.Error("expected fallback translation enabled")
	}
}

func TestLoad_YAMLOverlay(t *testing.T) {
	clearEnv(t)

	content := `
filters:
  comma_threshold: 0.42
translation:
  provider: ollama
  targets:
    en-US: fr
    fr-CA: en
kafka:
  enabled: true
  brokers:
    - overlay:9092
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)

	cfg := Load()

	if cfg.Filters.CommaThreshold != 0.42 {
		t.Errorf("expected overlay comma threshold 0.42, got %v", cfg.Filters.CommaThreshold)
	}
	if cfg.Translation.Provider != "ollama" {
		t.Errorf("expected overlay provider 'ollama', got %s", cfg.Translation.Provider)
	}
	if got := cfg.Translation.Targets["en-US"]; got != "fr" {
		t.Errorf("expected overlay en-US target 'fr', got %s", got)
	}
	if !cfg.Kafka.Enabled {
		t.Error("expected overlay Kafka enabled")
	}
	if len(cfg.Kafka.Brokers) != 1 || cfg.Kafka.Brokers[0] != "overlay:9092" {
		t.Errorf("unexpected overlay brokers: %v", cfg.Kafka.Brokers)
	}
	// Untouched sections keep their env/default values.
	if cfg.Filters.RepetitionThreshold != 4 {
		t.Errorf("expected repetition threshold untouched at 4, got %d", cfg.Filters.RepetitionThreshold)
	}
}
