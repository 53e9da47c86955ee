package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dougbradbury/pentecost-sub000/internal/app"
	"github.com/dougbradbury/pentecost-sub000/internal/config"
	"github.com/dougbradbury/pentecost-sub000/internal/events"
	transcripthttp "github.com/dougbradbury/pentecost-sub000/internal/http"
	"github.com/dougbradbury/pentecost-sub000/internal/langdetect"
	"github.com/dougbradbury/pentecost-sub000/internal/observability"
	"github.com/dougbradbury/pentecost-sub000/internal/pipeline"
	"github.com/dougbradbury/pentecost-sub000/internal/source"
	"github.com/dougbradbury/pentecost-sub000/internal/stream"
	"github.com/dougbradbury/pentecost-sub000/internal/transcript"
	"github.com/dougbradbury/pentecost-sub000/internal/translate"
)

func main() {
	cfg := config.Load()
	application := app.New(cfg)
	if err := application.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	// Sinks: the in-process transcript view plus the Kafka fan-out.
	view := transcript.NewSink()
	publisher := events.New(&events.Config{
		Enabled:      cfg.Kafka.Enabled,
		Brokers:      cfg.Kafka.Brokers,
		TopicPartial: cfg.Kafka.TopicPartial,
		TopicFinal:   cfg.Kafka.TopicFinal,
		Principal:    cfg.Kafka.Principal,
	})

	p := pipeline.New(
		pipelineConfig(cfg),
		langdetect.NewLingua(recognizerLocales(cfg)),
		translator(cfg),
		view,
		events.NewSink(publisher),
	)

	// Observability endpoints (metrics + health).
	obs := observability.NewServer(":" + cfg.Service.MetricsPort)
	obs.Start()

	// Transcript API.
	api := &http.Server{
		Addr:    ":" + cfg.Service.HTTPPort,
		Handler: transcripthttp.NewRouter(view),
	}
	go func() {
		log.Info().Str("addr", api.Addr).Msg("Transcript API listening")
		if err := api.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Transcript API failed")
		}
	}()

	// Demo recognizer streams: one per (locale, source). Real deployments
	// feed the consumers from their own recognizer integrations.
	ctx, cancel := context.WithCancel(context.Background())
	streams := map[string]source.Stream{
		"en-US/local":  source.NewMock("en-US", "local", source.DefaultUtterances, 400*time.Millisecond),
		"en-US/remote": source.NewMock("en-US", "remote", source.DefaultUtterances, 700*time.Millisecond),
	}

	var wg sync.WaitGroup
	for name, s := range streams {
		wg.Add(1)
		go func(name string, s source.Stream) {
			defer wg.Done()
			consumer := stream.NewConsumer(p)
			if err := consumer.Run(ctx, s.Events()); err != nil && err != context.Canceled {
				log.Error().Err(err).Str("stream", name).Msg("Stream consumer failed")
			}
		}(name, s)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	log.Info().Msg("Shutdown signal received")

	// Stop producing, wait for the consumers, then drain the pipeline so
	// in-flight translations land before the process exits.
	for _, s := range streams {
		_ = s.Close()
	}
	cancel()
	wg.Wait()

	drainCtx, drainCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer drainCancel()
	if err := p.Shutdown(drainCtx); err != nil {
		log.Error().Err(err).Msg("Pipeline drain incomplete")
	}

	_ = api.Shutdown(drainCtx)
	_ = obs.Shutdown(drainCtx)
	application.Shutdown()
}

func pipelineConfig(cfg *config.Configuration) pipeline.Config {
	pc := pipeline.DefaultConfig()
	pc.Artifact.CommaThreshold = cfg.Filters.CommaThreshold
	pc.Artifact.RepetitionThreshold = cfg.Filters.RepetitionThreshold
	pc.Language.ConfidenceThreshold = cfg.Filters.ConfidenceThreshold
	pc.MinLength.MinimumWordCount = cfg.Filters.MinimumWordCount
	pc.Translation.MinimumWordCount = cfg.Translation.MinimumWordCount
	if cfg.Translation.Enabled {
		pc.Translation.Targets = cfg.Translation.Targets
	}
	return pc
}

func translator(cfg *config.Configuration) translate.Translator {
	if !cfg.Translation.Enabled {
		return nil
	}
	switch cfg.Translation.Provider {
	case "ollama":
		return translate.NewOllama(cfg.Translation.OllamaEndpoint, cfg.Translation.OllamaModel)
	default:
		return translate.NewMock()
	}
}

// recognizerLocales lists the locales the language detector needs models
// for: the recognizer locales plus every configured translation target.
func recognizerLocales(cfg *config.Configuration) []string {
	locales := []string{"en-US"}
	for from, to := range cfg.Translation.Targets {
		locales = append(locales, from, to)
	}
	return locales
}
