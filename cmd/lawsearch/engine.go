package lawsearch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	engine "github.com/jkim999/lawyer-search-engine"
	"github.com/jkim999/lawyer-search-engine/pkg/config"
	"github.com/jkim999/lawyer-search-engine/pkg/embedder"
	"github.com/jkim999/lawyer-search-engine/pkg/logger"
	"github.com/jkim999/lawyer-search-engine/pkg/nlp"
	"github.com/jkim999/lawyer-search-engine/pkg/search"
	"github.com/jkim999/lawyer-search-engine/pkg/store"
	"github.com/jkim999/lawyer-search-engine/pkg/telemetry"
)

// buildLogger constructs the application logger, attaching the parquet
// error-tracking handler when a telemetry path is configured.
func buildLogger(cfg *config.Config) *slog.Logger {
	log := logger.NewLogger(os.Stderr, logger.ParseLevel(cfg.Log.Level), cfg.Log.Format)

	if cfg.Telemetry.ParquetPath != "" {
		base := log.Handler()
		parquetHandler, err := telemetry.NewParquetHandler(base, cfg.Telemetry.ParquetPath)
		if err != nil {
			log.Warn("failed to initialize error tracking", "error", err)
		} else {
			log = slog.New(parquetHandler)
		}
	}
	return log
}

// buildEngine wires the store, model clients, and engine from config.
// needModels controls whether missing model credentials are an error or
// just disable the semantic path.
func buildEngine(cfg *config.Config, log *slog.Logger, needModels bool) (*engine.Client, error) {
	st, err := store.Open(cfg.Database.Path, log)
	if err != nil {
		return nil, err
	}

	if cfg.Database.SchoolAliases != "" {
		if err := st.LoadSchoolAliases(context.Background(), cfg.Database.SchoolAliases); err != nil {
			log.Warn("failed to load school aliases", "error", err)
		}
	}

	llmClient, err := buildNLPClient(cfg, log)
	if err != nil {
		if needModels {
			st.Close()
			return nil, err
		}
		log.Warn("running without LLM client, semantic queries unavailable", "error", err)
	}

	embedderClient, err := buildEmbedder(cfg)
	if err != nil {
		if needModels {
			st.Close()
			return nil, err
		}
		log.Warn("running without embedder, semantic queries unavailable", "error", err)
	}

	eng, err := engine.NewClient(st, llmClient, embedderClient, &engine.Config{
		TopK: cfg.Search.TopK,
		FilterPolicy: search.FilterPolicy{
			StrictKeywordCount: cfg.Search.StrictKeywordCount,
			StrictMatches:      cfg.Search.StrictMatches,
			RelaxBelow:         cfg.Search.RelaxBelow,
			FallbackSize:       cfg.Search.FallbackSize,
		},
		JudgeConcurrency: cfg.Search.JudgeConcurrency,
		JudgeTimeout:     cfg.Search.JudgeTimeout,
		EmbedTimeout:     cfg.Search.EmbedTimeout,
		CacheSize:        cfg.Cache.MaxSize,
		CacheTTL:         cfg.Cache.TTL,
	}, log)
	if err != nil {
		st.Close()
		return nil, err
	}

	if cfg.Database.PracticeAliases != "" {
		aliases, err := store.LoadPracticeAliases(cfg.Database.PracticeAliases)
		if err != nil {
			log.Warn("failed to load practice aliases", "error", err)
		} else {
			eng.SetPracticeAliases(aliases)
		}
	}

	if cfg.Telemetry.ParquetPath != "" {
		recorder, err := telemetry.NewQueryRecorder(cfg.Telemetry.ParquetPath)
		if err != nil {
			log.Warn("failed to initialize query telemetry", "error", err)
		} else {
			eng.SetRecorder(recorder)
		}
	}

	return eng, nil
}

func buildNLPClient(cfg *config.Config, log *slog.Logger) (nlp.Client, error) {
	defaultModel := cfg.NLP.Models["default"]
	if defaultModel.APIKey == "" {
		return nil, fmt.Errorf("no NLP API key configured")
	}

	switch defaultModel.Provider {
	case "", "openai":
		temp := defaultModel.Temperature
		nlpConfig := nlp.Config{
			Model:       defaultModel.Model,
			Temperature: &temp,
			BaseURL:     defaultModel.BaseURL,
		}
		if defaultModel.MaxTokens > 0 {
			maxTokens := defaultModel.MaxTokens
			nlpConfig.MaxTokens = &maxTokens
		}
		client, err := nlp.NewOpenAIClient(defaultModel.APIKey, nlpConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create NLP client: %w", err)
		}

		if cfg.CircuitBreaker.Enabled {
			settings := nlp.BreakerSettings{
				MaxRequests:      cfg.CircuitBreaker.MaxRequests,
				Interval:         time.Duration(cfg.CircuitBreaker.Interval) * time.Second,
				Timeout:          time.Duration(cfg.CircuitBreaker.Timeout) * time.Second,
				ReadyToTripRatio: cfg.CircuitBreaker.ReadyToTripRatio,
			}
			return nlp.NewCircuitBreakerClient(client, settings, log, "judge"), nil
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported NLP provider: %s", defaultModel.Provider)
	}
}

func buildEmbedder(cfg *config.Config) (embedder.Client, error) {
	embedderConfig := embedder.Config{
		Model:      cfg.Embedding.Model,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
	}

	switch cfg.Embedding.Provider {
	case "openai":
		if cfg.Embedding.APIKey == "" {
			return nil, fmt.Errorf("no embedding API key configured")
		}
		return embedder.NewOpenAIEmbedder(cfg.Embedding.APIKey, embedderConfig), nil
	case "", "embedeverything":
		return embedder.NewEmbedEverythingClient(embedderConfig)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}
