package lawsearch

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jkim999/lawyer-search-engine/pkg/alert"
	"github.com/jkim999/lawyer-search-engine/pkg/config"
	"github.com/jkim999/lawyer-search-engine/pkg/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the lawsearch HTTP server",
	Long: `Start the lawsearch HTTP server to provide REST API access to the search
engine.

The server provides endpoints for:
- Resolving queries (POST /search)
- Classifying queries without running them (POST /api/v1/classify)
- Health checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServe,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server-specific flags
	serveCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serveCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serveCmd.Flags().StringVar(&serverMode, "mode", "debug", "Server mode (debug, release, test)")

	// NLP flags
	serveCmd.Flags().String("nlp-model", "gpt-4o-mini", "NLP model")
	serveCmd.Flags().String("nlp-api-key", "", "NLP API key")
	serveCmd.Flags().String("nlp-base-url", "", "NLP base URL")

	// Embedding flags
	serveCmd.Flags().String("embedding-provider", "embedeverything", "Embedding provider")
	serveCmd.Flags().String("embedding-model", "", "Embedding model")

	// Telemetry flags
	serveCmd.Flags().String("telemetry-parquet-path", "", "Path to directory for telemetry")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	overrideServeFlags(cmd, cfg)

	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", cfg.Server.Port)
	}

	log := buildLogger(cfg)
	alerter := alert.FromConfig(cfg.Alert)

	eng, err := buildEngine(cfg, log, false)
	if err != nil {
		alerter.Alert("lawsearch startup failure", err.Error())
		return fmt.Errorf("failed to initialize engine: %w", err)
	}
	defer eng.Close()

	srv := server.New(cfg, eng)
	srv.Setup()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	select {
	case err := <-serverErrChan:
		alerter.Alert("lawsearch server failure", err.Error())
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal: %v\n", sig)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		fmt.Println("Server stopped gracefully")
		return nil
	}
}

func overrideServeFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	if cmd.Flags().Changed("nlp-model") {
		m := cfg.NLP.Models["default"]
		m.Model, _ = cmd.Flags().GetString("nlp-model")
		cfg.NLP.Models["default"] = m
	}
	if cmd.Flags().Changed("nlp-api-key") {
		m := cfg.NLP.Models["default"]
		m.APIKey, _ = cmd.Flags().GetString("nlp-api-key")
		cfg.NLP.Models["default"] = m
	}
	if cmd.Flags().Changed("nlp-base-url") {
		m := cfg.NLP.Models["default"]
		m.BaseURL, _ = cmd.Flags().GetString("nlp-base-url")
		cfg.NLP.Models["default"] = m
	}

	if cmd.Flags().Changed("embedding-provider") {
		cfg.Embedding.Provider, _ = cmd.Flags().GetString("embedding-provider")
	}
	if cmd.Flags().Changed("embedding-model") {
		cfg.Embedding.Model, _ = cmd.Flags().GetString("embedding-model")
	}

	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}
}
