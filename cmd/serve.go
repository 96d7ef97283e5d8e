/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/valpere/tlumach/internal/catalog"
	"github.com/valpere/tlumach/internal/observability"
	"github.com/valpere/tlumach/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the translation relay over HTTP",
	Long: `Run the HTTP relay.

Routes:
  POST /translate              {text, sourceLanguage, targetLanguage} -> {translatedText}
  POST /functions/v1/translate same as /translate
  GET  /languages              language catalog
  GET  /healthz                liveness

Cross-origin requests are allowed from any origin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, err := buildLogger(cfg)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		shutdownTracing, err := observability.SetupTracing(ctx, observability.TracingConfig{
			Endpoint:       cfg.Tracing.Endpoint,
			Insecure:       cfg.Tracing.Insecure,
			ServiceName:    cfg.Tracing.ServiceName,
			ServiceVersion: version,
		})
		if err != nil {
			return fmt.Errorf("failed to set up tracing: %w", err)
		}
		defer func() {
			if err := shutdownTracing(context.Background()); err != nil {
				logger.Warn("failed to flush traces", zap.Error(err))
			}
		}()

		r, err := buildRelay(cfg, logger)
		if err != nil {
			return err
		}
		if !r.Configured() {
			logger.Warn("provider API key is not set; every translation will fail until it is configured",
				zap.String("provider", r.ProviderName()),
				zap.String("fault", "configuration"),
			)
		}

		router := server.NewRouter(r, logger, server.Options{
			ServiceName: cfg.Tracing.ServiceName,
			Catalog:     catalog.Default,
		})

		srv := server.New(server.Config{
			Addr:            cfg.Server.Addr,
			ReadTimeout:     cfg.Server.ReadTimeout,
			WriteTimeout:    cfg.Server.WriteTimeout,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
		}, router, logger)

		logger.Info("starting relay",
			zap.String("version", version),
			zap.String("provider", r.ProviderName()),
			zap.String("addr", cfg.Server.Addr),
		)
		return srv.Run(ctx)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().String("provider", "gemini", "Provider: gemini, openrouter, ollama")
	serveCmd.Flags().String("model", "", "Provider model (provider default if empty)")
	serveCmd.Flags().String("base-url", "", "Provider base URL (provider default if empty)")
	serveCmd.Flags().Float64("temperature", 0.3, "Sampling temperature")
	serveCmd.Flags().Int("max-output-tokens", 2048, "Upper bound on generated tokens")
	serveCmd.Flags().Duration("timeout", 0, "Provider call timeout (default 30s)")

	v.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	v.BindPFlag("provider.name", serveCmd.Flags().Lookup("provider"))
	v.BindPFlag("provider.model", serveCmd.Flags().Lookup("model"))
	v.BindPFlag("provider.base_url", serveCmd.Flags().Lookup("base-url"))
	v.BindPFlag("provider.temperature", serveCmd.Flags().Lookup("temperature"))
	v.BindPFlag("provider.max_output_tokens", serveCmd.Flags().Lookup("max-output-tokens"))
	v.BindPFlag("provider.timeout", serveCmd.Flags().Lookup("timeout"))
}
