package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/money-gurus/guru-server/internal/advisor"
	"github.com/money-gurus/guru-server/internal/completion"
	"github.com/money-gurus/guru-server/internal/server"
	"github.com/money-gurus/guru-server/internal/store"
	"github.com/money-gurus/guru-server/pkg/openrouter"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := store.NewSQLite(cfg.Store.Path)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		adv, err := buildAdvisor()
		if err != nil {
			return err
		}

		if cfg.OpenRouter.Key == "" {
			zap.L().Warn("no OpenRouter API key configured, AI endpoints will refuse requests")
		}

		srv := server.New(st, adv,
			server.WithAIConfigured(cfg.OpenRouter.Key != ""),
			server.WithRequestTimeout(time.Duration(cfg.AI.RequestTimeoutSecs)*time.Second),
			server.WithAllowedOrigins(cfg.Server.AllowedOrigins),
		)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		httpSrv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: srv.Router(),
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			httpSrv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// buildAdvisor wires the OpenRouter client, completion pipeline, and
// model chains from config.
func buildAdvisor() (*advisor.Advisor, error) {
	client := openrouter.NewClient(cfg.OpenRouter.Key,
		openrouter.WithBaseURL(cfg.OpenRouter.BaseURL),
		openrouter.WithAppHeaders(cfg.OpenRouter.Referer, cfg.OpenRouter.Title),
		openrouter.WithRateLimit(cfg.OpenRouter.RPS, cfg.OpenRouter.Burst),
	)

	pipeline := completion.NewPipeline(client,
		completion.WithBackoff(time.Duration(cfg.AI.BackoffMillis)*time.Millisecond),
		completion.WithAttemptTimeout(time.Duration(cfg.AI.AttemptTimeoutSecs)*time.Second),
	)

	return advisor.New(pipeline, advisor.Models{
		Score: cfg.AI.ScoreModels,
		Chat:  cfg.AI.ChatModels,
		Goal:  cfg.AI.GoalModels,
	})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
