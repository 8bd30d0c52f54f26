package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/theopenlane/echoaudit/internal/api"
)

// serveCmd is the cobra command that starts the echoaudit API server
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "start the echoaudit api server",
	Run: func(cmd *cobra.Command, _ []string) {
		err := serve(cmd.Context())
		cobra.CheckErr(err)
	},
}

// init registers the serve command on the root command
func init() {
	rootCmd.AddCommand(serveCmd)
}

// serve initializes dependencies and starts the echoaudit API server
func serve(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, err := setupServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.setupNotifiers(); err != nil {
		return err
	}

	svc.closers = append(svc.closers, svc.bus.Subscribe(svc.auditor.Handler()))

	handler := api.NewRouter(api.RouterConfig{
		Auditor:      svc.auditor,
		Bus:          svc.bus,
		Relay:        svc.relay,
		Gatherer:     svc.registry,
		MaxBodySize:  cfg.Server.MaxBodySize,
		AuditTimeout: cfg.Audit.Timeout,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGracePeriod)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown error")
		}
	}()

	log.Info().Str("listen", cfg.Server.Listen).Int("subscribers", svc.bus.Len()).Msg("starting echoaudit service")

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen: %w", err)
	}

	return nil
}
