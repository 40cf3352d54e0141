package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/config"
	"github.com/isabelcabezasm/swiss-tax-form-stocks/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Run starts the pipeline and serves the API on cfg.Port until ctx is
// cancelled, then shuts both down.
func Run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, pipeline.NewMetrics(reg), log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := NewServer(orch, reg, log, cfg)
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", "error", err)
		}
		orch.Stop()
	}()

	log.Info("starting stocktax api", "port", cfg.Port, "tax_year", cfg.TaxYear)
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-done
	return nil
}
