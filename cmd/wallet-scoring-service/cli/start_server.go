package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/defilabs-io/wallet-scoring-service/internal/api"
	"github.com/defilabs-io/wallet-scoring-service/internal/config"
	"github.com/defilabs-io/wallet-scoring-service/internal/db"
	"github.com/defilabs-io/wallet-scoring-service/internal/observability/metrics"
	"github.com/defilabs-io/wallet-scoring-service/internal/observability/tracing"
	"github.com/defilabs-io/wallet-scoring-service/internal/queue"
	"github.com/defilabs-io/wallet-scoring-service/internal/services"
)

const shutdownTimeout = 10 * time.Second

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the wallet scoring server",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	// load config
	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	// create new db client
	var dbClient db.DbInterface
	dbClient, err = db.New(ctx, cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating db client")
	}
	dbClient = db.NewDbWithMetrics(dbClient)

	streamClient := queue.NewClient(cfg.Kafka)

	service := services.NewService(cfg, dbClient, streamClient)

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	if err := service.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("error while starting supervisor worker")
	}
	service.StartStatsPoller(ctx)

	apiServer := api.New(ctx, cfg, service, dbClient)
	apiErr := make(chan error, 1)
	go func() {
		apiErr <- apiServer.Start()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-apiErr:
		if err != nil {
			log.Error().Err(err).Msg("admin API server exited")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("failed to shut down admin API server")
	}
	service.StopStatsPoller()
	service.Stop()

	return nil
}
