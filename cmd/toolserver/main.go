package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	appledger "github.com/farmops/agrostock/internal/application/ledger"
	"github.com/farmops/agrostock/internal/application/report"
	"github.com/farmops/agrostock/internal/infrastructure/memory"
	infrapdf "github.com/farmops/agrostock/internal/infrastructure/pdf"
	"github.com/farmops/agrostock/internal/infrastructure/postgres"
	"github.com/farmops/agrostock/internal/interfaces/tools"
	"github.com/farmops/agrostock/pkg/config"
	"github.com/farmops/agrostock/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("driver", cfg.Store.Driver).
		Msg("iniciando tool server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		tx appledger.TxRunner
		uc *appledger.UseCase
	)
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		tx = postgres.NewTxRunner(pool)
		uc = appledger.NewUseCase(tx,
			postgres.NewStockItemRepository(pool),
			postgres.NewMovementRecordRepository(pool),
		)
	case config.DriverMemory:
		store := memory.NewStore()
		tx = memory.NewTxRunner(store)
		uc = appledger.NewUseCase(tx,
			memory.NewStockItemRepository(store),
			memory.NewMovementRecordRepository(store),
		)
	}

	layout := report.DefaultLayout()
	layout.PageHeight = cfg.Report.PageHeight
	layout.RowHeight = cfg.Report.RowHeight
	generator := report.NewGenerator(infrapdf.NewMarotoReportRenderer(), layout)

	registry := tools.NewRegistry()
	tools.RegisterLedgerTools(registry, uc)
	tools.RegisterReportTools(registry, uc, generator)

	server := tools.NewServer(registry, log)
	log.Info().Int("tools", len(registry.All())).Msg("atendiendo por stdin/stdout")

	if err := server.Serve(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("tool server")
	}
	log.Info().Msg("tool server detenido")
}
