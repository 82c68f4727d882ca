// Package bootstrap arma los casos de uso sobre PostgreSQL para la API y la CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/simstock-api/internal/application/auth"
	"github.com/jhoicas/simstock-api/internal/application/availability"
	"github.com/jhoicas/simstock-api/internal/application/reconcile"
	"github.com/jhoicas/simstock-api/internal/application/simimport"
	"github.com/jhoicas/simstock-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/simstock-api/internal/infrastructure/pdf"
	"github.com/jhoicas/simstock-api/internal/infrastructure/postgres"
	"github.com/jhoicas/simstock-api/pkg/config"
	"github.com/jhoicas/simstock-api/pkg/logger"
)

// Container casos de uso listos para usar. Close libera el pool.
type Container struct {
	Pool         *pgxpool.Pool
	Auth         *auth.AuthUseCase
	Availability *availability.UseCase
	Sims         *usecase.SimUseCase
	Import       *simimport.UseCase
	Usage        *usecase.UsageUseCase
	Sync         *reconcile.SyncUseCase
}

// New abre el pool y construye los casos de uso.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	sources, err := config.LoadSources(cfg.Sync.SourcesFile, cfg.Sync.SourceCategories)
	if err != nil {
		return nil, err
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}

	simRepo := postgres.NewSimRepository(pool)
	historyRepo := postgres.NewSimHistoryRepository(pool)
	categoryRepo := postgres.NewUsageCategoryRepository(pool)
	ruleRepo := postgres.NewEligibilityRuleRepository(pool)
	sourceRepo := postgres.NewServiceSourceRepository(pool)
	syncLogRepo := postgres.NewSyncLogRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	simUC := usecase.NewSimUseCase(txRunner, simRepo, historyRepo, infrapdf.NewHistoryReportGenerator())
	engine := reconcile.NewEngine(txRunner, categoryRepo, log.Component("reconcile"))

	return &Container{
		Pool: pool,
		Auth: auth.NewAuthUseCase(userRepo, auth.JWTConfig{
			Secret:     cfg.JWT.Secret,
			ExpMinutes: cfg.JWT.Expiration,
			Issuer:     cfg.JWT.Issuer,
		}),
		Availability: availability.NewUseCase(categoryRepo, ruleRepo, simRepo),
		Sims:         simUC,
		Import:       simimport.NewUseCase(simUC, syncLogRepo, log.Component("simimport")),
		Usage:        usecase.NewUsageUseCase(categoryRepo, ruleRepo),
		Sync:         reconcile.NewSyncUseCase(engine, SourceDefinitions(sources), sourceRepo, syncLogRepo, log.Component("sync")),
	}, nil
}

// Close cierra el pool.
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
}

// SourceDefinitions traduce el registro de fuentes de la configuración al del motor.
func SourceDefinitions(sources []config.Source) []reconcile.SourceDefinition {
	defs := make([]reconcile.SourceDefinition, 0, len(sources))
	for _, s := range sources {
		defs = append(defs, reconcile.SourceDefinition{
			SourceConfig: reconcile.SourceConfig{
				Name:              s.Name,
				DisplayName:       s.DisplayName,
				Enabled:           s.Enabled,
				UsageCategoryName: s.Category,
			},
			Columns: reconcile.ColumnMappings{
				ICCID:             s.Columns.ICCID,
				CustomerID:        s.Columns.CustomerID,
				ContractStartDate: s.Columns.ContractStartDate,
				ContractEndDate:   s.Columns.ContractEndDate,
				ShippedDate:       s.Columns.ShippedDate,
				ArrivedDate:       s.Columns.ArrivedDate,
				ReturnedDate:      s.Columns.ReturnedDate,
			}.WithDefaults(),
		})
	}
	return defs
}
