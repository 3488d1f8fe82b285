package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/gramseva/portal/modules/geo/infrastructure/persistence"
	"github.com/gramseva/portal/modules/geo/services"
	"github.com/gramseva/portal/pkg/composables"
	"github.com/gramseva/portal/pkg/configuration"
	"github.com/gramseva/portal/pkg/eventbus"
)

// operatorSession stands in for an admin session: whoever runs the tool
// with database credentials is trusted.
type operatorSession struct{}

func (operatorSession) Token() string { return "cli" }

type cliEnv struct {
	ctx     context.Context
	imports *services.ImportService
	close   func()
}

// openEnv connects to postgres and builds the import service. Tests swap it
// for an in-memory variant.
var openEnv = func(ctx context.Context) (*cliEnv, error) {
	conf := configuration.Use()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return nil, withCode(exitDB, fmt.Errorf("connect: %w", err))
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, withCode(exitDB, fmt.Errorf("ping: %w", err))
	}

	logger := conf.Logger()
	districts := persistence.NewDistrictRepository()
	villages := persistence.NewVillageRepository()
	imports := services.NewImportService(services.ImportServiceConfig{
		Directory: services.NewDirectory(districts, villages),
		Districts: districts,
		Publisher: eventbus.NewEventPublisher(logger),
		MaxRows:   conf.Import.MaxRows,
	})
	return &cliEnv{
		ctx:     operatorContext(composables.WithPool(ctx, pool), logger),
		imports: imports,
		close:   pool.Close,
	}, nil
}

func operatorContext(ctx context.Context, logger *logrus.Logger) context.Context {
	ctx = composables.WithLogger(ctx, logger.WithField("component", "geo-data"))
	return composables.WithAdminSession(ctx, operatorSession{})
}
