package geo

import (
	"embed"
	"time"

	"github.com/gramseva/portal/modules/geo/domain/aggregates/district"
	"github.com/gramseva/portal/modules/geo/domain/bulkimport"
	"github.com/gramseva/portal/modules/geo/domain/entities/village"
	"github.com/gramseva/portal/modules/geo/infrastructure/persistence"
	"github.com/gramseva/portal/modules/geo/presentation/controllers"
	"github.com/gramseva/portal/modules/geo/services"
	"github.com/gramseva/portal/pkg/application"
	"github.com/gramseva/portal/pkg/configuration"
)

//go:embed infrastructure/persistence/schema/*.sql
var migrationFiles embed.FS

const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type ModuleOptions struct {
	// Storage selects postgres (default) or in-memory repositories.
	Storage  string
	CacheTTL time.Duration
	MaxRows  int
}

func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		conf := configuration.Use()
		opts = &ModuleOptions{
			Storage:  conf.GeoStorage,
			CacheTTL: conf.Import.CacheTTL,
			MaxRows:  conf.Import.MaxRows,
		}
	}
	return &Module{options: opts}
}

type Module struct {
	options *ModuleOptions
}

func (m *Module) repositories() (district.Repository, village.Repository) {
	if m.options.Storage == StorageMemory {
		store := persistence.NewInmemStore()
		return persistence.NewInmemDistrictRepository(store), persistence.NewInmemVillageRepository(store)
	}
	return persistence.NewDistrictRepository(), persistence.NewVillageRepository()
}

func (m *Module) Register(app application.Application) error {
	if m.options.Storage != StorageMemory {
		app.Migrations().RegisterSchema(m.Name(), &migrationFiles, "infrastructure/persistence/schema")
	}

	districtRepo, villageRepo := m.repositories()
	publisher := app.EventPublisher()

	districtService := services.NewDistrictService(districtRepo, villageRepo, publisher, m.options.CacheTTL)
	importService := services.NewImportService(services.ImportServiceConfig{
		Directory: services.NewDirectory(districtRepo, villageRepo),
		Districts: districtRepo,
		Publisher: publisher,
		MaxRows:   m.options.MaxRows,
	})
	app.RegisterServices(districtService, importService)

	publisher.Subscribe(func(*bulkimport.CompletedEvent) {
		districtService.Invalidate()
	})

	app.RegisterControllers(
		controllers.NewGeoAPIController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "geo"
}
