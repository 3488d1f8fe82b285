package submissions

import (
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"

	geoservices "github.com/gramseva/portal/modules/geo/services"
	"github.com/gramseva/portal/modules/submissions/domain/aggregates/submission"
	"github.com/gramseva/portal/modules/submissions/infrastructure/persistence"
	"github.com/gramseva/portal/modules/submissions/presentation/controllers"
	"github.com/gramseva/portal/modules/submissions/services"
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
	Storage string
	// DSN is a lib/pq connection string, used with postgres storage.
	DSN            string
	FormsRate      string
	RateLimitStore limiter.Store
}

// NewModule must be registered after the geo module: submissions reference
// districts and villages.
func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		conf := configuration.Use()
		opts = &ModuleOptions{
			Storage: conf.SubmissionsStorage,
			DSN:     conf.Database.ConnectionString(),
		}
		if conf.RateLimit.Enabled {
			opts.FormsRate = conf.RateLimit.FormsRate
		}
	}
	return &Module{options: opts}
}

type Module struct {
	options *ModuleOptions
}

func (m *Module) repository() (submission.Repository, error) {
	if m.options.Storage == StorageMemory {
		return persistence.NewInmemSubmissionRepository(), nil
	}
	db, err := sqlx.Open("postgres", m.options.DSN)
	if err != nil {
		return nil, fmt.Errorf("submissions: open database: %w", err)
	}
	return persistence.NewSubmissionRepository(db), nil
}

func (m *Module) Register(app application.Application) error {
	geo := app.Service(geoservices.DistrictService{}).(*geoservices.DistrictService)
	if m.options.Storage != StorageMemory {
		app.Migrations().RegisterSchema(m.Name(), &migrationFiles, "infrastructure/persistence/schema")
	}
	repo, err := m.repository()
	if err != nil {
		return err
	}

	app.RegisterServices(services.NewSubmissionService(repo, geo, app.EventPublisher()))

	app.EventPublisher().Subscribe(func(e *submission.ReceivedEvent) {
		logrus.WithFields(logrus.Fields{
			"id":   e.Result.ID(),
			"kind": e.Result.Kind(),
		}).Info("form submission received")
	})

	app.RegisterControllers(
		controllers.NewFormsController(controllers.FormsControllerConfig{
			App:   app,
			Rate:  m.options.FormsRate,
			Store: m.options.RateLimitStore,
		}),
		controllers.NewSubmissionsController(app),
	)
	return nil
}

func (m *Module) Name() string {
	return "submissions"
}
