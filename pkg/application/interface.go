package application

import (
	"context"
	"embed"
	"reflect"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gramseva/portal/pkg/eventbus"
)

type Controller interface {
	Register(r *mux.Router)
	Key() string
}

// Application is the registry modules use to contribute services, controllers and schema.
type Application interface {
	DB() *pgxpool.Pool
	EventPublisher() eventbus.EventBus
	Controllers() []Controller
	Middleware() []mux.MiddlewareFunc
	Migrations() MigrationManager
	RegisterControllers(controllers ...Controller)
	RegisterMiddleware(middleware ...mux.MiddlewareFunc)
	RegisterServices(services ...any)
	Service(service any) any
	Services() map[reflect.Type]any
}

type Module interface {
	Name() string
	Register(app Application) error
}

// MigrationManager applies embedded per-module SQL migrations.
type MigrationManager interface {
	RegisterSchema(name string, fs *embed.FS, dir string)
	Run(ctx context.Context) error
}
