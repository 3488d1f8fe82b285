package application

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/sirupsen/logrus"
)

var ErrNoPool = errors.New("migrations: database pool is not configured")

type schema struct {
	name string
	fsys fs.FS
}

type migrationManager struct {
	pool    *pgxpool.Pool
	log     *logrus.Logger
	schemas []schema
}

func NewMigrationManager(pool *pgxpool.Pool, log *logrus.Logger) MigrationManager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &migrationManager{pool: pool, log: log}
}

// RegisterSchema adds a module's goose migrations found under dir in fsys.
// Each module keeps its own version table (goose_<name>_version).
func (m *migrationManager) RegisterSchema(name string, fsys *embed.FS, dir string) {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(fmt.Sprintf("migrations: %s: %v", name, err))
	}
	m.schemas = append(m.schemas, schema{name: name, fsys: sub})
}

func (m *migrationManager) Run(ctx context.Context) error {
	if len(m.schemas) == 0 {
		return nil
	}
	if m.pool == nil {
		return ErrNoPool
	}
	db := stdlib.OpenDBFromPool(m.pool)
	defer db.Close()

	for _, s := range m.schemas {
		provider, err := goose.NewProvider(
			goose.DialectPostgres,
			db,
			s.fsys,
			goose.WithTableName(fmt.Sprintf("goose_%s_version", s.name)),
		)
		if err != nil {
			return fmt.Errorf("migrations: %s: %w", s.name, err)
		}
		results, err := provider.Up(ctx)
		if err != nil {
			return fmt.Errorf("migrations: %s: %w", s.name, err)
		}
		for _, r := range results {
			m.log.WithFields(logrus.Fields{
				"module":   s.name,
				"source":   r.Source.Path,
				"duration": r.Duration,
			}).Info("migration applied")
		}
	}
	return nil
}
