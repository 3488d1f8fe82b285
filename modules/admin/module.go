package admin

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"

	"github.com/gramseva/portal/modules/admin/domain/session"
	"github.com/gramseva/portal/modules/admin/infrastructure/persistence"
	"github.com/gramseva/portal/modules/admin/presentation/controllers"
	"github.com/gramseva/portal/modules/admin/services"
	"github.com/gramseva/portal/pkg/application"
	"github.com/gramseva/portal/pkg/configuration"
	"github.com/gramseva/portal/pkg/middleware"
)

const DefaultLoginRate = "10-M"

type ModuleOptions struct {
	PasscodeHash    string
	SessionDuration time.Duration
	CookieName      string
	LoginRate       string
	RateLimitStore  limiter.Store
}

func NewModule(opts *ModuleOptions) application.Module {
	if opts == nil {
		conf := configuration.Use()
		opts = &ModuleOptions{
			PasscodeHash:    conf.Admin.PasscodeHash,
			SessionDuration: conf.Admin.SessionDuration,
			CookieName:      conf.SidCookieKey,
		}
		if conf.RateLimit.Enabled {
			opts.LoginRate = DefaultLoginRate
		}
	}
	return &Module{options: opts}
}

type Module struct {
	options *ModuleOptions
}

func (m *Module) Register(app application.Application) error {
	sessions := services.NewSessionService(services.SessionServiceConfig{
		Store:        persistence.NewCacheStore(10 * time.Minute),
		PasscodeHash: m.options.PasscodeHash,
		TTL:          m.options.SessionDuration,
		Publisher:    app.EventPublisher(),
	})
	app.RegisterServices(sessions)
	app.RegisterMiddleware(middleware.ProvideAdminSession(sessions, m.options.CookieName))

	app.EventPublisher().Subscribe(func(e *session.CreatedEvent) {
		logrus.WithFields(logrus.Fields{
			"ip":         e.Result.IP(),
			"expires_at": e.Result.ExpiresAt(),
		}).Info("admin session opened")
	})

	app.RegisterControllers(
		controllers.NewSessionController(controllers.SessionControllerConfig{
			App:       app,
			LoginRate: m.options.LoginRate,
			Store:     m.options.RateLimitStore,
		}),
	)
	return nil
}

func (m *Module) Name() string {
	return "admin"
}
