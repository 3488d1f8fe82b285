package modules

import (
	"github.com/ulule/limiter/v3"

	"github.com/gramseva/portal/modules/admin"
	"github.com/gramseva/portal/modules/geo"
	"github.com/gramseva/portal/modules/submissions"
	"github.com/gramseva/portal/pkg/application"
	"github.com/gramseva/portal/pkg/configuration"
)

// BuiltIn returns the portal modules in registration order. Geo must
// precede submissions. store backs the login and form rate limits.
func BuiltIn(conf *configuration.Configuration, store limiter.Store) []application.Module {
	adminOpts := &admin.ModuleOptions{
		PasscodeHash:    conf.Admin.PasscodeHash,
		SessionDuration: conf.Admin.SessionDuration,
		CookieName:      conf.SidCookieKey,
		RateLimitStore:  store,
	}
	submissionOpts := &submissions.ModuleOptions{
		Storage:        conf.SubmissionsStorage,
		DSN:            conf.Database.Opts,
		RateLimitStore: store,
	}
	if conf.RateLimit.Enabled {
		adminOpts.LoginRate = admin.DefaultLoginRate
		submissionOpts.FormsRate = conf.RateLimit.FormsRate
	}
	return []application.Module{
		admin.NewModule(adminOpts),
		geo.NewModule(nil),
		submissions.NewModule(submissionOpts),
	}
}

func Load(app application.Application, externalModules ...application.Module) error {
	return application.LoadModules(app, externalModules...)
}
