package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/gramseva/portal/pkg/application"
	"github.com/gramseva/portal/pkg/configuration"
	"github.com/gramseva/portal/pkg/constants"
	"github.com/gramseva/portal/pkg/httpapi"
	"github.com/gramseva/portal/pkg/middleware"
	"github.com/gramseva/portal/pkg/routing"
	"github.com/gramseva/portal/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	// Pool is nil when every module runs on in-memory storage.
	Pool *pgxpool.Pool
	// Routes classifies paths for the ops guard and JSON panic bodies.
	// Defaults to the embedded allowlist.
	Routes *routing.Classifier
}

// Default builds the HTTP server. Core middleware runs ahead of the
// middleware modules registered, so module middleware sees the request
// logger and the pool.
func Default(options *DefaultOptions) *server.HTTPServer {
	conf := options.Configuration
	routes := options.Routes
	if routes == nil {
		routes = routing.NewClassifier(routing.MustDefault())
	}
	loggerOpts := middleware.LoggerOptions{
		APIPrefixes: routes.Prefixes(routing.RouteClassPublicAPI, routing.RouteClassAdminAPI),
	}
	opsPrefixes := routes.Prefixes(routing.RouteClassOps)
	if conf.Prometheus.Path != "" {
		opsPrefixes = append(opsPrefixes, conf.Prometheus.Path)
	}

	core := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger, loggerOpts),
		middleware.TracedMiddleware("provide"),
		middleware.Provide(constants.AppKey, options.Application),
	}
	if options.Pool != nil {
		core = append(core, middleware.Provide(constants.PoolKey, options.Pool))
	}
	core = append(core,
		middleware.TracedMiddleware("cors"),
		middleware.Cors(conf.AllowedOrigins()...),
		middleware.OpsGuard(conf, opsPrefixes...),
		middleware.RequestParams(),
	)

	s := server.NewHTTPServer(options.Application, http.HandlerFunc(notFound), http.HandlerFunc(methodNotAllowed))
	s.Middlewares = append(core, s.Middlewares...)
	return s
}

func notFound(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteAPIError(w, r, http.StatusNotFound, "NOT_FOUND", "not found", map[string]string{"path": r.URL.Path})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	httpapi.WriteAPIError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", map[string]string{
		"path":   r.URL.Path,
		"method": r.Method,
	})
}
