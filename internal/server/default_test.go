package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramseva/portal/modules/admin"
	"github.com/gramseva/portal/modules/geo"
	"github.com/gramseva/portal/modules/submissions"
	"github.com/gramseva/portal/pkg/application"
	"github.com/gramseva/portal/pkg/configuration"
	"github.com/gramseva/portal/pkg/eventbus"
	"github.com/gramseva/portal/pkg/metrics"
)

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	app := application.New(&application.ApplicationOptions{EventBus: eventbus.NewEventPublisher(log), Logger: log})
	require.NoError(t, application.LoadModules(app,
		admin.NewModule(&admin.ModuleOptions{SessionDuration: time.Hour, CookieName: "sid"}),
		geo.NewModule(&geo.ModuleOptions{Storage: geo.StorageMemory, MaxRows: 100}),
		submissions.NewModule(&submissions.ModuleOptions{Storage: submissions.StorageMemory}),
	))
	app.RegisterControllers(metrics.NewHealthController())

	conf := &configuration.Configuration{CorsAllowedOrigins: "http://localhost:3000"}
	s := Default(&DefaultOptions{Logger: log, Configuration: conf, Application: app})
	return s.Router()
}

func TestDefault_Routes(t *testing.T) {
	h := newTestServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/geo/api/districts", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/api/submissions", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
