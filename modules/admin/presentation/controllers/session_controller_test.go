package controllers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gramseva/portal/modules/admin/infrastructure/persistence"
	"github.com/gramseva/portal/modules/admin/presentation/controllers"
	"github.com/gramseva/portal/modules/admin/services"
	"github.com/gramseva/portal/pkg/application"
	"github.com/gramseva/portal/pkg/eventbus"
	"github.com/gramseva/portal/pkg/middleware"
)

func newRouter(t *testing.T, loginRate string) *mux.Router {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)

	log := logrus.New()
	log.SetOutput(io.Discard)
	app := application.New(&application.ApplicationOptions{EventBus: eventbus.NewEventPublisher(log), Logger: log})
	sessions := services.NewSessionService(services.SessionServiceConfig{
		Store:        persistence.NewCacheStore(time.Minute),
		PasscodeHash: string(hash),
		TTL:          time.Hour,
		Publisher:    app.EventPublisher(),
	})
	app.RegisterServices(sessions)

	r := mux.NewRouter()
	r.Use(middleware.ProvideAdminSession(sessions, "sid"))
	controllers.NewSessionController(controllers.SessionControllerConfig{App: app, LoginRate: loginRate}).Register(r)
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestSessionController_LoginFlow(t *testing.T) {
	r := newRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/admin/api/session", nil)
	rec := serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/admin/api/session", strings.NewReader(`{"passcode":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "ADMIN_INVALID_PASSCODE")
	assert.Contains(t, rec.Body.String(), "Unauthorized: invalid admin passcode")

	req = httptest.NewRequest(http.MethodPost, "/admin/api/session", strings.NewReader("passcode=open-sesame"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = serve(r, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req = httptest.NewRequest(http.MethodGet, "/admin/api/session", nil)
	req.AddCookie(cookies[0])
	rec = serve(r, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), body.Token)

	req = httptest.NewRequest(http.MethodDelete, "/admin/api/session", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	rec = serve(r, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/api/session", nil)
	req.AddCookie(cookies[0])
	rec = serve(r, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSessionController_LoginRateLimited(t *testing.T) {
	r := newRouter(t, "2-M")
	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/admin/api/session", strings.NewReader(`{"passcode":"guess"}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "10.1.1.1:5555"
		codes = append(codes, serve(r, req).Code)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}
