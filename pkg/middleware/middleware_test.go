package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramseva/portal/pkg/composables"
	"github.com/gramseva/portal/pkg/configuration"
	"github.com/gramseva/portal/pkg/constants"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestRateLimit_RejectsAfterQuota(t *testing.T) {
	h := RateLimit(RateLimitConfig{Rate: "2-M", Prefix: "forms:"})(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/forms/contact", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodPost, "/api/forms/contact", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOpsGuard(t *testing.T) {
	conf := &configuration.Configuration{
		GoAppEnvironment: configuration.Production,
		OpsGuardEnabled:  true,
		OpsGuardToken:    "secret",
		OpsGuardCIDRs:    "192.168.0.0/16",
	}
	h := OpsGuard(conf, "/debug/", "/health")(okHandler())

	cases := []struct {
		name   string
		path   string
		remote string
		token  string
		want   int
	}{
		{"non ops path", "/geo/api/districts", "8.8.8.8:1", "", http.StatusOK},
		{"ops without credentials", "/debug/prometheus", "8.8.8.8:1", "", http.StatusNotFound},
		{"ops with token", "/debug/prometheus", "8.8.8.8:1", "secret", http.StatusOK},
		{"ops from allowed cidr", "/debug/prometheus", "192.168.1.5:1", "", http.StatusOK},
		{"ops exact prefix", "/health", "8.8.8.8:1", "", http.StatusNotFound},
		{"ops subpath", "/health/live", "8.8.8.8:1", "", http.StatusNotFound},
		{"prefix without boundary", "/healthcheck-public", "8.8.8.8:1", "", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			req.RemoteAddr = tc.remote
			if tc.token != "" {
				req.Header.Set("X-Ops-Token", tc.token)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestWithLogger_RecoversPanicAsJSON(t *testing.T) {
	h := WithLogger(quietLogger(), DefaultLoggerOptions())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodGet, "/geo/api/districts", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body["code"])
	assert.Equal(t, "req-42", rec.Header().Get("X-Request-Id"))
}

func TestWithLogger_ProvidesRequestLogger(t *testing.T) {
	var got *logrus.Entry
	h := WithLogger(quietLogger(), DefaultLoggerOptions())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = composables.UseLogger(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "abc", got.Data["request-id"])
}

func TestProvide(t *testing.T) {
	r := mux.NewRouter()
	r.Use(Provide(constants.AppKey, "app-value"))
	var got any
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		got = r.Context().Value(constants.AppKey)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "app-value", got)
}

func TestWithTransaction_PassesThroughWithoutPool(t *testing.T) {
	called := false
	h := WithTransaction()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
	assert.True(t, called)
}
