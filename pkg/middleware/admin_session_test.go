package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramseva/portal/pkg/composables"
)

type tokenSession string

func (s tokenSession) Token() string { return string(s) }

type staticLookup map[string]bool

func (l staticLookup) Lookup(_ context.Context, token string) (composables.AdminSession, error) {
	if !l[token] {
		return nil, errors.New("unknown token")
	}
	return tokenSession(token), nil
}

func TestSessionToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, SessionToken(req, "sid"))

	req.Header.Set("Authorization", "Bearer abc")
	assert.Equal(t, "abc", SessionToken(req, "sid"))

	req.AddCookie(&http.Cookie{Name: "sid", Value: "cookie"})
	assert.Equal(t, "cookie", SessionToken(req, "sid"), "cookie wins over header")
}

func TestRequireAdmin(t *testing.T) {
	lookup := staticLookup{"good": true}
	var seen string
	h := ProvideAdminSession(lookup, "sid")(RequireAdmin()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := composables.UseAdminSession(r.Context())
		require.NoError(t, err)
		seen = sess.Token()
		w.WriteHeader(http.StatusNoContent)
	})))

	for _, tc := range []struct {
		name   string
		header string
		status int
	}{
		{name: "no token", status: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer bad", status: http.StatusUnauthorized},
		{name: "valid token", header: "Bearer good", status: http.StatusNoContent},
	} {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/geo/api/import", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), "ADMIN_UNAUTHORIZED")
				assert.Contains(t, rec.Body.String(), "Unauthorized")
			}
		})
	}
	assert.Equal(t, "good", seen)
}
