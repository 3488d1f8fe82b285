package controllers_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gramseva/portal/modules/geo/domain/aggregates/district"
	"github.com/gramseva/portal/modules/geo/domain/entities/village"
	geopersistence "github.com/gramseva/portal/modules/geo/infrastructure/persistence"
	geoservices "github.com/gramseva/portal/modules/geo/services"
	"github.com/gramseva/portal/modules/submissions/infrastructure/persistence"
	"github.com/gramseva/portal/modules/submissions/presentation/controllers"
	"github.com/gramseva/portal/modules/submissions/presentation/mappers"
	"github.com/gramseva/portal/modules/submissions/services"
	"github.com/gramseva/portal/pkg/application"
	"github.com/gramseva/portal/pkg/composables"
	"github.com/gramseva/portal/pkg/eventbus"
	"github.com/gramseva/portal/pkg/middleware"
)

const adminToken = "admin-token"

type testSession struct{}

func (testSession) Token() string { return adminToken }

type tokenLookup struct{}

func (tokenLookup) Lookup(_ context.Context, token string) (composables.AdminSession, error) {
	if token != adminToken {
		return nil, errors.New("unknown session")
	}
	return testSession{}, nil
}

type env struct {
	router   *mux.Router
	district district.District
	village  village.Village
}

func newEnv(t *testing.T, rate string) *env {
	t.Helper()
	ctx := context.Background()
	log := logrus.New()
	log.SetOutput(io.Discard)
	bus := eventbus.NewEventPublisher(log)
	app := application.New(&application.ApplicationOptions{EventBus: bus, Logger: log})

	store := geopersistence.NewInmemStore()
	districts := geopersistence.NewInmemDistrictRepository(store)
	villages := geopersistence.NewInmemVillageRepository(store)
	d, err := districts.Create(ctx, district.New("Satara"))
	require.NoError(t, err)
	v, err := villages.Create(ctx, village.New(d.ID(), "Wai"))
	require.NoError(t, err)

	geo := geoservices.NewDistrictService(districts, villages, bus, 0)
	app.RegisterServices(services.NewSubmissionService(persistence.NewInmemSubmissionRepository(), geo, bus))

	r := mux.NewRouter()
	r.Use(middleware.ProvideAdminSession(tokenLookup{}, "sid"))
	controllers.NewFormsController(controllers.FormsControllerConfig{App: app, Rate: rate}).Register(r)
	controllers.NewSubmissionsController(app).Register(r)
	return &env{router: r, district: d, village: v}
}

func (e *env) do(method, path, contentType, body string, admin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if admin {
		req.Header.Set("Authorization", "Bearer "+adminToken)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestFormsController_Submit(t *testing.T) {
	e := newEnv(t, "")

	rec := e.do(http.MethodPost, "/api/forms/donation", "application/json", `{"name":"Asha","email":"asha@example.org","amount":"1500"}`, false)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var receipt mappers.Receipt
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &receipt))
	assert.Equal(t, "donation", receipt.Kind)
	assert.NotZero(t, receipt.ID)

	form := "name=Meena&phone=9876543210&district_id=" + strconv.FormatInt(e.district.ID(), 10) +
		"&village_id=" + strconv.FormatInt(e.village.ID(), 10) + "&message=books"
	rec = e.do(http.MethodPost, "/api/forms/assistance", "application/x-www-form-urlencoded", form, false)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(http.MethodPost, "/api/forms/donation", "application/json", `{"name":"Asha","email":"asha@example.org","amount":0}`, false)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "SUBMISSIONS_INVALID_FORM")

	rec = e.do(http.MethodPost, "/api/forms/membership", "application/json", `{"name":"Arun","phone":"9876543210","district_id":999}`, false)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "SUBMISSIONS_INVALID_LOCATION")

	rec = e.do(http.MethodPost, "/api/forms/volunteer", "application/json", `{}`, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.do(http.MethodPost, "/api/forms/contact", "application/json", `{not json`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFormsController_RateLimit(t *testing.T) {
	e := newEnv(t, "2-M")
	body := `{"name":"Ravi","email":"ravi@example.org","message":"hello"}`

	var codes []int
	for i := 0; i < 3; i++ {
		codes = append(codes, e.do(http.MethodPost, "/api/forms/contact", "application/json", body, false).Code)
	}
	assert.Equal(t, []int{http.StatusCreated, http.StatusCreated, http.StatusTooManyRequests}, codes)
}

func TestSubmissionsController_AdminFlow(t *testing.T) {
	e := newEnv(t, "")
	for _, name := range []string{"Ravi", "Kiran"} {
		rec := e.do(http.MethodPost, "/api/forms/contact", "application/json",
			`{"name":"`+name+`","email":"x@example.org","message":"hello"}`, false)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := e.do(http.MethodGet, "/admin/api/submissions", "", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(http.MethodGet, "/admin/api/submissions?kind=contact&per_page=1", "", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var page mappers.Page
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 1)
	assert.True(t, page.HasMore)
	id := strconv.FormatInt(page.Items[0].ID, 10)

	rec = e.do(http.MethodGet, "/admin/api/submissions/"+id, "", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(http.MethodPost, "/admin/api/submissions/"+id+":review", "", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	var reviewed mappers.Submission
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviewed))
	assert.Equal(t, "reviewed", reviewed.Status)

	rec = e.do(http.MethodPost, "/admin/api/submissions/"+id+":review", "", "", true)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = e.do(http.MethodGet, "/admin/api/submissions/9999", "", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = e.do(http.MethodGet, "/admin/api/submissions?status=lost", "", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
