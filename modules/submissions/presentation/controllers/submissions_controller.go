package controllers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/gramseva/portal/modules/submissions/presentation/mappers"
	"github.com/gramseva/portal/modules/submissions/services"
	"github.com/gramseva/portal/pkg/application"
	"github.com/gramseva/portal/pkg/configuration"
	"github.com/gramseva/portal/pkg/httpapi"
	"github.com/gramseva/portal/pkg/middleware"
)

type SubmissionsController struct {
	app         application.Application
	submissions *services.SubmissionService
	basePath    string
	pageSize    int
	maxPageSize int
}

func NewSubmissionsController(app application.Application) application.Controller {
	conf := configuration.Use()
	return &SubmissionsController{
		app:         app,
		submissions: app.Service(services.SubmissionService{}).(*services.SubmissionService),
		basePath:    "/admin/api/submissions",
		pageSize:    conf.PageSize,
		maxPageSize: conf.MaxPageSize,
	}
}

func (c *SubmissionsController) Key() string {
	return c.basePath
}

func (c *SubmissionsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	router.Use(
		middleware.RequireAdmin(),
		middleware.WithTransaction(),
	)
	router.HandleFunc("", c.List).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}", c.Get).Methods(http.MethodGet)
	router.HandleFunc("/{id:[0-9]+}:review", c.Review).Methods(http.MethodPost)
}

func (c *SubmissionsController) List(w http.ResponseWriter, r *http.Request) {
	params, err := services.ParseFindParams(r.URL.Query(), c.pageSize, c.maxPageSize)
	if err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return
	}
	items, total, err := c.submissions.List(r.Context(), params)
	if err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.PageToAPI(items, total, params))
}

func (c *SubmissionsController) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := c.submissions.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.SubmissionToAPI(item))
}

func (c *SubmissionsController) Review(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := c.submissions.MarkReviewed(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.SubmissionToAPI(item))
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		httpapi.WriteAPIError(w, r, http.StatusBadRequest, "SUBMISSIONS_INVALID_ID", "id is invalid", nil)
		return 0, false
	}
	return id, true
}
