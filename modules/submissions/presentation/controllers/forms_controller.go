package controllers

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ulule/limiter/v3"

	"github.com/gramseva/portal/modules/submissions/domain/aggregates/submission"
	"github.com/gramseva/portal/modules/submissions/presentation/mappers"
	"github.com/gramseva/portal/modules/submissions/services"
	"github.com/gramseva/portal/pkg/application"
	"github.com/gramseva/portal/pkg/composables"
	"github.com/gramseva/portal/pkg/configuration"
	"github.com/gramseva/portal/pkg/httpapi"
	"github.com/gramseva/portal/pkg/middleware"
)

const (
	errPrefix   = "SUBMISSIONS"
	maxFormBody = 64 << 10
)

type FormsControllerConfig struct {
	App application.Application
	// Rate limits public submissions per client, e.g. "20-H". Empty disables the limit.
	Rate  string
	Store limiter.Store
}

// FormsController accepts the public donation, membership, assistance and contact forms.
type FormsController struct {
	app         application.Application
	submissions *services.SubmissionService
	rate        string
	store       limiter.Store
	basePath    string
}

func NewFormsController(cfg FormsControllerConfig) application.Controller {
	return &FormsController{
		app:         cfg.App,
		submissions: cfg.App.Service(services.SubmissionService{}).(*services.SubmissionService),
		rate:        cfg.Rate,
		store:       cfg.Store,
		basePath:    "/api/forms",
	}
}

func (c *FormsController) Key() string {
	return c.basePath
}

func (c *FormsController) Register(r *mux.Router) {
	router := r.PathPrefix(c.basePath).Subrouter()
	if c.rate != "" {
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Rate:         c.rate,
			Store:        c.store,
			Prefix:       "forms:",
			RealIPHeader: configuration.Use().RealIPHeader,
		}))
	}
	router.HandleFunc("/{kind}", c.Submit).Methods(http.MethodPost)
}

func (c *FormsController) Submit(w http.ResponseWriter, r *http.Request) {
	kind, ok := submission.ParseKind(mux.Vars(r)["kind"])
	if !ok {
		httpapi.WriteAPIError(w, r, http.StatusNotFound, "SUBMISSIONS_UNKNOWN_FORM", "form not found", nil)
		return
	}
	dto, _ := submission.NewDTO(kind)

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBody)
	if !decodeBody(w, r, dto) {
		return
	}
	created, err := c.submissions.Submit(r.Context(), dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, mappers.ReceiptToAPI(created))
}

// decodeBody accepts JSON or urlencoded form bodies.
func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if mediaType == "application/x-www-form-urlencoded" {
		_, err = composables.UseForm(out, r)
	} else {
		err = json.NewDecoder(r.Body).Decode(out)
	}
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httpapi.WriteAPIError(w, r, http.StatusRequestEntityTooLarge, "SUBMISSIONS_BODY_TOO_LARGE", "request body is too large", nil)
		return false
	}
	httpapi.WriteAPIError(w, r, http.StatusBadRequest, "SUBMISSIONS_INVALID_REQUEST", "request body is invalid", nil)
	return false
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := httpapi.WriteJSON(w, status, payload); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("failed to write response")
	}
}
