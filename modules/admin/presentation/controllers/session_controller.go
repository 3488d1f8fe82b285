package controllers

import (
	"encoding/json"
	"mime"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/ulule/limiter/v3"

	"github.com/gramseva/portal/modules/admin/domain/session"
	"github.com/gramseva/portal/modules/admin/services"
	"github.com/gramseva/portal/pkg/application"
	"github.com/gramseva/portal/pkg/composables"
	"github.com/gramseva/portal/pkg/configuration"
	"github.com/gramseva/portal/pkg/httpapi"
	"github.com/gramseva/portal/pkg/middleware"
)

const errPrefix = "ADMIN"

type SessionControllerConfig struct {
	App application.Application
	// LoginRate limits login attempts per client, e.g. "5-M". Empty disables the limit.
	LoginRate string
	Store     limiter.Store
}

type SessionController struct {
	app       application.Application
	sessions  *services.SessionService
	loginRate string
	store     limiter.Store
	basePath  string
}

func NewSessionController(cfg SessionControllerConfig) application.Controller {
	return &SessionController{
		app:       cfg.App,
		sessions:  cfg.App.Service(services.SessionService{}).(*services.SessionService),
		loginRate: cfg.LoginRate,
		store:     cfg.Store,
		basePath:  "/admin/api/session",
	}
}

func (c *SessionController) Key() string {
	return c.basePath
}

func (c *SessionController) Register(r *mux.Router) {
	login := r.Path(c.basePath).Methods(http.MethodPost).Subrouter()
	if c.loginRate != "" {
		login.Use(middleware.RateLimit(middleware.RateLimitConfig{
			Rate:         c.loginRate,
			Store:        c.store,
			Prefix:       "admin-login:",
			RealIPHeader: configuration.Use().RealIPHeader,
		}))
	}
	login.NewRoute().HandlerFunc(c.Login)

	router := r.Path(c.basePath).Subrouter()
	router.Use(middleware.RequireAdmin())
	router.Methods(http.MethodGet).HandlerFunc(c.Current)
	router.Methods(http.MethodDelete).HandlerFunc(c.Logout)
}

type loginRequest struct {
	Passcode string `json:"passcode" form:"passcode"`
}

type sessionResponse struct {
	Token     string `json:"token,omitempty"`
	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at"`
}

func toResponse(s session.Session, withToken bool) sessionResponse {
	out := sessionResponse{
		CreatedAt: s.CreatedAt().UTC().Format(time.RFC3339),
		ExpiresAt: s.ExpiresAt().UTC().Format(time.RFC3339),
	}
	if withToken {
		out.Token = s.Token()
	}
	return out
}

func (c *SessionController) cookie(value string, expires time.Time) *http.Cookie {
	conf := configuration.Use()
	return &http.Cookie{
		Name:     conf.SidCookieKey,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   conf.GoAppEnvironment == configuration.Production,
		SameSite: http.SameSiteLaxMode,
	}
}

func (c *SessionController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if mediaType == "application/x-www-form-urlencoded" {
		_, err = composables.UseForm(&req, r)
	} else {
		err = json.NewDecoder(r.Body).Decode(&req)
	}
	if err != nil {
		httpapi.WriteAPIError(w, r, http.StatusBadRequest, "ADMIN_INVALID_REQUEST", "request body is invalid", nil)
		return
	}

	sess, err := c.sessions.Login(r.Context(), req.Passcode)
	if err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return
	}
	http.SetCookie(w, c.cookie(sess.Token(), sess.ExpiresAt()))
	if err := httpapi.WriteJSON(w, http.StatusCreated, toResponse(sess, true)); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("failed to write response")
	}
}

func (c *SessionController) Current(w http.ResponseWriter, r *http.Request) {
	current, err := composables.UseAdminSession(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, services.ErrSessionRequired)
		return
	}
	sess, err := c.sessions.Get(r.Context(), current.Token())
	if err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return
	}
	if err := httpapi.WriteJSON(w, http.StatusOK, toResponse(sess, false)); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("failed to write response")
	}
}

func (c *SessionController) Logout(w http.ResponseWriter, r *http.Request) {
	current, err := composables.UseAdminSession(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, services.ErrSessionRequired)
		return
	}
	if err := c.sessions.Logout(r.Context(), current.Token()); err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return
	}
	http.SetCookie(w, c.cookie("", time.Unix(0, 0)))
	w.WriteHeader(http.StatusNoContent)
}
