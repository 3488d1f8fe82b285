package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/gramseva/portal/modules/geo/domain/aggregates/district"
	"github.com/gramseva/portal/modules/geo/domain/bulkimport"
	"github.com/gramseva/portal/modules/geo/domain/entities/village"
	"github.com/gramseva/portal/modules/geo/presentation/mappers"
	"github.com/gramseva/portal/modules/geo/services"
	"github.com/gramseva/portal/pkg/application"
	"github.com/gramseva/portal/pkg/composables"
	"github.com/gramseva/portal/pkg/configuration"
	"github.com/gramseva/portal/pkg/httpapi"
	"github.com/gramseva/portal/pkg/middleware"
	"github.com/gramseva/portal/pkg/spreadsheet"
)

const (
	errPrefix     = "GEO"
	xlsxMediaType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type GeoAPIController struct {
	app           application.Application
	districts     *services.DistrictService
	imports       *services.ImportService
	apiPrefix     string
	maxUploadSize int64
}

func NewGeoAPIController(app application.Application) application.Controller {
	return &GeoAPIController{
		app:           app,
		districts:     app.Service(services.DistrictService{}).(*services.DistrictService),
		imports:       app.Service(services.ImportService{}).(*services.ImportService),
		apiPrefix:     "/geo/api",
		maxUploadSize: configuration.Use().Import.MaxUploadSize,
	}
}

func (c *GeoAPIController) Key() string {
	return c.apiPrefix
}

func (c *GeoAPIController) Register(r *mux.Router) {
	public := r.PathPrefix(c.apiPrefix).Subrouter()
	public.HandleFunc("/districts", c.ListDistricts).Methods(http.MethodGet)
	public.HandleFunc("/districts/{id:[0-9]+}", c.GetDistrict).Methods(http.MethodGet)
	public.HandleFunc("/districts/{id:[0-9]+}/villages", c.ListVillages).Methods(http.MethodGet)

	admin := r.PathPrefix(c.apiPrefix).Subrouter()
	admin.Use(
		middleware.RequireAdmin(),
		middleware.WithTransaction(),
	)
	admin.HandleFunc("/districts", c.CreateDistrict).Methods(http.MethodPost)
	admin.HandleFunc("/districts/{id:[0-9]+}", c.RenameDistrict).Methods(http.MethodPatch)
	admin.HandleFunc("/districts/{id:[0-9]+}", c.DeleteDistrict).Methods(http.MethodDelete)
	admin.HandleFunc("/districts/{id:[0-9]+}/villages", c.CreateVillage).Methods(http.MethodPost)
	admin.HandleFunc("/villages/{id:[0-9]+}", c.DeleteVillage).Methods(http.MethodDelete)

	// Import writes row by row outside a request transaction.
	bulk := r.PathPrefix(c.apiPrefix).Subrouter()
	bulk.Use(middleware.RequireAdmin())
	bulk.HandleFunc("/import", c.Import).Methods(http.MethodPost)
	bulk.HandleFunc("/import:plan", c.Plan).Methods(http.MethodPost)
	bulk.HandleFunc("/import/progress", c.Progress).Methods(http.MethodGet)
	bulk.HandleFunc("/export", c.Export).Methods(http.MethodGet)
}

func (c *GeoAPIController) ListDistricts(w http.ResponseWriter, r *http.Request) {
	all, err := c.districts.List(r.Context())
	if err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.DistrictsToAPI(all))
}

func (c *GeoAPIController) GetDistrict(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := c.districts.GetByID(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.DistrictToAPI(d))
}

func (c *GeoAPIController) ListVillages(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	villages, err := c.districts.ListVillages(r.Context(), id)
	if err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.VillagesToAPI(villages))
}

func (c *GeoAPIController) CreateDistrict(w http.ResponseWriter, r *http.Request) {
	var dto district.CreateDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	created, err := c.districts.Create(r.Context(), &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, mappers.DistrictToAPI(created))
}

func (c *GeoAPIController) RenameDistrict(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var dto district.UpdateDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	updated, err := c.districts.Rename(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return
	}
	writeJSON(w, r, http.StatusOK, mappers.DistrictToAPI(updated))
}

func (c *GeoAPIController) DeleteDistrict(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := c.districts.Delete(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *GeoAPIController) CreateVillage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var dto village.CreateDTO
	if !decodeBody(w, r, &dto) {
		return
	}
	created, err := c.districts.CreateVillage(r.Context(), id, &dto)
	if err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, mappers.VillageToAPI(created))
}

func (c *GeoAPIController) DeleteVillage(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if _, err := c.districts.DeleteVillage(r.Context(), id); err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type importRequest struct {
	CSV        string `json:"csv"`
	SkipHeader bool   `json:"skip_header"`
}

// readImportInput accepts a JSON body with pasted CSV text or a multipart
// upload carrying a CSV or XLSX file.
func (c *GeoAPIController) readImportInput(w http.ResponseWriter, r *http.Request) (services.ImportInput, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadSize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		return c.readUpload(w, r)
	}

	var req importRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBodyError(w, r, err)
		return services.ImportInput{}, false
	}
	grid, err := bulkimport.ReadCSV(strings.NewReader(req.CSV))
	if err != nil {
		httpapi.WriteAPIError(w, r, http.StatusBadRequest, "GEO_INVALID_CSV", "CSV text could not be parsed", nil)
		return services.ImportInput{}, false
	}
	return services.ImportInput{Grid: grid, SkipHeader: req.SkipHeader, Source: "api"}, true
}

func (c *GeoAPIController) readUpload(w http.ResponseWriter, r *http.Request) (services.ImportInput, bool) {
	if err := r.ParseMultipartForm(c.maxUploadSize); err != nil {
		writeBodyError(w, r, err)
		return services.ImportInput{}, false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		httpapi.WriteAPIError(w, r, http.StatusBadRequest, "GEO_INVALID_REQUEST", "file is required", nil)
		return services.ImportInput{}, false
	}
	defer func() { _ = file.Close() }()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		writeBodyError(w, r, err)
		return services.ImportInput{}, false
	}
	grid, err := c.imports.ReadUpload(header.Filename, buf.Bytes())
	if err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return services.ImportInput{}, false
	}
	skip, _ := strconv.ParseBool(r.FormValue("skip_header"))
	return services.ImportInput{Grid: grid, SkipHeader: skip, Source: "upload:" + header.Filename}, true
}

func (c *GeoAPIController) Import(w http.ResponseWriter, r *http.Request) {
	in, ok := c.readImportInput(w, r)
	if !ok {
		return
	}
	result, err := c.imports.Import(r.Context(), in)
	if err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return
	}
	composables.UseLogger(r.Context()).WithField("success", result.Success).Info("geo import request finished")
	writeJSON(w, r, http.StatusOK, mappers.ImportResultToAPI(result))
}

func (c *GeoAPIController) Plan(w http.ResponseWriter, r *http.Request) {
	in, ok := c.readImportInput(w, r)
	if !ok {
		return
	}
	plan, err := c.imports.Plan(r.Context(), in)
	if err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return
	}
	writeJSON(w, r, http.StatusOK, plan)
}

func (c *GeoAPIController) Progress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, c.imports.Progress())
}

func (c *GeoAPIController) Export(w http.ResponseWriter, r *http.Request) {
	format := spreadsheet.FormatCSV
	if strings.EqualFold(r.URL.Query().Get("format"), string(spreadsheet.FormatXLSX)) {
		format = spreadsheet.FormatXLSX
	}

	var buf bytes.Buffer
	if err := c.imports.Export(r.Context(), &buf, format); err != nil {
		httpapi.WriteServiceError(w, r, errPrefix, err)
		return
	}

	filename := bulkimport.ExportFilename
	contentType := "text/csv; charset=utf-8"
	if format == spreadsheet.FormatXLSX {
		filename = strings.TrimSuffix(filename, ".csv") + ".xlsx"
		contentType = xlsxMediaType
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("failed to write export")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		httpapi.WriteAPIError(w, r, http.StatusBadRequest, "GEO_INVALID_ID", "id is invalid", nil)
		return 0, false
	}
	return id, true
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
	if err != nil {
		writeBodyError(w, r, err)
		return false
	}
	return true
}

func writeBodyError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		httpapi.WriteAPIError(w, r, http.StatusRequestEntityTooLarge, "GEO_UPLOAD_TOO_LARGE", "upload exceeds the size limit", nil)
		return
	}
	httpapi.WriteAPIError(w, r, http.StatusBadRequest, "GEO_INVALID_REQUEST", "request body is invalid", nil)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	if err := httpapi.WriteJSON(w, status, payload); err != nil {
		composables.UseLogger(r.Context()).WithError(err).Warn("failed to write response")
	}
}
