package services

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gramseva/portal/modules/geo/domain/aggregates/district"
	"github.com/gramseva/portal/modules/geo/domain/entities/village"
	"github.com/gramseva/portal/pkg/serrors"
)

var (
	ErrImportInProgress = serrors.Conflict("GEO_IMPORT_IN_PROGRESS", "Another import is already running", nil)
)

func tooManyRows(limit int) *serrors.ServiceError {
	return serrors.NewServiceError(
		http.StatusRequestEntityTooLarge,
		"GEO_TOO_MANY_ROWS",
		"Import exceeds the maximum number of rows",
		nil,
	).WithMeta("max_rows", strconv.Itoa(limit))
}

func unsupportedUpload(cause error) *serrors.ServiceError {
	return serrors.NewServiceError(
		http.StatusUnsupportedMediaType,
		"GEO_UNSUPPORTED_FORMAT",
		"Unsupported file format: upload a CSV or XLSX file",
		cause,
	)
}

func unreadableUpload(cause error) *serrors.ServiceError {
	return serrors.NewServiceError(http.StatusBadRequest, "GEO_UNREADABLE_UPLOAD", "Could not read the uploaded file", cause)
}

// mapRepoError converts repository sentinels into service errors.
func mapRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, district.ErrNotFound), errors.Is(err, village.ErrDistrictNotFound):
		return serrors.NotFound("GEO_DISTRICT_NOT_FOUND", "District not found", err)
	case errors.Is(err, village.ErrNotFound):
		return serrors.NotFound("GEO_VILLAGE_NOT_FOUND", "Village not found", err)
	case errors.Is(err, district.ErrEmptyName):
		return serrors.Invalid("GEO_INVALID_DISTRICT", "District name is required", map[string]string{"name": "District name is required"})
	case errors.Is(err, village.ErrEmptyName):
		return serrors.Invalid("GEO_INVALID_VILLAGE", "Village name is required", map[string]string{"name": "Village name is required"})
	}
	return err
}
