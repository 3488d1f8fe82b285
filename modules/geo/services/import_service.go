package services

import (
	"bytes"
	"context"
	"io"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gramseva/portal/modules/geo/domain/aggregates/district"
	"github.com/gramseva/portal/modules/geo/domain/bulkimport"
	"github.com/gramseva/portal/pkg/composables"
	"github.com/gramseva/portal/pkg/eventbus"
	"github.com/gramseva/portal/pkg/spreadsheet"
)

const exportSheet = "Districts"

// ImportInput is one import request. Grid holds the raw cells; rows are
// parsed with SkipHeader applied.
type ImportInput struct {
	Grid       [][]string
	SkipHeader bool
	// Source labels the run in logs and in the completion event (api, upload, cli).
	Source string
}

type ImportServiceConfig struct {
	Directory bulkimport.Directory
	Districts district.Repository
	Publisher eventbus.EventBus
	// MaxRows caps parsed rows per run; zero means unlimited.
	MaxRows int
}

// ImportService serializes bulk imports. At most one run is active per
// process; a second caller gets ErrImportInProgress.
type ImportService struct {
	dir       bulkimport.Directory
	districts district.Repository
	publisher eventbus.EventBus
	maxRows   int

	busy     atomic.Bool
	progress *bulkimport.Progress
}

func NewImportService(config ImportServiceConfig) *ImportService {
	return &ImportService{
		dir:       config.Directory,
		districts: config.Districts,
		publisher: config.Publisher,
		maxRows:   config.MaxRows,
		progress:  bulkimport.NewProgress(),
	}
}

func (s *ImportService) parse(in ImportInput) ([]bulkimport.Row, error) {
	rows := bulkimport.ParseRows(in.Grid, bulkimport.ParseOptions{SkipHeader: in.SkipHeader})
	if s.maxRows > 0 && len(rows) > s.maxRows {
		return nil, tooManyRows(s.maxRows)
	}
	return rows, nil
}

// Import runs the reconciliation to completion even if ctx is cancelled
// mid-run. Per-row failures are reported in the result, not as an error.
func (s *ImportService) Import(ctx context.Context, in ImportInput) (bulkimport.Result, error) {
	if err := authorizeAdmin(ctx); err != nil {
		return bulkimport.Result{}, err
	}
	rows, err := s.parse(in)
	if err != nil {
		return bulkimport.Result{}, err
	}
	if !s.busy.CompareAndSwap(false, true) {
		return bulkimport.Result{}, ErrImportInProgress
	}
	defer s.busy.Store(false)

	ctx = context.WithoutCancel(ctx)
	logger := composables.UseLogger(ctx).WithFields(logrus.Fields{
		"source": in.Source,
		"rows":   len(rows),
	})
	logger.Info("bulk import started")

	start := time.Now()
	result := bulkimport.ImportRows(ctx, s.dir, rows, bulkimport.Options{
		Logger:   logger,
		Progress: s.progress,
	})
	recordImport(result, time.Since(start).Seconds())

	s.publisher.Publish(bulkimport.NewCompletedEvent(result, in.Source))
	return result, nil
}

// Running reports whether an import is in flight.
func (s *ImportService) Running() bool {
	return s.busy.Load()
}

func (s *ImportService) Progress() bulkimport.ProgressSnapshot {
	return s.progress.Snapshot()
}

// Plan resolves the input against current districts without writing.
func (s *ImportService) Plan(ctx context.Context, in ImportInput) (bulkimport.PlanResult, error) {
	if err := authorizeAdmin(ctx); err != nil {
		return bulkimport.PlanResult{}, err
	}
	rows, err := s.parse(in)
	if err != nil {
		return bulkimport.PlanResult{}, err
	}
	return bulkimport.Plan(ctx, s.dir, bulkimport.GroupRows(rows))
}

// ReadUpload turns an uploaded CSV or XLSX file into a grid.
func (s *ImportService) ReadUpload(name string, data []byte) ([][]string, error) {
	format, grid, err := spreadsheet.ReadGrid(name, data)
	if err != nil {
		if format == "" {
			return nil, unsupportedUpload(err)
		}
		return nil, unreadableUpload(err)
	}
	if format == spreadsheet.FormatXLSX {
		return grid, nil
	}
	grid, err = bulkimport.ReadCSV(bytes.NewReader(data))
	if err != nil {
		return nil, unreadableUpload(err)
	}
	return grid, nil
}

func (s *ImportService) exportDistricts(ctx context.Context) ([]bulkimport.ExportDistrict, error) {
	all, err := s.districts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]bulkimport.ExportDistrict, 0, len(all))
	for _, d := range all {
		names := make([]string, 0, d.VillageCount())
		for _, v := range d.Villages() {
			names = append(names, v.Name())
		}
		out = append(out, bulkimport.ExportDistrict{Name: d.Name(), Villages: names})
	}
	return out, nil
}

// Export writes the current districts and villages as CSV or XLSX.
func (s *ImportService) Export(ctx context.Context, w io.Writer, format spreadsheet.Format) error {
	if err := authorizeAdmin(ctx); err != nil {
		return err
	}
	districts, err := s.exportDistricts(ctx)
	if err != nil {
		return err
	}
	if format != spreadsheet.FormatXLSX {
		return bulkimport.ExportCSV(w, districts)
	}

	var rows [][]string
	for _, d := range districts {
		if len(d.Villages) == 0 {
			rows = append(rows, []string{d.Name, ""})
			continue
		}
		for _, v := range d.Villages {
			rows = append(rows, []string{d.Name, v})
		}
	}
	return spreadsheet.WriteXLSX(w, exportSheet, []string{"District", "Village"}, rows)
}
