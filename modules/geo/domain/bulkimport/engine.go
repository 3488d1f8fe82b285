package bulkimport

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/gramseva/portal/pkg/logging"
)

type Options struct {
	ParseOptions
	Logger   *logrus.Entry
	Progress *Progress
}

// Engine reconciles district groups against a Directory one call at a time.
type Engine struct {
	dir      Directory
	log      *logrus.Entry
	progress *Progress
}

func NewEngine(dir Directory, opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = logging.Nop()
	}
	progress := opts.Progress
	if progress == nil {
		progress = NewProgress()
	}
	return &Engine{dir: dir, log: log, progress: progress}
}

func (e *Engine) Progress() *Progress {
	return e.progress
}

// Run processes groups in order. A district is resolved (matched or created)
// before any of its villages are written, and every error is collected into
// the result instead of aborting the run. Cancelling ctx does not stop a run
// that has started.
func (e *Engine) Run(ctx context.Context, groups []Group) Result {
	ctx = context.WithoutCancel(ctx)
	result := Result{
		GroupCount: len(groups),
		RowCount:   countVillages(groups),
	}
	e.progress.Start(len(groups))
	defer e.progress.Finish()

	existing, err := e.dir.ListDistricts(ctx)
	if err != nil {
		e.log.WithError(err).Error("bulk import: list districts failed")
		result.addError(MsgListingFailed)
		result.finalize()
		return result
	}
	index := newDistrictIndex(existing)

	for _, group := range groups {
		e.runGroup(ctx, index, group, &result)
		e.progress.Advance()
	}

	result.finalize()
	e.log.WithFields(logrus.Fields{
		"districts_created": result.DistrictCount,
		"districts_matched": result.MatchedDistricts,
		"villages_created":  result.VillageCount,
		"errors":            len(result.Errors),
	}).Info("bulk import finished")
	return result
}

func (e *Engine) runGroup(ctx context.Context, index *districtIndex, group Group, result *Result) {
	log := e.log.WithField("district", group.District)

	districtID, ok := index.lookup(group.District)
	if ok {
		result.MatchedDistricts++
	} else {
		id, err := e.dir.CreateDistrict(ctx, group.District)
		if err != nil || id == 0 {
			log.WithError(err).Warn("bulk import: district creation failed")
			result.addError(districtCreationFailed(group.District))
			result.SkippedVillages += len(group.Villages)
			return
		}
		districtID = id
		index.add(id, group.District)
		result.DistrictCount++
	}

	for _, village := range group.Villages {
		id, err := e.dir.CreateVillage(ctx, districtID, village)
		switch {
		case err != nil:
			log.WithError(err).WithField("village", village).Warn("bulk import: village creation failed")
			result.addError(villageAddFailed(village, group.District))
		case id == 0:
			log.WithField("village", village).Warn("bulk import: district vanished before village creation")
			result.addError(villageDistrictNotFound(village))
		default:
			result.VillageCount++
		}
	}
}

// Import parses grid, groups the rows and runs the engine. Input without any
// usable row yields NoValidData and touches nothing.
func Import(ctx context.Context, dir Directory, grid [][]string, opts Options) Result {
	rows := ParseRows(grid, opts.ParseOptions)
	return ImportRows(ctx, dir, rows, opts)
}

// ImportRows is Import for already parsed rows.
func ImportRows(ctx context.Context, dir Directory, rows []Row, opts Options) Result {
	engine := NewEngine(dir, opts)
	if len(rows) == 0 {
		engine.progress.Start(0)
		engine.progress.Finish()
		return NoValidData()
	}
	return engine.Run(ctx, GroupRows(rows))
}
