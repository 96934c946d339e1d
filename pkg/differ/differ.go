// Package differ partitions two directory trees into identical files,
// differing files, and entries present on only one side.
package differ

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/sdejongh/dircmp/pkg/compare"
	"github.com/sdejongh/dircmp/pkg/logging"
	"github.com/sdejongh/dircmp/pkg/models"
	"github.com/sdejongh/dircmp/pkg/storage"
)

// ProgressFunc is called once per directory pair scanned
type ProgressFunc func(dir string, scanned int)

// Differ compares two trees with a content comparator
type Differ struct {
	comparator compare.Comparator
	logger     logging.Logger
	progress   ProgressFunc
	maxWorkers int
}

// New creates a differ. A nil logger discards output.
func New(comparator compare.Comparator, logger logging.Logger) *Differ {
	if logger == nil {
		logger = logging.NewNullLogger()
	}
	return &Differ{
		comparator: comparator,
		logger:     logger,
		maxWorkers: 1,
	}
}

// SetMaxWorkers bounds how many file pairs of one directory are compared
// at once. Directories are still visited one at a time.
func (d *Differ) SetMaxWorkers(n int) {
	if n < 1 {
		n = 1
	}
	d.maxWorkers = n
}

// SetProgressCallback sets a callback invoked for every directory pair
func (d *Differ) SetProgressCallback(fn ProgressFunc) {
	d.progress = fn
}

// Compare walks both trees in lock-step from their roots.
// Missing or non-directory paths are recorded in Result.Errors and do not
// stop sibling subtrees; the returned error is only set when ctx ends.
func (d *Differ) Compare(ctx context.Context, left, right storage.Backend, opts models.Options) (*models.Result, error) {
	r := d.newRun(left, right, opts)
	return r.compare(ctx)
}

// Run compares the trees of op and wraps the outcome in a report
func (d *Differ) Run(ctx context.Context, op *models.CompareOperation, left, right storage.Backend) (*models.Report, error) {
	report := &models.Report{
		ID:        op.ID,
		LeftPath:  op.LeftPath,
		RightPath: op.RightPath,
		Mode:      op.Mode,
		Method:    op.ComparisonMethod,
		Options:   op.Options,
		StartTime: time.Now(),
	}

	d.logger.Info(ctx, "Starting comparison", logging.Fields{
		"left":   op.LeftPath,
		"right":  op.RightPath,
		"method": d.comparator.Name(),
	})

	r := d.newRun(left, right, op.Options)
	result, err := r.compare(ctx)
	if err != nil {
		return nil, err
	}

	report.Stats = r.stats
	report.Finish(result)

	d.logger.Info(ctx, "Comparison completed", logging.Fields{
		"common":     len(result.Common),
		"differing":  len(result.Differing),
		"left_only":  len(result.LeftOnly),
		"right_only": len(result.RightOnly),
		"errors":     len(result.Errors),
		"dir_pairs":  r.stats.DirPairsScanned,
		"duration":   report.Duration.String(),
	})

	return report, nil
}

// run holds the state of one comparison; only compareAll runs concurrently
type run struct {
	*Differ
	left, right storage.Backend
	opts        models.Options
	excluder    *Excluder
	stats       models.Statistics
}

func (d *Differ) newRun(left, right storage.Backend, opts models.Options) *run {
	return &run{
		Differ:   d,
		left:     left,
		right:    right,
		opts:     opts,
		excluder: NewExcluder(opts.Exclude),
	}
}

func (r *run) compare(ctx context.Context) (*models.Result, error) {
	result, err := r.compareDirs(ctx, "")
	if err != nil {
		if isCancellation(err) {
			return nil, err
		}
		return &models.Result{Errors: []*models.TraversalError{r.contain(ctx, "", err)}}, nil
	}
	return result, nil
}

// compareDirs classifies the children of one directory pair and recurses
// into common subdirectories. An error means nothing under rel is reported.
func (r *run) compareDirs(ctx context.Context, rel string) (*models.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	leftEntries, err := r.left.ReadDir(ctx, rel)
	if err != nil {
		return nil, onSide(r.left, rel, err)
	}
	rightEntries, err := r.right.ReadDir(ctx, rel)
	if err != nil {
		return nil, onSide(r.right, rel, err)
	}

	r.stats.DirPairsScanned++
	if r.progress != nil {
		r.progress(r.left.FullPath(rel), r.stats.DirPairsScanned)
	}
	r.logger.Debug(ctx, "Scanning directory pair", logging.Fields{
		"left":  r.left.FullPath(rel),
		"right": r.right.FullPath(rel),
	})

	leftByName := r.index(leftEntries)
	rightByName := r.index(rightEntries)

	result := &models.Result{}
	var commonDirs, commonFiles []string

	for _, name := range sortedNames(leftByName) {
		l := leftByName[name]
		rt, both := rightByName[name]

		switch {
		case !both:
			if r.opts.WantLeft {
				r.oneSided(ctx, r.left, l, &result.LeftOnly, result)
			}

		case l.IsDir && rt.IsDir:
			commonDirs = append(commonDirs, l.RelativePath)

		case l.IsRegular && rt.IsRegular:
			if r.opts.NeedContent() {
				commonFiles = append(commonFiles, l.RelativePath)
			}

		case !l.IsDir && !rt.IsDir:
			// Pipes and devices can block forever when read
			if r.opts.NeedContent() {
				r.logger.Warn(ctx, "Skipping entry that is not a regular file", logging.Fields{
					"left":       r.left.FullPath(l.RelativePath),
					"right":      r.right.FullPath(rt.RelativePath),
					"left_kind":  kindOf(l).String(),
					"right_kind": kindOf(rt).String(),
				})
				backend, entry := r.left, l
				if l.IsRegular {
					backend, entry = r.right, rt
				}
				result.Errors = append(result.Errors,
					r.containOn(ctx, backend, entry.RelativePath, models.ErrNotRegular))
			}

		default:
			// A file on one side and a directory on the other is not a
			// common entry: each version is reported on its own side
			r.logger.Warn(ctx, "Entry type differs between trees", logging.Fields{
				"left":       r.left.FullPath(l.RelativePath),
				"right":      r.right.FullPath(rt.RelativePath),
				"left_kind":  kindOf(l).String(),
				"right_kind": kindOf(rt).String(),
			})
			if r.opts.WantLeft {
				r.oneSided(ctx, r.left, l, &result.LeftOnly, result)
			}
			if r.opts.WantRight {
				r.oneSided(ctx, r.right, rt, &result.RightOnly, result)
			}
		}
	}

	if r.opts.WantRight {
		for _, name := range sortedNames(rightByName) {
			if _, both := leftByName[name]; both {
				continue
			}
			r.oneSided(ctx, r.right, rightByName[name], &result.RightOnly, result)
		}
	}

	for _, outcome := range r.compareAll(ctx, commonFiles) {
		if err := r.record(ctx, outcome, result); err != nil {
			return nil, err
		}
	}

	for _, dir := range commonDirs {
		sub, err := r.compareDirs(ctx, dir)
		if err != nil {
			if isCancellation(err) {
				return nil, err
			}
			result.Errors = append(result.Errors, r.contain(ctx, dir, err))
			continue
		}
		result.Merge(sub)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// record classifies one compared pair; failures are contained to the pair
func (r *run) record(ctx context.Context, outcome fileOutcome, result *models.Result) error {
	rel, comparison := outcome.rel, outcome.comparison
	pair := models.PathPair{
		Left:  r.left.FullPath(rel),
		Right: r.right.FullPath(rel),
	}

	if err := outcome.err; err != nil {
		if isCancellation(err) {
			return err
		}
		result.Errors = append(result.Errors, r.contain(ctx, rel, err))
		return nil
	}

	r.stats.FilesCompared++
	r.stats.BytesCompared += comparison.BytesCompared

	switch comparison.Result {
	case compare.Same:
		if r.opts.WantCommon {
			result.Common = append(result.Common, pair)
		}
	default:
		r.logger.Debug(ctx, "Files differ", logging.Fields{
			"left":   pair.Left,
			"right":  pair.Right,
			"reason": comparison.Reason,
		})
		if r.opts.WantDiffering {
			result.Differing = append(result.Differing, pair)
		}
	}
	return nil
}

// oneSided appends a one-sided entry, expanding directories with the walker
func (r *run) oneSided(ctx context.Context, backend storage.Backend, entry storage.FileInfo, dst *[]string, result *models.Result) {
	if !entry.IsDir {
		*dst = append(*dst, backend.FullPath(entry.RelativePath))
		return
	}

	paths, err := listAll(ctx, backend, entry.RelativePath, r.excluder)
	if err != nil {
		if !isCancellation(err) {
			result.Errors = append(result.Errors, r.containOn(ctx, backend, entry.RelativePath, err))
		}
		return
	}
	*dst = append(*dst, paths...)
}

// index maps entry names to entries, dropping excluded ones
func (r *run) index(entries []storage.FileInfo) map[string]storage.FileInfo {
	byName := make(map[string]storage.FileInfo, len(entries))
	for _, e := range entries {
		if r.excluder.Match(e.RelativePath, e.IsDir) {
			continue
		}
		byName[e.Name] = e
	}
	return byName
}

// contain records err against rel, logs it and converts it to a TraversalError
func (r *run) contain(ctx context.Context, rel string, err error) *models.TraversalError {
	return r.containOn(ctx, r.left, rel, err)
}

func (r *run) containOn(ctx context.Context, backend storage.Backend, rel string, err error) *models.TraversalError {
	var te *models.TraversalError
	if !errors.As(err, &te) {
		te = models.NewTraversalError(backend.FullPath(rel), err)
	}
	r.logger.Error(ctx, "Comparison failed for path", te.Err, logging.Fields{"path": te.Path})
	return te
}

func sortedNames(byName map[string]storage.FileInfo) []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func kindOf(fi storage.FileInfo) models.EntryKind {
	switch {
	case fi.IsDir:
		return models.KindDir
	case fi.IsRegular:
		return models.KindFile
	default:
		return models.KindSpecial
	}
}

// onSide attaches the full path on backend to err unless it already names one
func onSide(backend storage.Backend, rel string, err error) error {
	var te *models.TraversalError
	if isCancellation(err) || errors.As(err, &te) {
		return err
	}
	return models.NewTraversalError(backend.FullPath(rel), err)
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
