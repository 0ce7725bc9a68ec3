// Package analyzer computes the baseline, comparison and merged coverage views.
package analyzer

import (
	"context"
	"sort"
	"time"

	"github.com/LambdaTest/covdiff/pkg/core"
	"github.com/LambdaTest/covdiff/pkg/errs"
	"github.com/LambdaTest/covdiff/pkg/execdata"
	"github.com/LambdaTest/covdiff/pkg/lumber"
	"github.com/LambdaTest/covdiff/pkg/procfs"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// View names, also used as bundle names.
const (
	BaselineView   = "baseline"
	ComparisonView = "comparison"
	MergedView     = "merged"
)

// Options tunes the analysis.
type Options struct {
	// FilterToBaseline restricts the comparison and merged views to classes
	// that have an execution record in the baseline files.
	FilterToBaseline bool
	// Workers is the size of the extraction pool, zero sizes it from the hardware.
	Workers int
}

// Views holds the three coverage views of one comparison run.
type Views struct {
	Baseline   *core.BundleCoverage
	Comparison *core.BundleCoverage
	Merged     *core.BundleCoverage
	// Skipped lists the classes left out of each view, keyed by view name.
	Skipped map[string][]core.ClassResult
}

// SkippedCount returns the number of skipped classes over all views.
func (v *Views) SkippedCount() int {
	n := 0
	for _, s := range v.Skipped {
		n += len(s)
	}
	return n
}

// NoMatch returns the VM names of classes whose execution record was written
// for a different class version, over all views, sorted.
func (v *Views) NoMatch() []string {
	seen := make(map[string]struct{})
	for _, bundle := range []*core.BundleCoverage{v.Baseline, v.Comparison, v.Merged} {
		if bundle == nil {
			continue
		}
		for _, p := range bundle.Packages {
			for _, c := range p.Classes {
				if c.NoMatch {
					seen[c.Name] = struct{}{}
				}
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Analyzer schedules extraction of the coverage views.
type Analyzer struct {
	extractor core.Extractor
	logger    lumber.Logger
	opts      Options
}

// New returns a new Analyzer
func New(extractor core.Extractor, logger lumber.Logger, opts Options) *Analyzer {
	if opts.Workers <= 0 {
		opts.Workers = procfs.PoolSize(procfs.AvailableParallelism())
	}
	return &Analyzer{extractor: extractor, logger: logger, opts: opts}
}

// Workers returns the extraction pool size.
func (a *Analyzer) Workers() int {
	return a.opts.Workers
}

// Analyze builds the baseline view first, then the comparison and merged views
// concurrently. The merged view reads the baseline files followed by the
// comparison files. Both concurrent views always run to completion before the
// first error, if any, is returned.
func (a *Analyzer) Analyze(ctx context.Context, classRoots, baselineFiles, comparisonFiles []string) (*Views, error) {
	switch {
	case len(classRoots) == 0:
		return nil, errs.ErrNoClassRoots
	case len(baselineFiles) == 0:
		return nil, errs.ErrNoBaseline
	case len(comparisonFiles) == 0:
		return nil, errs.ErrNoComparison
	}

	start := time.Now()
	pool := semaphore.NewWeighted(int64(a.opts.Workers))
	views := &Views{Skipped: make(map[string][]core.ClassResult)}

	seen := make(map[core.ClassID]struct{})
	baselineStore, err := execdata.Merge(ctx, baselineFiles, execdata.WithSeenObserver(func(id core.ClassID) {
		seen[id] = struct{}{}
	}))
	if err != nil {
		a.logger.Errorf("failed to read baseline execution records, error: %v", err)
		return nil, err
	}
	views.Baseline, views.Skipped[BaselineView], err = a.extract(ctx, pool, BaselineView, classRoots, baselineStore, nil)
	if err != nil {
		return nil, err
	}

	// seen is not written past this point
	var filter core.ClassFilter
	if a.opts.FilterToBaseline {
		filter = core.ClassFilter(seen)
	}
	a.logger.Debugf("baseline view ready, %d classes seen, filter enabled: %t", len(seen), a.opts.FilterToBaseline)

	mergedFiles := make([]string, 0, len(baselineFiles)+len(comparisonFiles))
	mergedFiles = append(append(mergedFiles, baselineFiles...), comparisonFiles...)

	var comparisonSkipped, mergedSkipped []core.ClassResult
	// plain group without a derived context, a failing view does not cancel its sibling
	g := new(errgroup.Group)
	g.Go(func() (err error) {
		views.Comparison, comparisonSkipped, err = a.view(ctx, pool, ComparisonView, classRoots, comparisonFiles, filter)
		return err
	})
	g.Go(func() (err error) {
		views.Merged, mergedSkipped, err = a.view(ctx, pool, MergedView, classRoots, mergedFiles, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	views.Skipped[ComparisonView] = comparisonSkipped
	views.Skipped[MergedView] = mergedSkipped

	a.logger.Infof("analysis finished in %s, %d classes skipped", time.Since(start).Round(time.Millisecond), views.SkippedCount())
	if noMatch := views.NoMatch(); len(noMatch) > 0 {
		a.logger.Warnf("execution records do not match the class version of %v", noMatch)
	}
	return views, nil
}

func (a *Analyzer) view(ctx context.Context,
	pool *semaphore.Weighted,
	name string,
	classRoots, files []string,
	filter core.ClassFilter) (*core.BundleCoverage, []core.ClassResult, error) {
	var opts []execdata.MergeOption
	if filter != nil {
		opts = append(opts, execdata.WithStoreStrategy(execdata.FilterStrategy(filter)))
	}
	store, err := execdata.Merge(ctx, files, opts...)
	if err != nil {
		a.logger.Errorf("failed to read %s execution records, error: %v", name, err)
		return nil, nil, err
	}
	return a.extract(ctx, pool, name, classRoots, store, filter)
}

// extract runs one extraction per class root on the pool and assembles the
// results in root order.
func (a *Analyzer) extract(ctx context.Context,
	pool *semaphore.Weighted,
	name string,
	classRoots []string,
	store *execdata.Store,
	filter core.ClassFilter) (*core.BundleCoverage, []core.ClassResult, error) {
	perRoot := make([][]core.ClassResult, len(classRoots))
	g := new(errgroup.Group)
	for i, root := range classRoots {
		i, root := i, root
		if err := pool.Acquire(ctx, 1); err != nil {
			_ = g.Wait()
			return nil, nil, err
		}
		g.Go(func() error {
			defer pool.Release(1)
			results, err := a.extractor.Extract(ctx, root, store, filter)
			if err != nil {
				a.logger.Errorf("failed to analyze %s view of %s, error: %v", name, root, err)
				return err
			}
			perRoot[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var results []core.ClassResult
	for _, r := range perRoot {
		results = append(results, r...)
	}
	bundle, skipped := core.NewBundle(name, results)
	a.logger.Debugf("%s view: %d classes analyzed, %d skipped", name, bundle.ClassCount(), len(skipped))
	return bundle, skipped, nil
}
