// Package extractor turns class artifacts plus execution records into per-class coverage.
package extractor

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/LambdaTest/covdiff/pkg/core"
	"github.com/LambdaTest/covdiff/pkg/errs"
	"github.com/LambdaTest/covdiff/pkg/global"
	"github.com/LambdaTest/covdiff/pkg/lumber"
	"github.com/bmatcuk/doublestar/v4"
)

type probeMapExtractor struct {
	logger  lumber.Logger
	pattern string
}

// New returns a core.Extractor reading the probe maps found below each class root.
func New(logger lumber.Logger) core.Extractor {
	return &probeMapExtractor{logger: logger, pattern: global.ProbeMapPattern}
}

// Extract analyzes every probe map below root in walk order. Classes rejected by
// the filter are left out without a result, classes that fail analysis are
// returned as skipped results.
func (e *probeMapExtractor) Extract(ctx context.Context,
	root string,
	records core.RecordLookup,
	filter core.ClassFilter) ([]core.ClassResult, error) {
	if _, err := os.ReadDir(root); err != nil {
		e.logger.Errorf("failed to read class directory %s, error: %v", root, err)
		return nil, errs.ErrRootDirectory(root, err)
	}
	fsys := os.DirFS(root)
	matches, err := doublestar.Glob(fsys, e.pattern)
	if err != nil {
		e.logger.Errorf("failed to find probe maps in %s, error: %v", root, err)
		return nil, errs.ErrRootDirectory(root, err)
	}

	results := make([]core.ClassResult, 0, len(matches))
	for _, name := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		location := filepath.Join(root, filepath.FromSlash(name))
		result, ok := e.analyze(fsys, name, location, records, filter)
		if !ok {
			continue
		}
		if result.Skipped() {
			e.logger.Warnf("skipping class %s: %v", location, result.Err)
		}
		results = append(results, result)
	}
	e.logger.Debugf("analyzed %d classes in %s", len(results), root)
	return results, nil
}

func (e *probeMapExtractor) analyze(fsys fs.FS,
	name, location string,
	records core.RecordLookup,
	filter core.ClassFilter) (core.ClassResult, bool) {
	pm, id, err := readProbeMap(fsys, name)
	if err != nil {
		return skipped(location, err), true
	}
	if !filter.Allows(id) {
		return core.ClassResult{}, false
	}
	rec, found := records.Get(id)
	cov, err := pm.coverage(id, rec)
	if err != nil {
		return skipped(location, err), true
	}
	cov.NoMatch = !found && records.ContainsName(pm.Class)
	return core.ClassResult{Location: location, Coverage: cov}, true
}

func skipped(location string, err error) core.ClassResult {
	return core.ClassResult{
		Location: location,
		Err:      &errs.ClassAnalysisError{Location: location, Err: err},
	}
}
