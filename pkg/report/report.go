// Package report turns the coverage views of a comparison run into the
// regression index, the per-suite summary tables and the class pages.
package report

import (
	"context"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/LambdaTest/covdiff/pkg/aggregate"
	"github.com/LambdaTest/covdiff/pkg/analyzer"
	"github.com/LambdaTest/covdiff/pkg/diff"
	"github.com/LambdaTest/covdiff/pkg/errs"
	"github.com/LambdaTest/covdiff/pkg/fileutils"
	"github.com/LambdaTest/covdiff/pkg/global"
	"github.com/LambdaTest/covdiff/pkg/lumber"
	"github.com/LambdaTest/covdiff/pkg/utils"
)

// Options configures where and how a report is written.
type Options struct {
	// Dir is the report output directory.
	Dir string
	// SourceRoots are searched in order for class sources.
	SourceRoots []string
	// AssetsDir replaces the embedded static resources when set.
	AssetsDir string
}

// Input describes the run a report is assembled for.
type Input struct {
	Titles          []string
	Unit            aggregate.Unit
	ClassRoots      []string
	BaselineFiles   []string
	ComparisonFiles []string
}

// Report is the outcome of one assembly.
type Report struct {
	Dir      string
	Manifest *Manifest
	Summary  Summary
	Index    []IndexEntry
	Diff     *diff.Result
}

// Assembler writes comparison reports.
type Assembler struct {
	logger   lumber.Logger
	opts     Options
	resolver *SourceResolver
}

// New returns a new Assembler
func New(logger lumber.Logger, opts Options) *Assembler {
	return &Assembler{logger: logger, opts: opts, resolver: NewSourceResolver(opts.SourceRoots)}
}

// Assemble aggregates and classifies the views and writes the report files
// below the output directory.
func (a *Assembler) Assemble(ctx context.Context, views *analyzer.Views, in Input) (*Report, error) {
	classes := aggregate.NewClassesWithCoverage()
	trees := []*aggregate.CoverageInfo{
		aggregate.Aggregate(views.Baseline, in.Unit, classes.Visit),
		aggregate.Aggregate(views.Comparison, in.Unit, classes.Visit),
		aggregate.Aggregate(views.Merged, in.Unit, classes.Visit),
	}
	result := diff.Classify(diff.NewLineStatusMap(views.Baseline), diff.NewLineStatusMap(views.Comparison))

	titles := utils.WrapTitles(in.Titles, 2)
	summary := BuildSummary(titles, in.Unit, trees, classes)
	index := BuildIndex(result, a.resolver)
	linkRows(&summary, index)

	partly, notCovered := result.Totals()
	manifest := &Manifest{
		RunID:       utils.GenerateUUID(),
		HostID:      hostID(),
		CreatedAt:   time.Now().UTC(),
		Titles:      titles,
		Unit:        in.Unit.String(),
		ClassRoots:  in.ClassRoots,
		SourceRoots: a.opts.SourceRoots,
		Baseline:    inputFiles(in.BaselineFiles),
		Comparison:  inputFiles(in.ComparisonFiles),
		Skipped:     views.SkippedCount(),
		NoMatch:     views.NoMatch(),
		Regressions: Regressions{Classes: len(result.Classes), PartlyCovered: partly, NotCovered: notCovered},
		Pages:       len(index),
	}
	report := &Report{Dir: a.opts.Dir, Manifest: manifest, Summary: summary, Index: index, Diff: result}

	if err := utils.CreateDirectory(a.opts.Dir); err != nil {
		a.logger.Errorf("failed to create report directory %s, error: %v", a.opts.Dir, err)
		return nil, &errs.ReportIOError{Path: a.opts.Dir, Err: err}
	}
	if err := a.writeResources(); err != nil {
		return nil, err
	}
	for _, entry := range index {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := a.writeClass(result, entry); err != nil {
			return nil, err
		}
	}

	page := &indexPage{
		Title:     global.ReportTitle,
		Resources: global.ResourcesDir,
		RunID:     manifest.RunID,
		CreatedAt: manifest.CreatedAt.Format(time.RFC1123),
		Index:     index,
		Summary:   summary,
		Skipped:   manifest.Skipped,
		NoMatch:   manifest.NoMatch,
	}
	if err := a.write(global.IndexFileName, func(w io.Writer) error { return renderIndex(w, page) }); err != nil {
		return nil, err
	}
	if err := a.write(global.ChartFileName, func(w io.Writer) error { return renderChart(w, summary) }); err != nil {
		return nil, err
	}
	doc := &Document{RunID: manifest.RunID, Summary: summary, Index: index, Classes: result.Classes}
	if err := a.write(global.DiffJSONFileName, jsonWriter(doc)); err != nil {
		return nil, err
	}
	if err := a.write(global.ManifestFileName, jsonWriter(manifest)); err != nil {
		return nil, err
	}

	a.logger.Infof("report written to %s: %d regressed classes, %d class pages", a.opts.Dir, len(result.Classes), len(index))
	return report, nil
}

func (a *Assembler) writeResources() error {
	var src fs.FS = assets()
	if a.opts.AssetsDir != "" {
		src = os.DirFS(a.opts.AssetsDir)
	}
	dst := filepath.Join(a.opts.Dir, global.ResourcesDir)
	if err := os.RemoveAll(dst); err != nil {
		return &errs.ReportIOError{Path: dst, Err: err}
	}
	if err := fileutils.CopyDir(src, dst); err != nil {
		a.logger.Errorf("failed to copy report resources to %s, error: %v", dst, err)
		return &errs.ReportIOError{Path: dst, Err: err}
	}
	return nil
}

func (a *Assembler) writeClass(result *diff.Result, entry IndexEntry) error {
	lines, err := RenderFeed(result, a.resolver, entry.Package, entry.Class)
	if err != nil {
		source, _ := a.resolver.Resolve(entry.Package, entry.Class)
		a.logger.Errorf("failed to read source of %s.%s, error: %v", entry.Package, entry.Class, err)
		return &errs.ReportIOError{Path: source, Err: err}
	}
	base := up(entry.Href)
	page := &classPage{
		Title:         global.ReportTitle,
		Resources:     base + "/" + global.ResourcesDir,
		Index:         base + "/" + global.IndexFileName,
		Package:       entry.Package,
		Class:         entry.Class,
		PartlyCovered: entry.PartlyCovered,
		NotCovered:    entry.NotCovered,
		Lines:         lines,
	}
	return a.write(entry.Href, func(w io.Writer) error { return renderClass(w, page) })
}

// write renders one slash separated report file.
func (a *Assembler) write(name string, render func(w io.Writer) error) error {
	path := filepath.Join(a.opts.Dir, filepath.FromSlash(name))
	if err := fileutils.WriteFile(path, render); err != nil {
		a.logger.Errorf("failed to write %s, error: %v", path, err)
		return &errs.ReportIOError{Path: path, Err: err}
	}
	return nil
}

func jsonWriter(v interface{}) func(w io.Writer) error {
	return func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// linkRows points the summary rows of classes with a page at that page.
func linkRows(summary *Summary, index []IndexEntry) {
	pages := make(map[string]string, len(index))
	for _, e := range index {
		pages[e.Package+"/"+e.Class] = e.Href
	}
	for i := range summary.Packages {
		table := &summary.Packages[i]
		for j := range table.Rows {
			table.Rows[j].Href = pages[table.Name+"/"+table.Rows[j].Label]
		}
	}
}
