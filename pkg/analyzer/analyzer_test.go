package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/LambdaTest/covdiff/pkg/core"
	"github.com/LambdaTest/covdiff/pkg/errs"
	"github.com/LambdaTest/covdiff/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fooID  core.ClassID = 1
	barID  core.ClassID = 2
	bazID  core.ClassID = 3
	failID core.ClassID = 99
)

type fakeClass struct {
	id     core.ClassID
	name   string
	probes int
}

// fakeExtractor maps probe i of every class onto source line i+1.
type fakeExtractor struct {
	mu      sync.Mutex
	classes map[string][]fakeClass
	calls   int
	filters []core.ClassFilter
	fail    func(records core.RecordLookup) bool
	// delay keeps every call in flight for a while
	delay    time.Duration
	inFlight int
	peak     int
}

func (f *fakeExtractor) Extract(ctx context.Context,
	root string,
	records core.RecordLookup,
	filter core.ClassFilter) ([]core.ClassResult, error) {
	f.mu.Lock()
	f.calls++
	f.filters = append(f.filters, filter)
	f.inFlight++
	if f.inFlight > f.peak {
		f.peak = f.inFlight
	}
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()
	time.Sleep(f.delay)

	if f.fail != nil && f.fail(records) {
		return nil, errs.ErrRootDirectory(root, os.ErrPermission)
	}
	var results []core.ClassResult
	for _, c := range f.classes[root] {
		if !filter.Allows(c.id) {
			continue
		}
		if c.probes < 0 {
			results = append(results, core.ClassResult{
				Location: root + "/" + c.name,
				Err:      &errs.ClassAnalysisError{Location: c.name, Err: errs.New("corrupt class")},
			})
			continue
		}
		rec, _ := records.Get(c.id)
		cov := &core.ClassCoverage{ID: c.id, Name: c.name}
		for i := 0; i < c.probes; i++ {
			line := core.Line{Number: i + 1, Instructions: core.Counter{Missed: 1}}
			if rec != nil && rec.Hit(i) {
				line.Instructions = core.Counter{Covered: 1}
			}
			cov.Lines = append(cov.Lines, line)
		}
		results = append(results, core.ClassResult{Location: root + "/" + c.name, Coverage: cov})
	}
	return results, nil
}

func lineStatuses(t *testing.T, bundle *core.BundleCoverage, name string) []core.LineStatus {
	t.Helper()
	for _, p := range bundle.Packages {
		for _, c := range p.Classes {
			if c.Name == name {
				out := make([]core.LineStatus, 0, len(c.Lines))
				for _, l := range c.Lines {
					out = append(out, l.Status())
				}
				return out
			}
		}
	}
	return nil
}

func TestAnalyze(t *testing.T) {
	logger := testutils.MustLogger(t)
	dir := t.TempDir()
	baseline := testutils.WriteExecFile(t, filepath.Join(dir, "baseline.exec"),
		testutils.Record(fooID, "pkg/Foo", true, true, false),
		testutils.Record(barID, "pkg/Bar", true),
	)
	a := testutils.WriteExecFile(t, filepath.Join(dir, "a.exec"),
		testutils.Record(fooID, "pkg/Foo", true, true, true),
		testutils.Record(bazID, "other/Baz", true),
	)
	b := testutils.WriteExecFile(t, filepath.Join(dir, "b.exec"),
		testutils.Record(fooID, "pkg/Foo", false, true, false),
	)

	classes := map[string][]fakeClass{
		"classes-1": {{fooID, "pkg/Foo", 3}, {bazID, "other/Baz", 1}},
		"classes-2": {{barID, "pkg/Bar", 1}},
	}
	roots := []string{"classes-1", "classes-2"}

	tests := []struct {
		name           string
		filter         bool
		wantComparison int
	}{
		{"filtered to baseline", true, 2},
		{"unfiltered", false, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeExtractor{classes: classes}
			views, err := New(fake, logger, Options{FilterToBaseline: tt.filter, Workers: 2}).
				Analyze(context.Background(), roots, []string{baseline}, []string{a, b})
			require.NoError(t, err)

			assert.Equal(t, 6, fake.calls)
			assert.Equal(t, BaselineView, views.Baseline.Name)
			assert.Equal(t, 3, views.Baseline.ClassCount())
			assert.Equal(t, tt.wantComparison, views.Comparison.ClassCount())
			assert.Equal(t, tt.wantComparison, views.Merged.ClassCount())

			// classes keep root order, packages first-seen order
			require.Len(t, views.Baseline.Packages, 2)
			assert.Equal(t, "pkg", views.Baseline.Packages[0].Name)
			assert.Equal(t, "other", views.Baseline.Packages[1].Name)

			assert.Equal(t, []core.LineStatus{core.FullyCovered, core.FullyCovered, core.NotCovered},
				lineStatuses(t, views.Baseline, "pkg/Foo"))
			// b.exec replaces a.exec for Foo in both views
			want := []core.LineStatus{core.NotCovered, core.FullyCovered, core.NotCovered}
			assert.Equal(t, want, lineStatuses(t, views.Comparison, "pkg/Foo"))
			assert.Equal(t, want, lineStatuses(t, views.Merged, "pkg/Foo"))
			// Bar only ran in the baseline, the merged view keeps its record
			assert.Equal(t, []core.LineStatus{core.FullyCovered}, lineStatuses(t, views.Merged, "pkg/Bar"))
			assert.Equal(t, []core.LineStatus{core.NotCovered}, lineStatuses(t, views.Comparison, "pkg/Bar"))

			assert.Nil(t, fake.filters[0])
			if tt.filter {
				assert.Equal(t, core.ClassFilter{fooID: {}, barID: {}}, fake.filters[len(fake.filters)-1])
			}
		})
	}
}

func TestAnalyze_SkippedClasses(t *testing.T) {
	logger := testutils.MustLogger(t)
	dir := t.TempDir()
	baseline := testutils.WriteExecFile(t, filepath.Join(dir, "baseline.exec"), testutils.Record(fooID, "pkg/Foo", true))
	comparison := testutils.WriteExecFile(t, filepath.Join(dir, "comparison.exec"), testutils.Record(fooID, "pkg/Foo", false))

	fake := &fakeExtractor{classes: map[string][]fakeClass{
		"classes": {{fooID, "pkg/Foo", 1}, {barID, "pkg/Corrupt", -1}},
	}}
	views, err := New(fake, logger, Options{}).
		Analyze(context.Background(), []string{"classes"}, []string{baseline}, []string{comparison})
	require.NoError(t, err)
	assert.Equal(t, 1, views.Baseline.ClassCount())
	assert.Len(t, views.Skipped[BaselineView], 1)
	assert.Len(t, views.Skipped[ComparisonView], 1)
	assert.Len(t, views.Skipped[MergedView], 1)
	assert.Equal(t, 3, views.SkippedCount())
}

func TestAnalyze_Errors(t *testing.T) {
	logger := testutils.MustLogger(t)
	dir := t.TempDir()
	baseline := testutils.WriteExecFile(t, filepath.Join(dir, "baseline.exec"), testutils.Record(fooID, "pkg/Foo", true))
	comparison := testutils.WriteExecFile(t, filepath.Join(dir, "comparison.exec"), testutils.Record(fooID, "pkg/Foo", false))
	failing := testutils.WriteExecFile(t, filepath.Join(dir, "failing.exec"), testutils.Record(failID, "pkg/Fail", true))
	corrupt := filepath.Join(dir, "corrupt.exec")
	require.NoError(t, os.WriteFile(corrupt, []byte{0x00}, 0644))
	roots := []string{"classes"}

	tests := []struct {
		name       string
		roots      []string
		baseline   []string
		comparison []string
		wantErr    error
	}{
		{"no class roots", nil, []string{baseline}, []string{comparison}, errs.ErrNoClassRoots},
		{"no baseline", roots, nil, []string{comparison}, errs.ErrNoBaseline},
		{"no comparison", roots, []string{baseline}, nil, errs.ErrNoComparison},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(&fakeExtractor{}, logger, Options{}).Analyze(context.Background(), tt.roots, tt.baseline, tt.comparison)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Analyze() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}

	t.Run("corrupt comparison file", func(t *testing.T) {
		_, err := New(&fakeExtractor{}, logger, Options{}).
			Analyze(context.Background(), roots, []string{baseline}, []string{corrupt})
		var readErr *errs.RecordReadError
		require.True(t, errors.As(err, &readErr), "Analyze() error = %v", err)
		assert.Equal(t, corrupt, readErr.Path)
	})

	t.Run("failing baseline stops the run", func(t *testing.T) {
		fake := &fakeExtractor{fail: func(records core.RecordLookup) bool {
			_, ok := records.Get(failID)
			return ok
		}}
		views, err := New(fake, logger, Options{}).
			Analyze(context.Background(), roots, []string{failing}, []string{comparison})
		assert.Nil(t, views)
		var coded errs.Err
		require.True(t, errors.As(err, &coded), "Analyze() error = %v", err)
		assert.Equal(t, 1, fake.calls)
	})

	t.Run("failing view waits for its sibling", func(t *testing.T) {
		// the comparison store holds the failing class only, the merged store both
		fake := &fakeExtractor{fail: func(records core.RecordLookup) bool {
			_, failing := records.Get(failID)
			_, foo := records.Get(fooID)
			return failing && !foo
		}}
		views, err := New(fake, logger, Options{}).
			Analyze(context.Background(), roots, []string{baseline}, []string{failing})
		assert.Nil(t, views)
		var coded errs.Err
		require.True(t, errors.As(err, &coded), "Analyze() error = %v", err)
		assert.Equal(t, 3, fake.calls)
	})
}

func TestAnalyze_PoolLimit(t *testing.T) {
	logger := testutils.MustLogger(t)
	dir := t.TempDir()
	baseline := testutils.WriteExecFile(t, filepath.Join(dir, "baseline.exec"), testutils.Record(fooID, "pkg/Foo", true))
	comparison := testutils.WriteExecFile(t, filepath.Join(dir, "comparison.exec"), testutils.Record(fooID, "pkg/Foo", false))

	var roots []string
	classes := make(map[string][]fakeClass)
	for i := 0; i < 4; i++ {
		root := "classes-" + strconv.Itoa(i)
		roots = append(roots, root)
		classes[root] = []fakeClass{{fooID, "pkg/Foo", 1}}
	}

	tests := []struct {
		name    string
		workers int
	}{
		{"single worker", 1},
		{"two workers", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeExtractor{classes: classes, delay: 10 * time.Millisecond}
			_, err := New(fake, logger, Options{FilterToBaseline: true, Workers: tt.workers}).
				Analyze(context.Background(), roots, []string{baseline}, []string{comparison})
			require.NoError(t, err)
			assert.Equal(t, 12, fake.calls)
			assert.GreaterOrEqual(t, fake.peak, 1)
			assert.LessOrEqual(t, fake.peak, tt.workers)
		})
	}
}

func TestViews_NoMatch(t *testing.T) {
	bundle := func(name string, classes ...*core.ClassCoverage) *core.BundleCoverage {
		return &core.BundleCoverage{Name: name, Packages: []*core.PackageCoverage{{Name: "pkg", Classes: classes}}}
	}
	views := &Views{
		Baseline:   bundle(BaselineView, &core.ClassCoverage{Name: "pkg/Foo"}, &core.ClassCoverage{Name: "pkg/Old", NoMatch: true}),
		Comparison: bundle(ComparisonView, &core.ClassCoverage{Name: "pkg/Old", NoMatch: true}, &core.ClassCoverage{Name: "pkg/Bar", NoMatch: true}),
	}
	assert.Equal(t, []string{"pkg/Bar", "pkg/Old"}, views.NoMatch())
	assert.Empty(t, (&Views{}).NoMatch())
}
