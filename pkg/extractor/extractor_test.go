package extractor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/LambdaTest/covdiff/pkg/core"
	"github.com/LambdaTest/covdiff/pkg/errs"
	"github.com/LambdaTest/covdiff/pkg/execdata"
	"github.com/LambdaTest/covdiff/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	fooID   core.ClassID = 0xf00
	barID   core.ClassID = 0xba4
	otherID core.ClassID = 0x0e4
)

func statuses(cov *core.ClassCoverage) map[int]core.LineStatus {
	out := make(map[int]core.LineStatus)
	for _, l := range cov.Lines {
		out[l.Number] = l.Status()
	}
	return out
}

func TestExtract(t *testing.T) {
	logger := testutils.MustLogger(t)
	root := t.TempDir()

	foo := testutils.ClassFixture{
		Class: "com/acme/Foo", ID: fooID.String(), Source: "Foo.java", Probes: 4,
		Lines: []testutils.LineFixture{
			{Line: 10, Instructions: []int{0}},
			{Line: 11, Instructions: []int{1}, Branches: []int{2, 3}},
			{Line: 12, Instructions: []int{3}},
		},
	}
	testutils.WriteProbeMap(t, root, foo)
	testutils.WriteProbeMap(t, root, testutils.NewClassFixture("com/acme/Bar", barID, "Bar.java", 5, 6))

	store := execdata.NewStore()
	store.Put(testutils.Record(fooID, "com/acme/Foo", true, true, true, false))

	results, err := New(logger).Extract(context.Background(), root, store, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	byName := make(map[string]*core.ClassCoverage)
	for _, r := range results {
		require.False(t, r.Skipped(), "unexpected skip: %v", r.Err)
		byName[r.Coverage.Name] = r.Coverage
	}

	got := byName["com/acme/Foo"]
	require.NotNil(t, got)
	assert.Equal(t, "com.acme", got.PackageName())
	assert.Equal(t, "Foo.java", got.SourceFile)
	assert.Equal(t, map[int]core.LineStatus{
		10: core.FullyCovered,
		11: core.PartlyCovered,
		12: core.NotCovered,
	}, statuses(got))
	assert.Equal(t, core.Counter{Missed: 1, Covered: 2}, got.LineCounter())
	assert.Equal(t, core.Counter{Missed: 1, Covered: 1}, got.BranchCounter())

	bar := byName["com/acme/Bar"]
	require.NotNil(t, bar)
	assert.False(t, bar.NoMatch)
	assert.Equal(t, map[int]core.LineStatus{5: core.NotCovered, 6: core.NotCovered}, statuses(bar))
}

func TestExtract_FilterAndNoMatch(t *testing.T) {
	logger := testutils.MustLogger(t)
	root := t.TempDir()
	testutils.WriteProbeMap(t, root, testutils.NewClassFixture("com/acme/Foo", fooID, "Foo.java", 1))
	testutils.WriteProbeMap(t, root, testutils.NewClassFixture("com/acme/Bar", barID, "Bar.java", 1))

	store := execdata.NewStore()
	// same name, different identity: the class was recompiled since the run
	store.Put(testutils.Record(otherID, "com/acme/Foo", true))

	results, err := New(logger).Extract(context.Background(), root, store, core.ClassFilter{fooID: {}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, fooID, results[0].Coverage.ID)
	assert.True(t, results[0].Coverage.NoMatch)
	assert.Equal(t, core.Counter{Missed: 1}, results[0].Coverage.LineCounter())
}

func TestExtract_SkipsBrokenClasses(t *testing.T) {
	logger := testutils.MustLogger(t)
	tests := []struct {
		name  string
		setup func(t *testing.T, root string, store *execdata.Store)
	}{
		{
			"malformed yaml",
			func(t *testing.T, root string, store *execdata.Store) {
				path := filepath.Join(root, "com", "acme", "Broken.probes.yml")
				require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
				require.NoError(t, os.WriteFile(path, []byte("class: [unterminated"), 0644))
			},
		},
		{
			"missing class name",
			func(t *testing.T, root string, store *execdata.Store) {
				path := filepath.Join(root, "Nameless.probes.yaml")
				content := "id: \"0000000000000f00\"\nprobes: 1\nlines:\n  - line: 3\n    instructions: [0]\n"
				require.NoError(t, os.WriteFile(path, []byte(content), 0644))
			},
		},
		{
			"probe out of range",
			func(t *testing.T, root string, store *execdata.Store) {
				fixture := testutils.NewClassFixture("com/acme/Foo", fooID, "Foo.java", 1)
				fixture.Lines[0].Instructions = []int{3}
				testutils.WriteProbeMap(t, root, fixture)
			},
		},
		{
			"probe count mismatch",
			func(t *testing.T, root string, store *execdata.Store) {
				testutils.WriteProbeMap(t, root, testutils.NewClassFixture("com/acme/Foo", fooID, "Foo.java", 1, 2))
				store.Put(testutils.Record(fooID, "com/acme/Foo", true, true, true))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			store := execdata.NewStore()
			tt.setup(t, root, store)
			testutils.WriteProbeMap(t, root, testutils.NewClassFixture("com/acme/Good", barID, "Good.java", 1))

			results, err := New(logger).Extract(context.Background(), root, store, nil)
			require.NoError(t, err)
			require.Len(t, results, 2)

			var skipped, analyzed int
			for _, r := range results {
				if !r.Skipped() {
					analyzed++
					continue
				}
				skipped++
				var classErr *errs.ClassAnalysisError
				require.True(t, errors.As(r.Err, &classErr))
				assert.Equal(t, r.Location, classErr.Location)
			}
			assert.Equal(t, 1, skipped)
			assert.Equal(t, 1, analyzed)
		})
	}
}

func TestExtract_UnreadableRoot(t *testing.T) {
	logger := testutils.MustLogger(t)
	_, err := New(logger).Extract(context.Background(), filepath.Join(t.TempDir(), "missing"), execdata.NewStore(), nil)
	var coded errs.Err
	require.True(t, errors.As(err, &coded), "Extract() error = %v", err)
	assert.Equal(t, "ERR::ROOT::READ", coded.Code)
}

func TestExtract_Cancelled(t *testing.T) {
	logger := testutils.MustLogger(t)
	root := t.TempDir()
	testutils.WriteProbeMap(t, root, testutils.NewClassFixture("com/acme/Foo", fooID, "Foo.java", 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(logger).Extract(ctx, root, execdata.NewStore(), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
