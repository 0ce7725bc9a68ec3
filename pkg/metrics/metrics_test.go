package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LambdaTest/covdiff/pkg/diff"
	"github.com/LambdaTest/covdiff/pkg/report"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocument() *report.Document {
	return &report.Document{
		RunID: "run",
		Summary: report.Summary{
			Titles: []string{"unit", "it", "Union Coverage"},
			Unit:   "lines",
			Totals: report.Row{Cells: []report.Cell{{Covered: 8, Total: 10}, {Covered: 6, Total: 10}, {Covered: 9, Total: 10}}},
		},
		Classes: []diff.ClassDiff{
			{Package: "com.acme", Class: "Foo", PartlyCovered: 1, NotCovered: 2},
			{Package: "com.acme", Class: "Bar", NotCovered: 1},
		},
	}
}

func TestCollector_Observe(t *testing.T) {
	c := New()
	c.Observe(testDocument(), 4)

	assert.Equal(t, float64(8), testutil.ToFloat64(c.covered.WithLabelValues("unit", "lines")))
	assert.Equal(t, float64(9), testutil.ToFloat64(c.covered.WithLabelValues("Union Coverage", "lines")))
	assert.Equal(t, float64(10), testutil.ToFloat64(c.total.WithLabelValues("it", "lines")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.regressedLines.WithLabelValues("partly-covered")))
	assert.Equal(t, float64(3), testutil.ToFloat64(c.regressedLines.WithLabelValues("not-covered")))
	assert.Equal(t, float64(2), testutil.ToFloat64(c.regressedClasses))
	assert.Equal(t, float64(4), testutil.ToFloat64(c.skipped))

	// a second report replaces the suites of the first
	doc := testDocument()
	doc.Summary.Titles = []string{"a", "b", "Union Coverage"}
	c.Observe(doc, 0)
	assert.Equal(t, 3, testutil.CollectAndCount(c.covered))
}

func TestCollector_Handler(t *testing.T) {
	c := New()
	c.Observe(testDocument(), 0)

	resp := httptest.NewRecorder()
	c.Handler().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `covdiff_covered_units{suite="unit",unit="lines"} 8`)
	assert.Contains(t, resp.Body.String(), "covdiff_regressed_classes 2")
}
