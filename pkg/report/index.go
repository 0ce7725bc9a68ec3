package report

import (
	"bufio"
	"os"

	"github.com/LambdaTest/covdiff/pkg/core"
	"github.com/LambdaTest/covdiff/pkg/diff"
	"github.com/LambdaTest/covdiff/pkg/errs"
	"github.com/LambdaTest/covdiff/pkg/global"
)

const maxSourceLine = 1024 * 1024

// IndexEntry is one regressed class listed in the report index.
type IndexEntry struct {
	Package       string          `json:"package"`
	Class         string          `json:"class"`
	Href          string          `json:"href"`
	PartlyCovered int             `json:"partlyCovered"`
	NotCovered    int             `json:"notCovered"`
	Severity      core.LineStatus `json:"severity"`
	Color         string          `json:"color"`
}

// FeedLine is one physical source line of a class page.
type FeedLine struct {
	Number    int    `json:"number"`
	Text      string `json:"text"`
	Highlight string `json:"highlight,omitempty"`
}

// Color returns the highlight color of a classification, empty when none.
func Color(status core.LineStatus) string {
	switch status {
	case core.NotCovered:
		return global.NotCoveredColor
	case core.PartlyCovered:
		return global.PartlyCoveredColor
	default:
		return ""
	}
}

// BuildIndex lists the regressed classes whose source can be resolved, in
// classification order.
func BuildIndex(result *diff.Result, resolver *SourceResolver) []IndexEntry {
	entries := make([]IndexEntry, 0, len(result.Classes))
	for _, c := range result.Classes {
		if _, ok := resolver.Resolve(c.Package, c.Class); !ok {
			continue
		}
		entries = append(entries, IndexEntry{
			Package:       c.Package,
			Class:         c.Class,
			Href:          ReportPath(c.Package, c.Class),
			PartlyCovered: c.PartlyCovered,
			NotCovered:    c.NotCovered,
			Severity:      c.Severity,
			Color:         Color(c.Severity),
		})
	}
	return entries
}

// RenderFeed reads the source of a class line by line and tags every line with
// the color of its classification. Lines without classification get none.
func RenderFeed(result *diff.Result, resolver *SourceResolver, pkg, class string) ([]FeedLine, error) {
	source, ok := resolver.Resolve(pkg, class)
	if !ok {
		return nil, errs.ErrNotFound
	}
	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var feed []FeedLine
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSourceLine)
	for number := 1; scanner.Scan(); number++ {
		line := FeedLine{Number: number, Text: scanner.Text()}
		if status, ok := result.Lookup(pkg, class, number); ok {
			line.Highlight = Color(status)
		}
		feed = append(feed, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return feed, nil
}
