package report

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/LambdaTest/covdiff/pkg/global"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed assets
var assetFS embed.FS

var templates = template.Must(template.New("report").Funcs(template.FuncMap{
	"bg": func(color string) template.CSS {
		if color == "" {
			return ""
		}
		// colors are constants, never user input
		return template.CSS("background-color:" + color)
	},
	"different": func() string { return global.DifferentRowColor },
	"percent":   func(p float64) string { return fmt.Sprintf("%.0f", p) },
}).ParseFS(templateFS, "templates/*.html"))

type indexPage struct {
	Title     string
	Resources string
	RunID     string
	CreatedAt string
	Index     []IndexEntry
	Summary   Summary
	Skipped   int
	NoMatch   []string
}

type classPage struct {
	Title         string
	Resources     string
	Index         string
	Package       string
	Class         string
	PartlyCovered int
	NotCovered    int
	Lines         []FeedLine
}

func renderIndex(w io.Writer, page *indexPage) error {
	return templates.ExecuteTemplate(w, "index.html", page)
}

func renderClass(w io.Writer, page *classPage) error {
	return templates.ExecuteTemplate(w, "class.html", page)
}

// up returns the relative path from the directory of a slash separated report
// path back to the report root.
func up(reportPath string) string {
	depth := strings.Count(reportPath, "/")
	if depth == 0 {
		return "."
	}
	return strings.TrimSuffix(strings.Repeat("../", depth), "/")
}

// assets returns the embedded static report resources.
func assets() fs.FS {
	sub, err := fs.Sub(assetFS, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
