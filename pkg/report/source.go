package report

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/LambdaTest/covdiff/pkg/global"
)

// SourceResolver locates class sources below an ordered list of source roots.
type SourceResolver struct {
	roots []string
}

// NewSourceResolver returns a resolver searching roots in order.
func NewSourceResolver(roots []string) *SourceResolver {
	return &SourceResolver{roots: roots}
}

// SourcePath returns the slash separated source path of a class relative to a
// source root: nested class suffixes starting at the first '$' are dropped and
// the package dots become directories.
func SourcePath(pkg, class string) string {
	if i := strings.IndexByte(class, '$'); i >= 0 {
		class = class[:i]
	}
	return path.Join(strings.ReplaceAll(pkg, ".", "/"), class+global.SourceFileSuffix)
}

// ReportPath returns the slash separated path of the class page inside the report.
func ReportPath(pkg, class string) string {
	return path.Join(strings.ReplaceAll(pkg, ".", "/"), class+global.ClassReportSuffix)
}

// Resolve returns the source file of the class in the first root holding it.
func (r *SourceResolver) Resolve(pkg, class string) (string, bool) {
	rel := filepath.FromSlash(SourcePath(pkg, class))
	for _, root := range r.roots {
		candidate := filepath.Join(root, rel)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, true
		}
	}
	return "", false
}
