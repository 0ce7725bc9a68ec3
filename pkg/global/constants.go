package global

import (
	"os"
	"time"
)

// All constant related to covdiff
const (
	BinaryName            = "covdiff"
	IndexFileName         = "index.html"
	ChartFileName         = "chart.html"
	DiffJSONFileName      = "diff.json"
	ManifestFileName      = "manifest.json"
	ArchiveFileName       = "report.tar.zst"
	ResourcesDir          = ".resources"
	ClassReportSuffix     = ".java.html"
	SourceFileSuffix      = ".java"
	ReportTitle           = "Coverage comparison results"
	UnionCoverageTitle    = "Union Coverage"
	DefaultTitlePrefix    = "Test Suite"
	NotCoveredColor       = "#ff7a66"
	PartlyCoveredColor    = "#fff785"
	DifferentRowColor     = "#F5F507"
	ClassRowColor         = "#F7E4E4"
	TotalRowColor         = "#C3FAF9"
	DefaultPort           = "9876"
	DefaultHTTPTimeout    = 45 * time.Second
	DefaultUploadAttempts = 5
	EnvPrefix             = "COVDIFF"
	ProbeMapPattern       = "**/*.probes.{yml,yaml}"
)

// DirectoryPermissions is the mode report directories are created with.
const DirectoryPermissions os.FileMode = 0755

// FilePermissions is the mode report files are written with.
const FilePermissions os.FileMode = 0644

// ClassDirPatterns are the doublestar patterns matched below --root to find class output directories.
var ClassDirPatterns = []string{
	"**/target/classes",
	"**/build/classes/java/main",
	"**/build/classes/kotlin/main",
	"**/out/production/*",
}

// SourceDirPatterns are the doublestar patterns matched below --root to find source directories.
var SourceDirPatterns = []string{
	"**/src/main/java",
	"**/src/main/kotlin",
}
