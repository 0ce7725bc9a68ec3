package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/LambdaTest/covdiff/pkg/diff"
	"github.com/LambdaTest/covdiff/pkg/global"
	"github.com/LambdaTest/covdiff/pkg/utils"
	"github.com/denisbrodbeck/machineid"
)

// InputFile is one execution record file that went into the report.
type InputFile struct {
	Path     string `json:"path"`
	Checksum string `json:"md5,omitempty"`
}

// Regressions counts the regressed classes and lines.
type Regressions struct {
	Classes       int `json:"classes"`
	PartlyCovered int `json:"partlyCovered"`
	NotCovered    int `json:"notCovered"`
}

// Manifest describes one generated report.
type Manifest struct {
	RunID       string      `json:"runId"`
	HostID      string      `json:"hostId,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	Titles      []string    `json:"titles"`
	Unit        string      `json:"unit"`
	ClassRoots  []string    `json:"classRoots"`
	SourceRoots []string    `json:"sourceRoots,omitempty"`
	Baseline    []InputFile `json:"baseline"`
	Comparison  []InputFile `json:"comparison"`
	Skipped     int         `json:"skipped"`
	// NoMatch lists classes whose execution records belong to another class version.
	NoMatch     []string    `json:"noMatch,omitempty"`
	Regressions Regressions `json:"regressions"`
	Pages       int         `json:"pages"`
}

// Document is the machine readable form of a report, written as diff.json.
type Document struct {
	RunID   string           `json:"runId"`
	Summary Summary          `json:"summary"`
	Index   []IndexEntry     `json:"index"`
	Classes []diff.ClassDiff `json:"classes"`
}

func inputFiles(paths []string) []InputFile {
	files := make([]InputFile, 0, len(paths))
	for _, p := range paths {
		checksum, _ := utils.ComputeChecksum(p)
		files = append(files, InputFile{Path: p, Checksum: checksum})
	}
	return files
}

// hostID returns an app specific machine id, empty when the platform has none.
func hostID() string {
	id, err := machineid.ProtectedID(global.BinaryName)
	if err != nil {
		return ""
	}
	return id
}

// LoadDocument reads diff.json from a report directory.
func LoadDocument(dir string) (*Document, error) {
	content, err := os.ReadFile(filepath.Join(dir, global.DiffJSONFileName))
	if err != nil {
		return nil, err
	}
	doc := new(Document)
	if err := json.Unmarshal(content, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifest reads manifest.json from a report directory.
func LoadManifest(dir string) (*Manifest, error) {
	content, err := os.ReadFile(filepath.Join(dir, global.ManifestFileName))
	if err != nil {
		return nil, err
	}
	m := new(Manifest)
	if err := json.Unmarshal(content, m); err != nil {
		return nil, err
	}
	return m, nil
}
