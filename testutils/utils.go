package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/LambdaTest/covdiff/pkg/core"
	"github.com/LambdaTest/covdiff/pkg/execdata"
	"github.com/LambdaTest/covdiff/pkg/lumber"
	"gopkg.in/yaml.v3"
)

// GetLogger returns a dummy lumber.Logger.
func GetLogger() (lumber.Logger, error) {
	logger, err := lumber.NewLogger(lumber.LoggingConfig{ConsoleLevel: lumber.Debug}, true, lumber.InstanceLogrusLogger)
	if err != nil {
		return nil, err
	}

	return logger, nil
}

// MustLogger returns the dummy logger or fails the test.
func MustLogger(t testing.TB) lumber.Logger {
	t.Helper()
	logger, err := GetLogger()
	if err != nil {
		t.Fatalf("Couldn't initialize logger, error: %v", err)
	}
	return logger
}

// LineFixture is the probe layout of one source line.
type LineFixture struct {
	Line         int   `yaml:"line"`
	Instructions []int `yaml:"instructions"`
	Branches     []int `yaml:"branches,omitempty"`
}

// ClassFixture describes one class artifact written as a probe map.
type ClassFixture struct {
	Class  string        `yaml:"class"`
	ID     string        `yaml:"id"`
	Source string        `yaml:"source"`
	Probes int           `yaml:"probes"`
	Lines  []LineFixture `yaml:"lines"`
}

// NewClassFixture builds a class fixture with one probe per listed line, in order.
func NewClassFixture(name string, id core.ClassID, source string, lines ...int) ClassFixture {
	fixture := ClassFixture{Class: name, ID: id.String(), Source: source, Probes: len(lines)}
	for i, l := range lines {
		fixture.Lines = append(fixture.Lines, LineFixture{Line: l, Instructions: []int{i}})
	}
	return fixture
}

// WriteProbeMap writes the fixture below root and returns the file path.
func WriteProbeMap(t testing.TB, root string, fixture ClassFixture) string {
	t.Helper()
	content, err := yaml.Marshal(fixture)
	if err != nil {
		t.Fatalf("Couldn't encode probe map, error: %v", err)
	}
	path := filepath.Join(root, filepath.FromSlash(fixture.Class)+".probes.yml")
	writeFile(t, path, content)
	return path
}

// WriteExecFile writes the records as an execution record file and returns its path.
func WriteExecFile(t testing.TB, path string, records ...*core.ExecutionRecord) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Couldn't create directory, error: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Couldn't create file, error: %v", err)
	}
	defer f.Close()
	w, err := execdata.NewWriter(f)
	if err != nil {
		t.Fatalf("Couldn't write header, error: %v", err)
	}
	for _, rec := range records {
		if err := w.WriteRecord(rec); err != nil {
			t.Fatalf("Couldn't write record, error: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Couldn't flush records, error: %v", err)
	}
	return path
}

// WriteSource writes a source file of the given lines below root.
func WriteSource(t testing.TB, root, rel string, lines ...string) string {
	t.Helper()
	var content []byte
	for _, l := range lines {
		content = append(content, l...)
		content = append(content, '\n')
	}
	path := filepath.Join(root, filepath.FromSlash(rel))
	writeFile(t, path, content)
	return path
}

// Record returns an execution record with the given probe hits.
func Record(id core.ClassID, name string, probes ...bool) *core.ExecutionRecord {
	return &core.ExecutionRecord{ID: id, Name: name, Probes: probes}
}

func writeFile(t testing.TB, path string, content []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Couldn't create directory, error: %v", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Couldn't write file, error: %v", err)
	}
}
