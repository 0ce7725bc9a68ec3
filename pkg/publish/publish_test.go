package publish

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/LambdaTest/covdiff/pkg/errs"
	"github.com/LambdaTest/covdiff/pkg/global"
	"github.com/LambdaTest/covdiff/testutils"
	"github.com/cenkalti/backoff/v4"
	"github.com/mholt/archiver/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("connection reset")

// fakeAzureClient fails the first failures calls of every blob path.
type fakeAzureClient struct {
	mu       sync.Mutex
	failures int
	calls    map[string]int
	blobs    map[string]string
}

func newFakeAzureClient(failures int) *fakeAzureClient {
	return &fakeAzureClient{failures: failures, calls: map[string]int{}, blobs: map[string]string{}}
}

func (f *fakeAzureClient) Create(ctx context.Context, path string, reader io.Reader, mimeType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[path]++
	if f.failures < 0 || f.calls[path] <= f.failures {
		return "", errTransient
	}
	content, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.blobs[path] = string(content)
	return "https://blob/" + path, nil
}

func noWait(retries uint64) Option {
	return WithBackOff(func() backoff.BackOff {
		return backoff.WithMaxRetries(&backoff.ZeroBackOff{}, retries)
	})
}

func writeReportDir(t *testing.T, files ...string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "report")
	for _, name := range files {
		testutils.WriteSource(t, dir, name, "content of "+name)
	}
	return dir
}

func TestPublish_Archive(t *testing.T) {
	dir := writeReportDir(t, global.IndexFileName, "com/acme/Foo.java.html")

	locations, err := New(testutils.MustLogger(t)).Publish(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, filepath.Join(filepath.Dir(dir), "report-"+global.ArchiveFileName), locations[0])

	out := t.TempDir()
	require.NoError(t, archiver.NewTarZstd().Unarchive(locations[0], out))
	content, err := os.ReadFile(filepath.Join(out, "report", "com", "acme", "Foo.java.html"))
	require.NoError(t, err)
	assert.Equal(t, "content of com/acme/Foo.java.html\n", string(content))

	// a second run replaces the archive
	_, err = New(testutils.MustLogger(t)).Publish(context.Background(), dir)
	assert.NoError(t, err)
}

func TestPublish_Upload(t *testing.T) {
	files := []string{global.IndexFileName, global.DiffJSONFileName, global.ManifestFileName}
	tests := []struct {
		name      string
		files     []string
		failures  int
		wantErr   bool
		wantCalls map[string]int
	}{
		{
			"uploads archive and summary files",
			files,
			0,
			false,
			map[string]int{"run/report-report.tar.zst": 1, "run/index.html": 1, "run/diff.json": 1, "run/manifest.json": 1},
		},
		{
			"retries transient failures",
			files,
			2,
			false,
			map[string]int{"run/report-report.tar.zst": 3, "run/index.html": 3, "run/diff.json": 3, "run/manifest.json": 3},
		},
		{
			"gives up after the last attempt",
			files,
			-1,
			true,
			map[string]int{"run/report-report.tar.zst": 3},
		},
		{
			"missing file is not retried",
			[]string{global.IndexFileName},
			0,
			true,
			map[string]int{"run/report-report.tar.zst": 1, "run/index.html": 1},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeReportDir(t, tt.files...)
			client := newFakeAzureClient(tt.failures)
			p := New(testutils.MustLogger(t), WithUpload(client, "run"), noWait(2))

			locations, err := p.Publish(context.Background(), dir)
			if (err != nil) != tt.wantErr {
				t.Errorf("Publish() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			assert.Equal(t, tt.wantCalls, client.calls)
			if tt.wantErr {
				var coded errs.Err
				require.True(t, errors.As(err, &coded))
				assert.Equal(t, "ERR::UPL", coded.Code)
				return
			}
			require.Len(t, locations, 5)
			assert.Equal(t, "https://blob/run/index.html", locations[2])
			assert.Equal(t, "content of index.html\n", client.blobs["run/index.html"])
		})
	}
}

func TestPublish_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(testutils.MustLogger(t)).Publish(ctx, writeReportDir(t, global.IndexFileName))
	assert.ErrorIs(t, err, context.Canceled)
}
