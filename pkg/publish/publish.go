// Package publish archives a finished report and ships it to blob storage.
package publish

import (
	"context"
	"mime"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/LambdaTest/covdiff/pkg/core"
	"github.com/LambdaTest/covdiff/pkg/errs"
	"github.com/LambdaTest/covdiff/pkg/global"
	"github.com/LambdaTest/covdiff/pkg/lumber"
	"github.com/cenkalti/backoff/v4"
	"github.com/docker/go-units"
	"github.com/mholt/archiver/v3"
)

// uploaded lists the report files pushed next to the archive.
var uploaded = []string{global.IndexFileName, global.DiffJSONFileName, global.ManifestFileName}

type publisher struct {
	logger  lumber.Logger
	client  core.AzureClient
	prefix  string
	backOff func() backoff.BackOff
}

// Option configures a publisher.
type Option func(p *publisher)

// WithUpload uploads the archive and the report summary files below prefix.
func WithUpload(client core.AzureClient, prefix string) Option {
	return func(p *publisher) {
		p.client = client
		p.prefix = prefix
	}
}

// WithBackOff replaces the upload retry policy.
func WithBackOff(newBackOff func() backoff.BackOff) Option {
	return func(p *publisher) {
		p.backOff = newBackOff
	}
}

// New returns a Publisher writing a tar.zst archive next to the report
// directory, uploading it when configured.
func New(logger lumber.Logger, opts ...Option) core.Publisher {
	p := &publisher{
		logger: logger,
		backOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), global.DefaultUploadAttempts-1)
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish returns the archive path followed by the uploaded blob urls.
func (p *publisher) Publish(ctx context.Context, reportDir string) ([]string, error) {
	archive, err := p.archive(ctx, reportDir)
	if err != nil {
		return nil, err
	}
	locations := []string{archive}
	if p.client == nil {
		return locations, nil
	}

	files := make([]string, 0, len(uploaded)+1)
	files = append(files, archive)
	for _, name := range uploaded {
		files = append(files, filepath.Join(reportDir, name))
	}
	for _, file := range files {
		url, err := p.upload(ctx, file)
		if err != nil {
			return nil, errs.ErrUpload(err.Error())
		}
		locations = append(locations, url)
	}
	return locations, nil
}

// archive packs reportDir into a sibling tar.zst file.
func (p *publisher) archive(ctx context.Context, reportDir string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	abs, err := filepath.Abs(reportDir)
	if err != nil {
		return "", err
	}
	dst := filepath.Join(filepath.Dir(abs), filepath.Base(abs)+"-"+global.ArchiveFileName)

	start := time.Now()
	tz := archiver.NewTarZstd()
	tz.OverwriteExisting = true
	if err := tz.Archive([]string{abs}, dst); err != nil {
		p.logger.Errorf("failed to archive report %s, error: %v", abs, err)
		return "", &errs.ReportIOError{Path: dst, Err: err}
	}
	info, err := os.Stat(dst)
	if err != nil {
		return "", &errs.ReportIOError{Path: dst, Err: err}
	}
	p.logger.Infof("report archived to %s (%s) in %s", dst, units.HumanSize(float64(info.Size())), time.Since(start).Round(time.Millisecond))
	return dst, nil
}

func (p *publisher) upload(ctx context.Context, file string) (string, error) {
	blobPath := path.Join(p.prefix, filepath.Base(file))
	mimeType := mime.TypeByExtension(filepath.Ext(file))
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	var url string
	attempt := 0
	operation := func() error {
		attempt++
		f, err := os.Open(file)
		if err != nil {
			return backoff.Permanent(err)
		}
		defer f.Close()
		url, err = p.client.Create(ctx, blobPath, f, mimeType)
		return err
	}
	notify := func(err error, wait time.Duration) {
		p.logger.Warnf("upload of %s failed on attempt %d, retrying in %s, error: %v", blobPath, attempt, wait, err)
	}
	if err := backoff.RetryNotify(operation, backoff.WithContext(p.backOff(), ctx), notify); err != nil {
		p.logger.Errorf("failed to upload %s, error: %v", blobPath, err)
		return "", err
	}
	p.logger.Debugf("uploaded %s to %s", file, url)
	return url, nil
}
