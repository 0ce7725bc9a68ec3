package azure

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/LambdaTest/covdiff/config"
	"github.com/LambdaTest/covdiff/pkg/core"
	"github.com/LambdaTest/covdiff/pkg/errs"
	"github.com/LambdaTest/covdiff/pkg/lumber"
)

var (
	defaultBufferSize int64 = 3 * 1024 * 1024
	defaultMaxBuffers       = 4
	defaultMaxRetries int32 = 3
)

// Store represents the azure storage
type Store struct {
	containerName string
	serviceURL    string
	client        *azblob.Client
	logger        lumber.Logger
}

// NewAzureBlobEnv returns a new Azure blob store.
func NewAzureBlobEnv(cfg *config.Config, logger lumber.Logger) (core.AzureClient, error) {
	if len(cfg.Azure.StorageAccountName) == 0 || len(cfg.Azure.StorageAccessKey) == 0 {
		return nil, errs.ErrAzureCredentials
	}
	credential, err := azblob.NewSharedKeyCredential(cfg.Azure.StorageAccountName, cfg.Azure.StorageAccessKey)
	if err != nil {
		return nil, err
	}

	serviceURL := cfg.Azure.ServiceURL
	if serviceURL == "" {
		serviceURL = fmt.Sprintf("https://%s.blob.core.windows.net/", cfg.Azure.StorageAccountName)
	}
	if _, err := url.Parse(serviceURL); err != nil {
		return nil, err
	}
	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, &azblob.ClientOptions{
		ClientOptions: policy.ClientOptions{Retry: policy.RetryOptions{MaxRetries: defaultMaxRetries}},
	})
	if err != nil {
		return nil, err
	}
	return &Store{
		containerName: cfg.Azure.ContainerName,
		serviceURL:    strings.TrimSuffix(serviceURL, "/"),
		client:        client,
		logger:        logger,
	}, nil
}

// Create function uploads blob to path and returns the blob url
func (s *Store) Create(ctx context.Context, path string, reader io.Reader, mimeType string) (string, error) {
	_, err := s.client.UploadStream(ctx, s.containerName, path, reader, &azblob.UploadStreamOptions{
		BlockSize:   defaultBufferSize,
		Concurrency: defaultMaxBuffers,
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: to.Ptr(mimeType)},
	})
	if err != nil {
		s.logger.Errorf("failed to upload blob %s, error: %v", path, err)
		return "", handleError(err)
	}
	return fmt.Sprintf("%s/%s/%s", s.serviceURL, s.containerName, path), nil
}

func handleError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case bloberror.HasCode(err, bloberror.ContainerNotFound, bloberror.BlobNotFound):
		return errs.ErrNotFound
	case bloberror.HasCode(err, bloberror.AuthenticationFailed, bloberror.AuthorizationFailure):
		return errs.ErrAzureCredentials
	default:
		return err
	}
}
