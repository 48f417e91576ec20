package azure

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/ganachan/agentic-retrieval/pkg/videometa"
)

// Config options for the Azure Blob Storage backend
type Config struct {
	ConnectionString string // Storage account connection string
	Container        string // Container holding the videos

	CreateContainerIfNotExist bool
}

// Backend is an Azure Blob Storage implementation of the videometa.BlobStore interface
type Backend struct {
	client    *azblob.Client
	container string
}

// New creates a new Azure Blob Storage backend from a connection string
func New(config Config) (*Backend, error) {
	if config.ConnectionString == "" {
		return nil, errors.New("connection string is required")
	}
	if config.Container == "" {
		return nil, errors.New("container name is required")
	}

	client, err := azblob.NewClientFromConnectionString(config.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	backend := &Backend{
		client:    client,
		container: config.Container,
	}

	if config.CreateContainerIfNotExist {
		_, err := client.CreateContainer(context.Background(), config.Container, nil)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			return nil, fmt.Errorf("failed to create container: %w", err)
		}
	}

	return backend, nil
}

// List pages through the flat blob listing and returns every blob under prefix
func (b *Backend) List(ctx context.Context, prefix string) ([]*videometa.ObjectMeta, error) {
	opts := &azblob.ListBlobsFlatOptions{}
	if prefix != "" {
		opts.Prefix = &prefix
	}

	var metas []*videometa.ObjectMeta
	pager := b.client.NewListBlobsFlatPager(b.container, opts)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list blobs: %w", err)
		}
		if page.Segment == nil {
			continue
		}
		for _, item := range page.Segment.BlobItems {
			if item.Name == nil {
				continue
			}
			meta := &videometa.ObjectMeta{Key: *item.Name}
			if props := item.Properties; props != nil {
				if props.ContentLength != nil {
					meta.Size = *props.ContentLength
				}
				if props.ContentType != nil {
					meta.ContentType = *props.ContentType
				}
				if props.LastModified != nil {
					meta.UpdatedAt = *props.LastModified
				}
				if props.ETag != nil {
					meta.ETag = strings.Trim(string(*props.ETag), "\"")
				}
			}
			metas = append(metas, meta)
		}
	}

	sort.Slice(metas, func(i, j int) bool { return metas[i].Key < metas[j].Key })
	return metas, nil
}

// GetObjectMeta retrieves the blob's properties
func (b *Backend) GetObjectMeta(ctx context.Context, objectKey string) (*videometa.ObjectMeta, error) {
	props, err := b.client.ServiceClient().
		NewContainerClient(b.container).
		NewBlobClient(objectKey).
		GetProperties(ctx, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, videometa.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to get blob properties: %w", err)
	}

	meta := &videometa.ObjectMeta{Key: objectKey}
	if props.ContentLength != nil {
		meta.Size = *props.ContentLength
	}
	if props.ContentType != nil {
		meta.ContentType = *props.ContentType
	}
	if props.LastModified != nil {
		meta.UpdatedAt = *props.LastModified
	}
	if props.ETag != nil {
		meta.ETag = strings.Trim(string(*props.ETag), "\"")
	}
	return meta, nil
}

// Upload uploads content directly, replacing any existing blob
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader) error {
	return b.UploadWithParams(ctx, reader, videometa.UploadParams{
		ObjectKey: objectKey,
		Overwrite: true,
	})
}

// UploadWithParams uploads content as a block blob. Without Overwrite the
// write is conditional on the blob not existing.
func (b *Backend) UploadWithParams(ctx context.Context, reader io.Reader, params videometa.UploadParams) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read upload body: %w", err)
	}

	opts := &azblob.UploadBufferOptions{}
	if params.MimeType != "" {
		opts.HTTPHeaders = &blob.HTTPHeaders{BlobContentType: &params.MimeType}
	}
	if !params.Overwrite {
		etagAny := azcore.ETagAny
		opts.AccessConditions = &blob.AccessConditions{
			ModifiedAccessConditions: &blob.ModifiedAccessConditions{IfNoneMatch: &etagAny},
		}
	}

	_, err = b.client.UploadBuffer(ctx, b.container, params.ObjectKey, data, opts)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobAlreadyExists, bloberror.ConditionNotMet) {
			return videometa.ErrObjectExists
		}
		return fmt.Errorf("failed to upload blob: %w", err)
	}
	return nil
}

// Download downloads the blob body
func (b *Backend) Download(ctx context.Context, objectKey string) (io.ReadCloser, error) {
	resp, err := b.client.DownloadStream(ctx, b.container, objectKey, nil)
	if err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return nil, videometa.ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}
	if resp.Body == nil {
		return io.NopCloser(bytes.NewReader(nil)), nil
	}
	return resp.Body, nil
}

// GetPublicURL returns https://<account>.blob.core.windows.net/<container>/<escaped key>
func (b *Backend) GetPublicURL(ctx context.Context, objectKey string) (string, error) {
	return PublicURL(b.client.URL(), b.container, objectKey), nil
}

// PublicURL joins a service URL, container and key into a blob URL
func PublicURL(serviceURL, container, objectKey string) string {
	return fmt.Sprintf("%s/%s/%s", strings.TrimSuffix(serviceURL, "/"), container, videometa.EscapeKey(objectKey))
}
