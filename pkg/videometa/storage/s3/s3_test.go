package s3_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/ganachan/agentic-retrieval/pkg/videometa"
	s3backend "github.com/ganachan/agentic-retrieval/pkg/videometa/storage/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock S3 client for unit testing
type mockS3Client struct {
	mock.Mock
}

func (m *mockS3Client) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*s3.ListObjectsV2Output), args.Error(1)
}

func (m *mockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (m *mockS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*s3.HeadObjectOutput), args.Error(1)
}

func (m *mockS3Client) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*s3.HeadBucketOutput), args.Error(1)
}

func (m *mockS3Client) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(*s3.CreateBucketOutput), args.Error(1)
}

// Mock uploader
type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(*manager.UploadOutput), args.Error(1)
}

const bucket = "training-videos"

func TestList(t *testing.T) {
	mockClient := new(mockS3Client)
	backend := s3backend.NewWithClient(s3backend.Config{Bucket: bucket}, mockClient, new(mockUploader))

	mockClient.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(input *s3.ListObjectsV2Input) bool {
		return *input.Bucket == bucket && input.ContinuationToken == nil
	})).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("intermediate/react.mp4"), Size: aws.Int64(2048), ETag: aws.String("\"abc\"")},
		},
		IsTruncated:           aws.Bool(true),
		NextContinuationToken: aws.String("page-2"),
	}, nil).Once()

	mockClient.On("ListObjectsV2", mock.Anything, mock.MatchedBy(func(input *s3.ListObjectsV2Input) bool {
		return aws.ToString(input.ContinuationToken) == "page-2"
	})).Return(&s3.ListObjectsV2Output{
		Contents: []types.Object{
			{Key: aws.String("advanced-go.mp4"), Size: aws.Int64(1024)},
		},
		IsTruncated: aws.Bool(false),
	}, nil).Once()

	objects, err := backend.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "advanced-go.mp4", objects[0].Key)
	assert.Equal(t, "intermediate/react.mp4", objects[1].Key)
	assert.Equal(t, int64(2048), objects[1].Size)
	assert.Equal(t, "abc", objects[1].ETag)
	mockClient.AssertExpectations(t)
}

func TestUploadWithParams(t *testing.T) {
	key := "metadata/react.json"

	t.Run("overwrite uploads without checking", func(t *testing.T) {
		mockClient := new(mockS3Client)
		uploader := new(mockUploader)
		backend := s3backend.NewWithClient(s3backend.Config{Bucket: bucket}, mockClient, uploader)

		uploader.On("Upload", mock.Anything, mock.MatchedBy(func(input *s3.PutObjectInput) bool {
			return *input.Bucket == bucket && *input.Key == key && aws.ToString(input.ContentType) == "application/json"
		})).Return(&manager.UploadOutput{}, nil)

		err := backend.UploadWithParams(context.Background(), strings.NewReader("{}"), videometa.UploadParams{
			ObjectKey: key,
			MimeType:  "application/json",
			Overwrite: true,
		})
		require.NoError(t, err)
		uploader.AssertExpectations(t)
		mockClient.AssertNotCalled(t, "HeadObject", mock.Anything, mock.Anything)
	})

	t.Run("no overwrite on existing key", func(t *testing.T) {
		mockClient := new(mockS3Client)
		uploader := new(mockUploader)
		backend := s3backend.NewWithClient(s3backend.Config{Bucket: bucket}, mockClient, uploader)

		mockClient.On("HeadObject", mock.Anything, mock.Anything).Return(&s3.HeadObjectOutput{
			ContentLength: aws.Int64(2),
		}, nil)

		err := backend.UploadWithParams(context.Background(), strings.NewReader("{}"), videometa.UploadParams{
			ObjectKey: key,
		})
		assert.ErrorIs(t, err, videometa.ErrObjectExists)
		uploader.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
	})

	t.Run("no overwrite on missing key", func(t *testing.T) {
		mockClient := new(mockS3Client)
		uploader := new(mockUploader)
		backend := s3backend.NewWithClient(s3backend.Config{Bucket: bucket}, mockClient, uploader)

		mockClient.On("HeadObject", mock.Anything, mock.Anything).Return((*s3.HeadObjectOutput)(nil), &types.NotFound{})
		uploader.On("Upload", mock.Anything, mock.Anything).Return(&manager.UploadOutput{}, nil)

		err := backend.UploadWithParams(context.Background(), strings.NewReader("{}"), videometa.UploadParams{
			ObjectKey: key,
		})
		require.NoError(t, err)
		uploader.AssertExpectations(t)
	})
}

func TestDownload(t *testing.T) {
	mockClient := new(mockS3Client)
	backend := s3backend.NewWithClient(s3backend.Config{Bucket: bucket}, mockClient, new(mockUploader))

	mockClient.On("GetObject", mock.Anything, mock.MatchedBy(func(input *s3.GetObjectInput) bool {
		return *input.Key == "metadata/react.json"
	})).Return(&s3.GetObjectOutput{
		Body: io.NopCloser(strings.NewReader(`{"title":"React"}`)),
	}, nil)
	mockClient.On("GetObject", mock.Anything, mock.MatchedBy(func(input *s3.GetObjectInput) bool {
		return *input.Key == "metadata/missing.json"
	})).Return((*s3.GetObjectOutput)(nil), &types.NoSuchKey{})

	reader, err := backend.Download(context.Background(), "metadata/react.json")
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"React"}`, string(data))

	_, err = backend.Download(context.Background(), "metadata/missing.json")
	assert.ErrorIs(t, err, videometa.ErrObjectNotFound)
}

func TestGetPublicURL(t *testing.T) {
	tests := []struct {
		name   string
		config s3backend.Config
		want   string
	}{
		{
			name:   "virtual hosted",
			config: s3backend.Config{Bucket: bucket, Region: "eu-west-1"},
			want:   "https://training-videos.s3.eu-west-1.amazonaws.com/beginner/Go%20Intro.mp4",
		},
		{
			name:   "custom endpoint",
			config: s3backend.Config{Bucket: bucket, Endpoint: "http://localhost:9000/"},
			want:   "http://localhost:9000/training-videos/beginner/Go%20Intro.mp4",
		},
		{
			name:   "public base URL",
			config: s3backend.Config{Bucket: bucket, Endpoint: "http://localhost:9000", PublicBaseURL: "https://cdn.example.com"},
			want:   "https://cdn.example.com/beginner/Go%20Intro.mp4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := s3backend.NewWithClient(tt.config, new(mockS3Client), new(mockUploader))
			got, err := backend.GetPublicURL(context.Background(), "beginner/Go Intro.mp4")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := s3backend.New(s3backend.Config{})
	assert.Error(t, err)
}
