package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/dev-ingest/internal/module/ingestion/application"
	"github.com/jinford/dev-ingest/internal/module/ingestion/domain"
	testutil "github.com/jinford/dev-ingest/internal/module/ingestion/testing"
)

func TestUploadService_UploadAll_Success(t *testing.T) {
	// Setup
	uploader := &testutil.MockUploader{}
	service := application.NewUploadService(uploader, &testutil.MockDetector{}, application.WithUploadLogger(newTestLogger()))
	files := []domain.File{
		testutil.TestFile("a.csv", "x\n1\n"),
		testutil.TestFile("b.csv", "y\n2\n"),
	}

	// Execute
	report, err := service.UploadAll(context.Background(), files)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, report.Succeeded)
	assert.ElementsMatch(t, []string{"a.csv", "b.csv"}, uploader.Uploaded)
}

func TestUploadService_UploadAll_PartialFailure(t *testing.T) {
	// Setup
	uploader := &testutil.MockUploader{
		UploadFunc: func(ctx context.Context, name, contentType string, content []byte) error {
			if name == "b.csv" {
				return errors.New("upload rejected")
			}
			return nil
		},
	}
	service := application.NewUploadService(uploader, &testutil.MockDetector{}, application.WithUploadLogger(newTestLogger()))
	files := []domain.File{
		testutil.TestFile("a.csv", "x\n1\n"),
		testutil.TestFile("b.csv", "y\n2\n"),
	}

	// Execute
	report, err := service.UploadAll(context.Background(), files)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
}

func TestUploadService_UploadAll_AllFailed(t *testing.T) {
	// Setup
	uploadErr := errors.New("upload rejected")
	uploader := &testutil.MockUploader{
		UploadFunc: func(ctx context.Context, name, contentType string, content []byte) error {
			return uploadErr
		},
	}
	service := application.NewUploadService(uploader, &testutil.MockDetector{}, application.WithUploadLogger(newTestLogger()))

	// Execute
	_, err := service.UploadAll(context.Background(), []domain.File{testutil.TestFile("a.csv", "x\n1\n")})

	// Assert
	assert.ErrorIs(t, err, domain.ErrAllDocumentsFailed)
	assert.ErrorIs(t, err, uploadErr)
	assert.Contains(t, err.Error(), "1 uploads")
}

func TestUploadService_UploadAll_NoFiles(t *testing.T) {
	service := application.NewUploadService(&testutil.MockUploader{}, &testutil.MockDetector{})

	_, err := service.UploadAll(context.Background(), nil)

	assert.ErrorIs(t, err, domain.ErrNoDocuments)
}
