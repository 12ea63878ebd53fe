package application

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/jinford/dev-ingest/internal/module/ingestion/domain"
)

// UploadService はファイルを外部パイプラインへ一括アップロードします
type UploadService struct {
	uploader domain.Uploader
	detector domain.Detector
	log      *slog.Logger
}

// UploadServiceOption は UploadService のオプション
type UploadServiceOption func(*UploadService)

// WithUploadLogger はロガーを設定します
func WithUploadLogger(logger *slog.Logger) UploadServiceOption {
	return func(s *UploadService) {
		s.log = logger
	}
}

// NewUploadService は新しいUploadServiceを作成します
func NewUploadService(uploader domain.Uploader, detector domain.Detector, opts ...UploadServiceOption) *UploadService {
	s := &UploadService{
		uploader: uploader,
		detector: detector,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UploadAll はすべてのファイルを並行にアップロードします
// 全件失敗した場合は件数と最初のエラーを含むエラーを返します
func (s *UploadService) UploadAll(ctx context.Context, files []domain.File) (*domain.Report, error) {
	if len(files) == 0 {
		return nil, domain.ErrNoDocuments
	}

	results := make([]domain.DocumentResult, len(files))
	var g errgroup.Group
	for i, f := range files {
		g.Go(func() error {
			results[i] = s.uploadOne(ctx, f)
			return nil
		})
	}
	_ = g.Wait()

	report := domain.NewReport(results)
	s.log.Info("upload completed", "succeeded", report.Succeeded, "failed", report.Failed)

	if report.Succeeded == 0 {
		return report, fmt.Errorf("%w: %d uploads, first error: %w", domain.ErrAllDocumentsFailed, report.Failed, report.FirstError())
	}
	return report, nil
}

func (s *UploadService) uploadOne(ctx context.Context, f domain.File) domain.DocumentResult {
	result := domain.DocumentResult{Name: f.Path}

	_, contentType, err := s.detector.Detect(f.Path, f.Content)
	if err != nil {
		result.Err = err
		return result
	}

	if err := s.uploader.Upload(ctx, f.Path, contentType, f.Content); err != nil {
		s.log.Warn("failed to upload file", "path", f.Path, "error", err)
		result.Err = err
	}
	return result
}
