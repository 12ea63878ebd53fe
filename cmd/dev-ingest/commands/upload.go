package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	ingestion "github.com/jinford/dev-ingest/internal/module/ingestion/domain"
)

// UploadAction はファイルをリモートの取り込みサービスへアップロードするコマンドのアクション
func UploadAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	paths := cmd.StringSlice("path")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	svc, err := appCtx.Container.UploadService()
	if err != nil {
		return fmt.Errorf("アップロードサービスの初期化に失敗: %w", err)
	}

	var files []ingestion.File
	for _, p := range paths {
		fs, err := appCtx.Container.LocalSource(p).Files(ctx)
		if err != nil {
			return fmt.Errorf("ファイルの読み込みに失敗: %w", err)
		}
		files = append(files, fs...)
	}

	report, err := svc.UploadAll(ctx, files)
	if report != nil {
		renderReport(output(cmd), report)
	}
	if err != nil {
		return fmt.Errorf("アップロードに失敗: %w", err)
	}
	return nil
}
