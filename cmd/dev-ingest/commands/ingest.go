package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	ingestion "github.com/jinford/dev-ingest/internal/module/ingestion/domain"
)

// IngestFileAction は単一ファイルを取り込むコマンドのアクション
func IngestFileAction(ctx context.Context, cmd *cli.Command) error {
	if err := checkPath(cmd.String("path"), false); err != nil {
		return err
	}
	return ingest(ctx, cmd, func(appCtx *AppContext) ingestion.Source {
		return appCtx.Container.LocalSource(cmd.String("path"))
	})
}

// IngestDirAction はディレクトリ配下のファイルを取り込むコマンドのアクション
func IngestDirAction(ctx context.Context, cmd *cli.Command) error {
	if err := checkPath(cmd.String("path"), true); err != nil {
		return err
	}
	return ingest(ctx, cmd, func(appCtx *AppContext) ingestion.Source {
		return appCtx.Container.LocalSource(cmd.String("path"))
	})
}

// IngestGitAction はGitリポジトリを取り込むコマンドのアクション
func IngestGitAction(ctx context.Context, cmd *cli.Command) error {
	return ingest(ctx, cmd, func(appCtx *AppContext) ingestion.Source {
		return appCtx.Container.GitSource(cmd.String("url"), cmd.String("ref"))
	})
}

func ingest(ctx context.Context, cmd *cli.Command, newSource func(*AppContext) ingestion.Source) error {
	envFile := cmd.String("env")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	svc, err := appCtx.Container.IngestService(ctx)
	if err != nil {
		return fmt.Errorf("取り込みサービスの初期化に失敗: %w", err)
	}

	report, err := svc.IngestSource(ctx, newSource(appCtx))
	if report != nil {
		renderReport(output(cmd), report)
	}
	if err != nil {
		return fmt.Errorf("取り込みに失敗: %w", err)
	}
	return nil
}

// checkPath はパスが存在し、期待する種類（ディレクトリかファイル）であることを確認する
func checkPath(path string, wantDir bool) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("パスを確認できません: %w", err)
	}
	if info.IsDir() != wantDir {
		if wantDir {
			return fmt.Errorf("%s はディレクトリではありません", path)
		}
		return fmt.Errorf("%s はファイルではありません", path)
	}
	return nil
}
