package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/jinford/dev-ingest/internal/platform/config"
	"github.com/jinford/dev-ingest/internal/platform/container"
	"github.com/jinford/dev-ingest/internal/platform/logger"
)

// AppContext はコマンド実行に必要な共通コンテキストを保持する
type AppContext struct {
	Config    *config.Config
	Container *container.ServiceContainer
}

// NewAppContext は設定ファイルを読み込み AppContext を作成する
// DBや外部APIへの接続は各サービスの初回取得時に行う
func NewAppContext(_ context.Context, envFile string) (*AppContext, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("設定の読み込みに失敗: %w", err)
	}

	appLogger := logger.New(logger.Config{
		Level:  cfg.Log.SlogLevel(),
		Format: cfg.Log.Format,
	})

	cont, err := container.New(cfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("コンテナの初期化に失敗: %w", err)
	}

	return &AppContext{
		Config:    cfg,
		Container: cont,
	}, nil
}

// Close はAppContextが保持するリソースをクリーンアップする
func (ac *AppContext) Close() {
	if ac.Container != nil {
		ac.Container.Close()
	}
}

// Logger はAppContextのロガーを返す
func (ac *AppContext) Logger() *slog.Logger {
	if ac.Container != nil {
		return ac.Container.Logger()
	}
	return slog.Default()
}

// output はコマンド結果の出力先を返す
func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}
