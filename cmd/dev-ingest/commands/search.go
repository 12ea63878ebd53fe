package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	llm "github.com/jinford/dev-ingest/internal/module/llm/domain"
	searchapp "github.com/jinford/dev-ingest/internal/module/search/application"
	search "github.com/jinford/dev-ingest/internal/module/search/domain"
)

// SearchAction はクエリに近いチャンクを検索するコマンドのアクション
func SearchAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	query := cmd.String("query")
	limit := int(cmd.Int("limit"))
	remote := cmd.Bool("remote")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	svc, err := appCtx.Container.SearchService(ctx, remote, search.DefaultNumResults)
	if err != nil {
		return fmt.Errorf("検索サービスの初期化に失敗: %w", err)
	}

	result, err := svc.Search(ctx, search.SearchParams{
		Query:      query,
		NumResults: limit,
		Rerank:     !cmd.Bool("no-rerank"),
	})
	if err != nil {
		return err
	}

	renderSearchResult(output(cmd), result)
	return nil
}

// AskAction は取り込み済みドキュメントを根拠に質問へ回答するコマンドのアクション
func AskAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	query := cmd.String("query")
	limit := int(cmd.Int("limit"))
	remote := cmd.Bool("remote")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	svc, err := appCtx.Container.AskService(ctx, remote)
	if err != nil {
		return fmt.Errorf("質問応答サービスの初期化に失敗: %w", err)
	}

	result, err := svc.Ask(ctx, searchapp.AskParams{
		Messages:   []llm.Message{{Role: llm.RoleUser, Content: query}},
		NumResults: limit,
	})
	if err != nil {
		return err
	}

	renderAnswer(output(cmd), result)
	return nil
}
