package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/jinford/dev-ingest/internal/interface/httpapi"
)

// ServerStartAction はHTTPサーバを起動するコマンドのアクション
// 初期化に失敗したサービスのエンドポイントは無効のまま起動する
func ServerStartAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	c := appCtx.Container
	log := appCtx.Logger()

	addr := appCtx.Config.Server.Addr
	if cmd.IsSet("addr") {
		addr = cmd.String("addr")
	}

	opts := []httpapi.ServerOption{
		httpapi.WithServerLogger(log),
		httpapi.WithProfiles(c.Profiles),
	}

	if svc, err := c.IngestService(ctx); err != nil {
		log.Warn("local ingestion disabled", "error", err)
	} else {
		opts = append(opts, httpapi.WithIngester(svc))
	}

	if svc, err := c.SearchService(ctx, false, 0); err != nil {
		log.Warn("local search disabled", "error", err)
	} else {
		opts = append(opts, httpapi.WithSearcher(svc))
	}

	if svc, err := c.AskService(ctx, false); err != nil {
		log.Warn("ask disabled", "error", err)
	} else {
		opts = append(opts, httpapi.WithAsker(svc))
	}

	if c.RemoteEnabled() {
		if svc, err := c.UploadService(); err == nil {
			opts = append(opts, httpapi.WithUploader(svc))
		}
		if svc, err := c.SearchService(ctx, true, 0); err == nil {
			opts = append(opts, httpapi.WithRemoteSearcher(svc))
		}
	}

	return httpapi.NewServer(c.ChunkService, opts...).ListenAndServe(ctx, addr)
}
