package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/jinford/dev-ingest/cmd/dev-ingest/commands"
)

func envFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "env",
		Usage: "環境変数ファイルパス",
		Value: ".env",
	}
}

func formatFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "format",
		Usage: "出力形式 (json, jsonl, yaml, text)",
		Value: "json",
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := &cli.Command{
		Name:  "dev-ingest",
		Usage: "表形式データとテキストをチャンク化し、ベクトル検索向けに取り込むツール",
		Commands: []*cli.Command{
			{
				Name:  "chunk",
				Usage: "ファイルをチャンク化して出力",
				Commands: []*cli.Command{
					{
						Name:  "csv",
						Usage: "CSV/TSVを行・列・ハイブリッド戦略でチャンク化",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{
								Name:     "file",
								Usage:    "入力ファイルパス",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "strategy",
								Usage: "分割戦略 (row, column, hybrid)",
							},
							&cli.IntFlag{
								Name:  "rows",
								Usage: "1チャンクあたりの行数",
							},
							&cli.IntFlag{
								Name:  "overlap",
								Usage: "チャンク間で重複させる行数",
							},
							&cli.IntFlag{
								Name:  "columns",
								Usage: "1チャンクあたりの列数",
							},
							&cli.BoolFlag{
								Name:  "no-headers",
								Usage: "行チャンクにヘッダー行を含めない",
							},
							formatFlag(),
						},
						Action: commands.ChunkCSVAction,
					},
					{
						Name:  "text",
						Usage: "自由テキストを文単位でチャンク化",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{
								Name:     "file",
								Usage:    "入力ファイルパス",
								Required: true,
							},
							&cli.IntFlag{
								Name:  "size",
								Usage: "1チャンクの目安文字数",
							},
							&cli.IntFlag{
								Name:  "overlap",
								Usage: "次チャンクへ持ち越す文字数の目安",
							},
							formatFlag(),
						},
						Action: commands.ChunkTextAction,
					},
				},
			},
			{
				Name:  "ingest",
				Usage: "チャンク化・埋め込み・保存を行う取り込みコマンド",
				Commands: []*cli.Command{
					{
						Name:  "file",
						Usage: "単一ファイルを取り込み",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{
								Name:     "path",
								Usage:    "ファイルパス",
								Required: true,
							},
						},
						Action: commands.IngestFileAction,
					},
					{
						Name:  "dir",
						Usage: "ディレクトリ配下を取り込み（.gitignore / .ingestignore を尊重）",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{
								Name:     "path",
								Usage:    "ディレクトリパス",
								Required: true,
							},
						},
						Action: commands.IngestDirAction,
					},
					{
						Name:  "git",
						Usage: "Gitリポジトリを取り込み",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{
								Name:     "url",
								Usage:    "GitリポジトリURL",
								Required: true,
							},
							&cli.StringFlag{
								Name:  "ref",
								Usage: "ブランチ名・タグ名・コミットハッシュ（省略時は GIT_DEFAULT_BRANCH またはHEAD）",
							},
						},
						Action: commands.IngestGitAction,
					},
				},
			},
			{
				Name:  "upload",
				Usage: "ファイルをリモートの取り込みサービスへアップロード",
				Flags: []cli.Flag{
					envFlag(),
					&cli.StringSliceFlag{
						Name:     "path",
						Usage:    "ファイルまたはディレクトリのパス（複数指定可）",
						Required: true,
					},
				},
				Action: commands.UploadAction,
			},
			{
				Name:  "search",
				Usage: "取り込み済みチャンクを検索",
				Flags: []cli.Flag{
					envFlag(),
					&cli.StringFlag{
						Name:     "query",
						Usage:    "検索クエリ",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "取得件数",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "remote",
						Usage: "リモートの検索パイプラインを使用",
					},
					&cli.BoolFlag{
						Name:  "no-rerank",
						Usage: "再ランキングを行わない",
					},
				},
				Action: commands.SearchAction,
			},
			{
				Name:  "ask",
				Usage: "取り込み済みドキュメントを根拠に質問へ回答",
				Flags: []cli.Flag{
					envFlag(),
					&cli.StringFlag{
						Name:     "query",
						Usage:    "質問",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "コンテキストに使うチャンク数",
						Value: 10,
					},
					&cli.BoolFlag{
						Name:  "remote",
						Usage: "リモートの検索パイプラインを使用",
					},
				},
				Action: commands.AskAction,
			},
			{
				Name:  "server",
				Usage: "HTTPサーバ管理コマンド",
				Commands: []*cli.Command{
					{
						Name:  "start",
						Usage: "HTTPサーバを起動",
						Flags: []cli.Flag{
							envFlag(),
							&cli.StringFlag{
								Name:  "addr",
								Usage: "待ち受けアドレス（省略時は SERVER_ADDR）",
							},
						},
						Action: commands.ServerStartAction,
					},
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
