package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/jinford/dev-ingest/internal/module/chunking/adapter/export"
	chunking "github.com/jinford/dev-ingest/internal/module/chunking/domain"
)

// ChunkCSVAction は表形式ファイルをチャンク化して出力するコマンドのアクション
func ChunkCSVAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	path := cmd.String("file")

	format, err := export.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ファイルの読み込みに失敗: %w", err)
	}

	kind := tabularKind(path)
	profile := appCtx.Container.Profiles.For(path)
	if err := applyTabularFlags(cmd, &profile.Tabular); err != nil {
		return err
	}
	profile.Tabular.Delimiter = kind.Delimiter()

	chunks, err := appCtx.Container.ChunkService.ChunkTabular(ctx, raw, profile.Tabular)
	if err != nil {
		return fmt.Errorf("チャンク化に失敗: %w", err)
	}

	return export.Write(output(cmd), format, chunks)
}

// ChunkTextAction は自由テキストを文単位でチャンク化して出力するコマンドのアクション
func ChunkTextAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")
	path := cmd.String("file")

	format, err := export.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ファイルの読み込みに失敗: %w", err)
	}

	opts := appCtx.Container.Profiles.For(path).Text
	if cmd.IsSet("size") {
		opts.ChunkSize = int(cmd.Int("size"))
	}
	if cmd.IsSet("overlap") {
		opts.Overlap = int(cmd.Int("overlap"))
	}

	chunks, err := appCtx.Container.ChunkService.ChunkDocument(ctx, chunking.KindText, raw, chunking.Profile{Text: opts})
	if err != nil {
		return fmt.Errorf("チャンク化に失敗: %w", err)
	}

	return export.Write(output(cmd), format, chunks)
}

// tabularKind は拡張子から表形式の種別を決める。tsv 以外はCSVとして扱う
func tabularKind(path string) chunking.DocumentKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab":
		return chunking.KindTSV
	default:
		return chunking.KindCSV
	}
}

// applyTabularFlags は指定されたフラグだけを設定に反映する
func applyTabularFlags(cmd *cli.Command, opts *chunking.TabularOptions) error {
	if cmd.IsSet("strategy") {
		strategy, err := chunking.ParseStrategy(cmd.String("strategy"))
		if err != nil {
			return err
		}
		opts.Strategy = strategy
	}
	if cmd.IsSet("rows") {
		rows := int(cmd.Int("rows"))
		opts.Row.RowsPerChunk = rows
		opts.Hybrid.RowsPerChunk = rows
	}
	if cmd.IsSet("overlap") {
		opts.Row.OverlapRows = int(cmd.Int("overlap"))
	}
	if cmd.IsSet("columns") {
		columns := int(cmd.Int("columns"))
		opts.Column.ColumnsPerChunk = columns
		opts.Hybrid.ColumnsPerChunk = columns
	}
	if cmd.Bool("no-headers") {
		opts.Row.IncludeHeaders = false
	}
	return nil
}
