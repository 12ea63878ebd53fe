package logger

import (
	"io"
	"log/slog"
	"os"
)

// Config はロガーの設定
type Config struct {
	Level  slog.Level
	Format string // "json" or "text"
	// Output は出力先。nil の場合は標準エラー出力です
	Output io.Writer
}

// DefaultConfig はデフォルトのロガー設定
func DefaultConfig() Config {
	return Config{
		Level:  slog.LevelInfo,
		Format: "json",
	}
}

// New は新しいロガーを作成し、デフォルトロガーとして設定します
func New(cfg Config) *slog.Logger {
	logger := slog.New(newHandler(cfg))
	slog.SetDefault(logger)
	return logger
}

func newHandler(cfg Config) slog.Handler {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: cfg.Level,
	}

	switch cfg.Format {
	case "text":
		return slog.NewTextHandler(out, opts)
	default: // "json"
		return slog.NewJSONHandler(out, opts)
	}
}
