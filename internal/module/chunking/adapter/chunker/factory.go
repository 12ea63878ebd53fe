package chunker

import (
	"fmt"

	"github.com/jinford/dev-ingest/internal/module/chunking/domain"
)

// ForStrategy は設定された戦略に対応する TabularChunker を返します
func ForStrategy(opts domain.TabularOptions) (domain.TabularChunker, error) {
	switch opts.Strategy {
	case domain.StrategyRow, "":
		return NewRowChunker(opts.Row), nil
	case domain.StrategyColumn:
		return NewColumnChunker(opts.Column), nil
	case domain.StrategyHybrid:
		return NewHybridChunker(opts.Hybrid), nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", domain.ErrInvalidConfiguration, opts.Strategy)
	}
}
