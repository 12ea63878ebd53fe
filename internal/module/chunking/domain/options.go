package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Strategy は表形式データの分割戦略です
type Strategy string

const (
	// StrategyRow は行ウィンドウ単位（オーバーラップあり）で分割します
	StrategyRow Strategy = "row"
	// StrategyColumn は列グループ単位で分割します
	StrategyColumn Strategy = "column"
	// StrategyHybrid は列グループごとに行ウィンドウで分割します
	StrategyHybrid Strategy = "hybrid"
)

// ParseStrategy は文字列を Strategy に変換します。空文字列は StrategyRow になります
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyRow:
		return StrategyRow, nil
	case StrategyColumn:
		return StrategyColumn, nil
	case StrategyHybrid:
		return StrategyHybrid, nil
	default:
		return "", fmt.Errorf("%w: unknown strategy %q", ErrInvalidConfiguration, s)
	}
}

// RowOptions は行チャンク化の設定です
type RowOptions struct {
	RowsPerChunk   int
	OverlapRows    int
	IncludeHeaders bool
}

// DefaultRowOptions は行チャンク化のデフォルト設定を返します
func DefaultRowOptions() RowOptions {
	return RowOptions{
		RowsPerChunk:   10,
		OverlapRows:    2,
		IncludeHeaders: true,
	}
}

// Step はウィンドウ開始位置の増分を返します
func (o RowOptions) Step() int {
	return o.RowsPerChunk - o.OverlapRows
}

// Validate は設定を検証します
func (o RowOptions) Validate() error {
	if o.RowsPerChunk <= 0 {
		return fmt.Errorf("%w: rows per chunk must be positive, got %d", ErrInvalidConfiguration, o.RowsPerChunk)
	}
	if o.OverlapRows < 0 {
		return fmt.Errorf("%w: overlap rows must not be negative, got %d", ErrInvalidConfiguration, o.OverlapRows)
	}
	if o.Step() <= 0 {
		return fmt.Errorf("%w: overlap rows (%d) must be less than rows per chunk (%d)", ErrInvalidConfiguration, o.OverlapRows, o.RowsPerChunk)
	}
	return nil
}

// ColumnOptions は列チャンク化の設定です
type ColumnOptions struct {
	ColumnsPerChunk int
}

// DefaultColumnOptions は列チャンク化のデフォルト設定を返します
func DefaultColumnOptions() ColumnOptions {
	return ColumnOptions{ColumnsPerChunk: 5}
}

// Validate は設定を検証します
func (o ColumnOptions) Validate() error {
	if o.ColumnsPerChunk <= 0 {
		return fmt.Errorf("%w: columns per chunk must be positive, got %d", ErrInvalidConfiguration, o.ColumnsPerChunk)
	}
	return nil
}

// HybridOptions はハイブリッドチャンク化の設定です
type HybridOptions struct {
	RowsPerChunk    int
	ColumnsPerChunk int
}

// DefaultHybridOptions はハイブリッドチャンク化のデフォルト設定を返します
func DefaultHybridOptions() HybridOptions {
	return HybridOptions{
		RowsPerChunk:    10,
		ColumnsPerChunk: 10,
	}
}

// Validate は設定を検証します
func (o HybridOptions) Validate() error {
	if o.RowsPerChunk <= 0 {
		return fmt.Errorf("%w: rows per chunk must be positive, got %d", ErrInvalidConfiguration, o.RowsPerChunk)
	}
	if o.ColumnsPerChunk <= 0 {
		return fmt.Errorf("%w: columns per chunk must be positive, got %d", ErrInvalidConfiguration, o.ColumnsPerChunk)
	}
	return nil
}

// TextOptions は自由テキストのチャンク化設定です
type TextOptions struct {
	// ChunkSize は1チャンクの目安文字数
	ChunkSize int
	// Overlap は次チャンクへ持ち越す文字数の目安（Overlap/5 語として近似）
	Overlap int
}

// DefaultTextOptions は自由テキストのデフォルト設定を返します
func DefaultTextOptions() TextOptions {
	return TextOptions{
		ChunkSize: 800,
		Overlap:   200,
	}
}

// OverlapWords は持ち越す語数を返します
func (o TextOptions) OverlapWords() int {
	return o.Overlap / 5
}

// Validate は設定を検証します
func (o TextOptions) Validate() error {
	if o.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidConfiguration, o.ChunkSize)
	}
	if o.Overlap < 0 {
		return fmt.Errorf("%w: overlap must not be negative, got %d", ErrInvalidConfiguration, o.Overlap)
	}
	return nil
}

// TabularOptions は表形式ドキュメント1件分のチャンク化設定です
type TabularOptions struct {
	Strategy  Strategy
	Delimiter rune
	Row       RowOptions
	Column    ColumnOptions
	Hybrid    HybridOptions
}

// DefaultTabularOptions はカンマ区切り・行戦略のデフォルト設定を返します
func DefaultTabularOptions() TabularOptions {
	return TabularOptions{
		Strategy:  StrategyRow,
		Delimiter: ',',
		Row:       DefaultRowOptions(),
		Column:    DefaultColumnOptions(),
		Hybrid:    DefaultHybridOptions(),
	}
}

// Profile はドキュメント種別を問わず使うチャンク化設定一式です
type Profile struct {
	Tabular TabularOptions
	Text    TextOptions
}

// DefaultProfile はデフォルトのチャンク化設定を返します
func DefaultProfile() Profile {
	return Profile{
		Tabular: DefaultTabularOptions(),
		Text:    DefaultTextOptions(),
	}
}

// ProfileSet は拡張子ごとに上書き可能なチャンク化設定です
type ProfileSet struct {
	Default     Profile
	ByExtension map[string]Profile
}

// NewProfileSet はデフォルト設定だけを持つ ProfileSet を作成します
func NewProfileSet(def Profile) ProfileSet {
	return ProfileSet{Default: def, ByExtension: map[string]Profile{}}
}

// For はパスの拡張子に対応する設定を返します。未登録の拡張子はデフォルト設定になります
func (s ProfileSet) For(path string) Profile {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if p, ok := s.ByExtension[ext]; ok {
		return p
	}
	return s.Default
}
