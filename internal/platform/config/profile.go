package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	chunking "github.com/jinford/dev-ingest/internal/module/chunking/domain"
)

// ProfileFile は拡張子ごとのチャンク化設定ファイルの形式
//
//	extensions:
//	  tsv:
//	    strategy: hybrid
//	    rows_per_chunk: 20
//	  md:
//	    chunk_size: 1200
type ProfileFile struct {
	Extensions map[string]ProfileOverride `yaml:"extensions"`
}

// ProfileOverride は指定された項目だけをデフォルト設定に上書きします
type ProfileOverride struct {
	Strategy              string `yaml:"strategy,omitempty"`
	RowsPerChunk          *int   `yaml:"rows_per_chunk,omitempty"`
	OverlapRows           *int   `yaml:"overlap_rows,omitempty"`
	IncludeHeaders        *bool  `yaml:"include_headers,omitempty"`
	ColumnsPerChunk       *int   `yaml:"columns_per_chunk,omitempty"`
	HybridRowsPerChunk    *int   `yaml:"hybrid_rows_per_chunk,omitempty"`
	HybridColumnsPerChunk *int   `yaml:"hybrid_columns_per_chunk,omitempty"`
	ChunkSize             *int   `yaml:"chunk_size,omitempty"`
	Overlap               *int   `yaml:"overlap,omitempty"`
}

// LoadProfiles はYAMLファイルを読み込み、def を基にした ProfileSet を返します
func LoadProfiles(path string, def chunking.Profile) (chunking.ProfileSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return chunking.ProfileSet{}, fmt.Errorf("failed to read chunk profile: %w", err)
	}
	return ParseProfiles(data, def)
}

// ParseProfiles はYAMLを解析して ProfileSet を返します
func ParseProfiles(data []byte, def chunking.Profile) (chunking.ProfileSet, error) {
	var file ProfileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return chunking.ProfileSet{}, fmt.Errorf("failed to parse chunk profile: %w", err)
	}

	set := chunking.NewProfileSet(def)
	for ext, o := range file.Extensions {
		p, err := o.apply(def)
		if err != nil {
			return chunking.ProfileSet{}, fmt.Errorf("extension %q: %w", ext, err)
		}
		set.ByExtension[strings.ToLower(strings.TrimPrefix(ext, "."))] = p
	}
	return set, nil
}

func (o ProfileOverride) apply(p chunking.Profile) (chunking.Profile, error) {
	if o.Strategy != "" {
		s, err := chunking.ParseStrategy(o.Strategy)
		if err != nil {
			return p, err
		}
		p.Tabular.Strategy = s
	}
	setInt(&p.Tabular.Row.RowsPerChunk, o.RowsPerChunk)
	setInt(&p.Tabular.Row.OverlapRows, o.OverlapRows)
	if o.IncludeHeaders != nil {
		p.Tabular.Row.IncludeHeaders = *o.IncludeHeaders
	}
	setInt(&p.Tabular.Column.ColumnsPerChunk, o.ColumnsPerChunk)
	setInt(&p.Tabular.Hybrid.RowsPerChunk, o.HybridRowsPerChunk)
	setInt(&p.Tabular.Hybrid.ColumnsPerChunk, o.HybridColumnsPerChunk)
	setInt(&p.Text.ChunkSize, o.ChunkSize)
	setInt(&p.Text.Overlap, o.Overlap)
	return p, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
