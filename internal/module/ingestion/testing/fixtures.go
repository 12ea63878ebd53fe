package testing

import "github.com/jinford/dev-ingest/internal/module/ingestion/domain"

// TestFile はテスト用のFileを作成します
func TestFile(path, content string) domain.File {
	return domain.File{
		Path:      path,
		Content:   []byte(content),
		SourceURI: "file:///test",
	}
}
