package qdrantstore

import (
	"testing"

	"github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"

	chunking "github.com/jinford/dev-ingest/internal/module/chunking/domain"
	"github.com/jinford/dev-ingest/internal/module/ingestion/domain"
)

func TestPayloadRoundTrip(t *testing.T) {
	// Setup
	doc := &domain.Document{
		ID:        domain.DocumentID("file:///test", "sales.csv"),
		Name:      "sales.csv",
		Path:      "sales.csv",
		SourceURI: "file:///test",
	}
	chunk := domain.EmbeddedChunk{
		ID:         domain.ChunkID(doc.ID, 2),
		DocumentID: doc.ID,
		Tokens:     12,
		Chunk: chunking.Chunk{
			Content: "Row 1: region: north",
			Metadata: chunking.ChunkMetadata{
				ChunkIndex:  2,
				TotalChunks: 5,
				RowStart:    16,
				RowEnd:      25,
				ColumnCount: 1,
				Headers:     []string{"region"},
			},
		},
	}
	point := &qdrant.ScoredPoint{
		Id:      qdrant.NewID(chunk.ID.String()),
		Payload: qdrant.NewValueMap(payload(doc, chunk)),
		Score:   0.75,
	}

	// Execute
	hit := hitFromPoint(point)

	// Assert
	assert.Equal(t, chunk.ID.String(), hit.ID)
	assert.Equal(t, "sales.csv", hit.DocumentName)
	assert.Equal(t, "file:///test", hit.SourceURI)
	assert.Equal(t, "Row 1: region: north", hit.Content)
	assert.InDelta(t, 0.75, hit.Score, 1e-6)
	assert.Equal(t, 2, hit.ChunkIndex)
	assert.Equal(t, 5, hit.TotalChunks)
	assert.Equal(t, 16, hit.RowStart)
	assert.Equal(t, 25, hit.RowEnd)
	assert.Equal(t, []string{"region"}, hit.Headers)
}

func TestHitFromPoint_EmptyHeaders(t *testing.T) {
	point := &qdrant.ScoredPoint{
		Id:      qdrant.NewID("5b1e4a3c-7d2f-4c8e-9a61-2f0d8c3b6e14"),
		Payload: qdrant.NewValueMap(map[string]any{fieldContent: "text", fieldHeaders: []any{}}),
	}

	hit := hitFromPoint(point)

	assert.Equal(t, "text", hit.Content)
	assert.Equal(t, []string{}, hit.Headers)
}
