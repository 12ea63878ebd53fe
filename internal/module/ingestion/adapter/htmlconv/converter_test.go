package htmlconv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chunking "github.com/jinford/dev-ingest/internal/module/chunking/domain"
	"github.com/jinford/dev-ingest/internal/module/ingestion/adapter/htmlconv"
	"github.com/jinford/dev-ingest/internal/module/ingestion/domain"
)

const page = `<html>
<head><title>Report</title><style>p { color: red; }</style></head>
<body>
<h1>Quarterly Report</h1>
<p>Revenue grew in <strong>2024</strong>.</p>
<script>alert("x")</script>
</body>
</html>`

func TestToMarkdown(t *testing.T) {
	md, err := htmlconv.ToMarkdown([]byte(page))

	require.NoError(t, err)
	assert.Contains(t, md, "# Quarterly Report")
	assert.Contains(t, md, "Revenue grew in **2024**.")
	assert.NotContains(t, md, "alert")
	assert.NotContains(t, md, "color: red")
}

func TestConverter_Transform(t *testing.T) {
	// Setup
	doc := &domain.Document{
		Path:        "report.html",
		Kind:        chunking.KindMarkdown,
		ContentType: "text/html",
		Content:     []byte(page),
	}

	// Execute
	err := htmlconv.NewConverter().Transform(doc)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, chunking.KindMarkdown, doc.Kind)
	assert.Contains(t, string(doc.Content), "# Quarterly Report")
	assert.NotContains(t, string(doc.Content), "<p>")
}

func TestConverter_Transform_SkipsOtherTypes(t *testing.T) {
	doc := &domain.Document{ContentType: "text/csv", Kind: chunking.KindCSV, Content: []byte("<b>a</b>\n1\n")}

	require.NoError(t, htmlconv.NewConverter().Transform(doc))

	assert.Equal(t, "<b>a</b>\n1\n", string(doc.Content))
	assert.Equal(t, chunking.KindCSV, doc.Kind)
}
