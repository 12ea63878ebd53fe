package tabular_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinford/dev-ingest/internal/module/chunking/adapter/tabular"
	"github.com/jinford/dev-ingest/internal/module/chunking/domain"
)

func TestParser_Parse(t *testing.T) {
	// Setup
	raw := " id , name ,score,active,note\n1,Alice,9.5,true,\n\n2,Bob,-3,FALSE,hello world\n"
	parser := tabular.NewParser()

	// Execute
	table, err := parser.Parse([]byte(raw))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "name", "score", "active", "note"}, table.Headers)
	require.Len(t, table.Records, 2)

	first := table.Records[0]
	n, ok := first.Get("id").Number()
	assert.True(t, ok)
	assert.Equal(t, 1.0, n)
	s, ok := first.Get("name").Str()
	assert.True(t, ok)
	assert.Equal(t, "Alice", s)
	assert.Equal(t, "9.5", first.Get("score").String())
	b, ok := first.Get("active").Bool()
	assert.True(t, ok)
	assert.True(t, b)
	assert.Equal(t, domain.KindNull, first.Get("note").Kind())

	second := table.Records[1]
	assert.Equal(t, "-3", second.Get("score").String())
	assert.Equal(t, domain.KindBool, second.Get("active").Kind())
	assert.Equal(t, "hello world", second.Get("note").String())
}

func TestParser_InferValue(t *testing.T) {
	tests := []struct {
		name string
		cell string
		kind domain.ValueKind
		text string
	}{
		{name: "integer", cell: "42", kind: domain.KindNumber, text: "42"},
		{name: "leading dot", cell: ".5", kind: domain.KindNumber, text: "0.5"},
		{name: "exponent", cell: "1e3", kind: domain.KindNumber, text: "1000"},
		{name: "padded number", cell: " 7 ", kind: domain.KindNumber, text: "7"},
		{name: "date stays string", cell: "2024-03-02", kind: domain.KindString, text: "2024-03-02"},
		{name: "hex stays string", cell: "0x10", kind: domain.KindString, text: "0x10"},
		{name: "infinity stays string", cell: "Inf", kind: domain.KindString, text: "Inf"},
		{name: "unsafe integer stays string", cell: "12345678901234567890", kind: domain.KindString, text: "12345678901234567890"},
		{name: "bool upper", cell: "TRUE", kind: domain.KindBool, text: "true"},
		{name: "whitespace string", cell: " ", kind: domain.KindString, text: " "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := tabular.NewParser().Parse([]byte("v\n\"" + tt.cell + "\"\n"))
			require.NoError(t, err)
			v := table.Records[0].Get("v")
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.text, v.String())
		})
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     []byte
		wantErr error
	}{
		{name: "header only", raw: []byte("a,b,c\n"), wantErr: domain.ErrEmptyDocument},
		{name: "header only with blank lines", raw: []byte("a,b\n\n\n"), wantErr: domain.ErrEmptyDocument},
		{name: "empty input", raw: []byte(""), wantErr: domain.ErrEmptyDocument},
		{name: "too few fields", raw: []byte("a,b,c\n1,2\n"), wantErr: domain.ErrMalformedDocument},
		{name: "too many fields", raw: []byte("a,b\n1,2,3\n"), wantErr: domain.ErrMalformedDocument},
		{name: "bare quote", raw: []byte("a,b\n1,x\"y\n"), wantErr: domain.ErrMalformedDocument},
		{name: "invalid utf8", raw: []byte("a,b\n1,\xff\xfe\xfd\n"), wantErr: domain.ErrMalformedDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tabular.NewParser().Parse(tt.raw)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParser_Encoding(t *testing.T) {
	t.Run("utf8 bom is stripped", func(t *testing.T) {
		table, err := tabular.NewParser().Parse([]byte("\xef\xbb\xbfname\nx\n"))
		require.NoError(t, err)
		assert.Equal(t, []string{"name"}, table.Headers)
	})

	t.Run("utf16 little endian is decoded", func(t *testing.T) {
		// "a\n1\n" を UTF-16LE + BOM で表現
		raw := []byte{0xff, 0xfe, 'a', 0, '\n', 0, '1', 0, '\n', 0}
		table, err := tabular.NewParser().Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, table.Headers)
		assert.Equal(t, "1", table.Records[0].Get("a").String())
	})
}

func TestParser_TabDelimiter(t *testing.T) {
	table, err := tabular.NewParser(tabular.WithDelimiter('\t')).Parse([]byte("a\tb\nx\ty\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, table.Headers)
	assert.Equal(t, "y", table.Records[0].Get("b").String())
}

func TestParser_DuplicateHeaders(t *testing.T) {
	table, err := tabular.NewParser().Parse([]byte("name,name,name_1,name\na,b,c,d\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "name_1", "name_1_1", "name_2"}, table.Headers)
	assert.Equal(t, "b", table.Records[0].Get("name_1").String())
}
