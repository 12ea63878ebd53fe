package domain

// Record は列名から値へのマッピングです
// 列の順序は所属する Table の Headers が定義します
type Record map[string]Value

// Get は列の値を返します。存在しない列はNullになります
func (r Record) Get(header string) Value {
	if r == nil {
		return NullValue()
	}
	return r[header]
}

// Table は解析済みの表形式ドキュメントです
type Table struct {
	// Headers はヘッダー行で定義された列名（トリム済み）
	Headers []string
	// Records はデータ行（空行は含まない）
	Records []Record
}

// RowCount はデータ行数を返します
func (t Table) RowCount() int {
	return len(t.Records)
}

// ColumnCount は列数を返します
func (t Table) ColumnCount() int {
	return len(t.Headers)
}
