package domain

import (
	"math"
	"strconv"
)

// ValueKind はセル値の型タグ
type ValueKind int

const (
	// KindNull は値が存在しないセル
	KindNull ValueKind = iota
	// KindString は文字列セル
	KindString
	// KindNumber は数値セル
	KindNumber
	// KindBool は真偽値セル
	KindBool
)

// String はValueKindの名前を返します
func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Value は表形式データの1セルを表すタグ付き値です
// ゼロ値はNullとして扱われます
type Value struct {
	kind ValueKind
	str  string
	num  float64
	b    bool
}

// StringValue は文字列値を作成します
func StringValue(s string) Value {
	return Value{kind: KindString, str: s}
}

// NumberValue は数値を作成します
func NumberValue(n float64) Value {
	return Value{kind: KindNumber, num: n}
}

// BoolValue は真偽値を作成します
func BoolValue(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// NullValue はNullを作成します
func NullValue() Value {
	return Value{}
}

// Kind は値の型タグを返します
func (v Value) Kind() ValueKind {
	return v.kind
}

// IsEmpty はNullまたは空文字列の場合にtrueを返します
// レンダリング時にこの値は出力から除外されます
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.str == ""
	default:
		return false
	}
}

// Str は文字列値を返します（文字列以外はfalse）
func (v Value) Str() (string, bool) {
	return v.str, v.kind == KindString
}

// Number は数値を返します（数値以外はfalse）
func (v Value) Number() (float64, bool) {
	return v.num, v.kind == KindNumber
}

// Bool は真偽値を返します（真偽値以外はfalse）
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// String は値をチャンク本文に埋め込む形式で返します
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return formatNumber(v.num)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return ""
	}
}

// formatNumber は整数部が大きすぎない限り指数表記を避けて数値を整形する
func formatNumber(n float64) string {
	if math.Abs(n) >= 1e21 {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
