package domain

import "fmt"

// DocumentResult はドキュメント1件分の処理結果
type DocumentResult struct {
	Name   string `json:"name"`
	Chunks int    `json:"chunks"`
	Tokens int    `json:"tokens"`
	Err    error  `json:"-"`
}

// Succeeded は処理が成功したかを返します
func (r DocumentResult) Succeeded() bool {
	return r.Err == nil
}

// Report は一括処理の結果
type Report struct {
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
	Chunks    int              `json:"chunks"`
	Results   []DocumentResult `json:"results"`
}

// NewReport は結果一覧から集計済みの Report を作成します
func NewReport(results []DocumentResult) *Report {
	r := &Report{Results: results}
	for _, res := range results {
		if res.Succeeded() {
			r.Succeeded++
			r.Chunks += res.Chunks
		} else {
			r.Failed++
		}
	}
	return r
}

// Errors は失敗したドキュメントのエラー一覧を返します
func (r *Report) Errors() []error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Name, res.Err))
		}
	}
	return errs
}

// FirstError は最初に失敗したドキュメントのエラーを返します
func (r *Report) FirstError() error {
	for _, res := range r.Results {
		if res.Err != nil {
			return res.Err
		}
	}
	return nil
}
