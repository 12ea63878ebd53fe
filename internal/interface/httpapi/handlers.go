package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	chunking "github.com/jinford/dev-ingest/internal/module/chunking/domain"
	ingestion "github.com/jinford/dev-ingest/internal/module/ingestion/domain"
	llm "github.com/jinford/dev-ingest/internal/module/llm/domain"
	searchapp "github.com/jinford/dev-ingest/internal/module/search/application"
	search "github.com/jinford/dev-ingest/internal/module/search/domain"
)

// chunkOptions は指定された項目だけをデフォルト設定に上書きします
type chunkOptions struct {
	RowsPerChunk    *int  `json:"rowsPerChunk"`
	OverlapRows     *int  `json:"overlapRows"`
	IncludeHeaders  *bool `json:"includeHeaders"`
	ColumnsPerChunk *int  `json:"columnsPerChunk"`
	ChunkSize       *int  `json:"chunkSize"`
	Overlap         *int  `json:"overlap"`
}

type chunkRequest struct {
	Content  string       `json:"content"`
	Kind     string       `json:"kind"`
	Strategy string       `json:"strategy"`
	Options  chunkOptions `json:"options"`
}

type chunkResponse struct {
	Success     bool              `json:"success"`
	TotalChunks int               `json:"totalChunks"`
	Chunks      chunking.ChunkSet `json:"chunks"`
}

func (s *Server) handleChunk(w http.ResponseWriter, r *http.Request) {
	var req chunkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	kind := chunking.KindCSV
	if req.Kind != "" {
		k, err := chunking.ParseDocumentKind(strings.ToLower(req.Kind))
		if err != nil {
			writeError(w, err)
			return
		}
		kind = k
	}

	profile, err := req.profile(s.profiles.Default)
	if err != nil {
		writeError(w, err)
		return
	}

	chunks, err := s.chunker.ChunkDocument(r.Context(), kind, []byte(req.Content), profile)
	if err != nil {
		writeError(w, err)
		return
	}
	if chunks == nil {
		chunks = chunking.ChunkSet{}
	}

	writeJSON(w, http.StatusOK, chunkResponse{
		Success:     true,
		TotalChunks: len(chunks),
		Chunks:      chunks,
	})
}

func (req chunkRequest) profile(p chunking.Profile) (chunking.Profile, error) {
	if req.Strategy != "" {
		strategy, err := chunking.ParseStrategy(req.Strategy)
		if err != nil {
			return p, err
		}
		p.Tabular.Strategy = strategy
	}

	o := req.Options
	if o.RowsPerChunk != nil {
		p.Tabular.Row.RowsPerChunk = *o.RowsPerChunk
		p.Tabular.Hybrid.RowsPerChunk = *o.RowsPerChunk
	}
	if o.OverlapRows != nil {
		p.Tabular.Row.OverlapRows = *o.OverlapRows
	}
	if o.IncludeHeaders != nil {
		p.Tabular.Row.IncludeHeaders = *o.IncludeHeaders
	}
	if o.ColumnsPerChunk != nil {
		p.Tabular.Column.ColumnsPerChunk = *o.ColumnsPerChunk
		p.Tabular.Hybrid.ColumnsPerChunk = *o.ColumnsPerChunk
	}
	if o.ChunkSize != nil {
		p.Text.ChunkSize = *o.ChunkSize
	}
	if o.Overlap != nil {
		p.Text.Overlap = *o.Overlap
	}
	return p, nil
}

type uploadResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    *ingestion.Report `json:"data"`
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	remote, _ := strconv.ParseBool(r.URL.Query().Get("remote"))

	files, err := readMultipartFiles(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}
	if len(files) == 0 {
		writeBadRequest(w, "no files provided")
		return
	}

	var run func() (*ingestion.Report, error)
	switch {
	case remote && s.uploader != nil:
		run = func() (*ingestion.Report, error) { return s.uploader.UploadAll(r.Context(), files) }
	case !remote && s.ingester != nil:
		run = func() (*ingestion.Report, error) { return s.ingester.IngestFiles(r.Context(), files) }
	default:
		writeError(w, errNotConfigured)
		return
	}

	report, err := run()
	if err != nil {
		writeError(w, err)
		return
	}

	msg := fmt.Sprintf("Successfully processed %d file(s).", report.Succeeded)
	if report.Failed > 0 {
		msg += fmt.Sprintf(" %d failed.", report.Failed)
	}
	writeJSON(w, http.StatusOK, uploadResponse{Success: true, Message: msg, Data: report})
}

// readMultipartFiles は "file" フィールドのファイルをすべて読み込みます
func readMultipartFiles(r *http.Request) ([]ingestion.File, error) {
	if err := r.ParseMultipartForm(MaxUploadMemory); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["file"]
	files := make([]ingestion.File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", fh.Filename, err)
		}
		files = append(files, ingestion.File{
			Path:      fh.Filename,
			Content:   content,
			SourceURI: "upload://" + fh.Filename,
		})
	}
	return files, nil
}

type searchRequest struct {
	Query      string `json:"query"`
	NumResults int    `json:"numResults"`
	Rerank     *bool  `json:"rerank"`
	Remote     bool   `json:"remote"`
}

type searchMetadata struct {
	AverageRelevancy float64 `json:"average_relevancy"`
	NDCG             float64 `json:"ndcg"`
}

type searchResponse struct {
	Success  bool           `json:"success"`
	Results  []search.Hit   `json:"results"`
	Metadata searchMetadata `json:"metadata"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, search.ErrQueryRequired)
		return
	}

	searcher := s.searcher
	if req.Remote {
		searcher = s.remoteSearch
	}
	if searcher == nil {
		writeError(w, errNotConfigured)
		return
	}

	params := search.SearchParams{
		Query:      req.Query,
		NumResults: req.NumResults,
		Rerank:     req.Rerank == nil || *req.Rerank,
	}.WithDefaults(search.DefaultRemoteNumResults)

	result, err := searcher.Search(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	hits := result.Hits
	if hits == nil {
		hits = []search.Hit{}
	}
	writeJSON(w, http.StatusOK, searchResponse{
		Success: true,
		Results: hits,
		Metadata: searchMetadata{
			AverageRelevancy: result.AverageRelevancy,
			NDCG:             result.NDCG,
		},
	})
}

type askRequest struct {
	Messages   []llm.Message `json:"messages"`
	NumResults int           `json:"numResults"`
}

type askResponse struct {
	Answer      string       `json:"answer"`
	SearchQuery string       `json:"searchQuery"`
	Sources     []search.Hit `json:"sources"`
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	if s.asker == nil {
		writeError(w, errNotConfigured)
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	result, err := s.asker.Ask(r.Context(), searchapp.AskParams{
		Messages:   req.Messages,
		NumResults: req.NumResults,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	sources := result.Sources
	if sources == nil {
		sources = []search.Hit{}
	}
	writeJSON(w, http.StatusOK, askResponse{
		Answer:      result.Answer,
		SearchQuery: result.SearchQuery,
		Sources:     sources,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
