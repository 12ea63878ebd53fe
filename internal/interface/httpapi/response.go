package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	chunking "github.com/jinford/dev-ingest/internal/module/chunking/domain"
	ingestion "github.com/jinford/dev-ingest/internal/module/ingestion/domain"
	search "github.com/jinford/dev-ingest/internal/module/search/domain"
)

var errNotConfigured = errors.New("endpoint is not configured on this server")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// statusFor は入力起因のエラーを 400、それ以外を 500 に対応付けます
func statusFor(err error) int {
	switch {
	case errors.Is(err, errNotConfigured):
		return http.StatusServiceUnavailable
	case errors.Is(err, ingestion.ErrAllDocumentsFailed):
		return http.StatusInternalServerError
	case errors.Is(err, chunking.ErrEmptyDocument),
		errors.Is(err, chunking.ErrMalformedDocument),
		errors.Is(err, chunking.ErrInvalidConfiguration),
		errors.Is(err, search.ErrQueryRequired),
		errors.Is(err, ingestion.ErrUnsupportedDocument),
		errors.Is(err, ingestion.ErrNoDocuments):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
