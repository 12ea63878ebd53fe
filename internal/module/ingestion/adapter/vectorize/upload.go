package vectorize

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/jinford/dev-ingest/internal/module/ingestion/domain"
)

var _ domain.Uploader = (*Client)(nil)

type initiateUploadRequest struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
}

type initiateUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
}

// Upload はコネクタにファイルをアップロードします
// 署名付きURLを取得してから、そのURLへファイル内容をPUTします
func (c *Client) Upload(ctx context.Context, name, contentType string, content []byte) error {
	if c.cfg.ConnectorID == "" {
		return fmt.Errorf("%w: connector id is required", ErrNotConfigured)
	}

	url := fmt.Sprintf("%s/org/%s/uploads/%s/files", c.cfg.BaseURL, c.cfg.OrgID, c.cfg.ConnectorID)
	var initiated initiateUploadResponse
	if err := c.doJSON(ctx, http.MethodPut, url, initiateUploadRequest{Name: name, ContentType: contentType}, &initiated); err != nil {
		return fmt.Errorf("failed to initiate upload for %s: %w", name, err)
	}
	if initiated.UploadURL == "" {
		return fmt.Errorf("invalid response from vectorize: no upload URL for %s", name)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, initiated.UploadURL, bytes.NewReader(content))
	if err != nil {
		return fmt.Errorf("failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to upload file content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		c.log.Error("storage upload failed", "name", name, "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("failed to upload file content to storage: status %d", resp.StatusCode)
	}

	c.log.Info("file uploaded", "name", name, "contentType", contentType, "size", len(content))
	return nil
}
