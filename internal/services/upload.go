// Multipart asset upload
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/ferrovax/gamedesk/internal/shared"
)

// uploadResponse is the backend's reply to a picture upload.
type uploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Message string `json:"message"`
}

// UploadPicture uploads an image as multipart form data and returns the
// server-side reference for it. The returned reference must be merged into a
// draft before the record referencing it is created or updated.
func (c *Client) UploadPicture(ctx context.Context, filename string, content io.Reader) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("picture", filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrUpload, err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrUpload, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrUpload, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+uploadPath, &buf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrUpload, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrUpload, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", shared.ErrUpload, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return "", shared.ErrSessionExpired
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: status %d: %s", shared.ErrUpload, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var result uploadResponse
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("%w: malformed response: %v", shared.ErrUpload, err)
	}

	if !result.Success || result.URL == "" {
		msg := result.Message
		if msg == "" {
			msg = "response missing success or url"
		}
		return "", fmt.Errorf("%w: %s", shared.ErrUpload, msg)
	}

	return result.URL, nil
}
