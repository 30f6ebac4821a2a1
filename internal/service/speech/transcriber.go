// Package speech holds the boundary to the external speech-to-text engine.
package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Transcriber converts recorded audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error)
}

// HTTPTranscriber forwards audio uploads to a speech-to-text HTTP server
// that accepts multipart posts and answers {"text": "..."}.
type HTTPTranscriber struct {
	endpoint string
	client   *http.Client
}

// NewHTTPTranscriber creates a transcriber client for the given endpoint.
func NewHTTPTranscriber(endpoint string, timeout time.Duration) *HTTPTranscriber {
	return &HTTPTranscriber{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Transcribe uploads the audio and returns the recognized text.
func (t *HTTPTranscriber) Transcribe(ctx context.Context, audio io.Reader, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("audio", filename)
	if err != nil {
		return "", fmt.Errorf("build transcribe request: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("read audio payload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("finalize transcribe request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("build transcribe request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcribe call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcribe server returned status %d", resp.StatusCode)
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode transcribe response: %w", err)
	}
	return payload.Text, nil
}
