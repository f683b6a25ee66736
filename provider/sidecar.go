package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kbukum/speakeralign/errors"
	"github.com/kbukum/speakeralign/version"
)

// maxErrorBody caps how much of a failed response is copied into errors.
const maxErrorBody = 2048

// Sidecar is an HTTP client for a model server running next to the service,
// such as a faster-whisper or pyannote container. Both expose GET /health
// and accept audio as a multipart upload.
type Sidecar struct {
	Name    string
	BaseURL string
	Client  *http.Client
}

// NewSidecar returns a Sidecar with its own http.Client.
func NewSidecar(name, baseURL string, timeout time.Duration) *Sidecar {
	return &Sidecar{
		Name:    name,
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

// Ping reports whether GET {BaseURL}/health answers 200.
func (s *Sidecar) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// UploadAudio posts the file at audioPath as the "audio" form part together
// with fields, and decodes the JSON response into out.
//
// Errors are AppErrors: a missing file is NOT_FOUND, transport failures are
// SERVICE_UNAVAILABLE, 5xx answers are retryable EXTERNAL_SERVICE_ERRORs and
// 4xx answers are non-retryable ones.
func (s *Sidecar) UploadAudio(ctx context.Context, path, audioPath string, fields map[string]string, out any) error {
	f, err := os.Open(audioPath)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NotFound("audio file", audioPath)
		}
		return errors.Internal(fmt.Errorf("open audio file: %w", err))
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("audio", filepath.Base(audioPath))
	if err != nil {
		return errors.Internal(fmt.Errorf("create form file: %w", err))
	}
	if _, err := io.Copy(part, f); err != nil {
		return errors.Internal(fmt.Errorf("write audio data: %w", err))
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return errors.Internal(fmt.Errorf("write field %s: %w", k, err))
		}
	}
	if err := writer.Close(); err != nil {
		return errors.Internal(fmt.Errorf("close multipart body: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+path, &buf)
	if err != nil {
		return errors.Internal(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())

	resp, err := s.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errors.Timeout(s.Name + path).WithCause(err)
		}
		return errors.ServiceUnavailable(s.Name).WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return s.statusError(resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.ExternalServiceError(s.Name, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func (s *Sidecar) statusError(status int, body []byte) *errors.AppError {
	appErr := errors.ExternalServiceError(s.Name, fmt.Errorf("status %d: %s", status, bytes.TrimSpace(body))).
		WithDetail("status", status)
	if status < http.StatusInternalServerError {
		appErr.Retryable = false
	}
	return appErr
}
