package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/andyshop-api/internal/application/ports"
	"github.com/jhoicas/andyshop-api/internal/domain"
)

// HTTPUploader envía la imagen como multipart/form-data a un endpoint (Cloudinary o similar)
// y lee la URL de secure_url o, si falta, de url.
type HTTPUploader struct {
	endpoint   string
	fieldName  string
	extra      map[string]string
	httpClient *http.Client
	log        zerolog.Logger
}

var _ ports.ImageStore = (*HTTPUploader)(nil)

// NewHTTPUploader extra son campos de formulario adicionales (p. ej. upload_preset).
func NewHTTPUploader(endpoint, fieldName string, extra map[string]string, log zerolog.Logger) *HTTPUploader {
	if fieldName == "" {
		fieldName = "file"
	}
	return &HTTPUploader{
		endpoint:   endpoint,
		fieldName:  fieldName,
		extra:      extra,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		log:        log,
	}
}

func (u *HTTPUploader) Upload(ctx context.Context, img ports.Image) (string, error) {
	prepared, err := Prepare(img)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range u.extra {
		if err := mw.WriteField(k, v); err != nil {
			return "", err
		}
	}
	fw, err := mw.CreateFormFile(u.fieldName, prepared.Name)
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(prepared.Data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &buf)
	if err != nil {
		return "", fmt.Errorf("upload: crear request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: %w: %v", domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("upload: status %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(raw)), domain.ErrStoreUnavailable)
	}

	var out struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("upload: decodificar respuesta: %w", err)
	}
	link := out.SecureURL
	if link == "" {
		link = out.URL
	}
	if link == "" {
		return "", fmt.Errorf("upload: respuesta sin url: %w", domain.ErrStoreUnavailable)
	}
	u.log.Debug().Str("url", link).Msg("imagen subida")
	return link, nil
}
