package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/jhoicas/andyshop-api/internal/application/ports"
	"github.com/jhoicas/andyshop-api/internal/domain"
)

const (
	driveScope     = "https://www.googleapis.com/auth/drive.file"
	driveUploadURL = "https://www.googleapis.com/upload/drive/v3/files"
	driveFilesURL  = "https://www.googleapis.com/drive/v3/files"
)

// Drive sube a Google Drive v3 (multipart), concede lectura pública y devuelve el enlace.
type Drive struct {
	httpClient *http.Client
	folderID   string
	uploadURL  string
	filesURL   string
	log        zerolog.Logger
}

var _ ports.ImageStore = (*Drive)(nil)

// DriveOption configura el adaptador.
type DriveOption func(*Drive)

// WithDriveEndpoints reemplaza las URLs de la API (tests).
func WithDriveEndpoints(uploadURL, filesURL string) DriveOption {
	return func(d *Drive) {
		d.uploadURL = uploadURL
		d.filesURL = filesURL
	}
}

// NewDrive crea el adaptador con un http.Client ya autenticado.
func NewDrive(hc *http.Client, folderID string, log zerolog.Logger, opts ...DriveOption) *Drive {
	d := &Drive{httpClient: hc, folderID: folderID, uploadURL: driveUploadURL, filesURL: driveFilesURL, log: log}
	for _, o := range opts {
		o(d)
	}
	return d
}

// NewDriveFromCredentials lee el JSON de cuenta de servicio y arma el cliente OAuth2.
func NewDriveFromCredentials(ctx context.Context, credsFile, folderID string, log zerolog.Logger) (*Drive, error) {
	data, err := os.ReadFile(credsFile)
	if err != nil {
		return nil, fmt.Errorf("drive: leer credenciales: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, driveScope)
	if err != nil {
		return nil, fmt.Errorf("drive: credenciales: %w", err)
	}
	hc := oauth2.NewClient(ctx, creds.TokenSource)
	hc.Timeout = 60 * time.Second
	return NewDrive(hc, folderID, log), nil
}

type driveFile struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	WebViewLink string `json:"webViewLink"`
}

func (d *Drive) Upload(ctx context.Context, img ports.Image) (string, error) {
	prepared, err := Prepare(img)
	if err != nil {
		return "", err
	}

	meta := map[string]any{"name": prepared.Name, "mimeType": prepared.ContentType}
	if d.folderID != "" {
		meta["parents"] = []string{d.folderID}
	}
	body, contentType, err := relatedBody(meta, prepared)
	if err != nil {
		return "", err
	}

	url := d.uploadURL + "?uploadType=multipart&fields=id,name,webViewLink"
	var file driveFile
	if err := d.call(ctx, http.MethodPost, url, contentType, body, &file); err != nil {
		return "", err
	}

	perm, _ := json.Marshal(map[string]string{"role": "reader", "type": "anyone"})
	if err := d.call(ctx, http.MethodPost, d.filesURL+"/"+file.ID+"/permissions", "application/json", perm, nil); err != nil {
		// el archivo existe; sin permiso público solo lo ve la cuenta de servicio
		d.log.Warn().Err(err).Str("file_id", file.ID).Msg("drive: no se pudo hacer público el archivo")
	}

	d.log.Info().Str("file_id", file.ID).Str("name", file.Name).Msg("drive: imagen subida")
	if file.WebViewLink != "" {
		return file.WebViewLink, nil
	}
	return "https://drive.google.com/uc?export=view&id=" + file.ID, nil
}

// relatedBody cuerpo multipart/related: metadatos JSON y luego el binario.
func relatedBody(meta map[string]any, img ports.Image) ([]byte, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	mh := textproto.MIMEHeader{}
	mh.Set("Content-Type", "application/json; charset=UTF-8")
	pw, err := mw.CreatePart(mh)
	if err != nil {
		return nil, "", err
	}
	if err := json.NewEncoder(pw).Encode(meta); err != nil {
		return nil, "", err
	}

	fh := textproto.MIMEHeader{}
	fh.Set("Content-Type", img.ContentType)
	fw, err := mw.CreatePart(fh)
	if err != nil {
		return nil, "", err
	}
	if _, err := fw.Write(img.Data); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "multipart/related; boundary=" + mw.Boundary(), nil
}

func (d *Drive) call(ctx context.Context, method, url, contentType string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("drive: crear request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("drive: %w: %v", domain.ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("drive: status %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(raw)), domain.ErrStoreUnavailable)
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("drive: decodificar respuesta: %w", err)
		}
	}
	return nil
}
