package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/andyshop-api/internal/application/ports"
	"github.com/jhoicas/andyshop-api/pkg/config"
)

// UploadsPath ruta HTTP bajo la que se sirven los archivos del proveedor local con directorio.
const UploadsPath = "/uploads"

// New elige el adaptador según STORAGE_PROVIDER.
func New(ctx context.Context, cfg config.StorageConfig, log zerolog.Logger) (ports.ImageStore, error) {
	log = log.With().Str("component", "storage").Str("provider", cfg.Provider).Logger()
	switch cfg.Provider {
	case "", "local":
		return NewLocal(cfg.LocalDir, UploadsPath, log)
	case "googledrive":
		return NewDriveFromCredentials(ctx, cfg.DriveCredsFile, cfg.DriveFolderID, log)
	case "http":
		if cfg.UploadEndpoint == "" {
			return nil, fmt.Errorf("storage: UPLOAD_ENDPOINT es obligatorio con STORAGE_PROVIDER=http")
		}
		return NewHTTPUploader(cfg.UploadEndpoint, cfg.UploadFieldName, cfg.UploadFields, log), nil
	default:
		return nil, fmt.Errorf("storage: proveedor desconocido %q", cfg.Provider)
	}
}
