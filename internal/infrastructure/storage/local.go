package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/jhoicas/andyshop-api/internal/application/ports"
)

// Local sin directorio devuelve una data URL base64 que se guarda tal cual en el registro;
// con directorio escribe el archivo y devuelve publicPrefix + nombre.
type Local struct {
	dir          string
	publicPrefix string
	log          zerolog.Logger
}

var _ ports.ImageStore = (*Local)(nil)

// NewLocal crea el adaptador local. publicPrefix es la ruta HTTP que sirve dir (p. ej. /uploads).
func NewLocal(dir, publicPrefix string, log zerolog.Logger) (*Local, error) {
	if dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: crear %s: %w", dir, err)
		}
	}
	return &Local{dir: dir, publicPrefix: publicPrefix, log: log}, nil
}

func (l *Local) Upload(ctx context.Context, img ports.Image) (string, error) {
	prepared, err := Prepare(img)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if l.dir == "" {
		return "data:" + prepared.ContentType + ";base64," + base64.StdEncoding.EncodeToString(prepared.Data), nil
	}
	if err := os.WriteFile(filepath.Join(l.dir, prepared.Name), prepared.Data, 0o644); err != nil {
		return "", fmt.Errorf("storage: escribir %s: %w", prepared.Name, err)
	}
	l.log.Debug().Str("file", prepared.Name).Int("bytes", len(prepared.Data)).Msg("imagen guardada")
	return l.publicPrefix + "/" + prepared.Name, nil
}
