// Package storage implementa los adaptadores de ImageStore: data URL o archivo local,
// Google Drive y un endpoint HTTP genérico. Todos redimensionan antes de subir.
package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // decoder PNG
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // decoder WebP

	"github.com/jhoicas/andyshop-api/internal/application/ports"
	"github.com/jhoicas/andyshop-api/internal/domain"
)

const (
	// MaxUploadSize tamaño máximo aceptado antes de redimensionar.
	MaxUploadSize = 5 << 20
	// MaxDimension lado mayor tras el redimensionado.
	MaxDimension = 800
	jpegQuality  = 85
)

var acceptedTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
}

// Validate comprueba tipo (JPEG, PNG o WebP) y tamaño. Sin ContentType se detecta por contenido.
func Validate(img ports.Image) error {
	if len(img.Data) == 0 {
		return domain.NewValidationError("file", "no se seleccionó ningún archivo")
	}
	ct := contentType(img)
	if !acceptedTypes[ct] {
		return domain.NewValidationError("file", fmt.Sprintf("tipo %q no admitido (JPG, PNG o WebP)", ct))
	}
	if len(img.Data) > MaxUploadSize {
		return domain.NewValidationError("file", "archivo demasiado grande (máx. 5 MB)")
	}
	return nil
}

// Prepare valida, redimensiona a MaxDimension conservando la proporción y re-codifica en JPEG
// con un nombre único.
func Prepare(img ports.Image) (ports.Image, error) {
	if err := Validate(img); err != nil {
		return ports.Image{}, err
	}
	src, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return ports.Image{}, domain.NewValidationError("file", "image illisible")
	}

	b := src.Bounds()
	w, h := fit(b.Dx(), b.Dy(), MaxDimension)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return ports.Image{}, fmt.Errorf("storage: codificar jpeg: %w", err)
	}
	return ports.Image{
		Name:        uniqueName(img.Name),
		ContentType: "image/jpeg",
		Data:        buf.Bytes(),
	}, nil
}

// fit reduce (w, h) para que el lado mayor no supere limit; nunca agranda.
func fit(w, h, limit int) (int, int) {
	if w <= limit && h <= limit {
		return w, h
	}
	if w >= h {
		return limit, max(1, (h*limit+w/2)/w)
	}
	return max(1, (w*limit+h/2)/h), limit
}

func contentType(img ports.Image) string {
	ct := strings.ToLower(strings.TrimSpace(strings.Split(img.ContentType, ";")[0]))
	if ct == "" || ct == "application/octet-stream" {
		ct = http.DetectContentType(img.Data)
	}
	return ct
}

// uniqueName <uuid>_<base>.jpg
func uniqueName(name string) string {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	if base == "" || base == "." || base == "/" {
		base = "image"
	}
	return uuid.NewString() + "_" + base + ".jpg"
}
