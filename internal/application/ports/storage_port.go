package ports

import "context"

// Image archivo a subir (comprobante de pago, foto de artículo).
type Image struct {
	Name        string
	ContentType string
	Data        []byte
}

// ImageStore define el puerto de salida para almacenar imágenes.
// Upload devuelve la URL pública o una data URL base64 según el proveedor configurado.
type ImageStore interface {
	Upload(ctx context.Context, img Image) (string, error)
}
