package entity

import "time"

// Article representa un artículo del catálogo (perfume, calzado, joya...).
// El stock no se guarda aquí: se deriva de las líneas de lote y de venta.
type Article struct {
	ID        string
	Name      string
	Shop      string
	Category  string
	ImageURL  string
	Notes     string
	Active    bool
	CreatedAt time.Time
}
