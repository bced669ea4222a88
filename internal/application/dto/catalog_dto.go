package dto

import "time"

// CreateArticleRequest body para POST /api/articles.
type CreateArticleRequest struct {
	Name     string `json:"name"`
	Shop     string `json:"shop"`
	Category string `json:"category,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// ArticleDTO artículo del catálogo.
type ArticleDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Shop      string    `json:"shop"`
	Category  string    `json:"category,omitempty"`
	ImageURL  string    `json:"image_url,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateClientRequest body para POST /api/clients.
type CreateClientRequest struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Type     string `json:"type,omitempty"`
	Email    string `json:"email,omitempty"`
	Address  string `json:"address,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// ClientDTO cliente.
type ClientDTO struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Type      string    `json:"type,omitempty"`
	Email     string    `json:"email,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateSupplierRequest body para POST /api/suppliers.
type CreateSupplierRequest struct {
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// SupplierDTO proveedor.
type SupplierDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Country   string    `json:"country"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SearchRequest filtro de texto para listados (?q=).
type SearchRequest struct {
	Query string `query:"q"`
}

// UploadResultDTO URL pública (o data URL) de una imagen subida.
type UploadResultDTO struct {
	URL string `json:"url"`
}
