package entity

import "time"

// Client cliente de la tienda; el teléfono es único y se usa para los enlaces de WhatsApp.
type Client struct {
	ID        string
	FullName  string
	Phone     string
	Type      string // Collègue, Voisin, Service public...
	Email     string
	Address   string
	Notes     string
	CreatedAt time.Time
}
