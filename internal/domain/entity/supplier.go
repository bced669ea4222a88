package entity

import "time"

// Supplier proveedor de lotes.
type Supplier struct {
	ID        string
	Name      string
	Country   string
	Phone     string
	Email     string
	Notes     string
	CreatedAt time.Time
}
