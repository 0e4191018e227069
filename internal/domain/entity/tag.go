package entity

import "time"

// Tag etiqueta de catálogo asociable a productos.
type Tag struct {
	ID        string
	Nombre    string
	CreatedAt time.Time
}
