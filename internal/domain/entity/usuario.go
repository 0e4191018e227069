package entity

import "time"

// Roles de usuario.
const (
	RolAdmin    = "admin"
	RolVendedor = "vendedor"
)

// Usuario de la aplicación (login de las rutas protegidas).
type Usuario struct {
	ID           string
	Email        string
	PasswordHash string
	Nombre       string
	Rol          string
	Estado       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
