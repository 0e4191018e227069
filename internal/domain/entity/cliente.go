package entity

import "time"

// Cliente de la tienda (destinatario de ventas y condicionales).
type Cliente struct {
	ID            string
	Nombre        string
	Telefono      string
	CPF           string
	Direccion     string
	Observaciones string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
