package dto

import "time"

// ClienteRequest alta/edición de cliente.
type ClienteRequest struct {
	Nombre        string `json:"nombre"`
	Telefono      string `json:"telefono"`
	CPF           string `json:"cpf"`
	Direccion     string `json:"direccion"`
	Observaciones string `json:"observaciones"`
}

// ClienteResponse vista del cliente.
type ClienteResponse struct {
	ID            string    `json:"id"`
	Nombre        string    `json:"nombre"`
	Telefono      string    `json:"telefono,omitempty"`
	CPF           string    `json:"cpf,omitempty"`
	Direccion     string    `json:"direccion,omitempty"`
	Observaciones string    `json:"observaciones,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// TagRequest alta de tag.
type TagRequest struct {
	Nombre string `json:"nombre"`
}

// TagResponse vista de tag.
type TagResponse struct {
	ID     string `json:"id"`
	Nombre string `json:"nombre"`
}
