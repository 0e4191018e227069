package entity

import "time"

// CondicionalProveedor representa stock recibido de un proveedor en
// condicional: vendible mientras esté abierto, devolvible hasta el tope
// CantidadMaxDevolucion. Se cierra exactamente una vez.
type CondicionalProveedor struct {
	ID                    string
	ProveedorID           string
	ProductosID           []string
	CantidadMaxDevolucion int
	FechaLimiteDevolucion *time.Time
	FechaCondicional      time.Time
	Activa                bool
	Cerrada               bool
	Observaciones         string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// TieneProducto indica si el producto ya está asociado a la condicional.
func (c *CondicionalProveedor) TieneProducto(productoID string) bool {
	for _, id := range c.ProductosID {
		if id == productoID {
			return true
		}
	}
	return false
}
