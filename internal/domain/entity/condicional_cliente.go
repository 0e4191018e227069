package entity

import "time"

// LineaCondicional es una línea (producto, cantidad enviada) de una
// condicional de cliente. La cantidad solo crece: envíos repetidos del mismo
// producto se agregan sobre la línea existente.
type LineaCondicional struct {
	ProductoID string
	Cantidad   int
}

// CondicionalCliente representa piezas enviadas en condicional a un cliente.
// Nace activa y pasa a inactiva exactamente una vez, al procesar el retorno.
type CondicionalCliente struct {
	ID               string
	ClienteID        string
	Productos        []LineaCondicional
	FechaCondicional time.Time
	FechaDevolucion  *time.Time
	Activa           bool
	Observaciones    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Linea devuelve la línea para un producto, o nil si no existe.
func (c *CondicionalCliente) Linea(productoID string) *LineaCondicional {
	for i := range c.Productos {
		if c.Productos[i].ProductoID == productoID {
			return &c.Productos[i]
		}
	}
	return nil
}
