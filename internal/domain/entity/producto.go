package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Producto es el documento principal de stock: dueño de la lista ordenada de
// lotes (orden de inserción; el orden FIFO lo define la fecha de adquisición).
// Version soporta el control de concurrencia optimista al reemplazar la lista
// de lotes (read-compute-write con reintento en conflicto).
type Producto struct {
	ID                      string
	CodigoInterno           string
	CodigoExterno           string
	Descripcion             string
	MarcaProveedor          string
	Sesion                  string
	EnCondicionalCliente    bool
	EnCondicionalProveedor  bool
	Lotes                   []Lote
	PrecioCosto             decimal.Decimal
	PrecioVenta             decimal.Decimal
	Tags                    []string
	Version                 int64
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// StockTotal suma la cantidad de todos los lotes.
func (p *Producto) StockTotal() int {
	total := 0
	for i := range p.Lotes {
		total += p.Lotes[i].Cantidad
	}
	return total
}

// RecalcularFlags deriva los flags de condicional a partir de los lotes:
// true si al menos un lote tiene reservas en ese eje.
func (p *Producto) RecalcularFlags() {
	p.EnCondicionalCliente = false
	p.EnCondicionalProveedor = false
	for i := range p.Lotes {
		if p.Lotes[i].Reservado(EjeCliente) > 0 {
			p.EnCondicionalCliente = true
		}
		if p.Lotes[i].Reservado(EjeProveedor) > 0 {
			p.EnCondicionalProveedor = true
		}
	}
}
