package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de salida de stock (ledger inmutable).
const (
	SalidaVenta                = "venta"
	SalidaPerdida              = "perdida"
	SalidaDonacion             = "donacion"
	SalidaDevolucion           = "devolucion"
	SalidaCondicionalProveedor = "condicional_proveedor"
)

// Salida es un asiento inmutable del ledger: una cantidad de un producto que
// sale del stock por un motivo dado. Los asientos solo se insertan, nunca se
// editan ni se borran.
type Salida struct {
	ID                     string
	ProductoID             string
	ClienteID              string
	ProveedorID            string
	CondicionalClienteID   string
	CondicionalProveedorID string
	Cantidad               int
	Tipo                   string
	FechaSalida            time.Time
	ValorTotal             decimal.Decimal
	Observaciones          string
	CreatedAt              time.Time
}
