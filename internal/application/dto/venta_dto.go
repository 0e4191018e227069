package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// VentaRequest venta directa de un producto (FIFO sobre stock vendible).
type VentaRequest struct {
	ProductoID    string          `json:"producto_id"`
	Cantidad      int             `json:"cantidad"`
	ClienteID     string          `json:"cliente_id"`
	ValorTotal    decimal.Decimal `json:"valor_total"`
	Observaciones string          `json:"observaciones"`
}

// VentaResponse resultado de una venta.
type VentaResponse struct {
	SalidaID        string `json:"salida_id"`
	CantidadVendida int    `json:"cantidad_vendida"`
	StockRestante   int    `json:"stock_restante"`
}

// VentaResultado resultado por ítem en el batch (no transaccional).
type VentaResultado struct {
	Venta *VentaResponse `json:"venta,omitempty"`
	Error string         `json:"error,omitempty"`
}

// MermaRequest baja de stock sin venta: pérdida o donación.
type MermaRequest struct {
	ProductoID    string `json:"producto_id"`
	Cantidad      int    `json:"cantidad"`
	Tipo          string `json:"tipo"` // perdida | donacion
	Observaciones string `json:"observaciones"`
}

// MermaResponse resultado de una baja por merma.
type MermaResponse struct {
	SalidaID      string `json:"salida_id"`
	Cantidad      int    `json:"cantidad"`
	StockRestante int    `json:"stock_restante"`
}

// StockResponse consulta rápida de stock (servida vía cache read-through).
type StockResponse struct {
	ProductoID    string `json:"producto_id"`
	StockTotal    int    `json:"stock_total"`
	StockVendible int    `json:"stock_vendible"`
}

// SalidaResponse asiento del ledger de salidas.
type SalidaResponse struct {
	ID                     string          `json:"id"`
	ProductoID             string          `json:"producto_id"`
	ClienteID              string          `json:"cliente_id,omitempty"`
	ProveedorID            string          `json:"proveedor_id,omitempty"`
	CondicionalClienteID   string          `json:"condicional_cliente_id,omitempty"`
	CondicionalProveedorID string          `json:"condicional_proveedor_id,omitempty"`
	Cantidad               int             `json:"cantidad"`
	Tipo                   string          `json:"tipo"`
	FechaSalida            time.Time       `json:"fecha_salida"`
	ValorTotal             decimal.Decimal `json:"valor_total"`
	Observaciones          string          `json:"observaciones,omitempty"`
}
