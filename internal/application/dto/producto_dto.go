package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CrearProductoRequest alta de producto con su lote inicial.
type CrearProductoRequest struct {
	CodigoInterno   string          `json:"codigo_interno"`
	CodigoExterno   string          `json:"codigo_externo"`
	Descripcion     string          `json:"descripcion"`
	MarcaProveedor  string          `json:"marca_proveedor"`
	Sesion          string          `json:"sesion"`
	PrecioCosto     decimal.Decimal `json:"precio_costo"`
	PrecioVenta     decimal.Decimal `json:"precio_venta"`
	CantidadInicial int             `json:"cantidad_inicial"`
	Tags            []string        `json:"tags"`
}

// ActualizarProductoRequest campos editables (el stock se maneja vía lotes).
type ActualizarProductoRequest struct {
	CodigoExterno  *string          `json:"codigo_externo"`
	Descripcion    *string          `json:"descripcion"`
	MarcaProveedor *string          `json:"marca_proveedor"`
	Sesion         *string          `json:"sesion"`
	PrecioCosto    *decimal.Decimal `json:"precio_costo"`
	PrecioVenta    *decimal.Decimal `json:"precio_venta"`
	Tags           []string         `json:"tags"`
}

// LoteDTO vista de un lote con sus reservas agregadas.
type LoteDTO struct {
	Cantidad           int       `json:"cantidad"`
	FechaAdquisicion   time.Time `json:"fecha_adquisicion"`
	ReservadoCliente   int       `json:"reservado_cliente"`
	ReservadoProveedor int       `json:"reservado_proveedor"`
}

// ProductoResponse vista del producto con stock derivado.
type ProductoResponse struct {
	ID                     string          `json:"id"`
	CodigoInterno          string          `json:"codigo_interno"`
	CodigoExterno          string          `json:"codigo_externo"`
	Descripcion            string          `json:"descripcion"`
	MarcaProveedor         string          `json:"marca_proveedor"`
	Sesion                 string          `json:"sesion"`
	EnCondicionalCliente   bool            `json:"en_condicional_cliente"`
	EnCondicionalProveedor bool            `json:"en_condicional_proveedor"`
	Lotes                  []LoteDTO       `json:"lotes"`
	StockTotal             int             `json:"stock_total"`
	StockVendible          int             `json:"stock_vendible"`
	PrecioCosto            decimal.Decimal `json:"precio_costo"`
	PrecioVenta            decimal.Decimal `json:"precio_venta"`
	Tags                   []string        `json:"tags"`
	CreatedAt              time.Time       `json:"created_at"`
	UpdatedAt              time.Time       `json:"updated_at"`
}
