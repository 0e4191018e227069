package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineaProductoRequest producto + cantidad para crear/enviar.
type LineaProductoRequest struct {
	ProductoID string `json:"producto_id"`
	Cantidad   int    `json:"cantidad"`
}

// CrearCondicionalClienteRequest creación con lote inicial de envíos
// (todo-o-nada: ver transacción de creación).
type CrearCondicionalClienteRequest struct {
	ClienteID     string                 `json:"cliente_id"`
	Productos     []LineaProductoRequest `json:"productos"`
	Observaciones string                 `json:"observaciones"`
}

// CrearCondicionalProveedorRequest creación con recepciones iniciales.
type CrearCondicionalProveedorRequest struct {
	ProveedorID           string                 `json:"proveedor_id"`
	CantidadMaxDevolucion int                    `json:"cantidad_max_devolucion"`
	FechaLimiteDevolucion *time.Time             `json:"fecha_limite_devolucion"`
	Productos             []LineaProductoRequest `json:"productos"`
	Observaciones         string                 `json:"observaciones"`
}

// VentaDesgloseRequest una venta explícita dentro del retorno de una
// condicional de cliente: la suma de cantidades por producto debe coincidir
// exactamente con la cantidad vendida calculada.
type VentaDesgloseRequest struct {
	Cantidad      int             `json:"cantidad"`
	ValorTotal    decimal.Decimal `json:"valor_total"`
	Observaciones string          `json:"observaciones"`
}

// RetornoRequest retorno de una condicional de cliente: los códigos externos
// de las piezas físicamente devueltas, y opcionalmente el desglose explícito
// de ventas por producto.
type RetornoRequest struct {
	CodigosDevueltos []string                          `json:"codigos_devueltos"`
	Desglose         map[string][]VentaDesgloseRequest `json:"desglose,omitempty"`
}

// LineaRetorno resultado del cálculo de retorno para una línea.
type LineaRetorno struct {
	ProductoID    string `json:"producto_id"`
	CodigoExterno string `json:"codigo_externo"`
	Enviada       int    `json:"cantidad_enviada"`
	Devuelta      int    `json:"cantidad_devuelta"`
	Vendida       int    `json:"cantidad_vendida"`
}

// RetornoCalculadoResponse cálculo puro del retorno, sin mutaciones.
type RetornoCalculadoResponse struct {
	CondicionalID string         `json:"condicional_id"`
	Lineas        []LineaRetorno `json:"lineas"`
}

// RetornoProcesadoResponse resultado del retorno aplicado.
type RetornoProcesadoResponse struct {
	CondicionalID string         `json:"condicional_id"`
	Lineas        []LineaRetorno `json:"lineas"`
	SalidaIDs     []string       `json:"salida_ids"`
}

// DevolverUnidadesRequest devolución parcial a proveedor.
type DevolverUnidadesRequest struct {
	ProductoID string `json:"producto_id"`
	Cantidad   int    `json:"cantidad"`
}

// DevolucionResponse resultado de una devolución a proveedor.
type DevolucionResponse struct {
	SalidaID         string `json:"salida_id"`
	CantidadDevuelta int    `json:"cantidad_devuelta"`
	PuedeDevolverAun int    `json:"puede_devolver_aun"`
}

// CerrarCondicionalRequest cierre de condicional de proveedor: los productos
// listados se confirman devueltos al proveedor (salen del stock); el resto de
// las unidades reservadas vuelve a stock libre. Lista vacía = todo se queda.
type CerrarCondicionalRequest struct {
	ProductosDevueltos []string `json:"productos_devueltos"`
}

// EstadoDevolucionResponse estado del tope de devolución de una condicional
// de proveedor.
type EstadoDevolucionResponse struct {
	CondicionalID         string `json:"condicional_id"`
	CantidadMaxDevolucion int    `json:"cantidad_max_devolucion"`
	YaDevuelto            int    `json:"ya_devuelto"`
	PuedeDevolver         int    `json:"puede_devolver"`
	EnCondicional         int    `json:"en_condicional"`
}

// CondicionalClienteResponse vista de la condicional de cliente.
type CondicionalClienteResponse struct {
	ID               string                 `json:"id"`
	ClienteID        string                 `json:"cliente_id"`
	Productos        []LineaProductoRequest `json:"productos"`
	FechaCondicional time.Time              `json:"fecha_condicional"`
	FechaDevolucion  *time.Time             `json:"fecha_devolucion,omitempty"`
	Activa           bool                   `json:"activa"`
	Observaciones    string                 `json:"observaciones,omitempty"`
}

// CondicionalProveedorResponse vista de la condicional de proveedor.
type CondicionalProveedorResponse struct {
	ID                    string     `json:"id"`
	ProveedorID           string     `json:"proveedor_id"`
	ProductosID           []string   `json:"productos_id"`
	CantidadMaxDevolucion int        `json:"cantidad_max_devolucion"`
	FechaLimiteDevolucion *time.Time `json:"fecha_limite_devolucion,omitempty"`
	FechaCondicional      time.Time  `json:"fecha_condicional"`
	Activa                bool       `json:"activa"`
	Cerrada               bool       `json:"cerrada"`
	Observaciones         string     `json:"observaciones,omitempty"`
}
