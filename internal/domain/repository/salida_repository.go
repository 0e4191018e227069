package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/consignado-api/internal/domain/entity"
)

// SalidaFiltro filtros del listado de salidas.
type SalidaFiltro struct {
	Tipo       string
	ProductoID string
	ClienteID  string
	Desde      *time.Time
	Hasta      *time.Time
	Limit      int
	Offset     int
}

// SalidaRepository puerto del ledger de salidas: inserciones append-only y
// consultas por filtro. TotalDevueltoPorCondicional suma las salidas tipo
// devolución ligadas a una condicional de proveedor (para el tope de
// devolución acumulado).
type SalidaRepository interface {
	Create(ctx context.Context, salida *entity.Salida) error
	GetByID(ctx context.Context, id string) (*entity.Salida, error)
	List(ctx context.Context, filtro SalidaFiltro) ([]*entity.Salida, error)
	TotalDevueltoPorCondicional(ctx context.Context, condicionalProveedorID string) (int, error)
}
