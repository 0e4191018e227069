package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/consignado-api/internal/domain/entity"
)

// CondicionalProveedorRepository puerto de persistencia para condicionales de
// proveedor. AgregarProducto es idempotente: asociar un producto ya presente
// no duplica la referencia.
type CondicionalProveedorRepository interface {
	Create(ctx context.Context, condicional *entity.CondicionalProveedor) error
	GetByID(ctx context.Context, id string) (*entity.CondicionalProveedor, error)
	List(ctx context.Context, soloAbiertas bool) ([]*entity.CondicionalProveedor, error)
	AgregarProducto(ctx context.Context, condicionalID, productoID string) error
	Cerrar(ctx context.Context, condicionalID string, fecha time.Time) error
	Delete(ctx context.Context, id string) error
}
