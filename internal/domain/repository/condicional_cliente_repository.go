package repository

import (
	"context"
	"time"

	"github.com/tu-usuario/consignado-api/internal/domain/entity"
)

// CondicionalClienteRepository puerto de persistencia para condicionales de
// cliente. AgregarLinea es un upsert atómico: incrementa la cantidad de la
// línea si existe o la crea (seguro ante envíos concurrentes, ver modelo de
// concurrencia).
type CondicionalClienteRepository interface {
	Create(ctx context.Context, condicional *entity.CondicionalCliente) error
	GetByID(ctx context.Context, id string) (*entity.CondicionalCliente, error)
	List(ctx context.Context, soloActivas bool) ([]*entity.CondicionalCliente, error)
	ListActivasPorCliente(ctx context.Context, clienteID string) ([]*entity.CondicionalCliente, error)
	ListActivasPorProducto(ctx context.Context, productoID string) ([]*entity.CondicionalCliente, error)
	AgregarLinea(ctx context.Context, condicionalID, productoID string, cantidad int) error
	MarcarDevuelta(ctx context.Context, condicionalID string, fecha time.Time) error
	Delete(ctx context.Context, id string) error
}
