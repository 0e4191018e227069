package repository

import (
	"context"

	"github.com/tu-usuario/consignado-api/internal/domain/entity"
)

// ProductoRepository define el puerto de persistencia para Producto (DIP).
// UpdateLotes reemplaza la lista completa de lotes y los flags derivados en
// una sola escritura verificada por versión: si la versión leída ya no es la
// actual devuelve domain.ErrConflict y el caller reintenta el ciclo completo
// leer-calcular-escribir.
type ProductoRepository interface {
	Create(ctx context.Context, producto *entity.Producto) error
	GetByID(ctx context.Context, id string) (*entity.Producto, error)
	GetByCodigoInterno(ctx context.Context, codigo string) (*entity.Producto, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Producto, error)
	Update(ctx context.Context, producto *entity.Producto) error
	UpdateLotes(ctx context.Context, producto *entity.Producto) error
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}
