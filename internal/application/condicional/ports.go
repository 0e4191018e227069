package condicional

import (
	"context"

	"github.com/tu-usuario/consignado-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. SupportsTransactions indica (cacheado de por
// vida del proceso) si el backend soporta transacciones multi-documento: si
// no, la creación de condicionales usa el camino de compensación manual.
type TxRunner interface {
	SupportsTransactions() bool
	Run(ctx context.Context, fn func(
		productoRepo repository.ProductoRepository,
		condClienteRepo repository.CondicionalClienteRepository,
		condProveedorRepo repository.CondicionalProveedorRepository,
	) error) error
}
