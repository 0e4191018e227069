package condicional

import (
	"context"

	"github.com/tu-usuario/consignado-api/internal/domain/entity"
	"github.com/tu-usuario/consignado-api/internal/domain/repository"
	"github.com/tu-usuario/consignado-api/pkg/logger"
)

// eliminarProductoSiAgotado borra el producto cuando su stock llegó a cero y
// ninguna referencia activa lo retiene: flags de condicional apagados, ninguna
// condicional de cliente activa (distinta de la que se está cerrando) y
// ninguna condicional de proveedor abierta que lo liste. El escaneo es en vivo
// contra los repositorios, no contra contadores cacheados.
func eliminarProductoSiAgotado(
	ctx context.Context,
	productoRepo repository.ProductoRepository,
	condClienteRepo repository.CondicionalClienteRepository,
	condProveedorRepo repository.CondicionalProveedorRepository,
	producto *entity.Producto,
	condicionalEnCierre string,
	log *logger.Logger,
) error {
	if producto == nil || producto.StockTotal() > 0 {
		return nil
	}
	if producto.EnCondicionalCliente || producto.EnCondicionalProveedor {
		return nil
	}
	activas, err := condClienteRepo.ListActivasPorProducto(ctx, producto.ID)
	if err != nil {
		return err
	}
	for _, c := range activas {
		if c.ID != condicionalEnCierre {
			return nil
		}
	}
	abiertas, err := condProveedorRepo.List(ctx, true)
	if err != nil {
		return err
	}
	for _, c := range abiertas {
		if c.ID != condicionalEnCierre && c.TieneProducto(producto.ID) {
			return nil
		}
	}
	log.Info().Str("producto_id", producto.ID).Msg("producto agotado sin referencias activas, eliminando")
	return productoRepo.Delete(ctx, producto.ID)
}
