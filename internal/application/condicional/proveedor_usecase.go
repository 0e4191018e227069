package condicional

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/consignado-api/internal/application/dto"
	"github.com/tu-usuario/consignado-api/internal/domain"
	"github.com/tu-usuario/consignado-api/internal/domain/entity"
	"github.com/tu-usuario/consignado-api/internal/domain/lote"
	"github.com/tu-usuario/consignado-api/internal/domain/repository"
	"github.com/tu-usuario/consignado-api/pkg/logger"
)

// ProveedorUseCase orquesta las condicionales de proveedor: recepción de stock
// consignado (lotes nuevos reservados en el eje proveedor), devolución parcial
// con tope acumulado y cierre con reparto devuelto/comprado.
type ProveedorUseCase struct {
	productoRepo    repository.ProductoRepository
	condRepo        repository.CondicionalProveedorRepository
	condClienteRepo repository.CondicionalClienteRepository
	salidaRepo      repository.SalidaRepository
	log             *logger.Logger
}

// NewProveedorUseCase construye el caso de uso.
func NewProveedorUseCase(
	productoRepo repository.ProductoRepository,
	condRepo repository.CondicionalProveedorRepository,
	condClienteRepo repository.CondicionalClienteRepository,
	salidaRepo repository.SalidaRepository,
	log *logger.Logger,
) *ProveedorUseCase {
	return &ProveedorUseCase{
		productoRepo:    productoRepo,
		condRepo:        condRepo,
		condClienteRepo: condClienteRepo,
		salidaRepo:      salidaRepo,
		log:             log,
	}
}

// RecibirProducto registra la llegada de cantidad unidades consignadas: crea
// un lote nuevo ya reservado para la condicional (vendible, devolvible) y
// asocia el producto a la condicional. Rechaza condicionales cerradas.
func (uc *ProveedorUseCase) RecibirProducto(ctx context.Context, condicionalID, productoID string, cantidad int) error {
	cond, err := uc.condRepo.GetByID(ctx, condicionalID)
	if err != nil {
		return err
	}
	if cond == nil {
		return domain.ErrNotFound
	}
	if cond.Cerrada {
		return domain.ErrCondicionalInactiva
	}
	return uc.RecibirProductoEnTx(ctx, uc.productoRepo, uc.condRepo, cond, productoID, cantidad)
}

// RecibirProductoEnTx ejecuta la recepción usando los repositorios dados
// (misma transacción del caller durante la creación). La condicional ya viene
// validada.
func (uc *ProveedorUseCase) RecibirProductoEnTx(
	ctx context.Context,
	productoRepo repository.ProductoRepository,
	condRepo repository.CondicionalProveedorRepository,
	cond *entity.CondicionalProveedor,
	productoID string,
	cantidad int,
) error {
	if cantidad <= 0 {
		return domain.ErrCantidadInvalida
	}

	err := conReintento(func() error {
		producto, err := productoRepo.GetByID(ctx, productoID)
		if err != nil {
			return err
		}
		if producto == nil {
			return domain.ErrNotFound
		}
		nuevo := lote.NuevoLoteProveedor(cantidad, cond.ID, time.Now().UTC())
		producto.Lotes = append(producto.Lotes, nuevo)
		producto.RecalcularFlags()
		return productoRepo.UpdateLotes(ctx, producto)
	})
	if err != nil {
		return err
	}

	if err := condRepo.AgregarProducto(ctx, cond.ID, productoID); err != nil {
		return fmt.Errorf("asociar producto %s a condicional %s: %w", productoID, cond.ID, err)
	}
	return nil
}

// DevolverUnidades devuelve al proveedor cantidad unidades reservadas de un
// producto. El tope CantidadMaxDevolucion (si es positivo) es acumulado sobre
// todas las devoluciones de la condicional: exceder lo que resta falla con el
// detalle del tope y lo ya devuelto. Consume FIFO las unidades reservadas y
// asienta una salida tipo devolución.
func (uc *ProveedorUseCase) DevolverUnidades(ctx context.Context, condicionalID, productoID string, cantidad int) (*dto.DevolucionResponse, error) {
	if cantidad <= 0 {
		return nil, domain.ErrCantidadInvalida
	}
	cond, err := uc.condRepo.GetByID(ctx, condicionalID)
	if err != nil {
		return nil, err
	}
	if cond == nil {
		return nil, domain.ErrNotFound
	}
	if cond.Cerrada {
		return nil, domain.ErrCondicionalInactiva
	}

	yaDevuelto, err := uc.salidaRepo.TotalDevueltoPorCondicional(ctx, cond.ID)
	if err != nil {
		return nil, err
	}
	if cond.CantidadMaxDevolucion > 0 && yaDevuelto+cantidad > cond.CantidadMaxDevolucion {
		return nil, &domain.LimiteDevolucionError{
			Limite:     cond.CantidadMaxDevolucion,
			YaDevuelto: yaDevuelto,
			Solicitado: cantidad,
		}
	}

	var productoFinal *entity.Producto
	err = conReintento(func() error {
		producto, err := uc.productoRepo.GetByID(ctx, productoID)
		if err != nil {
			return err
		}
		if producto == nil {
			return domain.ErrNotFound
		}
		reservado := lote.ReservadoPorCondicional(producto.Lotes, entity.EjeProveedor, cond.ID)
		if reservado < cantidad {
			return &domain.StockInsuficienteError{Disponible: reservado, Solicitado: cantidad}
		}
		lotes, err := lote.ConsumirReservadoFIFO(producto.Lotes, cantidad, entity.EjeProveedor, cond.ID)
		if err != nil {
			return err
		}
		producto.Lotes = lotes
		producto.RecalcularFlags()
		if err := uc.productoRepo.UpdateLotes(ctx, producto); err != nil {
			return err
		}
		productoFinal = producto
		return nil
	})
	if err != nil {
		return nil, err
	}

	ahora := time.Now().UTC()
	salida := &entity.Salida{
		ID:                     uuid.New().String(),
		ProductoID:             productoID,
		ProveedorID:            cond.ProveedorID,
		CondicionalProveedorID: cond.ID,
		Cantidad:               cantidad,
		Tipo:                   entity.SalidaDevolucion,
		FechaSalida:            ahora,
		ValorTotal:             productoFinal.PrecioCosto.Mul(decimal.NewFromInt(int64(cantidad))),
		CreatedAt:              ahora,
	}
	if err := uc.salidaRepo.Create(ctx, salida); err != nil {
		return nil, fmt.Errorf("asentar devolución a proveedor: %w", err)
	}

	if err := eliminarProductoSiAgotado(ctx, uc.productoRepo, uc.condClienteRepo, uc.condRepo, productoFinal, "", uc.log); err != nil {
		return nil, err
	}

	restante := 0
	if cond.CantidadMaxDevolucion > 0 {
		restante = cond.CantidadMaxDevolucion - yaDevuelto - cantidad
	}
	return &dto.DevolucionResponse{
		SalidaID:         salida.ID,
		CantidadDevuelta: cantidad,
		PuedeDevolverAun: restante,
	}, nil
}

// Cerrar liquida la condicional: para cada producto asociado, si figura en
// productosDevueltos sus unidades reservadas salen del stock (vuelven al
// proveedor, salida tipo condicional_proveedor); si no, las reservas se
// liberan y el stock pasa a propio. El cierre ocurre exactamente una vez.
func (uc *ProveedorUseCase) Cerrar(ctx context.Context, condicionalID string, productosDevueltos []string) error {
	cond, err := uc.condRepo.GetByID(ctx, condicionalID)
	if err != nil {
		return err
	}
	if cond == nil {
		return domain.ErrNotFound
	}
	if cond.Cerrada {
		return domain.ErrCondicionalInactiva
	}

	devueltos := make(map[string]bool, len(productosDevueltos))
	for _, id := range productosDevueltos {
		devueltos[id] = true
	}

	ahora := time.Now().UTC()
	for _, productoID := range cond.ProductosID {
		var productoFinal *entity.Producto
		var cantidadDevuelta int
		err := conReintento(func() error {
			producto, err := uc.productoRepo.GetByID(ctx, productoID)
			if err != nil {
				return err
			}
			if producto == nil {
				// Ya eliminado (vendido por completo antes del cierre).
				return nil
			}
			reservado := lote.ReservadoPorCondicional(producto.Lotes, entity.EjeProveedor, cond.ID)
			if reservado == 0 {
				productoFinal = producto
				return nil
			}
			var lotes []entity.Lote
			if devueltos[productoID] {
				lotes, err = lote.ConsumirReservadoFIFO(producto.Lotes, reservado, entity.EjeProveedor, cond.ID)
				cantidadDevuelta = reservado
			} else {
				lotes, _, err = lote.LiberarFIFO(producto.Lotes, reservado, entity.EjeProveedor, cond.ID)
			}
			if err != nil {
				return err
			}
			producto.Lotes = lotes
			producto.RecalcularFlags()
			if err := uc.productoRepo.UpdateLotes(ctx, producto); err != nil {
				return err
			}
			productoFinal = producto
			return nil
		})
		if err != nil {
			return fmt.Errorf("cerrar condicional %s, producto %s: %w", cond.ID, productoID, err)
		}

		if cantidadDevuelta > 0 {
			salida := &entity.Salida{
				ID:                     uuid.New().String(),
				ProductoID:             productoID,
				ProveedorID:            cond.ProveedorID,
				CondicionalProveedorID: cond.ID,
				Cantidad:               cantidadDevuelta,
				Tipo:                   entity.SalidaCondicionalProveedor,
				FechaSalida:            ahora,
				ValorTotal:             productoFinal.PrecioCosto.Mul(decimal.NewFromInt(int64(cantidadDevuelta))),
				CreatedAt:              ahora,
			}
			if err := uc.salidaRepo.Create(ctx, salida); err != nil {
				return fmt.Errorf("asentar cierre de condicional %s: %w", cond.ID, err)
			}
		}

		if err := eliminarProductoSiAgotado(ctx, uc.productoRepo, uc.condClienteRepo, uc.condRepo, productoFinal, cond.ID, uc.log); err != nil {
			return err
		}
	}

	if err := uc.condRepo.Cerrar(ctx, cond.ID, ahora); err != nil {
		return fmt.Errorf("marcar condicional %s cerrada: %w", cond.ID, err)
	}
	uc.log.Info().
		Str("condicional_id", cond.ID).
		Int("productos", len(cond.ProductosID)).
		Int("devueltos", len(productosDevueltos)).
		Msg("condicional de proveedor cerrada")
	return nil
}

// EstadoDevolucion reporta cuánto se devolvió ya, cuánto se puede devolver
// todavía y cuántas unidades siguen reservadas en la condicional.
func (uc *ProveedorUseCase) EstadoDevolucion(ctx context.Context, condicionalID string) (*dto.EstadoDevolucionResponse, error) {
	cond, err := uc.condRepo.GetByID(ctx, condicionalID)
	if err != nil {
		return nil, err
	}
	if cond == nil {
		return nil, domain.ErrNotFound
	}
	yaDevuelto, err := uc.salidaRepo.TotalDevueltoPorCondicional(ctx, cond.ID)
	if err != nil {
		return nil, err
	}
	enCondicional := 0
	for _, productoID := range cond.ProductosID {
		producto, err := uc.productoRepo.GetByID(ctx, productoID)
		if err != nil {
			return nil, err
		}
		if producto == nil {
			continue
		}
		enCondicional += lote.ReservadoPorCondicional(producto.Lotes, entity.EjeProveedor, cond.ID)
	}
	puede := 0
	if cond.CantidadMaxDevolucion > 0 {
		puede = cond.CantidadMaxDevolucion - yaDevuelto
		if puede < 0 {
			puede = 0
		}
		if puede > enCondicional {
			puede = enCondicional
		}
	} else {
		puede = enCondicional
	}
	return &dto.EstadoDevolucionResponse{
		CondicionalID:         cond.ID,
		CantidadMaxDevolucion: cond.CantidadMaxDevolucion,
		YaDevuelto:            yaDevuelto,
		PuedeDevolver:         puede,
		EnCondicional:         enCondicional,
	}, nil
}
