package condicional

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/consignado-api/internal/application/dto"
	"github.com/tu-usuario/consignado-api/internal/domain"
	"github.com/tu-usuario/consignado-api/internal/domain/entity"
	"github.com/tu-usuario/consignado-api/internal/domain/lote"
	"github.com/tu-usuario/consignado-api/internal/domain/repository"
	"github.com/tu-usuario/consignado-api/pkg/logger"
)

// CreacionUseCase crea condicionales con su lote inicial de envíos o
// recepciones de forma todo-o-nada: dentro de una transacción cuando el
// backend las soporta, o con compensación manual en orden inverso cuando no.
type CreacionUseCase struct {
	txRunner          TxRunner
	productoRepo      repository.ProductoRepository
	condClienteRepo   repository.CondicionalClienteRepository
	condProveedorRepo repository.CondicionalProveedorRepository
	clienteUC         *ClienteUseCase
	proveedorUC       *ProveedorUseCase
	log               *logger.Logger
}

// NewCreacionUseCase construye el caso de uso.
func NewCreacionUseCase(
	txRunner TxRunner,
	productoRepo repository.ProductoRepository,
	condClienteRepo repository.CondicionalClienteRepository,
	condProveedorRepo repository.CondicionalProveedorRepository,
	clienteUC *ClienteUseCase,
	proveedorUC *ProveedorUseCase,
	log *logger.Logger,
) *CreacionUseCase {
	return &CreacionUseCase{
		txRunner:          txRunner,
		productoRepo:      productoRepo,
		condClienteRepo:   condClienteRepo,
		condProveedorRepo: condProveedorRepo,
		clienteUC:         clienteUC,
		proveedorUC:       proveedorUC,
		log:               log,
	}
}

// CrearCondicionalCliente crea la condicional y ejecuta todos los envíos
// iniciales. Si cualquier envío falla no queda ni la condicional ni ninguna
// reserva parcial.
func (uc *CreacionUseCase) CrearCondicionalCliente(ctx context.Context, req dto.CrearCondicionalClienteRequest) (*entity.CondicionalCliente, error) {
	for _, linea := range req.Productos {
		if linea.Cantidad <= 0 {
			return nil, domain.ErrCantidadInvalida
		}
	}

	ahora := time.Now().UTC()
	cond := &entity.CondicionalCliente{
		ID:               uuid.New().String(),
		ClienteID:        req.ClienteID,
		Productos:        nil,
		FechaCondicional: ahora,
		Activa:           true,
		Observaciones:    req.Observaciones,
		CreatedAt:        ahora,
		UpdatedAt:        ahora,
	}

	if uc.txRunner.SupportsTransactions() {
		err := uc.txRunner.Run(ctx, func(
			productoRepo repository.ProductoRepository,
			condClienteRepo repository.CondicionalClienteRepository,
			_ repository.CondicionalProveedorRepository,
		) error {
			if err := condClienteRepo.Create(ctx, cond); err != nil {
				return err
			}
			for _, linea := range req.Productos {
				if err := uc.clienteUC.EnviarProductoEnTx(ctx, productoRepo, condClienteRepo, cond, linea.ProductoID, linea.Cantidad); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return uc.condClienteRepo.GetByID(ctx, cond.ID)
	}

	// Camino sin transacciones: aplicar secuencialmente y compensar en orden
	// inverso ante el primer fallo.
	if err := uc.condClienteRepo.Create(ctx, cond); err != nil {
		return nil, err
	}
	enviados := make([]dto.LineaProductoRequest, 0, len(req.Productos))
	for _, linea := range req.Productos {
		if err := uc.clienteUC.EnviarProductoEnTx(ctx, uc.productoRepo, uc.condClienteRepo, cond, linea.ProductoID, linea.Cantidad); err != nil {
			if rbErr := uc.compensarCliente(ctx, cond.ID, enviados); rbErr != nil {
				return nil, rbErr
			}
			return nil, err
		}
		enviados = append(enviados, linea)
	}
	return uc.condClienteRepo.GetByID(ctx, cond.ID)
}

// CrearCondicionalProveedor crea la condicional y registra todas las
// recepciones iniciales, todo-o-nada.
func (uc *CreacionUseCase) CrearCondicionalProveedor(ctx context.Context, req dto.CrearCondicionalProveedorRequest) (*entity.CondicionalProveedor, error) {
	for _, linea := range req.Productos {
		if linea.Cantidad <= 0 {
			return nil, domain.ErrCantidadInvalida
		}
	}
	if req.CantidadMaxDevolucion < 0 {
		return nil, domain.ErrCantidadInvalida
	}

	ahora := time.Now().UTC()
	cond := &entity.CondicionalProveedor{
		ID:                    uuid.New().String(),
		ProveedorID:           req.ProveedorID,
		CantidadMaxDevolucion: req.CantidadMaxDevolucion,
		FechaLimiteDevolucion: req.FechaLimiteDevolucion,
		FechaCondicional:      ahora,
		Activa:                true,
		Observaciones:         req.Observaciones,
		CreatedAt:             ahora,
		UpdatedAt:             ahora,
	}

	if uc.txRunner.SupportsTransactions() {
		err := uc.txRunner.Run(ctx, func(
			productoRepo repository.ProductoRepository,
			_ repository.CondicionalClienteRepository,
			condProveedorRepo repository.CondicionalProveedorRepository,
		) error {
			if err := condProveedorRepo.Create(ctx, cond); err != nil {
				return err
			}
			for _, linea := range req.Productos {
				if err := uc.proveedorUC.RecibirProductoEnTx(ctx, productoRepo, condProveedorRepo, cond, linea.ProductoID, linea.Cantidad); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		return uc.condProveedorRepo.GetByID(ctx, cond.ID)
	}

	if err := uc.condProveedorRepo.Create(ctx, cond); err != nil {
		return nil, err
	}
	recibidos := make([]dto.LineaProductoRequest, 0, len(req.Productos))
	for _, linea := range req.Productos {
		if err := uc.proveedorUC.RecibirProductoEnTx(ctx, uc.productoRepo, uc.condProveedorRepo, cond, linea.ProductoID, linea.Cantidad); err != nil {
			if rbErr := uc.compensarProveedor(ctx, cond.ID, recibidos); rbErr != nil {
				return nil, rbErr
			}
			return nil, err
		}
		recibidos = append(recibidos, linea)
	}
	return uc.condProveedorRepo.GetByID(ctx, cond.ID)
}

// compensarCliente deshace los envíos aplicados en orden inverso y borra la
// condicional. Lo liberado se deriva del estado real de los lotes, no de lo
// pedido: si un envío quedó a medias, se libera exactamente lo reservado. Un
// fallo durante la compensación es crítico y deja productos listados para
// reconciliación manual.
func (uc *CreacionUseCase) compensarCliente(ctx context.Context, condicionalID string, enviados []dto.LineaProductoRequest) error {
	pendientes := make([]string, 0, len(enviados))
	for i := len(enviados) - 1; i >= 0; i-- {
		productoID := enviados[i].ProductoID
		err := conReintento(func() error {
			producto, err := uc.productoRepo.GetByID(ctx, productoID)
			if err != nil {
				return err
			}
			if producto == nil {
				return nil
			}
			reservado := lote.ReservadoPorCondicional(producto.Lotes, entity.EjeCliente, condicionalID)
			if reservado == 0 {
				return nil
			}
			lotes, _, err := lote.LiberarFIFO(producto.Lotes, reservado, entity.EjeCliente, condicionalID)
			if err != nil {
				return err
			}
			producto.Lotes = lotes
			producto.RecalcularFlags()
			return uc.productoRepo.UpdateLotes(ctx, producto)
		})
		if err != nil {
			uc.log.Error().Err(err).
				Str("condicional_id", condicionalID).
				Str("producto_id", productoID).
				Msg("fallo liberando reservas durante compensación")
			pendientes = append(pendientes, productoID)
			return &domain.RollbackCriticoError{
				CondicionalID: condicionalID,
				Productos:     restantes(enviados, i, pendientes),
				Causa:         err,
			}
		}
	}
	if err := uc.condClienteRepo.Delete(ctx, condicionalID); err != nil {
		uc.log.Error().Err(err).Str("condicional_id", condicionalID).
			Msg("fallo borrando condicional durante compensación")
		return &domain.RollbackCriticoError{CondicionalID: condicionalID, Causa: err}
	}
	uc.log.Warn().Str("condicional_id", condicionalID).
		Int("envios_deshechos", len(enviados)).
		Msg("creación de condicional de cliente compensada")
	return nil
}

// compensarProveedor deshace las recepciones aplicadas: las unidades llegaron
// en lotes nuevos reservados para esta condicional, así que deshacer es
// consumir esas reservas (el lote desaparece al quedar en cero).
func (uc *CreacionUseCase) compensarProveedor(ctx context.Context, condicionalID string, recibidos []dto.LineaProductoRequest) error {
	pendientes := make([]string, 0, len(recibidos))
	for i := len(recibidos) - 1; i >= 0; i-- {
		productoID := recibidos[i].ProductoID
		err := conReintento(func() error {
			producto, err := uc.productoRepo.GetByID(ctx, productoID)
			if err != nil {
				return err
			}
			if producto == nil {
				return nil
			}
			reservado := lote.ReservadoPorCondicional(producto.Lotes, entity.EjeProveedor, condicionalID)
			if reservado == 0 {
				return nil
			}
			lotes, err := lote.ConsumirReservadoFIFO(producto.Lotes, reservado, entity.EjeProveedor, condicionalID)
			if err != nil {
				return err
			}
			producto.Lotes = lotes
			producto.RecalcularFlags()
			return uc.productoRepo.UpdateLotes(ctx, producto)
		})
		if err != nil {
			uc.log.Error().Err(err).
				Str("condicional_id", condicionalID).
				Str("producto_id", productoID).
				Msg("fallo retirando lotes durante compensación")
			pendientes = append(pendientes, productoID)
			return &domain.RollbackCriticoError{
				CondicionalID: condicionalID,
				Productos:     restantes(recibidos, i, pendientes),
				Causa:         err,
			}
		}
	}
	if err := uc.condProveedorRepo.Delete(ctx, condicionalID); err != nil {
		uc.log.Error().Err(err).Str("condicional_id", condicionalID).
			Msg("fallo borrando condicional durante compensación")
		return &domain.RollbackCriticoError{CondicionalID: condicionalID, Causa: err}
	}
	uc.log.Warn().Str("condicional_id", condicionalID).
		Int("recepciones_deshechas", len(recibidos)).
		Msg("creación de condicional de proveedor compensada")
	return nil
}

// restantes lista los productos que quedaron sin compensar: el que falló y
// todos los anteriores a él (se compensa en orden inverso).
func restantes(lineas []dto.LineaProductoRequest, desde int, fallidos []string) []string {
	vistos := make(map[string]bool, len(lineas))
	out := make([]string, 0, desde+len(fallidos))
	out = append(out, fallidos...)
	for _, id := range fallidos {
		vistos[id] = true
	}
	for i := desde - 1; i >= 0; i-- {
		id := lineas[i].ProductoID
		if !vistos[id] {
			vistos[id] = true
			out = append(out, id)
		}
	}
	return out
}
