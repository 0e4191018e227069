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

// ClienteUseCase orquesta las condicionales de cliente: envío de productos
// (reserva FIFO en el eje cliente), cálculo del retorno y procesamiento del
// retorno (liberación + venta del remanente + baja de la condicional).
type ClienteUseCase struct {
	productoRepo      repository.ProductoRepository
	condRepo          repository.CondicionalClienteRepository
	condProveedorRepo repository.CondicionalProveedorRepository
	salidaRepo        repository.SalidaRepository
	log               *logger.Logger
}

// NewClienteUseCase construye el caso de uso.
func NewClienteUseCase(
	productoRepo repository.ProductoRepository,
	condRepo repository.CondicionalClienteRepository,
	condProveedorRepo repository.CondicionalProveedorRepository,
	salidaRepo repository.SalidaRepository,
	log *logger.Logger,
) *ClienteUseCase {
	return &ClienteUseCase{
		productoRepo:      productoRepo,
		condRepo:          condRepo,
		condProveedorRepo: condProveedorRepo,
		salidaRepo:        salidaRepo,
		log:               log,
	}
}

// EnviarProducto reserva cantidad unidades vendibles del producto para la
// condicional (FIFO, eje cliente) y agrega/incrementa la línea. Validaciones
// antes de cualquier mutación: condicional activa, producto existente, stock
// vendible suficiente (el error lleva lo disponible).
func (uc *ClienteUseCase) EnviarProducto(ctx context.Context, condicionalID, productoID string, cantidad int) error {
	cond, err := uc.condRepo.GetByID(ctx, condicionalID)
	if err != nil {
		return err
	}
	if cond == nil {
		return domain.ErrNotFound
	}
	if !cond.Activa {
		return domain.ErrCondicionalInactiva
	}
	return uc.EnviarProductoEnTx(ctx, uc.productoRepo, uc.condRepo, cond, productoID, cantidad)
}

// EnviarProductoEnTx ejecuta el envío usando los repositorios proporcionados
// (misma transacción del caller cuando la creación es transaccional). La
// condicional ya viene validada.
func (uc *ClienteUseCase) EnviarProductoEnTx(
	ctx context.Context,
	productoRepo repository.ProductoRepository,
	condRepo repository.CondicionalClienteRepository,
	cond *entity.CondicionalCliente,
	productoID string,
	cantidad int,
) error {
	if cantidad < 0 {
		return domain.ErrCantidadInvalida
	}
	if cantidad == 0 {
		return nil
	}

	err := conReintento(func() error {
		producto, err := productoRepo.GetByID(ctx, productoID)
		if err != nil {
			return err
		}
		if producto == nil {
			return domain.ErrNotFound
		}
		lotes, err := lote.ReservarFIFO(producto.Lotes, cantidad, entity.EjeCliente, cond.ID)
		if err != nil {
			return err
		}
		producto.Lotes = lotes
		producto.RecalcularFlags()
		return productoRepo.UpdateLotes(ctx, producto)
	})
	if err != nil {
		return err
	}

	if err := condRepo.AgregarLinea(ctx, cond.ID, productoID, cantidad); err != nil {
		return fmt.Errorf("agregar línea a condicional %s: %w", cond.ID, err)
	}
	return nil
}

// CalcularRetorno es un cálculo puro, sin mutaciones: por cada línea cuenta
// cuántos códigos devueltos coinciden con el código externo del producto y
// reporta enviada / devuelta / vendida (vendida nunca negativa).
func (uc *ClienteUseCase) CalcularRetorno(ctx context.Context, condicionalID string, codigosDevueltos []string) (*dto.RetornoCalculadoResponse, error) {
	cond, err := uc.condRepo.GetByID(ctx, condicionalID)
	if err != nil {
		return nil, err
	}
	if cond == nil {
		return nil, domain.ErrNotFound
	}
	if !cond.Activa {
		return nil, domain.ErrCondicionalInactiva
	}

	conteo := make(map[string]int, len(codigosDevueltos))
	for _, c := range codigosDevueltos {
		conteo[c]++
	}

	lineas := make([]dto.LineaRetorno, 0, len(cond.Productos))
	for _, linea := range cond.Productos {
		producto, err := uc.productoRepo.GetByID(ctx, linea.ProductoID)
		if err != nil {
			return nil, err
		}
		if producto == nil {
			return nil, fmt.Errorf("producto %s de la condicional: %w", linea.ProductoID, domain.ErrNotFound)
		}
		devuelta := conteo[producto.CodigoExterno]
		vendida := linea.Cantidad - devuelta
		if vendida < 0 {
			vendida = 0
		}
		lineas = append(lineas, dto.LineaRetorno{
			ProductoID:    linea.ProductoID,
			CodigoExterno: producto.CodigoExterno,
			Enviada:       linea.Cantidad,
			Devuelta:      devuelta,
			Vendida:       vendida,
		})
	}
	return &dto.RetornoCalculadoResponse{CondicionalID: condicionalID, Lineas: lineas}, nil
}

// ProcesarRetorno aplica el retorno: por línea libera las unidades devueltas
// (vuelven a stock libre), consume como venta el remanente reservado y emite
// las salidas; después marca la condicional como devuelta (inactiva). Si se
// suministra un desglose explícito de ventas por producto, se valida ANTES de
// mutar: una suma que no coincide exactamente falla la operación completa.
func (uc *ClienteUseCase) ProcesarRetorno(ctx context.Context, condicionalID string, codigosDevueltos []string, desglose map[string][]dto.VentaDesgloseRequest) (*dto.RetornoProcesadoResponse, error) {
	calc, err := uc.CalcularRetorno(ctx, condicionalID, codigosDevueltos)
	if err != nil {
		return nil, err
	}
	cond, err := uc.condRepo.GetByID(ctx, condicionalID)
	if err != nil {
		return nil, err
	}

	// Validar el desglose completo antes de tocar nada.
	if err := validarDesglose(calc.Lineas, desglose); err != nil {
		return nil, err
	}

	ahora := time.Now().UTC()
	salidaIDs := make([]string, 0)

	for _, linea := range calc.Lineas {
		var productoFinal *entity.Producto
		err := conReintento(func() error {
			producto, err := uc.productoRepo.GetByID(ctx, linea.ProductoID)
			if err != nil {
				return err
			}
			if producto == nil {
				return domain.ErrNotFound
			}
			lotes, _, err := lote.LiberarFIFO(producto.Lotes, linea.Devuelta, entity.EjeCliente, cond.ID)
			if err != nil {
				return err
			}
			if linea.Vendida > 0 {
				lotes, err = lote.ConsumirReservadoFIFO(lotes, linea.Vendida, entity.EjeCliente, cond.ID)
				if err != nil {
					return err
				}
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
			return nil, fmt.Errorf("procesar retorno de producto %s: %w", linea.ProductoID, err)
		}

		if linea.Vendida > 0 {
			ids, err := uc.emitirVentasDeRetorno(ctx, cond, productoFinal, linea, desglose[linea.ProductoID], ahora)
			if err != nil {
				return nil, err
			}
			salidaIDs = append(salidaIDs, ids...)
		}

		if err := eliminarProductoSiAgotado(ctx, uc.productoRepo, uc.condRepo, uc.condProveedorRepo, productoFinal, cond.ID, uc.log); err != nil {
			return nil, err
		}
	}

	if err := uc.condRepo.MarcarDevuelta(ctx, cond.ID, ahora); err != nil {
		return nil, fmt.Errorf("marcar condicional %s devuelta: %w", cond.ID, err)
	}
	uc.log.Info().
		Str("condicional_id", cond.ID).
		Int("lineas", len(calc.Lineas)).
		Msg("retorno de condicional de cliente procesado")

	return &dto.RetornoProcesadoResponse{
		CondicionalID: cond.ID,
		Lineas:        calc.Lineas,
		SalidaIDs:     salidaIDs,
	}, nil
}

// validarDesglose exige que cada desglose sume exactamente la cantidad
// vendida calculada de su línea, y que no refiera productos fuera de la
// condicional.
func validarDesglose(lineas []dto.LineaRetorno, desglose map[string][]dto.VentaDesgloseRequest) error {
	if len(desglose) == 0 {
		return nil
	}
	porProducto := make(map[string]int, len(lineas))
	for _, l := range lineas {
		porProducto[l.ProductoID] = l.Vendida
	}
	for productoID, ventas := range desglose {
		vendida, ok := porProducto[productoID]
		if !ok {
			return fmt.Errorf("desglose refiere producto %s ajeno a la condicional: %w", productoID, domain.ErrInvalidInput)
		}
		suma := 0
		for _, v := range ventas {
			if v.Cantidad <= 0 {
				return domain.ErrCantidadInvalida
			}
			suma += v.Cantidad
		}
		if suma != vendida {
			return &domain.DesgloseVentaError{ProductoID: productoID, Esperado: vendida, Recibido: suma}
		}
	}
	return nil
}

// emitirVentasDeRetorno crea las salidas tipo venta de una línea: una por
// entrada del desglose, o una sola al precio de venta del producto.
func (uc *ClienteUseCase) emitirVentasDeRetorno(
	ctx context.Context,
	cond *entity.CondicionalCliente,
	producto *entity.Producto,
	linea dto.LineaRetorno,
	ventas []dto.VentaDesgloseRequest,
	ahora time.Time,
) ([]string, error) {
	if len(ventas) == 0 {
		ventas = []dto.VentaDesgloseRequest{{
			Cantidad:   linea.Vendida,
			ValorTotal: producto.PrecioVenta.Mul(decimal.NewFromInt(int64(linea.Vendida))),
		}}
	}
	ids := make([]string, 0, len(ventas))
	for _, v := range ventas {
		salida := &entity.Salida{
			ID:                   uuid.New().String(),
			ProductoID:           linea.ProductoID,
			ClienteID:            cond.ClienteID,
			CondicionalClienteID: cond.ID,
			Cantidad:             v.Cantidad,
			Tipo:                 entity.SalidaVenta,
			FechaSalida:          ahora,
			ValorTotal:           v.ValorTotal,
			Observaciones:        v.Observaciones,
			CreatedAt:            ahora,
		}
		if err := uc.salidaRepo.Create(ctx, salida); err != nil {
			return nil, fmt.Errorf("crear salida de venta para producto %s: %w", linea.ProductoID, err)
		}
		ids = append(ids, salida.ID)
	}
	return ids, nil
}
