// Package venta implementa la venta directa de stock: consumo FIFO de
// unidades vendibles, asiento en el ledger de salidas y la consulta de stock
// con cache.
package venta

import (
	"context"
	"errors"
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

const (
	maxReintentos = 3
	stockCacheTTL = 30 * time.Second
)

// UseCase caso de uso de ventas directas y consultas del ledger.
type UseCase struct {
	productoRepo repository.ProductoRepository
	clienteRepo  repository.ClienteRepository
	salidaRepo   repository.SalidaRepository
	cache        Cache
	log          *logger.Logger
}

// NewUseCase construye el caso de uso. cache puede ser nil (sin cache).
func NewUseCase(
	productoRepo repository.ProductoRepository,
	clienteRepo repository.ClienteRepository,
	salidaRepo repository.SalidaRepository,
	cache Cache,
	log *logger.Logger,
) *UseCase {
	return &UseCase{
		productoRepo: productoRepo,
		clienteRepo:  clienteRepo,
		salidaRepo:   salidaRepo,
		cache:        cache,
		log:          log,
	}
}

func claveStock(productoID string) string {
	return "stock:" + productoID
}

// Procesar vende cantidad unidades vendibles del producto (FIFO). Las
// unidades reservadas a clientes no son vendibles; las reservadas a
// proveedor sí. Asienta la salida y invalida la clave de stock en cache.
func (uc *UseCase) Procesar(ctx context.Context, req dto.VentaRequest) (*dto.VentaResponse, error) {
	if req.Cantidad <= 0 {
		return nil, domain.ErrCantidadInvalida
	}
	if req.ClienteID != "" {
		cliente, err := uc.clienteRepo.GetByID(ctx, req.ClienteID)
		if err != nil {
			return nil, err
		}
		if cliente == nil {
			return nil, fmt.Errorf("cliente %s: %w", req.ClienteID, domain.ErrNotFound)
		}
	}

	var productoFinal *entity.Producto
	err := conReintento(func() error {
		producto, err := uc.productoRepo.GetByID(ctx, req.ProductoID)
		if err != nil {
			return err
		}
		if producto == nil {
			return domain.ErrNotFound
		}
		lotes, err := lote.ConsumirVentaFIFO(producto.Lotes, req.Cantidad)
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

	valor := req.ValorTotal
	if valor.IsZero() {
		valor = productoFinal.PrecioVenta.Mul(decimal.NewFromInt(int64(req.Cantidad)))
	}
	ahora := time.Now().UTC()
	salida := &entity.Salida{
		ID:            uuid.New().String(),
		ProductoID:    req.ProductoID,
		ClienteID:     req.ClienteID,
		Cantidad:      req.Cantidad,
		Tipo:          entity.SalidaVenta,
		FechaSalida:   ahora,
		ValorTotal:    valor,
		Observaciones: req.Observaciones,
		CreatedAt:     ahora,
	}
	if err := uc.salidaRepo.Create(ctx, salida); err != nil {
		return nil, fmt.Errorf("asentar venta: %w", err)
	}

	uc.invalidarStock(ctx, req.ProductoID)
	uc.log.Info().
		Str("producto_id", req.ProductoID).
		Int("cantidad", req.Cantidad).
		Str("salida_id", salida.ID).
		Msg("venta procesada")

	return &dto.VentaResponse{
		SalidaID:        salida.ID,
		CantidadVendida: req.Cantidad,
		StockRestante:   productoFinal.StockTotal(),
	}, nil
}

// RegistrarMerma da de baja unidades vendibles sin venta: pérdida o
// donación. Consume FIFO igual que una venta y asienta la salida al precio
// de costo.
func (uc *UseCase) RegistrarMerma(ctx context.Context, req dto.MermaRequest) (*dto.MermaResponse, error) {
	if req.Cantidad <= 0 {
		return nil, domain.ErrCantidadInvalida
	}
	if req.Tipo != entity.SalidaPerdida && req.Tipo != entity.SalidaDonacion {
		return nil, fmt.Errorf("tipo de merma %q: %w", req.Tipo, domain.ErrInvalidInput)
	}

	var productoFinal *entity.Producto
	err := conReintento(func() error {
		producto, err := uc.productoRepo.GetByID(ctx, req.ProductoID)
		if err != nil {
			return err
		}
		if producto == nil {
			return domain.ErrNotFound
		}
		lotes, err := lote.ConsumirVentaFIFO(producto.Lotes, req.Cantidad)
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
		ID:            uuid.New().String(),
		ProductoID:    req.ProductoID,
		Cantidad:      req.Cantidad,
		Tipo:          req.Tipo,
		FechaSalida:   ahora,
		ValorTotal:    productoFinal.PrecioCosto.Mul(decimal.NewFromInt(int64(req.Cantidad))),
		Observaciones: req.Observaciones,
		CreatedAt:     ahora,
	}
	if err := uc.salidaRepo.Create(ctx, salida); err != nil {
		return nil, fmt.Errorf("asentar merma: %w", err)
	}

	uc.invalidarStock(ctx, req.ProductoID)
	uc.log.Info().
		Str("producto_id", req.ProductoID).
		Str("tipo", req.Tipo).
		Int("cantidad", req.Cantidad).
		Msg("merma registrada")

	return &dto.MermaResponse{
		SalidaID:      salida.ID,
		Cantidad:      req.Cantidad,
		StockRestante: productoFinal.StockTotal(),
	}, nil
}

// ProcesarBatch procesa ventas independientes: cada ítem falla o procede por
// su cuenta, el resultado conserva el orden de entrada.
func (uc *UseCase) ProcesarBatch(ctx context.Context, reqs []dto.VentaRequest) []dto.VentaResultado {
	out := make([]dto.VentaResultado, len(reqs))
	for i, req := range reqs {
		res, err := uc.Procesar(ctx, req)
		if err != nil {
			out[i].Error = err.Error()
			continue
		}
		out[i].Venta = res
	}
	return out
}

// StockDisponible consulta el stock de un producto vía cache read-through.
// Un fallo de cache degrada a lectura directa, nunca a error.
func (uc *UseCase) StockDisponible(ctx context.Context, productoID string) (*dto.StockResponse, error) {
	if uc.cache != nil {
		var cached dto.StockResponse
		if err := uc.cache.Get(ctx, claveStock(productoID), &cached); err == nil {
			return &cached, nil
		} else if !errors.Is(err, ErrCacheMiss) {
			uc.log.Warn().Err(err).Str("producto_id", productoID).Msg("fallo leyendo cache de stock")
		}
	}

	producto, err := uc.productoRepo.GetByID(ctx, productoID)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.ErrNotFound
	}
	res := &dto.StockResponse{
		ProductoID:    productoID,
		StockTotal:    producto.StockTotal(),
		StockVendible: lote.Disponible(producto.Lotes, entity.EjeCliente),
	}
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, claveStock(productoID), res, stockCacheTTL); err != nil {
			uc.log.Warn().Err(err).Str("producto_id", productoID).Msg("fallo escribiendo cache de stock")
		}
	}
	return res, nil
}

// ListarSalidas consulta el ledger con filtros.
func (uc *UseCase) ListarSalidas(ctx context.Context, filtro repository.SalidaFiltro) ([]dto.SalidaResponse, error) {
	salidas, err := uc.salidaRepo.List(ctx, filtro)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SalidaResponse, 0, len(salidas))
	for _, s := range salidas {
		out = append(out, dto.SalidaResponse{
			ID:                     s.ID,
			ProductoID:             s.ProductoID,
			ClienteID:              s.ClienteID,
			ProveedorID:            s.ProveedorID,
			CondicionalClienteID:   s.CondicionalClienteID,
			CondicionalProveedorID: s.CondicionalProveedorID,
			Cantidad:               s.Cantidad,
			Tipo:                   s.Tipo,
			FechaSalida:            s.FechaSalida,
			ValorTotal:             s.ValorTotal,
			Observaciones:          s.Observaciones,
		})
	}
	return out, nil
}

func (uc *UseCase) invalidarStock(ctx context.Context, productoID string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, claveStock(productoID)); err != nil {
		uc.log.Warn().Err(err).Str("producto_id", productoID).Msg("fallo invalidando cache de stock")
	}
}

// conReintento repite el ciclo leer-calcular-escribir ante conflicto de
// versión.
func conReintento(fn func() error) error {
	var err error
	for i := 0; i < maxReintentos; i++ {
		err = fn()
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
	}
	return err
}
