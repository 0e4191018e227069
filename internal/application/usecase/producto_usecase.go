package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/consignado-api/internal/application/dto"
	"github.com/tu-usuario/consignado-api/internal/domain"
	"github.com/tu-usuario/consignado-api/internal/domain/entity"
	"github.com/tu-usuario/consignado-api/internal/domain/lote"
	"github.com/tu-usuario/consignado-api/internal/domain/repository"
)

// ProductoUseCase casos de uso CRUD para productos. El stock solo se mueve
// vía lotes (ventas, condicionales); aquí solo el alta con lote inicial.
type ProductoUseCase struct {
	repo              repository.ProductoRepository
	condClienteRepo   repository.CondicionalClienteRepository
	condProveedorRepo repository.CondicionalProveedorRepository
}

// NewProductoUseCase construye el caso de uso.
func NewProductoUseCase(
	repo repository.ProductoRepository,
	condClienteRepo repository.CondicionalClienteRepository,
	condProveedorRepo repository.CondicionalProveedorRepository,
) *ProductoUseCase {
	return &ProductoUseCase{
		repo:              repo,
		condClienteRepo:   condClienteRepo,
		condProveedorRepo: condProveedorRepo,
	}
}

// Create crea un producto con su lote inicial (cantidad cero permitida:
// producto de catálogo sin stock propio todavía).
func (uc *ProductoUseCase) Create(ctx context.Context, in dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if in.CantidadInicial < 0 {
		return nil, domain.ErrCantidadInvalida
	}
	existente, err := uc.repo.GetByCodigoInterno(ctx, in.CodigoInterno)
	if err != nil {
		return nil, err
	}
	if existente != nil {
		return nil, domain.ErrDuplicate
	}
	ahora := time.Now().UTC()
	producto := &entity.Producto{
		ID:             uuid.New().String(),
		CodigoInterno:  in.CodigoInterno,
		CodigoExterno:  in.CodigoExterno,
		Descripcion:    in.Descripcion,
		MarcaProveedor: in.MarcaProveedor,
		Sesion:         in.Sesion,
		PrecioCosto:    in.PrecioCosto,
		PrecioVenta:    in.PrecioVenta,
		Tags:           in.Tags,
		CreatedAt:      ahora,
		UpdatedAt:      ahora,
	}
	if in.CantidadInicial > 0 {
		producto.Lotes = []entity.Lote{{
			Cantidad:         in.CantidadInicial,
			FechaAdquisicion: ahora,
		}}
	}
	if err := uc.repo.Create(ctx, producto); err != nil {
		return nil, err
	}
	return toProductoResponse(producto), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductoUseCase) GetByID(ctx context.Context, id string) (*dto.ProductoResponse, error) {
	producto, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.ErrNotFound
	}
	return toProductoResponse(producto), nil
}

// List lista productos con paginación.
func (uc *ProductoUseCase) List(ctx context.Context, limit, offset int) ([]*dto.ProductoResponse, error) {
	productos, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductoResponse, 0, len(productos))
	for _, p := range productos {
		out = append(out, toProductoResponse(p))
	}
	return out, nil
}

// Update actualiza los campos editables. Los lotes no se tocan por aquí.
func (uc *ProductoUseCase) Update(ctx context.Context, id string, in dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	producto, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if producto == nil {
		return nil, domain.ErrNotFound
	}
	if in.CodigoExterno != nil {
		producto.CodigoExterno = *in.CodigoExterno
	}
	if in.Descripcion != nil {
		producto.Descripcion = *in.Descripcion
	}
	if in.MarcaProveedor != nil {
		producto.MarcaProveedor = *in.MarcaProveedor
	}
	if in.Sesion != nil {
		producto.Sesion = *in.Sesion
	}
	if in.PrecioCosto != nil {
		producto.PrecioCosto = *in.PrecioCosto
	}
	if in.PrecioVenta != nil {
		producto.PrecioVenta = *in.PrecioVenta
	}
	if len(in.Tags) > 0 {
		producto.Tags = in.Tags
	}
	producto.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, producto); err != nil {
		return nil, err
	}
	return toProductoResponse(producto), nil
}

// Delete elimina un producto. Falla si alguna condicional activa lo
// referencia: el chequeo es un escaneo en vivo de las condicionales, no una
// lectura de los flags del documento.
func (uc *ProductoUseCase) Delete(ctx context.Context, id string) error {
	producto, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if producto == nil {
		return domain.ErrNotFound
	}
	activas, err := uc.condClienteRepo.ListActivasPorProducto(ctx, id)
	if err != nil {
		return err
	}
	if len(activas) > 0 {
		return domain.ErrProductoConCondicion
	}
	abiertas, err := uc.condProveedorRepo.List(ctx, true)
	if err != nil {
		return err
	}
	for _, c := range abiertas {
		if c.TieneProducto(id) {
			return domain.ErrProductoConCondicion
		}
	}
	return uc.repo.Delete(ctx, id)
}

func toProductoResponse(p *entity.Producto) *dto.ProductoResponse {
	lotes := make([]dto.LoteDTO, 0, len(p.Lotes))
	for i := range p.Lotes {
		lotes = append(lotes, dto.LoteDTO{
			Cantidad:           p.Lotes[i].Cantidad,
			FechaAdquisicion:   p.Lotes[i].FechaAdquisicion,
			ReservadoCliente:   p.Lotes[i].Reservado(entity.EjeCliente),
			ReservadoProveedor: p.Lotes[i].Reservado(entity.EjeProveedor),
		})
	}
	return &dto.ProductoResponse{
		ID:                     p.ID,
		CodigoInterno:          p.CodigoInterno,
		CodigoExterno:          p.CodigoExterno,
		Descripcion:            p.Descripcion,
		MarcaProveedor:         p.MarcaProveedor,
		Sesion:                 p.Sesion,
		EnCondicionalCliente:   p.EnCondicionalCliente,
		EnCondicionalProveedor: p.EnCondicionalProveedor,
		Lotes:                  lotes,
		StockTotal:             p.StockTotal(),
		StockVendible:          lote.Disponible(p.Lotes, entity.EjeCliente),
		PrecioCosto:            p.PrecioCosto,
		PrecioVenta:            p.PrecioVenta,
		Tags:                   p.Tags,
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}
