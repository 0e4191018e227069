package condicional

import (
	"context"

	"github.com/tu-usuario/consignado-api/internal/application/dto"
	"github.com/tu-usuario/consignado-api/internal/domain"
	"github.com/tu-usuario/consignado-api/internal/domain/entity"
)

// Obtener devuelve la vista de una condicional de cliente.
func (uc *ClienteUseCase) Obtener(ctx context.Context, condicionalID string) (*dto.CondicionalClienteResponse, error) {
	cond, err := uc.condRepo.GetByID(ctx, condicionalID)
	if err != nil {
		return nil, err
	}
	if cond == nil {
		return nil, domain.ErrNotFound
	}
	resp := toCondicionalClienteResponse(cond)
	return &resp, nil
}

// Listar lista condicionales de cliente, opcionalmente solo las activas.
func (uc *ClienteUseCase) Listar(ctx context.Context, soloActivas bool) ([]dto.CondicionalClienteResponse, error) {
	conds, err := uc.condRepo.List(ctx, soloActivas)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CondicionalClienteResponse, 0, len(conds))
	for _, c := range conds {
		out = append(out, toCondicionalClienteResponse(c))
	}
	return out, nil
}

// Obtener devuelve la vista de una condicional de proveedor.
func (uc *ProveedorUseCase) Obtener(ctx context.Context, condicionalID string) (*dto.CondicionalProveedorResponse, error) {
	cond, err := uc.condRepo.GetByID(ctx, condicionalID)
	if err != nil {
		return nil, err
	}
	if cond == nil {
		return nil, domain.ErrNotFound
	}
	resp := toCondicionalProveedorResponse(cond)
	return &resp, nil
}

// Listar lista condicionales de proveedor, opcionalmente solo las abiertas.
func (uc *ProveedorUseCase) Listar(ctx context.Context, soloAbiertas bool) ([]dto.CondicionalProveedorResponse, error) {
	conds, err := uc.condRepo.List(ctx, soloAbiertas)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CondicionalProveedorResponse, 0, len(conds))
	for _, c := range conds {
		out = append(out, toCondicionalProveedorResponse(c))
	}
	return out, nil
}

func toCondicionalClienteResponse(c *entity.CondicionalCliente) dto.CondicionalClienteResponse {
	lineas := make([]dto.LineaProductoRequest, 0, len(c.Productos))
	for _, l := range c.Productos {
		lineas = append(lineas, dto.LineaProductoRequest{ProductoID: l.ProductoID, Cantidad: l.Cantidad})
	}
	return dto.CondicionalClienteResponse{
		ID:               c.ID,
		ClienteID:        c.ClienteID,
		Productos:        lineas,
		FechaCondicional: c.FechaCondicional,
		FechaDevolucion:  c.FechaDevolucion,
		Activa:           c.Activa,
		Observaciones:    c.Observaciones,
	}
}

func toCondicionalProveedorResponse(c *entity.CondicionalProveedor) dto.CondicionalProveedorResponse {
	return dto.CondicionalProveedorResponse{
		ID:                    c.ID,
		ProveedorID:           c.ProveedorID,
		ProductosID:           append([]string(nil), c.ProductosID...),
		CantidadMaxDevolucion: c.CantidadMaxDevolucion,
		FechaLimiteDevolucion: c.FechaLimiteDevolucion,
		FechaCondicional:      c.FechaCondicional,
		Activa:                c.Activa,
		Cerrada:               c.Cerrada,
		Observaciones:         c.Observaciones,
	}
}
