package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/consignado-api/internal/application/dto"
	"github.com/tu-usuario/consignado-api/internal/domain"
	"github.com/tu-usuario/consignado-api/internal/domain/entity"
	"github.com/tu-usuario/consignado-api/internal/domain/repository"
)

// ClienteUseCase casos de uso CRUD para clientes.
type ClienteUseCase struct {
	repo     repository.ClienteRepository
	condRepo repository.CondicionalClienteRepository
}

// NewClienteUseCase construye el caso de uso.
func NewClienteUseCase(repo repository.ClienteRepository, condRepo repository.CondicionalClienteRepository) *ClienteUseCase {
	return &ClienteUseCase{repo: repo, condRepo: condRepo}
}

// Create crea un cliente.
func (uc *ClienteUseCase) Create(ctx context.Context, in dto.ClienteRequest) (*dto.ClienteResponse, error) {
	if in.Nombre == "" {
		return nil, domain.ErrInvalidInput
	}
	ahora := time.Now().UTC()
	cliente := &entity.Cliente{
		ID:            uuid.New().String(),
		Nombre:        in.Nombre,
		Telefono:      in.Telefono,
		CPF:           in.CPF,
		Direccion:     in.Direccion,
		Observaciones: in.Observaciones,
		CreatedAt:     ahora,
		UpdatedAt:     ahora,
	}
	if err := uc.repo.Create(ctx, cliente); err != nil {
		return nil, err
	}
	return toClienteResponse(cliente), nil
}

// GetByID obtiene un cliente por ID.
func (uc *ClienteUseCase) GetByID(ctx context.Context, id string) (*dto.ClienteResponse, error) {
	cliente, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cliente == nil {
		return nil, domain.ErrNotFound
	}
	return toClienteResponse(cliente), nil
}

// List lista clientes con paginación.
func (uc *ClienteUseCase) List(ctx context.Context, limit, offset int) ([]*dto.ClienteResponse, error) {
	clientes, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ClienteResponse, 0, len(clientes))
	for _, c := range clientes {
		out = append(out, toClienteResponse(c))
	}
	return out, nil
}

// Update actualiza un cliente.
func (uc *ClienteUseCase) Update(ctx context.Context, id string, in dto.ClienteRequest) (*dto.ClienteResponse, error) {
	cliente, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cliente == nil {
		return nil, domain.ErrNotFound
	}
	if in.Nombre != "" {
		cliente.Nombre = in.Nombre
	}
	cliente.Telefono = in.Telefono
	cliente.CPF = in.CPF
	cliente.Direccion = in.Direccion
	cliente.Observaciones = in.Observaciones
	cliente.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, cliente); err != nil {
		return nil, err
	}
	return toClienteResponse(cliente), nil
}

// Delete elimina un cliente. Falla si tiene condicionales activas.
func (uc *ClienteUseCase) Delete(ctx context.Context, id string) error {
	cliente, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cliente == nil {
		return domain.ErrNotFound
	}
	activas, err := uc.condRepo.ListActivasPorCliente(ctx, id)
	if err != nil {
		return err
	}
	if len(activas) > 0 {
		return domain.ErrConflict
	}
	return uc.repo.Delete(ctx, id)
}

func toClienteResponse(c *entity.Cliente) *dto.ClienteResponse {
	return &dto.ClienteResponse{
		ID:            c.ID,
		Nombre:        c.Nombre,
		Telefono:      c.Telefono,
		CPF:           c.CPF,
		Direccion:     c.Direccion,
		Observaciones: c.Observaciones,
		CreatedAt:     c.CreatedAt,
	}
}
