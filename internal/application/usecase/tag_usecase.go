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

// TagUseCase casos de uso para tags de catálogo.
type TagUseCase struct {
	repo repository.TagRepository
}

// NewTagUseCase construye el caso de uso.
func NewTagUseCase(repo repository.TagRepository) *TagUseCase {
	return &TagUseCase{repo: repo}
}

// Create crea un tag.
func (uc *TagUseCase) Create(ctx context.Context, in dto.TagRequest) (*dto.TagResponse, error) {
	if in.Nombre == "" {
		return nil, domain.ErrInvalidInput
	}
	tag := &entity.Tag{
		ID:        uuid.New().String(),
		Nombre:    in.Nombre,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, tag); err != nil {
		return nil, err
	}
	return &dto.TagResponse{ID: tag.ID, Nombre: tag.Nombre}, nil
}

// List lista todos los tags.
func (uc *TagUseCase) List(ctx context.Context) ([]*dto.TagResponse, error) {
	tags, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.TagResponse, 0, len(tags))
	for _, t := range tags {
		out = append(out, &dto.TagResponse{ID: t.ID, Nombre: t.Nombre})
	}
	return out, nil
}

// Delete elimina un tag.
func (uc *TagUseCase) Delete(ctx context.Context, id string) error {
	tag, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if tag == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(ctx, id)
}
