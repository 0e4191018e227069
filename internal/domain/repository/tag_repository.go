package repository

import (
	"context"

	"github.com/tu-usuario/consignado-api/internal/domain/entity"
)

// TagRepository puerto de persistencia para Tag.
type TagRepository interface {
	Create(ctx context.Context, tag *entity.Tag) error
	GetByID(ctx context.Context, id string) (*entity.Tag, error)
	List(ctx context.Context) ([]*entity.Tag, error)
	Delete(ctx context.Context, id string) error
}
