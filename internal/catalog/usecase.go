package catalog

import (
	"context"

	"github.com/tiendastreet/catalog-service/internal/catalog/dto"
	"github.com/tiendastreet/catalog-service/internal/model"
)

type UseCase interface {
	CreateReference(ctx context.Context, kind Kind, input *dto.CreateReferenceInput) (*model.Reference, error)
	GetReference(ctx context.Context, kind Kind, id string) (*model.Reference, error)
	ListReferences(ctx context.Context, kind Kind) ([]model.Reference, error)
	UpdateReference(ctx context.Context, kind Kind, input *dto.UpdateReferenceInput) (*model.Reference, error)
	DeleteReference(ctx context.Context, kind Kind, id string) error
}
