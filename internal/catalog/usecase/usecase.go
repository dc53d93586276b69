package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/tiendastreet/catalog-service/internal/catalog"
	"github.com/tiendastreet/catalog-service/internal/catalog/dto"
	"github.com/tiendastreet/catalog-service/internal/logger"
	"github.com/tiendastreet/catalog-service/internal/model"
)

var ErrNotFound = errors.New("reference not found")

type catalogUseCase struct {
	repo   catalog.Repository
	logger logger.ZapLogger
}

func NewCatalogUseCase(repo catalog.Repository, log logger.ZapLogger) catalog.UseCase {
	return &catalogUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *catalogUseCase) CreateReference(ctx context.Context, kind catalog.Kind, input *dto.CreateReferenceInput) (*model.Reference, error) {
	now := time.Now()
	ref := &model.Reference{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:          input.Name,
		Description:   optional(input.Description),
		OriginCountry: optional(input.OriginCountry),
	}

	if err := uc.repo.Create(ctx, kind, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

func (uc *catalogUseCase) GetReference(ctx context.Context, kind catalog.Kind, id string) (*model.Reference, error) {
	ref, err := uc.repo.FindByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, ErrNotFound
	}
	return ref, nil
}

func (uc *catalogUseCase) ListReferences(ctx context.Context, kind catalog.Kind) ([]model.Reference, error) {
	return uc.repo.FindAll(ctx, kind)
}

func (uc *catalogUseCase) UpdateReference(ctx context.Context, kind catalog.Kind, input *dto.UpdateReferenceInput) (*model.Reference, error) {
	ref, err := uc.repo.FindByID(ctx, kind, input.ID)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, ErrNotFound
	}

	ref.Name = input.Name
	ref.Description = optional(input.Description)
	ref.OriginCountry = optional(input.OriginCountry)
	ref.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, kind, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

func (uc *catalogUseCase) DeleteReference(ctx context.Context, kind catalog.Kind, id string) error {
	return uc.repo.Delete(ctx, kind, id)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
