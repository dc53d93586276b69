package catalog

import (
	"context"

	"github.com/tiendastreet/catalog-service/internal/model"
)

// Kind selects one of the reference lookup tables.
type Kind string

const (
	KindCategory Kind = "category"
	KindGender   Kind = "gender"
	KindSeason   Kind = "season"
	KindBrand    Kind = "brand"
	KindSize     Kind = "size"
)

type Repository interface {
	Create(ctx context.Context, kind Kind, ref *model.Reference) error
	FindByID(ctx context.Context, kind Kind, id string) (*model.Reference, error)
	FindByName(ctx context.Context, kind Kind, name string, caseInsensitive bool) (*model.Reference, error)
	FindAll(ctx context.Context, kind Kind) ([]model.Reference, error)
	Update(ctx context.Context, kind Kind, ref *model.Reference) error
	Delete(ctx context.Context, kind Kind, id string) error

	// SizeIDsByName returns every size keyed by its exact name.
	SizeIDsByName(ctx context.Context) (map[string]string, error)
}
