package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tiendastreet/catalog-service/internal/catalog"
	"github.com/tiendastreet/catalog-service/internal/model"
	"github.com/tiendastreet/catalog-service/internal/product"
	"github.com/tiendastreet/catalog-service/internal/stock"
)

var requiredColumns = []string{
	"SKU", "Name", "BasePrice", "Sizes", "Quantities",
	"CategoryName", "GenderName", "SeasonName", "BrandName",
}

var referenceColumns = []struct {
	Kind   catalog.Kind
	Column string
}{
	{catalog.KindCategory, "CategoryName"},
	{catalog.KindGender, "GenderName"},
	{catalog.KindSeason, "SeasonName"},
	{catalog.KindBrand, "BrandName"},
}

// errValidation aborts the import transaction when any row failed, so the
// rows that did pass are rolled back too.
var errValidation = errors.New("import rejected")

// ImportResult reports what one import run did. When Errors is non-empty
// nothing was written and both counters are zero.
type ImportResult struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Errors  []string `json:"errors"`
}

type Importer struct {
	repo    product.Repository
	catalog catalog.Repository
}

func NewImporter(repo product.Repository, catalogRepo catalog.Repository) *Importer {
	return &Importer{
		repo:    repo,
		catalog: catalogRepo,
	}
}

type referenceIndex map[catalog.Kind]map[string]string

type columnOptions struct {
	hasDescription bool
	hasOnSale      bool
	hasDiscount    bool
}

// Import upserts products by SKU from an xlsx sheet inside one transaction.
// Every data row is validated and reported individually (rows are 1-indexed
// with the header as row 1), but a single bad row rolls back the whole run.
func (im *Importer) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	headers, rows, err := ReadRows(r)
	if err != nil {
		return nil, err
	}

	headerSet := make(map[string]bool, len(headers))
	for _, h := range headers {
		headerSet[h] = true
	}
	var missing []string
	for _, c := range requiredColumns {
		if !headerSet[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	sizeIDs, err := im.catalog.SizeIDsByName(ctx)
	if err != nil {
		return nil, err
	}
	refs, err := im.loadReferences(ctx)
	if err != nil {
		return nil, err
	}

	opts := columnOptions{
		hasDescription: headerSet["Description"],
		hasOnSale:      headerSet["OnSale"],
		hasDiscount:    headerSet["DiscountPercent"],
	}

	result := &ImportResult{Errors: []string{}}
	txErr := im.repo.InTx(ctx, func(repo product.Repository) error {
		for i, row := range rows {
			rowNum := i + 2
			created, rowErr, err := im.importRow(ctx, repo, row, refs, sizeIDs, opts)
			if err != nil {
				return err
			}
			if rowErr != nil {
				result.Errors = append(result.Errors, (&RowError{Row: rowNum, Err: rowErr}).Error())
				continue
			}
			if created {
				result.Created++
			} else {
				result.Updated++
			}
		}
		if len(result.Errors) > 0 {
			return errValidation
		}
		return nil
	})
	if txErr != nil {
		if errors.Is(txErr, errValidation) {
			result.Created, result.Updated = 0, 0
			return result, nil
		}
		return nil, txErr
	}

	return result, nil
}

// importRow returns (created, rowErr, err): rowErr is the row's own fault
// and gets collected, err is an infrastructure failure that aborts the run.
func (im *Importer) importRow(
	ctx context.Context,
	repo product.Repository,
	row Row,
	refs referenceIndex,
	sizeIDs map[string]string,
	opts columnOptions,
) (bool, error, error) {
	sku := row["SKU"]
	if sku == "" {
		return false, ErrMissingSKU, nil
	}

	basePrice, err := strconv.ParseFloat(row["BasePrice"], 64)
	if err != nil || basePrice < 0 {
		return false, fmt.Errorf("BasePrice %q must be a non-negative number", row["BasePrice"]), nil
	}

	pairs, err := stock.ParsePairs(row["Sizes"], row["Quantities"])
	if err != nil {
		return false, err, nil
	}

	var refIDs [4]*string
	for i, rc := range referenceColumns {
		id, rowErr := resolveReference(refs, rc.Kind, row[rc.Column])
		if rowErr != nil {
			return false, rowErr, nil
		}
		refIDs[i] = id
	}

	lines, err := stock.ResolveLines(pairs, sizeIDs)
	if err != nil {
		return false, err, nil
	}

	onSale := opts.hasOnSale && strings.EqualFold(row["OnSale"], "yes")
	discount := 0
	if opts.hasDiscount && row["DiscountPercent"] != "" {
		d, err := strconv.Atoi(row["DiscountPercent"])
		if err != nil || d < 0 || d > 100 {
			return false, fmt.Errorf("DiscountPercent %q must be an integer between 0 and 100", row["DiscountPercent"]), nil
		}
		discount = d
	}

	existing, err := repo.FindBySKU(ctx, sku)
	if err != nil {
		return false, nil, err
	}

	now := time.Now()
	if existing == nil {
		p := &model.Product{
			BaseModel:       model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
			SKU:             sku,
			Name:            row["Name"],
			Description:     optional(row["Description"]),
			BasePrice:       basePrice,
			OnSale:          onSale,
			DiscountPercent: discount,
			CategoryID:      refIDs[0],
			GenderID:        refIDs[1],
			SeasonID:        refIDs[2],
			BrandID:         refIDs[3],
		}
		if err := repo.Create(ctx, p); err != nil {
			return false, nil, err
		}
		if err := repo.ReplaceStockLines(ctx, p.ID, lines); err != nil {
			return false, nil, err
		}
		return true, nil, nil
	}

	existing.Name = row["Name"]
	existing.BasePrice = basePrice
	existing.CategoryID = refIDs[0]
	existing.GenderID = refIDs[1]
	existing.SeasonID = refIDs[2]
	existing.BrandID = refIDs[3]
	if opts.hasDescription {
		existing.Description = optional(row["Description"])
	}
	if opts.hasOnSale {
		existing.OnSale = onSale
	}
	if opts.hasDiscount {
		existing.DiscountPercent = discount
	}
	existing.UpdatedAt = now

	if err := repo.Update(ctx, existing); err != nil {
		return false, nil, err
	}
	if err := repo.ReplaceStockLines(ctx, existing.ID, lines); err != nil {
		return false, nil, err
	}
	return false, nil, nil
}

// loadReferences indexes every reference table by lowercased name, so row
// values match case-insensitively.
func (im *Importer) loadReferences(ctx context.Context) (referenceIndex, error) {
	refs := make(referenceIndex, len(referenceColumns))
	for _, rc := range referenceColumns {
		all, err := im.catalog.FindAll(ctx, rc.Kind)
		if err != nil {
			return nil, err
		}
		byName := make(map[string]string, len(all))
		for _, ref := range all {
			byName[strings.ToLower(ref.Name)] = ref.ID
		}
		refs[rc.Kind] = byName
	}
	return refs, nil
}

func resolveReference(refs referenceIndex, kind catalog.Kind, name string) (*string, error) {
	if name == "" {
		return nil, nil
	}
	id, ok := refs[kind][strings.ToLower(name)]
	if !ok {
		return nil, &UnknownReferenceError{Kind: kind, Name: name}
	}
	return &id, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
