package transfer

import (
	"bytes"
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendastreet/catalog-service/internal/catalog"
	"github.com/tiendastreet/catalog-service/internal/model"
	"github.com/tiendastreet/catalog-service/internal/product"
	"github.com/tiendastreet/catalog-service/internal/product/dto"
)

// fakeProductRepo is an in-memory product.Repository. InTx snapshots state
// up front and restores it when fn fails, mirroring a real rollback.
type fakeProductRepo struct {
	products map[string]*model.Product
	stock    map[string][]model.StockLine
	images   map[string][]model.ProductImage
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{
		products: map[string]*model.Product{},
		stock:    map[string][]model.StockLine{},
		images:   map[string][]model.ProductImage{},
	}
}

func (f *fakeProductRepo) Create(ctx context.Context, p *model.Product) error {
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) FindByID(ctx context.Context, id string) (*model.Product, error) {
	if p, ok := f.products[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeProductRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	for _, p := range f.products {
		if p.SKU == sku {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeProductRepo) FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	out := make([]model.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out, len(out), nil
}

func (f *fakeProductRepo) Update(ctx context.Context, p *model.Product) error {
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductRepo) Delete(ctx context.Context, id string) error {
	delete(f.products, id)
	delete(f.stock, id)
	delete(f.images, id)
	return nil
}

func (f *fakeProductRepo) IsSKUUnique(ctx context.Context, sku, excludeID string) (bool, error) {
	for _, p := range f.products {
		if p.SKU == sku && p.ID != excludeID {
			return false, nil
		}
	}
	return true, nil
}

func (f *fakeProductRepo) ReplaceStockLines(ctx context.Context, productID string, lines []model.StockLine) error {
	bySize := map[string]model.StockLine{}
	var order []string
	for _, l := range lines {
		l.ProductID = productID
		if _, seen := bySize[l.SizeID]; !seen {
			order = append(order, l.SizeID)
		}
		bySize[l.SizeID] = l
	}
	replaced := make([]model.StockLine, 0, len(order))
	for _, sizeID := range order {
		replaced = append(replaced, bySize[sizeID])
	}
	f.stock[productID] = replaced
	return nil
}

func (f *fakeProductRepo) ReplaceImages(ctx context.Context, productID string, images []model.ProductImage) error {
	f.images[productID] = append([]model.ProductImage(nil), images...)
	return nil
}

func (f *fakeProductRepo) DeductStock(ctx context.Context, productID, sizeID string, quantity int) error {
	return nil
}

func (f *fakeProductRepo) StockLinesByProduct(ctx context.Context, productIDs []string) (map[string][]model.StockLine, error) {
	out := map[string][]model.StockLine{}
	for _, id := range productIDs {
		if lines, ok := f.stock[id]; ok {
			out[id] = append([]model.StockLine(nil), lines...)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) ImagesByProduct(ctx context.Context, productIDs []string) (map[string][]model.ProductImage, error) {
	out := map[string][]model.ProductImage{}
	for _, id := range productIDs {
		if imgs, ok := f.images[id]; ok {
			out[id] = append([]model.ProductImage(nil), imgs...)
		}
	}
	return out, nil
}

func (f *fakeProductRepo) InTx(ctx context.Context, fn func(product.Repository) error) error {
	snapshot := f.clone()
	if err := fn(f); err != nil {
		f.products = snapshot.products
		f.stock = snapshot.stock
		f.images = snapshot.images
		return err
	}
	return nil
}

func (f *fakeProductRepo) clone() *fakeProductRepo {
	cp := newFakeProductRepo()
	for id, p := range f.products {
		pc := *p
		cp.products[id] = &pc
	}
	for id, lines := range f.stock {
		cp.stock[id] = append([]model.StockLine(nil), lines...)
	}
	for id, imgs := range f.images {
		cp.images[id] = append([]model.ProductImage(nil), imgs...)
	}
	return cp
}

type fakeCatalogRepo struct {
	refs  map[catalog.Kind][]model.Reference
	sizes map[string]string
}

func (f *fakeCatalogRepo) Create(ctx context.Context, kind catalog.Kind, ref *model.Reference) error {
	f.refs[kind] = append(f.refs[kind], *ref)
	return nil
}

func (f *fakeCatalogRepo) FindByID(ctx context.Context, kind catalog.Kind, id string) (*model.Reference, error) {
	for _, ref := range f.refs[kind] {
		if ref.ID == id {
			cp := ref
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogRepo) FindByName(ctx context.Context, kind catalog.Kind, name string, caseInsensitive bool) (*model.Reference, error) {
	for _, ref := range f.refs[kind] {
		if ref.Name == name {
			cp := ref
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalogRepo) FindAll(ctx context.Context, kind catalog.Kind) ([]model.Reference, error) {
	return append([]model.Reference(nil), f.refs[kind]...), nil
}

func (f *fakeCatalogRepo) Update(ctx context.Context, kind catalog.Kind, ref *model.Reference) error {
	return nil
}

func (f *fakeCatalogRepo) Delete(ctx context.Context, kind catalog.Kind, id string) error {
	return nil
}

func (f *fakeCatalogRepo) SizeIDsByName(ctx context.Context) (map[string]string, error) {
	return f.sizes, nil
}

func testCatalog() *fakeCatalogRepo {
	ref := func(id, name string) model.Reference {
		return model.Reference{BaseModel: model.BaseModel{ID: id}, Name: name}
	}
	return &fakeCatalogRepo{
		refs: map[catalog.Kind][]model.Reference{
			catalog.KindCategory: {ref("cat-1", "Hoodies")},
			catalog.KindGender:   {ref("gen-1", "Unisex")},
			catalog.KindSeason:   {ref("sea-1", "Winter")},
			catalog.KindBrand:    {ref("bra-1", "Acme")},
		},
		sizes: map[string]string{"S": "size-s", "M": "size-m", "L": "size-l"},
	}
}

func buildSheet(t *testing.T, headers []string, rows []Row) *bytes.Reader {
	t.Helper()
	data, err := WriteRows(headers, rows)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

var importHeaders = []string{
	"SKU", "Name", "BasePrice", "Sizes", "Quantities",
	"CategoryName", "GenderName", "SeasonName", "BrandName",
}

func TestImportMissingColumns(t *testing.T) {
	im := NewImporter(newFakeProductRepo(), testCatalog())

	sheet := buildSheet(t, []string{"SKU", "Name"}, nil)
	_, err := im.Import(context.Background(), sheet)

	var missingErr *MissingColumnsError
	require.ErrorAs(t, err, &missingErr)
	assert.Equal(t, []string{"BasePrice", "Sizes", "Quantities", "CategoryName", "GenderName", "SeasonName", "BrandName"}, missingErr.Columns)
}

func TestImportCreates(t *testing.T) {
	repo := newFakeProductRepo()
	im := NewImporter(repo, testCatalog())

	sheet := buildSheet(t, importHeaders, []Row{
		{
			"SKU": "A-1", "Name": "Hoodie", "BasePrice": "59.99",
			"Sizes": "S, M", "Quantities": "4, 2",
			"CategoryName": "hoodies", "GenderName": "UNISEX",
			"SeasonName": "Winter", "BrandName": "Acme",
		},
	})

	result, err := im.Import(context.Background(), sheet)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 0, result.Updated)
	assert.Empty(t, result.Errors)

	p, err := repo.FindBySKU(context.Background(), "A-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Hoodie", p.Name)
	assert.Equal(t, 59.99, p.BasePrice)
	// Reference names resolve case-insensitively.
	require.NotNil(t, p.CategoryID)
	assert.Equal(t, "cat-1", *p.CategoryID)
	require.NotNil(t, p.GenderID)
	assert.Equal(t, "gen-1", *p.GenderID)

	lines := repo.stock[p.ID]
	require.Len(t, lines, 2)
	assert.Equal(t, "size-s", lines[0].SizeID)
	assert.Equal(t, 4, lines[0].Quantity)
}

func TestImportUpdatesBySKU(t *testing.T) {
	repo := newFakeProductRepo()
	existing := &model.Product{
		BaseModel: model.BaseModel{ID: "p1"},
		SKU:       "A-1",
		Name:      "Old Hoodie",
		BasePrice: 10,
		OnSale:    true,
	}
	require.NoError(t, repo.Create(context.Background(), existing))
	repo.stock["p1"] = []model.StockLine{{ProductID: "p1", SizeID: "size-l", Quantity: 9}}

	im := NewImporter(repo, testCatalog())

	// OnSale column absent, so the existing flag survives the update.
	sheet := buildSheet(t, importHeaders, []Row{
		{
			"SKU": "A-1", "Name": "New Hoodie", "BasePrice": "25",
			"Sizes": "M", "Quantities": "6",
			"CategoryName": "Hoodies", "GenderName": "", "SeasonName": "", "BrandName": "",
		},
	})

	result, err := im.Import(context.Background(), sheet)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Empty(t, result.Errors)

	p := repo.products["p1"]
	assert.Equal(t, "New Hoodie", p.Name)
	assert.Equal(t, 25.0, p.BasePrice)
	assert.True(t, p.OnSale)
	assert.Nil(t, p.GenderID)

	lines := repo.stock["p1"]
	require.Len(t, lines, 1)
	assert.Equal(t, "size-m", lines[0].SizeID)
	assert.Equal(t, 6, lines[0].Quantity)
}

func TestImportRollsBackOnAnyRowError(t *testing.T) {
	repo := newFakeProductRepo()
	im := NewImporter(repo, testCatalog())

	sheet := buildSheet(t, importHeaders, []Row{
		{
			"SKU": "A-1", "Name": "Good", "BasePrice": "10",
			"Sizes": "S", "Quantities": "1",
			"CategoryName": "", "GenderName": "", "SeasonName": "", "BrandName": "",
		},
		{
			"SKU": "A-2", "Name": "Bad size", "BasePrice": "10",
			"Sizes": "XXL", "Quantities": "1",
			"CategoryName": "", "GenderName": "", "SeasonName": "", "BrandName": "",
		},
		{
			"SKU": "", "Name": "Bad SKU", "BasePrice": "10",
			"Sizes": "S", "Quantities": "1",
			"CategoryName": "", "GenderName": "", "SeasonName": "", "BrandName": "",
		},
	})

	result, err := im.Import(context.Background(), sheet)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 0, result.Updated)
	require.Len(t, result.Errors, 2)
	// Data rows are numbered from 2; the header is row 1.
	assert.Contains(t, result.Errors[0], "row 3")
	assert.Contains(t, result.Errors[0], "XXL")
	assert.Contains(t, result.Errors[1], "row 4")
	assert.Contains(t, result.Errors[1], "SKU is required")

	// The valid first row rolled back with the rest.
	assert.Empty(t, repo.products)
	assert.Empty(t, repo.stock)
}

func TestImportRowErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		row     Row
		wantSub string
	}{
		{
			"shape mismatch",
			Row{"SKU": "A-1", "Name": "X", "BasePrice": "10", "Sizes": "S, M", "Quantities": "1"},
			"does not match",
		},
		{
			"negative quantity",
			Row{"SKU": "A-1", "Name": "X", "BasePrice": "10", "Sizes": "S", "Quantities": "-1"},
			"non-negative",
		},
		{
			"bad price",
			Row{"SKU": "A-1", "Name": "X", "BasePrice": "free", "Sizes": "S", "Quantities": "1"},
			"BasePrice",
		},
		{
			"unknown brand",
			Row{"SKU": "A-1", "Name": "X", "BasePrice": "10", "Sizes": "S", "Quantities": "1", "BrandName": "Nope"},
			`brand "Nope" not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeProductRepo()
			im := NewImporter(repo, testCatalog())

			result, err := im.Import(context.Background(), buildSheet(t, importHeaders, []Row{tt.row}))
			require.NoError(t, err)
			assert.Zero(t, result.Created)
			assert.Zero(t, result.Updated)
			require.Len(t, result.Errors, 1)
			assert.Contains(t, result.Errors[0], "row 2")
			assert.Contains(t, result.Errors[0], tt.wantSub)
			assert.Empty(t, repo.products)
		})
	}
}

func TestImportOptionalColumns(t *testing.T) {
	repo := newFakeProductRepo()
	im := NewImporter(repo, testCatalog())

	headers := append(append([]string(nil), importHeaders...), "Description", "OnSale", "DiscountPercent")
	sheet := buildSheet(t, headers, []Row{
		{
			"SKU": "A-1", "Name": "Hoodie", "BasePrice": "100",
			"Sizes": "S", "Quantities": "1",
			"CategoryName": "", "GenderName": "", "SeasonName": "", "BrandName": "",
			"Description": "Warm", "OnSale": "yes", "DiscountPercent": "20",
		},
	})

	result, err := im.Import(context.Background(), sheet)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)

	p, err := repo.FindBySKU(context.Background(), "A-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NotNil(t, p.Description)
	assert.Equal(t, "Warm", *p.Description)
	assert.True(t, p.OnSale)
	assert.Equal(t, 20, p.DiscountPercent)
}

func TestExportImportRoundTrip(t *testing.T) {
	repo := newFakeProductRepo()
	cat := testCatalog()

	brand := "Acme"
	p := &model.Product{
		BaseModel: model.BaseModel{ID: "p1"},
		SKU:       "A-1",
		Name:      "Hoodie",
		BasePrice: 59.99,
		OnSale:    true,
		BrandID:   strPtr("bra-1"),
		BrandName: &brand,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	repo.stock["p1"] = []model.StockLine{
		{ProductID: "p1", SizeID: "size-s", SizeName: "S", Quantity: 4},
		{ProductID: "p1", SizeID: "size-m", SizeName: "M", Quantity: 2},
	}

	data, err := NewExporter(repo).Export(context.Background())
	require.NoError(t, err)

	// Importing an unmodified export touches every product but changes
	// nothing and fails nowhere.
	result, err := NewImporter(repo, cat).Import(context.Background(), bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 0, result.Created)
	assert.Equal(t, 1, result.Updated)
	assert.Empty(t, result.Errors)

	after := repo.products["p1"]
	assert.Equal(t, "Hoodie", after.Name)
	assert.Equal(t, 59.99, after.BasePrice)
	assert.True(t, after.OnSale)
	require.Len(t, repo.stock["p1"], 2)
}

func strPtr(s string) *string { return &s }
