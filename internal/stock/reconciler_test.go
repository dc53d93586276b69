package stock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tiendastreet/catalog-service/internal/model"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"plain", "S,M,L", []string{"S", "M", "L"}},
		{"whitespace", " S , M ,  L ", []string{"S", "M", "L"}},
		{"empty tokens dropped", "S,,M,", []string{"S", "M"}},
		{"empty input", "", nil},
		{"only commas", ",,,", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitList(tt.text)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePairs(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		pairs, err := ParsePairs("S, M, L", "10, 0, 3")
		require.NoError(t, err)
		require.Len(t, pairs, 3)
		assert.Equal(t, Pair{SizeName: "S", Quantity: 10}, pairs[0])
		assert.Equal(t, Pair{SizeName: "M", Quantity: 0}, pairs[1])
		assert.Equal(t, Pair{SizeName: "L", Quantity: 3}, pairs[2])
	})

	t.Run("shape mismatch", func(t *testing.T) {
		_, err := ParsePairs("S, M, L", "10, 5")
		var shapeErr *ShapeMismatchError
		require.ErrorAs(t, err, &shapeErr)
		assert.Equal(t, 3, shapeErr.Sizes)
		assert.Equal(t, 2, shapeErr.Quantities)
	})

	t.Run("negative quantity", func(t *testing.T) {
		_, err := ParsePairs("S, M", "10, -1")
		var qtyErr *InvalidQuantityError
		require.ErrorAs(t, err, &qtyErr)
		assert.Equal(t, "-1", qtyErr.Token)
	})

	t.Run("non numeric quantity", func(t *testing.T) {
		_, err := ParsePairs("S", "many")
		var qtyErr *InvalidQuantityError
		require.ErrorAs(t, err, &qtyErr)
		assert.Equal(t, "many", qtyErr.Token)
	})

	t.Run("empty token changes shape", func(t *testing.T) {
		// "10,,5" collapses to two quantities against three sizes.
		_, err := ParsePairs("S, M, L", "10,,5")
		var shapeErr *ShapeMismatchError
		require.ErrorAs(t, err, &shapeErr)
	})

	t.Run("both empty", func(t *testing.T) {
		pairs, err := ParsePairs("", "")
		require.NoError(t, err)
		assert.Empty(t, pairs)
	})
}

func TestResolveLines(t *testing.T) {
	sizeIDs := map[string]string{"S": "id-s", "M": "id-m"}

	t.Run("resolves in input order", func(t *testing.T) {
		lines, err := ResolveLines([]Pair{{"M", 2}, {"S", 7}}, sizeIDs)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, "id-m", lines[0].SizeID)
		assert.Equal(t, 2, lines[0].Quantity)
		assert.Equal(t, "id-s", lines[1].SizeID)
		assert.Equal(t, 7, lines[1].Quantity)
	})

	t.Run("collects every unknown name", func(t *testing.T) {
		_, err := ResolveLines([]Pair{{"S", 1}, {"XL", 2}, {"XXL", 3}}, sizeIDs)
		var unknownErr *UnknownSizeError
		require.ErrorAs(t, err, &unknownErr)
		assert.Equal(t, []string{"XL", "XXL"}, unknownErr.Names)
	})

	t.Run("names are case sensitive", func(t *testing.T) {
		_, err := ResolveLines([]Pair{{"s", 1}}, sizeIDs)
		var unknownErr *UnknownSizeError
		require.ErrorAs(t, err, &unknownErr)
		assert.Equal(t, []string{"s"}, unknownErr.Names)
	})

	t.Run("duplicates pass through", func(t *testing.T) {
		lines, err := ResolveLines([]Pair{{"S", 1}, {"S", 9}}, sizeIDs)
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, 9, lines[1].Quantity)
	})
}

type fakeSizeCatalog struct {
	sizeIDs map[string]string
	err     error
}

func (f *fakeSizeCatalog) SizeIDsByName(ctx context.Context) (map[string]string, error) {
	return f.sizeIDs, f.err
}

type fakeReplacer struct {
	calls     int
	productID string
	lines     []model.StockLine
}

func (f *fakeReplacer) ReplaceStockLines(ctx context.Context, productID string, lines []model.StockLine) error {
	f.calls++
	f.productID = productID
	f.lines = lines
	return nil
}

func TestReconciler(t *testing.T) {
	sizes := &fakeSizeCatalog{sizeIDs: map[string]string{"S": "id-s", "M": "id-m"}}

	t.Run("resolve writes nothing", func(t *testing.T) {
		replacer := &fakeReplacer{}
		r := NewReconciler(sizes, replacer)

		lines, err := r.Resolve(context.Background(), "S, M", "4, 2")
		require.NoError(t, err)
		require.Len(t, lines, 2)
		assert.Equal(t, "id-s", lines[0].SizeID)
		assert.Zero(t, replacer.calls)
	})

	t.Run("replaces on success", func(t *testing.T) {
		replacer := &fakeReplacer{}
		r := NewReconciler(sizes, replacer)

		err := r.Reconcile(context.Background(), "p1", "S, M", "4, 2")
		require.NoError(t, err)
		assert.Equal(t, 1, replacer.calls)
		assert.Equal(t, "p1", replacer.productID)
		require.Len(t, replacer.lines, 2)
		assert.Equal(t, "id-s", replacer.lines[0].SizeID)
		assert.Equal(t, 4, replacer.lines[0].Quantity)
	})

	t.Run("never replaces on parse failure", func(t *testing.T) {
		replacer := &fakeReplacer{}
		r := NewReconciler(sizes, replacer)

		err := r.Reconcile(context.Background(), "p1", "S, M", "4")
		require.Error(t, err)
		assert.Zero(t, replacer.calls)
	})

	t.Run("never replaces on unknown size", func(t *testing.T) {
		replacer := &fakeReplacer{}
		r := NewReconciler(sizes, replacer)

		err := r.Reconcile(context.Background(), "p1", "S, XL", "4, 2")
		var unknownErr *UnknownSizeError
		require.ErrorAs(t, err, &unknownErr)
		assert.Zero(t, replacer.calls)
	})

	t.Run("propagates catalog failure", func(t *testing.T) {
		replacer := &fakeReplacer{}
		r := NewReconciler(&fakeSizeCatalog{err: errors.New("db down")}, replacer)

		err := r.Reconcile(context.Background(), "p1", "S", "1")
		require.EqualError(t, err, "db down")
		assert.Zero(t, replacer.calls)
	})
}
