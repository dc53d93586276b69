// Package stock parses delimited size/quantity text and replaces a product's
// per-size stock lines as one validated, atomic operation.
package stock

import (
	"context"
	"strconv"
	"strings"

	"github.com/tiendastreet/catalog-service/internal/model"
)

// Pair is one parsed (size name, quantity) entry, in input order.
type Pair struct {
	SizeName string
	Quantity int
}

// SplitList splits comma-separated text, trims whitespace and drops empty
// tokens.
func SplitList(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ParsePairs validates the two text fields together. The lists must be the
// same length and every quantity must parse as a non-negative integer; the
// first offending token fails the whole call, there is no partial result.
func ParsePairs(sizesText, quantitiesText string) ([]Pair, error) {
	sizes := SplitList(sizesText)
	quantities := SplitList(quantitiesText)

	if len(sizes) != len(quantities) {
		return nil, &ShapeMismatchError{Sizes: len(sizes), Quantities: len(quantities)}
	}

	pairs := make([]Pair, len(sizes))
	for i, token := range quantities {
		n, err := strconv.Atoi(token)
		if err != nil || n < 0 {
			return nil, &InvalidQuantityError{Token: token}
		}
		pairs[i] = Pair{SizeName: sizes[i], Quantity: n}
	}
	return pairs, nil
}

// ResolveLines maps parsed pairs to stock lines using the size catalog.
// Size names match case-sensitively. All unknown names are collected into a
// single UnknownSizeError. Duplicate size names are kept; the storage layer
// applies last-write-wins on the (product, size) key.
func ResolveLines(pairs []Pair, sizeIDs map[string]string) ([]model.StockLine, error) {
	var unknown []string
	for _, p := range pairs {
		if _, ok := sizeIDs[p.SizeName]; !ok {
			unknown = append(unknown, p.SizeName)
		}
	}
	if len(unknown) > 0 {
		return nil, &UnknownSizeError{Names: unknown}
	}

	lines := make([]model.StockLine, len(pairs))
	for i, p := range pairs {
		lines[i] = model.StockLine{
			SizeID:   sizeIDs[p.SizeName],
			SizeName: p.SizeName,
			Quantity: p.Quantity,
		}
	}
	return lines, nil
}

// SizeCatalog is the read surface the reconciler needs from the catalog
// store.
type SizeCatalog interface {
	SizeIDsByName(ctx context.Context) (map[string]string, error)
}

// Replacer atomically swaps a product's full stock line set.
type Replacer interface {
	ReplaceStockLines(ctx context.Context, productID string, lines []model.StockLine) error
}

type Reconciler struct {
	sizes    SizeCatalog
	replacer Replacer
}

func NewReconciler(sizes SizeCatalog, replacer Replacer) *Reconciler {
	return &Reconciler{
		sizes:    sizes,
		replacer: replacer,
	}
}

// Resolve validates the delimited inputs against the size catalog and
// returns the stock lines they describe. It writes nothing, so callers can
// reject a submission before touching storage.
func (r *Reconciler) Resolve(ctx context.Context, sizesText, quantitiesText string) ([]model.StockLine, error) {
	pairs, err := ParsePairs(sizesText, quantitiesText)
	if err != nil {
		return nil, err
	}

	sizeIDs, err := r.sizes.SizeIDsByName(ctx)
	if err != nil {
		return nil, err
	}

	return ResolveLines(pairs, sizeIDs)
}

// Reconcile validates the delimited inputs and, only if everything checks
// out, replaces the product's stock lines. Any failure leaves the prior
// stock set intact.
func (r *Reconciler) Reconcile(ctx context.Context, productID, sizesText, quantitiesText string) error {
	lines, err := r.Resolve(ctx, sizesText, quantitiesText)
	if err != nil {
		return err
	}
	return r.replacer.ReplaceStockLines(ctx, productID, lines)
}
