package stock

import (
	"fmt"
	"strings"
)

// ShapeMismatchError reports size and quantity lists of different lengths.
type ShapeMismatchError struct {
	Sizes      int
	Quantities int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("size count (%d) does not match quantity count (%d)", e.Sizes, e.Quantities)
}

// InvalidQuantityError reports a quantity token that is not a non-negative
// integer.
type InvalidQuantityError struct {
	Token string
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity %q must be a non-negative integer", e.Token)
}

// UnknownSizeError carries every size name that failed the catalog lookup,
// not just the first one.
type UnknownSizeError struct {
	Names []string
}

func (e *UnknownSizeError) Error() string {
	return fmt.Sprintf("unknown sizes: %s", strings.Join(e.Names, ", "))
}
