package catalog

import (
	"fmt"
	"strings"

	"hope-store/internal/model"
)

// Catalog is a read-only product list with O(1) lookups by id.
// It is safe for concurrent use because it is never mutated after New.
type Catalog struct {
	products []model.Product
	index    map[string]int
}

// New builds a catalogue. Product ids must be non-blank and unique.
func New(products []model.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]model.Product, 0, len(products)),
		index:    make(map[string]int, len(products)),
	}

	for _, p := range products {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("product %q has an empty id", p.Model)
		}
		if _, exists := c.index[p.ID]; exists {
			return nil, fmt.Errorf("duplicate product id %q", p.ID)
		}
		p.StorageOptions = append([]string(nil), p.StorageOptions...)
		c.index[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	return c, nil
}

// MustNew is New for static data; it panics on invalid input.
func MustNew(products []model.Product) *Catalog {
	c, err := New(products)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the product with the given id.
func (c *Catalog) Lookup(id string) (model.Product, bool) {
	i, ok := c.index[id]
	if !ok {
		return model.Product{}, false
	}
	p := c.products[i]
	p.StorageOptions = append([]string(nil), p.StorageOptions...)
	return p, true
}

// Has reports whether id names a known product.
func (c *Catalog) Has(id string) bool {
	_, ok := c.index[id]
	return ok
}

// All returns a copy of every product in catalogue order.
func (c *Catalog) All() []model.Product {
	out := make([]model.Product, len(c.products))
	for i, p := range c.products {
		p.StorageOptions = append([]string(nil), p.StorageOptions...)
		out[i] = p
	}
	return out
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}
