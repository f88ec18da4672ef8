// Package catalog serves the read-only parts list used by the search demo.
package catalog

import (
	"slices"
	"strings"
)

// Part is a catalog entry.
type Part struct {
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	InStock  bool    `json:"inStock"`
}

// Catalog is an immutable, SKU-ordered list of parts.
type Catalog struct {
	parts []Part
}

// New returns a catalog holding a copy of parts sorted by SKU.
func New(parts []Part) *Catalog {
	sorted := slices.Clone(parts)
	slices.SortFunc(sorted, func(a, b Part) int { return strings.Compare(a.SKU, b.SKU) })
	return &Catalog{parts: sorted}
}

// Default returns the built-in demo catalog.
func Default() *Catalog {
	return New(defaultParts)
}

// Search returns the parts whose name or category contains every word of
// query, ignoring case. An empty query matches everything.
func (c *Catalog) Search(query string) []Part {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return slices.Clone(c.parts)
	}
	var out []Part
	for _, p := range c.parts {
		text := strings.ToLower(p.Name + " " + p.Category)
		if !slices.ContainsFunc(words, func(w string) bool { return !strings.Contains(text, w) }) {
			out = append(out, p)
		}
	}
	return out
}

// Lookup returns the part with the given SKU.
func (c *Catalog) Lookup(sku string) (Part, bool) {
	i, ok := slices.BinarySearchFunc(c.parts, sku, func(p Part, sku string) int { return strings.Compare(p.SKU, sku) })
	if !ok {
		return Part{}, false
	}
	return c.parts[i], true
}

var defaultParts = []Part{
	{SKU: "P-1001", Name: "Brass Hinge", Category: "hardware", Price: 3.40, InStock: true},
	{SKU: "P-1002", Name: "Steel Hinge", Category: "hardware", Price: 2.10, InStock: true},
	{SKU: "P-1003", Name: "Cabinet Handle", Category: "hardware", Price: 4.75, InStock: false},
	{SKU: "P-1004", Name: "Wood Screw Box", Category: "fasteners", Price: 6.20, InStock: true},
	{SKU: "P-1005", Name: "Machine Screw Box", Category: "fasteners", Price: 7.80, InStock: true},
	{SKU: "P-1006", Name: "Wall Anchor Pack", Category: "fasteners", Price: 5.15, InStock: true},
	{SKU: "P-1007", Name: "Pine Shelf Board", Category: "lumber", Price: 18.00, InStock: true},
	{SKU: "P-1008", Name: "Oak Shelf Board", Category: "lumber", Price: 31.50, InStock: false},
	{SKU: "P-1009", Name: "Birch Plywood Sheet", Category: "lumber", Price: 42.00, InStock: true},
	{SKU: "P-1010", Name: "Wood Glue", Category: "adhesives", Price: 8.90, InStock: true},
	{SKU: "P-1011", Name: "Epoxy Kit", Category: "adhesives", Price: 14.25, InStock: true},
	{SKU: "P-1012", Name: "Sanding Block", Category: "tools", Price: 4.10, InStock: true},
	{SKU: "P-1013", Name: "Block Plane", Category: "tools", Price: 39.00, InStock: false},
	{SKU: "P-1014", Name: "Bar Clamp", Category: "tools", Price: 22.40, InStock: true},
	{SKU: "P-1015", Name: "Shelf Bracket", Category: "hardware", Price: 3.95, InStock: true},
	{SKU: "P-1016", Name: "Drawer Slide Pair", Category: "hardware", Price: 16.60, InStock: true},
}
