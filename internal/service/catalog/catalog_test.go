package catalog

import "testing"

func TestSearch(t *testing.T) {
	c := Default()
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"by name", "plane", []string{"P-1013"}},
		{"case insensitive", "EPOXY", []string{"P-1011"}},
		{"all words must match", "shelf oak", []string{"P-1008"}},
		{"category", "adhesives", []string{"P-1010", "P-1011"}},
		{"no match", "laser", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Search(tc.query)
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %+v", tc.want, got)
			}
			for i, p := range got {
				if p.SKU != tc.want[i] {
					t.Fatalf("expected %v, got %+v", tc.want, got)
				}
			}
		})
	}
}

func TestSearchEmptyReturnsCopy(t *testing.T) {
	c := Default()
	all := c.Search("  ")
	if len(all) != len(defaultParts) {
		t.Fatalf("expected %d parts, got %d", len(defaultParts), len(all))
	}
	all[0].Name = "mutated"
	if c.Search("")[0].Name == "mutated" {
		t.Fatalf("search result aliases catalog storage")
	}
}

func TestNewSortsBySKU(t *testing.T) {
	c := New([]Part{{SKU: "B"}, {SKU: "A"}, {SKU: "C"}})
	if p, ok := c.Lookup("A"); !ok || p.SKU != "A" {
		t.Fatalf("expected lookup to find A")
	}
	if _, ok := c.Lookup("Z"); ok {
		t.Fatalf("expected lookup of unknown SKU to fail")
	}
	if got := c.Search(""); got[0].SKU != "A" || got[2].SKU != "C" {
		t.Fatalf("expected sorted parts, got %+v", got)
	}
}
