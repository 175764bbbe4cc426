package domain

import "sort"

// Product is a catalog entry with per-size stock counters.
type Product struct {
	ID    string         `json:"id"`
	Title string         `json:"title"`
	Price int64          `json:"price"`
	Stock map[string]int `json:"stock"`
	Img   string         `json:"img"`
	Desc  string         `json:"desc"`
}

// Sizes returns the stock size labels in a stable order.
func (p Product) Sizes() []string {
	sizes := make([]string, 0, len(p.Stock))
	for s := range p.Stock {
		sizes = append(sizes, s)
	}
	sort.Strings(sizes)
	return sizes
}

// Clone returns a deep copy so callers can mutate stock without aliasing.
func (p Product) Clone() Product {
	out := p
	if p.Stock != nil {
		out.Stock = make(map[string]int, len(p.Stock))
		for k, v := range p.Stock {
			out.Stock[k] = v
		}
	}
	return out
}

// FindProduct returns the index of the product with the given id, or -1.
func FindProduct(products []Product, id string) int {
	for i := range products {
		if products[i].ID == id {
			return i
		}
	}
	return -1
}
