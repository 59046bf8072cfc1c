package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// LineKey is the identity of a cart line.
type LineKey struct {
	ProductID string
	Size      string
}

func (k LineKey) String() string {
	return k.ProductID + "-" + k.Size
}

// ProductRef is either an expanded product snapshot or a bare product id,
// depending on whether the API populated it.
type ProductRef struct {
	ID      string
	Product *Product
}

func RefID(id string) ProductRef {
	return ProductRef{ID: id}
}

func RefProduct(p *Product) ProductRef {
	return ProductRef{ID: p.ID, Product: p}
}

func (r ProductRef) MarshalJSON() ([]byte, error) {
	if r.Product != nil {
		return json.Marshal(r.Product)
	}
	return json.Marshal(r.ID)
}

func (r *ProductRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = ProductRef{}
		return nil
	}
	switch data[0] {
	case '"':
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = ProductRef{ID: id}
		return nil
	case '{':
		var p Product
		if err := json.Unmarshal(data, &p); err != nil {
			return err
		}
		*r = ProductRef{ID: p.ID, Product: &p}
		return nil
	}
	return fmt.Errorf("product reference: unexpected JSON %q", data)
}

type CartLine struct {
	Product  ProductRef `json:"productId"`
	Size     string     `json:"size"`
	Quantity int        `json:"quantity"`
}

func (l CartLine) Key() LineKey {
	return LineKey{ProductID: l.Product.ID, Size: l.Size}
}

// Subtotal is zero when the product was not expanded.
func (l CartLine) Subtotal() float64 {
	if l.Product.Product == nil {
		return 0
	}
	return l.Product.Product.Price * float64(l.Quantity)
}

// CartRow is the stored form of a cart line.
type CartRow struct {
	UserID    string
	ProductID string
	Size      string
	Quantity  int
}

type AddCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	Size      string `json:"size"`
}

func CountItems(lines []CartLine) int {
	total := 0
	for _, l := range lines {
		total += l.Quantity
	}
	return total
}

func CloneLines(lines []CartLine) []CartLine {
	out := make([]CartLine, len(lines))
	copy(out, lines)
	return out
}
