package models

import "time"

type SizeStock struct {
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

type Category struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"isActive"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Product struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Price       float64     `json:"price"`
	Stock       int         `json:"stock"`
	SizeStock   []SizeStock `json:"sizeStock"`
	CategoryID  string      `json:"category"`
	Sizes       []string    `json:"sizes"`
	Images      []string    `json:"images"`
	Material    string      `json:"material,omitempty"`
	EcoFriendly bool        `json:"ecoFriendly"`
	Rating      float64     `json:"rating"`
	Reviews     int         `json:"reviews"`
	IsActive    bool        `json:"isActive"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// AvailableStock returns the stock for size. Products tracked per size report
// zero for sizes they do not list; other products fall back to Stock.
func (p *Product) AvailableStock(size string) int {
	if len(p.SizeStock) == 0 {
		return p.Stock
	}
	for _, s := range p.SizeStock {
		if s.Size == size {
			return s.Stock
		}
	}
	return 0
}

// HasSize reports whether size is a valid selection for the product.
func (p *Product) HasSize(size string) bool {
	if len(p.SizeStock) == 0 {
		return true
	}
	for _, s := range p.SizeStock {
		if s.Size == size {
			return true
		}
	}
	return false
}

type ProductFilter struct {
	Page     int
	Limit    int
	Query    string
	Category string
}

type StockCheck struct {
	ProductID string `json:"productId"`
	Size      string `json:"size"`
	Requested int    `json:"requested"`
	Stock     int    `json:"stock"`
	Available bool   `json:"available"`
}
