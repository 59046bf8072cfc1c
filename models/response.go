package models

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type PaginationMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type ProductsResponse struct {
	Data []Product      `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

type CategoriesResponse struct {
	Data []Category     `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

type CreateProductRequest struct {
	Name        string      `json:"name" binding:"required"`
	Description string      `json:"description"`
	Price       float64     `json:"price" binding:"required,gt=0"`
	Stock       int         `json:"stock" binding:"min=0"`
	SizeStock   []SizeStock `json:"sizeStock"`
	CategoryID  string      `json:"category"`
	Images      []string    `json:"images"`
	Material    string      `json:"material"`
	EcoFriendly bool        `json:"ecoFriendly"`
}
