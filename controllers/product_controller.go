package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront/models"
	"storefront/services"
)

type ProductController struct {
	productService *services.ProductService
}

func NewProductController(products *services.ProductService) *ProductController {
	return &ProductController{productService: products}
}

// @Summary Get all categories
// @Description Get list of all categories
// @Tags Categories
// @Produce json
// @Success 200 {object} models.CategoriesResponse
// @Router /categories [get]
func (ctrl *ProductController) GetAllCategories(c *gin.Context) {
	resp, err := ctrl.productService.GetAllCategories(c.Request.Context())
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to retrieve categories", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get all products
// @Description Get paginated list of products
// @Tags Products
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Param q query string false "Name search"
// @Param category query string false "Category id"
// @Success 200 {object} models.ProductsResponse
// @Router /products [get]
func (ctrl *ProductController) GetAllProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	resp, err := ctrl.productService.GetAllProducts(c.Request.Context(), models.ProductFilter{
		Page:     page,
		Limit:    limit,
		Query:    c.Query("q"),
		Category: c.Query("category"),
	})
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to retrieve products", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Get product by ID
// @Description Product including per-size stock
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} models.Product
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id} [get]
func (ctrl *ProductController) GetProductByID(c *gin.Context) {
	p, err := ctrl.productService.GetProductByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err, "Failed to retrieve product")
		return
	}
	c.JSON(http.StatusOK, p)
}

// @Summary Check stock
// @Description Check stock availability for a product size
// @Tags Products
// @Produce json
// @Param id path string true "Product ID"
// @Param size path string true "Size"
// @Param quantity query int false "Requested quantity"
// @Success 200 {object} models.StockCheck
// @Failure 404 {object} models.ErrorResponse
// @Router /products/{id}/stock/{size} [get]
func (ctrl *ProductController) CheckStock(c *gin.Context) {
	quantity, _ := strconv.Atoi(c.DefaultQuery("quantity", "1"))
	size := c.Param("size")
	if size == "-" {
		size = ""
	}

	check, err := ctrl.productService.CheckStock(c.Request.Context(), c.Param("id"), size, quantity)
	if err != nil {
		serviceError(c, err, "Failed to check stock")
		return
	}
	c.JSON(http.StatusOK, check)
}

// @Summary Create product
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateProductRequest true "Product"
// @Success 201 {object} models.Product
// @Failure 400 {object} models.ErrorResponse
// @Router /admin/products [post]
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req models.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	p, err := ctrl.productService.CreateProduct(c.Request.Context(), req)
	if err != nil {
		serviceError(c, err, "Failed to create product")
		return
	}
	c.JSON(http.StatusCreated, p)
}
