package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/models"
	"storefront/services"
)

type CartController struct {
	cartService *services.CartService
}

func NewCartController(carts *services.CartService) *CartController {
	return &CartController{cartService: carts}
}

// @Summary Get cart
// @Description Full cart of the current user
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.CartLine
// @Router /cart [get]
func (ctrl *CartController) GetCart(c *gin.Context) {
	lines, err := ctrl.cartService.GetCart(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to retrieve cart", err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

// @Summary Add to cart
// @Description Add quantity of a product size; returns the full cart
// @Tags Cart
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.AddCartItemRequest true "Cart item"
// @Success 200 {array} models.CartLine
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /cart/items [post]
func (ctrl *CartController) AddItem(c *gin.Context) {
	var req models.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	lines, err := ctrl.cartService.AddItem(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		serviceError(c, err, "Failed to add item")
		return
	}
	c.JSON(http.StatusOK, lines)
}

// @Summary Remove from cart
// @Description Remove a product size line; returns the full cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Param productId path string true "Product ID"
// @Param size query string false "Size"
// @Success 200 {array} models.CartLine
// @Router /cart/items/{productId} [delete]
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	lines, err := ctrl.cartService.RemoveItem(c.Request.Context(), c.GetString("user_id"), c.Param("productId"), c.Query("size"))
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to remove item", err)
		return
	}
	c.JSON(http.StatusOK, lines)
}

// @Summary Clear cart
// @Tags Cart
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.CartLine
// @Router /cart [delete]
func (ctrl *CartController) ClearCart(c *gin.Context) {
	lines, err := ctrl.cartService.Clear(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to clear cart", err)
		return
	}
	c.JSON(http.StatusOK, lines)
}
