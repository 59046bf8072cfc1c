package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/models"
	"storefront/services"
)

type OrderController struct {
	orderService *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orderService: orders}
}

// @Summary Create order
// @Description Create an order and decrement stock
// @Tags Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body models.CreateOrderRequest true "Order"
// @Success 201 {object} models.Order
// @Failure 400 {object} models.ErrorResponse
// @Router /orders [post]
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, "Invalid request", err)
		return
	}

	order, err := ctrl.orderService.CreateOrder(c.Request.Context(), c.GetString("user_id"), req)
	if err != nil {
		serviceError(c, err, "Failed to create order")
		return
	}
	c.JSON(http.StatusCreated, order)
}

// @Summary List my orders
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Success 200 {array} models.Order
// @Router /orders [get]
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	orders, err := ctrl.orderService.GetOrders(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, "Failed to retrieve orders", err)
		return
	}
	c.JSON(http.StatusOK, orders)
}
