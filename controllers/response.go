package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/models"
	"storefront/services"
)

func errorJSON(c *gin.Context, status int, message string, err error) {
	resp := models.ErrorResponse{Success: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
		_ = c.Error(err)
	}
	c.JSON(status, resp)
}

// serviceError maps service failures to HTTP responses. Business rule
// failures carry their message so clients can show it as is.
func serviceError(c *gin.Context, err error, fallback string) {
	var stockErr *services.StockError
	switch {
	case errors.As(err, &stockErr):
		errorJSON(c, http.StatusBadRequest, stockErr.Error(), nil)
	case errors.Is(err, services.ErrProductNotFound), errors.Is(err, services.ErrReviewNotFound):
		errorJSON(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, services.ErrEmailTaken):
		errorJSON(c, http.StatusConflict, "Email already exists", nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		errorJSON(c, http.StatusUnauthorized, "Invalid credentials", nil)
	case errors.Is(err, services.ErrProductInactive),
		errors.Is(err, services.ErrInvalidSize),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrEmptyOrder):
		errorJSON(c, http.StatusBadRequest, err.Error(), nil)
	default:
		errorJSON(c, http.StatusInternalServerError, fallback, err)
	}
}
