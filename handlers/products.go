package handlers

import (
	"net/http"

	productRepo "investplan/database/repository/product"
	"investplan/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProductHandler struct {
	Products productRepo.ProductRepository
}

func NewProductHandler(products productRepo.ProductRepository) *ProductHandler {
	return &ProductHandler{Products: products}
}

// ListProductsHandler returns the active plans, cheapest first.
func (h *ProductHandler) ListProductsHandler(c *gin.Context) {
	products, err := h.Products.ListActive(c.Request.Context())
	if err != nil {
		getLogger(c).Error("Failed to list products", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, products)
}
