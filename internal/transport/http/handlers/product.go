package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hajuenter/usaha-backend/internal/usecase"
)

// ProductHandler exposes the catalog CRUD endpoints.
type ProductHandler struct {
	products *usecase.ProductService
	logger   *zap.Logger
}

func NewProductHandler(products *usecase.ProductService, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{products: products, logger: logger}
}

var productCases = []ErrorCase{
	{Err: usecase.ErrProductNotFound, Status: http.StatusNotFound, Message: "product not found"},
}

func (h *ProductHandler) logUnknown(op string, err error) {
	var validationErr *usecase.ValidationError
	if errors.As(err, &validationErr) || errors.Is(err, usecase.ErrProductNotFound) {
		return
	}
	h.logger.Error(op+" failed", zap.Error(err))
}

// Add creates a new product.
func (h *ProductHandler) Add(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid product payload"))
		return
	}

	product, err := h.products.Add(c.Request.Context(), usecase.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		h.logUnknown("add product", err)
		RespondWithMappedError(c, err, productCases, http.StatusInternalServerError, "add product error")
		return
	}

	c.JSON(http.StatusCreated, ProductResponse{Product: newProductView(*product)})
}

// Edit updates an existing product.
func (h *ProductHandler) Edit(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid product payload"))
		return
	}

	product, err := h.products.Edit(c.Request.Context(), c.Param("id"), usecase.ProductInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
	})
	if err != nil {
		h.logUnknown("edit product", err)
		RespondWithMappedError(c, err, productCases, http.StatusInternalServerError, "edit product error")
		return
	}

	c.JSON(http.StatusOK, ProductResponse{Product: newProductView(*product)})
}

// Get returns a single product by id.
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.products.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logUnknown("get product", err)
		RespondWithMappedError(c, err, productCases, http.StatusInternalServerError, "get product error")
		return
	}

	c.JSON(http.StatusOK, ProductResponse{Product: newProductView(*product)})
}

// GetAll lists the catalog, newest first unless ?sort=oldest.
func (h *ProductHandler) GetAll(c *gin.Context) {
	products, err := h.products.List(c.Request.Context(), c.Query("sort"))
	if err != nil {
		h.logUnknown("list products", err)
		RespondWithMappedError(c, err, productCases, http.StatusInternalServerError, "list products error")
		return
	}

	views := make([]ProductView, 0, len(products))
	for _, product := range products {
		views = append(views, newProductView(product))
	}

	c.JSON(http.StatusOK, ProductListResponse{Products: views, Total: len(views)})
}

// Delete removes a product and returns its last state.
func (h *ProductHandler) Delete(c *gin.Context) {
	product, err := h.products.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logUnknown("delete product", err)
		RespondWithMappedError(c, err, productCases, http.StatusInternalServerError, "delete product error")
		return
	}

	c.JSON(http.StatusOK, ProductResponse{Product: newProductView(*product)})
}
