package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ikanmart/internal/domain/model"
	"github.com/polkiloo/ikanmart/internal/server/http/dto"
)

// CartHandler manages cart endpoints.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// Add handles POST /api/buyers/:buyerID/cart.
func (h *CartHandler) Add(c *gin.Context) {
	var req dto.AddCartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	line, err := h.facade.AddToCart(c.Request.Context(), BuyerID(c), req.ProductID, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toCartLine(*line))
}

// List handles GET /api/buyers/:buyerID/cart.
func (h *CartHandler) List(c *gin.Context) {
	lines, err := h.facade.Cart(c.Request.Context(), BuyerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if len(lines) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.CartLine, 0, len(lines))
	for _, l := range lines {
		resp = append(resp, toCartLine(l))
	}
	c.JSON(http.StatusOK, resp)
}

// Clear handles DELETE /api/buyers/:buyerID/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.facade.ClearCart(c.Request.Context(), BuyerID(c)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Validate handles POST /api/buyers/:buyerID/cart/validate.
func (h *CartHandler) Validate(c *gin.Context) {
	result, err := h.facade.ValidateCart(c.Request.Context(), BuyerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ValidationResponse{
		Valid:     result.Valid(),
		Shortages: toShortages(result.Shortages),
	})
}

func toCartLine(l model.CartLine) dto.CartLine {
	line := dto.CartLine{
		ProductID: l.ProductID,
		SellerID:  l.SellerID,
		Quantity:  l.Quantity,
		UnitPrice: l.UnitPrice,
		LineTotal: l.LineTotal(),
	}
	if !l.AddedAt.IsZero() {
		addedAt := l.AddedAt
		line.AddedAt = &addedAt
	}
	return line
}
