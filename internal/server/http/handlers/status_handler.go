package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/ikanmart/internal/domain/model"
	"github.com/polkiloo/ikanmart/internal/server/http/dto"
	"github.com/polkiloo/ikanmart/internal/usecase"
)

// StatusHandler manages order lifecycle endpoints.
type StatusHandler struct {
	facade StatusFacade
}

// NewStatusHandler constructs StatusHandler.
func NewStatusHandler(facade StatusFacade) *StatusHandler {
	return &StatusHandler{facade: facade}
}

// Get handles GET /api/orders/:orderID/status.
func (h *StatusHandler) Get(c *gin.Context) {
	orderID := OrderID(c)
	status, err := h.facade.OrderStatus(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{OrderID: orderID, Status: string(status)})
}

// Update handles POST /api/orders/:orderID/status.
func (h *StatusHandler) Update(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	order, err := h.facade.UpdateOrderStatus(c.Request.Context(), OrderID(c), model.OrderStatus(req.Status), usecase.StatusExtra{DriverID: req.DriverID})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrder(*order, nil))
}

// Cancel handles POST /api/orders/:orderID/cancel.
func (h *StatusHandler) Cancel(c *gin.Context) {
	orderID := OrderID(c)
	if err := h.facade.CancelOrder(c.Request.Context(), orderID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatusResponse{OrderID: orderID, Status: string(model.OrderStatusCancelled)})
}

// Rate handles POST /api/orders/:orderID/rating.
func (h *StatusHandler) Rate(c *gin.Context) {
	var req dto.RatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	rating, err := h.facade.RateDriver(c.Request.Context(), OrderID(c), req.Score, req.Comment)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.RatingResponse{
		ID:        rating.ID,
		DriverID:  rating.DriverID,
		OrderID:   rating.OrderID,
		Score:     rating.Score,
		Comment:   rating.Comment,
		CreatedAt: rating.CreatedAt,
	})
}
