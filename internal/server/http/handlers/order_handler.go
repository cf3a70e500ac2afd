package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/ikanmart/internal/domain/errors"
	"github.com/polkiloo/ikanmart/internal/domain/model"
	"github.com/polkiloo/ikanmart/internal/server/http/dto"
	"github.com/polkiloo/ikanmart/internal/usecase"
)

// IdempotencyHeader lets a client retry checkout without placing twice.
const IdempotencyHeader = "Idempotency-Key"

// OrderHandler manages checkout and order reads.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// Place handles POST /api/buyers/:buyerID/orders.
func (h *OrderHandler) Place(c *gin.Context) {
	var req dto.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	buyerID := BuyerID(c)
	checkout := usecase.CheckoutRequest{
		BuyerID: buyerID,
		Address: model.AddressSnapshot{
			RecipientName: req.Address.RecipientName,
			Phone:         req.Address.Phone,
			Address:       req.Address.Address,
			Notes:         req.Address.Notes,
		},
		PaymentMethod:  model.PaymentMethod(req.PaymentMethod),
		IdempotencyKey: strings.TrimSpace(c.GetHeader(IdempotencyHeader)),
	}
	for _, l := range req.Lines {
		checkout.Lines = append(checkout.Lines, model.CartLine{
			BuyerID:   buyerID,
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
		})
	}

	placed, err := h.facade.PlaceOrder(c.Request.Context(), checkout)
	if placed == nil {
		writeError(c, err)
		return
	}

	resp := dto.PlaceOrderResponse{
		Order:    toOrder(placed.Order, placed.Lines),
		Replayed: placed.Replayed,
	}
	// Stock problems are only reported when the saga runs strict.
	if errors.Is(err, domainErrors.ErrStockMutationFailed) {
		for _, f := range placed.StockFailures {
			resp.StockWarnings = append(resp.StockWarnings, f.ProductID)
		}
	}

	status := http.StatusCreated
	if placed.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, resp)
}

// List handles GET /api/buyers/:buyerID/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.BuyerOrders(c.Request.Context(), BuyerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	resp := make([]dto.Order, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toOrder(o, nil))
	}
	c.JSON(http.StatusOK, resp)
}

// Get handles GET /api/orders/:orderID.
func (h *OrderHandler) Get(c *gin.Context) {
	details, err := h.facade.Order(c.Request.Context(), OrderID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrder(details.Order, details.Lines))
}

func toOrder(o model.Order, lines []model.OrderLine) dto.Order {
	resp := dto.Order{
		ID:              o.ID,
		BuyerID:         o.BuyerID,
		SellerID:        o.SellerID,
		RecipientName:   o.BuyerName,
		Phone:           o.BuyerPhone,
		DeliveryAddress: o.DeliveryAddress,
		DeliveryNotes:   o.DeliveryNotes,
		PaymentMethod:   string(o.PaymentMethod),
		PaymentStatus:   string(o.PaymentStatus),
		TotalAmount:     o.TotalAmount,
		Status:          string(o.Status),
		DriverID:        o.DriverID,
		DriverRated:     o.DriverRated,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		DeliveredAt:     o.DeliveredAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.OrderLine{
			ID:          l.ID,
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Unit:        l.Unit,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			LineTotal:   l.LineTotal,
		})
	}
	return resp
}
