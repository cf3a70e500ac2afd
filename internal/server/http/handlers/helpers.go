package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/ikanmart/internal/domain/errors"
	"github.com/polkiloo/ikanmart/internal/server/http/dto"
)

// BuyerID extracts the buyer identifier from the route.
func BuyerID(c *gin.Context) string {
	return c.Param("buyerID")
}

// OrderID extracts the order identifier from the route.
func OrderID(c *gin.Context) string {
	return c.Param("orderID")
}

// StatusCode maps a domain error to an HTTP status.
func StatusCode(err error) int {
	switch {
	// A half-written order is reported as a plain failure even when the
	// underlying cause was transient.
	case errors.Is(err, domainErrors.ErrPartialCreateFailed):
		return http.StatusInternalServerError
	case errors.Is(err, domainErrors.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrEmptyCart),
		errors.Is(err, domainErrors.ErrMixedSellers),
		errors.Is(err, domainErrors.ErrInvalidQuantity),
		errors.Is(err, domainErrors.ErrUnsupportedPayment),
		errors.Is(err, domainErrors.ErrInvalidAddress),
		errors.Is(err, domainErrors.ErrInvalidDriver),
		errors.Is(err, domainErrors.ErrInvalidRating):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrInvalidTransition),
		errors.Is(err, domainErrors.ErrAlreadyRated),
		errors.Is(err, domainErrors.ErrDuplicateRequest):
		return http.StatusConflict
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound
	case domainErrors.IsTransient(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError aborts the request with the mapped status. Server side
// failures get a generic message.
func writeError(c *gin.Context, err error) {
	status := StatusCode(err)
	_ = c.Error(err)

	resp := dto.ErrorResponse{Error: err.Error()}
	var shortage *domainErrors.InsufficientStockError
	switch {
	case errors.As(err, &shortage):
		resp.Error = domainErrors.ErrInsufficientStock.Error()
		resp.Shortages = toShortages(shortage.Items)
	case status == http.StatusServiceUnavailable:
		resp.Error = "temporarily unavailable, retry later"
	case status >= http.StatusInternalServerError:
		resp.Error = "internal error"
	}
	c.AbortWithStatusJSON(status, resp)
}

func toShortages(items []domainErrors.StockShortage) []dto.Shortage {
	out := make([]dto.Shortage, 0, len(items))
	for _, s := range items {
		out = append(out, dto.Shortage{
			ProductID:   s.ProductID,
			ProductName: s.ProductName,
			Requested:   s.Requested,
			Available:   s.Available,
		})
	}
	return out
}
