package usecase

import (
	"fmt"
	"strings"
	"unicode"

	domainErrors "github.com/polkiloo/ikanmart/internal/domain/errors"
	"github.com/polkiloo/ikanmart/internal/domain/model"
)

// ValidatePhone accepts digits with an optional leading plus, 8 to 15 digits long.
func ValidatePhone(phone string) bool {
	phone = strings.TrimPrefix(strings.TrimSpace(phone), "+")
	if len(phone) < 8 || len(phone) > 15 {
		return false
	}
	for _, r := range phone {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// ValidateAddress checks the snapshot copied into a new order.
func ValidateAddress(addr model.AddressSnapshot) error {
	switch {
	case strings.TrimSpace(addr.RecipientName) == "":
		return fmt.Errorf("%w: recipient name is required", domainErrors.ErrInvalidAddress)
	case !ValidatePhone(addr.Phone):
		return fmt.Errorf("%w: phone %q is not valid", domainErrors.ErrInvalidAddress, addr.Phone)
	case strings.TrimSpace(addr.Address) == "":
		return fmt.Errorf("%w: address is required", domainErrors.ErrInvalidAddress)
	}
	return nil
}

// ValidatePaymentMethod rejects unknown methods and methods checkout cannot settle.
func ValidatePaymentMethod(method model.PaymentMethod) error {
	if !method.Known() {
		return fmt.Errorf("%w: unknown method %q", domainErrors.ErrUnsupportedPayment, method)
	}
	if !method.Supported() {
		return fmt.Errorf("%w: %s is not available yet", domainErrors.ErrUnsupportedPayment, method)
	}
	return nil
}

// ValidateRatingScore enforces the 1..5 scale.
func ValidateRatingScore(score int) error {
	if score < model.MinRatingScore || score > model.MaxRatingScore {
		return fmt.Errorf("%w: score must be between %d and %d", domainErrors.ErrInvalidRating, model.MinRatingScore, model.MaxRatingScore)
	}
	return nil
}
