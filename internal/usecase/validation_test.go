package usecase

import (
	"errors"
	"testing"

	domainErrors "github.com/polkiloo/ikanmart/internal/domain/errors"
	"github.com/polkiloo/ikanmart/internal/domain/model"
)

func TestValidatePhone(t *testing.T) {
	valid := []string{"081234567890", "+6281234567890", " 02112345678 "}
	for _, phone := range valid {
		if !ValidatePhone(phone) {
			t.Fatalf("expected phone %q to be valid", phone)
		}
	}

	invalid := []string{"", "1234", "0812-3456-789", "+62abc4567890", "1234567890123456"}
	for _, phone := range invalid {
		if ValidatePhone(phone) {
			t.Fatalf("expected phone %q to be invalid", phone)
		}
	}
}

func TestValidateAddress(t *testing.T) {
	ok := model.AddressSnapshot{RecipientName: "Sari", Phone: "081234567890", Address: "Jl. Pelabuhan 1"}
	if err := ValidateAddress(ok); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []model.AddressSnapshot{
		{Phone: "081234567890", Address: "Jl. Pelabuhan 1"},
		{RecipientName: "Sari", Phone: "12", Address: "Jl. Pelabuhan 1"},
		{RecipientName: "Sari", Phone: "081234567890", Address: "  "},
	}
	for _, addr := range cases {
		if err := ValidateAddress(addr); !errors.Is(err, domainErrors.ErrInvalidAddress) {
			t.Fatalf("expected invalid address for %+v, got %v", addr, err)
		}
	}
}

func TestValidatePaymentMethod(t *testing.T) {
	if err := ValidatePaymentMethod(model.PaymentCashOnDelivery); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, method := range []model.PaymentMethod{model.PaymentBankTransfer, model.PaymentEWallet, "crypto"} {
		if err := ValidatePaymentMethod(method); !errors.Is(err, domainErrors.ErrUnsupportedPayment) {
			t.Fatalf("expected unsupported payment for %s, got %v", method, err)
		}
	}
}

func TestValidateRatingScore(t *testing.T) {
	for score := model.MinRatingScore; score <= model.MaxRatingScore; score++ {
		if err := ValidateRatingScore(score); err != nil {
			t.Fatalf("unexpected error for %d: %v", score, err)
		}
	}
	for _, score := range []int{0, 6, -1} {
		if err := ValidateRatingScore(score); !errors.Is(err, domainErrors.ErrInvalidRating) {
			t.Fatalf("expected invalid rating for %d, got %v", score, err)
		}
	}
}
