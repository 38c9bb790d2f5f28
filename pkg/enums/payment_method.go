package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod names how money moves for an order or withdrawal.
type PaymentMethod string

const (
	PaymentMethodESewa        PaymentMethod = "eSewa"
	PaymentMethodKhalti       PaymentMethod = "Khalti"
	PaymentMethodCOD          PaymentMethod = "COD"
	PaymentMethodBankTransfer PaymentMethod = "Bank Transfer"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodESewa,
	PaymentMethodKhalti,
	PaymentMethodCOD,
	PaymentMethodBankTransfer,
}

// String implements fmt.Stringer.
func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PaymentMethod.
func (m PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// IsOnline reports whether the method settles through a gateway rather than in cash.
func (m PaymentMethod) IsOnline() bool {
	return m != PaymentMethodCOD
}

// ParsePaymentMethod converts raw input into a PaymentMethod. Gateway names are
// matched case-insensitively because clients send them in mixed casing.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	lower := strings.ToLower(strings.TrimSpace(value))
	switch {
	case lower == "esewa":
		return PaymentMethodESewa, nil
	case lower == "khalti":
		return PaymentMethodKhalti, nil
	case lower == "cod":
		return PaymentMethodCOD, nil
	case strings.Contains(lower, "bank"):
		return PaymentMethodBankTransfer, nil
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
