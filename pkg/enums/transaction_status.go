package enums

import "fmt"

// TransactionStatus tracks a money movement's settlement state.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "Completed"
	TransactionStatusPending   TransactionStatus = "Pending"
	TransactionStatusLocked    TransactionStatus = "Locked"
	TransactionStatusVerified  TransactionStatus = "Verified"
	TransactionStatusRejected  TransactionStatus = "Rejected"
)

var validTransactionStatuses = []TransactionStatus{
	TransactionStatusCompleted,
	TransactionStatusPending,
	TransactionStatusLocked,
	TransactionStatusVerified,
	TransactionStatusRejected,
}

// String implements fmt.Stringer.
func (s TransactionStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known TransactionStatus.
func (s TransactionStatus) IsValid() bool {
	for _, candidate := range validTransactionStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseTransactionStatus converts raw input into a TransactionStatus.
func ParseTransactionStatus(value string) (TransactionStatus, error) {
	for _, candidate := range validTransactionStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transaction status %q", value)
}
