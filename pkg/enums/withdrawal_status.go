package enums

import "fmt"

// WithdrawalStatus tracks the admin-gated payout workflow.
// The balance debit happens exactly once, on Pending -> Verified.
type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "Pending"
	WithdrawalStatusVerified  WithdrawalStatus = "Verified"
	WithdrawalStatusApproved  WithdrawalStatus = "Approved"
	WithdrawalStatusCompleted WithdrawalStatus = "Completed"
	WithdrawalStatusRejected  WithdrawalStatus = "Rejected"
)

var validWithdrawalStatuses = []WithdrawalStatus{
	WithdrawalStatusPending,
	WithdrawalStatusVerified,
	WithdrawalStatusApproved,
	WithdrawalStatusCompleted,
	WithdrawalStatusRejected,
}

// String implements fmt.Stringer.
func (s WithdrawalStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known WithdrawalStatus.
func (s WithdrawalStatus) IsValid() bool {
	for _, candidate := range validWithdrawalStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsFinal reports whether the withdrawal can no longer change state.
func (s WithdrawalStatus) IsFinal() bool {
	return s == WithdrawalStatusCompleted || s == WithdrawalStatusRejected
}

// ParseWithdrawalStatus converts raw input into a WithdrawalStatus.
func ParseWithdrawalStatus(value string) (WithdrawalStatus, error) {
	for _, candidate := range validWithdrawalStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid withdrawal status %q", value)
}
