package enums

import "fmt"

// ActivityType tags an audit log entry.
type ActivityType string

const (
	ActivityUserRegister ActivityType = "USER_REGISTER"
	ActivityUserDelete   ActivityType = "USER_DELETE"
	ActivityUserVerify   ActivityType = "USER_VERIFY"
	ActivityUserUpdate   ActivityType = "USER_UPDATE"

	ActivityProductCreated   ActivityType = "PRODUCT_CREATED"
	ActivityProductDeleted   ActivityType = "PRODUCT_DELETED"
	ActivityInventoryStocked ActivityType = "INVENTORY_STOCKED"

	ActivityOrderPlaced     ActivityType = "ORDER_PLACED"
	ActivityOrderAccepted   ActivityType = "ORDER_ACCEPTED"
	ActivityOrderProcessing ActivityType = "ORDER_PROCESSING"
	ActivityOrderShipped    ActivityType = "ORDER_SHIPPED"
	ActivityOrderDelivered  ActivityType = "ORDER_DELIVERED"
	ActivityOrderRejected   ActivityType = "ORDER_REJECTED"
	ActivityOrderCancelled  ActivityType = "ORDER_CANCELLED"
	ActivityOrderUpdated    ActivityType = "ORDER_UPDATED"

	ActivityWalletFrozen        ActivityType = "WALLET_FROZEN"
	ActivityWalletActivated     ActivityType = "WALLET_ACTIVATED"
	ActivityWithdrawalRequest   ActivityType = "WITHDRAWAL_REQUEST"
	ActivityWithdrawalVerified  ActivityType = "WITHDRAWAL_VERIFIED"
	ActivityWithdrawalRejected  ActivityType = "WITHDRAWAL_REJECTED"
	ActivityWithdrawalCompleted ActivityType = "WITHDRAWAL_COMPLETED"

	ActivityCODSettlementPending   ActivityType = "COD_SETTLEMENT_PENDING"
	ActivityCODSettlementCompleted ActivityType = "COD_SETTLEMENT_COMPLETED"

	ActivityDisputeRaised   ActivityType = "DISPUTE_RAISED"
	ActivityDisputeResolved ActivityType = "DISPUTE_RESOLVED"

	ActivityAdminAction ActivityType = "ADMIN_ACTION"
)

var validActivityTypes = []ActivityType{
	ActivityUserRegister,
	ActivityUserDelete,
	ActivityUserVerify,
	ActivityUserUpdate,
	ActivityProductCreated,
	ActivityProductDeleted,
	ActivityInventoryStocked,
	ActivityOrderPlaced,
	ActivityOrderAccepted,
	ActivityOrderProcessing,
	ActivityOrderShipped,
	ActivityOrderDelivered,
	ActivityOrderRejected,
	ActivityOrderCancelled,
	ActivityOrderUpdated,
	ActivityWalletFrozen,
	ActivityWalletActivated,
	ActivityWithdrawalRequest,
	ActivityWithdrawalVerified,
	ActivityWithdrawalRejected,
	ActivityWithdrawalCompleted,
	ActivityCODSettlementPending,
	ActivityCODSettlementCompleted,
	ActivityDisputeRaised,
	ActivityDisputeResolved,
	ActivityAdminAction,
}

// String implements fmt.Stringer.
func (t ActivityType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ActivityType.
func (t ActivityType) IsValid() bool {
	for _, candidate := range validActivityTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ActivityTypeForOrderStatus maps an order transition outcome to its audit tag.
func ActivityTypeForOrderStatus(status OrderStatus) ActivityType {
	switch status {
	case OrderStatusAccepted:
		return ActivityOrderAccepted
	case OrderStatusProcessing:
		return ActivityOrderProcessing
	case OrderStatusShipping:
		return ActivityOrderShipped
	case OrderStatusDelivered:
		return ActivityOrderDelivered
	case OrderStatusCanceled:
		return ActivityOrderCancelled
	case OrderStatusRejected:
		return ActivityOrderRejected
	default:
		return ActivityOrderUpdated
	}
}

// ActivityTypeForWithdrawalStatus maps a withdrawal transition to its audit tag.
func ActivityTypeForWithdrawalStatus(status WithdrawalStatus) ActivityType {
	switch status {
	case WithdrawalStatusVerified:
		return ActivityWithdrawalVerified
	case WithdrawalStatusCompleted:
		return ActivityWithdrawalCompleted
	case WithdrawalStatusRejected:
		return ActivityWithdrawalRejected
	default:
		return ActivityAdminAction
	}
}

// ParseActivityType converts raw input into an ActivityType.
func ParseActivityType(value string) (ActivityType, error) {
	for _, candidate := range validActivityTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid activity type %q", value)
}
