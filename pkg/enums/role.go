package enums

import "fmt"

// Role identifies a user's position in the supply chain.
type Role string

const (
	RoleFarmer    Role = "farmer"
	RoleCollector Role = "collector"
	RoleSupplier  Role = "supplier"
	RoleBuyer     Role = "buyer"
	RoleAdmin     Role = "admin"
)

var validRoles = []Role{
	RoleFarmer,
	RoleCollector,
	RoleSupplier,
	RoleBuyer,
	RoleAdmin,
}

// sellerRoles are the roles that earn into a wallet and may withdraw.
var sellerRoles = []Role{RoleFarmer, RoleCollector, RoleSupplier}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsSeller reports whether the role is wallet-bearing (farmer, collector, supplier).
func (r Role) IsSeller() bool {
	for _, candidate := range sellerRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
