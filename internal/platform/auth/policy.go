package auth

import (
	"github.com/google/uuid"

	"github.com/havenstay/service-rental/internal/platform/apperror"
)

// Operation names an authorised use case.
type Operation string

const (
	OpCreateBooking     Operation = "booking.create"
	OpListMyBookings    Operation = "booking.list_mine"
	OpListHostBookings  Operation = "booking.list_host"
	OpCreateListing     Operation = "listing.create"
	OpManageListing     Operation = "listing.manage"
	OpCreateReview      Operation = "review.create"
	OpCreateCheckout    Operation = "payment.checkout"
	OpReadAdminOverview Operation = "admin.read"
)

var everyone = []Role{RoleGuest, RoleHost, RoleAdmin}

var policy = map[Operation][]Role{
	OpCreateBooking:     everyone,
	OpListMyBookings:    everyone,
	OpListHostBookings:  {RoleHost, RoleAdmin},
	OpCreateListing:     {RoleHost, RoleAdmin},
	OpManageListing:     {RoleHost, RoleAdmin},
	OpCreateReview:      everyone,
	OpCreateCheckout:    everyone,
	OpReadAdminOverview: {RoleAdmin},
}

var forbiddenMessages = map[Operation]string{
	OpListHostBookings:  "Forbidden: Host access only",
	OpCreateListing:     "Forbidden: Host access only",
	OpManageListing:     "Forbidden: Not your listing",
	OpReadAdminOverview: "Admin access only",
}

// Allowed reports whether p may run op. Unknown operations are denied.
func Allowed(op Operation, p Principal) bool {
	if p.IsZero() {
		return false
	}
	for _, r := range policy[op] {
		if r == p.Role {
			return true
		}
	}
	return false
}

// Authorize returns nil when p may run op, Unauthorized when p is empty and
// Forbidden otherwise.
func Authorize(op Operation, p Principal) error {
	if p.IsZero() {
		return apperror.NewUnauthorizedError("Unauthorized")
	}
	if Allowed(op, p) {
		return nil
	}
	msg, ok := forbiddenMessages[op]
	if !ok {
		msg = "Forbidden: Insufficient role"
	}
	return apperror.NewForbiddenError(msg)
}

// CanManage reports whether p owns the resource or is an admin.
func CanManage(p Principal, ownerID uuid.UUID) bool {
	if p.IsZero() {
		return false
	}
	return p.Role == RoleAdmin || p.ID == ownerID
}
