// Package access holds the role-based authorization decisions. Policies are
// plain functions over an explicit Actor so callers never reach into request
// state or user flags directly.
package access

import "github.com/mkoval/cinetix/internal/domain"

// Actor is the authenticated (or anonymous) party a request acts as.
type Actor struct {
	UserID *int64
	Role   domain.Role
}

// Anonymous is the kiosk/guest actor: no identity, guest role.
func Anonymous() Actor {
	return Actor{Role: domain.RoleGuest}
}

func (a Actor) IsAdmin() bool {
	return a.Role == domain.RoleAdmin
}

func (a Actor) IsAuthenticated() bool {
	return a.UserID != nil
}

// CanManageCatalog gates movie/hall/seat/screening mutations.
func CanManageCatalog(a Actor) bool {
	return a.IsAdmin()
}

// CanViewBooking allows admins and the booking owner. Anonymous bookings
// (nil owner) are visible to admins only.
func CanViewBooking(a Actor, ownerID *int64) bool {
	if a.IsAdmin() {
		return true
	}
	return a.UserID != nil && ownerID != nil && *a.UserID == *ownerID
}

// CanCancelBooking mirrors CanViewBooking: the owner or an admin.
func CanCancelBooking(a Actor, ownerID *int64) bool {
	return CanViewBooking(a, ownerID)
}

// CanVerifyTickets gates the controller flow (code lookup, mark-as-used).
func CanVerifyTickets(a Actor) bool {
	return a.IsAdmin()
}

// CanListAllBookings distinguishes the admin listing from "my bookings".
func CanListAllBookings(a Actor) bool {
	return a.IsAdmin()
}
