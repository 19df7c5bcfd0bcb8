package access

import (
	"testing"

	"github.com/mkoval/cinetix/internal/domain"
)

func ptr(v int64) *int64 { return &v }

func TestCanViewBooking(t *testing.T) {
	admin := Actor{UserID: ptr(1), Role: domain.RoleAdmin}
	owner := Actor{UserID: ptr(2), Role: domain.RoleGuest}
	other := Actor{UserID: ptr(3), Role: domain.RoleGuest}

	tests := []struct {
		name    string
		actor   Actor
		ownerID *int64
		want    bool
	}{
		{"admin sees any booking", admin, ptr(2), true},
		{"admin sees anonymous booking", admin, nil, true},
		{"owner sees own booking", owner, ptr(2), true},
		{"stranger cannot see it", other, ptr(2), false},
		{"anonymous actor cannot see owned booking", Anonymous(), ptr(2), false},
		{"guest cannot claim anonymous booking", owner, nil, false},
		{"anonymous cannot see anonymous booking", Anonymous(), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanViewBooking(tt.actor, tt.ownerID); got != tt.want {
				t.Errorf("CanViewBooking = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdminOnlyPolicies(t *testing.T) {
	admin := Actor{UserID: ptr(1), Role: domain.RoleAdmin}
	guest := Actor{UserID: ptr(2), Role: domain.RoleGuest}

	if !CanManageCatalog(admin) || CanManageCatalog(guest) || CanManageCatalog(Anonymous()) {
		t.Error("catalog management must be admin-only")
	}
	if !CanVerifyTickets(admin) || CanVerifyTickets(guest) {
		t.Error("ticket verification must be admin-only")
	}
	if !CanListAllBookings(admin) || CanListAllBookings(guest) {
		t.Error("listing all bookings must be admin-only")
	}
}

func TestAnonymous(t *testing.T) {
	a := Anonymous()
	if a.IsAuthenticated() {
		t.Error("anonymous actor must not be authenticated")
	}
	if a.Role != domain.RoleGuest {
		t.Errorf("anonymous role = %q, want guest", a.Role)
	}
}
