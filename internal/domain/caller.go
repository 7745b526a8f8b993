package domain

type Role string

const (
	RoleSuperAdmin Role = "super_admin"
	RoleHotelAdmin Role = "hotel_admin"
	RoleCustomer   Role = "customer"
)

// CallerContext identifies who invokes an operation. It is always passed
// explicitly by the request layer.
type CallerContext struct {
	HotelID int64
	UserID  int64
	Role    Role
}

func (c CallerContext) IsAdmin() bool {
	return c.Role == RoleSuperAdmin || c.Role == RoleHotelAdmin
}

// CanAccessHotel reports whether the caller may act on data owned by hotelID.
func (c CallerContext) CanAccessHotel(hotelID int64) bool {
	switch c.Role {
	case RoleSuperAdmin:
		return true
	case RoleHotelAdmin:
		return c.HotelID != 0 && c.HotelID == hotelID
	default:
		return false
	}
}

// CanAccessBooking applies tenant scoping for admins and ownership for customers.
func (c CallerContext) CanAccessBooking(b *Booking) bool {
	if c.Role == RoleCustomer {
		return c.UserID != 0 && b.CreatedBy == c.UserID
	}
	return c.CanAccessHotel(b.HotelID)
}
