package models

type DashboardStats struct {
	TotalUsers        int     `json:"totalUsers" db:"total_users"`
	TotalServices     int     `json:"totalServices" db:"total_services"`
	TotalBookings     int     `json:"totalBookings" db:"total_bookings"`
	TotalReviews      int     `json:"totalReviews" db:"total_reviews"`
	TotalRevenue      float64 `json:"totalRevenue" db:"total_revenue"`
	ConfirmedBookings int     `json:"confirmedBookings" db:"confirmed_bookings"`
	CancelledBookings int     `json:"cancelledBookings" db:"cancelled_bookings"`
	PendingBookings   int     `json:"pendingBookings" db:"pending_bookings"`
}

type Dashboard struct {
	Stats           DashboardStats  `json:"stats"`
	RecentBookings  []Booking       `json:"recentBookings"`
	PopularServices []TravelService `json:"popularServices"`
}
