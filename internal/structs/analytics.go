package structs

type AdminAnalytics struct {
	TotalBookings int64   `json:"total_bookings"`
	TotalRevenue  float64 `json:"total_revenue"`
	ActiveUsers   int64   `json:"active_users"`
	ActiveRoutes  int64   `json:"active_routes"`
}
