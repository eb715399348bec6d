package structs

type Booking struct {
	Id             string   `json:"id"`
	Reference      string   `json:"reference"`
	UserId         *string  `json:"user_id,omitempty"`
	RouteId        string   `json:"route_id"`
	FromLocation   string   `json:"from_location"`
	ToLocation     string   `json:"to_location"`
	DepartureDate  string   `json:"departure_date"`
	DepartureTime  string   `json:"departure_time"`
	SeatNumbers    []string `json:"seat_numbers"`
	Price          float64  `json:"price"`
	Status         string   `json:"status"`
	BranchId       string   `json:"branch_id"`
	IsManual       bool     `json:"is_manual"`
	PassengerName  string   `json:"passenger_name,omitempty"`
	PassengerPhone string   `json:"passenger_phone,omitempty"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

type CreateBooking struct {
	UserId        *string  `json:"user_id"`
	RouteId       string   `json:"route_id"`
	DepartureDate string   `json:"departure_date"`
	SeatNumbers   []string `json:"seat_numbers"`
}

// CreateManualBooking is the admin-side booking form: no customer account,
// passenger contact captured inline.
type CreateManualBooking struct {
	RouteId        string   `json:"route_id"`
	DepartureDate  string   `json:"departure_date"`
	SeatNumbers    []string `json:"seat_numbers"`
	PassengerName  string   `json:"passenger_name"`
	PassengerPhone string   `json:"passenger_phone"`
}

type UpdateBookingStatus struct {
	Id     string `json:"id"`
	Status string `json:"status"`
}

type GetListBookingRequest struct {
	Offset   int64   `json:"offset"`
	Limit    int64   `json:"limit"`
	Search   string  `json:"search"`
	Status   string  `json:"status"`
	BranchId *string `json:"branch_id"`
	UserId   string  `json:"user_id"`
	DateFrom string  `json:"date_from"`
	DateTo   string  `json:"date_to"`
}

type GetListBookingResponse struct {
	Count    int64     `json:"count"`
	Bookings []Booking `json:"bookings"`
}

// BulkDeleteBookings: Archive keeps the rows and flips their status,
// the destructive path removes them. Exactly one of the two happens.
type BulkDeleteBookings struct {
	Ids     []string `json:"ids"`
	Archive bool     `json:"archive"`
}

type ExportBookingsRequest struct {
	BranchId *string `json:"branch_id"`
	DateFrom string  `json:"date_from"`
	DateTo   string  `json:"date_to"`
}
