package structs

type User struct {
	Id        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	CreatedAt string `json:"created_at"`
}

type UserSignup struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type UserLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserAuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// UserWithContact backs the admin users screen: contact info plus
// booking counters per customer.
type UserWithContact struct {
	User
	TotalBookings     int64 `json:"total_bookings"`
	UpcomingBookings  int64 `json:"upcoming_bookings"`
	CancelledBookings int64 `json:"cancelled_bookings"`
}

type GetListUserRequest struct {
	Offset int64  `json:"offset"`
	Limit  int64  `json:"limit"`
	Search string `json:"search"`
}

type GetListUserResponse struct {
	Count int64             `json:"count"`
	Users []UserWithContact `json:"users"`
}
