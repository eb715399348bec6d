package structs

type Driver struct {
	Id        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	LicenseNo string `json:"license_no"`
	BranchId  string `json:"branch_id"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CreateDriver struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FullName  string `json:"full_name"`
	Phone     string `json:"phone"`
	LicenseNo string `json:"license_no"`
	BranchId  string `json:"branch_id"`
}

type PatchDriver struct {
	Id        string  `json:"id"`
	Email     *string `json:"email"`
	FullName  *string `json:"full_name"`
	Phone     *string `json:"phone"`
	LicenseNo *string `json:"license_no"`
	BranchId  *string `json:"branch_id"`
	Status    *string `json:"status"`
}

type GetListDriverRequest struct {
	Offset   int64   `json:"offset"`
	Limit    int64   `json:"limit"`
	Search   string  `json:"search"`
	BranchId *string `json:"branch_id"`
}

type GetListDriverResponse struct {
	Count   int64    `json:"count"`
	Drivers []Driver `json:"drivers"`
}

type DriverLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type DriverAuthResponse struct {
	Token  string `json:"token"`
	Driver Driver `json:"driver"`
}

type DriverAssignment struct {
	Id          string `json:"id"`
	DriverId    string `json:"driver_id"`
	DriverName  string `json:"driver_name,omitempty"`
	RouteId     string `json:"route_id"`
	BusId       string `json:"bus_id"`
	PlateNumber string `json:"plate_number,omitempty"`
	ServiceDate string `json:"service_date"`
	Shift       string `json:"shift"`
	CreatedAt   string `json:"created_at"`
}

type CreateDriverAssignment struct {
	DriverId    string `json:"driver_id"`
	RouteId     string `json:"route_id"`
	BusId       string `json:"bus_id"`
	ServiceDate string `json:"service_date"`
	Shift       string `json:"shift"`
}

type GetListAssignmentRequest struct {
	Offset   int64   `json:"offset"`
	Limit    int64   `json:"limit"`
	DriverId string  `json:"driver_id"`
	BranchId *string `json:"branch_id"`
	DateFrom string  `json:"date_from"`
	DateTo   string  `json:"date_to"`
}

type GetListAssignmentResponse struct {
	Count       int64              `json:"count"`
	Assignments []DriverAssignment `json:"assignments"`
}
