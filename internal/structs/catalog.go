package structs

type Location struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	City      string `json:"city"`
	BranchId  string `json:"branch_id"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type CreateLocation struct {
	Name     string `json:"name"`
	City     string `json:"city"`
	BranchId string `json:"branch_id"`
}

type PatchLocation struct {
	Id       string  `json:"id"`
	Name     *string `json:"name"`
	City     *string `json:"city"`
	IsActive *bool   `json:"is_active"`
}

type GetListLocationRequest struct {
	Offset   int64   `json:"offset"`
	Limit    int64   `json:"limit"`
	Search   string  `json:"search"`
	BranchId *string `json:"branch_id"`
}

type GetListLocationResponse struct {
	Count     int64      `json:"count"`
	Locations []Location `json:"locations"`
}

type Route struct {
	Id             string  `json:"id"`
	FromLocationId string  `json:"from_location_id"`
	ToLocationId   string  `json:"to_location_id"`
	FromLocation   string  `json:"from_location,omitempty"`
	ToLocation     string  `json:"to_location,omitempty"`
	BranchId       string  `json:"branch_id"`
	Price          float64 `json:"price"`
	DurationMin    int64   `json:"duration_min"`
	DepartureTime  string  `json:"departure_time"`
	IsActive       bool    `json:"is_active"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

type CreateRoute struct {
	FromLocationId string  `json:"from_location_id"`
	ToLocationId   string  `json:"to_location_id"`
	BranchId       string  `json:"branch_id"`
	Price          float64 `json:"price"`
	DurationMin    int64   `json:"duration_min"`
	DepartureTime  string  `json:"departure_time"`
}

type PatchRoute struct {
	Id            string   `json:"id"`
	Price         *float64 `json:"price"`
	DurationMin   *int64   `json:"duration_min"`
	DepartureTime *string  `json:"departure_time"`
	IsActive      *bool    `json:"is_active"`
}

type GetListRouteRequest struct {
	Offset   int64   `json:"offset"`
	Limit    int64   `json:"limit"`
	Search   string  `json:"search"`
	BranchId *string `json:"branch_id"`
}

type GetListRouteResponse struct {
	Count  int64   `json:"count"`
	Routes []Route `json:"routes"`
}

type Bus struct {
	Id          string `json:"id"`
	PlateNumber string `json:"plate_number"`
	Model       string `json:"model"`
	Capacity    int64  `json:"capacity"`
	BranchId    string `json:"branch_id"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type CreateBus struct {
	PlateNumber string `json:"plate_number"`
	Model       string `json:"model"`
	Capacity    int64  `json:"capacity"`
	BranchId    string `json:"branch_id"`
}

type PatchBus struct {
	Id          string  `json:"id"`
	PlateNumber *string `json:"plate_number"`
	Model       *string `json:"model"`
	Capacity    *int64  `json:"capacity"`
	Status      *string `json:"status"`
}

type GetListBusRequest struct {
	Offset   int64   `json:"offset"`
	Limit    int64   `json:"limit"`
	Search   string  `json:"search"`
	BranchId *string `json:"branch_id"`
}

type GetListBusResponse struct {
	Count int64 `json:"count"`
	Buses []Bus `json:"buses"`
}
