package structs

const (
	BookingStatusUpcoming  = "upcoming"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
	BookingStatusArchived  = "archived"
)

const (
	DriverStatusActive    = "active"
	DriverStatusInactive  = "inactive"
	DriverStatusSuspended = "suspended"
)

const (
	BusStatusActive      = "active"
	BusStatusMaintenance = "maintenance"
	BusStatusRetired     = "retired"
)
