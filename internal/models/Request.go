// internal/models/request.go
package models

// Status is the lifecycle state of a pickup request.
type Status string

const (
	StatusPending    Status = "pending"
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Statuses lists every status in display order.
var Statuses = []Status{StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// WasteType classifies what is being picked up.
type WasteType string

const (
	WasteOrganic   WasteType = "organic"
	WasteInorganic WasteType = "inorganic"
	WasteHazardous WasteType = "hazardous"
)

func (w WasteType) Valid() bool {
	switch w {
	case WasteOrganic, WasteInorganic, WasteHazardous:
		return true
	default:
		return false
	}
}

// TimeSlots are the pickup windows offered when scheduling.
var TimeSlots = []string{"10:00 AM", "10:30 AM", "11:00 AM"}

// DateLayout is the format of Request.Date.
const DateLayout = "2006-01-02"

// Request is a single pickup request.
type Request struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Date        string    `json:"date"`
	TimeSlot    string    `json:"timeSlot"`
	Locality    string    `json:"locality"`
	Address     string    `json:"address"`
	WasteType   WasteType `json:"wasteType"`
	Status      Status    `json:"status"`
	WeightKg    float64   `json:"weightKg"`
	Points      int       `json:"points"`
	CollectorID string    `json:"collectorId"`
}

// Assignable reports whether the request is waiting for a collector.
func (r Request) Assignable() bool {
	return r.Status == StatusPending && r.CollectorID == ""
}
