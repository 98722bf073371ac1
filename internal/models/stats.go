package models

// Stats holds per-owner counters for the review dashboard.
// TotalFlags always equals the sum of the priority counters and the sum of
// the status counters.
type Stats struct {
	TotalFlags      int64 `json:"total_flags"`
	HighPriority    int64 `json:"high_priority"`
	MediumPriority  int64 `json:"medium_priority"`
	LowPriority     int64 `json:"low_priority"`
	PendingStatus   int64 `json:"pending_status"`
	ApprovedStatus  int64 `json:"approved_status"`
	RejectedStatus  int64 `json:"rejected_status"`
	EscalatedStatus int64 `json:"escalated_status"`
}
