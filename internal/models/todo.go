package models

import "time"

const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
)

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

type Todo struct {
	ID          string
	UserID      string
	Text        string
	Description string
	Priority    string
	DueDate     *time.Time
	Completed   bool
	Pinned      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
