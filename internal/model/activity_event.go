package model

import "time"

// Activity actions recorded for job application mutations.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ActivityEvent is an append-only audit row persisted asynchronously by the
// activity worker. Job title and company are denormalized so the event stays
// readable after the application itself is deleted.
type ActivityEvent struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	JobID       uint      `gorm:"not null;index" json:"job_id"`
	Action      string    `gorm:"size:16;not null" json:"action"`
	JobTitle    string    `gorm:"size:255;not null" json:"job_title"`
	CompanyName string    `gorm:"size:255;not null" json:"company_name"`
	CreatedAt   time.Time `json:"created_at"`
}
