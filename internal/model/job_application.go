package model

import "time"

// JobApplication is owned by exactly one user. Optional columns are pointers
// so a cleared field round-trips as SQL NULL / JSON null.
type JobApplication struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	JobTitle    string     `gorm:"size:255;not null" json:"job_title"`
	CompanyName string     `gorm:"size:255;not null" json:"company_name"`
	URL         *string    `gorm:"size:2048" json:"url"`
	Location    *string    `gorm:"size:255" json:"location"`
	DateApplied *time.Time `json:"date_applied"`
	Status      string     `gorm:"size:32;not null;default:'Applied'" json:"status"`
	Notes       *string    `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
