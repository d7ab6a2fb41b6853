package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UndeliveredReport is a serialized report the items endpoint did not
// accept, kept so it can be sent again later.
type UndeliveredReport struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	// The JSON document exactly as it was dispatched
	Payload string `gorm:"type:text;not null" json:"payload"`

	// Outcome of the last attempt. StatusCode is 0 when no response arrived.
	LastError  string `gorm:"type:text" json:"last_error"`
	StatusCode int    `gorm:"index" json:"status_code"`
	Attempts   int    `gorm:"not null;default:1" json:"attempts"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate assigns a random ID to new records.
func (r *UndeliveredReport) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
