package models

import "time"

// Booking is one appointment/visit entry (fitting, lesson, repair pickup).
// Date and Time are kept as the strings intake wrote them.
type Booking struct {
	ID string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`

	Name  string `gorm:"size:100" json:"name"`
	Phone string `gorm:"size:30" json:"phone"`

	Date string `gorm:"size:10;index:idx_bookings_slot" json:"date"`
	Time string `gorm:"size:8;index:idx_bookings_slot" json:"time"`

	Service     string `gorm:"size:100" json:"service"`
	Status      string `gorm:"size:20;default:'scheduled'" json:"status"`
	NeedsReview bool   `gorm:"default:false" json:"needs_review"`

	CreatedAt *time.Time `json:"created_at"`
}

func (Booking) TableName() string {
	return TableBookings
}
