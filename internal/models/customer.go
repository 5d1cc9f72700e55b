package models

import "time"

// Contato do CRM; phone segue o mesmo formato canônico das reservas
type Customer struct {
	ID string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:30" json:"phone"`
	Email string `gorm:"size:100" json:"email"`

	MarketingConsent bool `gorm:"default:false" json:"marketing_consent"`
	NeedsReview      bool `gorm:"default:false" json:"needs_review"`

	CreatedAt *time.Time `json:"created_at"`
}

func (Customer) TableName() string {
	return TableCustomers
}
