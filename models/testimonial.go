package models

import "time"

// Testimonial sources
const (
	SourceGoogle   = "google"
	SourceInternal = "internal"
	SourceCustom   = "custom"
)

// Testimonial is a customer review shown on the public site once approved
type Testimonial struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CustomerName string    `gorm:"not null" json:"customerName"`
	Rating       int       `gorm:"not null;check:rating BETWEEN 1 AND 5" json:"rating"`
	Review       string    `gorm:"type:text;not null" json:"review"`
	Image        *string   `json:"image"`
	IsApproved   bool      `gorm:"not null;index" json:"isApproved"`
	Source       string    `gorm:"type:varchar(20);not null" json:"source"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName specifies the table name for the Testimonial model
func (Testimonial) TableName() string {
	return "testimonials"
}
