package models

import "time"

// ContactStatus tracks how far a contact submission has been handled
type ContactStatus string

const (
	ContactNew       ContactStatus = "new"
	ContactRead      ContactStatus = "read"
	ContactResponded ContactStatus = "responded"
)

var contactRank = map[ContactStatus]int{
	ContactNew:       0,
	ContactRead:      1,
	ContactResponded: 2,
}

// Valid reports whether s is a known contact status
func (s ContactStatus) Valid() bool {
	_, ok := contactRank[s]
	return ok
}

// After reports whether s is further along than next
func (s ContactStatus) After(next ContactStatus) bool {
	return contactRank[s] > contactRank[next]
}

// ContactSubmission is a message sent through the public contact form
type ContactSubmission struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Name        string        `gorm:"not null" json:"name"`
	Email       string        `gorm:"not null" json:"email"`
	Phone       string        `json:"phone"`
	Subject     string        `gorm:"not null" json:"subject"`
	Message     string        `gorm:"type:text;not null" json:"message"`
	Status      ContactStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	Response    *string       `gorm:"type:text" json:"response"`
	RespondedAt *time.Time    `json:"respondedAt"`
	RespondedBy *uint         `json:"respondedBy"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// TableName specifies the table name for the ContactSubmission model
func (ContactSubmission) TableName() string {
	return "contact_submissions"
}
