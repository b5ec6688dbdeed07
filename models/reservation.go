package models

import (
	"time"
)

// ReservationStatus is the state of a table reservation
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

const (
	MinGuests = 1
	MaxGuests = 20
)

// Valid reports whether s is a known reservation status
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationCompleted:
		return true
	}
	return false
}

// Reservation represents a table booking
type Reservation struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	CustomerName    string            `gorm:"not null" json:"customerName"`
	Email           string            `gorm:"not null" json:"email"`
	Phone           string            `gorm:"not null" json:"phone"`
	NumberOfGuests  int               `gorm:"not null;check:number_of_guests BETWEEN 1 AND 20" json:"numberOfGuests"`
	ReservationDate time.Time         `gorm:"not null;index" json:"reservationDate"`
	ReservationTime string            `gorm:"not null" json:"reservationTime"`
	SpecialRequests string            `gorm:"type:text" json:"specialRequests"`
	Status          ReservationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	UserID          *uint             `gorm:"index" json:"userId"` // nullable, guest reservation
	Notes           string            `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// TableName specifies the table name for the Reservation model
func (Reservation) TableName() string {
	return "reservations"
}
