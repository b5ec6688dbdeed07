package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kgn-corner/restaurant-api/models"
	"gorm.io/gorm"
)

// CreateReservationInput is the public booking payload
type CreateReservationInput struct {
	CustomerName    string `json:"customerName" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone" binding:"required"`
	NumberOfGuests  int    `json:"numberOfGuests" binding:"required"`
	ReservationDate string `json:"reservationDate" binding:"required"`
	ReservationTime string `json:"reservationTime" binding:"required"`
	SpecialRequests string `json:"specialRequests"`
}

// UpdateReservationInput is an admin change; nil fields are left untouched
type UpdateReservationInput struct {
	Status          *models.ReservationStatus `json:"status"`
	NumberOfGuests  *int                      `json:"numberOfGuests"`
	ReservationDate *string                   `json:"reservationDate"`
	ReservationTime *string                   `json:"reservationTime"`
	SpecialRequests *string                   `json:"specialRequests"`
	Notes           *string                   `json:"notes"`
}

// ReservationFilter narrows the admin reservation listing
type ReservationFilter struct {
	Status    string
	StartDate string
	EndDate   string
}

// CreateReservation books a table; the reservation always starts pending.
// actor is nil for guests.
func CreateReservation(ctx context.Context, db *gorm.DB, actor *models.User, in CreateReservationInput) (*models.Reservation, error) {
	settings, err := GetSettings(ctx, db)
	if err != nil {
		return nil, err
	}
	if !settings.Features.Data().EnableReservations {
		return nil, ValidationError("FEATURE_DISABLED", "Reservations are currently disabled")
	}

	name := strings.TrimSpace(in.CustomerName)
	email := normalizeEmail(in.Email)
	phone := strings.TrimSpace(in.Phone)
	slot := strings.TrimSpace(in.ReservationTime)
	if name == "" || phone == "" || slot == "" {
		return nil, ValidationError("VALIDATION_ERROR", "Name, phone and reservation time are required")
	}
	if !validEmail(email) {
		return nil, ValidationError("VALIDATION_ERROR", "A valid email is required")
	}
	if err := validateGuests(in.NumberOfGuests); err != nil {
		return nil, err
	}
	date, err := parseReservationDate(in.ReservationDate)
	if err != nil {
		return nil, err
	}
	if date.Before(today()) {
		return nil, ValidationError("VALIDATION_ERROR", "Reservation date cannot be in the past")
	}

	reservation := &models.Reservation{
		CustomerName:    name,
		Email:           email,
		Phone:           phone,
		NumberOfGuests:  in.NumberOfGuests,
		ReservationDate: date,
		ReservationTime: slot,
		SpecialRequests: strings.TrimSpace(in.SpecialRequests),
		Status:          models.ReservationPending,
	}
	if actor != nil {
		reservation.UserID = &actor.ID
	}

	if err := db.WithContext(ctx).Create(reservation).Error; err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	GetNotifier().ReservationCreated(*reservation)
	return reservation, nil
}

// ListReservations returns reservations matching filter, soonest first
func ListReservations(ctx context.Context, db *gorm.DB, filter ReservationFilter) ([]models.Reservation, error) {
	query := db.WithContext(ctx).Order("reservation_date ASC, reservation_time ASC, id ASC")

	if filter.Status != "" {
		if !models.ReservationStatus(filter.Status).Valid() {
			return nil, ValidationError("VALIDATION_ERROR", fmt.Sprintf("Invalid status: %s", filter.Status))
		}
		query = query.Where("status = ?", filter.Status)
	}

	start, end, err := ParseDateRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}
	if start != nil {
		query = query.Where("reservation_date >= ?", *start)
	}
	if end != nil {
		query = query.Where("reservation_date < ?", *end)
	}

	var reservations []models.Reservation
	if err := query.Find(&reservations).Error; err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

// ListUserReservations returns the reservations owned by userID, newest date first
func ListUserReservations(ctx context.Context, db *gorm.DB, userID uint) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("reservation_date DESC, id DESC").
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user reservations: %w", err)
	}
	return reservations, nil
}

// GetReservation loads a reservation visible to actor
func GetReservation(ctx context.Context, db *gorm.DB, actor *models.User, id uint) (*models.Reservation, error) {
	if actor == nil {
		return nil, UnauthorizedError("UNAUTHORIZED", "Authentication required")
	}
	query := db.WithContext(ctx).Where("id = ?", id)
	if !actor.IsAdmin() {
		query = query.Where("user_id = ?", actor.ID)
	}

	var reservation models.Reservation
	if err := query.First(&reservation).Error; err != nil {
		if isNotFound(err) {
			return nil, NotFoundError("RESERVATION_NOT_FOUND", "Reservation not found")
		}
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}
	return &reservation, nil
}

// UpdateReservation applies an admin change and emails the guest
func UpdateReservation(ctx context.Context, db *gorm.DB, id uint, in UpdateReservationInput) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := db.WithContext(ctx).First(&reservation, id).Error; err != nil {
		if isNotFound(err) {
			return nil, NotFoundError("RESERVATION_NOT_FOUND", "Reservation not found")
		}
		return nil, fmt.Errorf("failed to load reservation: %w", err)
	}

	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, ValidationError("VALIDATION_ERROR", fmt.Sprintf("Invalid status: %s", *in.Status))
		}
		reservation.Status = *in.Status
	}
	if in.NumberOfGuests != nil {
		if err := validateGuests(*in.NumberOfGuests); err != nil {
			return nil, err
		}
		reservation.NumberOfGuests = *in.NumberOfGuests
	}
	if in.ReservationDate != nil {
		date, err := parseReservationDate(*in.ReservationDate)
		if err != nil {
			return nil, err
		}
		reservation.ReservationDate = date
	}
	if in.ReservationTime != nil {
		reservation.ReservationTime = strings.TrimSpace(*in.ReservationTime)
	}
	if in.SpecialRequests != nil {
		reservation.SpecialRequests = strings.TrimSpace(*in.SpecialRequests)
	}
	if in.Notes != nil {
		reservation.Notes = strings.TrimSpace(*in.Notes)
	}

	if err := db.WithContext(ctx).Save(&reservation).Error; err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	GetNotifier().ReservationUpdated(reservation)
	return &reservation, nil
}

// CancelReservation lets the owner (or an admin) cancel. Cancelling twice
// succeeds without a second email; completed reservations cannot be cancelled.
func CancelReservation(ctx context.Context, db *gorm.DB, actor *models.User, id uint) (*models.Reservation, error) {
	reservation, err := GetReservation(ctx, db, actor, id)
	if err != nil {
		return nil, err
	}

	switch reservation.Status {
	case models.ReservationCancelled:
		return reservation, nil
	case models.ReservationCompleted:
		return nil, ConflictError("RESERVATION_COMPLETED", "Completed reservations cannot be cancelled")
	}

	result := db.WithContext(ctx).Model(&models.Reservation{}).
		Where("id = ? AND status NOT IN ?", reservation.ID,
			[]models.ReservationStatus{models.ReservationCancelled, models.ReservationCompleted}).
		Updates(map[string]interface{}{
			"status":     models.ReservationCancelled,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to cancel reservation: %w", result.Error)
	}

	reservation.Status = models.ReservationCancelled
	// zero rows means a concurrent cancel already sent the email
	if result.RowsAffected > 0 {
		GetNotifier().ReservationCancelled(*reservation)
	}
	return reservation, nil
}

// DeleteReservation removes a reservation
func DeleteReservation(ctx context.Context, db *gorm.DB, id uint) error {
	result := db.WithContext(ctx).Delete(&models.Reservation{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete reservation: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return NotFoundError("RESERVATION_NOT_FOUND", "Reservation not found")
	}
	return nil
}

func validateGuests(n int) error {
	if n < models.MinGuests || n > models.MaxGuests {
		return ValidationError("VALIDATION_ERROR",
			fmt.Sprintf("Number of guests must be between %d and %d", models.MinGuests, models.MaxGuests))
	}
	return nil
}

func parseReservationDate(value string) (time.Time, error) {
	t, _, err := parseDateBound(strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, ValidationError("VALIDATION_ERROR", "Reservation date must be YYYY-MM-DD")
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func today() time.Time {
	y, m, d := time.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
