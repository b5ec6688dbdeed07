package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kgn-corner/restaurant-api/models"
	"gorm.io/gorm"
)

// CreateContactInput is the public contact form payload
type CreateContactInput struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// UpdateContactInput moves a submission forward or records a reply
type UpdateContactInput struct {
	Status   *models.ContactStatus `json:"status"`
	Response *string               `json:"response"`
}

// CreateContact stores a submission and emails both the sender and the admin inbox
func CreateContact(ctx context.Context, db *gorm.DB, in CreateContactInput) (*models.ContactSubmission, error) {
	contact := &models.ContactSubmission{
		Name:    strings.TrimSpace(in.Name),
		Email:   normalizeEmail(in.Email),
		Phone:   strings.TrimSpace(in.Phone),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
		Status:  models.ContactNew,
	}
	if contact.Name == "" || contact.Subject == "" || contact.Message == "" {
		return nil, ValidationError("VALIDATION_ERROR", "Name, subject and message are required")
	}
	if !validEmail(contact.Email) {
		return nil, ValidationError("VALIDATION_ERROR", "A valid email is required")
	}

	if err := db.WithContext(ctx).Create(contact).Error; err != nil {
		return nil, fmt.Errorf("failed to create contact submission: %w", err)
	}

	GetNotifier().ContactReceived(*contact)
	return contact, nil
}

// ListContacts returns submissions, newest first, optionally filtered by status
func ListContacts(ctx context.Context, db *gorm.DB, status string) ([]models.ContactSubmission, error) {
	query := db.WithContext(ctx).Order("created_at DESC, id DESC")
	if status != "" {
		if !models.ContactStatus(status).Valid() {
			return nil, ValidationError("VALIDATION_ERROR", fmt.Sprintf("Invalid status: %s", status))
		}
		query = query.Where("status = ?", status)
	}

	var contacts []models.ContactSubmission
	if err := query.Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to list contact submissions: %w", err)
	}
	return contacts, nil
}

// GetContact loads one submission
func GetContact(ctx context.Context, db *gorm.DB, id uint) (*models.ContactSubmission, error) {
	var contact models.ContactSubmission
	if err := db.WithContext(ctx).First(&contact, id).Error; err != nil {
		if isNotFound(err) {
			return nil, NotFoundError("CONTACT_NOT_FOUND", "Contact submission not found")
		}
		return nil, fmt.Errorf("failed to load contact submission: %w", err)
	}
	return &contact, nil
}

// UpdateContact advances the status (new, read, responded; never backwards).
// A non-empty response marks the submission responded and emails the reply.
func UpdateContact(ctx context.Context, db *gorm.DB, actor *models.User, id uint, in UpdateContactInput) (*models.ContactSubmission, error) {
	contact, err := GetContact(ctx, db, id)
	if err != nil {
		return nil, err
	}

	next := contact.Status
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, ValidationError("VALIDATION_ERROR", fmt.Sprintf("Invalid status: %s", *in.Status))
		}
		next = *in.Status
	}

	var response string
	if in.Response != nil {
		response = strings.TrimSpace(*in.Response)
	}
	if response != "" {
		next = models.ContactResponded
	}
	if next == models.ContactResponded && response == "" && contact.Response == nil {
		return nil, ValidationError("VALIDATION_ERROR", "A response is required to mark a submission as responded")
	}

	if contact.Status.After(next) {
		return nil, ConflictError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot change contact status from %s to %s", contact.Status, next))
	}

	updates := map[string]interface{}{"status": next}
	if response != "" {
		now := time.Now()
		updates["response"] = response
		updates["responded_at"] = now
		if actor != nil {
			updates["responded_by"] = actor.ID
		}
	}

	if err := db.WithContext(ctx).Model(contact).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update contact submission: %w", err)
	}

	updated, err := GetContact(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if response != "" {
		GetNotifier().ContactResponded(*updated)
	}
	return updated, nil
}
