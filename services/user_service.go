package services

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/kgn-corner/restaurant-api/models"
	"gorm.io/gorm"
)

const (
	minPasswordLength = 6
	// bcrypt only hashes the first 72 bytes
	maxPasswordLength = 72
)

// RegisterInput is the self-service sign-up payload
type RegisterInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
}

// LoginInput is the credential exchange payload
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ProfileUpdate is a partial update of the caller's account
type ProfileUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
}

// RegisterUser creates a customer account. The role is never taken from the client.
func RegisterUser(ctx context.Context, db *gorm.DB, in RegisterInput) (*models.User, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" {
		return nil, ValidationError("VALIDATION_ERROR", "Name is required")
	}
	if !validEmail(email) {
		return nil, ValidationError("VALIDATION_ERROR", "A valid email is required")
	}
	if err := validatePassword(in.Password); err != nil {
		return nil, err
	}

	user := &models.User{
		Name:  name,
		Email: email,
		Phone: strings.TrimSpace(in.Phone),
		Role:  models.RoleCustomer,
	}
	if err := user.SetPassword(in.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ConflictError("EMAIL_TAKEN", "An account with this email already exists")
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate checks credentials; unknown emails and wrong passwords are indistinguishable
func Authenticate(ctx context.Context, db *gorm.DB, in LoginInput) (*models.User, error) {
	var user models.User
	err := db.WithContext(ctx).Where("email = ?", normalizeEmail(in.Email)).First(&user).Error
	if err != nil {
		if isNotFound(err) {
			return nil, UnauthorizedError("INVALID_CREDENTIALS", "Invalid email or password")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !user.CheckPassword(in.Password) {
		return nil, UnauthorizedError("INVALID_CREDENTIALS", "Invalid email or password")
	}
	return &user, nil
}

// GetUserByID loads a non-deleted user
func GetUserByID(ctx context.Context, db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.WithContext(ctx).First(&user, id).Error; err != nil {
		if isNotFound(err) {
			return nil, NotFoundError("USER_NOT_FOUND", "User not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// UpdateProfile applies a partial update to user
func UpdateProfile(ctx context.Context, db *gorm.DB, user *models.User, in ProfileUpdate) (*models.User, error) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, ValidationError("VALIDATION_ERROR", "Name cannot be empty")
		}
		user.Name = name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if !validEmail(email) {
			return nil, ValidationError("VALIDATION_ERROR", "A valid email is required")
		}
		user.Email = email
	}
	if in.Phone != nil {
		user.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Password != nil {
		if err := validatePassword(*in.Password); err != nil {
			return nil, err
		}
		if err := user.SetPassword(*in.Password); err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
	}

	if err := db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ConflictError("EMAIL_TAKEN", "An account with this email already exists")
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// ListUsers returns every non-deleted account, newest first
func ListUsers(ctx context.Context, db *gorm.DB) ([]models.User, error) {
	var users []models.User
	if err := db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// DeleteUser soft-deletes an account. Orders and reservations keep their user id.
func DeleteUser(ctx context.Context, db *gorm.DB, actor *models.User, id uint) error {
	if actor != nil && actor.ID == id {
		return ValidationError("CANNOT_DELETE_SELF", "You cannot delete your own account")
	}
	result := db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return NotFoundError("USER_NOT_FOUND", "User not found")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return ValidationError("VALIDATION_ERROR", fmt.Sprintf("Password must be at least %d characters", minPasswordLength))
	}
	if len(password) > maxPasswordLength {
		return ValidationError("VALIDATION_ERROR", fmt.Sprintf("Password must be at most %d bytes", maxPasswordLength))
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}
