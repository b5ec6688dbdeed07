package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/kgn-corner/restaurant-api/models"
	"gorm.io/gorm"
)

// TestimonialInput creates or edits a testimonial
type TestimonialInput struct {
	CustomerName *string `json:"customerName"`
	Rating       *int    `json:"rating"`
	Review       *string `json:"review"`
	Image        *string `json:"image"`
	Source       *string `json:"source"`
	IsApproved   *bool   `json:"isApproved"`
}

// ListTestimonials returns testimonials newest first; only approved ones unless all is set
func ListTestimonials(ctx context.Context, db *gorm.DB, all bool) ([]models.Testimonial, error) {
	query := db.WithContext(ctx).Order("created_at DESC, id DESC")
	if !all {
		query = query.Where("is_approved = ?", true)
	}

	var testimonials []models.Testimonial
	if err := query.Find(&testimonials).Error; err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	return testimonials, nil
}

// SubmitTestimonial stores a public review awaiting approval
func SubmitTestimonial(ctx context.Context, db *gorm.DB, in TestimonialInput) (*models.Testimonial, error) {
	t := &models.Testimonial{Source: models.SourceInternal}
	if err := applyTestimonial(t, in, false); err != nil {
		return nil, err
	}
	if t.CustomerName == "" || t.Review == "" || t.Rating == 0 {
		return nil, ValidationError("VALIDATION_ERROR", "Customer name, rating and review are required")
	}
	t.IsApproved = false

	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, fmt.Errorf("failed to create testimonial: %w", err)
	}
	return t, nil
}

// UpdateTestimonial lets an admin edit or approve a testimonial
func UpdateTestimonial(ctx context.Context, db *gorm.DB, id uint, in TestimonialInput) (*models.Testimonial, error) {
	var t models.Testimonial
	if err := db.WithContext(ctx).First(&t, id).Error; err != nil {
		if isNotFound(err) {
			return nil, NotFoundError("TESTIMONIAL_NOT_FOUND", "Testimonial not found")
		}
		return nil, fmt.Errorf("failed to load testimonial: %w", err)
	}
	if err := applyTestimonial(&t, in, true); err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Save(&t).Error; err != nil {
		return nil, fmt.Errorf("failed to update testimonial: %w", err)
	}
	return &t, nil
}

// DeleteTestimonial removes a testimonial
func DeleteTestimonial(ctx context.Context, db *gorm.DB, id uint) error {
	result := db.WithContext(ctx).Delete(&models.Testimonial{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete testimonial: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return NotFoundError("TESTIMONIAL_NOT_FOUND", "Testimonial not found")
	}
	return nil
}

func applyTestimonial(t *models.Testimonial, in TestimonialInput, admin bool) error {
	if in.CustomerName != nil {
		t.CustomerName = strings.TrimSpace(*in.CustomerName)
	}
	if in.Review != nil {
		t.Review = strings.TrimSpace(*in.Review)
	}
	if in.Rating != nil {
		if *in.Rating < 1 || *in.Rating > 5 {
			return ValidationError("VALIDATION_ERROR", "Rating must be between 1 and 5")
		}
		t.Rating = *in.Rating
	}
	if in.Image != nil {
		t.Image = in.Image
	}
	if admin && in.Source != nil {
		switch *in.Source {
		case models.SourceGoogle, models.SourceInternal, models.SourceCustom:
			t.Source = *in.Source
		default:
			return ValidationError("VALIDATION_ERROR", fmt.Sprintf("Invalid source: %s", *in.Source))
		}
	}
	if admin && in.IsApproved != nil {
		t.IsApproved = *in.IsApproved
	}
	return nil
}
