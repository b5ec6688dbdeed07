package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/kgn-corner/restaurant-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// taxRateScale matches the decimal(6,4) tax_rate column
const taxRateScale = 4

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// SettingsUpdate is a partial update of the settings singleton; nil fields are left untouched
type SettingsUpdate struct {
	RestaurantName *string              `json:"restaurantName"`
	Logo           *string              `json:"logo"`
	HeroImage      *string              `json:"heroImage"`
	Tagline        *string              `json:"tagline"`
	Description    *string              `json:"description"`
	Email          *string              `json:"email"`
	Phone          *string              `json:"phone"`
	Address        *string              `json:"address"`
	MapURL         *string              `json:"mapUrl"`
	OpeningHours   *models.OpeningHours `json:"openingHours"`
	SocialMedia    *models.SocialMedia  `json:"socialMedia"`
	Theme          *models.Theme        `json:"theme"`
	SEOSettings    *models.SEOSettings  `json:"seoSettings"`
	Features       *FeaturesUpdate      `json:"features"`
	TaxRate        *decimal.Decimal     `json:"taxRate"`
	DeliveryFee    *decimal.Decimal     `json:"deliveryFee"`
}

// FeaturesUpdate toggles individual feature switches; nil switches keep their value
type FeaturesUpdate struct {
	EnableReservations   *bool `json:"enableReservations"`
	EnableOnlineOrdering *bool `json:"enableOnlineOrdering"`
	EnableDelivery       *bool `json:"enableDelivery"`
	EnablePickup         *bool `json:"enablePickup"`
	EnablePayments       *bool `json:"enablePayments"`
}

func (u FeaturesUpdate) apply(f models.Features) models.Features {
	setBool := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	setBool(&f.EnableReservations, u.EnableReservations)
	setBool(&f.EnableOnlineOrdering, u.EnableOnlineOrdering)
	setBool(&f.EnableDelivery, u.EnableDelivery)
	setBool(&f.EnablePickup, u.EnablePickup)
	setBool(&f.EnablePayments, u.EnablePayments)
	return f
}

// GetSettings returns the settings singleton, creating it with defaults on first access.
// Concurrent first reads race on the fixed primary key; the loser's insert is ignored.
func GetSettings(ctx context.Context, db *gorm.DB) (*models.RestaurantSettings, error) {
	db = db.WithContext(ctx)

	var settings models.RestaurantSettings
	err := db.First(&settings, models.SettingsID).Error
	if err == nil {
		return &settings, nil
	}
	if !isNotFound(err) {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	defaults := models.DefaultSettings()
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error; err != nil {
		return nil, fmt.Errorf("failed to create default settings: %w", err)
	}

	if err := db.First(&settings, models.SettingsID).Error; err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return &settings, nil
}

// UpdateSettings applies a partial update to the settings singleton
func UpdateSettings(ctx context.Context, db *gorm.DB, in SettingsUpdate) (*models.RestaurantSettings, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	settings, err := GetSettings(ctx, db)
	if err != nil {
		return nil, err
	}

	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	setString(&settings.Name, in.RestaurantName)
	if in.Logo != nil {
		settings.Logo = in.Logo
	}
	if in.HeroImage != nil {
		settings.HeroImage = in.HeroImage
	}
	setString(&settings.Tagline, in.Tagline)
	setString(&settings.Description, in.Description)
	setString(&settings.Email, in.Email)
	setString(&settings.Phone, in.Phone)
	setString(&settings.Address, in.Address)
	setString(&settings.MapURL, in.MapURL)

	if in.OpeningHours != nil {
		hours := settings.OpeningHours.Data()
		if hours == nil {
			hours = models.OpeningHours{}
		}
		for day, h := range *in.OpeningHours {
			hours[strings.ToLower(day)] = h
		}
		settings.OpeningHours = datatypes.NewJSONType(hours)
	}
	if in.SocialMedia != nil {
		settings.SocialMedia = datatypes.NewJSONType(*in.SocialMedia)
	}
	if in.Theme != nil {
		settings.Theme = datatypes.NewJSONType(*in.Theme)
	}
	if in.SEOSettings != nil {
		settings.SEOSettings = datatypes.NewJSONType(*in.SEOSettings)
	}
	if in.Features != nil {
		settings.Features = datatypes.NewJSONType(in.Features.apply(settings.Features.Data()))
	}
	if in.TaxRate != nil {
		settings.TaxRate = *in.TaxRate
	}
	if in.DeliveryFee != nil {
		settings.DeliveryFee = models.Money(*in.DeliveryFee)
	}

	if err := db.WithContext(ctx).Save(settings).Error; err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}
	GetNotifier().SetRestaurantName(settings.Name)
	return settings, nil
}

func (in SettingsUpdate) validate() error {
	if in.RestaurantName != nil && strings.TrimSpace(*in.RestaurantName) == "" {
		return ValidationError("VALIDATION_ERROR", "Restaurant name cannot be empty")
	}
	if in.TaxRate != nil && (in.TaxRate.IsNegative() || in.TaxRate.GreaterThan(decimal.NewFromInt(1))) {
		return ValidationError("VALIDATION_ERROR", "Tax rate must be between 0 and 1")
	}
	if in.TaxRate != nil && !in.TaxRate.Equal(in.TaxRate.Round(taxRateScale)) {
		return ValidationError("VALIDATION_ERROR", fmt.Sprintf("Tax rate cannot have more than %d decimal places", taxRateScale))
	}
	if in.DeliveryFee != nil && in.DeliveryFee.IsNegative() {
		return ValidationError("VALIDATION_ERROR", "Delivery fee cannot be negative")
	}
	if in.OpeningHours != nil {
		for day, h := range *in.OpeningHours {
			if !isWeekday(strings.ToLower(day)) {
				return ValidationError("VALIDATION_ERROR", fmt.Sprintf("Unknown weekday: %s", day))
			}
			if h.IsClosed {
				continue
			}
			if !clockPattern.MatchString(h.Open) || !clockPattern.MatchString(h.Close) {
				return ValidationError("VALIDATION_ERROR", fmt.Sprintf("Opening hours for %s must use HH:MM", day))
			}
		}
	}
	return nil
}

func isWeekday(day string) bool {
	for _, d := range models.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}
