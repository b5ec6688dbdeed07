package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// SettingsID is the primary key of the only RestaurantSettings row
const SettingsID uint = 1

// Weekdays in display order
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// DayHours is the opening window for one weekday
type DayHours struct {
	Open     string `json:"open"`
	Close    string `json:"close"`
	IsClosed bool   `json:"isClosed"`
}

// OpeningHours maps a lower-case weekday to its hours
type OpeningHours map[string]DayHours

type SocialMedia struct {
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	Youtube   string `json:"youtube"`
}

type Theme struct {
	PrimaryColor    string `json:"primaryColor"`
	SecondaryColor  string `json:"secondaryColor"`
	TextColor       string `json:"textColor"`
	BackgroundColor string `json:"backgroundColor"`
	FontFamily      string `json:"fontFamily"`
}

type SEOSettings struct {
	MetaTitle       string  `json:"metaTitle"`
	MetaDescription string  `json:"metaDescription"`
	MetaKeywords    string  `json:"metaKeywords"`
	OGImage         *string `json:"ogImage"`
}

// Features are the switches that enable public functionality
type Features struct {
	EnableReservations   bool `json:"enableReservations"`
	EnableOnlineOrdering bool `json:"enableOnlineOrdering"`
	EnableDelivery       bool `json:"enableDelivery"`
	EnablePickup         bool `json:"enablePickup"`
	EnablePayments       bool `json:"enablePayments"`
}

// RestaurantSettings is a singleton row (ID == SettingsID)
type RestaurantSettings struct {
	ID           uint                            `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Name         string                          `gorm:"column:restaurant_name;not null" json:"restaurantName"`
	Logo         *string                         `json:"logo"`
	HeroImage    *string                         `json:"heroImage"`
	Tagline      string                          `json:"tagline"`
	Description  string                          `gorm:"type:text" json:"description"`
	Email        string                          `json:"email"`
	Phone        string                          `json:"phone"`
	Address      string                          `json:"address"`
	MapURL       string                          `json:"mapUrl"`
	OpeningHours datatypes.JSONType[OpeningHours] `json:"openingHours"`
	SocialMedia  datatypes.JSONType[SocialMedia]  `json:"socialMedia"`
	Theme        datatypes.JSONType[Theme]        `json:"theme"`
	SEOSettings  datatypes.JSONType[SEOSettings]  `gorm:"column:seo_settings" json:"seoSettings"`
	Features     datatypes.JSONType[Features]     `json:"features"`
	TaxRate      decimal.Decimal                 `gorm:"type:decimal(6,4);not null" json:"taxRate"`
	DeliveryFee  decimal.Decimal                 `gorm:"type:decimal(10,2);not null" json:"deliveryFee"`
	CreatedAt    time.Time                       `json:"createdAt"`
	UpdatedAt    time.Time                       `json:"updatedAt"`
}

// TableName specifies the table name for the RestaurantSettings model
func (RestaurantSettings) TableName() string {
	return "restaurant_settings"
}

// DefaultSettings returns the settings used when none have been saved yet
func DefaultSettings() RestaurantSettings {
	hours := OpeningHours{}
	for _, day := range Weekdays {
		hours[day] = DayHours{Open: "11:00", Close: "22:00"}
	}
	hours["friday"] = DayHours{Open: "11:00", Close: "23:00"}
	hours["saturday"] = DayHours{Open: "11:00", Close: "23:00"}
	hours["sunday"] = DayHours{Open: "12:00", Close: "22:00"}

	return RestaurantSettings{
		ID:           SettingsID,
		Name:         "KGN Chinese Corner",
		Tagline:      "Authentic Chinese Cuisine",
		Description:  "Welcome to KGN Chinese Corner - Where tradition meets taste.",
		Email:        "contact@kgnrestaurant.com",
		Phone:        "+1 (555) 123-4567",
		Address:      "123 Main Street, City, State 12345",
		OpeningHours: datatypes.NewJSONType(hours),
		SocialMedia:  datatypes.NewJSONType(SocialMedia{}),
		Theme: datatypes.NewJSONType(Theme{
			PrimaryColor:    "#c41e3a",
			SecondaryColor:  "#ffc72c",
			TextColor:       "#333333",
			BackgroundColor: "#ffffff",
			FontFamily:      "Poppins, sans-serif",
		}),
		SEOSettings: datatypes.NewJSONType(SEOSettings{
			MetaTitle:       "KGN Chinese Corner - Authentic Indo Chinese Cuisine",
			MetaDescription: "Experience authentic Indo-Chinese cuisine at KGN Chinese Corner. Book your table online now.",
			MetaKeywords:    "chinese restaurant, indo chinese, dine-in, delivery",
		}),
		Features: datatypes.NewJSONType(Features{
			EnableReservations:   true,
			EnableOnlineOrdering: true,
			EnableDelivery:       true,
			EnablePickup:         true,
			EnablePayments:       true,
		}),
		TaxRate:     decimal.RequireFromString("0.05"),
		DeliveryFee: decimal.RequireFromString("2.99"),
	}
}
