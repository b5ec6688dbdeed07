package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Menu categories
const (
	CategoryAppetizers = "appetizers"
	CategoryMains      = "mains"
	CategoryVegetables = "vegetables"
	CategoryNoodles    = "noodles"
	CategoryRice       = "rice"
	CategoryDesserts   = "desserts"
	CategoryBeverages  = "beverages"
)

// MenuCategories lists the categories in display order
var MenuCategories = []string{
	CategoryAppetizers, CategoryMains, CategoryVegetables, CategoryNoodles,
	CategoryRice, CategoryDesserts, CategoryBeverages,
}

// DietaryTags is the fixed dietary vocabulary
var DietaryTags = []string{"vegan", "vegetarian", "gluten-free", "dairy-free", "spicy"}

const DefaultPreparationTime = 15

// MenuItem represents a dish on the menu
type MenuItem struct {
	ID                   uint                        `gorm:"primaryKey" json:"id"`
	Name                 string                      `gorm:"not null;index" json:"name"`
	Description          string                      `gorm:"type:text;not null" json:"description"`
	Price                decimal.Decimal             `gorm:"type:decimal(10,2);not null" json:"price"`
	Category             string                      `gorm:"not null;index" json:"category"`
	Image                string                      `json:"image"`                          // free text: URL or emoji
	ImageKey             *string                     `json:"imageKey,omitempty"`             // nullable, S3 key for uploaded image
	ImageURL             *string                     `gorm:"-" json:"imageUrl,omitempty"`    // computed field, presigned URL for image
	IsAvailable          bool                        `gorm:"not null" json:"isAvailable"`
	DietaryTags          datatypes.JSONSlice[string] `json:"isDietaryFriendly"`
	IsChefRecommendation bool                        `gorm:"not null" json:"isChefRecommendation"`
	Calories             *int                        `json:"calories"`
	PreparationTime      int                         `gorm:"not null" json:"preparationTime"` // minutes
	CreatedAt            time.Time                   `json:"createdAt"`
	UpdatedAt            time.Time                   `json:"updatedAt"`
}

// TableName specifies the table name for the MenuItem model
func (MenuItem) TableName() string {
	return "menu_items"
}

// ValidCategory reports whether c is a menu category
func ValidCategory(c string) bool {
	return contains(MenuCategories, c)
}

// ValidDietaryTag reports whether tag belongs to the dietary vocabulary
func ValidDietaryTag(tag string) bool {
	return contains(DietaryTags, tag)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
