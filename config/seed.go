package config

import (
	"fmt"
	"log/slog"

	"github.com/kgn-corner/restaurant-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type seedAccount struct {
	name, email, phone, role, password string
}

var seedAccounts = []seedAccount{
	{"Admin", "admin@kgn.com", "+1 (555) 123-4567", models.RoleAdmin, "admin123"},
	{"John Doe", "customer@example.com", "+1 (555) 987-6543", models.RoleCustomer, "customer123"},
}

func seedMenu() []models.MenuItem {
	item := func(name, description, category, price, image string, chef bool, tags ...string) models.MenuItem {
		return models.MenuItem{
			Name:                 name,
			Description:          description,
			Category:             category,
			Price:                decimal.RequireFromString(price),
			Image:                image,
			IsAvailable:          true,
			IsChefRecommendation: chef,
			DietaryTags:          datatypes.JSONSlice[string](append([]string{}, tags...)),
			PreparationTime:      models.DefaultPreparationTime,
		}
	}
	return []models.MenuItem{
		item("Dragon Chicken", "Crispy chicken in spicy dragon sauce with bell peppers", models.CategoryMains, "12.99", "🐉", true, "gluten-free", "spicy"),
		item("Paneer Hakka Noodles", "Cottage cheese with Indo-Chinese noodles and mixed vegetables", models.CategoryNoodles, "10.99", "🍜", true, "vegetarian"),
		item("Schezwan Fried Rice", "Spiced fried rice with seasonal vegetables and aromatic spices", models.CategoryRice, "9.99", "🍚", false, "vegan", "vegetarian"),
		item("Chicken 65", "Marinated and fried chicken pieces with traditional spices", models.CategoryAppetizers, "8.99", "🍗", true, "gluten-free", "spicy"),
		item("Vegetable Manchurian", "Crispy vegetable balls in tangy manchurian sauce", models.CategoryAppetizers, "7.99", "🥟", false, "vegan", "vegetarian"),
		item("Shrimp Garlic Noodles", "Fresh shrimp tossed with garlic and Indo-Chinese noodles", models.CategoryNoodles, "13.99", "🦐", false),
		item("Gulab Jamun", "Traditional sweet Indian dessert soaked in sugar syrup", models.CategoryDesserts, "5.99", "🍮", false, "vegetarian"),
		item("Mango Lassi", "Refreshing yogurt-based mango drink", models.CategoryBeverages, "4.99", "🥤", false, "vegetarian"),
	}
}

var seedTestimonials = []models.Testimonial{
	{CustomerName: "Raj Kumar", Rating: 5, Review: "Absolutely amazing food! The flavors are authentic and the service is impeccable."},
	{CustomerName: "Priya Singh", Rating: 5, Review: "My favorite place to eat in the city. The ambiance is great and staff is very welcoming."},
	{CustomerName: "Ahmed Hassan", Rating: 5, Review: "Best Indo-Chinese food I have ever had. Highly recommended for family dinners."},
	{CustomerName: "Maria Garcia", Rating: 4, Review: "Great food and friendly service. Will definitely come back!"},
	{CustomerName: "David Chen", Rating: 5, Review: "Perfect blend of Chinese and Indian spices. A culinary masterpiece!"},
}

// Seed loads demo accounts, menu, settings and testimonials.
// Running it again leaves existing rows alone.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for _, a := range seedAccounts {
			user := models.User{Name: a.name, Email: a.email, Phone: a.phone, Role: a.role}
			if err := user.SetPassword(a.password); err != nil {
				return err
			}
			result := tx.Where(models.User{Email: a.email}).FirstOrCreate(&user)
			if result.Error != nil {
				return fmt.Errorf("failed to seed user %s: %w", a.email, result.Error)
			}
			if result.RowsAffected > 0 {
				slog.Info("seeded user", slog.String("email", a.email), slog.String("role", a.role))
			}
		}

		var count int64
		if err := tx.Model(&models.MenuItem{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count menu items: %w", err)
		}
		if count == 0 {
			menu := seedMenu()
			if err := tx.Create(&menu).Error; err != nil {
				return fmt.Errorf("failed to seed menu: %w", err)
			}
			slog.Info("seeded menu", slog.Int("items", len(menu)))
		}

		settings := models.DefaultSettings()
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&settings).Error; err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}

		if err := tx.Model(&models.Testimonial{}).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count testimonials: %w", err)
		}
		if count == 0 {
			testimonials := make([]models.Testimonial, len(seedTestimonials))
			for i, t := range seedTestimonials {
				t.IsApproved = true
				t.Source = models.SourceInternal
				testimonials[i] = t
			}
			if err := tx.Create(&testimonials).Error; err != nil {
				return fmt.Errorf("failed to seed testimonials: %w", err)
			}
			slog.Info("seeded testimonials", slog.Int("count", len(testimonials)))
		}
		return nil
	})
}
