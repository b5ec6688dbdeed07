package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/kgn-corner/restaurant-api/models"
	"github.com/kgn-corner/restaurant-api/utils"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MenuFilter narrows the public menu listing
type MenuFilter struct {
	Category  string
	Available *bool
}

// MenuItemInput creates or edits a menu item; nil fields keep their value
type MenuItemInput struct {
	Name                 *string          `json:"name"`
	Description          *string          `json:"description"`
	Price                *decimal.Decimal `json:"price"`
	Category             *string          `json:"category"`
	Image                *string          `json:"image"`
	IsAvailable          *bool            `json:"isAvailable"`
	DietaryTags          *[]string        `json:"isDietaryFriendly"`
	IsChefRecommendation *bool            `json:"isChefRecommendation"`
	Calories             *int             `json:"calories"`
	PreparationTime      *int             `json:"preparationTime"`
}

func (f MenuFilter) cacheKey() string {
	available := "any"
	if f.Available != nil {
		available = strconv.FormatBool(*f.Available)
	}
	return fmt.Sprintf("list:%s:%s", f.Category, available)
}

// ListMenu returns menu items sorted by category then name
func ListMenu(ctx context.Context, db *gorm.DB, filter MenuFilter) ([]models.MenuItem, error) {
	if filter.Category != "" && !models.ValidCategory(filter.Category) {
		return nil, ValidationError("VALIDATION_ERROR", fmt.Sprintf("Invalid category: %s", filter.Category))
	}

	return cachedMenu(ctx, filter.cacheKey(), func() ([]models.MenuItem, error) {
		query := db.WithContext(ctx).Order("category ASC, name ASC")
		if filter.Category != "" {
			query = query.Where("category = ?", filter.Category)
		}
		if filter.Available != nil {
			query = query.Where("is_available = ?", *filter.Available)
		}

		var items []models.MenuItem
		if err := query.Find(&items).Error; err != nil {
			return nil, fmt.Errorf("failed to list menu items: %w", err)
		}
		return items, nil
	})
}

// ListRecommendations returns available chef recommendations
func ListRecommendations(ctx context.Context, db *gorm.DB) ([]models.MenuItem, error) {
	return cachedMenu(ctx, "recommendations", func() ([]models.MenuItem, error) {
		var items []models.MenuItem
		err := db.WithContext(ctx).
			Where("is_chef_recommendation = ? AND is_available = ?", true, true).
			Order("category ASC, name ASC").
			Find(&items).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list recommendations: %w", err)
		}
		return items, nil
	})
}

func cachedMenu(ctx context.Context, key string, load func() ([]models.MenuItem, error)) ([]models.MenuItem, error) {
	cache := GetMenuCache()

	var items []models.MenuItem
	gen, hit, cacheErr := cache.Get(ctx, key, &items)
	if cacheErr != nil {
		slog.WarnContext(ctx, "menu cache read failed", slog.String("key", key), slog.String("error", cacheErr.Error()))
	}
	if hit {
		return items, nil
	}

	items, err := load()
	if err != nil {
		return nil, err
	}
	attachImageURLs(ctx, items)

	if cacheErr != nil {
		return items, nil
	}
	if err := cache.Set(ctx, gen, key, items); err != nil {
		slog.WarnContext(ctx, "menu cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return items, nil
}

// GetMenuItem loads one menu item
func GetMenuItem(ctx context.Context, db *gorm.DB, id uint) (*models.MenuItem, error) {
	item, err := findMenuItem(ctx, db, id)
	if err != nil {
		return nil, err
	}
	attachImageURL(ctx, item)
	return item, nil
}

func findMenuItem(ctx context.Context, db *gorm.DB, id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := db.WithContext(ctx).First(&item, id).Error; err != nil {
		if isNotFound(err) {
			return nil, NotFoundError("MENU_ITEM_NOT_FOUND", "Menu item not found")
		}
		return nil, fmt.Errorf("failed to load menu item: %w", err)
	}
	return &item, nil
}

// CreateMenuItem adds a dish; it is available with a 15 minute preparation time unless told otherwise
func CreateMenuItem(ctx context.Context, db *gorm.DB, in MenuItemInput) (*models.MenuItem, error) {
	item := &models.MenuItem{
		IsAvailable:     true,
		PreparationTime: models.DefaultPreparationTime,
		DietaryTags:     datatypes.JSONSlice[string]{},
	}
	if err := applyMenuItem(item, in); err != nil {
		return nil, err
	}
	if item.Name == "" || item.Description == "" || in.Price == nil || item.Category == "" {
		return nil, ValidationError("VALIDATION_ERROR", "Name, description, price and category are required")
	}

	if err := db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}
	invalidateMenuCache(ctx)
	return item, nil
}

// UpdateMenuItem edits a dish
func UpdateMenuItem(ctx context.Context, db *gorm.DB, id uint, in MenuItemInput) (*models.MenuItem, error) {
	item, err := findMenuItem(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if err := applyMenuItem(item, in); err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	invalidateMenuCache(ctx)
	attachImageURL(ctx, item)
	return item, nil
}

// DeleteMenuItem removes a dish and its stored image. Existing orders keep
// their name and price snapshots.
func DeleteMenuItem(ctx context.Context, db *gorm.DB, id uint) error {
	item, err := findMenuItem(ctx, db, id)
	if err != nil {
		return err
	}
	if err := db.WithContext(ctx).Delete(item).Error; err != nil {
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	invalidateMenuCache(ctx)

	if item.ImageKey != nil {
		deleteStoredImage(ctx, *item.ImageKey)
	}
	return nil
}

// UploadMenuImage stores a new image for a dish and replaces the previous one
func UploadMenuImage(ctx context.Context, db *gorm.DB, id uint, fileHeader *multipart.FileHeader) (*models.MenuItem, error) {
	images := GetImageService()
	if images == nil {
		return nil, UnavailableError("STORAGE_UNAVAILABLE", "Image storage is not configured")
	}

	item, err := findMenuItem(ctx, db, id)
	if err != nil {
		return nil, err
	}

	key, err := images.UploadMenuImage(ctx, item.ID, fileHeader)
	if err != nil {
		if uploadErr, ok := err.(*utils.FileUploadError); ok {
			return nil, ValidationError(uploadErr.Code, uploadErr.Message)
		}
		return nil, fmt.Errorf("failed to upload menu image: %w", err)
	}

	previous := item.ImageKey
	if err := db.WithContext(ctx).Model(item).Update("image_key", key).Error; err != nil {
		deleteStoredImage(ctx, key)
		return nil, fmt.Errorf("failed to save menu image: %w", err)
	}
	item.ImageKey = &key
	invalidateMenuCache(ctx)

	if previous != nil && *previous != key {
		deleteStoredImage(ctx, *previous)
	}
	attachImageURL(ctx, item)
	return item, nil
}

func deleteStoredImage(ctx context.Context, key string) {
	images := GetImageService()
	if images == nil {
		return
	}
	if err := images.DeleteImage(ctx, key); err != nil {
		slog.WarnContext(ctx, "failed to delete menu image", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func attachImageURLs(ctx context.Context, items []models.MenuItem) {
	for i := range items {
		attachImageURL(ctx, &items[i])
	}
}

func attachImageURL(ctx context.Context, item *models.MenuItem) {
	images := GetImageService()
	if images == nil || item.ImageKey == nil || *item.ImageKey == "" {
		return
	}
	url, err := images.GetImageURL(ctx, *item.ImageKey)
	if err != nil {
		slog.WarnContext(ctx, "failed to presign menu image", slog.Uint64("menuItemId", uint64(item.ID)), slog.String("error", err.Error()))
		return
	}
	item.ImageURL = &url
}

func applyMenuItem(item *models.MenuItem, in MenuItemInput) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return ValidationError("VALIDATION_ERROR", "Name cannot be empty")
		}
		item.Name = name
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if desc == "" {
			return ValidationError("VALIDATION_ERROR", "Description cannot be empty")
		}
		item.Description = desc
	}
	if in.Price != nil {
		if in.Price.IsNegative() {
			return ValidationError("VALIDATION_ERROR", "Price cannot be negative")
		}
		item.Price = models.Money(*in.Price)
	}
	if in.Category != nil {
		if !models.ValidCategory(*in.Category) {
			return ValidationError("VALIDATION_ERROR", fmt.Sprintf("Invalid category: %s", *in.Category))
		}
		item.Category = *in.Category
	}
	if in.Image != nil {
		item.Image = strings.TrimSpace(*in.Image)
	}
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	if in.DietaryTags != nil {
		tags := datatypes.JSONSlice[string]{}
		for _, tag := range *in.DietaryTags {
			if !models.ValidDietaryTag(tag) {
				return ValidationError("VALIDATION_ERROR", fmt.Sprintf("Invalid dietary tag: %s", tag))
			}
			tags = append(tags, tag)
		}
		item.DietaryTags = tags
	}
	if in.IsChefRecommendation != nil {
		item.IsChefRecommendation = *in.IsChefRecommendation
	}
	if in.Calories != nil {
		if *in.Calories < 0 {
			return ValidationError("VALIDATION_ERROR", "Calories cannot be negative")
		}
		item.Calories = in.Calories
	}
	if in.PreparationTime != nil {
		if *in.PreparationTime < 0 {
			return ValidationError("VALIDATION_ERROR", "Preparation time cannot be negative")
		}
		item.PreparationTime = *in.PreparationTime
	}
	return nil
}
