package services

import (
	"context"
	"fmt"

	"github.com/kgn-corner/restaurant-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartLine is one requested line of an order
type CartLine struct {
	MenuItemID          uint   `json:"menuItemId" binding:"required"`
	Quantity            int    `json:"quantity" binding:"required,gte=1"`
	SpecialInstructions string `json:"specialInstructions"`
}

// Rates are the settings-driven inputs to pricing
type Rates struct {
	TaxRate     decimal.Decimal
	DeliveryFee decimal.Decimal
}

// Totals is the priced breakdown of a cart
type Totals struct {
	Subtotal    decimal.Decimal
	Tax         decimal.Decimal
	DeliveryFee decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal
}

// RatesFrom extracts pricing rates from the settings singleton
func RatesFrom(s *models.RestaurantSettings) Rates {
	return Rates{TaxRate: s.TaxRate, DeliveryFee: s.DeliveryFee}
}

// ComputeTotals prices already-snapshotted lines.
// Tax is rounded to cents half away from zero; the delivery fee only applies
// to delivery orders and no discount rules exist.
func ComputeTotals(lines []models.OrderItem, orderType string, rates Rates) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal())
	}
	subtotal = models.Money(subtotal)

	tax := subtotal.Mul(rates.TaxRate).Round(2)

	fee := decimal.Zero
	if orderType == models.OrderTypeDelivery {
		fee = models.Money(rates.DeliveryFee)
	}

	discount := decimal.Zero
	return Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		DeliveryFee: fee,
		Discount:    discount,
		Total:       subtotal.Add(tax).Add(fee).Sub(discount),
	}
}

// PriceCart resolves every cart line against the current menu in a single
// query and snapshots name and price onto order lines.
func PriceCart(ctx context.Context, db *gorm.DB, cart []CartLine, orderType string, rates Rates) ([]models.OrderItem, Totals, error) {
	if len(cart) == 0 {
		return nil, Totals{}, ValidationError("VALIDATION_ERROR", "Order must contain at least one item")
	}

	ids := make([]uint, 0, len(cart))
	for _, line := range cart {
		if line.Quantity < 1 {
			return nil, Totals{}, ValidationError("VALIDATION_ERROR", "Quantity must be at least 1")
		}
		ids = append(ids, line.MenuItemID)
	}

	var items []models.MenuItem
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, Totals{}, fmt.Errorf("failed to load menu items: %w", err)
	}
	byID := make(map[uint]models.MenuItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}

	lines := make([]models.OrderItem, 0, len(cart))
	for _, line := range cart {
		item, ok := byID[line.MenuItemID]
		if !ok {
			return nil, Totals{}, NotFoundError("MENU_ITEM_NOT_FOUND", fmt.Sprintf("Menu item not found: %d", line.MenuItemID))
		}
		if !item.IsAvailable {
			return nil, Totals{}, ValidationError("MENU_ITEM_UNAVAILABLE", fmt.Sprintf("Menu item is not available: %s", item.Name))
		}
		lines = append(lines, models.OrderItem{
			MenuItemID:          item.ID,
			Name:                item.Name,
			Price:               item.Price,
			Quantity:            line.Quantity,
			SpecialInstructions: line.SpecialInstructions,
		})
	}

	return lines, ComputeTotals(lines, orderType, rates), nil
}
