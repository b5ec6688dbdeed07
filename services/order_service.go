package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kgn-corner/restaurant-api/models"
	"gorm.io/gorm"
)

const maxOrderNumberAttempts = 3

// newOrderNumber builds ORD-<yyyymmdd>-<8 hex chars>; replaceable in tests
var newOrderNumber = func(now time.Time) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return fmt.Sprintf("ORD-%s-%s", now.UTC().Format("20060102"), strings.ToUpper(id[:8]))
}

// CreateOrderInput is the client-supplied part of an order.
// Prices, totals and statuses are never taken from the client.
type CreateOrderInput struct {
	CustomerName    string     `json:"customerName" binding:"required"`
	CustomerEmail   string     `json:"customerEmail" binding:"required,email"`
	CustomerPhone   string     `json:"customerPhone" binding:"required"`
	Items           []CartLine `json:"items" binding:"required,min=1,dive"`
	OrderType       string     `json:"orderType"`
	PaymentMethod   string     `json:"paymentMethod"`
	DeliveryAddress string     `json:"deliveryAddress"`
	Notes           string     `json:"notes"`
}

// UpdateOrderInput is an admin change to an order; nil fields are left untouched
type UpdateOrderInput struct {
	Status        *models.OrderStatus   `json:"status"`
	PaymentStatus *models.PaymentStatus `json:"paymentStatus"`
	EstimatedTime *time.Time            `json:"estimatedTime"`
	Notes         *string               `json:"notes"`
}

// OrderFilter narrows the admin order listing
type OrderFilter struct {
	Status    string
	StartDate string
	EndDate   string
}

// CreateOrder prices the cart server-side and stores the order and its lines
// in one transaction. actor is nil for guest checkout.
func CreateOrder(ctx context.Context, db *gorm.DB, actor *models.User, in CreateOrderInput) (*models.Order, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}

	settings, err := GetSettings(ctx, db)
	if err != nil {
		return nil, err
	}
	if err := checkOrderFeatures(settings.Features.Data(), in.OrderType); err != nil {
		return nil, err
	}

	lines, totals, err := PriceCart(ctx, db, in.Items, in.OrderType, RatesFrom(settings))
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerName:  in.CustomerName,
		CustomerEmail: in.CustomerEmail,
		CustomerPhone: in.CustomerPhone,
		Subtotal:      totals.Subtotal,
		Tax:           totals.Tax,
		DeliveryFee:   totals.DeliveryFee,
		Discount:      totals.Discount,
		Total:         totals.Total,
		Status:        models.OrderPending,
		PaymentStatus: models.PaymentPending,
		PaymentMethod: in.PaymentMethod,
		OrderType:     in.OrderType,
		Notes:         in.Notes,
		Version:       1,
	}
	if actor != nil {
		order.UserID = &actor.ID
	}
	if in.OrderType == models.OrderTypeDelivery {
		address := in.DeliveryAddress
		order.DeliveryAddress = &address
	}

	for attempt := 1; ; attempt++ {
		order.ID = 0
		order.OrderNumber = newOrderNumber(time.Now())
		order.Items = cloneLines(lines)

		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return tx.Create(order).Error
		})
		if err == nil {
			break
		}
		if isUniqueViolation(err) && attempt < maxOrderNumberAttempts {
			slog.WarnContext(ctx, "order number collision, regenerating",
				slog.String("orderNumber", order.OrderNumber),
				slog.Int("attempt", attempt),
			)
			continue
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	GetNotifier().OrderPlaced(*order)
	return order, nil
}

func cloneLines(lines []models.OrderItem) []models.OrderItem {
	out := make([]models.OrderItem, len(lines))
	copy(out, lines)
	return out
}

func (in *CreateOrderInput) normalize() error {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.ToLower(strings.TrimSpace(in.CustomerEmail))
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
	in.DeliveryAddress = strings.TrimSpace(in.DeliveryAddress)

	if in.CustomerName == "" || in.CustomerEmail == "" || in.CustomerPhone == "" {
		return ValidationError("VALIDATION_ERROR", "Customer name, email and phone are required")
	}
	if len(in.Items) == 0 {
		return ValidationError("VALIDATION_ERROR", "Order must contain at least one item")
	}

	if in.OrderType == "" {
		in.OrderType = models.OrderTypeDineIn
	}
	switch in.OrderType {
	case models.OrderTypeDineIn, models.OrderTypePickup:
	case models.OrderTypeDelivery:
		if in.DeliveryAddress == "" {
			return ValidationError("VALIDATION_ERROR", "Delivery address is required for delivery orders")
		}
	default:
		return ValidationError("VALIDATION_ERROR", fmt.Sprintf("Invalid order type: %s", in.OrderType))
	}

	if in.PaymentMethod == "" {
		in.PaymentMethod = models.PaymentMethodCard
	}
	switch in.PaymentMethod {
	case models.PaymentMethodCard, models.PaymentMethodCash, models.PaymentMethodOnline:
	default:
		return ValidationError("VALIDATION_ERROR", fmt.Sprintf("Invalid payment method: %s", in.PaymentMethod))
	}
	return nil
}

func checkOrderFeatures(f models.Features, orderType string) error {
	if !f.EnableOnlineOrdering {
		return ValidationError("FEATURE_DISABLED", "Online ordering is currently disabled")
	}
	if orderType == models.OrderTypeDelivery && !f.EnableDelivery {
		return ValidationError("FEATURE_DISABLED", "Delivery is currently unavailable")
	}
	if orderType == models.OrderTypePickup && !f.EnablePickup {
		return ValidationError("FEATURE_DISABLED", "Pickup is currently unavailable")
	}
	return nil
}

// ListOrders returns all orders matching filter, newest first
func ListOrders(ctx context.Context, db *gorm.DB, filter OrderFilter) ([]models.Order, error) {
	query := db.WithContext(ctx).Preload("Items").Order("created_at DESC, id DESC")

	if filter.Status != "" {
		if !models.OrderStatus(filter.Status).Valid() {
			return nil, ValidationError("VALIDATION_ERROR", fmt.Sprintf("Invalid status: %s", filter.Status))
		}
		query = query.Where("status = ?", filter.Status)
	}

	start, end, err := ParseDateRange(filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}
	if start != nil {
		query = query.Where("created_at >= ?", *start)
	}
	if end != nil {
		query = query.Where("created_at < ?", *end)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListUserOrders returns the orders owned by userID, newest first
func ListUserOrders(ctx context.Context, db *gorm.DB, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := db.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user orders: %w", err)
	}
	return orders, nil
}

// GetOrder loads an order visible to actor: admins see every order,
// other users only their own.
func GetOrder(ctx context.Context, db *gorm.DB, actor *models.User, id uint) (*models.Order, error) {
	query := db.WithContext(ctx).Preload("Items").Where("id = ?", id)
	if actor == nil {
		return nil, UnauthorizedError("UNAUTHORIZED", "Authentication required")
	}
	if !actor.IsAdmin() {
		query = query.Where("user_id = ?", actor.ID)
	}

	var order models.Order
	if err := query.First(&order).Error; err != nil {
		if isNotFound(err) {
			return nil, NotFoundError("ORDER_NOT_FOUND", "Order not found")
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	return &order, nil
}

// UpdateOrder applies an admin change. Status changes follow the transition
// table and the write only succeeds if nobody changed the order since it was read.
func UpdateOrder(ctx context.Context, db *gorm.DB, id uint, in UpdateOrderInput) (*models.Order, error) {
	var order models.Order
	if err := db.WithContext(ctx).First(&order, id).Error; err != nil {
		if isNotFound(err) {
			return nil, NotFoundError("ORDER_NOT_FOUND", "Order not found")
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	updates := map[string]interface{}{}
	if in.Status != nil && *in.Status != order.Status {
		if !in.Status.Valid() {
			return nil, ValidationError("VALIDATION_ERROR", fmt.Sprintf("Invalid status: %s", *in.Status))
		}
		if !order.Status.CanTransitionTo(*in.Status) {
			return nil, ConflictError("INVALID_STATUS_TRANSITION",
				fmt.Sprintf("Cannot change order status from %s to %s", order.Status, *in.Status))
		}
		updates["status"] = *in.Status
	}
	if in.PaymentStatus != nil && *in.PaymentStatus != order.PaymentStatus {
		if !in.PaymentStatus.Valid() {
			return nil, ValidationError("VALIDATION_ERROR", fmt.Sprintf("Invalid payment status: %s", *in.PaymentStatus))
		}
		if !order.PaymentStatus.CanTransitionTo(*in.PaymentStatus) {
			return nil, ConflictError("INVALID_STATUS_TRANSITION",
				fmt.Sprintf("Cannot change payment status from %s to %s", order.PaymentStatus, *in.PaymentStatus))
		}
		updates["payment_status"] = *in.PaymentStatus
	}
	if in.EstimatedTime != nil {
		updates["estimated_time"] = *in.EstimatedTime
	}
	if in.Notes != nil {
		updates["notes"] = strings.TrimSpace(*in.Notes)
	}

	if len(updates) > 0 {
		if err := guardedOrderUpdate(ctx, db, order.ID, order.Version, updates); err != nil {
			return nil, err
		}
	}

	return reloadOrder(ctx, db, order.ID)
}

// guardedOrderUpdate writes updates only if the row still carries version
func guardedOrderUpdate(ctx context.Context, db *gorm.DB, id uint, version int, updates map[string]interface{}) error {
	updates["version"] = gorm.Expr("version + 1")
	updates["updated_at"] = time.Now()

	result := db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update order: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ConflictError("ORDER_MODIFIED", "Order was modified by another request, please retry")
	}
	return nil
}

func reloadOrder(ctx context.Context, db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := db.WithContext(ctx).Preload("Items").First(&order, id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}
	return &order, nil
}

// DeleteOrder removes an order and its lines
func DeleteOrder(ctx context.Context, db *gorm.DB, id uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("failed to delete order items: %w", err)
		}
		result := tx.Delete(&models.Order{}, id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete order: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return NotFoundError("ORDER_NOT_FOUND", "Order not found")
		}
		return nil
	})
}

// ParseDateRange parses optional YYYY-MM-DD or RFC3339 bounds.
// A date-only end bound covers that whole day.
func ParseDateRange(startDate, endDate string) (start, end *time.Time, err error) {
	if startDate != "" {
		t, _, perr := parseDateBound(startDate)
		if perr != nil {
			return nil, nil, ValidationError("VALIDATION_ERROR", fmt.Sprintf("Invalid startDate: %s", startDate))
		}
		start = &t
	}
	if endDate != "" {
		t, dateOnly, perr := parseDateBound(endDate)
		if perr != nil {
			return nil, nil, ValidationError("VALIDATION_ERROR", fmt.Sprintf("Invalid endDate: %s", endDate))
		}
		if dateOnly {
			t = t.AddDate(0, 0, 1)
		} else {
			t = t.Add(time.Nanosecond)
		}
		end = &t
	}
	if start != nil && end != nil && !start.Before(*end) {
		return nil, nil, ValidationError("VALIDATION_ERROR", "startDate must be before endDate")
	}
	return start, end, nil
}

func parseDateBound(value string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	return t, false, err
}
