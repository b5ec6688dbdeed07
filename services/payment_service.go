package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/kgn-corner/restaurant-api/config"
	"github.com/kgn-corner/restaurant-api/models"
	"gorm.io/gorm"
)

const (
	defaultPaymentTimeout  = 15 * time.Second
	defaultPaymentCurrency = "usd"
)

// PaymentInput carries exactly one way of paying: a client-confirmed intent,
// a payment method to charge server-side, or a legacy card token
type PaymentInput struct {
	PaymentIntentID string `json:"paymentIntentId"`
	PaymentMethodID string `json:"paymentMethodId"`
	StripeToken     string `json:"stripeToken"`
}

// PaymentIntentResult is returned to the client to confirm the payment in the browser
type PaymentIntentResult struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}

func paymentOptions() (currency string, timeout time.Duration) {
	currency, timeout = defaultPaymentCurrency, defaultPaymentTimeout
	if cfg := config.GetConfig(); cfg != nil {
		if cfg.PaymentCurrency != "" {
			currency = cfg.PaymentCurrency
		}
		if cfg.PaymentTimeout > 0 {
			timeout = cfg.PaymentTimeout
		}
	}
	return currency, timeout
}

// CreatePaymentIntent opens a provider payment intent for the order total.
// Repeated calls for the same order return the same intent.
func CreatePaymentIntent(ctx context.Context, db *gorm.DB, actor *models.User, orderID uint) (*PaymentIntentResult, error) {
	order, err := loadPayableOrder(ctx, db, actor, orderID)
	if err != nil {
		return nil, err
	}

	currency, timeout := paymentOptions()
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	intent, err := GetPaymentGateway().CreatePaymentIntent(callCtx, IntentParams{
		Amount:         order.AmountInMinorUnits(),
		Currency:       currency,
		Description:    fmt.Sprintf("Order %s", order.OrderNumber),
		ReceiptEmail:   order.CustomerEmail,
		Metadata:       orderMetadata(order),
		IdempotencyKey: fmt.Sprintf("order-%d-intent", order.ID),
	})
	if err != nil {
		if errors.Is(err, ErrGatewayNotConfigured) {
			return nil, UnavailableError("PAYMENTS_UNAVAILABLE", "Online payments are not available")
		}
		slog.ErrorContext(ctx, "failed to create payment intent",
			slog.Uint64("orderId", uint64(order.ID)),
			slog.String("error", err.Error()),
		)
		return nil, PaymentFailedError("Unable to start payment, please try again", err)
	}

	err = db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", order.ID).
		Update("payment_reference", intent.ID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to record payment intent: %w", err)
	}

	return &PaymentIntentResult{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Amount:          intent.Amount,
		Currency:        intent.Currency,
	}, nil
}

// ProcessPayment settles an order. On success the order is marked paid and
// confirmed in one update. A decline, provider error or timeout stores
// paymentStatus=failed before the PaymentFailed error is returned; an intent
// that does not match the order is rejected without touching it.
func ProcessPayment(ctx context.Context, db *gorm.DB, actor *models.User, orderID uint, in PaymentInput) (*models.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	order, err := loadPayableOrder(ctx, db, actor, orderID)
	if err != nil {
		return nil, err
	}

	currency, timeout := paymentOptions()
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	gateway := GetPaymentGateway()
	var intent *PaymentIntent
	if in.PaymentIntentID != "" {
		intent, err = gateway.RetrievePaymentIntent(callCtx, in.PaymentIntentID)
		if isMissingIntent(err) {
			return nil, ValidationError("INVALID_PAYMENT_INTENT", "Payment intent not found")
		}
		if err == nil {
			if verr := verifyIntent(ctx, intent, order, currency); verr != nil {
				return nil, verr
			}
			if intent.Status != IntentSucceeded {
				if intent.LastPaymentError == nil {
					return nil, ValidationError("PAYMENT_NOT_COMPLETED", fmt.Sprintf("Payment intent is %s", intent.Status))
				}
				err = intent.LastPaymentError
			}
		}
	} else {
		intent, err = gateway.CreatePaymentIntent(callCtx, IntentParams{
			Amount:         order.AmountInMinorUnits(),
			Currency:       currency,
			Description:    fmt.Sprintf("Order %s", order.OrderNumber),
			ReceiptEmail:   order.CustomerEmail,
			Metadata:       orderMetadata(order),
			PaymentMethod:  in.PaymentMethodID,
			CardToken:      in.StripeToken,
			IdempotencyKey: fmt.Sprintf("order-%d-pay-%d", order.ID, order.Version),
		})
		if err == nil && intent.Status != IntentSucceeded {
			err = intentNotSucceeded(intent)
		}
	}

	if err != nil {
		if errors.Is(err, ErrGatewayNotConfigured) {
			return nil, UnavailableError("PAYMENTS_UNAVAILABLE", "Online payments are not available")
		}
		return nil, failPayment(ctx, db, order, err)
	}

	result := db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND payment_status IN ?", order.ID, []models.PaymentStatus{models.PaymentPending, models.PaymentFailed}).
		Updates(map[string]interface{}{
			"payment_status":    models.PaymentCompleted,
			"payment_reference": intent.ID,
			"status":            gorm.Expr("CASE WHEN status = ? THEN ? ELSE status END", models.OrderPending, models.OrderConfirmed),
			"version":           gorm.Expr("version + 1"),
			"updated_at":        time.Now(),
		})
	if result.Error != nil {
		return nil, fmt.Errorf("failed to record payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ConflictError("ORDER_ALREADY_PAID", "Order has already been paid")
	}

	slog.InfoContext(ctx, "payment completed",
		slog.Uint64("orderId", uint64(order.ID)),
		slog.String("paymentReference", intent.ID),
	)
	return reloadOrder(ctx, db, order.ID)
}

func (in PaymentInput) validate() error {
	given := 0
	for _, v := range []string{in.PaymentIntentID, in.PaymentMethodID, in.StripeToken} {
		if strings.TrimSpace(v) != "" {
			given++
		}
	}
	if given != 1 {
		return ValidationError("VALIDATION_ERROR", "Provide exactly one of paymentIntentId, paymentMethodId or stripeToken")
	}
	return nil
}

// loadPayableOrder applies the payment ownership rule: admins may pay any
// order, other users their own or guest orders
func loadPayableOrder(ctx context.Context, db *gorm.DB, actor *models.User, orderID uint) (*models.Order, error) {
	if actor == nil {
		return nil, UnauthorizedError("UNAUTHORIZED", "Authentication required")
	}

	settings, err := GetSettings(ctx, db)
	if err != nil {
		return nil, err
	}
	if !settings.Features.Data().EnablePayments {
		return nil, ValidationError("FEATURE_DISABLED", "Online payments are currently disabled")
	}

	query := db.WithContext(ctx).Where("id = ?", orderID)
	if !actor.IsAdmin() {
		query = query.Where("user_id = ? OR user_id IS NULL", actor.ID)
	}

	var order models.Order
	if err := query.First(&order).Error; err != nil {
		if isNotFound(err) {
			return nil, NotFoundError("ORDER_NOT_FOUND", "Order not found")
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	switch {
	case order.PaymentStatus == models.PaymentCompleted || order.PaymentStatus == models.PaymentRefunded:
		return nil, ConflictError("ORDER_ALREADY_PAID", "Order has already been paid")
	case order.Status == models.OrderCancelled:
		return nil, ConflictError("ORDER_CANCELLED", "Cannot pay for a cancelled order")
	}
	return &order, nil
}

func orderMetadata(order *models.Order) map[string]string {
	return map[string]string{
		"order_id":     strconv.FormatUint(uint64(order.ID), 10),
		"order_number": order.OrderNumber,
	}
}

// verifyIntent checks that a client-supplied intent was created for this order.
// A mismatch leaves the order untouched.
func verifyIntent(ctx context.Context, intent *PaymentIntent, order *models.Order, currency string) error {
	if intent.Metadata["order_id"] != strconv.FormatUint(uint64(order.ID), 10) {
		slog.WarnContext(ctx, "payment intent belongs to another order",
			slog.Uint64("orderId", uint64(order.ID)),
			slog.String("paymentIntentId", intent.ID),
		)
		return ValidationError("INVALID_PAYMENT_INTENT", "Payment intent does not belong to this order")
	}
	if intent.Amount != order.AmountInMinorUnits() || !strings.EqualFold(intent.Currency, currency) {
		slog.WarnContext(ctx, "payment intent amount does not match order",
			slog.Uint64("orderId", uint64(order.ID)),
			slog.String("paymentIntentId", intent.ID),
			slog.Int64("amount", intent.Amount),
			slog.String("currency", intent.Currency),
		)
		return ValidationError("INVALID_PAYMENT_INTENT", "Payment intent does not match the order total")
	}
	return nil
}

// isMissingIntent reports whether the provider does not know the intent id
func isMissingIntent(err error) bool {
	var stripeErr *StripeError
	return errors.As(err, &stripeErr) && stripeErr.Code == "resource_missing"
}

func intentNotSucceeded(intent *PaymentIntent) error {
	if intent.LastPaymentError != nil {
		return intent.LastPaymentError
	}
	return fmt.Errorf("payment intent %s is %s", intent.ID, intent.Status)
}

// failPayment stores the failed attempt, even when the request context has
// expired, and returns the client-facing error
func failPayment(ctx context.Context, db *gorm.DB, order *models.Order, cause error) error {
	slog.WarnContext(ctx, "payment failed",
		slog.Uint64("orderId", uint64(order.ID)),
		slog.String("error", cause.Error()),
	)

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	err := db.WithContext(writeCtx).Model(&models.Order{}).
		Where("id = ? AND payment_status IN ?", order.ID, []models.PaymentStatus{models.PaymentPending, models.PaymentFailed}).
		Updates(map[string]interface{}{
			"payment_status": models.PaymentFailed,
			"version":        gorm.Expr("version + 1"),
			"updated_at":     time.Now(),
		}).Error
	if err != nil {
		slog.ErrorContext(ctx, "failed to record failed payment",
			slog.Uint64("orderId", uint64(order.ID)),
			slog.String("error", err.Error()),
		)
	}

	message := "Payment failed, please try again"
	var stripeErr *StripeError
	switch {
	case errors.As(cause, &stripeErr) && stripeErr.Type == "card_error" && stripeErr.Message != "":
		message = stripeErr.Message
	case errors.Is(cause, context.DeadlineExceeded):
		message = "Payment timed out, please try again"
	}
	return PaymentFailedError(message, cause)
}
