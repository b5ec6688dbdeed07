package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"sync"
	"time"

	"github.com/kgn-corner/restaurant-api/models"
)

const defaultEmailTimeout = 10 * time.Second

//go:embed templates/*.html
var templateFS embed.FS

var emailTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// NotificationDispatcher renders emails and sends them in the background.
// Send failures are logged and never reach the caller.
type NotificationDispatcher struct {
	mailer     Mailer
	adminEmail string
	timeout    time.Duration
	wg         sync.WaitGroup

	mu         sync.RWMutex
	restaurant string
}

var notifier = NewNotificationDispatcher(LogMailer{}, "", defaultEmailTimeout)

// NewNotificationDispatcher creates a dispatcher; each send is bounded by timeout
func NewNotificationDispatcher(mailer Mailer, adminEmail string, timeout time.Duration) *NotificationDispatcher {
	if timeout <= 0 {
		timeout = defaultEmailTimeout
	}
	return &NotificationDispatcher{
		mailer:     mailer,
		adminEmail: adminEmail,
		timeout:    timeout,
		restaurant: models.DefaultSettings().Name,
	}
}

// InitNotifier installs the global dispatcher
func InitNotifier(mailer Mailer, adminEmail string, timeout time.Duration) *NotificationDispatcher {
	notifier = NewNotificationDispatcher(mailer, adminEmail, timeout)
	return notifier
}

// GetNotifier returns the global dispatcher
func GetNotifier() *NotificationDispatcher {
	return notifier
}

// SetNotifier sets the global dispatcher (primarily for testing)
func SetNotifier(d *NotificationDispatcher) {
	notifier = d
}

// SetRestaurantName changes the name used in email subjects and bodies
func (d *NotificationDispatcher) SetRestaurantName(name string) {
	if name == "" {
		return
	}
	d.mu.Lock()
	d.restaurant = name
	d.mu.Unlock()
}

// RestaurantName returns the name used in emails
func (d *NotificationDispatcher) RestaurantName() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.restaurant
}

// Wait blocks until every in-flight email has been attempted
func (d *NotificationDispatcher) Wait() {
	d.wg.Wait()
}

// ReservationCreated confirms receipt of a reservation to the guest
func (d *NotificationDispatcher) ReservationCreated(r models.Reservation) {
	d.dispatch("reservation_created.html", "Reservation Received", r.Email,
		map[string]any{"Reservation": r})
}

// ReservationUpdated tells the guest about an admin change to their reservation
func (d *NotificationDispatcher) ReservationUpdated(r models.Reservation) {
	d.dispatch("reservation_updated.html", fmt.Sprintf("Reservation %s", r.Status), r.Email,
		map[string]any{"Reservation": r})
}

// ReservationCancelled confirms a cancellation to the guest
func (d *NotificationDispatcher) ReservationCancelled(r models.Reservation) {
	d.dispatch("reservation_cancelled.html", "Reservation Cancelled", r.Email,
		map[string]any{"Reservation": r})
}

// ContactReceived acknowledges a submission to the sender and alerts the admin inbox
func (d *NotificationDispatcher) ContactReceived(c models.ContactSubmission) {
	d.dispatch("contact_received.html", "We received your message", c.Email,
		map[string]any{"Contact": c})
	if d.adminEmail != "" {
		d.dispatch("contact_admin.html", fmt.Sprintf("New contact submission: %s", c.Subject), d.adminEmail,
			map[string]any{"Contact": c})
	}
}

// ContactResponded sends the admin's reply to the original sender
func (d *NotificationDispatcher) ContactResponded(c models.ContactSubmission) {
	response := ""
	if c.Response != nil {
		response = *c.Response
	}
	d.dispatch("contact_response.html", fmt.Sprintf("Re: %s", c.Subject), c.Email,
		map[string]any{"Contact": c, "Response": response})
}

// OrderPlaced sends the customer a receipt for a new order
func (d *NotificationDispatcher) OrderPlaced(o models.Order) {
	d.dispatch("order_placed.html", fmt.Sprintf("Order %s received", o.OrderNumber), o.CustomerEmail,
		map[string]any{"Order": o})
}

func (d *NotificationDispatcher) dispatch(templateName, subject, to string, data map[string]any) {
	if to == "" {
		return
	}
	restaurant := d.RestaurantName()
	data["Restaurant"] = restaurant

	var body bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&body, templateName, data); err != nil {
		slog.Error("failed to render email",
			slog.String("template", templateName),
			slog.String("error", err.Error()),
		)
		return
	}

	msg := EmailMessage{
		To:      []string{to},
		Subject: fmt.Sprintf("%s - %s", subject, restaurant),
		HTML:    body.String(),
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.mailer.Send(ctx, msg); err != nil {
			slog.Error("failed to send email",
				slog.String("template", templateName),
				slog.String("to", to),
				slog.String("error", err.Error()),
			)
			return
		}
		slog.Debug("email sent", slog.String("template", templateName), slog.String("to", to))
	}()
}
