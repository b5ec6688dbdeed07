package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// Stripe PaymentIntent statuses used by the payment flow
const (
	IntentSucceeded             = "succeeded"
	IntentRequiresPaymentMethod = "requires_payment_method"
	IntentRequiresAction        = "requires_action"
	IntentProcessing            = "processing"
	IntentCanceled              = "canceled"
)

// PaymentIntent is the subset of the provider's payment intent used here
type PaymentIntent struct {
	ID               string            `json:"id"`
	Amount           int64             `json:"amount"`
	Currency         string            `json:"currency"`
	Status           string            `json:"status"`
	ClientSecret     string            `json:"client_secret"`
	Metadata         map[string]string `json:"metadata"`
	LastPaymentError *StripeError      `json:"last_payment_error"`
}

// IntentParams describes a payment intent to create
type IntentParams struct {
	Amount         int64
	Currency       string
	Description    string
	ReceiptEmail   string
	Metadata       map[string]string
	IdempotencyKey string

	// PaymentMethod or CardToken confirm the intent server-side in the same call
	PaymentMethod string
	CardToken     string
}

// PaymentGateway is the payment provider seam
type PaymentGateway interface {
	CreatePaymentIntent(ctx context.Context, params IntentParams) (*PaymentIntent, error)
	RetrievePaymentIntent(ctx context.Context, id string) (*PaymentIntent, error)
}

// StripeError is the provider's error object
type StripeError struct {
	Type        string `json:"type"`
	Code        string `json:"code"`
	DeclineCode string `json:"decline_code"`
	Message     string `json:"message"`
}

func (e *StripeError) Error() string {
	if e.DeclineCode != "" {
		return fmt.Sprintf("stripe %s (%s): %s", e.Type, e.DeclineCode, e.Message)
	}
	return fmt.Sprintf("stripe %s: %s", e.Type, e.Message)
}

type stripeErrorResponse struct {
	Error *StripeError `json:"error"`
}

// ErrGatewayNotConfigured is returned when no provider key is configured
var ErrGatewayNotConfigured = errors.New("payment provider is not configured")

// StripeGateway talks to the Stripe REST API over resty
type StripeGateway struct {
	client *resty.Client
}

var gatewayInstance PaymentGateway

// NewStripeGateway creates a gateway for baseURL authenticated with secretKey.
// Each request is bounded by timeout in addition to the caller's context.
func NewStripeGateway(secretKey, baseURL string, timeout time.Duration) *StripeGateway {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(secretKey).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &StripeGateway{client: client}
}

// InitPaymentGateway installs the global gateway
func InitPaymentGateway(secretKey, baseURL string, timeout time.Duration) PaymentGateway {
	if secretKey == "" {
		gatewayInstance = unconfiguredGateway{}
		return gatewayInstance
	}
	gatewayInstance = NewStripeGateway(secretKey, baseURL, timeout)
	return gatewayInstance
}

// GetPaymentGateway returns the global gateway
func GetPaymentGateway() PaymentGateway {
	if gatewayInstance == nil {
		return unconfiguredGateway{}
	}
	return gatewayInstance
}

// SetPaymentGateway sets the global gateway (primarily for testing)
func SetPaymentGateway(g PaymentGateway) {
	gatewayInstance = g
}

// CreatePaymentIntent creates, and when a payment method is given confirms, a payment intent
func (g *StripeGateway) CreatePaymentIntent(ctx context.Context, params IntentParams) (*PaymentIntent, error) {
	form := map[string]string{
		"amount":   strconv.FormatInt(params.Amount, 10),
		"currency": params.Currency,
	}
	if params.Description != "" {
		form["description"] = params.Description
	}
	if params.ReceiptEmail != "" {
		form["receipt_email"] = params.ReceiptEmail
	}
	for k, v := range params.Metadata {
		form["metadata["+k+"]"] = v
	}

	switch {
	case params.PaymentMethod != "":
		form["payment_method"] = params.PaymentMethod
		form["confirm"] = "true"
		form["automatic_payment_methods[enabled]"] = "true"
		form["automatic_payment_methods[allow_redirects]"] = "never"
	case params.CardToken != "":
		form["payment_method_data[type]"] = "card"
		form["payment_method_data[card][token]"] = params.CardToken
		form["confirm"] = "true"
		form["payment_method_types[]"] = "card"
	default:
		form["automatic_payment_methods[enabled]"] = "true"
	}

	req := g.client.R().SetContext(ctx).SetFormData(form)
	if params.IdempotencyKey != "" {
		req.SetHeader("Idempotency-Key", params.IdempotencyKey)
	}
	return g.do(req, resty.MethodPost, "/v1/payment_intents")
}

// RetrievePaymentIntent fetches a payment intent by id
func (g *StripeGateway) RetrievePaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	req := g.client.R().SetContext(ctx).SetPathParam("id", id)
	return g.do(req, resty.MethodGet, "/v1/payment_intents/{id}")
}

func (g *StripeGateway) do(req *resty.Request, method, path string) (*PaymentIntent, error) {
	var intent PaymentIntent
	var apiErr stripeErrorResponse

	resp, err := req.SetResult(&intent).SetError(&apiErr).Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("payment provider request failed: %w", err)
	}
	if resp.IsError() {
		if apiErr.Error != nil {
			return nil, apiErr.Error
		}
		return nil, fmt.Errorf("payment provider returned status %d", resp.StatusCode())
	}
	return &intent, nil
}

type unconfiguredGateway struct{}

func (unconfiguredGateway) CreatePaymentIntent(context.Context, IntentParams) (*PaymentIntent, error) {
	return nil, ErrGatewayNotConfigured
}

func (unconfiguredGateway) RetrievePaymentIntent(context.Context, string) (*PaymentIntent, error) {
	return nil, ErrGatewayNotConfigured
}
