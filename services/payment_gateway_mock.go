package services

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockPaymentGateway is a testify mock of PaymentGateway
type MockPaymentGateway struct {
	mock.Mock
}

// NewMockPaymentGateway creates a new mock gateway
func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{}
}

// SetAsMockForTesting sets this mock as the global payment gateway
func (m *MockPaymentGateway) SetAsMockForTesting() {
	SetPaymentGateway(m)
}

func (m *MockPaymentGateway) CreatePaymentIntent(ctx context.Context, params IntentParams) (*PaymentIntent, error) {
	args := m.Called(ctx, params)
	intent, _ := args.Get(0).(*PaymentIntent)
	return intent, args.Error(1)
}

func (m *MockPaymentGateway) RetrievePaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	args := m.Called(ctx, id)
	intent, _ := args.Get(0).(*PaymentIntent)
	return intent, args.Error(1)
}
