package services

import (
	"context"
	"sync"
)

// MockMailer records sent emails for testing
type MockMailer struct {
	sent []EmailMessage
	err  error
	mu   sync.Mutex
}

// NewMockMailer creates a new recording mailer
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// SetAsMockForTesting installs a dispatcher backed by this mailer as the global notifier
func (m *MockMailer) SetAsMockForTesting(adminEmail string) *NotificationDispatcher {
	d := NewNotificationDispatcher(m, adminEmail, defaultEmailTimeout)
	SetNotifier(d)
	return d
}

// FailWith makes every subsequent Send return err
func (m *MockMailer) FailWith(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

// Send records msg, or returns the configured error
func (m *MockMailer) Send(_ context.Context, msg EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

// Sent returns a copy of all recorded emails
func (m *MockMailer) Sent() []EmailMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// SentTo returns recorded emails addressed to recipient
func (m *MockMailer) SentTo(recipient string) []EmailMessage {
	var out []EmailMessage
	for _, msg := range m.Sent() {
		for _, to := range msg.To {
			if to == recipient {
				out = append(out, msg)
				break
			}
		}
	}
	return out
}
