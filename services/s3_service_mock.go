package services

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MockS3Service is an in-memory S3Interface for testing
type MockS3Service struct {
	objects map[string]mockObject
	mu      sync.RWMutex
}

type mockObject struct {
	contentType string
	content     []byte
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		objects: make(map[string]mockObject),
	}
}

// SetAsMockForTesting sets this mock as the global S3 service and wires an
// image service on top of it
func (m *MockS3Service) SetAsMockForTesting() {
	SetS3Service(m)
	InitImageService(m)
}

// UploadFile stores the object in memory
func (m *MockS3Service) UploadFile(_ context.Context, key, contentType string, body io.Reader) error {
	content, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}

	m.mu.Lock()
	m.objects[key] = mockObject{contentType: contentType, content: content}
	m.mu.Unlock()
	return nil
}

// GetPresignedURL returns a fake URL for a stored object
func (m *MockS3Service) GetPresignedURL(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.objects[key]
	m.mu.RUnlock()
	if !exists {
		return "", fmt.Errorf("file not found in mock S3: %s", key)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", key), nil
}

// DeleteFile removes the object from memory
func (m *MockS3Service) DeleteFile(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// FileExists checks if an object exists in mock storage
func (m *MockS3Service) FileExists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.objects[key]
	return exists
}

// ContentType returns the stored content type of key
func (m *MockS3Service) ContentType(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.objects[key].contentType
}

// Keys returns the keys of all stored objects
func (m *MockS3Service) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	return keys
}
