package engine

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/quicksortapp/quicksort/internal/model"
)

// MockClassifier is a test implementation of the Classifier interface. It
// returns a fixed classification and records every call.
type MockClassifier struct {
	Result model.Classification
	Err    error
	calls  []string
	mu     sync.Mutex
}

// Predict returns the configured result and records the image URL.
func (m *MockClassifier) Predict(_ context.Context, imageURL string) (model.Classification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, imageURL)
	if m.Err != nil {
		return model.Classification{}, m.Err
	}
	return m.Result, nil
}

// Calls returns the image URLs Predict was invoked with.
func (m *MockClassifier) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MockImageStore is a test implementation of the service.ImageStore
// interface keeping uploads in memory.
type MockImageStore struct {
	UploadErr error
	DeleteErr error
	objects   map[string][]byte
	uploads   int
	deletes   []string
	mu        sync.Mutex
}

// NewMockImageStore creates an empty in-memory image store.
func NewMockImageStore() *MockImageStore {
	return &MockImageStore{objects: make(map[string][]byte)}
}

// Upload stores the image bytes under a synthetic URL.
func (m *MockImageStore) Upload(_ context.Context, userID string, body io.Reader, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UploadErr != nil {
		return "", m.UploadErr
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}

	m.uploads++
	url := fmt.Sprintf("https://images.test/users/%s/%d.jpg", userID, m.uploads)
	m.objects[url] = data
	return url, nil
}

// Delete removes a stored image and records the deletion.
func (m *MockImageStore) Delete(_ context.Context, imageURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, imageURL)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.objects, imageURL)
	return nil
}

// Stored reports whether an image is still present.
func (m *MockImageStore) Stored(imageURL string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[imageURL]
	return ok
}

// Deletes returns the URLs Delete was invoked with.
func (m *MockImageStore) Deletes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deletes...)
}
