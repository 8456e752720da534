package testing

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockCapability is a mock implementation of the firewall.Capability
// interface, shared by tests that exercise the firewall step in isolation.
type MockCapability struct {
	mock.Mock
}

// Name returns the mocked frontend name.
func (m *MockCapability) Name() string {
	args := m.Called()
	return args.String(0)
}

// OpenPort records the request and returns the mocked result.
func (m *MockCapability) OpenPort(ctx context.Context, port int) error {
	args := m.Called(ctx, port)
	return args.Error(0)
}

// NewMockCapability creates a MockCapability reporting the given frontend
// name. Combine with WithOpenPort or WithOpenPortError.
func NewMockCapability(name string) *MockCapability {
	m := &MockCapability{}
	m.On("Name").Return(name)
	return m
}

// WithOpenPort configures the mock to accept port openings.
func (m *MockCapability) WithOpenPort() *MockCapability {
	m.On("OpenPort", mock.Anything, mock.Anything).Return(nil)
	return m
}

// WithOpenPortError configures the mock to fail port opening.
func (m *MockCapability) WithOpenPortError(err error) *MockCapability {
	m.On("OpenPort", mock.Anything, mock.Anything).Return(err)
	return m
}
