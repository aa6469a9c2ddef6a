package mocks

import (
	"github.com/stretchr/testify/mock"
)

type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Text(content []byte, maxPages int) (string, error) {
	args := m.Called(content, maxPages)
	return args.String(0), args.Error(1)
}
