package mocks

import (
	"github.com/stretchr/testify/mock"
)

type MockDecryptor struct {
	mock.Mock
}

func (m *MockDecryptor) Decrypt(ciphertext []byte, key string) ([]byte, error) {
	args := m.Called(ciphertext, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
