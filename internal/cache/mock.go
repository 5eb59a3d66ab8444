package cache

import "github.com/stretchr/testify/mock"

type MockResponseCache struct {
	mock.Mock
}

func (m *MockResponseCache) Get(key []byte) ([]byte, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), nil
}

func (m *MockResponseCache) SetEx(key, value []byte, expiry int) error {
	args := m.Called(key, value, expiry)
	return args.Error(0)
}

func (m *MockResponseCache) Delete(key []byte) bool {
	args := m.Called(key)
	return args.Get(0).(bool)
}
