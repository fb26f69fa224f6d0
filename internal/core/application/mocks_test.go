package application_test

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/tdex-network/btc-session-daemon/internal/core/domain"
	"github.com/tdex-network/btc-session-daemon/internal/core/ports"
	"github.com/tdex-network/btc-session-daemon/pkg/wallet"
)

type mockSessionStore struct {
	mock.Mock
}

func (m *mockSessionStore) Get(
	ctx context.Context, key string,
) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockSessionStore) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *mockSessionStore) SetAll(
	ctx context.Context, entries map[string]string,
) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *mockSessionStore) Remove(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *mockSessionStore) Close() {
	m.Called()
}

type mockWalletFactory struct {
	mock.Mock
}

func (m *mockWalletFactory) Create(
	ctx context.Context, network wallet.Network,
	externalDescriptor, internalDescriptor string,
) (ports.WalletHandle, error) {
	args := m.Called(ctx, network, externalDescriptor, internalDescriptor)

	var res ports.WalletHandle
	if a := args.Get(0); a != nil {
		res = a.(ports.WalletHandle)
	}
	return res, args.Error(1)
}

type mockWalletHandle struct {
	mock.Mock
}

func (m *mockWalletHandle) NextUnusedAddress(
	keychain ports.Keychain,
) (ports.AddressInfo, error) {
	args := m.Called(keychain)

	var res ports.AddressInfo
	if a := args.Get(0); a != nil {
		res = a.(ports.AddressInfo)
	}
	return res, args.Error(1)
}

func (m *mockWalletHandle) PeekAddress(
	keychain ports.Keychain, index uint32,
) (ports.AddressInfo, error) {
	args := m.Called(keychain, index)

	var res ports.AddressInfo
	if a := args.Get(0); a != nil {
		res = a.(ports.AddressInfo)
	}
	return res, args.Error(1)
}

func (m *mockWalletHandle) Free() {
	m.Called()
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(
	ctx context.Context, event domain.SessionEvent,
) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *mockPublisher) Close() {
	m.Called()
}
