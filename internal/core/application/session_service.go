package application

import (
	"context"
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/btc-session-daemon/internal/core/domain"
	"github.com/tdex-network/btc-session-daemon/internal/core/ports"
	"github.com/tdex-network/btc-session-daemon/pkg/wallet"
)

// SessionService manages the lifecycle of the wallet session served by the
// daemon: creating it from descriptors, restoring it from storage after a
// restart, deriving addresses and tearing it down.
type SessionService interface {
	DeriveDescriptor(
		extendedKey string, network wallet.Network, isChange bool,
	) (string, error)
	CreateSession(
		ctx context.Context, network wallet.Network,
		externalDescriptor, internalDescriptor string,
	) (*SessionInfo, error)
	CreateSessionFromExtendedKey(
		ctx context.Context, opts CreateSessionOpts,
	) (*SessionInfo, error)
	RestoreSession(ctx context.Context) bool
	CheckConnection(ctx context.Context) bool
	CheckSession(ctx context.Context) SessionInfo
	Disconnect(ctx context.Context) error
	ClearWallet(ctx context.Context) error
	GetNewAddress(ctx context.Context, index *uint32) (string, error)
	FormatAddress(address string) string
	SetNetwork(ctx context.Context, network wallet.Network) error
	GetNetwork() wallet.Network
	ConnectedAddress(ctx context.Context) string
	GetSessionInfo() SessionInfo
	Close()
}

type sessionService struct {
	store              ports.SessionStore
	walletFactory      ports.WalletFactory
	publisher          ports.SessionEventPublisher
	mnemonicPassphrase string

	lock    *sync.Mutex
	network wallet.Network
	session *domain.Session
	handle  ports.WalletHandle
}

// NewSessionService returns a session manager with no active session. Use
// CheckConnection or RestoreSession to pick up a previously persisted one.
func NewSessionService(opts SessionServiceOpts) (SessionService, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	return &sessionService{
		store:              opts.Store,
		walletFactory:      opts.WalletFactory,
		publisher:          opts.Publisher,
		mnemonicPassphrase: opts.MnemonicPassphrase,
		lock:               &sync.Mutex{},
		network:            opts.Network,
	}, nil
}

func (s *sessionService) DeriveDescriptor(
	extendedKey string, network wallet.Network, isChange bool,
) (string, error) {
	descriptor, err := wallet.DeriveDescriptor(wallet.DeriveDescriptorOpts{
		ExtendedKey: extendedKey,
		Network:     network,
		IsChange:    isChange,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return descriptor, nil
}

func (s *sessionService) CreateSession(
	ctx context.Context, network wallet.Network,
	externalDescriptor, internalDescriptor string,
) (*SessionInfo, error) {
	s.lock.Lock()
	info, event, err := s.createSession(
		ctx, network, externalDescriptor, internalDescriptor, "",
	)
	s.lock.Unlock()
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event)
	return info, nil
}

func (s *sessionService) CreateSessionFromExtendedKey(
	ctx context.Context, opts CreateSessionOpts,
) (*SessionInfo, error) {
	s.lock.Lock()
	info, event, err := s.createSessionFromExtendedKey(ctx, opts)
	s.lock.Unlock()
	if err != nil {
		return nil, err
	}

	s.publish(ctx, event)
	return info, nil
}

func (s *sessionService) createSessionFromExtendedKey(
	ctx context.Context, opts CreateSessionOpts,
) (*SessionInfo, *domain.SessionEvent, error) {
	network := opts.Network
	if network == "" {
		network = s.network
	}

	var mnemonic string
	if len(opts.Mnemonic) > 0 {
		if !wallet.IsMnemonicValid(opts.Mnemonic) {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidInput, ErrInvalidMnemonic)
		}
		mnemonic = strings.Join(opts.Mnemonic, " ")
		if len(s.mnemonicPassphrase) > 0 {
			encrypted, err := wallet.Encrypt(wallet.EncryptOpts{
				PlainText:  mnemonic,
				Passphrase: s.mnemonicPassphrase,
			})
			if err != nil {
				return nil, nil, fmt.Errorf("failed to encrypt mnemonic: %w", err)
			}
			mnemonic = encrypted
		} else {
			log.Warn("no mnemonic passphrase set, mnemonic will be stored in plaintext")
		}
	}

	external, internal, err := wallet.DeriveDescriptorPair(
		opts.ExtendedKey, network,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return s.createSession(ctx, network, external, internal, mnemonic)
}

// RestoreSession rebuilds the session from the persisted address without
// reconstructing any wallet handle. It returns whether a session is active
// afterwards. Storage failures are logged and reported as no session.
func (s *sessionService) RestoreSession(ctx context.Context) bool {
	s.lock.Lock()
	restored, event := s.restoreSession(ctx)
	s.lock.Unlock()

	s.publish(ctx, event)
	return restored
}

// CheckConnection answers from memory when a session is active and falls back
// to RestoreSession otherwise.
func (s *sessionService) CheckConnection(ctx context.Context) bool {
	return s.CheckSession(ctx).Connected
}

// CheckSession is like CheckConnection but also returns the snapshot of the
// session the answer is based on.
func (s *sessionService) CheckSession(ctx context.Context) SessionInfo {
	s.lock.Lock()
	_, event := s.restoreSession(ctx)
	info := newSessionInfo(s.network, s.session, s.handle)
	s.lock.Unlock()

	s.publish(ctx, event)
	return info
}

// Disconnect releases the wallet handle and forgets the persisted address.
// The network and mnemonic entries are left in place.
func (s *sessionService) Disconnect(ctx context.Context) error {
	s.lock.Lock()
	event, err := s.disconnect(ctx)
	s.lock.Unlock()

	s.publish(ctx, event)
	return err
}

// ClearWallet is like Disconnect but also removes the persisted network and
// mnemonic.
func (s *sessionService) ClearWallet(ctx context.Context) error {
	s.lock.Lock()
	disconnected, err := s.clearWallet(ctx)
	s.lock.Unlock()

	s.publish(ctx, disconnected)
	if err != nil {
		return err
	}

	cleared := domain.NewSessionEvent(domain.WalletCleared, nil)
	s.publish(ctx, &cleared)
	log.Info("wallet cleared")
	return nil
}

// GetNewAddress returns the receiving address at the given index without
// moving the cursor, or the next one if index is nil.
func (s *sessionService) GetNewAddress(
	ctx context.Context, index *uint32,
) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.handle == nil {
		return "", ErrWalletNotInitialized
	}

	var (
		info ports.AddressInfo
		err  error
	)
	if index != nil {
		if *index > wallet.MaxHardenedValue {
			return "", fmt.Errorf(
				"%w: address index must be in range [0, %d]",
				ErrInvalidInput, wallet.MaxHardenedValue,
			)
		}
		info, err = s.handle.PeekAddress(ports.KeychainExternal, *index)
	} else {
		info, err = s.handle.NextUnusedAddress(ports.KeychainExternal)
	}
	if err != nil {
		return "", fmt.Errorf("failed to derive address: %w", err)
	}

	log.Debugf("derived %s address at index %d", info.Keychain, info.Index)
	return info.Address, nil
}

func (s *sessionService) FormatAddress(address string) string {
	return wallet.FormatAddress(address)
}

// SetNetwork selects the network used by the next session and persists it.
// An active session is not affected.
func (s *sessionService) SetNetwork(
	ctx context.Context, network wallet.Network,
) error {
	if !network.IsValid() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, wallet.ErrInvalidNetwork)
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if err := s.store.Set(
		ctx, ports.WalletNetworkKey, network.String(),
	); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	s.network = network
	return nil
}

func (s *sessionService) GetNetwork() wallet.Network {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.network
}

// ConnectedAddress returns the address of the active session or, if none,
// the persisted one. An empty string is returned if there's neither.
func (s *sessionService) ConnectedAddress(ctx context.Context) string {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.session.IsConnected() {
		return s.session.Address
	}
	address, _, err := s.store.Get(ctx, ports.WalletAddressKey)
	if err != nil {
		log.WithError(err).Warn("unable to read persisted wallet address")
		return ""
	}
	return address
}

func (s *sessionService) GetSessionInfo() SessionInfo {
	s.lock.Lock()
	defer s.lock.Unlock()

	return newSessionInfo(s.network, s.session, s.handle)
}

// Close releases the wallet handle, if any. The persisted state is left
// untouched so that the session can be restored later.
func (s *sessionService) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.handle != nil {
		s.handle.Free()
		s.handle = nil
	}
}

// createSession builds a wallet handle out of the descriptors, reveals its
// first receiving address and persists it. The in-memory state is replaced
// only once everything succeeded, so that a failure leaves the previous
// session (if any) untouched.
func (s *sessionService) createSession(
	ctx context.Context, network wallet.Network,
	externalDescriptor, internalDescriptor, mnemonic string,
) (*SessionInfo, *domain.SessionEvent, error) {
	if len(externalDescriptor) <= 0 || len(internalDescriptor) <= 0 {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidInput, wallet.ErrNullDescriptor)
	}
	if !network.IsValid() {
		return nil, nil, fmt.Errorf(
			"%w: %w", ErrWalletConstruction, wallet.ErrInvalidNetwork,
		)
	}

	handle, err := s.walletFactory.Create(
		ctx, network, externalDescriptor, internalDescriptor,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrWalletConstruction, err)
	}

	addrInfo, err := handle.NextUnusedAddress(ports.KeychainExternal)
	if err != nil {
		handle.Free()
		return nil, nil, fmt.Errorf("%w: %w", ErrWalletConstruction, err)
	}

	session, err := domain.NewSession(network, addrInfo.Address)
	if err != nil {
		handle.Free()
		return nil, nil, fmt.Errorf("%w: %w", ErrWalletConstruction, err)
	}

	if err := s.persistSession(ctx, session, mnemonic); err != nil {
		handle.Free()
		return nil, nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	if s.handle != nil {
		s.handle.Free()
	}
	s.handle = handle
	s.session = session
	s.network = network

	log.WithFields(log.Fields{
		"network": network,
		"address": session.ShortAddress(),
	}).Info("wallet session created")

	info := newSessionInfo(s.network, s.session, s.handle)
	event := domain.NewSessionEvent(domain.SessionCreated, session)
	return &info, &event, nil
}

// persistSession writes all the session entries at once, either all of them
// are stored or none is.
func (s *sessionService) persistSession(
	ctx context.Context, session *domain.Session, mnemonic string,
) error {
	entries := map[string]string{
		ports.WalletAddressKey: session.Address,
		ports.WalletNetworkKey: session.Network.String(),
	}
	if len(mnemonic) > 0 {
		entries[ports.WalletMnemonicKey] = mnemonic
	}
	return s.store.SetAll(ctx, entries)
}

// restoreSession returns whether a session is active and, if it has just
// been restored, the event to publish.
func (s *sessionService) restoreSession(
	ctx context.Context,
) (bool, *domain.SessionEvent) {
	if s.session.IsConnected() {
		return true, nil
	}

	address, found, err := s.store.Get(ctx, ports.WalletAddressKey)
	if err != nil {
		log.WithError(err).Warn("unable to restore session")
		return false, nil
	}
	if !found || len(address) <= 0 {
		return false, nil
	}

	network := s.network
	persistedNetwork, found, err := s.store.Get(ctx, ports.WalletNetworkKey)
	switch {
	case err != nil:
		log.WithError(err).Warnf(
			"unable to read persisted network, using %s", network,
		)
	case found:
		if n, err := wallet.ParseNetwork(persistedNetwork); err != nil {
			log.Warnf(
				"unknown persisted network %q, using %s", persistedNetwork, network,
			)
		} else {
			network = n
		}
	}

	session, err := domain.NewSession(network, address)
	if err != nil {
		log.WithError(err).Warn("unable to restore session")
		return false, nil
	}
	s.session = session
	s.network = network

	log.WithFields(log.Fields{
		"network": network,
		"address": session.ShortAddress(),
	}).Info("wallet session restored")
	event := domain.NewSessionEvent(domain.SessionRestored, session)
	return true, &event
}

// disconnect returns the event to publish if a session was active.
func (s *sessionService) disconnect(
	ctx context.Context,
) (*domain.SessionEvent, error) {
	if s.handle != nil {
		s.handle.Free()
		s.handle = nil
	}
	session := s.session
	s.session = nil

	if err := s.store.Remove(ctx, ports.WalletAddressKey); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	if session == nil {
		return nil, nil
	}

	log.Infof("wallet session %s disconnected", session.ShortAddress())
	event := domain.NewSessionEvent(domain.SessionDisconnected, session)
	return &event, nil
}

func (s *sessionService) clearWallet(
	ctx context.Context,
) (*domain.SessionEvent, error) {
	event, err := s.disconnect(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.Remove(
		ctx, ports.WalletNetworkKey, ports.WalletMnemonicKey,
	); err != nil {
		return event, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return event, nil
}

// publish must be called without holding the lock, webhooks may take a while
// to reply.
func (s *sessionService) publish(
	ctx context.Context, event *domain.SessionEvent,
) {
	if s.publisher == nil || event == nil {
		return
	}
	if err := s.publisher.Publish(ctx, *event); err != nil {
		log.WithError(err).Warnf("failed to publish %s event", event.Type)
	}
}
