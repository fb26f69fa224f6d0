package main

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/btc-session-daemon/internal/core/application"
	descriptorwallet "github.com/tdex-network/btc-session-daemon/internal/infrastructure/descriptor-wallet"
	"github.com/tdex-network/btc-session-daemon/internal/infrastructure/pubsub"
	"github.com/tdex-network/btc-session-daemon/internal/infrastructure/storage/db/inmemory"
	httpinterface "github.com/tdex-network/btc-session-daemon/internal/interfaces/http"
	"github.com/tdex-network/btc-session-daemon/pkg/wallet"
	"github.com/tyler-smith/go-bip39"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon " +
	"abandon abandon abandon abandon abandon about"

func TestState(t *testing.T) {
	useTempDataDir(t)

	_, err := getState()
	require.Error(t, err)

	require.NoError(t, run("config", "init", "--rpcserver", "localhost:1234"))
	state, err := getState()
	require.NoError(t, err)
	require.Equal(t, "localhost:1234", state["rpcserver"])
	require.Equal(t, "false", state["no_tls"])

	require.NoError(t, run("config", "set", "no_tls", "true"))
	state, err = getState()
	require.NoError(t, err)
	require.Equal(t, "localhost:1234", state["rpcserver"])
	require.Equal(t, "true", state["no_tls"])

	require.Error(t, run("config", "set", "no_tls"))
}

func TestCommands(t *testing.T) {
	useTempDataDir(t)

	sessionSvc, err := application.NewSessionService(application.SessionServiceOpts{
		Store:         inmemory.NewSessionStore(),
		WalletFactory: descriptorwallet.NewFactory(),
		Network:       wallet.Testnet,
	})
	require.NoError(t, err)
	webhookSvc, err := pubsub.NewService(pubsub.ServiceOpts{})
	require.NoError(t, err)

	server := httptest.NewServer(httpinterface.NewHandler(httpinterface.ServiceOpts{
		SessionSvc: sessionSvc,
		WebhookSvc: webhookSvc,
	}))
	defer server.Close()

	rpcserver := strings.TrimPrefix(server.URL, "http://")
	require.NoError(t, run("config", "init", "--rpcserver", rpcserver, "--no_tls"))

	seed := bip39.NewSeed(testMnemonic, "")
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	require.NoError(t, err)
	xprv := key.String()

	t.Run("without session", func(t *testing.T) {
		require.NoError(t, run("status"))
		require.NoError(t, run("network"))
		require.Error(t, run("address"))
		require.Error(t, run("connect"))
	})

	t.Run("with session", func(t *testing.T) {
		require.NoError(t, run("network", "set", "mainnet"))
		require.NoError(t, run("descriptor", "--key", xprv))
		require.NoError(t, run("connect", "--key", xprv, "--mnemonic", testMnemonic))
		require.True(t, sessionSvc.CheckConnection(context.Background()))

		require.NoError(t, run("address"))
		require.NoError(t, run("address", "--index", "5"))
		require.Error(t, run("address", "--index", "2147483648"))

		require.NoError(t, run("disconnect"))
		require.False(t, sessionSvc.CheckConnection(context.Background()))
		require.NoError(t, run("clear"))
	})

	t.Run("webhooks", func(t *testing.T) {
		require.NoError(t, run("webhook", "add", "--endpoint", "http://localhost:9999"))
		require.NoError(t, run("webhook", "list"))
		require.Len(t, webhookSvc.ListSubscriptions(), 1)

		id := webhookSvc.ListSubscriptions()[0].ID
		require.NoError(t, run("webhook", "remove", "--id", id))
		require.Error(t, run("webhook", "remove", "--id", id))
	})

	t.Run("tls", func(t *testing.T) {
		require.NoError(t, run("config", "set", "no_tls", "false"))
		require.NoError(t, run(
			"config", "set", "tls_cert_path", filepath.Join(t.TempDir(), "cert.pem"),
		))
		require.Error(t, run("status"))
	})
}

func run(args ...string) error {
	return newApp().Run(append([]string{"btcsession"}, args...))
}

func useTempDataDir(t *testing.T) {
	oldDataDir, oldStatePath := cliDataDir, statePath
	cliDataDir = t.TempDir()
	statePath = filepath.Join(cliDataDir, "state.json")
	t.Cleanup(func() {
		cliDataDir, statePath = oldDataDir, oldStatePath
	})
	_, err := os.Stat(statePath)
	require.True(t, os.IsNotExist(err))
}
