package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/tdex-network/btc-session-daemon/pkg/wallet"

	"github.com/spf13/viper"
)

const (
	// ListeningPortKey is the port where the HTTP interface will listen on
	ListeningPortKey = "LISTENING_PORT"
	// DatadirKey is the local data directory to store the internal state of daemon
	DatadirKey = "DATADIR"
	// LogLevelKey are the different logging levels. For reference on the values https://godoc.org/github.com/sirupsen/logrus#Level
	LogLevelKey = "LOG_LEVEL"
	// NetworkKey is the network selected before any session is created or
	// restored
	NetworkKey = "NETWORK"
	// DBTypeKey is used to switch database type between those supported
	DBTypeKey = "DB_TYPE"
	// MnemonicPassphraseKey, if set, is used to encrypt the mnemonic before
	// storing it
	MnemonicPassphraseKey = "MNEMONIC_PASSPHRASE"
	// WebhookEndpointsKey is a comma separated list of URLs notified about
	// every session event
	WebhookEndpointsKey = "WEBHOOK_ENDPOINTS"
	// WebhookSecretKey is used to sign the requests to the webhook endpoints
	WebhookSecretKey = "WEBHOOK_SECRET"
	// WebhookTimeoutKey is the timeout in seconds of webhook requests
	WebhookTimeoutKey = "WEBHOOK_TIMEOUT"
	// NoTLSKey is used to start the daemon without using TLS for the HTTP
	// interface
	NoTLSKey = "NO_TLS"
	// ExtraIPKey is used to add extra ip addresses to the self-signed TLS
	// certificate
	ExtraIPKey = "EXTRA_IP"
	// ExtraDomainKey is used to add extra domains to the self-signed TLS
	// certificate
	ExtraDomainKey = "EXTRA_DOMAIN"
	// EnableProfilerKey enables profiler that can be used to investigate performance issues
	EnableProfilerKey = "ENABLE_PROFILER"
	// StatsIntervalKey defines interval for printing basic runtime statistics
	StatsIntervalKey = "STATS_INTERVAL"

	DbLocation       = "db"
	TLSLocation      = "tls"
	ProfilerLocation = "stats"

	// DBBadger persists the session on disk with badger.
	DBBadger = "badger"
	// DBInMemory keeps the session in memory, it is lost at restart.
	DBInMemory = "inmemory"
)

var vip *viper.Viper
var defaultDatadir = btcutil.AppDataDir("btc-session-daemon", false)

func InitConfig() error {
	vip = viper.New()
	vip.SetEnvPrefix("BTCSESSION")
	vip.AutomaticEnv()

	vip.SetDefault(ListeningPortKey, 9945)
	vip.SetDefault(LogLevelKey, 4)
	vip.SetDefault(DatadirKey, defaultDatadir)
	vip.SetDefault(NetworkKey, wallet.Testnet.String())
	vip.SetDefault(DBTypeKey, DBBadger)
	vip.SetDefault(WebhookTimeoutKey, 15)
	vip.SetDefault(NoTLSKey, false)
	vip.SetDefault(EnableProfilerKey, false)
	vip.SetDefault(StatsIntervalKey, 600)

	if err := validate(); err != nil {
		return fmt.Errorf("error while validating config: %s", err)
	}

	if err := initDatadir(); err != nil {
		return fmt.Errorf("error while creating datadir: %s", err)
	}

	return nil
}

func GetString(key string) string {
	return vip.GetString(key)
}

func GetInt(key string) int {
	return vip.GetInt(key)
}

// GetStringSlice accepts both comma and space separated lists.
func GetStringSlice(key string) []string {
	values := make([]string, 0)
	for _, value := range vip.GetStringSlice(key) {
		for _, v := range strings.Split(value, ",") {
			if v = strings.TrimSpace(v); len(v) > 0 {
				values = append(values, v)
			}
		}
	}
	return values
}

func GetBool(key string) bool {
	return vip.GetBool(key)
}

func GetDatadir() string {
	return GetString(DatadirKey)
}

// GetNetwork returns the configured network, already validated by InitConfig.
func GetNetwork() wallet.Network {
	network, _ := wallet.ParseNetwork(GetString(NetworkKey))
	return network
}

func validate() error {
	datadir := GetString(DatadirKey)
	if len(datadir) <= 0 {
		return fmt.Errorf("missing datadir")
	}

	if _, err := wallet.ParseNetwork(GetString(NetworkKey)); err != nil {
		return err
	}

	dbType := GetString(DBTypeKey)
	if dbType != DBBadger && dbType != DBInMemory {
		return fmt.Errorf(
			"unknown db type %s, must be one of %s, %s", dbType, DBBadger, DBInMemory,
		)
	}

	port := GetInt(ListeningPortKey)
	if port <= 1024 || port > 65535 {
		return fmt.Errorf("listening port must be in range (1024, 65535]")
	}

	for _, endpoint := range GetStringSlice(WebhookEndpointsKey) {
		if _, err := url.ParseRequestURI(endpoint); err != nil {
			return fmt.Errorf("invalid webhook endpoint %s", endpoint)
		}
	}

	if GetInt(StatsIntervalKey) <= 0 {
		return fmt.Errorf("%s must be a positive number of seconds", StatsIntervalKey)
	}

	return nil
}

func initDatadir() error {
	datadir := GetDatadir()
	if err := makeDirectoryIfNotExists(filepath.Join(datadir, DbLocation)); err != nil {
		return err
	}

	profilerEnabled := GetBool(EnableProfilerKey)
	if profilerEnabled {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, ProfilerLocation)); err != nil {
			return err
		}
	}

	noTls := GetBool(NoTLSKey)
	if !noTls {
		if err := makeDirectoryIfNotExists(filepath.Join(datadir, TLSLocation)); err != nil {
			return err
		}
	}
	return nil
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}
