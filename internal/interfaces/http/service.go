// Package httpinterface exposes the session manager through a JSON over HTTP
// API, optionally served over TLS with a self-signed certificate.
package httpinterface

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/btc-session-daemon/internal/core/application"
	"github.com/tdex-network/btc-session-daemon/internal/infrastructure/pubsub"
	"github.com/tdex-network/btc-session-daemon/internal/interfaces"
)

const shutdownTimeout = 5 * time.Second

// ServiceOpts is the struct given to NewService.
type ServiceOpts struct {
	Address string
	// TLSLocation is where the self-signed key and certificate are kept.
	// TLS is disabled if NoTLS is set.
	TLSLocation  string
	NoTLS        bool
	ExtraIPs     []string
	ExtraDomains []string

	EnableProfiler bool
	// Registry collects the interface metrics. A new one is created if nil.
	Registry *prometheus.Registry

	SessionSvc application.SessionService
	// WebhookSvc is optional, the webhook routes reply with 404 if nil.
	WebhookSvc pubsub.Service
}

func (o ServiceOpts) validate() error {
	if o.SessionSvc == nil {
		return ErrMissingSessionService
	}
	host, port, err := net.SplitHostPort(o.Address)
	if err != nil {
		return ErrInvalidAddress
	}
	if len(host) > 0 && net.ParseIP(host) == nil && host != "localhost" {
		return ErrInvalidAddress
	}
	if p, err := strconv.Atoi(port); err != nil || p < 0 || p > 65535 {
		return ErrInvalidAddress
	}
	if !o.NoTLS && len(o.TLSLocation) <= 0 {
		return fmt.Errorf("missing TLS location")
	}
	return nil
}

func (o ServiceOpts) tlsKey() string {
	return filepath.Join(o.TLSLocation, TLSKeyFile)
}

func (o ServiceOpts) tlsCert() string {
	return filepath.Join(o.TLSLocation, TLSCertFile)
}

type service struct {
	opts     ServiceOpts
	server   *http.Server
	listener net.Listener
}

// NewService returns the HTTP interface of the daemon. Unless NoTLS is set,
// a self-signed certificate is generated if none exists yet.
func NewService(opts ServiceOpts) (interfaces.Service, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid opts: %w", err)
	}

	if !opts.NoTLS {
		if err := generateTLSKeyCert(
			opts.TLSLocation, opts.ExtraIPs, opts.ExtraDomains,
		); err != nil {
			return nil, err
		}
	}

	return &service{
		opts: opts,
		server: &http.Server{
			Handler:           NewHandler(opts),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}, nil
}

// NewHandler returns the router serving all the routes of the HTTP interface.
func NewHandler(opts ServiceOpts) http.Handler {
	h := &handler{opts.SessionSvc, opts.WebhookSvc}
	m := newMetrics(opts.Registry, opts.SessionSvc)

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/descriptors", m.instrument("descriptors", h.descriptors))
	mux.HandleFunc("/v1/session", m.instrument("session", h.session))
	mux.HandleFunc("/v1/wallet", m.instrument("wallet", h.wallet))
	mux.HandleFunc("/v1/address", m.instrument("address", h.address))
	mux.HandleFunc("/v1/network", m.instrument("network", h.network))
	mux.HandleFunc("/v1/webhooks", m.instrument("webhooks", h.webhooks))
	mux.Handle("/metrics", m.handler())

	if opts.EnableProfiler {
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	return mux
}

func (s *service) Start() error {
	lis, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return err
	}

	if !s.opts.NoTLS {
		certificate, err := tls.LoadX509KeyPair(s.opts.tlsCert(), s.opts.tlsKey())
		if err != nil {
			lis.Close()
			return err
		}
		lis = tls.NewListener(lis, &tls.Config{
			MinVersion:   tls.VersionTLS12,
			Certificates: []tls.Certificate{certificate},
		})
	}
	s.listener = lis

	go func() {
		if err := s.server.Serve(lis); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("http interface stopped unexpectedly")
		}
	}()

	log.Infof("http interface is listening on %s", lis.Addr())
	return nil
}

func (s *service) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		log.WithError(err).Warn("failed to gracefully stop http interface")
	}
	log.Debug("stopped http interface")
}
