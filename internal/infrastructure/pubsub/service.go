// Package pubsub notifies session lifecycle events to a set of webhooks.
// Requests to secured webhooks carry a HS256 JWT bearer token signed with
// the subscription secret.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/golang-jwt/jwt"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/tdex-network/btc-session-daemon/internal/core/domain"
	"github.com/tdex-network/btc-session-daemon/pkg/circuitbreaker"
	"golang.org/x/sync/errgroup"
)

const defaultRequestTimeout = 15 * time.Second

// Service is a session event publisher that also allows to manage the
// subscribed webhooks at runtime.
type Service interface {
	Subscribe(event, endpoint, secret string) (string, error)
	Unsubscribe(id string) error
	ListSubscriptions() []Subscription
	Publish(ctx context.Context, event domain.SessionEvent) error
	Close()
}

// ServiceOpts is the struct given to NewService.
type ServiceOpts struct {
	// Endpoints are subscribed to any event at startup.
	Endpoints []string
	// Secret is used to sign the requests to Endpoints, if not empty.
	Secret         string
	RequestTimeout time.Duration
}

type service struct {
	lock       *sync.RWMutex
	subs       map[string]Subscription
	httpClient *client
	cb         *gobreaker.CircuitBreaker
}

func NewService(opts ServiceOpts) (Service, error) {
	timeout := opts.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	svc := &service{
		lock:       &sync.RWMutex{},
		subs:       make(map[string]Subscription),
		httpClient: newHTTPClient(timeout),
		cb:         circuitbreaker.NewCircuitBreaker("webhooks"),
	}
	for _, endpoint := range opts.Endpoints {
		if _, err := svc.Subscribe(AnyEvent, endpoint, opts.Secret); err != nil {
			return nil, err
		}
	}
	return svc, nil
}

func (ws *service) Subscribe(event, endpoint, secret string) (string, error) {
	sub, err := NewSubscription(event, endpoint, secret)
	if err != nil {
		return "", err
	}

	ws.lock.Lock()
	defer ws.lock.Unlock()

	ws.subs[sub.ID] = *sub
	log.Debugf("added webhook %s for %s events", sub.Endpoint, sub.Event)
	return sub.ID, nil
}

func (ws *service) Unsubscribe(id string) error {
	ws.lock.Lock()
	defer ws.lock.Unlock()

	if _, ok := ws.subs[id]; !ok {
		return ErrSubscriptionNotFound
	}
	delete(ws.subs, id)
	return nil
}

func (ws *service) ListSubscriptions() []Subscription {
	ws.lock.RLock()
	defer ws.lock.RUnlock()

	subs := make(subscriptions, 0, len(ws.subs))
	for _, sub := range ws.subs {
		subs = append(subs, sub)
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].ID < subs[j].ID
	})
	return subs
}

// Publish notifies the event to all matching webhooks concurrently and
// returns the first error encountered, if any.
func (ws *service) Publish(ctx context.Context, event domain.SessionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	subs := ws.listSubscriptionsForEvent(string(event.Type))
	if len(subs) <= 0 {
		return nil
	}

	eg, ctx := errgroup.WithContext(ctx)
	for i := range subs {
		sub := subs[i]
		eg.Go(func() error { return ws.doRequest(ctx, sub, string(payload)) })
	}
	return eg.Wait()
}

func (ws *service) Close() {
	ws.httpClient.CloseIdleConnections()
}

func (ws *service) listSubscriptionsForEvent(event string) subscriptions {
	ws.lock.RLock()
	defer ws.lock.RUnlock()

	subs := make(subscriptions, 0)
	for _, sub := range ws.subs {
		if sub.matches(event) {
			subs = append(subs, sub)
		}
	}
	return subs
}

func (ws *service) doRequest(
	ctx context.Context, sub Subscription, payload string,
) error {
	_, err := ws.cb.Execute(func() (interface{}, error) {
		headers := map[string]string{
			"Content-Type": "application/json",
		}
		if sub.IsSecured() {
			token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
				IssuedAt: time.Now().Unix(),
				Subject:  sub.ID,
			})
			tokenString, err := token.SignedString([]byte(sub.Secret))
			if err != nil {
				return nil, err
			}
			headers["Authorization"] = fmt.Sprintf("Bearer %s", tokenString)
		}

		status, resp, err := ws.httpClient.post(ctx, sub.Endpoint, payload, headers)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, fmt.Errorf(
				"webhook %s replied with status %d: %s", sub.Endpoint, status, resp,
			)
		}
		return nil, nil
	})

	return err
}
