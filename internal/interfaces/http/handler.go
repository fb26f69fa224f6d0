package httpinterface

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/tdex-network/btc-session-daemon/internal/core/application"
	"github.com/tdex-network/btc-session-daemon/internal/infrastructure/pubsub"
	"github.com/tdex-network/btc-session-daemon/pkg/wallet"
)

type deriveDescriptorRequest struct {
	ExtendedKey string `json:"extended_key"`
	Network     string `json:"network"`
	IsChange    bool   `json:"is_change"`
}

type deriveDescriptorResponse struct {
	Descriptor string `json:"descriptor"`
}

// createSessionRequest accepts either a descriptor pair or an extended key
// the descriptors are derived from.
type createSessionRequest struct {
	Network            string `json:"network"`
	ExternalDescriptor string `json:"external_descriptor"`
	InternalDescriptor string `json:"internal_descriptor"`
	ExtendedKey        string `json:"extended_key"`
	Mnemonic           string `json:"mnemonic"`
}

type sessionResponse struct {
	ID           string `json:"id,omitempty"`
	Network      string `json:"network"`
	Address      string `json:"address,omitempty"`
	ShortAddress string `json:"short_address,omitempty"`
	Connected    bool   `json:"connected"`
	CanDerive    bool   `json:"can_derive"`
}

type addressResponse struct {
	Address      string `json:"address"`
	ShortAddress string `json:"short_address"`
}

type networkMessage struct {
	Network string `json:"network"`
}

type subscribeRequest struct {
	Event    string `json:"event"`
	Endpoint string `json:"endpoint"`
	Secret   string `json:"secret"`
}

type subscribeResponse struct {
	ID string `json:"id"`
}

type handler struct {
	sessionSvc application.SessionService
	webhookSvc pubsub.Service
}

func (h *handler) descriptors(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		writeError(w, ErrMethodNotAllowed)
		return
	}

	var body deriveDescriptorRequest
	if err := decodeBody(req, &body); err != nil {
		writeError(w, err)
		return
	}
	network, err := h.parseNetwork(body.Network)
	if err != nil {
		writeError(w, err)
		return
	}

	descriptor, err := h.sessionSvc.DeriveDescriptor(
		body.ExtendedKey, network, body.IsChange,
	)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, deriveDescriptorResponse{descriptor})
}

func (h *handler) session(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		info := h.sessionSvc.CheckSession(req.Context())
		writeJSON(w, http.StatusOK, toSessionResponse(info))
	case http.MethodPost:
		h.createSession(w, req)
	case http.MethodDelete:
		if err := h.sessionSvc.Disconnect(req.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	default:
		writeError(w, ErrMethodNotAllowed)
	}
}

func (h *handler) createSession(w http.ResponseWriter, req *http.Request) {
	var body createSessionRequest
	if err := decodeBody(req, &body); err != nil {
		writeError(w, err)
		return
	}
	network, err := h.parseNetwork(body.Network)
	if err != nil {
		writeError(w, err)
		return
	}

	var info *application.SessionInfo
	if len(body.ExtendedKey) > 0 {
		info, err = h.sessionSvc.CreateSessionFromExtendedKey(
			req.Context(), application.CreateSessionOpts{
				ExtendedKey: body.ExtendedKey,
				Network:     network,
				Mnemonic:    wallet.SplitMnemonic(body.Mnemonic),
			},
		)
	} else {
		info, err = h.sessionSvc.CreateSession(
			req.Context(), network, body.ExternalDescriptor, body.InternalDescriptor,
		)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(*info))
}

func (h *handler) wallet(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodDelete {
		writeError(w, ErrMethodNotAllowed)
		return
	}
	if err := h.sessionSvc.ClearWallet(req.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *handler) address(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodGet {
		writeError(w, ErrMethodNotAllowed)
		return
	}

	var index *uint32
	if str := req.URL.Query().Get("index"); len(str) > 0 {
		i, err := strconv.ParseUint(str, 10, 32)
		if err != nil {
			writeError(w, fmt.Errorf("%w: %s", ErrInvalidIndex, str))
			return
		}
		ii := uint32(i)
		index = &ii
	}

	address, err := h.sessionSvc.GetNewAddress(req.Context(), index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, addressResponse{
		Address:      address,
		ShortAddress: h.sessionSvc.FormatAddress(address),
	})
}

func (h *handler) network(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, networkMessage{h.sessionSvc.GetNetwork().String()})
	case http.MethodPut:
		var body networkMessage
		if err := decodeBody(req, &body); err != nil {
			writeError(w, err)
			return
		}
		network, err := wallet.ParseNetwork(body.Network)
		if err != nil {
			writeError(w, fmt.Errorf("%w: %w", application.ErrInvalidInput, err))
			return
		}
		if err := h.sessionSvc.SetNetwork(req.Context(), network); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, networkMessage{network.String()})
	default:
		writeError(w, ErrMethodNotAllowed)
	}
}

func (h *handler) webhooks(w http.ResponseWriter, req *http.Request) {
	if h.webhookSvc == nil {
		writeError(w, ErrWebhooksDisabled)
		return
	}

	switch req.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.webhookSvc.ListSubscriptions())
	case http.MethodPost:
		var body subscribeRequest
		if err := decodeBody(req, &body); err != nil {
			writeError(w, err)
			return
		}
		id, err := h.webhookSvc.Subscribe(body.Event, body.Endpoint, body.Secret)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, subscribeResponse{id})
	case http.MethodDelete:
		if err := h.webhookSvc.Unsubscribe(req.URL.Query().Get("id")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusNoContent, nil)
	default:
		writeError(w, ErrMethodNotAllowed)
	}
}

// parseNetwork defaults to the currently selected network if none is given.
func (h *handler) parseNetwork(name string) (wallet.Network, error) {
	if len(name) <= 0 {
		return h.sessionSvc.GetNetwork(), nil
	}
	network, err := wallet.ParseNetwork(name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", application.ErrInvalidInput, err)
	}
	return network, nil
}

func decodeBody(req *http.Request, body interface{}) error {
	if err := json.NewDecoder(req.Body).Decode(body); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequestBody, err)
	}
	return nil
}

func toSessionResponse(info application.SessionInfo) sessionResponse {
	return sessionResponse{
		ID:           info.ID,
		Network:      info.Network.String(),
		Address:      info.Address,
		ShortAddress: info.ShortAddress,
		Connected:    info.Connected,
		CanDerive:    info.CanDerive,
	}
}
