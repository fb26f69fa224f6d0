package main

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"
)

const requestTimeout = 30 * time.Second

type daemonClient struct {
	baseURL string
	client  *http.Client
}

type errorReply struct {
	Error string `json:"error"`
}

// getDaemonClient builds a client for the daemon's HTTP interface out of the
// local state. TLS is used unless no_tls is set, in which case the daemon's
// self-signed certificate is loaded from tls_cert_path.
func getDaemonClient() (*daemonClient, error) {
	state, err := getState()
	if err != nil {
		return nil, err
	}
	address, ok := state["rpcserver"]
	if !ok || len(address) <= 0 {
		return nil, errors.New("set rpcserver with `config set rpcserver`")
	}

	noTLS, _ := strconv.ParseBool(state["no_tls"])
	if noTLS {
		return &daemonClient{
			baseURL: "http://" + address,
			client:  &http.Client{Timeout: requestTimeout},
		}, nil
	}

	certPath, ok := state["tls_cert_path"]
	if !ok || len(certPath) <= 0 {
		return nil, errors.New(
			"set tls_cert_path with `config set tls_cert_path` or disable TLS " +
				"with `config set no_tls true`",
		)
	}
	cert, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read TLS certificate: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(cert) {
		return nil, fmt.Errorf("invalid TLS certificate %s", certPath)
	}

	return &daemonClient{
		baseURL: "https://" + address,
		client: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					RootCAs:    pool,
					MinVersion: tls.VersionTLS12,
				},
			},
		},
	}, nil
}

func (c *daemonClient) do(method, path string, body, reply interface{}) error {
	var payload io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("unable to connect to daemon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var errReply errorReply
		if err := json.NewDecoder(resp.Body).Decode(&errReply); err != nil ||
			len(errReply.Error) <= 0 {
			return fmt.Errorf("request failed with status %s", resp.Status)
		}
		return errors.New(errReply.Error)
	}

	if reply == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(reply)
}
