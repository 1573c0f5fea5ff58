// Package wallet talks JSON-RPC to a wallet provider bridge and derives the
// four connection-phase probes from it.
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kanbaru/walletbridge/internal/domain"
)

// Client is a minimal JSON-RPC client for a wallet provider endpoint.
type Client struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger

	mu      sync.RWMutex
	account string
}

// NewClient creates a wallet client for the given JSON-RPC endpoint.
func NewClient(endpoint string, timeout time.Duration, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		endpoint: endpoint,
		logger:   logger,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DisableKeepAlives: true,
			},
		},
	}
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	ID      int           `json:"id"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcErrorBody   `json:"error"`
}

type rpcErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// call performs a single JSON-RPC request and decodes the result into out.
func (c *Client) call(ctx context.Context, method string, params []interface{}, out interface{}) error {
	if params == nil {
		params = []interface{}{}
	}
	body, err := json.Marshal(rpcRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params})
	if err != nil {
		return &domain.RPCError{Method: method, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return &domain.RPCError{Method: method, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return &domain.RPCError{Method: method, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &domain.RPCError{Method: method, Message: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	}

	var decoded rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return &domain.RPCError{Method: method, Err: err}
	}
	if decoded.Error != nil {
		return &domain.RPCError{Method: method, Code: decoded.Error.Code, Message: decoded.Error.Message}
	}
	if out != nil {
		if err := json.Unmarshal(decoded.Result, out); err != nil {
			return &domain.RPCError{Method: method, Err: err}
		}
	}
	return nil
}

// ClientVersion returns the provider's reported client version.
func (c *Client) ClientVersion(ctx context.Context) (string, error) {
	var version string
	if err := c.call(ctx, "web3_clientVersion", nil, &version); err != nil {
		return "", err
	}
	return version, nil
}

// Accounts returns the accounts the provider currently exposes. The first
// account, if any, is cached for display.
func (c *Client) Accounts(ctx context.Context) ([]string, error) {
	var accounts []string
	if err := c.call(ctx, "eth_accounts", nil, &accounts); err != nil {
		return nil, err
	}
	if len(accounts) > 0 {
		c.setAccount(accounts[0])
	}
	return accounts, nil
}

// ChainID returns the hex-encoded chain ID the provider is connected to.
func (c *Client) ChainID(ctx context.Context) (string, error) {
	var chainID string
	if err := c.call(ctx, "eth_chainId", nil, &chainID); err != nil {
		return "", err
	}
	return chainID, nil
}

// Account returns the cached active account address, or "" before the
// account-retrieval phase has passed.
func (c *Client) Account() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.account
}

func (c *Client) setAccount(account string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.account = account
}

// ChainIDEqual compares two hex chain IDs ignoring case and 0x prefix.
func ChainIDEqual(a, b string) bool {
	trim := func(s string) string {
		return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "0x")
	}
	return trim(a) != "" && trim(a) == trim(b)
}
