package odoo

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// allowedMethods is the read-only whitelist. Anything else is refused
// before a request is even built, so this client can never mutate the ERP.
var allowedMethods = map[string]bool{
	"search_read":  true,
	"read":         true,
	"search_count": true,
	"fields_get":   true,
	"search":       true,
}

// Client is a read-only JSON-RPC client for an Odoo instance.
type Client struct {
	cfg        *Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger

	requestID atomic.Int64
	observer  Observer

	mu  sync.Mutex
	uid int64
}

// NewClient builds a client. Credentials are validated here; the first
// authenticated call happens lazily.
func NewClient(cfg *Config, logger *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport := http.DefaultTransport
	if cfg.InsecureSkipVerify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		limiter: limiter,
		logger:  logger.Named("odoo"),
	}, nil
}

type rpcRequest struct {
	JSONRPC string    `json:"jsonrpc"`
	Method  string    `json:"method"`
	Params  rpcParams `json:"params"`
	ID      int64     `json:"id"`
}

type rpcParams struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Message string `json:"message"`
	} `json:"data"`
}

// call executes one JSON-RPC request against /jsonrpc, retrying transport
// failures with exponential backoff. API-level errors come back verbatim
// on the first attempt: retrying a rejected query never helps.
func (c *Client) call(ctx context.Context, service, method string, args []any, result any) error {
	start := time.Now()
	status := "ok"
	defer func() { c.observe(start, method, status) }()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("odoo: rate limiter: %w", err)
		}
	}

	payload := rpcRequest{
		JSONRPC: "2.0",
		Method:  "call",
		Params:  rpcParams{Service: service, Method: method, Args: args},
		ID:      c.requestID.Add(1),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("odoo: encode request: %w", err)
	}

	url := strings.TrimRight(c.cfg.URL, "/") + "/jsonrpc"

	var raw []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("request failed, will retry", zap.String("method", method), zap.Error(err))
			return err
		}
		defer resp.Body.Close()

		raw, err = io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("server returned %s", resp.Status)
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.cfg.MaxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		status = string(KindConnection)
		return &QueryError{
			Kind:    KindConnection,
			Message: fmt.Sprintf("connection failed: %v", err),
			Diagnostics: []string{
				fmt.Sprintf("Could not connect to Odoo at %s", c.cfg.URL),
				"",
				"Diagnostic checklist:",
				"1. Is your VPN connected? (if required)",
				"2. Can you access the URL in a browser?",
				"3. Is the Odoo service running?",
				fmt.Sprintf("4. Check ODOO_URL is correct: %s", c.cfg.URL),
			},
		}
	}

	var parsed rpcResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		status = string(KindResponse)
		return &QueryError{
			Kind:    KindResponse,
			Message: fmt.Sprintf("invalid response: %v", err),
			Diagnostics: []string{
				"The server returned an invalid response.",
				"This usually means:",
				"- The URL is incorrect (not an Odoo instance)",
				"- There's a proxy/firewall blocking the request",
				"- The Odoo service is starting up",
				"",
				fmt.Sprintf("URL attempted: %s", url),
			},
		}
	}

	if parsed.Error != nil {
		status = string(KindAPI)
		detail := parsed.Error.Data.Message
		msg := parsed.Error.Message
		return &QueryError{
			Kind:    KindAPI,
			Message: fmt.Sprintf("%s. %s", msg, detail),
			Diagnostics: []string{
				"The Odoo server returned an error.",
				fmt.Sprintf("Error: %s", msg),
				fmt.Sprintf("Detail: %s", detail),
				"",
				"Common causes:",
				"- Invalid model name",
				"- Invalid field name in domain or fields list",
				"- Permission denied for this operation",
			},
		}
	}

	if result != nil && len(parsed.Result) > 0 {
		if err := json.Unmarshal(parsed.Result, result); err != nil {
			status = string(KindResponse)
			return fmt.Errorf("odoo: decode result: %w", err)
		}
	}
	return nil
}

// Authenticate logs in and caches the user id for subsequent calls.
func (c *Client) Authenticate(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.uid != 0 {
		return c.uid, nil
	}

	// Odoo signals bad credentials as result=false, not as an error,
	// so the result can't be decoded straight into an integer.
	var result any
	err := c.call(ctx, "common", "authenticate",
		[]any{c.cfg.Database, c.cfg.Username, c.cfg.Password, map[string]any{}}, &result)
	if err != nil {
		return 0, err
	}

	uid, _ := result.(float64)
	if uid == 0 {
		return 0, &QueryError{
			Kind:    KindAuthentication,
			Message: "authentication failed",
			Diagnostics: []string{
				"Could not authenticate with Odoo.",
				"",
				"Diagnostic checklist:",
				fmt.Sprintf("1. Is ODOO_USERNAME correct? (current: %s)", c.cfg.Username),
				"2. Is ODOO_PASSWORD an API key? (Odoo 14+ requires API keys)",
				"3. Does this user have API access enabled?",
				fmt.Sprintf("4. Is database name correct? (current: %s)", c.cfg.Database),
				"",
				"Tip: In Odoo 14+, create an API key at:",
				"Settings > Users > [Your User] > API Keys",
			},
		}
	}

	c.uid = int64(uid)
	c.logger.Debug("authenticated", zap.Int64("uid", c.uid))
	return c.uid, nil
}

// Execute runs a whitelisted read-only method via execute_kw,
// authenticating first if needed.
func (c *Client) Execute(ctx context.Context, model, method string, args []any, kwargs map[string]any, result any) error {
	if !allowedMethods[method] {
		allowed := make([]string, 0, len(allowedMethods))
		for m := range allowedMethods {
			allowed = append(allowed, m)
		}
		sort.Strings(allowed)
		return &QueryError{
			Kind:    KindSecurity,
			Message: fmt.Sprintf("method %q is not allowed", method),
			Diagnostics: []string{
				fmt.Sprintf("The method %q is not permitted.", method),
				"",
				"This client is read-only for safety.",
				fmt.Sprintf("Allowed methods: %s", strings.Join(allowed, ", ")),
			},
		}
	}

	uid, err := c.Authenticate(ctx)
	if err != nil {
		return err
	}

	if kwargs == nil {
		kwargs = map[string]any{}
	}
	return c.call(ctx, "object", "execute_kw",
		[]any{c.cfg.Database, uid, c.cfg.Password, model, method, args, kwargs}, result)
}
