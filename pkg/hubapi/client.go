// Package hubapi is a typed client for the OPC UA hub's HTTP API: the node
// tree, per-node history flags, and the generated Telegraf configuration.
package hubapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/opcua-hub/hubexplorer/pkg/nodetree"
)

const (
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "hubexplorer"
)

// Hub API routes.
const (
	PathNodes           = "/api/nodes"
	PathUpdatesRequired = "/api/updated-required"
	PathNodeHistory     = "/api/update-node-history"
	PathTelegrafConfig  = "/api/update-telegraf-config"
)

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 4096

// Client talks to one hub API instance. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a client for the hub at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		userAgent:  DefaultUserAgent,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the hub address the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Nodes fetches the whole node forest and the Telegraf status flag.
// Every failure is reported as ErrFetchFailed.
func (c *Client) Nodes(ctx context.Context) (*NodesResponse, error) {
	const op = "Nodes"

	var out NodesResponse
	status, err := c.do(ctx, http.MethodGet, PathNodes, nil, &out)
	if err != nil {
		if isTransport(err) {
			err = relabel(err, op)
		}
		return nil, &Error{Op: op, Kind: ErrFetchFailed, Status: status, Message: messageFor(err), Err: err}
	}
	if out.Nodes == nil {
		out.Nodes = []nodetree.Node{}
	}
	return &out, nil
}

// UpdatesRequired lists the nodes whose history change has not yet been
// applied to the Telegraf configuration.
func (c *Client) UpdatesRequired(ctx context.Context) ([]UpdateRequired, error) {
	const op = "UpdatesRequired"

	var out []UpdateRequired
	status, err := c.do(ctx, http.MethodGet, PathUpdatesRequired, nil, &out)
	if err != nil {
		if isTransport(err) {
			return nil, relabel(err, op)
		}
		return nil, &Error{Op: op, Kind: ErrFetchFailed, Status: status, Message: messageFor(err), Err: err}
	}
	return out, nil
}

// UpdateNodeHistory asks the hub to enable or disable history collection
// for one node. A body whose status is not "success" is ErrUpdateRejected.
func (c *Client) UpdateNodeHistory(ctx context.Context, upd HistoryUpdate) (*StatusResponse, error) {
	const op = "UpdateNodeHistory"

	var out StatusResponse
	status, err := c.do(ctx, http.MethodPost, PathNodeHistory, upd, &out)
	if err != nil {
		if isTransport(err) {
			return nil, relabel(err, op)
		}
		return nil, rejected(op, status, err)
	}
	if !out.OK() {
		msg := out.Message
		if msg == "" {
			msg = GenericFailureMessage
		}
		return nil, &Error{Op: op, Kind: ErrUpdateRejected, Status: status, Message: msg}
	}

	c.log.Info("node history updated", "node_id", upd.NodeID, "enabled", upd.HistoryEnabled)
	return &out, nil
}

// UpdateTelegrafConfig regenerates the Telegraf configuration from the
// current history flags. A body whose status is not "success" is
// ErrUpdateRejected.
func (c *Client) UpdateTelegrafConfig(ctx context.Context) (*StatusResponse, error) {
	const op = "UpdateTelegrafConfig"

	var out StatusResponse
	status, err := c.do(ctx, http.MethodPost, PathTelegrafConfig, struct{}{}, &out)
	if err != nil {
		if isTransport(err) {
			return nil, relabel(err, op)
		}
		return nil, rejected(op, status, err)
	}
	if !out.OK() {
		msg := out.Message
		if msg == "" {
			msg = GenericFailureMessage
		}
		return nil, &Error{Op: op, Kind: ErrUpdateRejected, Status: status, Message: msg}
	}

	c.log.Info("telegraf config updated", "status", out.Status)
	return &out, nil
}

// httpStatusError is an intermediate error for a non-2xx response.
type httpStatusError struct {
	status  int
	message string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.status, e.message)
}

// do performs one request. body, when non-nil, is sent as JSON; out, when
// non-nil, receives the decoded response. The returned status is 0 when no
// response arrived.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("request failed", "method", method, "path", path, "error", err)
		return 0, transportError("", err)
	}
	defer resp.Body.Close()

	c.log.Debug("request done", "method", method, "path", path,
		"status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return resp.StatusCode, &httpStatusError{status: resp.StatusCode, message: firstLine(b)}
	}

	if out == nil {
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}

// firstLine extracts the first non-empty line of a plain-text error body.
func firstLine(b []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			return line
		}
	}
	return ""
}

func isTransport(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == ErrTransport
}

func relabel(err error, op string) *Error {
	e := *err.(*Error)
	e.Op = op
	return &e
}

// messageFor returns the server-provided text of a non-2xx response.
func messageFor(err error) string {
	if se, ok := err.(*httpStatusError); ok {
		return se.message
	}
	return ""
}

func rejected(op string, status int, err error) *Error {
	msg := messageFor(err)
	if msg == "" {
		msg = GenericFailureMessage
	}
	return &Error{Op: op, Kind: ErrUpdateRejected, Status: status, Message: msg, Err: err}
}
