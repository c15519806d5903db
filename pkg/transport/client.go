package transport

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fpgad-project/fpgad-go/pkg/version"
	"github.com/fpgad-project/fpgad-go/pkg/wire"
)

// DefaultCallTimeout bounds one request/response exchange. Firmware
// writes block in the kernel until the load finishes, so the bound is
// generous.
const DefaultCallTimeout = 60 * time.Second

// Client is a synchronous RPC client for the fpgad socket. One request
// is in flight at a time; concurrent calls serialize.
type Client struct {
	conn   net.Conn
	framer *Framer
	nextID atomic.Uint32

	mu      sync.Mutex
	timeout time.Duration
}

// Dial connects to an fpgad endpoint. Network is "unix" or "tcp".
func Dial(network, address string) (*Client, error) {
	conn, err := net.Dial(network, address)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return &Client{
		conn:    conn,
		framer:  NewFramer(conn),
		timeout: DefaultCallTimeout,
	}, nil
}

// SetTimeout changes the per-call timeout.
func (c *Client) SetTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timeout = d
}

// Call sends one request and waits for its response.
func (c *Client) Call(method wire.Method, args wire.Args) (*wire.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := &wire.Request{
		MessageID: c.nextID.Add(1),
		Method:    method,
		Args:      args,
		Protocol:  version.Protocol,
	}
	data, err := wire.EncodeRequest(req)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(c.timeout)
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("failed to set deadline: %w", err)
	}
	defer c.conn.SetDeadline(time.Time{})

	if err := c.framer.WriteFrame(data); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	// Responses arrive in request order on this connection; skip any
	// with a stale message ID.
	for {
		respData, err := c.framer.ReadFrame()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}
		resp, err := wire.DecodeResponse(respData)
		if err != nil {
			return nil, err
		}
		if resp.MessageID == req.MessageID {
			return resp, nil
		}
	}
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
