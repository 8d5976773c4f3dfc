package client

import (
	"bufio"
	"context"
	"net"
	"sync"

	"go.uber.org/zap"

	"github.com/ukagaka/shiori/protocol"
)

// Conn is the baseware side of a SHIORI bridge connection. SHIORI has
// no request IDs; responses arrive in request order, so Conn serialises
// exchanges with a mutex rather than multiplexing them.
type Conn struct {
	mu sync.Mutex

	conn *net.TCPConn
	r    *bufio.Reader

	// Version is the protocol version stamped on outgoing requests
	Version string

	// Sender is the value of the Sender header on outgoing requests
	Sender string

	log *zap.Logger
}

func New(log *zap.Logger) *Conn {
	return &Conn{
		Version: "3.0",
		Sender:  "shiori-client",
		log:     log,
	}
}

func (c *Conn) Connect(ctx context.Context, addr string) error {
	var d net.Dialer

	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}

	c.conn = conn.(*net.TCPConn)
	c.r = bufio.NewReader(c.conn)

	return nil
}

func (c *Conn) Disconnect() error {
	return c.conn.Close()
}

// Do sends one request and reads its response. Concurrent callers are
// serialised so request/response pairing survives.
func (c *Conn) Do(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// A zero deadline clears any previous one
	deadline, _ := ctx.Deadline()
	if err := c.conn.SetDeadline(deadline); err != nil {
		return nil, err
	}

	c.log.Debug("Sending request", zap.String("method", req.Method.String()))

	if err := protocol.WriteRequest(c.conn, req); err != nil {
		return nil, err
	}

	return protocol.ReadResponse(c.r)
}

// Get asks the ghost about an event, with optional Reference<N> values
// assigned in argument order.
func (c *Conn) Get(ctx context.Context, event string, references ...string) (*protocol.Response, error) {
	req := c.newRequest(protocol.GET)
	req.SetID(event)

	for n, reference := range references {
		req.SetReference(n, reference)
	}

	return c.Do(ctx, req)
}

// Notify tells the ghost about an event without expecting content back.
func (c *Conn) Notify(ctx context.Context, event string, references ...string) error {
	req := c.newRequest(protocol.NOTIFY)
	req.SetID(event)

	for n, reference := range references {
		req.SetReference(n, reference)
	}

	_, err := c.Do(ctx, req)
	return err
}

func (c *Conn) newRequest(method protocol.Method) *protocol.Request {
	req := protocol.NewRequest(method, c.Version)
	req.SetCharset("UTF-8")
	req.SetSender(c.Sender)

	return req
}
