package transport

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	reuseport "github.com/kavu/go_reuseport"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ukagaka/shiori/protocol"
)

// HandleTimeout bounds how long a single request may spend inside the
// Handler before the bridge gives up on it.
const HandleTimeout = 3 * time.Second

// Handler answers a single parsed SHIORI request. Implementations must
// be safe for concurrent use; the bridge calls one Handler from every
// connection.
type Handler interface {
	Handle(ctx context.Context, req *protocol.Request) (*protocol.Response, error)
}

// TCP bridges SHIORI over TCP: it reads one request at a time off each
// connection and answers in order, the way a baseware expects.
type TCP struct {
	cancel     context.CancelFunc
	stopWaiter sync.WaitGroup

	addr string

	numListeners int
	listeners    []*TCPListener
	reuseport    bool

	handler Handler

	log *zap.Logger
}

func NewTCP(options Options) *TCP {
	numListeners := options.NumListeners

	if numListeners < 1 {
		numListeners = runtime.NumCPU()
	}

	return &TCP{
		addr:         net.JoinHostPort(options.Host, strconv.Itoa(options.Port)),
		numListeners: numListeners,
		listeners:    make([]*TCPListener, 0, numListeners),
		reuseport:    options.Reuseport,
		handler:      options.Handler,
		log:          options.Log,
	}
}

func (t *TCP) Start(parentCtx context.Context) error {
	ctx, cancel := context.WithCancel(parentCtx)
	t.cancel = cancel

	t.log.Info("Starting tcp listeners", zap.Int("count", t.numListeners))

	for i := 0; i < t.numListeners; i++ {
		t.startListener(ctx, t.addr)
	}

	return nil
}

func (t *TCP) startListener(ctx context.Context, addr string) {
	t.stopWaiter.Add(1)
	listener := NewTCPListener(
		ctx,
		addr,
		t.reuseport,
		t.handler,
		t.log.Named("listener").With(zap.Int("listener", len(t.listeners))),
	)

	t.listeners = append(t.listeners, &listener)

	go func() {
		defer t.stopWaiter.Done()

		if err := listener.Listen(); err != nil {
			// TODO(maya) any of the listeners can fail to listen without it being
			//            treated as fatal, so we can end up running with fewer
			//            listeners than requested
			t.log.Error("Failed to listen", zap.Error(err))
		}
	}()
}

// Close immediately closes all active listeners and connections.
func (t *TCP) Close() (err error) {
	t.log.Info("Stopping TCP server")
	t.cancel()

	// Tell listeners to stop
	for _, listener := range t.listeners {
		err = multierr.Append(err, listener.Close())
	}

	t.stopWaiter.Wait()
	t.log.Info("Listeners stopped")

	return err
}

type TCPListener struct {
	ctx context.Context

	addr string
	log  *zap.Logger

	mu          sync.Mutex
	activeConns map[*TCPConn]struct{}

	reuseport bool
	handler   Handler
}

func NewTCPListener(
	ctx context.Context,
	addr string,
	useReuseport bool,
	handler Handler,
	log *zap.Logger,
) TCPListener {
	return TCPListener{
		ctx:         ctx,
		activeConns: make(map[*TCPConn]struct{}),
		addr:        addr,
		reuseport:   useReuseport,
		handler:     handler,
		log:         log,
	}
}

func (t *TCPListener) Close() (err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for conn := range t.activeConns {
		err = multierr.Append(err, conn.Close())
		delete(t.activeConns, conn)
	}

	return err
}

func (t *TCPListener) Listen() error {
	listener, err := t.listen()
	if err != nil {
		return err
	}

	defer listener.Close()

	var loopWaiter sync.WaitGroup

	go func() {
		<-t.ctx.Done()

		t.log.Info("Draining connection loops")
		loopWaiter.Wait()

		t.log.Info("Closing listener")
		if err := listener.Close(); err != nil {
			t.log.Warn("TCP Listener did not close cleanly", zap.Error(err))
		}
	}()

	for {
		select {
		case <-t.ctx.Done():
			t.log.Info("Stopped accepting new connections")
			loopWaiter.Wait()

			t.log.Info("Listener stopped")
			return nil

		default:
			conn, err := listener.Accept()
			if err != nil {
				netOpError := new(net.OpError)

				if errors.As(err, &netOpError) && netOpError.Unwrap().Error() == "use of closed network connection" {
					// The listener was closed while we were waiting for new
					// connections, that's fine.
					return nil
				}

				return err
			}

			tcpConn := NewTCPConn(t.ctx, conn.(*net.TCPConn), t.handler, t.log.Named("conn"))
			t.addConn(tcpConn)

			loopWaiter.Add(1)
			go func() {
				defer loopWaiter.Done()
				tcpConn.Start()

				// Both loops have exited; release the socket. Close is
				// idempotent, so a racing server shutdown is fine.
				if err := tcpConn.Close(); err != nil {
					t.log.Warn("Connection did not close cleanly", zap.Error(err))
				}

				t.removeConn(tcpConn)
			}()
		}
	}
}

// listen opens the socket, with SO_REUSEPORT when several listeners
// share the address.
func (t *TCPListener) listen() (net.Listener, error) {
	if t.reuseport {
		return reuseport.Listen("tcp", t.addr)
	}

	return net.Listen("tcp", t.addr)
}

func (t *TCPListener) addConn(conn *TCPConn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.activeConns[conn] = struct{}{}
}

func (t *TCPListener) removeConn(conn *TCPConn) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.activeConns, conn)
}

type TCPConn struct {
	ctx        context.Context
	cancel     context.CancelFunc
	loopWaiter sync.WaitGroup
	closeOnce  sync.Once

	conn    *net.TCPConn
	handler Handler

	writeQueue chan []byte

	log *zap.Logger
}

func NewTCPConn(
	parentCtx context.Context,
	conn *net.TCPConn,
	handler Handler,
	log *zap.Logger,
) *TCPConn {
	ctx, cancel := context.WithCancel(parentCtx)

	return &TCPConn{
		ctx:        ctx,
		cancel:     cancel,
		conn:       conn,
		handler:    handler,
		writeQueue: make(chan []byte, 127),
		log:        log,
	}
}

func (t *TCPConn) Close() error {
	t.closeOnce.Do(func() {
		t.cancel()

		// Unblock a read loop that is parked in a blocking Read. The
		// context alone can't do that.
		t.conn.Close()

		// Wait for the read/write loops to exit
		t.loopWaiter.Wait()

		// Once close is called, the writeQueue can no longer be used.
		// We need to wait until the read/write loops have exited before
		// closing this channel.
		close(t.writeQueue)
	})

	return nil
}

func (t *TCPConn) Start() {
	t.loopWaiter.Add(2)

	go func() {
		defer t.loopWaiter.Done()
		t.ReadLoop()
	}()

	go func() {
		defer t.loopWaiter.Done()
		t.WriteLoop()
	}()

	t.loopWaiter.Wait()
}

// ReadLoop reads requests off the connection one at a time and answers
// them in order. SHIORI carries no request IDs; the exchange is
// strictly sequential, so reading and handling inline preserves the
// pairing the baseware relies on.
func (t *TCPConn) ReadLoop() {
	log := t.log.Named("readLoop")

	defer func() {
		// Stop reading, but allow queued writes to drain
		err := t.conn.CloseRead()
		if err != nil && !strings.Contains(err.Error(), "transport endpoint is not connected") {
			log.Warn("Failed to close reads on connection cleanly", zap.Error(err))
		}

		// Tell the write loop to exit once it has drained the queue,
		// so Start can return. The queue is never closed before both
		// loops have exited, but skip the sentinel rather than block
		// if the queue is somehow full.
		select {
		case t.writeQueue <- nil:
		default:
		}

		log.Info("Read loop exited")
	}()

	// One buffered reader per connection; re-wrapping per message would
	// drop bytes of the next message on the floor.
	r := bufio.NewReader(t.conn)

	for {
		select {
		case <-t.ctx.Done():
			return

		default:
			req, err := protocol.ReadRequest(r)
			if err != nil {
				if errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed) {
					return
				}

				log.Warn("Failed to read baseware request", zap.Error(err))

				// The stream cannot be re-synchronised after a framing error,
				// so answer 400 and hang up.
				t.writeResponse(badRequest(err))
				return
			}

			if t.trace() {
				log.Debug("Request", zap.String("method", req.Method.String()))
			}

			t.writeResponse(t.dispatch(req))
		}
	}
}

func (t *TCPConn) WriteLoop() {
	log := t.log.Named("writeLoop")

	defer func() {
		err := t.conn.CloseWrite()
		if err != nil && !strings.Contains(err.Error(), "transport endpoint is not connected") {
			log.Warn("Failed to close writes on connection cleanly", zap.Error(err))
		}

		log.Info("Write loop exited")
	}()

	for {
		select {
		case <-t.ctx.Done():
			return

		case data := <-t.writeQueue:
			if data == nil {
				// Our read loop has terminated, we should too
				return
			}

			if _, err := t.conn.Write(data); err != nil {
				t.log.Error("Failed to write response", zap.Error(err))
				continue
			}
		}
	}
}

// dispatch hands one request to the Handler, turning handler failures
// into a 500 response so the baseware always hears back.
func (t *TCPConn) dispatch(req *protocol.Request) *protocol.Response {
	handleCtx, cancel := context.WithTimeout(t.ctx, HandleTimeout)
	defer cancel()

	resp, err := t.handler.Handle(handleCtx, req)
	if err != nil {
		t.log.Warn("Handler failed",
			zap.String("method", req.Method.String()),
			zap.Error(err))

		resp = protocol.NewResponse(protocol.StatusInternalServerError, req.Version)
		resp.SetErrorLevel(protocol.ErrorLevelError)
		resp.SetErrorDescription(err.Error())
	}

	return resp
}

func (t *TCPConn) writeResponse(resp *protocol.Response) {
	if t.isRunning() {
		t.writeQueue <- []byte(protocol.SerializeResponse(resp))
	}
}

func badRequest(err error) *protocol.Response {
	// The request never parsed, so its protocol version is unknown;
	// answer in the current one.
	resp := protocol.NewResponse(protocol.StatusBadRequest, "3.0")
	resp.SetErrorLevel(protocol.ErrorLevelError)
	resp.SetErrorDescription(err.Error())

	return resp
}

func (t *TCPConn) trace() bool {
	return t.log.Core().Enabled(zap.DebugLevel)
}

// isRunning returns true if Close has not been called
func (t *TCPConn) isRunning() bool {
	select {
	case <-t.ctx.Done():
		// if we can read on this channel then it's been closed
		return false

	default:
		return true
	}
}
