package ghost

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ukagaka/shiori/protocol"
	"github.com/ukagaka/shiori/storage"
)

// Responder is a minimal response-generating module: it answers GET
// events from a talk dictionary, learns new entries through TEACH, and
// acknowledges notifications. One Responder serves many requests; it
// keeps no per-request state.
type Responder struct {
	store   storage.Store
	sender  string
	version string

	log *zap.Logger
}

func NewResponder(store storage.Store, sender, version string, log *zap.Logger) *Responder {
	return &Responder{
		store:   store,
		sender:  sender,
		version: version,
		log:     log,
	}
}

// Handle answers a single parsed request. It never returns an error
// for protocol-level problems; those become 4xx/5xx responses so the
// baseware always gets a well-formed reply.
func (g *Responder) Handle(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	switch req.Method {
	case protocol.GET, protocol.GETSentence:
		return g.handleGet(ctx, req), nil

	case protocol.GETVersion:
		resp := g.newResponse(req, protocol.StatusOK)
		resp.SetValue(g.version)
		return resp, nil

	case protocol.NOTIFY, protocol.NOTIFYOwner, protocol.NOTIFYOther:
		return g.newResponse(req, protocol.StatusNoContent), nil

	case protocol.TEACH:
		return g.handleTeach(ctx, req), nil

	default:
		resp := g.newResponse(req, protocol.StatusBadRequest)
		resp.SetErrorLevel(protocol.ErrorLevelNotice)
		resp.SetErrorDescription("method is not supported by this ghost")
		return resp, nil
	}
}

func (g *Responder) handleGet(ctx context.Context, req *protocol.Request) *protocol.Response {
	event, err := req.ID()
	if err != nil {
		resp := g.newResponse(req, protocol.StatusBadRequest)
		resp.SetErrorLevel(protocol.ErrorLevelWarning)
		resp.SetErrorDescription("request is missing the ID header")
		return resp
	}

	script, ok, err := g.store.Lookup(ctx, event)
	if err != nil {
		g.log.Error("Talk lookup failed", zap.String("event", event), zap.Error(err))

		resp := g.newResponse(req, protocol.StatusInternalServerError)
		resp.SetErrorLevel(protocol.ErrorLevelCritical)
		resp.SetErrorDescription("talk dictionary is unavailable")
		return resp
	}

	if !ok {
		// Nothing to say for this event; the baseware falls back
		return g.newResponse(req, protocol.StatusNoContent)
	}

	resp := g.newResponse(req, protocol.StatusOK)
	resp.SetValue(script)
	return resp
}

// handleTeach learns Reference0 (the event) → Reference1 (the script).
// External senders are refused.
func (g *Responder) handleTeach(ctx context.Context, req *protocol.Request) *protocol.Response {
	if level, err := req.SecurityLevel(); err == nil && level == protocol.SecurityLevelExternal {
		resp := g.newResponse(req, protocol.StatusBadRequest)
		resp.SetErrorLevel(protocol.ErrorLevelWarning)
		resp.SetErrorDescription("refusing to learn from an external sender")
		return resp
	}

	event, eventErr := req.Reference(0)
	script, scriptErr := req.Reference(1)

	if errors.Is(eventErr, protocol.ErrMissingHeader) || errors.Is(scriptErr, protocol.ErrMissingHeader) {
		resp := g.newResponse(req, protocol.StatusNotEnough)
		resp.SetErrorLevel(protocol.ErrorLevelNotice)
		resp.SetErrorDescription("TEACH needs Reference0 (event) and Reference1 (script)")
		return resp
	}

	if err := g.store.Teach(ctx, event, script); err != nil {
		g.log.Error("Teach failed", zap.String("event", event), zap.Error(err))

		resp := g.newResponse(req, protocol.StatusInternalServerError)
		resp.SetErrorLevel(protocol.ErrorLevelError)
		resp.SetErrorDescription("talk dictionary rejected the entry")
		return resp
	}

	g.log.Info("Learned a talk entry", zap.String("event", event))

	return g.newResponse(req, protocol.StatusOK)
}

// newResponse answers in the protocol version the baseware spoke.
func (g *Responder) newResponse(req *protocol.Request, status protocol.StatusCode) *protocol.Response {
	resp := protocol.NewResponse(status, req.Version)
	resp.SetCharset("UTF-8")
	resp.SetSender(g.sender)

	return resp
}
