package protocol

// Request is a baseware instruction to a ghost: a method, the protocol
// version the baseware speaks, and an ordered header collection.
type Request struct {
	Method   Method
	Protocol Protocol
	Version  string
	Headers  *Headers
}

// NewRequest builds an empty SHIORI request for the given method and
// protocol version, e.g. NewRequest(protocol.GET, "3.0").
func NewRequest(method Method, version string) *Request {
	return &Request{
		Method:   method,
		Protocol: SHIORI,
		Version:  version,
		Headers:  NewHeaders(),
	}
}

// ID returns the event identifier the baseware is asking about.
func (r *Request) ID() (string, error) {
	return r.Headers.Get(HeaderID)
}

func (r *Request) SetID(id string) {
	r.Headers.Set(HeaderID, id)
}

// Status returns the baseware's Status header, a packed summary of
// what the baseware is currently doing.
func (r *Request) Status() (string, error) {
	return r.Headers.Get(HeaderStatus)
}

func (r *Request) SetStatus(status string) {
	r.Headers.Set(HeaderStatus, status)
}

func (r *Request) BaseID() (string, error) {
	return r.Headers.Get(HeaderBaseID)
}

func (r *Request) SetBaseID(id string) {
	r.Headers.Set(HeaderBaseID, id)
}

func (r *Request) Charset() (string, error) {
	return r.Headers.Get(HeaderCharset)
}

func (r *Request) SetCharset(charset string) {
	r.Headers.Set(HeaderCharset, charset)
}

func (r *Request) Sender() (string, error) {
	return r.Headers.Get(HeaderSender)
}

func (r *Request) SetSender(sender string) {
	r.Headers.Set(HeaderSender, sender)
}

func (r *Request) SecurityLevel() (SecurityLevel, error) {
	value, err := r.Headers.Get(HeaderSecurityLevel)
	if err != nil {
		return "", err
	}

	return ParseSecurityLevel(value)
}

func (r *Request) SetSecurityLevel(level SecurityLevel) {
	r.Headers.Set(HeaderSecurityLevel, string(level))
}

// Reference returns the Reference<n> header. n is a non-negative slot
// index; the protocol allows arbitrarily many slots.
func (r *Request) Reference(n int) (string, error) {
	return r.Headers.Get(referenceName(n))
}

func (r *Request) SetReference(n int, value string) {
	r.Headers.Set(referenceName(n), value)
}
