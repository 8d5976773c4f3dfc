package protocol

// Response is a ghost's reply to a single request: a status line plus
// an ordered header collection.
type Response struct {
	Protocol Protocol
	Version  string
	Status   StatusCode
	Headers  *Headers
}

// NewResponse builds an empty SHIORI response with the given status,
// e.g. NewResponse(protocol.StatusOK, "3.0").
func NewResponse(status StatusCode, version string) *Response {
	return &Response{
		Protocol: SHIORI,
		Version:  version,
		Status:   status,
		Headers:  NewHeaders(),
	}
}

// StatusCode returns the numeric status code.
func (r *Response) StatusCode() int {
	return r.Status.Int()
}

// SetStatusCode assigns the status from a bare integer, rejecting any
// code outside the recognized set.
func (r *Response) SetStatusCode(code int) error {
	status, err := ParseStatusCode(code)
	if err != nil {
		return err
	}

	r.Status = status
	return nil
}

// Value returns the ghost's answer payload, usually a sakura script.
func (r *Response) Value() (string, error) {
	return r.Headers.Get(HeaderValue)
}

func (r *Response) SetValue(value string) {
	r.Headers.Set(HeaderValue, value)
}

func (r *Response) Marker() (string, error) {
	return r.Headers.Get(HeaderMarker)
}

func (r *Response) SetMarker(marker string) {
	r.Headers.Set(HeaderMarker, marker)
}

func (r *Response) RequestCharset() (string, error) {
	return r.Headers.Get(HeaderRequestCharset)
}

func (r *Response) SetRequestCharset(charset string) {
	r.Headers.Set(HeaderRequestCharset, charset)
}

func (r *Response) ErrorLevel() (ErrorLevel, error) {
	value, err := r.Headers.Get(HeaderErrorLevel)
	if err != nil {
		return "", err
	}

	return ParseErrorLevel(value)
}

func (r *Response) SetErrorLevel(level ErrorLevel) {
	r.Headers.Set(HeaderErrorLevel, string(level))
}

func (r *Response) ErrorDescription() (string, error) {
	return r.Headers.Get(HeaderErrorDescription)
}

func (r *Response) SetErrorDescription(description string) {
	r.Headers.Set(HeaderErrorDescription, description)
}

func (r *Response) Charset() (string, error) {
	return r.Headers.Get(HeaderCharset)
}

func (r *Response) SetCharset(charset string) {
	r.Headers.Set(HeaderCharset, charset)
}

func (r *Response) Sender() (string, error) {
	return r.Headers.Get(HeaderSender)
}

func (r *Response) SetSender(sender string) {
	r.Headers.Set(HeaderSender, sender)
}

func (r *Response) SecurityLevel() (SecurityLevel, error) {
	value, err := r.Headers.Get(HeaderSecurityLevel)
	if err != nil {
		return "", err
	}

	return ParseSecurityLevel(value)
}

func (r *Response) SetSecurityLevel(level SecurityLevel) {
	r.Headers.Set(HeaderSecurityLevel, string(level))
}

// Reference returns the Reference<n> header. n is a non-negative slot
// index; the protocol allows arbitrarily many slots.
func (r *Response) Reference(n int) (string, error) {
	return r.Headers.Get(referenceName(n))
}

func (r *Response) SetReference(n int, value string) {
	r.Headers.Set(referenceName(n), value)
}
