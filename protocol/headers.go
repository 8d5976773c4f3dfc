package protocol

import (
	"errors"
	"fmt"
)

// ErrMissingHeader reports a typed accessor invoked for a header the
// message does not carry. There is no default substitution; callers
// either check Has first or handle the error.
var ErrMissingHeader = errors.New("header is not present in the message")

// Well-known header names. Names are case sensitive on the wire.
const (
	HeaderID               = "ID"
	HeaderStatus           = "Status"
	HeaderBaseID           = "BaseId"
	HeaderCharset          = "Charset"
	HeaderSender           = "Sender"
	HeaderSecurityLevel    = "SecurityLevel"
	HeaderValue            = "Value"
	HeaderMarker           = "Marker"
	HeaderRequestCharset   = "RequestCharset"
	HeaderErrorLevel       = "ErrorLevel"
	HeaderErrorDescription = "ErrorDescription"

	// ReferencePrefix starts the Reference<N> header-name family. The
	// protocol puts no upper bound on N.
	ReferencePrefix = "Reference"
)

// Headers is an ordered name/value collection. Insertion order is
// preserved and drives serialisation order. Names are unique; setting
// an existing name overwrites its value but keeps its position.
type Headers struct {
	names  []string
	values map[string]string
}

func NewHeaders() *Headers {
	return &Headers{values: make(map[string]string)}
}

// Get returns the value stored under name, or ErrMissingHeader.
func (h *Headers) Get(name string) (string, error) {
	value, ok := h.values[name]
	if !ok {
		return "", fmt.Errorf("'%s': %w", name, ErrMissingHeader)
	}

	return value, nil
}

// Set writes the value stored under name. Last write wins.
func (h *Headers) Set(name, value string) {
	if _, ok := h.values[name]; !ok {
		h.names = append(h.names, name)
	}

	h.values[name] = value
}

func (h *Headers) Has(name string) bool {
	_, ok := h.values[name]
	return ok
}

func (h *Headers) Len() int {
	return len(h.names)
}

// Names returns the header names in insertion order.
func (h *Headers) Names() []string {
	names := make([]string, len(h.names))
	copy(names, h.names)
	return names
}

// Each calls fn for every header in insertion order.
func (h *Headers) Each(fn func(name, value string)) {
	for _, name := range h.names {
		fn(name, h.values[name])
	}
}

func referenceName(n int) string {
	return fmt.Sprintf("%s%d", ReferencePrefix, n)
}
