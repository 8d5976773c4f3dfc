package protocol

import (
	"errors"
	"fmt"
)

// ErrUnknownEnumValue reports a token or numeric code that is outside
// its recognized set (method, status code, ErrorLevel, SecurityLevel).
var ErrUnknownEnumValue = errors.New("value is not a member of the recognized set")

// Method is a request-line method token. The token is the wire form,
// so multi-word methods like "GET Version" are single Method values.
type Method string

const (
	GET               Method = "GET"
	NOTIFY            Method = "NOTIFY"
	GETVersion        Method = "GET Version"
	GETSentence       Method = "GET Sentence"
	GETWord           Method = "GET Word"
	GETStatus         Method = "GET Status"
	TEACH             Method = "TEACH"
	GETString         Method = "GET String"
	NOTIFYOwner       Method = "NOTIFY OwnerGhostName"
	NOTIFYOther       Method = "NOTIFY OtherGhostName"
	TRANSLATESentence Method = "TRANSLATE Sentence"
)

var methods = map[Method]struct{}{
	GET:               {},
	NOTIFY:            {},
	GETVersion:        {},
	GETSentence:       {},
	GETWord:           {},
	GETStatus:         {},
	TEACH:             {},
	GETString:         {},
	NOTIFYOwner:       {},
	NOTIFYOther:       {},
	TRANSLATESentence: {},
}

// ParseMethod decodes a request-line method token. The token must be
// an exact member of the recognized set; there is no prefix matching.
func ParseMethod(token string) (Method, error) {
	m := Method(token)
	if _, ok := methods[m]; !ok {
		return "", fmt.Errorf("method '%s': %w", token, ErrUnknownEnumValue)
	}

	return m, nil
}

func (m Method) String() string {
	return string(m)
}

// Protocol is the protocol token of a request or status line.
type Protocol string

// SHIORI is the only protocol this package speaks.
const SHIORI Protocol = "SHIORI"

// ParseProtocol decodes a protocol token.
func ParseProtocol(token string) (Protocol, error) {
	if Protocol(token) != SHIORI {
		return "", fmt.Errorf("protocol '%s': %w", token, ErrUnknownEnumValue)
	}

	return SHIORI, nil
}

func (p Protocol) String() string {
	return string(p)
}
