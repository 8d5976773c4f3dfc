package protocol

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var (
	ErrInvalidLeadingLine   = errors.New("leading line does not match the request/status line grammar")
	ErrInvalidHeaderLine    = errors.New("line is neither blank nor a well-formed 'Name: value' header")
	ErrMalformedTermination = errors.New("message does not end with exactly the blank-line terminator")
)

// LineEnding terminates every line of a SHIORI message. Doubled, it
// terminates the message itself.
const LineEnding = "\r\n"

// headerSeparator sits between a header name and its value.
const headerSeparator = ": "

// ParseRequest parses a complete wire-format message as a SHIORI
// request. The grammar is applied line by line; header count and
// message length are unbounded.
func ParseRequest(text string) (*Request, error) {
	lines := strings.Split(text, LineEnding)

	method, version, err := parseRequestLine(lines[0])
	if err != nil {
		return nil, err
	}

	headers, err := parseHeaderLines(lines[1:])
	if err != nil {
		return nil, err
	}

	req := NewRequest(method, version)
	req.Headers = headers

	return req, nil
}

// ParseResponse parses a complete wire-format message as a SHIORI
// response.
func ParseResponse(text string) (*Response, error) {
	lines := strings.Split(text, LineEnding)

	version, status, err := parseStatusLine(lines[0])
	if err != nil {
		return nil, err
	}

	headers, err := parseHeaderLines(lines[1:])
	if err != nil {
		return nil, err
	}

	resp := NewResponse(status, version)
	resp.Headers = headers

	return resp, nil
}

// ReadRequest reads one complete SHIORI request off the provided
// Reader, using the blank-line terminator to know when to stop.
//
// To avoid denial of service attacks, the provided Reader should be
// reading from an io.LimitReader or similar Reader to bound the size
// of messages.
func ReadRequest(data io.Reader) (*Request, error) {
	text, err := readMessage(data)
	if err != nil {
		return nil, err
	}

	return ParseRequest(text)
}

// ReadResponse reads one complete SHIORI response off the provided
// Reader, using the blank-line terminator to know when to stop.
//
// To avoid denial of service attacks, the provided Reader should be
// reading from an io.LimitReader or similar Reader to bound the size
// of messages.
func ReadResponse(data io.Reader) (*Response, error) {
	text, err := readMessage(data)
	if err != nil {
		return nil, err
	}

	return ParseResponse(text)
}

// readMessage accumulates CRLF-terminated lines until the blank line
// that ends a message. Passing a *bufio.Reader avoids double buffering
// and keeps any following message intact for the next call.
func readMessage(data io.Reader) (string, error) {
	r, ok := data.(*bufio.Reader)
	if !ok {
		r = bufio.NewReader(data)
	}

	var text strings.Builder

	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return "", err
		}

		text.WriteString(line)

		if line == LineEnding {
			return text.String(), nil
		}
	}
}

// parseRequestLine decodes `<Method> SHIORI/<Version>`.
//
// Method tokens may themselves contain spaces, so the line is split at
// its last space: the right side must be the protocol/version pair and
// everything left of it is the method token, matched exactly. This is
// what keeps `GET Version` from being mis-read as `GET`.
func parseRequestLine(line string) (Method, string, error) {
	i := strings.LastIndex(line, " ")
	if i < 1 {
		return "", "", invalidLeadingLine(line)
	}

	version, ok := cutProtocolVersion(line[i+1:])
	if !ok {
		return "", "", invalidLeadingLine(line)
	}

	method, err := ParseMethod(line[:i])
	if err != nil {
		return "", "", fmt.Errorf("line 0 '%s': %w", line, err)
	}

	return method, version, nil
}

// parseStatusLine decodes `SHIORI/<Version> <StatusCode> <StatusName>`.
// The trailing name text must be present but is discarded without
// checking it against the numeric code; the code is authoritative.
func parseStatusLine(line string) (string, StatusCode, error) {
	i := strings.Index(line, " ")
	if i < 1 {
		return "", 0, invalidLeadingLine(line)
	}

	version, ok := cutProtocolVersion(line[:i])
	if !ok {
		return "", 0, invalidLeadingLine(line)
	}

	rest := line[i+1:]

	j := strings.Index(rest, " ")
	if j < 1 || j == len(rest)-1 {
		return "", 0, invalidLeadingLine(line)
	}

	if !isDigits(rest[:j]) {
		return "", 0, invalidLeadingLine(line)
	}

	code, err := strconv.Atoi(rest[:j])
	if err != nil {
		return "", 0, invalidLeadingLine(line)
	}

	status, err := ParseStatusCode(code)
	if err != nil {
		return "", 0, fmt.Errorf("line 0 '%s': %w", line, err)
	}

	return version, status, nil
}

// parseHeaderLines decodes every line after the leading one. Each is
// either blank or a `Name: value` pair; values are captured verbatim.
// Exactly two blank lines must be seen, the framing that says the
// message is complete. Duplicate names keep the last value only.
func parseHeaderLines(lines []string) (*Headers, error) {
	headers := NewHeaders()
	blanks := 0

	for i, line := range lines {
		if line == "" {
			blanks++
			continue
		}

		name, value, ok := cutHeaderLine(line)
		if !ok {
			return nil, fmt.Errorf("line %d '%s': %w", i+1, line, ErrInvalidHeaderLine)
		}

		headers.Set(name, value)
	}

	if blanks != 2 {
		return nil, fmt.Errorf("%d blank lines: %w", blanks, ErrMalformedTermination)
	}

	return headers, nil
}

func invalidLeadingLine(line string) error {
	return fmt.Errorf("line 0 '%s': %w", line, ErrInvalidLeadingLine)
}

// cutProtocolVersion decodes a `SHIORI/<Version>` token, returning the
// version string.
func cutProtocolVersion(token string) (string, bool) {
	i := strings.Index(token, "/")
	if i < 0 {
		return "", false
	}

	if _, err := ParseProtocol(token[:i]); err != nil {
		return "", false
	}

	version := token[i+1:]
	if !isVersion(version) {
		return "", false
	}

	return version, true
}

// cutHeaderLine splits a `Name: value` line. Names are restricted to
// [A-Za-z0-9.]+ so the first ': ' is always the separator.
func cutHeaderLine(line string) (name, value string, ok bool) {
	i := strings.Index(line, headerSeparator)
	if i < 1 {
		return "", "", false
	}

	name = line[:i]
	if !isHeaderName(name) {
		return "", "", false
	}

	return name, line[i+len(headerSeparator):], true
}

// isVersion reports whether s matches `\d+\.\d+`.
func isVersion(s string) bool {
	i := strings.Index(s, ".")
	if i < 1 || i == len(s)-1 {
		return false
	}

	return isDigits(s[:i]) && isDigits(s[i+1:])
}

func isDigits(s string) bool {
	if len(s) == 0 {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}

func isHeaderName(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]

		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '.':
		default:
			return false
		}
	}

	return len(s) > 0
}
