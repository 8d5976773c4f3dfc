package protocol

import "fmt"

// StatusCode is the numeric code of a response status line. The code
// is authoritative on the wire; the human-readable name next to it is
// derived from the code, never the other way around.
type StatusCode int

const (
	StatusOK                  StatusCode = 200
	StatusNoContent           StatusCode = 204
	StatusNotEnough           StatusCode = 311
	StatusAdvice              StatusCode = 312
	StatusBadRequest          StatusCode = 400
	StatusInternalServerError StatusCode = 500
)

var statusNames = map[StatusCode]string{
	StatusOK:                  "OK",
	StatusNoContent:           "No Content",
	StatusNotEnough:           "Not Enough",
	StatusAdvice:              "Advice",
	StatusBadRequest:          "Bad Request",
	StatusInternalServerError: "Internal Server Error",
}

// ParseStatusCode decodes a numeric status code, rejecting any integer
// outside the recognized set.
func ParseStatusCode(code int) (StatusCode, error) {
	s := StatusCode(code)
	if _, ok := statusNames[s]; !ok {
		return 0, fmt.Errorf("status code %d: %w", code, ErrUnknownEnumValue)
	}

	return s, nil
}

// Int returns the numeric code.
func (s StatusCode) Int() int {
	return int(s)
}

// Name returns the canonical status-line display name, e.g. "OK".
func (s StatusCode) Name() string {
	return statusNames[s]
}

func (s StatusCode) String() string {
	return fmt.Sprintf("%d %s", int(s), statusNames[s])
}
