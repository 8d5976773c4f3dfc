package protocol

import "fmt"

// ErrorLevel is the severity a ghost attaches to an error response via
// the ErrorLevel header. It is stored as its literal lowercase name.
type ErrorLevel string

const (
	ErrorLevelInfo     ErrorLevel = "info"
	ErrorLevelNotice   ErrorLevel = "notice"
	ErrorLevelWarning  ErrorLevel = "warning"
	ErrorLevelError    ErrorLevel = "error"
	ErrorLevelCritical ErrorLevel = "critical"
)

var errorLevels = map[ErrorLevel]struct{}{
	ErrorLevelInfo:     {},
	ErrorLevelNotice:   {},
	ErrorLevelWarning:  {},
	ErrorLevelError:    {},
	ErrorLevelCritical: {},
}

// ParseErrorLevel decodes an ErrorLevel header value.
func ParseErrorLevel(token string) (ErrorLevel, error) {
	l := ErrorLevel(token)
	if _, ok := errorLevels[l]; !ok {
		return "", fmt.Errorf("error level '%s': %w", token, ErrUnknownEnumValue)
	}

	return l, nil
}

func (l ErrorLevel) String() string {
	return string(l)
}

// SecurityLevel says whether the other party is on the local machine
// or reached over a network boundary.
type SecurityLevel string

const (
	SecurityLevelLocal    SecurityLevel = "local"
	SecurityLevelExternal SecurityLevel = "external"
)

// ParseSecurityLevel decodes a SecurityLevel header value.
func ParseSecurityLevel(token string) (SecurityLevel, error) {
	l := SecurityLevel(token)
	if l != SecurityLevelLocal && l != SecurityLevelExternal {
		return "", fmt.Errorf("security level '%s': %w", token, ErrUnknownEnumValue)
	}

	return l, nil
}

func (l SecurityLevel) String() string {
	return string(l)
}
