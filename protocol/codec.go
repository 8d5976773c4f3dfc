package protocol

import "strings"

// Reserved separator bytes for headers that pack several sub-values
// into a single value string. Which headers use the packing is a
// convention between baseware and ghost; the codec is generic.
const (
	UnitSeparator  = "\x01"
	GroupSeparator = "\x02"
)

// Separated splits a packed header value into its sub-values.
func Separated(value string) []string {
	return strings.Split(value, UnitSeparator)
}

// Combined packs sub-values into a single header value. It is the
// exact inverse of Separated for inputs that do not contain the
// separator byte themselves.
func Combined(values []string) string {
	return strings.Join(values, UnitSeparator)
}

// Separated2 splits a two-level packed header value: first into groups
// on the group separator, then each group into sub-values.
func Separated2(value string) [][]string {
	rawGroups := strings.Split(value, GroupSeparator)

	groups := make([][]string, len(rawGroups))
	for i, group := range rawGroups {
		groups[i] = Separated(group)
	}

	return groups
}

// Combined2 packs groups of sub-values into a single header value. It
// is the exact inverse of Separated2 for inputs that do not contain
// either separator byte themselves.
func Combined2(groups [][]string) string {
	parts := make([]string, len(groups))
	for i, group := range groups {
		parts[i] = Combined(group)
	}

	return strings.Join(parts, GroupSeparator)
}
