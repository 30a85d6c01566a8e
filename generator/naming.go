// This file converts document identifiers into Go identifiers and comment
// text for the generated client.

package generator

import (
	"strconv"
	"strings"

	"github.com/erraggy/oasgen/internal/naming"
)

// maxDescriptionLength caps a description rendered into a single comment line.
const maxDescriptionLength = 200

// toTypeName converts a definition or client name to an exported Go name.
func toTypeName(s string) string {
	if s == "" {
		return "Type"
	}
	return naming.ToIdentifier(s, true)
}

// toFieldName converts a property name to an exported struct field name.
func toFieldName(s string) string {
	return naming.ToIdentifier(s, true)
}

// toParamName converts a parameter name to an unexported argument name.
func toParamName(s string) string {
	if s == "" {
		return "param"
	}
	return naming.ToIdentifier(s, false)
}

// clientTypeName is the struct name of a client; "" is the default client.
func clientTypeName(client string) string {
	if client == "" {
		return "Client"
	}
	return toTypeName(client) + "Client"
}

// cleanDescription flattens s onto one line and truncates it.
func cleanDescription(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if runes := []rune(s); len(runes) > maxDescriptionLength {
		s = string(runes[:maxDescriptionLength-3]) + "..."
	}
	return s
}

// uniqueNames hands out identifiers, suffixing repeats with 2, 3, ...
type uniqueNames map[string]bool

func (u uniqueNames) claim(name string) string {
	candidate := name
	for i := 2; u[candidate]; i++ {
		candidate = name + strconv.Itoa(i)
	}
	u[candidate] = true
	return candidate
}
