// Package httputil provides HTTP method and status code helpers shared by the
// document model and the generator.
package httputil

import (
	"mime"
	"strconv"
	"strings"
)

// HTTP Status Code Constants
const (
	StatusCodeLength = 3   // Standard length of HTTP status codes (e.g., "200", "404")
	MinStatusCode    = 100 // Minimum valid HTTP status code
	MaxStatusCode    = 599 // Maximum valid HTTP status code
	WildcardChar     = 'X' // Wildcard character used in status code patterns (e.g., "2XX")
)

// HTTP Method Constants
const (
	MethodGet     = "get"
	MethodPut     = "put"
	MethodPost    = "post"
	MethodDelete  = "delete"
	MethodOptions = "options"
	MethodHead    = "head"
	MethodPatch   = "patch"
	MethodTrace   = "trace" // OAS 3.0+ only
)

// Methods lists the HTTP methods a path item can carry, in document order.
var Methods = []string{MethodGet, MethodPut, MethodPost, MethodDelete, MethodOptions, MethodHead, MethodPatch, MethodTrace}

// Wildcard boundary characters for validation
const (
	minWildcardBoundary = '1'
	maxWildcardBoundary = '5'
)

// IsMethod reports whether s (any case) is a path item HTTP method.
func IsMethod(s string) bool {
	s = strings.ToLower(s)
	for _, m := range Methods {
		if m == s {
			return true
		}
	}
	return false
}

// ValidateStatusCode checks if a status code string is valid according to OpenAPI spec.
// Valid values are:
//   - "default" for default response
//   - Extension fields starting with "x-"
//   - Wildcard patterns: 1XX, 2XX, 3XX, 4XX, 5XX
//   - Numeric codes: 100-599
func ValidateStatusCode(code string) bool {
	if code == "default" {
		return true
	}

	if strings.HasPrefix(code, "x-") {
		return true
	}

	if len(code) == StatusCodeLength {
		// Check for wildcard patterns (e.g., "2XX", "4XX")
		if code[1] == WildcardChar && code[2] == WildcardChar {
			firstChar := code[0]
			if firstChar >= minWildcardBoundary && firstChar <= maxWildcardBoundary {
				return true
			}
		}

		// Check for numeric codes
		if code[0] >= '0' && code[0] <= '9' &&
			code[1] >= '0' && code[1] <= '9' &&
			code[2] >= '0' && code[2] <= '9' {
			statusCode, err := strconv.Atoi(code)
			if err == nil && statusCode >= MinStatusCode && statusCode <= MaxStatusCode {
				return true
			}
		}
	}

	return false
}

// IsSuccessCode reports whether code is a 2xx code or the "2XX" wildcard.
func IsSuccessCode(code string) bool {
	return len(code) == StatusCodeLength && code[0] == '2' && ValidateStatusCode(code)
}

// StatusCodeLess orders numeric codes ascending, then other codes
// lexically, with "default" last.
func StatusCodeLess(a, b string) bool {
	if a == "default" || b == "default" {
		return b == "default" && a != "default"
	}
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}

// IsValidMediaType validates a media type string according to RFC 2045/2046.
// Handles wildcards (*/* and type/*) and prevents invalid combinations (*/subtype).
func IsValidMediaType(mediaType string) bool {
	if mediaType == "*/*" {
		return true
	}

	if strings.HasSuffix(mediaType, "/*") {
		// Check format: type/* (e.g., application/*)
		parts := strings.Split(mediaType, "/")
		if len(parts) == 2 && parts[0] != "" && parts[0] != "*" {
			return true
		}
		return false
	}

	// Use standard MIME type parser for regular types
	_, _, err := mime.ParseMediaType(mediaType)
	return err == nil
}
