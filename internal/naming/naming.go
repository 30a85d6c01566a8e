package naming

import (
	"go/token"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// title upper-cases the first letter of a word and leaves the rest alone,
// so acronyms such as "API" survive. A Caser holds state, so each call gets
// its own.
func title(w string) string {
	return cases.Title(language.Und, cases.NoLower).String(w)
}

// Words splits s into words.
// Example: "get_user-by.id" -> [get user by id]
// Example: "HTTPServerV2" -> [HTTP Server V2]
func Words(s string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := cur[len(cur)-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()
	return words
}

// ToPascalCase joins the words of s with each word's first letter upper-cased.
// Example: "user_profile" -> "UserProfile"
// Example: "API" -> "API"
func ToPascalCase(s string) string {
	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(title(w))
	}
	return b.String()
}

// ToCamelCase is ToPascalCase with the first word lower-cased.
// Example: "UserProfile" -> "userProfile"
// Example: "APIClient" -> "apiClient"
func ToCamelCase(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(strings.ToLower(words[0]))
	for _, w := range words[1:] {
		b.WriteString(title(w))
	}
	return b.String()
}

// ToSnakeCase joins the lower-cased words of s with underscores.
// Example: "APIClient" -> "api_client"
func ToSnakeCase(s string) string {
	return joinLower(s, "_")
}

// ToKebabCase joins the lower-cased words of s with hyphens.
// Example: "UserProfile" -> "user-profile"
func ToKebabCase(s string) string {
	return joinLower(s, "-")
}

func joinLower(s, sep string) string {
	words := Words(s)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, sep)
}

// ToTitleCase upper-cases the first letter of s.
// Example: "hello" -> "Hello"
func ToTitleCase(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return ""
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// TrimSuffixFold removes suffix from s, ignoring case, unless that would
// leave s empty.
// Example: ("UsersController", "controller") -> "Users"
func TrimSuffixFold(s, suffix string) string {
	if len(s) <= len(suffix) || !strings.EqualFold(s[len(s)-len(suffix):], suffix) {
		return s
	}
	return s[:len(s)-len(suffix)]
}

// ToIdentifier converts s to a valid Go identifier, exported or not.
// Identifiers starting with a digit get a letter prefix and Go keywords get
// a trailing underscore.
// Example: ("404", true) -> "V404"
// Example: ("type", false) -> "type_"
func ToIdentifier(s string, exported bool) string {
	var id string
	if exported {
		id = ToPascalCase(s)
	} else {
		id = ToCamelCase(s)
	}
	if id == "" {
		if exported {
			return "X"
		}
		return "x"
	}
	if r, _ := utf8.DecodeRuneInString(id); unicode.IsDigit(r) {
		if exported {
			id = "V" + id
		} else {
			id = "v" + id
		}
	}
	if token.IsKeyword(id) {
		id += "_"
	}
	return id
}
