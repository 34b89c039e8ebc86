// Package email derives presentable names from addresses, for visitors who
// registered without filling in a profile name.
package email

import (
	"strings"
	"unicode"
)

// DisplayName builds a greeting-worthy name from the address local part:
// "ann.smith@example.com" becomes "Ann Smith". Returns "Visitor" when
// nothing usable is left.
func DisplayName(address string) string {
	localPart := address
	if at := strings.IndexByte(address, '@'); at > 0 {
		localPart = address[:at]
	}

	parts := strings.FieldsFunc(localPart, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || r == '+'
	})
	if len(parts) == 0 {
		return "Visitor"
	}

	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
