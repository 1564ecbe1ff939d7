package info

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeKey folds a disease name so that case, whitespace, hyphens,
// underscores and other punctuation do not affect lookups.
func NormalizeKey(name string) string {
	name = norm.NFKC.String(name)
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// ParseItems turns a raw table cell into display items. Bracketed list
// literals such as "['Rest', \"Fluids\"]" are split on their elements;
// anything else is split on commas, semicolons and periods.
func ParseItems(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var parts []string
	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		parts = splitListLiteral(raw[1 : len(raw)-1])
	} else {
		parts = strings.FieldsFunc(raw, func(r rune) bool {
			return r == ',' || r == ';' || r == '.'
		})
	}

	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if item := cleanItem(p); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// splitListLiteral splits on commas that are not inside a quoted element.
func splitListLiteral(body string) []string {
	var (
		parts []string
		cur   strings.Builder
		quote rune
	)
	for _, r := range body {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			cur.WriteRune(r)
		case r == '\'' || r == '"':
			quote = r
			cur.WriteRune(r)
		case r == ',':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(parts, cur.String())
}

func cleanItem(s string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "[]'\" "))
}
