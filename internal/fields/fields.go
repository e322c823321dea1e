// Package fields splits comma-separated script lines into arguments.
package fields

import "strings"

const (
	separator = ','
	quote     = '"'
)

// Split splits text on commas. Commas inside a double-quoted region belong
// to the field; the quote characters themselves are dropped.
func Split(text string) []string {
	var (
		out     []string
		field   strings.Builder
		inQuote bool
	)

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == quote:
			inQuote = !inQuote
		case c == separator && !inQuote:
			out = append(out, field.String())
			field.Reset()
		default:
			field.WriteByte(c)
		}
	}
	return append(out, field.String())
}

// First returns the field before the first comma outside quotes. It is used
// to dispatch on a line's keyword without splitting the whole line.
func First(text string) string {
	inQuote := false
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case quote:
			inQuote = !inQuote
		case separator:
			if !inQuote {
				return strings.ReplaceAll(text[:i], `"`, "")
			}
		}
	}
	return strings.ReplaceAll(text, `"`, "")
}
