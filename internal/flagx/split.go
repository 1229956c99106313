// Package flagx tokenises interactive command lines.
package flagx

import (
	"errors"
	"strings"
)

// ErrUnterminatedQuote is returned by Split when a quote is never closed.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// Split breaks line into arguments the way a shell would for simple input:
// whitespace separates tokens, single or double quotes group words, and a
// backslash escapes the next character outside single quotes.
//
//	add 14-10-26 "Acme Corp" Denmark  ->  [add 14-10-26 Acme Corp Denmark]
func Split(line string) ([]string, error) {
	args := make([]string, 0, 4)
	var (
		cur     strings.Builder
		inToken bool
		quote   rune
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inToken = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}

	if quote != 0 || escaped {
		return nil, ErrUnterminatedQuote
	}
	if inToken {
		args = append(args, cur.String())
	}
	return args, nil
}
