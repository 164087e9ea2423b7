package command

import "strings"

// Builder renders a command template against a test case path. The template
// is a fixed token list; every occurrence of the placeholder symbol inside a
// token is replaced with the path. A template with no placeholder gets the
// path appended as its final argument.
type Builder struct {
	symbol string
}

// NewBuilder creates a Builder for the given placeholder symbol.
func NewBuilder(symbol string) *Builder {
	if symbol == "" {
		symbol = "@"
	}
	return &Builder{symbol: symbol}
}

// Split tokenizes a raw command template on whitespace.
func Split(template string) []string {
	return strings.Fields(template)
}

// Build substitutes the test path into the template tokens. The input slice
// is never modified, so one template is safe to share across workers.
func (b *Builder) Build(template []string, path string) []string {
	argv := make([]string, 0, len(template)+1)
	substituted := false
	for _, tok := range template {
		if strings.Contains(tok, b.symbol) {
			tok = strings.ReplaceAll(tok, b.symbol, path)
			substituted = true
		}
		argv = append(argv, tok)
	}
	if !substituted {
		argv = append(argv, path)
	}
	return argv
}

// Line renders argv as the shell line that will run.
func Line(argv []string) string {
	return strings.Join(argv, " ")
}
