package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// skipped elements contribute no searchable text.
var skipped = map[string]bool{
	"script": true,
	"style":  true,
	"svg":    true,
}

var inline = map[string]bool{
	"a": true, "abbr": true, "b": true, "code": true, "del": true, "em": true,
	"i": true, "kbd": true, "mark": true, "s": true, "small": true, "span": true,
	"strong": true, "sub": true, "sup": true,
}

// PlainText extracts whitespace-collapsed text from an HTML fragment.
func PlainText(fragment []byte) (string, error) {
	tokenizer := html.NewTokenizer(bytes.NewReader(fragment))
	var b strings.Builder
	depth := 0
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); !errors.Is(err, io.EOF) {
				return "", fmt.Errorf("tokenize html: %w", err)
			}
			return strings.Join(strings.Fields(b.String()), " "), nil
		case html.SelfClosingTagToken:
			b.WriteByte(' ')
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			if skipped[string(name)] {
				depth++
			}
			if !inline[string(name)] {
				b.WriteByte(' ')
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			if skipped[string(name)] && depth > 0 {
				depth--
			}
			if !inline[string(name)] {
				b.WriteByte(' ')
			}
		case html.TextToken:
			if depth == 0 {
				b.Write(tokenizer.Text())
			}
		}
	}
}
