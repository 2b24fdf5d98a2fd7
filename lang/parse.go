package lang

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/klauspost/readahead"
)

// ParseReader parses a list from an io.Reader.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*List, error) {
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return Parse(ctx, string(data), opts...)
}

// Parse parses a list literal.
//
// The outer brackets are optional: "1, @a, 2" and "[1, @a, 2]" are the same
// list. Input that begins with '[' is treated as bracketed only when the
// matching ']' ends the input, so "[1, 2], 3" is a two-item list whose first
// item is an array.
func Parse(ctx context.Context, s string, opts ...Option) (*List, error) {
	cfg := makeConfig(opts...)

	p := &parser{
		input:    []byte(s),
		line:     1,
		col:      1,
		noSpread: cfg.noSpread,
	}

	list, err := p.parseList()
	if err != nil {
		cfg.logger.TraceContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	cfg.logger.TraceContext(ctx, "parse complete",
		slog.Int("items", len(list.Items)),
		slog.Bool("bracketed", list.Bracketed))

	return list, nil
}

// parser holds the parser state.
type parser struct {
	input    []byte
	pos      int
	line     int
	col      int
	noSpread bool
}

// parseList parses: '[' Items? ']' | Items?.
func (p *parser) parseList() (*List, error) {
	list := &List{Items: make([]Item, 0)}

	p.skipWhitespaceAndComments()

	if p.peek() == '[' {
		bracketed, err := p.scanBracket()
		if err != nil {
			return nil, err
		}

		if bracketed {
			list.Bracketed = true

			p.advance()
		}
	}

	for {
		p.skipWhitespaceAndComments()

		if p.atListEnd(list.Bracketed) {
			break
		}

		item, err := p.parseItem(list.Bracketed)
		if err != nil {
			return nil, err
		}

		list.Items = append(list.Items, item)

		p.skipWhitespaceAndComments()

		if p.expect(',') {
			continue
		}

		if p.atListEnd(list.Bracketed) {
			break
		}

		return nil, ErrParse.WithPosition(p.position()).
			With(slog.String("expected", "','"),
				slog.String("found", string(p.peek())))
	}

	if list.Bracketed {
		pos := p.position()
		if !p.expect(']') {
			return nil, ErrParse.WithPosition(pos).
				With(slog.String("expected", "']'"))
		}

		p.skipWhitespaceAndComments()

		if !p.eof() {
			return nil, ErrParse.WithPosition(p.position()).
				With(slog.String("detail", "unexpected text after ']'"))
		}
	}

	return list, nil
}

// parseItem parses: '@' Expr | Expr.
func (p *parser) parseItem(bracketed bool) (Item, error) {
	pos := p.position()
	kind := KindValue

	if p.peek() == '@' {
		if p.noSpread {
			return Item{}, ErrSpreadDisabled.WithPosition(pos)
		}

		kind = KindSpread

		p.advance()
		p.skipWhitespaceAndComments()
	}

	source, err := p.captureExpression(bracketed)
	if err != nil {
		return Item{}, err
	}

	if source == "" {
		msg := "expected item"
		if kind == KindSpread {
			msg = "expected expression after '@'"
		}

		return Item{}, ErrParse.WithPosition(p.position()).
			With(slog.String("detail", msg))
	}

	return Item{Kind: kind, Source: source, Pos: pos}, nil
}

// atListEnd reports whether the cursor is at the end of the item sequence.
func (p *parser) atListEnd(bracketed bool) bool {
	if bracketed {
		return p.eof() || p.peek() == ']'
	}

	return p.eof()
}

// scanBracket reports whether the '[' at the cursor encloses the whole
// input. A matching ']' followed by ',' means the bracket belongs to the first
// item; anything else after it is an error. The cursor is not moved.
func (p *parser) scanBracket() (bool, error) {
	saved := *p
	defer func() { *p = saved }()

	p.advance()

	for {
		if _, err := p.captureExpression(true); err != nil {
			return false, nil //nolint:nilerr // reported again by the item parser
		}

		if !p.expect(',') {
			break
		}
	}

	if !p.expect(']') {
		return false, nil
	}

	p.skipWhitespaceAndComments()

	switch {
	case p.eof():
		return true, nil
	case p.peek() == ',':
		return false, nil
	default:
		return false, ErrParse.WithPosition(p.position()).
			With(slog.String("detail", "unexpected text after ']'"))
	}
}

// closer maps each opening delimiter to its closing delimiter.
var closer = map[rune]rune{'(': ')', '[': ']', '{': '}'}

// captureExpression captures expression text up to a top-level ',' or, in a
// bracketed list, the closing ']'. Nested (), [], {} must be balanced and
// string literals are skipped so delimiters inside them do not terminate the
// expression. Comments are removed from the returned text.
func (p *parser) captureExpression(bracketed bool) (string, error) {
	var (
		sb    strings.Builder
		stack []rune
		start = p.pos
	)

	flush := func() { sb.Write(p.input[start:p.pos]) }

	for !p.eof() {
		ch := p.peek()

		switch {
		case ch == '"' || ch == '\'' || ch == '`':
			if err := p.skipString(ch); err != nil {
				return "", err
			}

			continue

		case ch == '/' && p.peekN(2) == "//":
			flush()
			p.skipLineComment()
			sb.WriteByte(' ')
			start = p.pos

			continue

		case ch == '/' && p.peekN(2) == "/*":
			flush()
			p.skipBlockComment()
			sb.WriteByte(' ')
			start = p.pos

			continue
		}

		switch ch {
		case '(', '[', '{':
			stack = append(stack, closer[ch])

		case ')', ']', '}':
			if len(stack) == 0 {
				if ch == ']' && bracketed {
					goto done
				}

				return "", ErrParse.WithPosition(p.position()).
					With(slog.String("detail", "unbalanced '"+string(ch)+"'"))
			}

			if want := stack[len(stack)-1]; want != ch {
				return "", ErrParse.WithPosition(p.position()).
					With(slog.String("expected", "'"+string(want)+"'"),
						slog.String("found", string(ch)))
			}

			stack = stack[:len(stack)-1]

		case ',':
			if len(stack) == 0 {
				goto done
			}
		}

		p.advance()
	}

	if len(stack) > 0 {
		return "", ErrParse.WithPosition(p.position()).
			With(slog.String("expected", "'"+string(stack[len(stack)-1])+"'"))
	}

done:
	flush()

	return strings.TrimSpace(sb.String()), nil
}

// Helper methods

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRune(p.input[p.pos:])

	return r
}

func (p *parser) peekN(n int) string {
	if p.pos+n > len(p.input) {
		return string(p.input[p.pos:])
	}

	return string(p.input[p.pos : p.pos+n])
}

func (p *parser) advance() {
	if p.eof() {
		return
	}

	r, size := utf8.DecodeRune(p.input[p.pos:])

	p.pos += size
	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}
}

func (p *parser) expect(ch rune) bool {
	if !p.eof() && p.peek() == ch {
		p.advance()

		return true
	}

	return false
}

func (p *parser) eof() bool {
	return p.pos >= len(p.input)
}

func (p *parser) position() Position {
	return Position{
		Offset: p.pos,
		Line:   p.line,
		Column: p.col,
	}
}

func (p *parser) skipWhitespaceAndComments() {
	for {
		for !p.eof() && unicode.IsSpace(p.peek()) {
			p.advance()
		}

		switch p.peekN(2) {
		case "//":
			p.skipLineComment()
		case "/*":
			p.skipBlockComment()
		default:
			return
		}
	}
}

func (p *parser) skipLineComment() {
	for !p.eof() && p.peek() != '\n' {
		p.advance()
	}
}

func (p *parser) skipBlockComment() {
	p.advance() // skip '/'
	p.advance() // skip '*'

	for !p.eof() {
		if p.peekN(2) == "*/" {
			p.advance()
			p.advance()

			return
		}

		p.advance()
	}
}

func (p *parser) skipString(quote rune) error {
	pos := p.position()

	p.advance() // skip opening quote

	for !p.eof() {
		ch := p.peek()
		if ch == '\\' && quote != '`' {
			p.advance() // skip backslash

			if !p.eof() {
				p.advance() // skip escaped char
			}

			continue
		}

		if ch == quote {
			p.advance() // skip closing quote

			return nil
		}

		p.advance()
	}

	return ErrParse.WithPosition(pos).
		With(slog.String("detail", "unterminated string"))
}
