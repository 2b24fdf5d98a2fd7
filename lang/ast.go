package lang

//go:generate go tool stringer --linecomment --type Kind --output ast_string.go

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Position identifies a location in source text.
type Position struct {
	Offset int // byte offset, 0-based
	Line   int // 1-based
	Column int // 1-based, counted in runes
}

// String returns the position as "line:column".
func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Kind distinguishes value items from spread items.
type Kind int

const (
	KindValue  Kind = iota // value
	KindSpread             // spread
)

// Item is one element of a [List].
// Source holds the expression text with the spread marker and any comments
// removed.
type Item struct {
	Kind   Kind
	Source string
	Pos    Position
}

// IsSpread reports whether the item splices a sequence.
func (i Item) IsSpread() bool { return i.Kind == KindSpread }

// String returns the item in canonical form.
func (i Item) String() string {
	if i.IsSpread() {
		return "@" + i.Source
	}

	return i.Source
}

// List is a parsed list literal.
type List struct {
	Items     []Item
	Bracketed bool // input was enclosed in '[' ... ']'
}

// Len returns the number of items.
func (l *List) Len() int {
	if l == nil {
		return 0
	}

	return len(l.Items)
}

// HasSpread reports whether any item is a spread item.
func (l *List) HasSpread() bool {
	if l == nil {
		return false
	}

	for _, it := range l.Items {
		if it.IsSpread() {
			return true
		}
	}

	return false
}

// Format writes the list in canonical form to w. With indent 0 the list is
// written on one line as "[a, @b, c]". Otherwise each item is written on its
// own line, indented by indent spaces and followed by a comma.
func (l *List) Format(w io.Writer, indent int) error {
	items := l.items()

	if indent <= 0 || len(items) == 0 {
		_, err := fmt.Fprintln(w, l.String())

		return err
	}

	if _, err := fmt.Fprintln(w, "["); err != nil {
		return err
	}

	pad := strings.Repeat(" ", indent)

	for _, it := range items {
		if _, err := fmt.Fprint(w, pad, it.String(), ",\n"); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintln(w, "]")

	return err
}

// String returns the canonical one-line form "[a, @b, c]".
func (l *List) String() string {
	var sb strings.Builder

	sb.WriteByte('[')

	for i, it := range l.items() {
		if i > 0 {
			sb.WriteString(", ")
		}

		sb.WriteString(it.String())
	}

	sb.WriteByte(']')

	return sb.String()
}

func (l *List) items() []Item {
	if l == nil {
		return nil
	}

	return l.Items
}
