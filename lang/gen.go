package lang

import (
	"bytes"
	"fmt"
	"go/token"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"golang.org/x/tools/imports"
)

// GenOptions controls Go source emission.
type GenOptions struct {
	Name    string // identifier of the emitted variable or function; default "v"
	Elem    string // Go element type; default "any"
	Package string // when set, emit a complete file declaring func Name() []Elem
}

const genHeader = "// Code generated by vecu; DO NOT EDIT.\n\n"

// Generate writes Go source that builds list at Go compile time. Item
// sources are used verbatim as Go expressions.
//
// A list without spread items becomes a composite literal. Otherwise every
// item is evaluated once, in order, into a temporary, and the result is
// allocated with capacity for all of them and filled with append. Value
// temporaries carry the element type so untyped constants convert as they
// would in a composite literal. Spread items are appended with x..., so
// spread expressions must be slices.
//
// Without a package name the output is a single variable declaration;
// otherwise it is a complete file whose missing imports are added.
func Generate(w io.Writer, list *List, opts GenOptions) error {
	if opts.Name == "" {
		opts.Name = "v"
	}

	if opts.Elem == "" {
		opts.Elem = "any"
	}

	if !token.IsIdentifier(opts.Name) {
		return ErrGenerate.With(slog.String("name", opts.Name))
	}

	if opts.Package != "" && !token.IsIdentifier(opts.Package) {
		return ErrGenerate.With(slog.String("package", opts.Package))
	}

	var body bytes.Buffer

	if opts.Package == "" {
		fmt.Fprintf(&body, "package p\n\nvar %s = %s\n", opts.Name, genExpr(list, opts.Elem))
	} else {
		body.WriteString(genHeader)
		fmt.Fprintf(&body, "package %s\n\n", opts.Package)
		fmt.Fprintf(&body, "func %s() []%s {\n\treturn %s\n}\n",
			opts.Name, opts.Elem, genExpr(list, opts.Elem))
	}

	src, err := imports.Process("", body.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: opts.Package == "",
	})
	if err != nil {
		return ErrGenerate.Wrap(err)
	}

	if opts.Package == "" {
		src = bytes.TrimPrefix(src, []byte("package p\n\n"))
	}

	_, err = w.Write(src)

	return err
}

// genExpr returns a Go expression of type []elem equivalent to list.
func genExpr(list *List, elem string) string {
	items := list.items()

	if !list.HasSpread() {
		src := make([]string, len(items))
		for i, it := range items {
			src[i] = it.Source
		}

		return "[]" + elem + "{" + strings.Join(src, ", ") + "}"
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "func() []%s {\n", elem)

	size := make([]string, 0, len(items))
	fixed := 0

	for i, it := range items {
		tmp := "_" + strconv.Itoa(i)

		if it.IsSpread() {
			fmt.Fprintf(&sb, "%s := %s\n", tmp, it.Source)
			size = append(size, "len("+tmp+")")
		} else {
			fmt.Fprintf(&sb, "var %s %s = %s\n", tmp, elem, it.Source)
			fixed++
		}
	}

	if fixed > 0 {
		size = append([]string{strconv.Itoa(fixed)}, size...)
	}

	fmt.Fprintf(&sb, "r := make([]%s, 0, %s)\n", elem, strings.Join(size, "+"))

	for i, it := range items {
		tmp := "_" + strconv.Itoa(i)
		if it.IsSpread() {
			fmt.Fprintf(&sb, "r = append(r, %s...)\n", tmp)
		} else {
			fmt.Fprintf(&sb, "r = append(r, %s)\n", tmp)
		}
	}

	sb.WriteString("return r\n}()")

	return sb.String()
}
