package lang

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/file"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/vecu/log"
)

// Program is a compiled, type-checked list. It is immutable and safe for
// concurrent use.
type Program struct {
	list    *List
	items   []*vm.Program
	literal *vm.Program // set when no item is a spread
	offsets []int       // rune offset of each item within the literal source
	env     map[string]any
	types   map[string]reflect.Type
	elem    reflect.Type
	logger  log.Logger
}

// List returns the list the program was compiled from.
func (p *Program) List() *List { return p.list }

// ElemType returns the element type every item was checked against.
func (p *Program) ElemType() reflect.Type { return p.elem }

// Compile compiles every item of list and checks its static type against
// the configured element type. Either every item compiles or an error is
// returned; no partial program is produced.
func Compile(ctx context.Context, list *List, opts ...Option) (*Program, error) {
	cfg := makeConfig(opts...)

	if list == nil {
		list = &List{Items: make([]Item, 0)}
	}

	env := Builtins(cfg.env)

	prog := &Program{
		list:   list,
		items:  make([]*vm.Program, len(list.Items)),
		env:    env,
		types:  typesOf(env),
		elem:   cfg.elem,
		logger: cfg.logger,
	}

	for i, it := range list.Items {
		if it.IsSpread() && cfg.noSpread {
			return nil, itemError(ErrSpreadDisabled, i, it)
		}

		program, err := expr.Compile(it.Source, expr.Env(env), expr.Optimize(false))
		if err != nil {
			return nil, itemError(ErrExprCompile.Wrap(err), i, it)
		}

		if err := checkItem(it, program.Node(), cfg.elem); err != nil {
			return nil, itemError(err, i, it)
		}

		prog.items[i] = program
	}

	if len(list.Items) > 0 && !list.HasSpread() {
		src, offsets := literalSource(list)
		prog.offsets = offsets

		literal, err := expr.Compile(src, expr.Env(env), expr.Optimize(false))
		if err != nil {
			return nil, prog.literalError(ErrExprCompile.Wrap(err), err)
		}

		prog.literal = literal
	}

	cfg.logger.TraceContext(ctx, "compile complete",
		slog.Int("items", len(list.Items)),
		slog.String("elem", cfg.elem.String()),
		slog.Bool("literal", prog.literal != nil))

	return prog, nil
}

func itemError(err *Error, index int, it Item) *Error {
	return err.WithPosition(it.Pos).With(
		slog.Int("index", index),
		slog.String("kind", it.Kind.String()),
		slog.String("source", it.Source),
	)
}

// literalSource renders a spread-free list as a single expr-lang array and
// returns the rune offset at which each item's source begins.
func literalSource(list *List) (string, []int) {
	var sb strings.Builder

	offsets := make([]int, len(list.Items))
	runes := 0

	write := func(s string) {
		sb.WriteString(s)
		runes += utf8.RuneCountInString(s)
	}

	write("[")

	for i, it := range list.Items {
		if i > 0 {
			write(", ")
		}

		write("(")
		offsets[i] = runes
		write(it.Source)
		write(")")
	}

	write("]")

	return sb.String(), offsets
}

// literalError attributes an error raised by the literal program to the item
// whose source contains the error location. Errors without a location keep
// the whole list as their source.
func (p *Program) literalError(base *Error, err error) *Error {
	var fe *file.Error
	if errors.As(err, &fe) {
		if i := p.itemAt(fe.From); i >= 0 {
			return itemError(base, i, p.list.Items[i])
		}
	}

	return base.With(slog.String("source", p.list.String()))
}

// itemAt returns the index of the item whose literal source spans the rune
// offset at, or -1.
func (p *Program) itemAt(at int) int {
	for i := len(p.offsets) - 1; i >= 0; i-- {
		if at < p.offsets[i] {
			continue
		}

		if at <= p.offsets[i]+utf8.RuneCountInString(p.list.Items[i].Source) {
			return i
		}

		return -1
	}

	return -1
}

func typesOf(env map[string]any) map[string]reflect.Type {
	types := make(map[string]reflect.Type, len(env))
	for name, v := range env {
		types[name] = reflect.TypeOf(v)
	}

	return types
}

// checkItem verifies the static type of a compiled item against elem. With
// elem any, spreads whose static type is unknown are left to the run-time
// iterability check.
func checkItem(it Item, node ast.Node, elem reflect.Type) *Error {
	if !it.IsSpread() {
		return checkValue(staticType(node), elem)
	}

	return checkSpread(node, elem)
}

// checkSpread verifies the elements a spread produces. expr-lang types array
// literals and ranges as []interface{}, as it does the results of collection
// builtins; those forms are checked through their members or operands.
func checkSpread(node ast.Node, elem reflect.Type) *Error {
	switch n := node.(type) {
	case *ast.ArrayNode:
		for _, m := range n.Nodes {
			if err := checkValue(staticType(m), elem); err != nil {
				return err
			}
		}

		return nil

	case *ast.ConstantNode:
		if arr, ok := n.Value.([]any); ok {
			for _, v := range arr {
				if err := checkValue(reflect.TypeOf(v), elem); err != nil {
					return err
				}
			}

			return nil
		}

	case *ast.BinaryNode:
		if n.Operator == ".." {
			return checkValue(intType, elem)
		}

	case *ast.BuiltinNode:
		switch n.Name {
		case "map":
			if len(n.Arguments) == 2 {
				return checkValue(predicateType(n.Arguments[1]), elem)
			}

		case "filter", "sort", "sortBy", "reverse", "uniq", "take":
			if len(n.Arguments) > 0 {
				return checkSpread(n.Arguments[0], elem)
			}
		}
	}

	t := node.Type()

	e, ok := iterElem(t)
	if !ok {
		if isUnknown(t) {
			if elem == anyType {
				return nil
			}

			return ErrTypeUnknown.With(slog.String("want", "iterable"))
		}

		return ErrNotIterable.With(slog.String("type", typeName(t)))
	}

	return checkValue(e, elem)
}

// predicateType returns the static type of a predicate's body.
func predicateType(node ast.Node) reflect.Type {
	if p, ok := node.(*ast.PredicateNode); ok {
		return staticType(p.Node)
	}

	return node.Type()
}

// staticType returns the type of node, or nil for the nil literal.
func staticType(node ast.Node) reflect.Type {
	if _, ok := node.(*ast.NilNode); ok {
		return nil
	}

	return node.Type()
}

// checkValue reports whether a value of static type t may be stored in an
// element of type elem without conversion.
func checkValue(t, elem reflect.Type) *Error {
	switch {
	case t == nil:
		if nilable(elem) {
			return nil
		}
	case t.AssignableTo(elem):
		return nil
	case isUnknown(t):
		return ErrTypeUnknown.With(slog.String("want", elem.String()))
	}

	return ErrTypeMismatch.With(
		slog.String("want", elem.String()),
		slog.String("have", typeName(t)),
	)
}

// iterElem returns the element type of a slice, array, or iterator function
// func(func(E) bool).
func iterElem(t reflect.Type) (reflect.Type, bool) {
	if t == nil {
		return nil, false
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return t.Elem(), true
	case reflect.Func:
		if t.NumIn() != 1 || t.NumOut() != 0 {
			return nil, false
		}

		yield := t.In(0)
		if yield.Kind() != reflect.Func || yield.NumIn() != 1 ||
			yield.NumOut() != 1 || yield.Out(0).Kind() != reflect.Bool {
			return nil, false
		}

		return yield.In(0), true
	default:
		return nil, false
	}
}

func isUnknown(t reflect.Type) bool {
	return t != nil && t.Kind() == reflect.Interface
}

func nilable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Slice, reflect.Map,
		reflect.Func, reflect.Chan:
		return true
	default:
		return false
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "nil"
	}

	return t.String()
}
