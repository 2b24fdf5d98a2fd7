package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// OutputFormat selects how an expansion result is written.
type OutputFormat int

const (
	OutputNative OutputFormat = iota
	OutputJSON
	OutputYAML
)

var outputFormatName = map[OutputFormat]string{
	OutputNative: "native",
	OutputJSON:   "json",
	OutputYAML:   "yaml",
}

// String returns the lowercase name of the format.
func (f OutputFormat) String() string {
	if name, ok := outputFormatName[f]; ok {
		return name
	}

	return "format(" + strconv.Itoa(int(f)) + ")"
}

// OutputFormats returns the names of all output formats.
func OutputFormats() []string {
	return []string{"native", "json", "yaml"}
}

// ParseOutputFormat returns the format with the given name.
func ParseOutputFormat(name string) (OutputFormat, error) {
	for f, n := range outputFormatName {
		if strings.EqualFold(n, name) {
			return f, nil
		}
	}

	return 0, ErrInvalidFormat.With(slog.String("format", name))
}

// FormatResult writes result to w in the given format. A positive indent
// selects multi-line JSON and block-style YAML; native output is always a
// single line.
func FormatResult(
	ctx context.Context,
	w io.Writer,
	result []any,
	format OutputFormat,
	indent int,
) error {
	if result == nil {
		result = []any{}
	}

	switch format {
	case OutputNative:
		_, err := fmt.Fprintln(w, native(result))

		return err

	case OutputJSON:
		var (
			data []byte
			err  error
		)

		if indent > 0 {
			data, err = json.MarshalIndent(result, "", strings.Repeat(" ", indent))
		} else {
			data, err = json.Marshal(result)
		}

		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, string(data))

		return err

	case OutputYAML:
		var opts []yaml.EncodeOption
		if indent > 0 {
			opts = append(opts, yaml.Indent(indent))
		} else {
			opts = append(opts, yaml.Flow(true))
		}

		data, err := yaml.MarshalContext(ctx, result, opts...)
		if err != nil {
			return err
		}

		_, err = fmt.Fprint(w, string(data))

		return err

	default:
		return ErrInvalidFormat.With(slog.String("format", format.String()))
	}
}

// native renders v in expression syntax, so that a rendered result can be
// pasted back as a list literal.
func native(v any) string {
	if v == nil {
		return "nil"
	}

	switch x := v.(type) {
	case string:
		return strconv.Quote(x)
	case fmt.Stringer:
		return strconv.Quote(x.String())
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		part := make([]string, rv.Len())
		for i := range part {
			part[i] = native(rv.Index(i).Interface())
		}

		return "[" + strings.Join(part, ", ") + "]"

	case reflect.Map:
		keys := make([]string, 0, rv.Len())
		vals := make(map[string]string, rv.Len())

		for it := rv.MapRange(); it.Next(); {
			k := fmt.Sprint(it.Key().Interface())
			keys = append(keys, k)
			vals[k] = native(it.Value().Interface())
		}

		slices.Sort(keys)

		part := make([]string, len(keys))
		for i, k := range keys {
			part[i] = strconv.Quote(k) + ": " + vals[k]
		}

		return "{" + strings.Join(part, ", ") + "}"

	default:
		return fmt.Sprint(v)
	}
}
