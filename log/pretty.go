package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Styles used for colorized output.
var (
	keyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	stringStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	numberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	trueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	falseStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	timeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	otherStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))

	levelStyle = map[slog.Level]lipgloss.Style{
		slog.Level(LevelTrace): lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		slog.Level(LevelDebug): lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		slog.Level(LevelInfo):  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		slog.Level(LevelWarn):  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		slog.Level(LevelError): lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

// prettyHandler writes colorized records, either as one line of key=value
// pairs or as an indented JSON-like object.
type prettyHandler struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	prefix string
	json   bool
}

func newPrettyHandler(w io.Writer, opts *slog.HandlerOptions, json bool) *prettyHandler {
	return &prettyHandler{opts: *opts, mu: &sync.Mutex{}, w: w, json: json}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.opts.Level != nil {
		floor = h.opts.Level.Level()
	}

	return level >= floor
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(h.attrs[:len(h.attrs):len(h.attrs)], h.qualify(attrs)...)

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	if h.prefix == "" {
		return attrs
	}

	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.prefix + a.Key, Value: a.Value}
	}

	return out
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	fields := make([]slog.Attr, 0, r.NumAttrs()+len(h.attrs)+4)

	if !r.Time.IsZero() {
		fields = append(fields, h.replace(slog.Time(slog.TimeKey, r.Time)))
	}

	fields = append(fields, slog.Any(slog.LevelKey, r.Level))

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			fields = append(fields,
				slog.String(slog.SourceKey, src.File+":"+strconv.Itoa(src.Line)))
		}
	}

	fields = append(fields, slog.String(slog.MessageKey, r.Message))
	fields = append(fields, h.attrs...)

	var extra []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		extra = append(extra, a)

		return true
	})

	fields = append(fields, h.qualify(extra)...)

	buf := new(bytes.Buffer)

	if h.json {
		h.writeObject(buf, fields)
	} else {
		h.writeLine(buf, fields)
	}

	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// replace applies the configured ReplaceAttr to built-in keys.
func (h *prettyHandler) replace(a slog.Attr) slog.Attr {
	if h.opts.ReplaceAttr == nil {
		return a
	}

	return h.opts.ReplaceAttr(nil, a)
}

func (h *prettyHandler) writeLine(buf *bytes.Buffer, fields []slog.Attr) {
	for _, a := range fields {
		if a.Key == "" {
			continue
		}

		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(keyStyle.Render(a.Key))
		buf.WriteByte('=')
		buf.WriteString(render(a.Value))
	}
}

func (h *prettyHandler) writeObject(buf *bytes.Buffer, fields []slog.Attr) {
	buf.WriteString("{")

	n := 0

	for _, a := range fields {
		if a.Key == "" {
			continue
		}

		if n > 0 {
			buf.WriteString(",")
		}

		n++

		buf.WriteString("\n  ")
		buf.WriteString(keyStyle.Render(strconv.Quote(a.Key)))
		buf.WriteString(": ")
		buf.WriteString(render(a.Value))
	}

	buf.WriteString("\n}")
}

// render styles a value by kind.
func render(v slog.Value) string {
	v = v.Resolve()

	switch v.Kind() {
	case slog.KindString:
		return stringStyle.Render(v.String())

	case slog.KindInt64, slog.KindUint64, slog.KindFloat64:
		return numberStyle.Render(v.String())

	case slog.KindBool:
		if v.Bool() {
			return trueStyle.Render("true")
		}

		return falseStyle.Render("false")

	case slog.KindDuration:
		return timeStyle.Render(v.Duration().String())

	case slog.KindTime:
		return timeStyle.Render(v.Time().Format(time.RFC3339))

	case slog.KindGroup:
		parts := make([]string, 0, len(v.Group()))
		for _, a := range v.Group() {
			parts = append(parts, keyStyle.Render(a.Key)+"="+render(a.Value))
		}

		return "{" + strings.Join(parts, " ") + "}"

	default:
		if level, ok := v.Any().(slog.Level); ok {
			name := strings.ToUpper(Level(level).String())
			if style, ok := levelStyle[level]; ok {
				return style.Render(name)
			}

			return name
		}

		return otherStyle.Render(fmt.Sprint(v.Any()))
	}
}
