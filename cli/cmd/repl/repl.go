package repl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"maps"
	"path/filepath"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/vecu/lang"
	"github.com/ardnew/vecu/log"
)

// editMsg is sent when editing in the external editor completes.
type editMsg struct {
	source string
	err    error
}

const prompt = "➜ "

func helpMessage() string {
	return `
Type a list literal to expand it, e.g. [0, 1, @xs, 4,]

Commands:

  :help    Print this message
  :env     List environment names and their types
  :edit    Edit the current input in $EDITOR
  :clear   Clear screen
  :quit    Exit REPL

Keys:
  Tab / Shift-Tab   cycle through completion candidates
  Up / Down         navigate history
  Ctrl+C on an empty line or Ctrl+D to exit
`
}

// Styles.
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
)

// Config holds what the REPL evaluates against.
type Config struct {
	Env      map[string]any
	Elem     reflect.Type
	CacheDir string
	Logger   log.Logger
}

// model is the Bubble Tea model for the REPL.
type model struct {
	ctxFunc      func() context.Context
	input        textinput.Model
	env          map[string]any
	opts         []lang.Option
	logger       log.Logger
	history      *History
	historyIdx   int
	matches      fuzzy.Matches
	wordStart    int
	wordEnd      int
	suggIdx      int
	tabActive    bool
	preTabText   string
	preTabCursor int
	width        int
	quitting     bool
}

// Run starts the REPL.
func Run(ctx context.Context, cfg Config) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	cfg.Logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cfg.CacheDir),
		slog.Int("env_count", len(cfg.Env)))

	history := NewHistory(filepath.Join(cfg.CacheDir, baseHistory))
	if err := history.Load(); err != nil {
		cfg.Logger.WarnContext(ctx, "could not load history", slog.Any("error", err))
	}

	p := tea.NewProgram(newModel(ctx, cfg, history), tea.WithContext(ctx))
	_, err = p.Run()

	return err
}

const defaultWidth = 80

func newModel(ctx context.Context, cfg Config, history *History) model {
	ti := textinput.New()
	ti.Prompt = promptStyle.Render(prompt)
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = defaultWidth

	return model{
		ctxFunc: func() context.Context { return ctx },
		input:   ti,
		env:     cfg.Env,
		opts: []lang.Option{
			lang.WithEnv(cfg.Env),
			lang.WithElemType(cfg.Elem),
			lang.WithLogger(cfg.Logger),
		},
		logger:     cfg.Logger,
		history:    history,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd {
	return textinput.Blink
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - len(prompt) - 2

		return m, nil

	case editMsg:
		if msg.err != nil {
			return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
		}

		m.input.SetValue(msg.source)
		m.input.CursorEnd()

		return m, nil
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.input.View())
	b.WriteString("\n")

	input := m.input.Value()

	switch {
	case m.historyIdx < m.history.Len():
		hint := fmt.Sprintf("%s/%d",
			lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx+1)),
			m.history.Len())
		b.WriteString(hintStyle.Render(hint))

	case strings.TrimSpace(input) == "":
		b.WriteString(hintStyle.Render("Type a list literal, or :help for commands"))

	case len(m.matches) > 0:
		b.WriteString(renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width))
	}

	b.WriteString("\n")

	return b.String()
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl keypress",
		slog.String("key", msg.String()))

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.input.SetValue("")
		m.tabActive = false
		m.historyIdx = m.history.Len()
		refreshMatches(&m)

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			refreshMatches(&m)

			return m, nil
		}

		return m.executeInput()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.historyStep(-1), nil

	case tea.KeyDown:
		return m.historyStep(1), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m)
		}

		return m, nil
	}

	var cmd tea.Cmd

	m.tabActive = false
	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m)

	return m, cmd
}

// cycle moves the tab selection by step and writes the selected candidate
// into the input.
func (m model) cycle(step int) model {
	if len(m.matches) == 0 {
		return m
	}

	if len(m.matches) == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
		m.suggIdx = -1

		if step < 0 {
			m.suggIdx = 0
		}
	}

	m.suggIdx = (m.suggIdx + step + len(m.matches)) % len(m.matches)
	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord replaces the current word in the input with replacement
// and moves the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()
	cursor := m.wordStart + len(replacement)

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.input.SetCursor(cursor)

	m.wordEnd = cursor
}

// refreshMatches recomputes fuzzy matches for the current input state.
func refreshMatches(m *model) {
	m.matches, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}
}

func (m model) historyStep(step int) model {
	idx := m.historyIdx + step
	if idx < 0 || idx > m.history.Len() {
		return m
	}

	m.historyIdx = idx
	m.tabActive = false

	line, err := m.history.GetLine(idx)
	if err != nil {
		line = ""
	}

	m.input.SetValue(line)
	m.input.CursorEnd()
	m.matches = nil

	return m
}

func (m model) executeInput() (model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	if _, err := m.history.Write(input); err != nil {
		m.logger.WarnContext(m.ctxFunc(), "could not write history",
			slog.Any("error", err))
	}

	m.historyIdx = m.history.Len()
	m.matches = nil

	echo := tea.Println(promptStyle.Render(prompt) + inputStyle.Render(input))

	if name, ok := strings.CutPrefix(input, commandPrefix); ok {
		return m.executeCommand(strings.TrimSpace(name), echo)
	}

	m.input.SetValue("")

	out, err := m.eval(input)
	if err != nil {
		m.logger.TraceContext(m.ctxFunc(), "repl eval failed",
			slog.Any("error", err))

		return m, tea.Sequence(echo,
			tea.Println(errorStyle.Render("error: "+err.Error())))
	}

	return m, tea.Sequence(echo, tea.Println(resultStyle.Render(out)))
}

// eval expands input and renders the result in native syntax.
func (m model) eval(input string) (string, error) {
	ctx := m.ctxFunc()

	prog, err := lang.CompileString(ctx, input, m.opts...)
	if err != nil {
		return "", err
	}

	result, err := prog.Run(ctx, m.env)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer

	if err := lang.FormatResult(ctx, &buf, result, lang.OutputNative, 0); err != nil {
		return "", err
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (m model) executeCommand(name string, echo tea.Cmd) (model, tea.Cmd) {
	m.logger.TraceContext(m.ctxFunc(), "repl command", slog.String("command", name))

	switch name {
	case "q", "quit", "exit":
		m.quitting = true

		return m, tea.Sequence(echo, tea.Quit)

	case "h", "help":
		m.input.SetValue("")

		return m, tea.Sequence(echo, tea.Println(helpMessage()))

	case "env":
		m.input.SetValue("")

		return m, tea.Sequence(echo, tea.Println(envListing(m.env)))

	case "c", "clear":
		m.input.SetValue("")

		return m, tea.ClearScreen

	case "e", "edit":
		source := m.preEditSource()
		m.input.SetValue("")

		return m, tea.Sequence(echo, editSource(m.ctxFunc(), source, m.logger))

	default:
		m.input.SetValue("")

		return m, tea.Println(
			errorStyle.Render("unknown command: " + name + " (try :help)"))
	}
}

// preEditSource returns the most recent list literal from history, which
// seeds the editor.
func (m model) preEditSource() string {
	entries := m.history.Entries()

	for _, e := range slices.Backward(entries) {
		if !strings.HasPrefix(e, commandPrefix) {
			return e
		}
	}

	return ""
}

// envListing renders the environment names and their types, sorted by name.
func envListing(env map[string]any) string {
	if len(env) == 0 {
		return hintStyle.Render("(empty environment)")
	}

	names := slices.Sorted(maps.Keys(env))
	width := 0

	for _, name := range names {
		width = max(width, len(name))
	}

	var b strings.Builder

	for _, name := range names {
		fmt.Fprintf(&b, "%-*s  %s\n", width, name, hintStyle.Render(typeName(env[name])))
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}

	return reflect.TypeOf(v).String()
}
