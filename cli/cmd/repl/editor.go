package repl

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/exec"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/vecu/lang"
	"github.com/ardnew/vecu/log"
)

const defaultEditor = "vi"

// editIndent is the indent width of the list written to the editor.
const editIndent = 2

// editCommand implements [tea.ExecCommand]. It writes a list literal to a
// temp file, one item per line, opens the user's editor, and parses the
// result back into canonical one-line form.
type editCommand struct {
	ctx    context.Context
	source string
	result string
	logger log.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run opens the editor and parses its output. An emptied file returns
// [ErrEditDeclined].
func (c *editCommand) Run() error {
	content := c.source

	if list, err := lang.Parse(c.ctx, c.source); err == nil {
		var buf bytes.Buffer
		if list.Format(&buf, editIndent) == nil {
			content = buf.String()
		}
	}

	f, err := os.CreateTemp(os.TempDir(), "vecu-repl-*.txt")
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	if _, err := f.WriteString(content); err != nil {
		f.Close()

		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(c.ctx, editor, path)
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	if err := cmd.Run(); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEditDeclined
	}

	list, err := lang.Parse(c.ctx, string(data))

	c.logger.TraceContext(c.ctx, "editor parse attempt",
		slog.Int("content_length", len(data)),
		slog.Bool("success", err == nil))

	if err != nil {
		return err
	}

	c.result = list.String()

	return nil
}

// editSource returns a command that edits source in the external editor and
// delivers the result as an [editMsg].
func editSource(ctx context.Context, source string, logger log.Logger) tea.Cmd {
	cmd := &editCommand{ctx: ctx, source: source, logger: logger}

	return tea.Exec(cmd, func(err error) tea.Msg {
		if errors.Is(err, ErrEditDeclined) {
			return editMsg{}
		}

		return editMsg{source: cmd.result, err: err}
	})
}
