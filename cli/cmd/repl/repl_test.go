package repl

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func testModel(t *testing.T, env map[string]any, elem reflect.Type) model {
	t.Helper()

	h := NewHistory(filepath.Join(t.TempDir(), baseHistory))

	return newModel(t.Context(), Config{Env: env, Elem: elem}, h)
}

func TestModel_Eval(t *testing.T) {
	env := map[string]any{"xs": []any{2, 3}}

	tests := []struct {
		input string
		want  string
	}{
		{"[]", "[]"},
		{"[0, 1, @xs, 4, 5]", "[0, 1, 2, 3, 4, 5]"},
		{"[0, 1, @xs, 4, 5,]", "[0, 1, 2, 3, 4, 5]"},
		{`["a", @["b"]]`, `["a", "b"]`},
	}

	m := testModel(t, env, nil)

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := m.eval(tt.input)
			if err != nil {
				t.Fatalf("eval(%q): %v", tt.input, err)
			}

			if got != tt.want {
				t.Errorf("eval(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestModel_EvalError(t *testing.T) {
	m := testModel(t, map[string]any{"n": 1}, nil)

	if _, err := m.eval("[@n]"); err == nil {
		t.Error("eval([@n]) succeeded, want error")
	}

	m = testModel(t, nil, reflect.TypeFor[int]())

	if _, err := m.eval(`[1, "two"]`); err == nil {
		t.Error(`eval([1, "two"]) with int elements succeeded, want error`)
	}
}

func TestModel_ExecuteInput(t *testing.T) {
	m := testModel(t, nil, nil)
	m.input.SetValue("[1, 2]")

	m, cmd := m.executeInput()
	if cmd == nil {
		t.Fatal("executeInput returned nil command")
	}

	if m.input.Value() != "" {
		t.Errorf("input = %q, want cleared", m.input.Value())
	}

	if got := m.history.Entries(); len(got) != 1 || got[0] != "[1, 2]" {
		t.Errorf("history = %v", got)
	}

	m.input.SetValue(":quit")

	m, _ = m.executeInput()
	if !m.quitting {
		t.Error(":quit did not set quitting")
	}
}

func TestModel_TabCycle(t *testing.T) {
	m := testModel(t, map[string]any{"alpha": 1, "alps": 2}, nil)
	m.input.SetValue("[alp")
	m.input.CursorEnd()
	refreshMatches(&m)

	if len(m.matches) < 2 {
		t.Fatalf("matches = %d, want at least 2", len(m.matches))
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	first := m.input.Value()

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyTab})
	second := m.input.Value()

	if first == second {
		t.Errorf("tab did not cycle: %q", first)
	}

	m, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	if got := m.input.Value(); got != "[alp" {
		t.Errorf("after Esc input = %q, want %q", got, "[alp")
	}
}

func TestEnvListing(t *testing.T) {
	got := envListing(map[string]any{"xs": []int{1}, "b": nil})

	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("envListing lines = %d, want 2", len(lines))
	}

	if !strings.HasPrefix(lines[0], "b ") || !strings.Contains(lines[0], "nil") {
		t.Errorf("line 0 = %q", lines[0])
	}

	if !strings.HasPrefix(lines[1], "xs") || !strings.Contains(lines[1], "[]int") {
		t.Errorf("line 1 = %q", lines[1])
	}
}
