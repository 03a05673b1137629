package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Makepad-fr/dailytask/internal/clock"
	"github.com/Makepad-fr/dailytask/internal/model"
	"github.com/Makepad-fr/dailytask/internal/store/jsonstore"
	"github.com/Makepad-fr/dailytask/internal/store/kv"
	"github.com/Makepad-fr/dailytask/internal/task"
	"github.com/Makepad-fr/dailytask/internal/ui"
)

type harness struct {
	env    Env
	js     *jsonstore.Store
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newHarness(t *testing.T, opt Options) *harness {
	t.Helper()
	ui.SetTheme("mono")
	t.Cleanup(func() { ui.SetTheme("classic") })

	now := time.Date(2025, 10, 19, 14, 0, 0, 0, time.UTC)
	c := clock.Func(func() time.Time {
		now = now.Add(time.Minute)
		return now
	})
	js := jsonstore.New(kv.NewFileSlot(t.TempDir()))
	store, err := task.New(js, task.WithClock(c), task.WithLocale(opt.Locale))
	if err != nil {
		t.Fatalf("task.New: %v", err)
	}
	h := &harness{js: js, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	h.env = Env{
		Store:  store,
		Stdout: h.stdout,
		Stderr: h.stderr,
		Opt:    opt,
	}
	return h
}

func (h *harness) run(args ...string) int {
	h.stdout.Reset()
	h.stderr.Reset()
	return Run(args, h.env)
}

func (h *harness) persisted(t *testing.T) model.List {
	t.Helper()
	l, err := h.js.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	return l
}

func TestAddDoneEditRm(t *testing.T) {
	h := newHarness(t, Options{Locale: "en"})

	if code := h.run("add", "Buy", "milk"); code != 0 {
		t.Fatalf("add: exit %d, stderr %q", code, h.stderr)
	}
	if !strings.Contains(h.stdout.String(), "added") {
		t.Errorf("add output: %q", h.stdout)
	}
	h.run("add", "Call mom")

	if code := h.run("done", "1"); code != 0 {
		t.Fatalf("done: exit %d", code)
	}
	if code := h.run("edit", "1", "Buy", "oat", "milk"); code != 0 {
		t.Fatalf("edit: exit %d", code)
	}

	l := h.persisted(t)
	if len(l) != 2 || l[0].Text != "Buy oat milk" || !l[0].Completed || l[0].UpdatedAt == nil {
		t.Fatalf("persisted after edit: %+v", l)
	}

	if code := h.run("rm", "1"); code != 0 {
		t.Fatalf("rm: exit %d", code)
	}
	l = h.persisted(t)
	if len(l) != 1 || l[0].Text != "Call mom" {
		t.Errorf("persisted after rm: %+v", l)
	}
}

func TestUsageErrors(t *testing.T) {
	h := newHarness(t, Options{})
	h.run("add", "only")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no args", nil, "Usage:"},
		{"unknown", []string{"frobnicate"}, "unknown subcommand"},
		{"add without text", []string{"add"}, "usage: dailytask add"},
		{"add blank", []string{"add", "  "}, "empty text"},
		{"done not a number", []string{"done", "x"}, "not a number"},
		{"done out of range", []string{"done", "5"}, "index out of range: have 1, got 5"},
		{"rm zero", []string{"rm", "0"}, "index out of range"},
		{"edit missing text", []string{"edit", "1"}, "usage: dailytask edit"},
		{"edit blank", []string{"edit", "1", " "}, "empty text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := h.run(tt.args...); code != 2 {
				t.Errorf("exit: got %d, want 2", code)
			}
			if !strings.Contains(h.stderr.String(), tt.want) {
				t.Errorf("stderr missing %q:\n%s", tt.want, h.stderr)
			}
		})
	}

	l := h.persisted(t)
	if len(l) != 1 || l[0].Text != "only" || l[0].UpdatedAt != nil {
		t.Errorf("usage errors changed the list: %+v", l)
	}
}

func TestHelp(t *testing.T) {
	h := newHarness(t, Options{})
	if code := h.run("help"); code != 0 {
		t.Errorf("help exit: %d", code)
	}
	if !strings.Contains(h.stdout.String(), "dailytask add") {
		t.Errorf("help text: %q", h.stdout)
	}
}

func TestList(t *testing.T) {
	h := newHarness(t, Options{Locale: "en"})
	h.run("ls")
	if !strings.Contains(h.stdout.String(), "no tasks") {
		t.Errorf("empty ls:\n%s", h.stdout)
	}

	h.run("add", "A")
	h.run("add", "B")
	h.run("done", "2")
	h.run("edit", "1", "A2")

	if code := h.run("ls"); code != 0 {
		t.Fatalf("ls exit %d", code)
	}
	out := h.stdout.String()
	for _, want := range []string{" 1. [ ] A2", " 2. [x] B", "created: ", "updated: ", "x 1", "- 1", "Total 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("ls missing %q:\n%s", want, out)
		}
	}
}

func TestListGroupedKeepsIndexes(t *testing.T) {
	h := newHarness(t, Options{Group: true, Locale: "en"})
	h.run("add", "A")
	h.run("add", "B")
	h.run("add", "C")
	h.run("done", "1")

	h.run("ls")
	out := h.stdout.String()

	pending := strings.Index(out, "Pending")
	done := strings.Index(out, "Done")
	if pending < 0 || done < 0 || pending > done {
		t.Fatalf("group headers missing or out of order:\n%s", out)
	}
	if i := strings.Index(out, " 1. [x] A"); i < done {
		t.Errorf("done task not under Done with its original index:\n%s", out)
	}
	if i := strings.Index(out, " 3. [ ] C"); i < pending || i > done {
		t.Errorf("pending task C misplaced:\n%s", out)
	}
}

func TestUIUsesInjectedRunner(t *testing.T) {
	h := newHarness(t, Options{Locale: "en"})
	var gotLocale string
	h.env.Interactive = func(s *task.Store, locale string) error {
		gotLocale = locale
		s.Create("from ui")
		return nil
	}
	if code := h.run("ui"); code != 0 {
		t.Fatalf("ui exit %d", code)
	}
	if gotLocale != "en" {
		t.Errorf("locale: got %q", gotLocale)
	}
	if l := h.persisted(t); len(l) != 1 {
		t.Errorf("ui changes not persisted: %+v", l)
	}

	h.env.Interactive = func(*task.Store, string) error { return errors.New("no tty") }
	if code := h.run("ui"); code != 1 {
		t.Errorf("ui failure exit: got %d, want 1", code)
	}
}

func TestSaveFailureExitCode(t *testing.T) {
	h := newHarness(t, Options{})
	store, err := task.New(failingPersister{})
	if err != nil {
		t.Fatal(err)
	}
	h.env.Store = store

	if code := h.run("add", "x"); code != 1 {
		t.Errorf("exit: got %d, want 1", code)
	}
	if !strings.Contains(h.stderr.String(), "save: read-only") {
		t.Errorf("stderr: %q", h.stderr)
	}
}

type failingPersister struct{}

func (failingPersister) Load() (model.List, error) { return nil, nil }
func (failingPersister) Save(model.List) error { return errors.New("read-only") }
