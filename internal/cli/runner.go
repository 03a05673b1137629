package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Makepad-fr/dailytask/internal/clock"
	"github.com/Makepad-fr/dailytask/internal/model"
	"github.com/Makepad-fr/dailytask/internal/task"
	"github.com/Makepad-fr/dailytask/internal/tui"
	"github.com/Makepad-fr/dailytask/internal/ui"
)

// Options tune output behavior from root flags.
type Options struct {
	Group  bool   // list grouped by pending/done
	Locale string // stamp labels
}

// Env is everything a subcommand touches.
type Env struct {
	Store  *task.Store
	Stdout io.Writer
	Stderr io.Writer
	Opt    Options

	// Interactive runs the full-screen editor; tui.Run when nil.
	Interactive func(*task.Store, string) error
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, env Env) int {
	if len(args) == 0 {
		PrintHelp(env.Stderr)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(env.Stdout)
		return 0

	case "ui":
		return doUI(env)

	case "ls":
		return doList(env)

	case "add":
		if len(a) == 0 {
			ui.Fail(env.Stderr, "usage: dailytask add <text...>")
			return 2
		}
		return doAdd(env, strings.Join(a, " "))

	case "done":
		if len(a) != 1 {
			ui.Fail(env.Stderr, "usage: dailytask done <index>")
			return 2
		}
		t, code := resolve(env, "done", a[0])
		if code != 0 {
			return code
		}
		env.Store.ToggleComplete(t.ID)
		return finish(env, "toggled")

	case "edit":
		if len(a) < 2 {
			ui.Fail(env.Stderr, "usage: dailytask edit <index> <text...>")
			return 2
		}
		t, code := resolve(env, "edit", a[0])
		if code != 0 {
			return code
		}
		if !env.Store.Update(t.ID, strings.Join(a[1:], " ")) {
			ui.Fail(env.Stderr, "edit: empty text")
			return 2
		}
		return finish(env, "updated")

	case "rm":
		if len(a) != 1 {
			ui.Fail(env.Stderr, "usage: dailytask rm <index>")
			return 2
		}
		t, code := resolve(env, "rm", a[0])
		if code != 0 {
			return code
		}
		env.Store.Delete(t.ID)
		return finish(env, "removed")
	}

	ui.Fail(env.Stderr, "unknown subcommand: "+cmd)
	fmt.Fprintln(env.Stderr)
	PrintHelp(env.Stderr)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `dailytask - a tiny daily to-do list

Usage:
  dailytask [flags] <subcommand> [args]

Subcommands:
  ui                       Interactive editor
  add <text...>            Add a new task (text can be multiple words)
  ls                       List tasks
  done <index>             Toggle done for the task at 1-based index
  edit <index> <text...>   Replace the text of the task at 1-based index
  rm <index>               Remove the task at 1-based index

Flags:
  -config, -data-dir, -key, -locale, -theme, -storage, -dsn,
  -log-level, -log-file, -group

Examples:
  dailytask add "Buy milk"
  dailytask ls
  dailytask done 2
  dailytask edit 2 "Buy oat milk"
  dailytask rm 3
`)
}

// -------------- subcommand impls ----------------

func doUI(env Env) int {
	run := env.Interactive
	if run == nil {
		run = tui.Run
	}
	if err := run(env.Store, env.Opt.Locale); err != nil {
		ui.Fail(env.Stderr, "ui: "+err.Error())
		return 1
	}
	if err := env.Store.Err(); err != nil {
		ui.Fail(env.Stderr, "save: "+err.Error())
		return 1
	}
	return 0
}

func doList(env Env) int {
	items := env.Store.Tasks()
	th := ui.Current()

	d, p := items.Stats()
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		th.Title.Render("Daily Task"),
		th.Success.Render(th.SymDone), d,
		th.Pending.Render(th.SymPending), p,
		th.Accent.Render("Total"), len(items),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, th.Muted.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if env.Opt.Group {
		lines = append(lines, groupLines(items, env.Opt.Locale)...)
	} else {
		lines = append(lines, flatLines(items, env.Opt.Locale)...)
	}
	lines = append(lines, "")
	lines = append(lines, th.Muted.Render("Tip: add with `dailytask add \"Buy milk\"`"))
	ui.Panel(env.Stdout, lines)
	return 0
}

func doAdd(env Env, text string) int {
	if _, ok := env.Store.Create(text); !ok {
		ui.Fail(env.Stderr, "add: empty text")
		return 2
	}
	return finish(env, "added")
}

// resolve maps a 1-based index from the command line to its task.
func resolve(env Env, cmd, arg string) (model.Task, int) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		ui.Fail(env.Stderr, cmd+": not a number: "+arg)
		return model.Task{}, 2
	}
	items := env.Store.Tasks()
	if n < 1 || n > len(items) {
		ui.Fail(env.Stderr, fmt.Sprintf("index out of range: have %d, got %d", len(items), n))
		ui.Hint(env.Stderr, "Hint: run `dailytask ls` to see valid indexes")
		return model.Task{}, 2
	}
	return items[n-1], 0
}

// finish reports the outcome of a mutation, including a failed save.
func finish(env Env, msg string) int {
	if err := env.Store.Err(); err != nil {
		ui.Fail(env.Stderr, "save: "+err.Error())
		return 1
	}
	ui.OK(env.Stdout, msg)
	return 0
}

// -------------- rendering helpers --------------

type numbered struct {
	n int
	t model.Task
}

func number(items model.List) []numbered {
	out := make([]numbered, len(items))
	for i, t := range items {
		out[i] = numbered{n: i + 1, t: t}
	}
	return out
}

func flatLines(items model.List, locale string) []string {
	if len(items) == 0 {
		return []string{ui.Current().Muted.Render("no tasks")}
	}
	return renderLines(number(items), locale)
}

func renderLines(rows []numbered, locale string) []string {
	th := ui.Current()
	createdLabel, updatedLabel := clock.Labels(locale)

	out := make([]string, 0, len(rows)*2)
	for _, r := range rows {
		box := th.Muted.Render(th.BoxUnchecked)
		text := r.t.Text
		if rs := []rune(text); len(rs) > 80 {
			text = string(rs[:77]) + "..."
		}
		if r.t.Completed {
			box = th.Success.Render(th.BoxChecked)
			text = th.Done.Render(text)
		}
		out = append(out, fmt.Sprintf("%s %s %s", th.Muted.Render(fmt.Sprintf("%2d.", r.n)), box, text))

		stamp := createdLabel + ": " + r.t.CreatedAt
		if r.t.UpdatedAt != nil {
			stamp += "  " + updatedLabel + ": " + *r.t.UpdatedAt
		}
		out = append(out, "      "+th.Muted.Render(stamp))
	}
	return out
}

// groupLines keeps each task's list index so done/edit/rm still apply.
func groupLines(items model.List, locale string) []string {
	var pend, done []numbered
	for _, r := range number(items) {
		if r.t.Completed {
			done = append(done, r)
		} else {
			pend = append(pend, r)
		}
	}
	th := ui.Current()
	var lines []string
	lines = append(lines, th.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, th.Muted.Render("(none)"))
	} else {
		lines = append(lines, renderLines(pend, locale)...)
	}
	lines = append(lines, "")
	lines = append(lines, th.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, th.Muted.Render("(none)"))
	} else {
		lines = append(lines, renderLines(done, locale)...)
	}
	return lines
}
