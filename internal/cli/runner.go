package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/idilsaglam/tododb/internal/model"
	"github.com/idilsaglam/tododb/internal/store"
	"github.com/idilsaglam/tododb/internal/store/jsonstore"
	"github.com/idilsaglam/tododb/internal/tui"
	"github.com/idilsaglam/tododb/internal/ui"
)

// Store is the part of the todo store the commands use. It includes what
// the interactive list needs, since the tui subcommand hands it to tui.Run.
type Store interface {
	tui.Store
	Add(ctx context.Context, t model.Todo) error
	BulkPut(ctx context.Context, todos []model.Todo) error
	Get(ctx context.Context, id string) (model.Todo, error)
	All(ctx context.Context) ([]model.Todo, error)
	Where(ctx context.Context, completed bool) ([]model.Todo, error)
}

// Options tune output behavior from root flags.
type Options struct {
	Group bool // list grouped by pending/done
}

// Runner executes subcommands against a store.
type Runner struct {
	store  Store
	opt    Options
	out    io.Writer
	errOut io.Writer
	newID  func() string
	runTUI func(ctx context.Context, todos []model.Todo) error
}

// New returns a Runner writing to stdout and stderr.
func New(st Store, opt Options) *Runner {
	return &Runner{
		store:  st,
		opt:    opt,
		out:    os.Stdout,
		errOut: os.Stderr,
		newID:  model.NewID,
		runTUI: func(ctx context.Context, todos []model.Todo) error {
			return tui.Run(ctx, st, todos)
		},
	}
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func (r *Runner) Run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		PrintHelp(r.errOut)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(r.out)
		return 0

	case "ls":
		filter, ok := parseListFilter(a)
		if !ok {
			r.fail("usage: todo ls [--pending|--done]")
			return 2
		}
		return r.doList(ctx, filter)

	case "add":
		if len(a) == 0 {
			r.fail("usage: todo add <text...>")
			return 2
		}
		return r.doAdd(ctx, strings.Join(a, " "))

	case "show", "done", "rm":
		if len(a) != 1 {
			r.fail("usage: todo " + cmd + " <index>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			r.fail(cmd + ": not a number: " + a[0])
			return 2
		}
		switch cmd {
		case "show":
			return r.doShow(ctx, n)
		case "done":
			return r.doToggle(ctx, n)
		default:
			return r.doRemove(ctx, n)
		}

	case "edit":
		if len(a) < 2 {
			r.fail("usage: todo edit <index> <text...>")
			return 2
		}
		n, err := strconv.Atoi(a[0])
		if err != nil {
			r.fail("edit: not a number: " + a[0])
			return 2
		}
		return r.doEdit(ctx, n, strings.Join(a[1:], " "))

	case "import", "export":
		if len(a) != 1 {
			r.fail("usage: todo " + cmd + " <file>")
			return 2
		}
		if cmd == "import" {
			return r.doImport(ctx, a[0])
		}
		return r.doExport(ctx, a[0])

	case "tui":
		return r.doInteractive(ctx)
	}

	r.fail("unknown subcommand: " + cmd)
	fmt.Fprintln(r.errOut)
	PrintHelp(r.errOut)
	return 2
}

// PrintHelp writes usage to w.
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `todo - a tiny CLI backed by a local database

Usage:
  todo [flags] <subcommand> [args]

Flags:
  -config <path>     Config file (TOML, or YAML by extension)
  -group             Group ls output by pending/done
  -theme <name>      classic, neon or mono

Subcommands:
  add <text...>            Add a new item (text can be multiple words)
  ls [--pending|--done]    List items
  show <index>             Show the item at 1-based index
  done <index>             Toggle done for item at 1-based index
  edit <index> <text...>   Replace the text of an item
  rm <index>               Remove item at 1-based index
  import <file>            Load items from a JSON file (todos.json)
  export <file>            Write all items to a JSON file
  tui                      Interactive list

Examples:
  todo add "Buy milk"
  todo ls --pending
  todo done 2
  todo rm 3
`)
}

type listFilter int

const (
	filterAll listFilter = iota
	filterPending
	filterDone
)

func parseListFilter(args []string) (listFilter, bool) {
	switch {
	case len(args) == 0:
		return filterAll, true
	case len(args) == 1 && args[0] == "--pending":
		return filterPending, true
	case len(args) == 1 && args[0] == "--done":
		return filterDone, true
	}
	return filterAll, false
}

// -------------- subcommand impls ----------------

func (r *Runner) doList(ctx context.Context, filter listFilter) int {
	all, err := r.store.All(ctx)
	if err != nil {
		r.fail("load: " + err.Error())
		return 1
	}
	entries := number(all)
	if filter != filterAll {
		shown, err := r.store.Where(ctx, filter == filterDone)
		if err != nil {
			r.fail("query: " + err.Error())
			return 1
		}
		entries = keep(entries, shown)
	}

	t := ui.Current()
	d, p := model.Stats(all)
	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(all),
	)

	var lines []string
	lines = append(lines, header)
	lines = append(lines, t.Muted.Render(ui.ProgressBar(d, d+p, 28)))
	lines = append(lines, "")

	if r.opt.Group {
		lines = append(lines, groupLines(entries)...)
	} else {
		lines = append(lines, flatLines(entries)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	ui.Panel(r.out, lines)
	return 0
}

func (r *Runner) doAdd(ctx context.Context, text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		r.fail("add: empty text")
		return 2
	}
	if err := r.store.Add(ctx, model.Todo{ID: r.newID(), Text: text}); err != nil {
		r.fail("save: " + err.Error())
		return 1
	}
	ui.OK(r.out, "added")
	return 0
}

func (r *Runner) doShow(ctx context.Context, userIndex int) int {
	it, code := r.resolve(ctx, userIndex)
	if code != 0 {
		return code
	}
	got, err := r.store.Get(ctx, it.ID)
	if err != nil {
		r.fail("get: " + err.Error())
		return 1
	}
	status := "pending"
	if got.Completed {
		status = "done"
	}
	fmt.Fprintf(r.out, "id:     %s\ntext:   %s\nstatus: %s\n", got.ID, got.Text, status)
	return 0
}

func (r *Runner) doToggle(ctx context.Context, userIndex int) int {
	it, code := r.resolve(ctx, userIndex)
	if code != 0 {
		return code
	}
	completed := !it.Completed
	if err := r.store.Update(ctx, it.ID, store.Changes{Completed: &completed}); err != nil {
		r.fail("save: " + err.Error())
		return 1
	}
	ui.OK(r.out, "toggled")
	return 0
}

func (r *Runner) doEdit(ctx context.Context, userIndex int, text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		r.fail("edit: empty text")
		return 2
	}
	it, code := r.resolve(ctx, userIndex)
	if code != 0 {
		return code
	}
	if err := r.store.Update(ctx, it.ID, store.Changes{Text: &text}); err != nil {
		r.fail("save: " + err.Error())
		return 1
	}
	ui.OK(r.out, "edited")
	return 0
}

func (r *Runner) doRemove(ctx context.Context, userIndex int) int {
	it, code := r.resolve(ctx, userIndex)
	if code != 0 {
		return code
	}
	if err := r.store.Delete(ctx, it.ID); err != nil {
		r.fail("save: " + err.Error())
		return 1
	}
	ui.OK(r.out, "removed")
	return 0
}

func (r *Runner) doImport(ctx context.Context, path string) int {
	if _, err := os.Stat(path); err != nil {
		r.fail("import: " + err.Error())
		return 1
	}
	todos, err := jsonstore.Load(path)
	if err != nil {
		r.fail("import: " + err.Error())
		return 1
	}
	for i := range todos {
		if todos[i].ID == "" {
			todos[i].ID = r.newID()
		}
	}
	if err := r.store.BulkPut(ctx, todos); err != nil {
		r.fail("save: " + err.Error())
		return 1
	}
	ui.OK(r.out, fmt.Sprintf("imported %d", len(todos)))
	return 0
}

func (r *Runner) doExport(ctx context.Context, path string) int {
	all, err := r.store.All(ctx)
	if err != nil {
		r.fail("load: " + err.Error())
		return 1
	}
	if err := jsonstore.Save(path, all); err != nil {
		r.fail("export: " + err.Error())
		return 1
	}
	ui.OK(r.out, fmt.Sprintf("exported %d", len(all)))
	return 0
}

func (r *Runner) doInteractive(ctx context.Context) int {
	all, err := r.store.All(ctx)
	if err != nil {
		r.fail("load: " + err.Error())
		return 1
	}
	if err := r.runTUI(ctx, all); err != nil {
		r.fail("tui: " + err.Error())
		return 1
	}
	return 0
}

// resolve maps a 1-based index in id order to its todo.
func (r *Runner) resolve(ctx context.Context, userIndex int) (model.Todo, int) {
	all, err := r.store.All(ctx)
	if err != nil {
		r.fail("load: " + err.Error())
		return model.Todo{}, 1
	}
	if userIndex < 1 || userIndex > len(all) {
		r.fail(fmt.Sprintf("index out of range: have %d, got %d", len(all), userIndex))
		ui.Hint(r.errOut, "Hint: run `todo ls` to see valid indexes")
		return model.Todo{}, 2
	}
	return all[userIndex-1], 0
}

func (r *Runner) fail(msg string) { ui.Fail(r.errOut, msg) }

// -------------- rendering helpers --------------

// entry is a todo with its position in the full list, so indexes stay valid
// when the view is filtered or grouped.
type entry struct {
	n    int
	todo model.Todo
}

func number(todos []model.Todo) []entry {
	out := make([]entry, 0, len(todos))
	for i, t := range todos {
		out = append(out, entry{n: i + 1, todo: t})
	}
	return out
}

func keep(entries []entry, todos []model.Todo) []entry {
	ids := make(map[string]bool, len(todos))
	for _, t := range todos {
		ids[t.ID] = true
	}
	var out []entry
	for _, e := range entries {
		if ids[e.todo.ID] {
			out = append(out, e)
		}
	}
	return out
}

func flatLines(entries []entry) []string {
	t := ui.Current()
	if len(entries) == 0 {
		return []string{t.Muted.Render("no items")}
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		idx := fmt.Sprintf("%2d.", e.n)
		box, style := t.Muted.Render(t.BoxUnchecked), t.Muted
		text := truncate(e.todo.Text, 80)
		if e.todo.Completed {
			box, style = t.Success.Render(t.BoxChecked), t.DoneText
			text = style.Render(text)
		}
		out = append(out, fmt.Sprintf("%s %s %s", t.Index.Render(idx), box, text))
	}
	return out
}

func groupLines(entries []entry) []string {
	var pend, done []entry
	for _, e := range entries {
		if e.todo.Completed {
			done = append(done, e)
		} else {
			pend = append(pend, e)
		}
	}
	t := ui.Current()
	var lines []string
	lines = append(lines, t.Accent.Render("Pending"))
	if len(pend) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(pend)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Accent.Render("Done"))
	if len(done) == 0 {
		lines = append(lines, t.Muted.Render("(none)"))
	} else {
		lines = append(lines, flatLines(done)...)
	}
	return lines
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
