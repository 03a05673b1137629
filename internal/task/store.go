// Package task holds the in-memory task list and its mutations.
//
// A Store is the single owner of the list. Every applied mutation builds a
// fresh list, swaps it in, and persists it whole before returning. Mutations
// never report errors: a blank text or an unknown id is silently ignored.
package task

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Makepad-fr/dailytask/internal/clock"
	"github.com/Makepad-fr/dailytask/internal/model"
)

// Persister loads and saves the whole list. Load returns an error only when
// the stored list could not be read; an absent or malformed one loads empty.
type Persister interface {
	Load() (model.List, error)
	Save(model.List) error
}

// Store owns the task list. It is not safe for concurrent use.
type Store struct {
	tasks   model.List
	persist Persister
	clock   clock.Clock
	ids     *clock.IDSource
	locale  string
	log     *log.Logger

	onChange func(model.List)
	err      error
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the source of ids and stamps.
func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLocale selects the layout of created/updated stamps.
func WithLocale(locale string) Option {
	return func(s *Store) { s.locale = locale }
}

// WithLogger sets the logger for applied mutations and failed saves.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// OnChange registers fn to run after every applied mutation.
func OnChange(fn func(model.List)) Option {
	return func(s *Store) { s.onChange = fn }
}

// New hydrates a Store from p. It fails only when p cannot read the stored
// list, in which case no Store exists to save over it.
func New(p Persister, opts ...Option) (*Store, error) {
	s := &Store{
		persist: p,
		clock:   clock.System{},
		locale:  clock.LocaleKorean,
		log:     log.New(io.Discard),
	}
	for _, o := range opts {
		o(s)
	}
	s.ids = clock.NewIDSource(s.clock)

	loaded, err := p.Load()
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	s.tasks = loaded.Clone()
	for _, t := range s.tasks {
		s.ids.Observe(t.ID)
	}
	s.log.Debug("hydrated tasks", "count", len(s.tasks))
	return s, nil
}

// Tasks returns a copy of the current list.
func (s *Store) Tasks() model.List { return s.tasks.Clone() }

// Len is the number of tasks.
func (s *Store) Len() int { return len(s.tasks) }

// Err returns the last persistence error, or nil once a later save succeeds.
func (s *Store) Err() error { return s.err }

func (s *Store) stamp() string {
	return clock.Format(s.clock.Now(), s.locale)
}

// Create appends a new pending task. Blank text is ignored.
func (s *Store) Create(text string) (model.Task, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, false
	}
	t := model.Task{
		ID:        s.ids.Next(),
		Text:      text,
		CreatedAt: s.stamp(),
	}
	next := make(model.List, 0, len(s.tasks)+1)
	next = append(next, s.tasks...)
	next = append(next, t)
	s.commit(next, "create", t.ID)
	return t, true
}

// Update replaces the text of task id and stamps UpdatedAt.
// Blank text or an unknown id leaves the list unchanged.
func (s *Store) Update(id int64, text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}
	return s.replace(id, "update", func(t *model.Task) {
		now := s.stamp()
		t.Text = text
		t.UpdatedAt = &now
	})
}

// ToggleComplete flips the completed flag of task id.
func (s *Store) ToggleComplete(id int64) bool {
	return s.replace(id, "toggle", func(t *model.Task) {
		t.Completed = !t.Completed
	})
}

// Delete removes task id, keeping the order of the rest.
func (s *Store) Delete(id int64) bool {
	i := s.tasks.Index(id)
	if i < 0 {
		return false
	}
	next := make(model.List, 0, len(s.tasks)-1)
	next = append(next, s.tasks[:i]...)
	next = append(next, s.tasks[i+1:]...)
	s.commit(next, "delete", id)
	return true
}

// replace copies the list with task id rewritten by fn.
func (s *Store) replace(id int64, op string, fn func(*model.Task)) bool {
	i := s.tasks.Index(id)
	if i < 0 {
		return false
	}
	next := s.tasks.Clone()
	fn(&next[i])
	s.commit(next, op, id)
	return true
}

func (s *Store) commit(next model.List, op string, id int64) {
	s.tasks = next
	if err := s.persist.Save(next.Clone()); err != nil {
		s.err = err
		s.log.Error("save failed", "op", op, "id", id, "err", err)
	} else {
		s.err = nil
		s.log.Debug("applied", "op", op, "id", id, "count", len(next))
	}
	if s.onChange != nil {
		s.onChange(s.Tasks())
	}
}
