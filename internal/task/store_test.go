package task

import (
	"context"
	"errors"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/Makepad-fr/dailytask/internal/clock"
	"github.com/Makepad-fr/dailytask/internal/model"
	"github.com/Makepad-fr/dailytask/internal/store/jsonstore"
	"github.com/Makepad-fr/dailytask/internal/store/kv"
)

// fakeClock advances one minute per call so stamps differ between operations.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 10, 19, 14, 0, 0, 0, time.UTC)}
}

func newStore(t *testing.T) (*Store, *jsonstore.Store) {
	t.Helper()
	js := jsonstore.New(kv.NewMemorySlot())
	return mustNew(t, js, WithClock(newFakeClock())), js
}

func mustNew(t *testing.T, p Persister, opts ...Option) *Store {
	t.Helper()
	s, err := New(p, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

// assertPersisted checks the round-trip law: what is in the slot equals what is in memory.
func assertPersisted(t *testing.T, s *Store, js *jsonstore.Store) {
	t.Helper()
	got, err := js.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if want := s.Tasks(); !reflect.DeepEqual(got, want) {
		t.Fatalf("persisted list differs:\n got  %#v\n want %#v", got, want)
	}
}

func TestBuyMilkScenario(t *testing.T) {
	s, js := newStore(t)

	tk, ok := s.Create("Buy milk")
	if !ok {
		t.Fatal("Create returned false")
	}
	list := s.Tasks()
	if len(list) != 1 {
		t.Fatalf("len: got %d, want 1", len(list))
	}
	if list[0].Completed || list[0].UpdatedAt != nil || list[0].Text != "Buy milk" {
		t.Errorf("new task: got %+v", list[0])
	}
	assertPersisted(t, s, js)

	if !s.ToggleComplete(tk.ID) {
		t.Fatal("ToggleComplete returned false")
	}
	if got := s.Tasks()[0]; !got.Completed {
		t.Errorf("after toggle: Completed=false")
	}
	assertPersisted(t, s, js)

	if !s.Update(tk.ID, "Buy oat milk") {
		t.Fatal("Update returned false")
	}
	got := s.Tasks()[0]
	if got.Text != "Buy oat milk" {
		t.Errorf("Text: got %q", got.Text)
	}
	if got.UpdatedAt == nil {
		t.Errorf("UpdatedAt not set")
	}
	if !got.Completed {
		t.Errorf("Completed lost on update")
	}
	if got.CreatedAt != tk.CreatedAt {
		t.Errorf("CreatedAt changed: got %q, want %q", got.CreatedAt, tk.CreatedAt)
	}
	assertPersisted(t, s, js)

	if !s.Delete(tk.ID) {
		t.Fatal("Delete returned false")
	}
	if s.Len() != 0 {
		t.Errorf("after delete: len %d", s.Len())
	}
	assertPersisted(t, s, js)
}

func TestDeleteKeepsOrder(t *testing.T) {
	s, js := newStore(t)
	a, _ := s.Create("A")
	s.Create("B")
	s.Create("C")

	s.Delete(a.ID)

	var texts []string
	for _, tk := range s.Tasks() {
		texts = append(texts, tk.Text)
	}
	if want := []string{"B", "C"}; !reflect.DeepEqual(texts, want) {
		t.Errorf("order: got %v, want %v", texts, want)
	}
	assertPersisted(t, s, js)
}

func TestBlankTextIsNoop(t *testing.T) {
	s, _ := newStore(t)

	for _, text := range []string{"", "   ", "\t\n"} {
		if _, ok := s.Create(text); ok {
			t.Errorf("Create(%q) applied", text)
		}
	}
	if s.Len() != 0 {
		t.Fatalf("blank creates changed the list: %d", s.Len())
	}

	tk, _ := s.Create("keep me")
	if s.Update(tk.ID, "  ") {
		t.Errorf("Update with blank text applied")
	}
	got := s.Tasks()[0]
	if got.Text != "keep me" || got.UpdatedAt != nil {
		t.Errorf("blank update touched the task: %+v", got)
	}
}

func TestCreateTrims(t *testing.T) {
	s, _ := newStore(t)
	tk, _ := s.Create("  padded  ")
	if tk.Text != "padded" {
		t.Errorf("got %q, want %q", tk.Text, "padded")
	}
	s.Update(tk.ID, "\tnew ")
	if got := s.Tasks()[0].Text; got != "new" {
		t.Errorf("Update trim: got %q", got)
	}
}

func TestUnknownIDIsNoop(t *testing.T) {
	s, _ := newStore(t)
	s.Create("A")
	before := s.Tasks()

	if s.Update(999, "x") || s.ToggleComplete(999) || s.Delete(999) {
		t.Errorf("operation on unknown id reported applied")
	}
	if !reflect.DeepEqual(s.Tasks(), before) {
		t.Errorf("unknown id changed the list")
	}
}

func TestToggleIsInvolution(t *testing.T) {
	s, _ := newStore(t)
	tk, _ := s.Create("A")
	s.ToggleComplete(tk.ID)
	s.ToggleComplete(tk.ID)
	if s.Tasks()[0].Completed {
		t.Errorf("toggle twice: Completed=true")
	}
}

func TestUpdateStampsEachEdit(t *testing.T) {
	s, _ := newStore(t)
	tk, _ := s.Create("A")

	s.Update(tk.ID, "B")
	first := *s.Tasks()[0].UpdatedAt
	s.Update(tk.ID, "C")
	second := *s.Tasks()[0].UpdatedAt

	if first == second {
		t.Errorf("UpdatedAt not refreshed: %q", first)
	}
	if s.Tasks()[0].CreatedAt != tk.CreatedAt {
		t.Errorf("CreatedAt mutated")
	}
}

func TestTasksReturnsCopy(t *testing.T) {
	s, _ := newStore(t)
	s.Create("A")
	list := s.Tasks()
	list[0].Text = "mutated"
	if s.Tasks()[0].Text != "A" {
		t.Errorf("Tasks exposed internal state")
	}
}

func TestEarlierListsAreNotMutated(t *testing.T) {
	var snapshots []model.List
	js := jsonstore.New(kv.NewMemorySlot())
	s := mustNew(t, js, WithClock(newFakeClock()), OnChange(func(l model.List) {
		snapshots = append(snapshots, l)
	}))

	tk, _ := s.Create("A")
	s.ToggleComplete(tk.ID)
	s.Update(tk.ID, "B")

	if len(snapshots) != 3 {
		t.Fatalf("OnChange calls: got %d, want 3", len(snapshots))
	}
	if snapshots[0][0].Completed || snapshots[0][0].Text != "A" {
		t.Errorf("first snapshot changed: %+v", snapshots[0][0])
	}
	if snapshots[1][0].UpdatedAt != nil {
		t.Errorf("second snapshot gained UpdatedAt")
	}
}

func TestHydrateAndFreshIDs(t *testing.T) {
	slot := kv.NewMemorySlot()
	js := jsonstore.New(slot)
	future := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	if err := js.Save(model.List{{ID: future, Text: "from disk", CreatedAt: "t"}}); err != nil {
		t.Fatal(err)
	}

	s := mustNew(t, js, WithClock(newFakeClock()))
	if s.Len() != 1 {
		t.Fatalf("hydrate: len %d, want 1", s.Len())
	}
	tk, _ := s.Create("new")
	if tk.ID <= future {
		t.Errorf("new id %d not above persisted %d", tk.ID, future)
	}
}

func TestCreateUsesLocale(t *testing.T) {
	js := jsonstore.New(kv.NewMemorySlot())
	fixed := time.Date(2025, 10, 19, 14, 5, 0, 0, time.UTC)
	s := mustNew(t, js, WithLocale("en"), WithClock(clock.Func(func() time.Time { return fixed })))

	tk, _ := s.Create("A")
	if want := "Sunday, October 19, 25 at 14:05"; tk.CreatedAt != want {
		t.Errorf("CreatedAt: got %q, want %q", tk.CreatedAt, want)
	}
}

type failingPersister struct {
	fail bool
}

func (f *failingPersister) Load() (model.List, error) { return nil, nil }
func (f *failingPersister) Save(model.List) error {
	if f.fail {
		return errors.New("disk full")
	}
	return nil
}

func TestSaveErrorIsRecordedNotReturned(t *testing.T) {
	p := &failingPersister{fail: true}
	s := mustNew(t, p, WithClock(newFakeClock()))

	if _, ok := s.Create("A"); !ok {
		t.Fatal("Create should apply in memory even if save fails")
	}
	if s.Err() == nil {
		t.Errorf("Err: expected save error")
	}

	p.fail = false
	s.Create("B")
	if s.Err() != nil {
		t.Errorf("Err after successful save: %v", s.Err())
	}
	if s.Len() != 2 {
		t.Errorf("len: got %d, want 2", s.Len())
	}
}

func TestRandomSequencesKeepIDsUniqueAndPersisted(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s, js := newStore(t)

	for step := 0; step < 300; step++ {
		list := s.Tasks()
		var id int64 = 12345
		if len(list) > 0 && rng.Intn(5) > 0 {
			id = list[rng.Intn(len(list))].ID
		}
		switch rng.Intn(4) {
		case 0:
			s.Create("task")
		case 1:
			s.Update(id, "edited")
		case 2:
			s.ToggleComplete(id)
		case 3:
			s.Delete(id)
		}

		seen := map[int64]bool{}
		for _, tk := range s.Tasks() {
			if seen[tk.ID] {
				t.Fatalf("step %d: duplicate id %d", step, tk.ID)
			}
			seen[tk.ID] = true
		}
	}
	assertPersisted(t, s, js)
}

// flakySlot fails Get while broken is set and otherwise delegates to a memory slot.
type flakySlot struct {
	*kv.MemorySlot
	broken bool
}

func (f *flakySlot) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.broken {
		return nil, false, errors.New("connection reset")
	}
	return f.MemorySlot.Get(ctx, key)
}

func TestReadFailureDoesNotWipeStoredList(t *testing.T) {
	slot := &flakySlot{MemorySlot: kv.NewMemorySlot()}
	js := jsonstore.New(slot)

	first := mustNew(t, js, WithClock(newFakeClock()))
	first.Create("A")
	first.Create("B")
	first.Create("C")

	slot.broken = true
	if s, err := New(js, WithClock(newFakeClock())); err == nil {
		s.Create("D")
		t.Fatalf("New succeeded while the slot was unreadable")
	} else if !errors.Is(err, jsonstore.ErrSlotRead) {
		t.Errorf("New: got %v, want ErrSlotRead", err)
	}

	slot.broken = false
	got, err := js.Read()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].Text != "A" || got[2].Text != "C" {
		t.Errorf("stored list changed after a failed read: %+v", got)
	}
}
