// Package jsonstore persists the task list as one JSON array in a slot.
// Every save overwrites the whole list; there is no incremental diffing.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Makepad-fr/dailytask/internal/model"
	"github.com/Makepad-fr/dailytask/internal/store/kv"
)

const (
	DefaultKey     = "todos"
	DefaultTimeout = 5 * time.Second
)

const listSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["id", "text", "completed", "time"],
    "properties": {
      "id":          {"type": "number"},
      "text":        {"type": "string", "minLength": 1},
      "completed":   {"type": "boolean"},
      "time":        {"type": "string"},
      "updatedTime": {"type": ["string", "null"]}
    }
  }
}`

var schema = jsonschema.MustCompileString("dailytask://task-list.json", listSchema)

var (
	// ErrDuplicateID is reported when a persisted list reuses an id.
	ErrDuplicateID = errors.New("duplicate task id")
	// ErrSlotRead wraps failures of the slot itself, as opposed to bad content.
	ErrSlotRead = errors.New("read slot")
)

// Store reads and writes the task list under a fixed key.
type Store struct {
	slot    kv.Slot
	key     string
	timeout time.Duration
	log     *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithKey sets the slot key; empty keeps DefaultKey.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithTimeout bounds each slot operation.
func WithTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the logger used for discarded data and saves.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// New returns a Store over slot. Logging is off unless WithLogger is given.
func New(slot kv.Slot, opts ...Option) *Store {
	s := &Store{
		slot:    slot,
		key:     DefaultKey,
		timeout: DefaultTimeout,
		log:     log.New(io.Discard),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Key returns the slot key the list lives under.
func (s *Store) Key() string { return s.key }

// Load returns the persisted list. A missing slot yields an empty list, and
// so does malformed content, which is logged and not returned. A failure to
// read the slot at all is returned as ErrSlotRead.
func (s *Store) Load() (model.List, error) {
	items, err := s.Read()
	if errors.Is(err, ErrSlotRead) {
		return nil, err
	}
	if err != nil {
		s.log.Warn("discarding persisted tasks", "key", s.key, "err", err)
		return model.List{}, nil
	}
	return items, nil
}

// Read is Load without the fallback.
func (s *Store) Read() (model.List, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	b, ok, err := s.slot.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrSlotRead, s.key, err)
	}
	if !ok {
		return model.List{}, nil
	}
	return Decode(b)
}

// Save overwrites the slot with the full list.
func (s *Store) Save(items model.List) error {
	b, err := Encode(items)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.slot.Set(ctx, s.key, b); err != nil {
		return fmt.Errorf("write slot: %w", err)
	}
	s.log.Debug("saved tasks", "key", s.key, "count", len(items))
	return nil
}

// Encode serializes items as an indented JSON array. A nil list encodes as [].
func Encode(items model.List) ([]byte, error) {
	if items == nil {
		items = model.List{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// Decode validates b against the task-list schema and decodes it.
func Decode(b []byte) (model.List, error) {
	var raw any
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	var items model.List
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	seen := make(map[int64]struct{}, len(items))
	for _, it := range items {
		if _, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	if items == nil {
		items = model.List{}
	}
	return items, nil
}
