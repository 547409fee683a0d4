package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/park285/room-chess-bot/internal/obslog"
)

// Store caches group documents and serializes access per group. Reads share a
// group's lock; every mutation holds it exclusively through a Guard.
type Store struct {
	backend Backend
	logger  *zap.Logger

	mu     sync.Mutex
	groups map[string]*groupEntry
}

type groupEntry struct {
	mu    sync.RWMutex
	state *GroupGameState
}

func NewStore(backend Backend, logger *zap.Logger) *Store {
	if logger == nil {
		logger = obslog.L()
	}
	return &Store{backend: backend, logger: logger, groups: map[string]*groupEntry{}}
}

func (s *Store) entry(group string) *groupEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.groups[group]
	if !ok {
		e = &groupEntry{}
		s.groups[group] = e
	}
	return e
}

// load fills e.state. Caller holds e.mu for writing. A missing or undecodable
// document yields an empty state; a backend failure is returned.
func (s *Store) load(ctx context.Context, group string, e *groupEntry) error {
	if e.state != nil {
		return nil
	}
	raw, err := s.backend.Load(ctx, group)
	switch {
	case errors.Is(err, ErrNotFound):
		e.state = NewGroupGameState()
		return nil
	case err != nil:
		s.logger.Error("group_state_load_error", zap.String("group", group), zap.Error(err))
		return fmt.Errorf("%w: load group %s: %w", ErrLoad, group, err)
	}
	st := NewGroupGameState()
	if err := json.Unmarshal(raw, st); err != nil {
		s.logger.Warn("group_state_load_error",
			zap.String("group", group),
			zap.String("reason", "corrupt document, starting empty"),
			zap.Error(err),
		)
		st = NewGroupGameState()
	}
	st.normalize()
	e.state = st
	return nil
}

// Read calls fn with a shared reference to the group state. fn must not
// modify the state or keep it after returning.
func (s *Store) Read(ctx context.Context, group string, fn func(*GroupGameState) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := s.entry(group)
	e.mu.RLock()
	if e.state == nil {
		e.mu.RUnlock()
		e.mu.Lock()
		err := s.load(ctx, group, e)
		e.mu.Unlock()
		if err != nil {
			return err
		}
		e.mu.RLock()
	}
	defer e.mu.RUnlock()
	return fn(e.state)
}

// Exclusive locks the group and returns a Guard over a private copy of its
// state. The caller must resolve the guard with Commit or Discard; Update
// enforces this.
func (s *Store) Exclusive(ctx context.Context, group string) (*Guard, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e := s.entry(group)
	e.mu.Lock()
	if err := s.load(ctx, group, e); err != nil {
		e.mu.Unlock()
		return nil, err
	}
	g := &Guard{store: s, entry: e, group: group, state: e.state.Clone()}
	runtime.SetFinalizer(g, func(g *Guard) {
		if !g.resolved {
			s.logger.DPanic("group_state_guard_leaked", zap.String("group", g.group))
		}
	})
	return g, nil
}

// Update runs fn under an exclusive guard. fn must call Commit or Discard
// before returning, including on its error paths; an unresolved guard is a
// programming error and panics.
func (s *Store) Update(ctx context.Context, group string, fn func(*Guard) error) error {
	g, err := s.Exclusive(ctx, group)
	if err != nil {
		return err
	}
	defer func() {
		if r := recover(); r != nil {
			if !g.resolved {
				g.release()
			}
			panic(r)
		}
	}()
	err = fn(g)
	g.MustBeResolved()
	return err
}

// Guard is a single-use exclusive session on one group.
type Guard struct {
	store    *Store
	entry    *groupEntry
	group    string
	state    *GroupGameState
	resolved bool
}

// State returns the mutable copy owned by the guard.
func (g *Guard) State() *GroupGameState { return g.state }

// Group returns the group id the guard is locking.
func (g *Guard) Group() string { return g.group }

// Commit saves the state once and releases the lock. On failure the cached
// state is left as it was before the session.
func (g *Guard) Commit(ctx context.Context) error {
	g.ensureOpen("Commit")
	defer g.release()
	raw, err := json.Marshal(g.state)
	if err != nil {
		return fmt.Errorf("encode group %s: %w", g.group, err)
	}
	if err := g.store.backend.Save(ctx, g.group, raw); err != nil {
		g.store.logger.Error("group_state_commit_error", zap.String("group", g.group), zap.Error(err))
		return fmt.Errorf("save group %s: %w", g.group, err)
	}
	g.entry.state = g.state
	return nil
}

// Discard releases the lock without persisting anything.
func (g *Guard) Discard() {
	g.ensureOpen("Discard")
	g.release()
}

// MustBeResolved panics when neither Commit nor Discard has been called. The
// lock is released first so a recovered panic does not wedge the group.
func (g *Guard) MustBeResolved() {
	if g.resolved {
		return
	}
	g.release()
	panic(fmt.Sprintf("storage: exclusive session on group %q neither committed nor discarded", g.group))
}

func (g *Guard) ensureOpen(op string) {
	if g.resolved {
		panic(fmt.Sprintf("storage: %s on a resolved session (group %q)", op, g.group))
	}
}

func (g *Guard) release() {
	g.resolved = true
	g.state = nil
	runtime.SetFinalizer(g, nil)
	g.entry.mu.Unlock()
}
