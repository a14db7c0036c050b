// Package userstate owns the in-memory user and persists it.
//
// A Session is the only writer of the stored user document. Every mutation
// is committed on its own; there is no grouping of several changes into one
// write. Commits are skipped when the user did not change.
package userstate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/nhle/taskdeck/internal/ids"
	"github.com/nhle/taskdeck/internal/merge"
	"github.com/nhle/taskdeck/internal/model"
	"github.com/nhle/taskdeck/internal/reconcile"
	"github.com/nhle/taskdeck/internal/store"
	"github.com/nhle/taskdeck/internal/transfer"
)

// Options configures a Session. Zero values select the defaults.
type Options struct {
	// Key is the store key of the user document. Defaults to store.UserKey.
	Key string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// IDs issues task and category identifiers. Defaults to ids.New().
	IDs *ids.Generator
}

// Session holds the current user and writes it back to the store.
type Session struct {
	mu sync.Mutex

	kv  store.KV
	key string
	now func() time.Time
	ids *ids.Generator

	user     model.User
	lastHash uint64

	// writes counts commits; used by tests and the status bar.
	writes int
}

// Open loads the stored user, reconciles it against the current defaults
// and writes it back only if reconciliation changed something.
func Open(ctx context.Context, kv store.KV, opts Options) (*Session, error) {
	s := &Session{
		kv:  kv,
		key: opts.Key,
		now: opts.Now,
		ids: opts.IDs,
	}
	if s.key == "" {
		s.key = store.UserKey
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.ids == nil {
		s.ids = ids.New()
	}

	data, err := kv.Get(ctx, s.key)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("loading user: %w", err)
	}

	res, err := reconcile.Load(data, model.DefaultUser(s.now()))
	if err != nil {
		return nil, fmt.Errorf("loading user: %w", err)
	}

	s.user = res.User
	if !res.Changed() {
		s.lastHash, err = hashUser(s.user)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	log.Printf("userstate: reconciled stored user, filled %v", res.Filled)
	if err := s.commit(ctx, s.user); err != nil {
		return nil, err
	}
	return s, nil
}

// User returns a copy of the current user.
func (s *Session) User() model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user.Clone()
}

// Writes returns the number of commits made by this session.
func (s *Session) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

// Now returns the session clock's current time.
func (s *Session) Now() time.Time {
	return s.now()
}

// Update applies fn to a copy of the user and commits the result. If fn
// returns an error nothing changes. If the result equals the current user
// no write happens.
func (s *Session) Update(ctx context.Context, fn func(u *model.User) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(ctx, fn)
}

func (s *Session) updateLocked(ctx context.Context, fn func(u *model.User) error) error {
	next := s.user.Clone()
	if err := fn(&next); err != nil {
		return err
	}

	h, err := hashUser(next)
	if err != nil {
		return err
	}
	if h == s.lastHash {
		return nil
	}
	return s.commit(ctx, next)
}

// commit writes u and makes it current. The caller holds s.mu or has not
// yet published s.
func (s *Session) commit(ctx context.Context, u model.User) error {
	h, err := hashUser(u)
	if err != nil {
		return err
	}
	data, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encoding user: %w", err)
	}
	if err := s.kv.Set(ctx, s.key, data); err != nil {
		return fmt.Errorf("saving user: %w", err)
	}

	s.user = u
	s.lastHash = h
	s.writes++
	return nil
}

// Reset replaces the user with a brand new default user. This is the
// logout action and cannot be undone.
func (s *Session) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, model.DefaultUser(s.now()))
}

// Import merges a batch of tasks into the user. The batch is rejected as a
// whole when any task is invalid.
func (s *Session) Import(ctx context.Context, tasks []model.Task) error {
	return s.Update(ctx, func(u *model.User) error {
		merged, err := merge.Import(*u, tasks)
		if err != nil {
			return err
		}
		*u = merged
		return nil
	})
}

// AcceptShared adds a task received through a share link and returns it
// with its newly assigned identifier.
func (s *Session) AcceptShared(ctx context.Context, shared transfer.Shared) (model.Task, error) {
	var added model.Task
	err := s.Update(ctx, func(u *model.User) error {
		next, task, err := transfer.Ingest(*u, shared, s.ids)
		if err != nil {
			return err
		}
		*u = next
		added = task
		return nil
	})
	return added, err
}

func hashUser(u model.User) (uint64, error) {
	h, err := hashstructure.Hash(u, hashstructure.FormatV2, nil)
	if err != nil {
		return 0, fmt.Errorf("hashing user: %w", err)
	}
	return h, nil
}
