package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/taskdeck/internal/ids"
	"github.com/nhle/taskdeck/internal/store"
	"github.com/nhle/taskdeck/internal/userstate"
)

// Epoch is the fixed clock value used by test sessions.
var Epoch = time.Date(2024, 5, 6, 10, 30, 0, 0, time.UTC)

// SequentialIDs returns a generator that issues 1, 2, 3, ... skipping ids
// already in use.
func SequentialIDs() *ids.Generator {
	var n uint64
	return ids.NewWithSource(func() uuid.UUID {
		n++
		var u uuid.UUID
		v := n
		for b := 7; b >= 0; b-- {
			u[b] = byte(v)
			v >>= 8
		}
		return u
	})
}

// NewTestSession opens a session on kv with a fixed clock and sequential
// ids. A nil kv gets a fresh in-memory store.
func NewTestSession(t *testing.T, kv store.KV) *userstate.Session {
	t.Helper()

	if kv == nil {
		kv = NewTestStore(t)
	}
	s, err := userstate.Open(context.Background(), kv, userstate.Options{
		Now: func() time.Time { return Epoch },
		IDs: SequentialIDs(),
	})
	if err != nil {
		t.Fatalf("opening test session: %v", err)
	}
	return s
}
