package view

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard/internal/readmodel"
	"dashboard/internal/scanner_client"
)

func TestSourceLifecycle(t *testing.T) {
	s := NewSource[[]string](readmodel.Datasets, nil, "Failed to fetch datasets")
	assert.Equal(t, Idle, s.Snapshot().Status)

	tok := s.Begin()
	assert.True(t, s.Snapshot().Loading())

	assert.True(t, s.Resolve(tok, []string{"Logs"}, nil))
	snap := s.Snapshot()
	assert.Equal(t, Success, snap.Status)
	assert.Equal(t, []string{"Logs"}, snap.Value)
	assert.False(t, snap.LoadedAt.IsZero())
}

func TestSourceDiscardsStaleResponse(t *testing.T) {
	s := NewSource[[]string](readmodel.Datasets, nil, "Failed to fetch datasets")

	first := s.Begin()
	second := s.Begin()

	assert.True(t, s.Resolve(second, []string{"new"}, nil))
	assert.False(t, s.Resolve(first, []string{"old"}, nil), "late response of an older fetch must be dropped")
	assert.Equal(t, []string{"new"}, s.Snapshot().Value)
}

func TestSourceErrorClearsValue(t *testing.T) {
	s := NewSource[[]string](readmodel.Datasets, nil, "Failed to fetch datasets")
	s.Override([]string{"held"})

	tok := s.Begin()
	s.Resolve(tok, nil, &scanner_client.Error{Kind: scanner_client.KindServer, Detail: "Database unavailable"})

	snap := s.Snapshot()
	assert.True(t, snap.Failed())
	assert.Nil(t, snap.Value)
	assert.Equal(t, "Database unavailable", snap.Err)

	tok = s.Begin()
	s.Resolve(tok, nil, errBoom)
	assert.Equal(t, "Failed to fetch datasets", s.Snapshot().Err)
}

func TestSourcePublishesToStore(t *testing.T) {
	store := readmodel.NewStore()
	s := NewSource[int](readmodel.UnreadCount, store, "Failed to fetch unread count")
	ch, cancel := store.Subscribe(readmodel.UnreadCount)
	defer cancel()

	require.NoError(t, s.Load(context.Background(), func(context.Context) (int, error) { return 4, nil }))

	u := <-ch
	assert.Equal(t, 4, u.Value)

	s.Override(0)
	u = <-ch
	assert.Equal(t, 0, u.Value)
}

func TestOverrideSupersedesInFlightFetch(t *testing.T) {
	s := NewSource[int](readmodel.UnreadCount, readmodel.NewStore(), "")
	tok := s.Begin()
	s.Override(0)

	assert.False(t, s.Resolve(tok, 7, nil))
	assert.Equal(t, 0, s.Snapshot().Value)
	assert.Equal(t, Success, s.Snapshot().Status)
}

func TestPatchKeepsStatus(t *testing.T) {
	s := NewSource[[]int](readmodel.Models, nil, "")
	s.Override([]int{1, 2})
	before := s.Snapshot()

	s.Patch(func(v []int) []int {
		out := append([]int{}, v...)
		out[0] = 9
		return out
	})

	assert.Equal(t, []int{9, 2}, s.Snapshot().Value)
	assert.Equal(t, []int{1, 2}, before.Value, "earlier snapshots must not change")
	assert.Equal(t, Success, s.Snapshot().Status)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "error", Error.String())
}
