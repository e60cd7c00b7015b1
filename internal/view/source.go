// Package view holds the page controllers. Each controller owns one fetch
// state machine per data source and replaces held data wholesale.
package view

import (
	"context"
	"sync"
	"time"

	"dashboard/internal/readmodel"
	"dashboard/internal/scanner_client"
)

// Status is the fetch state of one data source.
type Status int

const (
	Idle Status = iota
	Loading
	Success
	Error
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "idle"
	}
}

// Token identifies one fetch. Only the most recently issued token of a
// source may resolve it.
type Token struct {
	seq uint64
}

// State is an immutable copy of a source for rendering.
type State[T any] struct {
	Status   Status
	Value    T
	Err      string
	LoadedAt time.Time
}

// Loading reports whether a fetch is in flight.
func (s State[T]) Loading() bool { return s.Status == Loading }

// Failed reports whether the last completed fetch failed.
func (s State[T]) Failed() bool { return s.Status == Error }

// Source is the state machine idle → loading → success|error for one collection.
type Source[T any] struct {
	resource readmodel.Resource
	store    *readmodel.Store
	fallback string

	mu       sync.Mutex
	status   Status
	value    T
	err      string
	latest   uint64
	counter  uint64
	loadedAt time.Time
}

// NewSource creates a source. store may be nil; fallback is shown for errors
// that carry no detail.
func NewSource[T any](resource readmodel.Resource, store *readmodel.Store, fallback string) *Source[T] {
	return &Source[T]{resource: resource, store: store, fallback: fallback}
}

func (s *Source[T]) nextSeqLocked() uint64 {
	if s.store != nil {
		return s.store.Next(s.resource)
	}
	s.counter++
	return s.counter
}

// Begin moves the source to loading and issues a token superseding every earlier one.
func (s *Source[T]) Begin() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = s.nextSeqLocked()
	s.status = Loading
	return Token{seq: s.latest}
}

// Resolve completes the fetch identified by tok. Responses for superseded
// tokens are discarded and Resolve returns false. On error the held value is
// cleared rather than kept as if current.
func (s *Source[T]) Resolve(tok Token, value T, err error) bool {
	s.mu.Lock()
	if tok.seq != s.latest {
		s.mu.Unlock()
		return false
	}
	var zero T
	if err != nil {
		s.status = Error
		s.value = zero
		s.err = scanner_client.Detail(err, s.fallback)
	} else {
		s.status = Success
		s.value = value
		s.err = ""
	}
	s.loadedAt = time.Now()
	status, held, msg := s.status, s.value, s.err
	s.mu.Unlock()

	if s.store != nil {
		if status == Error {
			s.store.PublishError(s.resource, tok.seq, msg)
		} else {
			s.store.Publish(s.resource, tok.seq, held)
		}
	}
	return true
}

// Load runs fetch under a fresh token and resolves with its result. The
// returned error is the fetch error even when the result was discarded.
func (s *Source[T]) Load(ctx context.Context, fetch func(context.Context) (T, error)) error {
	tok := s.Begin()
	value, err := fetch(ctx)
	s.Resolve(tok, value, err)
	return err
}

// Override sets the value locally as a successful state and supersedes any
// fetch still in flight.
func (s *Source[T]) Override(value T) {
	tok := s.Begin()
	s.Resolve(tok, value, nil)
}

// Patch rewrites the held value without changing status or superseding
// in-flight fetches. fn must return a new value instead of modifying the
// backing array of its argument, which earlier snapshots still share.
func (s *Source[T]) Patch(fn func(T) T) {
	s.mu.Lock()
	s.value = fn(s.value)
	held, seq := s.value, s.latest
	status := s.status
	s.mu.Unlock()

	if s.store != nil && status == Success {
		s.store.Publish(s.resource, seq, held)
	}
}

// Snapshot copies the current state.
func (s *Source[T]) Snapshot() State[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State[T]{Status: s.status, Value: s.value, Err: s.err, LoadedAt: s.loadedAt}
}
