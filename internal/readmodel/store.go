// Package readmodel is an observable cache of the latest fetched value per
// backend resource. Fetchers publish with sequence numbers issued here and
// consumers subscribe instead of re-deriving state on their own.
package readmodel

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Resource identifies a backend collection.
type Resource string

const (
	Datasets      Resource = "datasets"
	Models        Resource = "models"
	ScanHistory   Resource = "scan_history"
	Notifications Resource = "notifications"
	UnreadCount   Resource = "unread_count"
)

// Update is one published state of a resource.
type Update struct {
	Resource  Resource  `json:"resource"`
	Seq       uint64    `json:"seq"`
	Value     any       `json:"value,omitempty"`
	Err       string    `json:"error,omitempty"`
	Stale     bool      `json:"stale,omitempty"`
	Published time.Time `json:"published"`
}

const subscriberBuffer = 8

// Store holds the newest update per resource. Safe for concurrent use.
type Store struct {
	entries *cache.Cache

	mu      sync.Mutex
	issued  map[Resource]uint64
	subs    map[Resource]map[int]chan Update
	nextSub int
}

// NewStore creates an empty store. Entries never expire.
func NewStore() *Store {
	return &Store{
		entries: cache.New(cache.NoExpiration, 0),
		issued:  make(map[Resource]uint64),
		subs:    make(map[Resource]map[int]chan Update),
	}
}

// Next issues the next sequence number for r.
func (s *Store) Next(r Resource) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[r]++
	return s.issued[r]
}

// Publish records value for r unless a newer sequence number was already
// published. It reports whether the update was accepted.
func (s *Store) Publish(r Resource, seq uint64, value any) bool {
	return s.put(Update{Resource: r, Seq: seq, Value: value})
}

// PublishError records a failed fetch. The previous value is dropped.
func (s *Store) PublishError(r Resource, seq uint64, msg string) bool {
	return s.put(Update{Resource: r, Seq: seq, Err: msg})
}

// Invalidate marks r stale after a mutation so subscribers know to re-fetch.
// The stored value is kept.
func (s *Store) Invalidate(r Resource) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := Update{Resource: r, Stale: true, Published: time.Now()}
	if cached, ok := s.entries.Get(string(r)); ok {
		prev := cached.(Update)
		u.Seq = prev.Seq
		u.Value = prev.Value
		u.Err = prev.Err
	}
	s.entries.Set(string(r), u, cache.NoExpiration)
	s.notifyLocked(u)
}

// Get returns the newest update for r.
func (s *Store) Get(r Resource) (Update, bool) {
	cached, ok := s.entries.Get(string(r))
	if !ok {
		return Update{}, false
	}
	return cached.(Update), true
}

// Subscribe returns a channel receiving every accepted update for r and a
// cancel function. Slow subscribers lose intermediate updates, never the latest.
func (s *Store) Subscribe(r Resource) (<-chan Update, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan Update, subscriberBuffer)
	id := s.nextSub
	s.nextSub++
	if s.subs[r] == nil {
		s.subs[r] = make(map[int]chan Update)
	}
	s.subs[r][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if subs, ok := s.subs[r]; ok {
				if c, ok := subs[id]; ok {
					delete(subs, id)
					close(c)
				}
			}
		})
	}
	return ch, cancel
}

// Reset drops every stored value.
func (s *Store) Reset() {
	s.entries.Flush()
}

func (s *Store) put(u Update) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.entries.Get(string(u.Resource)); ok {
		if prev := cached.(Update); prev.Seq > u.Seq {
			return false
		}
	}
	u.Published = time.Now()
	s.entries.Set(string(u.Resource), u, cache.NoExpiration)
	s.notifyLocked(u)
	return true
}

func (s *Store) notifyLocked(u Update) {
	for _, ch := range s.subs[u.Resource] {
		select {
		case ch <- u:
		default:
			// drop the oldest queued update to make room for the newest
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- u:
			default:
			}
		}
	}
}
