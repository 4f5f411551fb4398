package rewarder

import (
	"math/rand"
	"sync"

	"github.com/google/uuid"
)

// userLocks hands out one mutex per user. Lock lifetimes are a single
// award calculation, so entries are kept for the process lifetime — the
// map grows with the number of distinct active users, not with traffic.
type userLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

// lock acquires the user's mutex and returns the release function.
func (u *userLocks) lock(id uuid.UUID) func() {
	u.mu.Lock()
	if u.locks == nil {
		u.locks = make(map[uuid.UUID]*sync.Mutex)
	}
	l, ok := u.locks[id]
	if !ok {
		l = &sync.Mutex{}
		u.locks[id] = l
	}
	u.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// lockedSource is a goroutine-safe rand source. The random-reward rule
// may run concurrently for different users.
type lockedSource struct {
	mu  sync.Mutex
	src rand.Source64
}

func newLockedSource(seed int64) *lockedSource {
	return &lockedSource{src: rand.NewSource(seed).(rand.Source64)}
}

func (s *lockedSource) Int63() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Int63()
}

func (s *lockedSource) Uint64() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.src.Uint64()
}

func (s *lockedSource) Seed(seed int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.src.Seed(seed)
}
