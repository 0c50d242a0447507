package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const DefaultIdleTTL = 30 * time.Minute

// Store keeps sessions in memory keyed by a random id. Sessions idle for longer
// than the TTL are evicted on the next Create or Get.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	idleTTL  time.Duration
	now      func() time.Time
}

type entry struct {
	session  *Session
	lastSeen time.Time
}

func NewStore(idleTTL time.Duration) *Store {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &Store{
		sessions: make(map[string]*entry),
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

func (st *Store) Create() *Session {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	st.evictLocked(now)

	s := New(uuid.NewString())
	st.sessions[s.ID()] = &entry{session: s, lastSeen: now}
	return s
}

func (st *Store) Get(id string) (*Session, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()

	now := st.now()
	st.evictLocked(now)

	e, ok := st.sessions[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = now
	return e.session, true
}

func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	return len(st.sessions)
}

func (st *Store) evictLocked(now time.Time) {
	for id, e := range st.sessions {
		if now.Sub(e.lastSeen) > st.idleTTL {
			delete(st.sessions, id)
		}
	}
}
