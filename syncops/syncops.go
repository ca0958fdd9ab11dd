// Package syncops sequences list fetches against deletes so a slow list
// response can not bring back a record that was deleted meanwhile.
package syncops

import "sync"

// Tracker hands out generations per view key.
type Tracker struct {
	mu   sync.Mutex
	gens map[string]uint64
}

func NewTracker() *Tracker {
	return &Tracker{gens: make(map[string]uint64)}
}

// Key builds the view key for one session and entity.
func Key(sessionID, entity string) string {
	return sessionID + "|" + entity
}

// Begin returns the generation a fetch starts in.
func (t *Tracker) Begin(key string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gens[key]
}

// Bump marks a mutation of the view's data.
func (t *Tracker) Bump(key string) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gens[key]++
	return t.gens[key]
}

// Current reports whether no mutation happened since Begin returned gen.
func (t *Tracker) Current(key string, gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gens[key] == gen
}

// Forget drops the key, e.g. on logout.
func (t *Tracker) Forget(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.gens, key)
}

// Fetch runs fetch and retries once when the view was mutated while it ran.
// The second result is returned even if another mutation raced it.
func Fetch[T any](t *Tracker, key string, fetch func() (T, error)) (T, error) {
	gen := t.Begin(key)
	res, err := fetch()
	if err != nil || t.Current(key, gen) {
		return res, err
	}
	return fetch()
}
