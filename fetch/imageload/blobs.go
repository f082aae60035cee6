package imageload

import (
	"sync"

	"github.com/google/uuid"
)

// refTable holds transient byte references while a decode is in
// flight. Every entry is created by a single load and must be released
// on every exit path, success or failure, or the bytes stay pinned for
// the life of the process.
type refTable struct {
	mu    sync.Mutex
	blobs map[uuid.UUID][]byte
}

var refs = &refTable{blobs: make(map[uuid.UUID][]byte)}

func (t *refTable) add(data []byte) uuid.UUID {
	id := uuid.New()
	t.mu.Lock()
	t.blobs[id] = data
	t.mu.Unlock()
	return id
}

func (t *refTable) get(id uuid.UUID) ([]byte, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	data, ok := t.blobs[id]
	return data, ok
}

func (t *refTable) release(id uuid.UUID) {
	t.mu.Lock()
	delete(t.blobs, id)
	t.mu.Unlock()
}

func (t *refTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.blobs)
}
