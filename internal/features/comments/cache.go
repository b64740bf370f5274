package comments

import (
	"sync"
	"time"

	common_models "go-studio-crm/internal/common/models"
)

type cacheKey struct {
	Type common_models.EntityType
	ID   string
}

type commentEntry struct {
	comments  []Comment
	fetchedAt time.Time
}

type noteEntry struct {
	note      Note
	fetchedAt time.Time
}

// Cache is the single shared mutable resource of the subsystem: per-entity
// comment lists and notes with a short freshness window. All mutation goes
// through the coordinator's snapshot/apply/rollback discipline; nothing else
// may poke entries directly.
type Cache struct {
	mu       sync.Mutex
	ttl      time.Duration
	comments map[cacheKey]commentEntry
	notes    map[cacheKey]noteEntry
	now      func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:      ttl,
		comments: map[cacheKey]commentEntry{},
		notes:    map[cacheKey]noteEntry{},
		now:      time.Now,
	}
}

func copyComments(in []Comment) []Comment {
	out := make([]Comment, len(in))
	copy(out, in)
	return out
}

// FreshComments returns a copy of the cached list if it is within the
// freshness window.
func (c *Cache) FreshComments(t common_models.EntityType, id string) ([]Comment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.comments[cacheKey{t, id}]
	if !ok || c.now().Sub(entry.fetchedAt) > c.ttl {
		return nil, false
	}
	return copyComments(entry.comments), true
}

// SnapshotComments returns the current cached list regardless of freshness,
// for rollback bookkeeping. ok=false means no entry exists at all.
func (c *Cache) SnapshotComments(t common_models.EntityType, id string) ([]Comment, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.comments[cacheKey{t, id}]
	if !ok {
		return nil, false
	}
	return copyComments(entry.comments), true
}

func (c *Cache) SetComments(t common_models.EntityType, id string, list []Comment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.comments[cacheKey{t, id}] = commentEntry{comments: copyComments(list), fetchedAt: c.now()}
}

// RestoreComments puts back an exact snapshot. hadEntry=false removes the
// entry entirely, so a failed first write leaves no trace.
func (c *Cache) RestoreComments(t common_models.EntityType, id string, snapshot []Comment, hadEntry bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey{t, id}
	if !hadEntry {
		delete(c.comments, key)
		return
	}
	entry := c.comments[key]
	entry.comments = copyComments(snapshot)
	c.comments[key] = entry
}

// InsertCommentHead applies an optimistic insert at the head of the list.
func (c *Cache) InsertCommentHead(t common_models.EntityType, id string, comment Comment) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey{t, id}
	entry := c.comments[key]
	entry.comments = append([]Comment{comment}, entry.comments...)
	if entry.fetchedAt.IsZero() {
		entry.fetchedAt = c.now()
	}
	c.comments[key] = entry
}

// ReplacePending swaps the placeholder with the server-confirmed comment,
// matched by its pending id rather than position so concurrent optimistic
// entries survive.
func (c *Cache) ReplacePending(t common_models.EntityType, id, pendingID string, confirmed Comment) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey{t, id}
	entry, ok := c.comments[key]
	if !ok {
		return false
	}
	for i, existing := range entry.comments {
		if existing.ID == pendingID {
			entry.comments[i] = confirmed
			c.comments[key] = entry
			return true
		}
	}
	return false
}

func (c *Cache) InvalidateComments(t common_models.EntityType, id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.comments, cacheKey{t, id})
}

func (c *Cache) FreshNote(t common_models.EntityType, id string) (Note, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.notes[cacheKey{t, id}]
	if !ok || c.now().Sub(entry.fetchedAt) > c.ttl {
		return Note{}, false
	}
	return entry.note, true
}

// SnapshotNote returns the cached note regardless of freshness.
func (c *Cache) SnapshotNote(t common_models.EntityType, id string) (Note, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.notes[cacheKey{t, id}]
	if !ok {
		return Note{}, false
	}
	return entry.note, true
}

func (c *Cache) SetNote(t common_models.EntityType, id string, note Note) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notes[cacheKey{t, id}] = noteEntry{note: note, fetchedAt: c.now()}
}

func (c *Cache) RestoreNote(t common_models.EntityType, id string, snapshot Note, hadEntry bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := cacheKey{t, id}
	if !hadEntry {
		delete(c.notes, key)
		return
	}
	entry := c.notes[key]
	entry.note = snapshot
	c.notes[key] = entry
}
