package comments

import (
	"context"
	"sync"
	"time"

	common_models "go-studio-crm/internal/common/models"

	"go.uber.org/zap"
)

type pendingNote struct {
	timer    *time.Timer
	content  string
	snapshot Note
	hadEntry bool
}

// NotesUpdater collapses rapid note edits into one trailing-debounced write
// per quiet period while the cache shows every keystroke immediately. The
// rollback target is the value from before the burst started, not the
// previous keystroke.
type NotesUpdater struct {
	store        Store
	cache        *Cache
	notifier     Notifier
	log          *zap.Logger
	delay        time.Duration
	writeTimeout time.Duration

	mu      sync.Mutex
	pending map[cacheKey]*pendingNote
	closed  bool
}

func NewNotesUpdater(store Store, cache *Cache, notifier Notifier, log *zap.Logger, delay time.Duration) *NotesUpdater {
	return &NotesUpdater{
		store:        store,
		cache:        cache,
		notifier:     notifier,
		log:          log,
		delay:        delay,
		writeTimeout: 10 * time.Second,
		pending:      map[cacheKey]*pendingNote{},
	}
}

// Get is the cached read path for notes. Read failures degrade to an empty
// note, same policy as comments.
func (u *NotesUpdater) Get(ctx context.Context, t common_models.EntityType, entityID string) Note {
	if cached, ok := u.cache.FreshNote(t, entityID); ok {
		return cached
	}

	note, err := u.store.GetNote(ctx, t, entityID)
	if err != nil {
		u.log.Warn("note fetch failed, returning empty note",
			zap.String("entityType", string(t)),
			zap.String("entityId", entityID),
			zap.Error(err))
		return Note{EntityID: entityID, EntityType: t}
	}

	u.cache.SetNote(t, entityID, *note)
	return *note
}

// Update applies the optimistic value immediately and (re)schedules the
// debounced write: each call cancels any pending write and only the last
// content of a quiet period is persisted.
func (u *NotesUpdater) Update(t common_models.EntityType, entityID, content string) {
	key := cacheKey{t, entityID}

	u.mu.Lock()
	p, ok := u.pending[key]
	if ok {
		p.timer.Stop()
	} else {
		snapshot, hadEntry := u.cache.SnapshotNote(t, entityID)
		p = &pendingNote{snapshot: snapshot, hadEntry: hadEntry}
		u.pending[key] = p
	}
	p.content = content

	u.cache.SetNote(t, entityID, Note{
		EntityID:    entityID,
		EntityType:  t,
		Content:     content,
		LastUpdated: time.Now().UTC(),
	})

	if u.closed {
		delete(u.pending, key)
		u.mu.Unlock()
		return
	}
	p.timer = time.AfterFunc(u.delay, func() { u.flush(key) })
	u.mu.Unlock()
}

func (u *NotesUpdater) flush(key cacheKey) {
	u.mu.Lock()
	p, ok := u.pending[key]
	if !ok {
		u.mu.Unlock()
		return
	}
	delete(u.pending, key)
	content, snapshot, hadEntry := p.content, p.snapshot, p.hadEntry
	u.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), u.writeTimeout)
	defer cancel()

	if err := u.store.UpdateNote(ctx, key.Type, key.ID, content); err != nil {
		u.cache.RestoreNote(key.Type, key.ID, snapshot, hadEntry)
		u.notifier.Failure(ctx, "Failed to save notes")
		u.log.Warn("note write failed, rolled back",
			zap.String("entityType", string(key.Type)),
			zap.String("entityId", key.ID),
			zap.Error(err))
		return
	}

	// Reconcile the cache to the confirmed value.
	u.cache.SetNote(key.Type, key.ID, Note{
		EntityID:    key.ID,
		EntityType:  key.Type,
		Content:     content,
		LastUpdated: time.Now().UTC(),
	})
	u.notifier.Success(ctx, "Notes saved")
}

// Close cancels every scheduled write; nothing may fire after teardown.
func (u *NotesUpdater) Close() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.closed = true
	for key, p := range u.pending {
		if p.timer != nil {
			p.timer.Stop()
		}
		delete(u.pending, key)
	}
}
