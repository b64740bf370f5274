package comments

import (
	"context"
	"errors"
	"testing"
	"time"

	common_models "go-studio-crm/internal/common/models"

	"go.uber.org/zap"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

func TestNotesDebounceCollapsesBurst(t *testing.T) {
	store := newFakeStore()
	cache := NewCache(time.Minute)
	updater := NewNotesUpdater(store, cache, &fakeNotifier{}, zap.NewNop(), 30*time.Millisecond)
	defer updater.Close()

	updater.Update(common_models.EntityClient, "cl1", "a")
	updater.Update(common_models.EntityClient, "cl1", "ab")
	updater.Update(common_models.EntityClient, "cl1", "abc")

	// Every keystroke is visible immediately.
	cached, ok := cache.SnapshotNote(common_models.EntityClient, "cl1")
	if !ok || cached.Content != "abc" {
		t.Fatalf("optimistic note wrong: ok=%v %+v", ok, cached)
	}

	waitFor(t, time.Second, func() bool { return len(store.writtenNotes()) > 0 })

	writes := store.writtenNotes()
	if len(writes) != 1 || writes[0] != "abc" {
		t.Errorf("expected single write of final content, got %v", writes)
	}
}

func TestNotesIndependentEntitiesDebounceSeparately(t *testing.T) {
	store := newFakeStore()
	cache := NewCache(time.Minute)
	updater := NewNotesUpdater(store, cache, &fakeNotifier{}, zap.NewNop(), 20*time.Millisecond)
	defer updater.Close()

	updater.Update(common_models.EntityClient, "cl1", "client note")
	updater.Update(common_models.EntityLead, "l1", "lead note")

	waitFor(t, time.Second, func() bool { return len(store.writtenNotes()) == 2 })
}

func TestNotesFailureRollsBackToPreBurstValue(t *testing.T) {
	store := newFakeStore()
	store.noteErr = errors.New("write denied")
	cache := NewCache(time.Minute)
	notifier := &fakeNotifier{}
	updater := NewNotesUpdater(store, cache, notifier, zap.NewNop(), 10*time.Millisecond)
	defer updater.Close()

	original := Note{EntityID: "cl1", EntityType: common_models.EntityClient, Content: "before the burst"}
	cache.SetNote(common_models.EntityClient, "cl1", original)

	updater.Update(common_models.EntityClient, "cl1", "edit one")
	updater.Update(common_models.EntityClient, "cl1", "edit two")

	waitFor(t, time.Second, func() bool {
		_, failures := notifier.counts()
		return failures > 0
	})

	after, ok := cache.SnapshotNote(common_models.EntityClient, "cl1")
	if !ok {
		t.Fatal("note entry vanished")
	}
	if after.Content != "before the burst" {
		t.Errorf("rollback target wrong: %q", after.Content)
	}
}

func TestNotesGetDegradesToEmpty(t *testing.T) {
	store := newFakeStore()
	store.getNoteErr = errors.New("permission denied")
	cache := NewCache(time.Minute)
	updater := NewNotesUpdater(store, cache, &fakeNotifier{}, zap.NewNop(), time.Second)
	defer updater.Close()

	note := updater.Get(context.Background(), common_models.EntityClient, "cl1")
	if note.Content != "" || note.EntityID != "cl1" {
		t.Errorf("expected empty note, got %+v", note)
	}
}

func TestNotesCloseCancelsPendingWrites(t *testing.T) {
	store := newFakeStore()
	cache := NewCache(time.Minute)
	updater := NewNotesUpdater(store, cache, &fakeNotifier{}, zap.NewNop(), 20*time.Millisecond)

	updater.Update(common_models.EntityClient, "cl1", "never persisted")
	updater.Close()

	time.Sleep(80 * time.Millisecond)
	if writes := store.writtenNotes(); len(writes) != 0 {
		t.Errorf("write fired after close: %v", writes)
	}

	// Updates after close are dropped, not scheduled.
	updater.Update(common_models.EntityClient, "cl1", "late edit")
	time.Sleep(80 * time.Millisecond)
	if writes := store.writtenNotes(); len(writes) != 0 {
		t.Errorf("post-close update persisted: %v", writes)
	}
}
