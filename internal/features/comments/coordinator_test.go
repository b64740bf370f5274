package comments

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	common_models "go-studio-crm/internal/common/models"

	"go.uber.org/zap"
)

func newTestCoordinator(store Store, cache *Cache, notifier Notifier) *Coordinator {
	writer := NewRetryWriter(store, zap.NewNop())
	writer.sleep = func(time.Duration) {}
	return NewCoordinator(store, cache, writer, notifier, zap.NewNop())
}

func TestAddClientCommentConfirmsPlaceholder(t *testing.T) {
	store := newFakeStore()
	store.clients["cl1"] = &ClientNotes{}
	cache := NewCache(time.Minute)
	notifier := &fakeNotifier{}
	coord := newTestCoordinator(store, cache, notifier)

	confirmed, err := coord.AddComment(context.Background(), common_models.EntityClient, "cl1", "hello")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if confirmed.Pending {
		t.Error("confirmed comment still flagged pending")
	}
	if confirmed.Source != SourceClient {
		t.Errorf("wrong source: %s", confirmed.Source)
	}

	cached, ok := cache.SnapshotComments(common_models.EntityClient, "cl1")
	if !ok || len(cached) != 1 {
		t.Fatalf("cache wrong after confirm: ok=%v list=%+v", ok, cached)
	}
	if cached[0].ID != confirmed.ID || cached[0].Pending {
		t.Errorf("placeholder not replaced: %+v", cached[0])
	}

	successes, failures := notifier.counts()
	if successes != 1 || failures != 0 {
		t.Errorf("expected one success notification, got %d/%d", successes, failures)
	}
}

func TestAddCommentRollsBackToExactSnapshot(t *testing.T) {
	store := newFakeStore()
	store.clients["cl1"] = &ClientNotes{}
	store.failUpdates = maxWriteAttempts
	cache := NewCache(time.Minute)
	notifier := &fakeNotifier{}
	coord := newTestCoordinator(store, cache, notifier)

	existing := []Comment{{ID: "c0", Text: "already here", Source: SourceClient}}
	cache.SetComments(common_models.EntityClient, "cl1", existing)

	_, err := coord.AddComment(context.Background(), common_models.EntityClient, "cl1", "doomed")
	if err == nil {
		t.Fatal("expected error after write failure")
	}

	after, ok := cache.SnapshotComments(common_models.EntityClient, "cl1")
	if !ok {
		t.Fatal("cache entry vanished on rollback")
	}
	if !reflect.DeepEqual(after, existing) {
		t.Errorf("rollback not exact: want %+v got %+v", existing, after)
	}

	successes, failures := notifier.counts()
	if failures != 1 || successes != 0 {
		t.Errorf("expected one failure notification, got %d/%d", successes, failures)
	}
}

func TestAddCommentRollbackRemovesEntryWhenNoneExisted(t *testing.T) {
	store := newFakeStore()
	store.clients["cl1"] = &ClientNotes{}
	store.failUpdates = maxWriteAttempts
	cache := NewCache(time.Minute)
	coord := newTestCoordinator(store, cache, &fakeNotifier{})

	_, err := coord.AddComment(context.Background(), common_models.EntityClient, "cl1", "doomed")
	if err == nil {
		t.Fatal("expected error")
	}

	if _, ok := cache.SnapshotComments(common_models.EntityClient, "cl1"); ok {
		t.Error("failed first write left a cache entry behind")
	}
}

func TestAddLeadCommentUsesAppendPath(t *testing.T) {
	store := newFakeStore()
	cache := NewCache(time.Minute)
	coord := newTestCoordinator(store, cache, &fakeNotifier{})

	confirmed, err := coord.AddComment(context.Background(), common_models.EntityLead, "l1", "note on lead")
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if store.appendCalls != 1 || store.insertCalls != 0 {
		t.Errorf("expected append path, calls append=%d insert=%d", store.appendCalls, store.insertCalls)
	}
	if confirmed.Source != SourceLead {
		t.Errorf("wrong source: %s", confirmed.Source)
	}

	// The stored description carries the prefix, the returned text does not.
	activities := store.activities["l1"]
	if len(activities) != 1 || *activities[0].Description != CommentPrefix+"note on lead" {
		t.Errorf("stored description wrong: %+v", activities)
	}
	if confirmed.Text != "note on lead" {
		t.Errorf("returned text wrong: %q", confirmed.Text)
	}
}

func TestAddLeadCommentFallsBackToInsert(t *testing.T) {
	store := newFakeStore()
	store.appendErr = errors.New("rpc unavailable")
	cache := NewCache(time.Minute)
	coord := newTestCoordinator(store, cache, &fakeNotifier{})

	_, err := coord.AddComment(context.Background(), common_models.EntityLead, "l1", "fallback")
	if err != nil {
		t.Fatalf("fallback should have succeeded: %v", err)
	}
	if store.appendCalls != 1 || store.insertCalls != 1 {
		t.Errorf("expected append then insert, calls append=%d insert=%d", store.appendCalls, store.insertCalls)
	}
}

func TestAddCommentOptimisticEntryVisibleDuringWrite(t *testing.T) {
	store := newFakeStore()
	store.clients["cl1"] = &ClientNotes{}
	cache := NewCache(time.Minute)

	var seenDuringWrite []Comment
	blocking := &observingStore{fakeStore: store, onUpdate: func() {
		seenDuringWrite, _ = cache.SnapshotComments(common_models.EntityClient, "cl1")
	}}
	coord := newTestCoordinator(blocking, cache, &fakeNotifier{})

	if _, err := coord.AddComment(context.Background(), common_models.EntityClient, "cl1", "instant"); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	if len(seenDuringWrite) != 1 || !seenDuringWrite[0].Pending {
		t.Errorf("placeholder not visible while write in flight: %+v", seenDuringWrite)
	}
}

// observingStore lets a test peek at shared state at the moment of a write.
type observingStore struct {
	*fakeStore
	onUpdate func()
}

func (o *observingStore) UpdateClientNotes(ctx context.Context, clientID, internalNotes string) error {
	if o.onUpdate != nil {
		o.onUpdate()
	}
	return o.fakeStore.UpdateClientNotes(ctx, clientID, internalNotes)
}
