package comments

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestWriter(store Store) (*RetryWriter, *[]time.Duration) {
	w := NewRetryWriter(store, zap.NewNop())
	var slept []time.Duration
	w.sleep = func(d time.Duration) { slept = append(slept, d) }
	return w, &slept
}

func TestWriteSucceedsFirstAttempt(t *testing.T) {
	store := newFakeStore()
	store.clients["cl1"] = &ClientNotes{}
	w, slept := newTestWriter(store)

	comment := Comment{ID: "c1", Text: "hello", Timestamp: time.Now()}
	if err := w.Write(context.Background(), "cl1", comment); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if store.updateCalls() != 1 {
		t.Errorf("expected 1 write, got %d", store.updateCalls())
	}
	if len(*slept) != 0 {
		t.Errorf("no backoff expected on success, slept %v", *slept)
	}

	blob, ok := DecodeNotesBlob(store.clientNotesRaw("cl1"))
	if !ok || len(blob.ClientComments) != 1 || blob.ClientComments[0].ID != "c1" {
		t.Fatalf("blob wrong after write: %+v", blob)
	}
	if blob.LastCommentUpdate == "" {
		t.Error("lastCommentUpdate not stamped")
	}
}

func TestWritePrependsNewestFirst(t *testing.T) {
	store := newFakeStore()
	store.clients["cl1"] = &ClientNotes{}
	w, _ := newTestWriter(store)

	w.Write(context.Background(), "cl1", Comment{ID: "c1", Text: "older", Timestamp: time.Now()})
	w.Write(context.Background(), "cl1", Comment{ID: "c2", Text: "newer", Timestamp: time.Now()})

	blob, _ := DecodeNotesBlob(store.clientNotesRaw("cl1"))
	if len(blob.ClientComments) != 2 {
		t.Fatalf("expected 2 comments, got %d", len(blob.ClientComments))
	}
	if blob.ClientComments[0].ID != "c2" {
		t.Errorf("newest not first: %+v", blob.ClientComments)
	}
}

func TestWriteRetriesWithBackoffThenSucceeds(t *testing.T) {
	store := newFakeStore()
	store.clients["cl1"] = &ClientNotes{}
	store.failUpdates = 2
	w, slept := newTestWriter(store)

	if err := w.Write(context.Background(), "cl1", Comment{ID: "c1", Text: "hello"}); err != nil {
		t.Fatalf("expected success on third attempt, got %v", err)
	}

	if store.updateCalls() != 3 {
		t.Errorf("expected 3 attempts, got %d", store.updateCalls())
	}
	want := []time.Duration{200 * time.Millisecond, 400 * time.Millisecond}
	if len(*slept) != len(want) {
		t.Fatalf("expected %d backoffs, got %v", len(want), *slept)
	}
	for i, d := range want {
		if (*slept)[i] != d {
			t.Errorf("backoff %d: want %v got %v", i, d, (*slept)[i])
		}
	}
}

func TestWriteExhaustsBudget(t *testing.T) {
	store := newFakeStore()
	store.clients["cl1"] = &ClientNotes{}
	store.failUpdates = 10
	w, slept := newTestWriter(store)

	err := w.Write(context.Background(), "cl1", Comment{ID: "c1", Text: "hello"})
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if store.updateCalls() != maxWriteAttempts {
		t.Errorf("expected exactly %d attempts, got %d", maxWriteAttempts, store.updateCalls())
	}
	// No sleep after the final attempt.
	if len(*slept) != maxWriteAttempts-1 {
		t.Errorf("expected %d backoffs, got %d", maxWriteAttempts-1, len(*slept))
	}
}

func TestWriteRereadsFreshStateEachAttempt(t *testing.T) {
	store := newFakeStore()
	store.clients["cl1"] = &ClientNotes{}
	store.failUpdates = 1
	w, _ := newTestWriter(store)

	if err := w.Write(context.Background(), "cl1", Comment{ID: "c1", Text: "hello"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if store.getClientCalls != 2 {
		t.Errorf("expected a fresh read per attempt, got %d reads", store.getClientCalls)
	}
}

func TestWriteWrapsLegacyTextInsteadOfDestroying(t *testing.T) {
	store := newFakeStore()
	store.clients["cl1"] = &ClientNotes{InternalNotes: "handwritten history"}
	w, _ := newTestWriter(store)

	if err := w.Write(context.Background(), "cl1", Comment{ID: "c1", Text: "hello"}); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	blob, ok := DecodeNotesBlob(store.clientNotesRaw("cl1"))
	if !ok {
		t.Fatal("column should now be structured")
	}
	if blob.OriginalNotes != "handwritten history" {
		t.Errorf("legacy text lost: %q", blob.OriginalNotes)
	}
	if len(blob.ClientComments) != 1 {
		t.Errorf("comment missing: %+v", blob.ClientComments)
	}
}
