package comments

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func newTestDiagnostics(store Store) *Diagnostics {
	return NewDiagnostics(store, NewSynchronizer(store, zap.NewNop()), zap.NewNop())
}

func TestCompareReportsMissingIDs(t *testing.T) {
	store := newFakeStore()
	store.activities["l1"] = []LeadActivity{
		leadCommentActivity("a1", "synced already"),
		leadCommentActivity("a2", "not yet synced"),
	}
	blob := &NotesBlob{ClientComments: []Comment{{ID: "a1", Text: "synced already", Source: SourceLead}}}
	encoded, _ := blob.Encode()
	store.clients["cl1"] = &ClientNotes{InternalNotes: encoded, OriginalLeadID: "l1"}

	result := newTestDiagnostics(store).Compare(context.Background(), "cl1")

	if !result.Success {
		t.Fatalf("compare failed: %s", result.Error)
	}
	if result.LeadComments != 2 || result.LeadSourcedInClient != 1 {
		t.Errorf("counts wrong: %+v", result)
	}
	if result.InSync || len(result.MissingIDs) != 1 || result.MissingIDs[0] != "a2" {
		t.Errorf("missing ids wrong: %+v", result)
	}
}

func TestCompareUnconvertedClient(t *testing.T) {
	store := newFakeStore()
	store.clients["cl1"] = &ClientNotes{}

	result := newTestDiagnostics(store).Compare(context.Background(), "cl1")
	if result.Success || result.Error == "" {
		t.Errorf("expected structured failure, got %+v", result)
	}
}

func TestForceSyncWaitsForPersist(t *testing.T) {
	store := newFakeStore()
	store.clients["cl1"] = &ClientNotes{OriginalLeadID: "l1"}
	store.activities["l1"] = []LeadActivity{leadCommentActivity("a1", "hello")}

	result := newTestDiagnostics(store).ForceSync(context.Background(), "cl1")

	if !result.Success {
		t.Fatalf("force sync failed: %s", result.Error)
	}
	if result.Added != 1 || result.Total != 1 {
		t.Errorf("counts wrong: %+v", result)
	}
	// Synchronous semantics: the write has landed by the time we return.
	if store.updateCalls() != 1 {
		t.Errorf("persist not awaited, %d writes", store.updateCalls())
	}
}

func TestForceSyncReportsPersistError(t *testing.T) {
	store := newFakeStore()
	store.clients["cl1"] = &ClientNotes{OriginalLeadID: "l1"}
	store.activities["l1"] = []LeadActivity{leadCommentActivity("a1", "hello")}
	store.failUpdates = 1

	result := newTestDiagnostics(store).ForceSync(context.Background(), "cl1")
	if result.Success || result.Error == "" {
		t.Errorf("expected structured failure, got %+v", result)
	}
}

func TestDumpStateOnLegacyColumn(t *testing.T) {
	store := newFakeStore()
	store.clients["cl1"] = &ClientNotes{InternalNotes: "plain text notes", OriginalLeadID: "l1"}
	store.activities["l1"] = []LeadActivity{
		leadCommentActivity("a1", "hello"),
		{ID: "a2", LeadID: "l1", Description: strPtr("Lead created")},
	}

	dump := newTestDiagnostics(store).DumpState(context.Background(), "cl1")

	if !dump.Success {
		t.Fatalf("dump failed: %s", dump.Error)
	}
	if dump.Structured {
		t.Error("legacy text reported as structured")
	}
	if dump.RawNotes != "plain text notes" || dump.OriginalNotes != "plain text notes" {
		t.Errorf("raw text not surfaced: %+v", dump)
	}
	if dump.LeadActivityCount != 2 || dump.LeadCommentCount != 1 {
		t.Errorf("lead counts wrong: %+v", dump)
	}
}

func TestSweepCoversAllConvertedClients(t *testing.T) {
	store := newFakeStore()
	store.activities["l1"] = []LeadActivity{leadCommentActivity("a1", "hello")}
	store.clients["cl1"] = &ClientNotes{OriginalLeadID: "l1"}
	store.clients["cl2"] = &ClientNotes{OriginalLeadID: "l2"}
	store.clients["cl3"] = &ClientNotes{} // never converted, out of scope

	result, err := newTestDiagnostics(store).Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if result.Clients != 2 {
		t.Errorf("expected 2 converted clients, got %d", result.Clients)
	}
	if result.Synced != 1 {
		t.Errorf("expected 1 client with backfill, got %d", result.Synced)
	}
	if result.Failed != 0 {
		t.Errorf("unexpected failures: %+v", result)
	}
}
