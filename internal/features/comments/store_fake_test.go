package comments

import (
	"context"
	"errors"
	"sync"
	"time"

	common_models "go-studio-crm/internal/common/models"
)

// fakeStore is the in-memory Store used across the package tests. Error
// injection is per method; failUpdates makes the next N client-notes writes
// fail so retry paths can be exercised.
type fakeStore struct {
	mu sync.Mutex

	activities map[string][]LeadActivity
	clients    map[string]*ClientNotes
	notes      map[cacheKey]Note

	listErr      error
	getClientErr error
	appendErr    error
	insertErr    error
	getNoteErr   error
	noteErr      error
	failUpdates  int

	listCalls         int
	getClientCalls    int
	updateClientCalls int
	appendCalls       int
	insertCalls       int
	noteWrites        []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		activities: map[string][]LeadActivity{},
		clients:    map[string]*ClientNotes{},
		notes:      map[cacheKey]Note{},
	}
}

func (f *fakeStore) ListLeadActivities(ctx context.Context, leadID string) ([]LeadActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]LeadActivity{}, f.activities[leadID]...), nil
}

func (f *fakeStore) AppendLeadActivity(ctx context.Context, leadID, description string) (*LeadActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendCalls++
	if f.appendErr != nil {
		return nil, f.appendErr
	}
	activity := LeadActivity{
		ID:          "act-appended",
		LeadID:      leadID,
		Description: &description,
		Timestamp:   time.Now().UTC(),
	}
	f.activities[leadID] = append(f.activities[leadID], activity)
	return &activity, nil
}

func (f *fakeStore) InsertLeadActivity(ctx context.Context, leadID, description string, timestamp time.Time) (*LeadActivity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	activity := LeadActivity{
		ID:          "act-inserted",
		LeadID:      leadID,
		Description: &description,
		Timestamp:   timestamp,
	}
	f.activities[leadID] = append(f.activities[leadID], activity)
	return &activity, nil
}

func (f *fakeStore) GetClientNotes(ctx context.Context, clientID string) (*ClientNotes, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getClientCalls++
	if f.getClientErr != nil {
		return nil, f.getClientErr
	}
	notes, ok := f.clients[clientID]
	if !ok {
		return nil, errors.New("client not found")
	}
	copied := *notes
	return &copied, nil
}

func (f *fakeStore) ListConvertedClientIDs(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []string
	for id, notes := range f.clients {
		if notes.OriginalLeadID != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (f *fakeStore) UpdateClientNotes(ctx context.Context, clientID, internalNotes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateClientCalls++
	if f.failUpdates > 0 {
		f.failUpdates--
		return errors.New("write denied")
	}
	notes, ok := f.clients[clientID]
	if !ok {
		return errors.New("client not found")
	}
	notes.InternalNotes = internalNotes
	return nil
}

func (f *fakeStore) GetNote(ctx context.Context, entityType common_models.EntityType, entityID string) (*Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getNoteErr != nil {
		return nil, f.getNoteErr
	}
	note, ok := f.notes[cacheKey{entityType, entityID}]
	if !ok {
		return &Note{EntityID: entityID, EntityType: entityType}, nil
	}
	return &note, nil
}

func (f *fakeStore) UpdateNote(ctx context.Context, entityType common_models.EntityType, entityID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.noteErr != nil {
		return f.noteErr
	}
	f.noteWrites = append(f.noteWrites, content)
	f.notes[cacheKey{entityType, entityID}] = Note{
		EntityID:    entityID,
		EntityType:  entityType,
		Content:     content,
		LastUpdated: time.Now().UTC(),
	}
	return nil
}

func (f *fakeStore) clientNotesRaw(clientID string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if notes, ok := f.clients[clientID]; ok {
		return notes.InternalNotes
	}
	return ""
}

func (f *fakeStore) updateCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updateClientCalls
}

func (f *fakeStore) writtenNotes() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.noteWrites...)
}

// fakeNotifier records feedback messages.
type fakeNotifier struct {
	mu        sync.Mutex
	successes []string
	failures  []string
}

func (n *fakeNotifier) Success(ctx context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, message)
}

func (n *fakeNotifier) Failure(ctx context.Context, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, message)
}

func (n *fakeNotifier) counts() (int, int) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.successes), len(n.failures)
}

func strPtr(s string) *string { return &s }
