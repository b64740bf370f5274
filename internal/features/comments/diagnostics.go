package comments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Diagnostics are support/debugging helpers operating directly against the
// store, bypassing the cache. They report problems as structured results
// instead of errors: they exist for investigation, not happy-path flows.
type Diagnostics struct {
	store Store
	sync  *Synchronizer
	log   *zap.Logger
}

func NewDiagnostics(store Store, sync *Synchronizer, log *zap.Logger) *Diagnostics {
	return &Diagnostics{store: store, sync: sync, log: log}
}

// CompareResult reports how a converted client's comment set relates to its
// lead's authoritative activity log.
type CompareResult struct {
	Success             bool     `json:"success"`
	Error               string   `json:"error,omitempty"`
	ClientID            string   `json:"clientId"`
	LeadID              string   `json:"leadId,omitempty"`
	LeadComments        int      `json:"leadComments"`
	LeadSourcedInClient int      `json:"leadSourcedInClient"`
	MissingIDs          []string `json:"missingIds"`
	InSync              bool     `json:"inSync"`
}

func (d *Diagnostics) Compare(ctx context.Context, clientID string) CompareResult {
	result := CompareResult{ClientID: clientID, MissingIDs: []string{}}

	notes, err := d.store.GetClientNotes(ctx, clientID)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if notes.OriginalLeadID == "" {
		result.Error = "client has no original lead"
		return result
	}
	result.LeadID = notes.OriginalLeadID

	activities, err := d.store.ListLeadActivities(ctx, notes.OriginalLeadID)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	leadComments := LeadComments(notes.OriginalLeadID, activities)
	result.LeadComments = len(leadComments)

	blob, _ := DecodeNotesBlob(notes.InternalNotes)
	seen := map[string]struct{}{}
	for _, c := range blob.ClientComments {
		if c.Source == SourceLead {
			seen[c.ID] = struct{}{}
			result.LeadSourcedInClient++
		}
	}
	for _, lc := range leadComments {
		if _, ok := seen[lc.ID]; !ok {
			result.MissingIDs = append(result.MissingIDs, lc.ID)
		}
	}

	result.Success = true
	result.InSync = len(result.MissingIDs) == 0
	return result
}

// ForceSyncResult reports a manually triggered, synchronous re-sync.
type ForceSyncResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Added   int    `json:"added"`
	Total   int    `json:"total"`
}

// ForceSync runs the synchronizer for one client and waits for the persist
// to settle instead of firing and forgetting.
func (d *Diagnostics) ForceSync(ctx context.Context, clientID string) ForceSyncResult {
	result := ForceSyncResult{}

	notes, err := d.store.GetClientNotes(ctx, clientID)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	if notes.OriginalLeadID == "" {
		result.Error = "client has no original lead"
		return result
	}

	blob, _ := DecodeNotesBlob(notes.InternalNotes)
	current := normalizeComments(blob.ClientComments, clientID, time.Now, uuid.NewString)

	out := d.sync.Sync(ctx, clientID, notes.OriginalLeadID, blob, current)
	if err := <-out.Persisted; err != nil {
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.Added = out.Missing
	result.Total = len(out.Comments)
	return result
}

// StateDump is the full diagnostic picture for a client.
type StateDump struct {
	Success           bool   `json:"success"`
	Error             string `json:"error,omitempty"`
	ClientID          string `json:"clientId"`
	OriginalLeadID    string `json:"originalLeadId,omitempty"`
	RawNotes          string `json:"rawNotes"`
	Structured        bool   `json:"structured"`
	CommentCount      int    `json:"commentCount"`
	LastCommentUpdate string `json:"lastCommentUpdate,omitempty"`
	LastSync          string `json:"lastSync,omitempty"`
	OriginalNotes     string `json:"originalNotes,omitempty"`
	LeadActivityCount int    `json:"leadActivityCount"`
	LeadCommentCount  int    `json:"leadCommentCount"`
}

// DumpState reads everything relevant for a client and logs it alongside
// returning it.
func (d *Diagnostics) DumpState(ctx context.Context, clientID string) StateDump {
	dump := StateDump{ClientID: clientID}

	notes, err := d.store.GetClientNotes(ctx, clientID)
	if err != nil {
		dump.Error = err.Error()
		return dump
	}
	dump.OriginalLeadID = notes.OriginalLeadID
	dump.RawNotes = notes.InternalNotes

	blob, structured := DecodeNotesBlob(notes.InternalNotes)
	dump.Structured = structured
	dump.CommentCount = len(blob.ClientComments)
	dump.LastCommentUpdate = blob.LastCommentUpdate
	dump.LastSync = blob.LastSync
	dump.OriginalNotes = blob.OriginalNotes

	if notes.OriginalLeadID != "" {
		if activities, err := d.store.ListLeadActivities(ctx, notes.OriginalLeadID); err == nil {
			dump.LeadActivityCount = len(activities)
			dump.LeadCommentCount = len(LeadComments(notes.OriginalLeadID, activities))
		}
	}

	dump.Success = true
	d.log.Info("comment state dump",
		zap.String("entityType", "client"),
		zap.String("entityId", clientID),
		zap.String("leadId", dump.OriginalLeadID),
		zap.Bool("structured", dump.Structured),
		zap.Int("commentCount", dump.CommentCount),
		zap.Int("leadCommentCount", dump.LeadCommentCount),
		zap.String("lastSync", dump.LastSync))
	return dump
}

// SweepResult summarizes a sync sweep across all converted clients.
type SweepResult struct {
	Clients int `json:"clients"`
	Synced  int `json:"synced"`
	Failed  int `json:"failed"`
}

// Sweep force-syncs every converted client. Used by the scheduled audit job.
func (d *Diagnostics) Sweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult

	ids, err := d.store.ListConvertedClientIDs(ctx)
	if err != nil {
		return result, err
	}
	result.Clients = len(ids)

	for _, id := range ids {
		out := d.ForceSync(ctx, id)
		if !out.Success {
			result.Failed++
			continue
		}
		if out.Added > 0 {
			result.Synced++
		}
	}
	return result, nil
}
