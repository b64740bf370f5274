package submission

import (
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

type mockSubmissionRepo struct {
	stored        map[string]*Submission
	statusUpdates []Status
}

func newMockSubmissionRepo() *mockSubmissionRepo {
	return &mockSubmissionRepo{stored: map[string]*Submission{}}
}

func (m *mockSubmissionRepo) Create(ctx context.Context, sub *Submission) error {
	if sub.Status == "" {
		sub.Status = StatusPending
	}
	m.stored[sub.Reference] = sub
	return nil
}

func (m *mockSubmissionRepo) Get(ctx context.Context, id string) (*Submission, error) {
	if sub, ok := m.stored[id]; ok {
		return sub, nil
	}
	return nil, context.Canceled
}

func (m *mockSubmissionRepo) List(ctx context.Context, clientID string, limit, offset int64) ([]Submission, error) {
	return nil, nil
}

func (m *mockSubmissionRepo) UpdateStatus(ctx context.Context, id string, status Status) error {
	m.statusUpdates = append(m.statusUpdates, status)
	if sub, ok := m.stored[id]; ok {
		sub.Status = status
	}
	return nil
}

func (m *mockSubmissionRepo) AddImage(ctx context.Context, id string, image Image) error {
	return nil
}

func (m *mockSubmissionRepo) MarkImageDeleted(ctx context.Context, id, imageID string) error {
	return nil
}

func (m *mockSubmissionRepo) AddThreadEntry(ctx context.Context, id string, entry ThreadEntry) error {
	return nil
}

func TestCreateGeneratesReference(t *testing.T) {
	repo := newMockSubmissionRepo()
	service := NewSubmissionService(repo, zap.NewNop())

	sub := &Submission{ClientID: "cl1", Title: "Wedding Shoot 2026"}
	if err := service.Create(context.Background(), sub); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if !strings.HasPrefix(sub.Reference, "wedding-shoot-2026-") {
		t.Errorf("unexpected reference: %q", sub.Reference)
	}
}

func TestChangeStatusFollowsWorkflow(t *testing.T) {
	cases := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusProcessing, StatusReview, true},
		{StatusReview, StatusApproved, true},
		{StatusReview, StatusProcessing, true},
		{StatusApproved, StatusDelivered, true},
		{StatusPending, StatusDelivered, false},
		{StatusPending, StatusReview, false},
		{StatusDelivered, StatusPending, false},
		{StatusApproved, StatusProcessing, false},
	}

	for _, tc := range cases {
		repo := newMockSubmissionRepo()
		repo.stored["s1"] = &Submission{Status: tc.from}
		service := NewSubmissionService(repo, zap.NewNop())

		err := service.ChangeStatus(context.Background(), "s1", tc.to)
		if tc.allowed && err != nil {
			t.Errorf("%s -> %s should be allowed: %v", tc.from, tc.to, err)
		}
		if !tc.allowed && err == nil {
			t.Errorf("%s -> %s should be rejected", tc.from, tc.to)
		}
	}
}

func TestRegisterImageRejectsUnknownKind(t *testing.T) {
	service := NewSubmissionService(newMockSubmissionRepo(), zap.NewNop())

	if _, err := service.RegisterImage(context.Background(), "s1", "thumbnail", "a.jpg", "http://x/a.jpg", "u1"); err == nil {
		t.Error("unknown image kind accepted")
	}
}

func TestVisibleThreadPerTier(t *testing.T) {
	now := time.Now()
	sub := &Submission{Thread: []ThreadEntry{
		{ID: "t1", Tier: TierAdmin, Text: "internal", CreatedAt: now},
		{ID: "t2", Tier: TierEditor, Text: "retouch notes", CreatedAt: now},
		{ID: "t3", Tier: TierClient, Text: "please brighten", CreatedAt: now},
	}}
	service := NewSubmissionService(newMockSubmissionRepo(), zap.NewNop())

	cases := []struct {
		viewer Tier
		want   []string
	}{
		{TierAdmin, []string{"t1", "t2", "t3"}},
		{TierEditor, []string{"t2", "t3"}},
		{TierClient, []string{"t3"}},
	}

	for _, tc := range cases {
		visible := service.VisibleThread(sub, tc.viewer)
		if len(visible) != len(tc.want) {
			t.Errorf("%s: expected %d entries, got %d", tc.viewer, len(tc.want), len(visible))
			continue
		}
		for i, id := range tc.want {
			if visible[i].ID != id {
				t.Errorf("%s: entry %d want %s got %s", tc.viewer, i, id, visible[i].ID)
			}
		}
	}
}
