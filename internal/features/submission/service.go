package submission

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go-studio-crm/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SubmissionService interface {
	Create(ctx context.Context, sub *Submission) error
	Get(ctx context.Context, id string) (*Submission, error)
	List(ctx context.Context, clientID string, limit, offset int64) ([]Submission, error)
	ChangeStatus(ctx context.Context, id string, status Status) error
	RegisterImage(ctx context.Context, id string, kind ImageKind, fileName, url, uploadedBy string) (*Image, error)
	DeleteImage(ctx context.Context, id, imageID string) error
	AddThreadEntry(ctx context.Context, id string, tier Tier, author, text string) (*ThreadEntry, error)
	// VisibleThread filters the discussion for a viewer: admins see all
	// tiers, editors see editor and client entries, clients only their own
	// tier.
	VisibleThread(sub *Submission, viewer Tier) []ThreadEntry
}

type SubmissionServiceImpl struct {
	Repo   SubmissionRepository
	Logger *zap.Logger
}

func NewSubmissionService(repo SubmissionRepository, logger *zap.Logger) SubmissionService {
	return &SubmissionServiceImpl{Repo: repo, Logger: logger}
}

func (s *SubmissionServiceImpl) Create(ctx context.Context, sub *Submission) error {
	if sub.Reference == "" {
		sub.Reference = utils.Slugify(sub.Title) + "-" + uuid.NewString()[:8]
	}
	return s.Repo.Create(ctx, sub)
}

func (s *SubmissionServiceImpl) Get(ctx context.Context, id string) (*Submission, error) {
	return s.Repo.Get(ctx, id)
}

func (s *SubmissionServiceImpl) List(ctx context.Context, clientID string, limit, offset int64) ([]Submission, error) {
	return s.Repo.List(ctx, clientID, limit, offset)
}

func (s *SubmissionServiceImpl) ChangeStatus(ctx context.Context, id string, status Status) error {
	sub, err := s.Repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if !slices.Contains(validTransitions[sub.Status], status) {
		return fmt.Errorf("cannot move submission from %s to %s", sub.Status, status)
	}
	return s.Repo.UpdateStatus(ctx, id, status)
}

func (s *SubmissionServiceImpl) RegisterImage(ctx context.Context, id string, kind ImageKind, fileName, url, uploadedBy string) (*Image, error) {
	if kind != ImageOriginal && kind != ImageProcessed {
		return nil, fmt.Errorf("unknown image kind %q", kind)
	}

	image := Image{
		ID:         uuid.NewString(),
		Kind:       kind,
		FileName:   fileName,
		URL:        url,
		UploadedBy: uploadedBy,
		UploadedAt: time.Now(),
	}
	if err := s.Repo.AddImage(ctx, id, image); err != nil {
		return nil, err
	}
	return &image, nil
}

func (s *SubmissionServiceImpl) DeleteImage(ctx context.Context, id, imageID string) error {
	return s.Repo.MarkImageDeleted(ctx, id, imageID)
}

func (s *SubmissionServiceImpl) AddThreadEntry(ctx context.Context, id string, tier Tier, author, text string) (*ThreadEntry, error) {
	if !tier.Valid() {
		return nil, fmt.Errorf("unknown thread tier %q", tier)
	}

	entry := ThreadEntry{
		ID:        uuid.NewString(),
		Tier:      tier,
		Author:    author,
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := s.Repo.AddThreadEntry(ctx, id, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *SubmissionServiceImpl) VisibleThread(sub *Submission, viewer Tier) []ThreadEntry {
	visible := []ThreadEntry{}
	for _, entry := range sub.Thread {
		switch viewer {
		case TierAdmin:
			visible = append(visible, entry)
		case TierEditor:
			if entry.Tier == TierEditor || entry.Tier == TierClient {
				visible = append(visible, entry)
			}
		case TierClient:
			if entry.Tier == TierClient {
				visible = append(visible, entry)
			}
		}
	}
	return visible
}
