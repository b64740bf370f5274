package comments

import (
	"context"

	common_models "go-studio-crm/internal/common/models"
	"go-studio-crm/internal/config"

	"go.uber.org/zap"
)

// CommentService is the feature's public surface: cached reads, optimistic
// writes, debounced notes and the diagnostic helpers.
type CommentService interface {
	GetComments(ctx context.Context, t common_models.EntityType, entityID string) []Comment
	AddComment(ctx context.Context, t common_models.EntityType, entityID, text string) (*Comment, error)
	GetNote(ctx context.Context, t common_models.EntityType, entityID string) Note
	UpdateNote(t common_models.EntityType, entityID, content string)
	Diagnostics() *Diagnostics
	Close() error
}

type CommentServiceImpl struct {
	Accessor    *Accessor
	Coordinator *Coordinator
	Notes       *NotesUpdater
	Diag        *Diagnostics
}

func NewCommentService(store Store, notifier Notifier, logger *zap.Logger, cfg *config.Config) CommentService {
	cache := NewCache(cfg.CommentCacheTTL)
	syncer := NewSynchronizer(store, logger)
	writer := NewRetryWriter(store, logger)

	return &CommentServiceImpl{
		Accessor:    NewAccessor(store, cache, syncer, logger),
		Coordinator: NewCoordinator(store, cache, writer, notifier, logger),
		Notes:       NewNotesUpdater(store, cache, notifier, logger, cfg.NotesDebounce),
		Diag:        NewDiagnostics(store, syncer, logger),
	}
}

func (s *CommentServiceImpl) GetComments(ctx context.Context, t common_models.EntityType, entityID string) []Comment {
	return s.Accessor.Comments(ctx, t, entityID)
}

func (s *CommentServiceImpl) AddComment(ctx context.Context, t common_models.EntityType, entityID, text string) (*Comment, error) {
	return s.Coordinator.AddComment(ctx, t, entityID, text)
}

func (s *CommentServiceImpl) GetNote(ctx context.Context, t common_models.EntityType, entityID string) Note {
	return s.Notes.Get(ctx, t, entityID)
}

func (s *CommentServiceImpl) UpdateNote(t common_models.EntityType, entityID, content string) {
	s.Notes.Update(t, entityID, content)
}

func (s *CommentServiceImpl) Diagnostics() *Diagnostics {
	return s.Diag
}

// Close cancels pending debounced note writes. Called on shutdown.
func (s *CommentServiceImpl) Close() error {
	s.Notes.Close()
	return nil
}
