package notification

import (
	"context"

	common_models "go-studio-crm/internal/common/models"
	"go-studio-crm/internal/features/comments"
)

// CommentNotifier routes comment feedback into the notification stream
// so the admin UI can show a toast and keep a record of failures.
type CommentNotifier struct {
	service NotificationService
}

func NewCommentNotifier(service NotificationService) comments.Notifier {
	return &CommentNotifier{service: service}
}

func (n *CommentNotifier) Success(ctx context.Context, message string) {
	n.service.Notify(ctx, actorID(ctx), NotificationTypeSuccess, "Comments", message)
}

func (n *CommentNotifier) Failure(ctx context.Context, message string) {
	n.service.Notify(ctx, actorID(ctx), NotificationTypeError, "Comments", message)
}

func actorID(ctx context.Context) string {
	if id, ok := ctx.Value(common_models.ActorIDKey).(string); ok {
		return id
	}
	return "system"
}
