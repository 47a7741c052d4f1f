package collab

import (
	"context"
	"log/slog"

	"github.com/ideahub/ideahub/internal/idea"
)

// Notifier consumes CollaborationIntents emitted when an approach is
// selected. Real implementations create a chat channel and notify the
// candidate; the formation core only hands over the value.
type Notifier interface {
	NotifySelection(ctx context.Context, intent idea.CollaborationIntent) error
}

// LogNotifier is the default Notifier: it records the intent and does
// nothing else. Chat and push delivery live outside this service.
type LogNotifier struct{}

// NotifySelection logs the intent.
func (LogNotifier) NotifySelection(_ context.Context, intent idea.CollaborationIntent) error {
	slog.Info("collaboration intent emitted",
		"ideaId", intent.IdeaID,
		"authorId", intent.AuthorID,
		"candidateId", intent.CandidateID,
		"approachId", intent.ApproachID)
	return nil
}
