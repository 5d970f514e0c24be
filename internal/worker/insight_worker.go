package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"finsight/internal/amqp"
	"finsight/internal/services"
)

// InsightWorker regenerates insight batches in response to queued requests.
type InsightWorker struct {
	insights *services.InsightService
}

func NewInsightWorker(insights *services.InsightService) *InsightWorker {
	return &InsightWorker{insights: insights}
}

// HandleGenerateMessage processes a single regeneration request. A malformed
// user id is swallowed so the message is not requeued forever.
func (w *InsightWorker) HandleGenerateMessage(ctx context.Context, msg *amqp.InsightGenerateMessage) error {
	if strings.TrimSpace(msg.UserID) == "" {
		slog.WarnContext(ctx, "Dropping generate message with empty user id",
			"timestamp", msg.Timestamp)
		return nil
	}

	slog.InfoContext(ctx, "Processing insight generate message",
		"user_id", msg.UserID,
		"timestamp", msg.Timestamp)

	batch, err := w.insights.GenerateInsights(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("generate insights for %s: %w", msg.UserID, err)
	}

	slog.InfoContext(ctx, "Insight batch regenerated",
		"user_id", msg.UserID,
		"count", len(batch))

	return nil
}
