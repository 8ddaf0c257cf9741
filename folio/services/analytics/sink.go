package analytics

import (
	"context"

	"folio/folio/sources/psql/models"
	"folio/folio/utils/logging"
	"folio/folio/utils/types"

	"go.uber.org/zap"
)

// Sink persists one event.
type Sink interface {
	Write(ctx context.Context, event *models.AnalyticsEvent) error
}

// Reporter answers the admin reporting endpoints.
type Reporter interface {
	Summary(ctx context.Context) ([]types.EventCount, error)
	TopProjects(ctx context.Context) ([]types.ProjectCount, error)
	ChatbotStats(ctx context.Context) (types.ChatbotStats, error)
}

// LogSink writes events to the app log only. Used when no database is set up.
type LogSink struct{}

func (LogSink) Write(ctx context.Context, e *models.AnalyticsEvent) error {
	logging.AppLogger.Info("Analytics event (not persisted)",
		zap.String("id", e.ID.String()),
		zap.String("event_type", e.EventType),
		zap.String("event_category", e.EventCategory),
		zap.String("event_action", e.EventAction),
		zap.Stringp("event_label", e.EventLabel),
		zap.Stringp("visitor_id", e.VisitorID),
		zap.Stringp("page_path", e.PagePath),
	)
	return nil
}

// EmptyReporter returns empty reports.
type EmptyReporter struct{}

func (EmptyReporter) Summary(ctx context.Context) ([]types.EventCount, error) {
	return []types.EventCount{}, nil
}

func (EmptyReporter) TopProjects(ctx context.Context) ([]types.ProjectCount, error) {
	return []types.ProjectCount{}, nil
}

func (EmptyReporter) ChatbotStats(ctx context.Context) (types.ChatbotStats, error) {
	return types.ChatbotStats{}, nil
}
