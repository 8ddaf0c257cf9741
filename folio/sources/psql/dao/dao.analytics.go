package dao

import (
	"context"

	"folio/folio/sources/psql/models"
	"folio/folio/utils/types"

	"gorm.io/gorm"
)

const topProjectsLimit = 10

type AnalyticsDAO struct {
	DB *gorm.DB
}

func NewAnalyticsDAO(db *gorm.DB) *AnalyticsDAO {
	return &AnalyticsDAO{DB: db}
}

// Write inserts one event. It satisfies analytics.Sink.
func (dao *AnalyticsDAO) Write(ctx context.Context, event *models.AnalyticsEvent) error {
	return dao.DB.WithContext(ctx).Create(event).Error
}

// Summary counts events grouped by type and category, largest first.
func (dao *AnalyticsDAO) Summary(ctx context.Context) ([]types.EventCount, error) {
	rows := []types.EventCount{}
	err := dao.DB.WithContext(ctx).
		Model(&models.AnalyticsEvent{}).
		Select("event_type, event_category, COUNT(*) AS count").
		Group("event_type, event_category").
		Order("count DESC, event_type, event_category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// TopProjects ranks projects by interaction count.
func (dao *AnalyticsDAO) TopProjects(ctx context.Context) ([]types.ProjectCount, error) {
	rows := []types.ProjectCount{}
	err := dao.DB.WithContext(ctx).
		Model(&models.AnalyticsEvent{}).
		Select("event_label AS project_name, COUNT(*) AS count").
		Where("event_type = ? AND event_label IS NOT NULL", models.EventProjectInteraction).
		Group("event_label").
		Order("count DESC, project_name").
		Limit(topProjectsLimit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (dao *AnalyticsDAO) ChatbotStats(ctx context.Context) (types.ChatbotStats, error) {
	var stats types.ChatbotStats
	err := dao.DB.WithContext(ctx).
		Model(&models.AnalyticsEvent{}).
		Select("COUNT(*) AS total_questions, COUNT(DISTINCT visitor_id) AS unique_users").
		Where("event_type = ?", models.EventChatbotInteraction).
		Scan(&stats).Error
	return stats, err
}

// CountByType is used by the stats command.
func (dao *AnalyticsDAO) CountByType(ctx context.Context, eventType string) (int64, error) {
	var n int64
	err := dao.DB.WithContext(ctx).Model(&models.AnalyticsEvent{}).Where("event_type = ?", eventType).Count(&n).Error
	return n, err
}

// Recent returns the newest events first.
func (dao *AnalyticsDAO) Recent(ctx context.Context, limit int) ([]models.AnalyticsEvent, error) {
	var events []models.AnalyticsEvent
	err := dao.DB.WithContext(ctx).Order("created_at desc").Limit(limit).Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
