package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Event types written by the tracking endpoints.
const (
	EventPageView           = "page_view"
	EventLinkClick          = "link_click"
	EventProjectInteraction = "project_interaction"
	EventChatbotInteraction = "chatbot_interaction"
)

type AnalyticsEvent struct {
	ID             uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	EventType      string    `json:"event_type" gorm:"type:text;not null;index"`
	EventCategory  string    `json:"event_category" gorm:"type:text;not null"`
	EventAction    string    `json:"event_action" gorm:"type:text;not null"`
	EventLabel     *string   `json:"event_label,omitempty" gorm:"type:text"`
	VisitorID      *string   `json:"visitor_id,omitempty" gorm:"type:text;index"`
	PagePath       *string   `json:"page_path,omitempty" gorm:"type:text"`
	Referrer       *string   `json:"referrer,omitempty" gorm:"type:text"`
	AdditionalData *string   `json:"additional_data,omitempty" gorm:"type:text"`
	CreatedAt      time.Time `json:"created_at" gorm:"autoCreateTime;not null"`
}

func (AnalyticsEvent) TableName() string {
	return "analytics"
}

// BeforeCreate fills the id when the recorder did not assign one.
func (e *AnalyticsEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
