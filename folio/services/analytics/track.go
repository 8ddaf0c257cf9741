package analytics

import (
	"encoding/json"

	"folio/folio/sources/psql/models"
	"folio/folio/utils/types"
)

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func encodeData(data map[string]any) *string {
	if len(data) == 0 {
		return nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}

// TrackEvent records a custom event exactly as sent.
func (r *Recorder) TrackEvent(req types.EventRequest) string {
	return r.Enqueue(&models.AnalyticsEvent{
		EventType:      req.EventType,
		EventCategory:  req.EventCategory,
		EventAction:    req.EventAction,
		EventLabel:     optional(req.EventLabel),
		VisitorID:      optional(req.VisitorID),
		PagePath:       optional(req.PagePath),
		AdditionalData: encodeData(req.AdditionalData),
	})
}

func (r *Recorder) TrackPageView(req types.PageViewRequest) string {
	return r.Enqueue(&models.AnalyticsEvent{
		EventType:     models.EventPageView,
		EventCategory: "navigation",
		EventAction:   "view",
		EventLabel:    optional(req.PagePath),
		VisitorID:     optional(req.VisitorID),
		PagePath:      optional(req.PagePath),
		Referrer:      optional(req.Referrer),
	})
}

func (r *Recorder) TrackLinkClick(req types.LinkClickRequest) string {
	return r.Enqueue(&models.AnalyticsEvent{
		EventType:      models.EventLinkClick,
		EventCategory:  "engagement",
		EventAction:    "click",
		EventLabel:     optional(req.LinkName),
		VisitorID:      optional(req.VisitorID),
		PagePath:       optional(req.PagePath),
		AdditionalData: encodeData(map[string]any{"linkUrl": req.LinkURL}),
	})
}

func (r *Recorder) TrackProjectInteraction(req types.ProjectInteractionRequest) string {
	action := req.InteractionType
	if action == "" {
		action = "view"
	}
	return r.Enqueue(&models.AnalyticsEvent{
		EventType:     models.EventProjectInteraction,
		EventCategory: "projects",
		EventAction:   action,
		EventLabel:    optional(req.ProjectName),
		VisitorID:     optional(req.VisitorID),
		PagePath:      optional(req.PagePath),
	})
}

func (r *Recorder) TrackChatbotInteraction(req types.ChatbotInteractionRequest) string {
	return r.Enqueue(&models.AnalyticsEvent{
		EventType:      models.EventChatbotInteraction,
		EventCategory:  "chatbot",
		EventAction:    "question",
		EventLabel:     optional(req.QuestionType),
		VisitorID:      optional(req.VisitorID),
		AdditionalData: encodeData(map[string]any{"questionCount": req.QuestionCount}),
	})
}
