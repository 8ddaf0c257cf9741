// folio/utils/types/analytics.go
package types

type EventRequest struct {
	EventType      string         `json:"eventType"`
	EventCategory  string         `json:"eventCategory"`
	EventAction    string         `json:"eventAction"`
	EventLabel     string         `json:"eventLabel,omitempty"`
	VisitorID      string         `json:"visitorId,omitempty"`
	PagePath       string         `json:"pagePath,omitempty"`
	AdditionalData map[string]any `json:"additionalData,omitempty"`
}

type PageViewRequest struct {
	VisitorID string `json:"visitorId"`
	PagePath  string `json:"pagePath"`
	Referrer  string `json:"referrer,omitempty"`
}

type LinkClickRequest struct {
	VisitorID string `json:"visitorId"`
	LinkName  string `json:"linkName"`
	LinkURL   string `json:"linkUrl"`
	PagePath  string `json:"pagePath,omitempty"`
}

type ProjectInteractionRequest struct {
	VisitorID       string `json:"visitorId"`
	ProjectName     string `json:"projectName"`
	InteractionType string `json:"interactionType"`
	PagePath        string `json:"pagePath,omitempty"`
}

type ChatbotInteractionRequest struct {
	VisitorID     string `json:"visitorId"`
	QuestionType  string `json:"questionType"`
	QuestionCount int    `json:"questionCount"`
}

type TrackResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

type DataResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type EventCount struct {
	EventType     string `json:"event_type"`
	EventCategory string `json:"event_category"`
	Count         int64  `json:"count"`
}

type ProjectCount struct {
	ProjectName string `json:"project_name"`
	Count       int64  `json:"count"`
}

type ChatbotStats struct {
	TotalQuestions int64 `json:"total_questions"`
	UniqueUsers    int64 `json:"unique_users"`
}
