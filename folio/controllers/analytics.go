package controllers

import (
	"context"

	"folio/folio/services/analytics"
	"folio/folio/utils/types"
)

type AnalyticsController struct {
	recorder *analytics.Recorder
	reporter analytics.Reporter
}

func NewAnalyticsController(recorder *analytics.Recorder, reporter analytics.Reporter) *AnalyticsController {
	return &AnalyticsController{recorder: recorder, reporter: reporter}
}

func tracked(id string) types.TrackResponse {
	return types.TrackResponse{Success: true, ID: id}
}

func (c *AnalyticsController) Event(req types.EventRequest) types.TrackResponse {
	return tracked(c.recorder.TrackEvent(req))
}

func (c *AnalyticsController) PageView(req types.PageViewRequest) types.TrackResponse {
	return tracked(c.recorder.TrackPageView(req))
}

func (c *AnalyticsController) LinkClick(req types.LinkClickRequest) types.TrackResponse {
	return tracked(c.recorder.TrackLinkClick(req))
}

func (c *AnalyticsController) Project(req types.ProjectInteractionRequest) types.TrackResponse {
	return tracked(c.recorder.TrackProjectInteraction(req))
}

func (c *AnalyticsController) Chatbot(req types.ChatbotInteractionRequest) types.TrackResponse {
	return tracked(c.recorder.TrackChatbotInteraction(req))
}

func (c *AnalyticsController) Summary(ctx context.Context) (types.DataResponse, error) {
	data, err := c.reporter.Summary(ctx)
	if err != nil {
		return types.DataResponse{}, err
	}
	return types.DataResponse{Success: true, Data: data}, nil
}

func (c *AnalyticsController) TopProjects(ctx context.Context) (types.DataResponse, error) {
	data, err := c.reporter.TopProjects(ctx)
	if err != nil {
		return types.DataResponse{}, err
	}
	return types.DataResponse{Success: true, Data: data}, nil
}

func (c *AnalyticsController) ChatbotStats(ctx context.Context) (types.DataResponse, error) {
	data, err := c.reporter.ChatbotStats(ctx)
	if err != nil {
		return types.DataResponse{}, err
	}
	return types.DataResponse{Success: true, Data: data}, nil
}
