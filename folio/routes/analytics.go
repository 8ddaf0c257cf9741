package routes

import (
	"net/http"

	"folio/folio/controllers"
	"folio/folio/middlewares"
	"folio/folio/utils/types"

	"github.com/go-chi/chi/v5"
)

// track decodes a tracking body. Bad bodies still get a success reply with an
// empty id: analytics never fails the caller.
func track[T any](fn func(T) types.TrackResponse) http.HandlerFunc {
	return handleJSON(func(r *http.Request) (any, int, error) {
		var req T
		if err := decodeBody(r, &req); err != nil {
			return types.TrackResponse{Success: true}, http.StatusOK, nil
		}
		return fn(req), http.StatusOK, nil
	})
}

// AnalyticsRoutes mounts the tracking endpoints and the reports. reportAuth
// guards the reports; nil leaves them open, which only happens when there is
// no database and so nothing but empty reports to serve.
func AnalyticsRoutes(ctrl *controllers.AnalyticsController, limiter *middlewares.IPRateLimiter, reportAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(gr chi.Router) {
		if limiter != nil {
			gr.Use(limiter.Middleware)
		}
		gr.Post("/event", track(ctrl.Event))
		gr.Post("/pageview", track(ctrl.PageView))
		gr.Post("/linkclick", track(ctrl.LinkClick))
		gr.Post("/project", track(ctrl.Project))
		gr.Post("/chatbot", track(ctrl.Chatbot))
	})

	r.Group(func(gr chi.Router) {
		if reportAuth != nil {
			gr.Use(reportAuth)
		}

		gr.Get("/summary", handleJSON(func(r *http.Request) (any, int, error) {
			res, err := ctrl.Summary(r.Context())
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return res, http.StatusOK, nil
		}))

		gr.Get("/topprojects", handleJSON(func(r *http.Request) (any, int, error) {
			res, err := ctrl.TopProjects(r.Context())
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return res, http.StatusOK, nil
		}))

		gr.Get("/chatbotstats", handleJSON(func(r *http.Request) (any, int, error) {
			res, err := ctrl.ChatbotStats(r.Context())
			if err != nil {
				return nil, http.StatusInternalServerError, err
			}
			return res, http.StatusOK, nil
		}))
	})
	return r
}
