package routes

import (
	"net/http"

	"folio/folio/controllers"

	"github.com/go-chi/chi/v5"
)

func ContentRoutes(ctrl *controllers.ContentController) chi.Router {
	r := chi.NewRouter()
	r.Get("/info", handleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.Info(), http.StatusOK, nil
	}))
	r.Get("/profile", handleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.Profile(), http.StatusOK, nil
	}))
	r.Get("/links", handleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.Links(), http.StatusOK, nil
	}))
	r.Get("/projects", handleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.Projects(), http.StatusOK, nil
	}))
	r.Get("/blogs", handleJSON(func(r *http.Request) (any, int, error) {
		return ctrl.BlogPosts(), http.StatusOK, nil
	}))
	return r
}
