package routes

import (
	"folio/folio/controllers"

	"github.com/go-chi/chi/v5"
)

func AssetRoutes(ctrl *controllers.AssetsController) chi.Router {
	r := chi.NewRouter()
	r.Get("/*", ctrl.ServeAsset)
	r.Head("/*", ctrl.ServeAsset)
	return r
}
