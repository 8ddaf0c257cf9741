package routes

import (
	"errors"
	"net/http"

	"folio/folio/controllers"
	"folio/folio/utils/types"

	"github.com/go-chi/chi/v5"
)

func AuthRoutes(ctrl *controllers.AuthController) chi.Router {
	r := chi.NewRouter()
	r.Post("/login", handleJSON(func(r *http.Request) (any, int, error) {
		var req types.LoginRequest
		if err := decodeBody(r, &req); err != nil {
			return nil, http.StatusBadRequest, err
		}
		token, err := ctrl.Login(r.Context(), req.Username, req.Password)
		switch {
		case errors.Is(err, controllers.ErrInvalidCredentials):
			return nil, http.StatusUnauthorized, err
		case errors.Is(err, controllers.ErrAuthDisabled):
			return nil, http.StatusServiceUnavailable, err
		case err != nil:
			return nil, http.StatusInternalServerError, err
		}
		return types.LoginResponse{Token: token}, http.StatusOK, nil
	}))
	return r
}
