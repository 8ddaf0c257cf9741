package routes

import (
	"encoding/json"
	"net/http"

	"folio/folio/utils/jsonutils"
	"folio/folio/utils/types"
)

const maxBodyBytes = 1 << 20

// handleJSON writes the handler's value as JSON, or {"error": ...} with the
// returned status.
func handleJSON(handler func(r *http.Request) (any, int, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, status, err := handler(r)
		if err != nil {
			jsonutils.WriteJSON(w, status, types.ErrorResponse{Error: err.Error()})
			return
		}
		jsonutils.WriteJSON(w, status, res)
	}
}

func decodeBody(r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes)).Decode(v)
}
