package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"folio/folio/sources/storage"
	"folio/folio/utils/logging"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AssetOpener is the read side of storage.AssetStore.
type AssetOpener interface {
	Open(ctx context.Context, name string) (io.ReadCloser, storage.Asset, error)
}

type AssetsController struct {
	store AssetOpener
}

func NewAssetsController(store AssetOpener) *AssetsController {
	return &AssetsController{store: store}
}

// ServeAsset streams /assets/{name}. Nested names come through the wildcard.
func (c *AssetsController) ServeAsset(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "*")
	rc, asset, err := c.store.Open(r.Context(), name)
	switch {
	case errors.Is(err, storage.ErrAssetNotFound), errors.Is(err, storage.ErrInvalidName):
		http.NotFound(w, r)
		return
	case err != nil:
		logging.ErrorLogger.Error("asset open failed", zap.String("name", name), zap.Error(err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	if asset.ContentType != "" {
		w.Header().Set("Content-Type", asset.ContentType)
	}
	if asset.Size >= 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(asset.Size, 10))
	}
	if asset.ETag != "" {
		w.Header().Set("ETag", `"`+asset.ETag+`"`)
	}
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, rc); err != nil {
		logging.ErrorLogger.Error("asset stream failed", zap.String("name", name), zap.Error(err))
	}
}
