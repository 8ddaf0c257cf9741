package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	key, err := objectKey("resume.pdf")
	require.NoError(t, err)
	assert.Equal(t, "assets/resume.pdf", key)

	key, err = objectKey("img/./avatar.png")
	require.NoError(t, err)
	assert.Equal(t, "assets/img/avatar.png", key)

	for _, bad := range []string{"", "  ", "../secret", "/etc/passwd", "a/../../b"} {
		_, err := objectKey(bad)
		assert.ErrorIs(t, err, ErrInvalidName, bad)
	}
}

// fakeS3 answers just enough of the S3 API for StatObject and GetObject.
func fakeS3(t *testing.T) *AssetStore {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/folio-assets/assets/resume.pdf" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Length", "7")
		w.Header().Set("ETag", `"abc"`)
		w.Header().Set("Last-Modified", "Wed, 16 Apr 2025 10:00:00 GMT")
		if r.Method == http.MethodHead {
			return
		}
		io.WriteString(w, "%PDF-1.")
	}))
	t.Cleanup(srv.Close)

	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	client, err := minio.New(u.Host, &minio.Options{
		Creds:  credentials.NewStaticV4("key", "secret", ""),
		Secure: false,
		Region: "us-east-1",
	})
	require.NoError(t, err)
	return newAssetStore(client, "folio-assets")
}

func TestAssetStore_Open(t *testing.T) {
	store := fakeS3(t)

	rc, asset, err := store.Open(context.Background(), "resume.pdf")
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "application/pdf", asset.ContentType)
	assert.Equal(t, int64(7), asset.Size)

	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))
}

func TestAssetStore_OpenMissing(t *testing.T) {
	store := fakeS3(t)
	_, _, err := store.Open(context.Background(), "nope.pdf")
	assert.ErrorIs(t, err, ErrAssetNotFound)
}
