package transport

import (
	"Shutter/internal/model"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedSucceeds(t *testing.T) {
	sim := NewSimulated(0, time.Millisecond, 0)
	res, err := sim.Upload(context.Background(), strings.NewReader("abc"), model.UploadMeta{
		Index: 2, Kind: model.MediaKindImage, FileName: "media_2.jpg",
	})
	require.NoError(t, err)
	assert.Contains(t, res["ref"], "media_2.jpg")
	assert.Equal(t, int64(3), res["size"])
	assert.Equal(t, 2, res["index"])
}

func TestSimulatedAlwaysFails(t *testing.T) {
	sim := NewSimulated(0, 0, 1)
	_, err := sim.Upload(context.Background(), strings.NewReader("abc"), model.UploadMeta{Index: 1})
	assert.ErrorContains(t, err, "item 1")
}

func TestSimulatedHonoursContext(t *testing.T) {
	sim := NewSimulated(time.Hour, time.Hour, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := sim.Upload(ctx, strings.NewReader("abc"), model.UploadMeta{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPUpload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			return
		}
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		file, header, err := r.FormFile("media")
		if !assert.NoError(t, err) {
			return
		}
		body, _ := io.ReadAll(file)

		assert.Equal(t, "media_0.mp4", header.Filename)
		assert.Equal(t, "payload", string(body))
		assert.Equal(t, "0", r.FormValue("index"))
		assert.Equal(t, "video", r.FormValue("type"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"url": "https://cdn.example.com/a.mp4"})
	}))
	defer srv.Close()

	tr := NewHTTP(srv.URL, 5*time.Second)
	require.NoError(t, tr.Check(context.Background()))

	res, err := tr.Upload(context.Background(), strings.NewReader("payload"), model.UploadMeta{
		Index: 0, Kind: model.MediaKindVideo, FileName: "media_0.mp4", ContentType: "video/mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.mp4", res["url"])
}

func TestHTTPUploadServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tr := NewHTTP(srv.URL, 5*time.Second)
	_, err := tr.Upload(context.Background(), strings.NewReader("x"), model.UploadMeta{FileName: "media_0.jpg"})
	assert.ErrorContains(t, err, "upload failed")
}

func TestHTTPCheckUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	tr := NewHTTP(url, time.Second)
	assert.Error(t, tr.Check(context.Background()))
}
