package unsplash

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/content-synth/pkg/logger"
	"github.com/content-synth/pkg/ratelimit"
)

func newServer(t *testing.T, downloads *atomic.Int32) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/search/photos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Client-ID access-key", r.Header.Get("Authorization"))
		assert.Equal(t, "portrait", r.URL.Query().Get("orientation"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"total":1,"total_pages":1,"results":[{
			"id":"abc",
			"urls":{"raw":"https://images.unsplash.com/photo-abc?ixid=1"},
			"user":{"name":"Aroha Smith","username":"aroha"},
			"links":{"download_location":"%s/photos/abc/download"}
		}]}`, srv.URL)
	})
	mux.HandleFunc("/photos/abc/download", func(w http.ResponseWriter, r *http.Request) {
		downloads.Add(1)
		w.WriteHeader(http.StatusOK)
	})
	srv = httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFindImage(t *testing.T) {
	var downloads atomic.Int32
	srv := newServer(t, &downloads)
	c := NewClient("access-key", logger.Nop(), WithBaseURL(srv.URL), WithRateLimiter(ratelimit.New(ratelimit.Limits{UnsplashPerHour: 3600})))

	img, err := c.FindImage(context.Background(), "students dancing", 1000, 1800)
	require.NoError(t, err)

	assert.Equal(t, 1024, img.Width)
	assert.Equal(t, 1792, img.Height)
	assert.Equal(t, "Photo by Aroha Smith on Unsplash", img.Attribution)
	assert.Equal(t, "students dancing", img.Prompt)
	assert.EqualValues(t, 1, downloads.Load())

	u, err := url.Parse(img.URL)
	require.NoError(t, err)
	assert.Equal(t, "images.unsplash.com", u.Host)
	assert.Equal(t, "1024", u.Query().Get("w"))
	assert.Equal(t, "1792", u.Query().Get("h"))
	assert.Equal(t, "crop", u.Query().Get("fit"))
	assert.Equal(t, "1", u.Query().Get("ixid"))
}

func TestSearchPhotosAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":["OAuth error: The access token is invalid"]}`))
	}))
	defer srv.Close()

	c := NewClient("bad", logger.Nop(), WithBaseURL(srv.URL))
	_, err := c.FindImage(context.Background(), "anything", 1024, 1024)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestGetBestPhotoNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"total":0,"total_pages":0,"results":[]}`))
	}))
	defer srv.Close()

	c := NewClient("key", logger.Nop(), WithBaseURL(srv.URL))
	_, err := c.GetBestPhoto(context.Background(), "nothing", "")
	assert.ErrorContains(t, err, "no photos found")
}
