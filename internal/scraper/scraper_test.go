package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hlsub/internal/logger"
)

const testMediaID = "umc.cmc.abcdefghijklmnopqrstuvwx"

var testAppleTVURL = "https://tv.apple.com/us/movie/some-movie/" + testMediaID

func TestCanScrape(t *testing.T) {
	assert.True(t, CanScrape("https://itunes.apple.com/us/movie/some-movie/id1234567890"))
	assert.True(t, CanScrape("https://itunes.apple.com/movie/id123456789"))
	assert.True(t, CanScrape(testAppleTVURL))
	assert.True(t, CanScrape(testAppleTVURL+"?foo=bar"))

	assert.False(t, CanScrape("https://example.com/movie/id1234567890"))
	assert.False(t, CanScrape("https://tv.apple.com/us/show/some-show/"+testMediaID), "series pages are not supported")
}

func TestScrape_UnsupportedURL(t *testing.T) {
	scr := New(http.DefaultClient, logger.Discard(), "")
	_, err := scr.Scrape(context.Background(), "https://example.com/whatever")
	assert.ErrorIs(t, err, ErrUnsupportedURL)
}

func catalogPayload(mediaType, title string, releaseDate int64, hlsURL string) string {
	return fmt.Sprintf(`{
		"data": {
			"content": {"title": %q, "type": %q, "releaseDate": %d},
			"channels": {
				"c1": {"id": "tvs.sbd.9001", "isItunes": true},
				"c2": {"id": "tvs.sbd.4000", "isItunes": false}
			},
			"playables": {
				"p1": {"channelId": "tvs.sbd.4000", "assets": {}},
				"p2": {"channelId": "tvs.sbd.9001", "assets": {"hlsUrl": %q}}
			}
		}
	}`, title, mediaType, releaseDate, hlsURL)
}

func TestScrape_AppleTV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/"+testMediaID, r.URL.Path)
		assert.Equal(t, "143441", r.URL.Query().Get("sf"), "US storefront ID")
		assert.Equal(t, "web", r.URL.Query().Get("caller"))

		// 2023-06-15 in Unix milliseconds.
		fmt.Fprint(w, catalogPayload("Movie", "Some Movie", 1686787200000, "https://cdn.example.com/master.m3u8"))
	}))
	defer server.Close()

	scr := New(http.DefaultClient, logger.Discard(), "test-agent")
	scr.apiBase = server.URL + "/"

	movie, err := scr.Scrape(context.Background(), testAppleTVURL)
	require.NoError(t, err)

	assert.Equal(t, testMediaID, movie.ID)
	assert.Equal(t, "Some Movie", movie.Title)
	assert.Equal(t, 2023, movie.ReleaseYear)
	assert.Equal(t, "https://cdn.example.com/master.m3u8", movie.PlaylistURL)
}

func TestScrape_AppleTVErrors(t *testing.T) {
	t.Run("Non Movie Type", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, catalogPayload("Show", "Some Show", 0, ""))
		}))
		defer server.Close()

		scr := New(http.DefaultClient, logger.Discard(), "")
		scr.apiBase = server.URL + "/"

		_, err := scr.Scrape(context.Background(), testAppleTVURL)
		assert.ErrorContains(t, err, "unsupported media type")
	})

	t.Run("No Playlist", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, catalogPayload("Movie", "Some Movie", 0, ""))
		}))
		defer server.Close()

		scr := New(http.DefaultClient, logger.Discard(), "")
		scr.apiBase = server.URL + "/"

		_, err := scr.Scrape(context.Background(), testAppleTVURL)
		assert.ErrorIs(t, err, ErrNoPlaylist)
	})

	t.Run("API Error Status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		scr := New(http.DefaultClient, logger.Discard(), "")
		scr.apiBase = server.URL + "/"

		_, err := scr.Scrape(context.Background(), testAppleTVURL)
		assert.ErrorContains(t, err, "status 500")
	})
}

func TestResolveITunesURL(t *testing.T) {
	t.Run("Permanent Redirect", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Location", testAppleTVURL)
			w.WriteHeader(http.StatusMovedPermanently)
		}))
		defer server.Close()

		scr := New(http.DefaultClient, logger.Discard(), "")
		resolved, err := scr.resolveITunesURL(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, testAppleTVURL, resolved)
	})

	t.Run("No Redirect", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, "a page, not a redirect")
		}))
		defer server.Close()

		scr := New(http.DefaultClient, logger.Discard(), "")
		_, err := scr.resolveITunesURL(context.Background(), server.URL)
		assert.ErrorContains(t, err, "did not redirect")
	})

	t.Run("Redirect To Unsupported Location", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Location", "https://example.com/elsewhere")
			w.WriteHeader(http.StatusMovedPermanently)
		}))
		defer server.Close()

		scr := New(http.DefaultClient, logger.Discard(), "")
		_, err := scr.resolveITunesURL(context.Background(), server.URL)
		assert.ErrorContains(t, err, "unsupported location")
	})
}

func TestStorefronts(t *testing.T) {
	assert.Equal(t, "143441", storefronts["US"])
	assert.Equal(t, "143444", storefronts["GB"])
	_, ok := storefronts["ZZ"]
	assert.False(t, ok)
}
