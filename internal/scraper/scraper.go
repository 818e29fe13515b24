// Package scraper resolves iTunes and Apple TV store URLs to movie
// metadata and the master subtitle playlist URL, using the Apple TV
// catalog API. iTunes URLs are followed through their permanent redirect
// to the Apple TV page first.
package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"hlsub/internal/logger"
	"hlsub/internal/models"
)

var (
	// ErrUnsupportedURL is reported for URLs that match neither store.
	ErrUnsupportedURL = errors.New("not a supported store URL")

	// ErrNoPlaylist is reported when the catalog entry exists but carries
	// no HLS playlist (e.g. the title is not purchasable in the storefront).
	ErrNoPlaylist = errors.New("no playlist found for title")
)

var (
	itunesURLRE  = regexp.MustCompile(`^https?://itunes\.apple\.com/(?:[a-z]{2}/)?movie/(?:[\w\-%.]+/)?id\d{9,10}`)
	appleTVURLRE = regexp.MustCompile(`^https?://tv\.apple\.com/([a-z]{2})/movie/(?:[\w\-%.]+/)?(umc\.cmc\.[a-z0-9]{24,25})`)
)

const catalogAPIBase = "https://tv.apple.com/api/uts/v3/movies/"

// Fixed query parameters expected by the catalog API.
var catalogAPIParams = map[string]string{
	"utscf":  "OjAAAAAAAAA~",
	"utsk":   "6e3013c6d6fae3c2::::::235656c069bb0efb",
	"caller": "web",
	"v":      "58",
	"pfm":    "web",
	"locale": "en-US",
}

// Scraper resolves store URLs to movie metadata.
type Scraper struct {
	httpClient *http.Client
	// noRedirect is used where a redirect response itself is the payload.
	noRedirect *http.Client
	logger     logger.Logger
	userAgent  string
	// apiBase is overridable in tests.
	apiBase string
}

// New creates a scraper that shares the given HTTP client's transport.
func New(client *http.Client, log logger.Logger, userAgent string) *Scraper {
	noRedirect := &http.Client{
		Transport: client.Transport,
		Timeout:   client.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	return &Scraper{
		httpClient: client,
		noRedirect: noRedirect,
		logger:     log,
		userAgent:  userAgent,
		apiBase:    catalogAPIBase,
	}
}

// CanScrape reports whether the URL belongs to a supported store.
func CanScrape(rawURL string) bool {
	return itunesURLRE.MatchString(rawURL) || appleTVURLRE.MatchString(rawURL)
}

// Scrape resolves a store URL to the movie's metadata and master playlist
// URL. iTunes URLs are resolved to their Apple TV counterpart first.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*models.Movie, error) {
	switch {
	case itunesURLRE.MatchString(rawURL):
		redirected, err := s.resolveITunesURL(ctx, rawURL)
		if err != nil {
			return nil, err
		}
		return s.scrapeAppleTV(ctx, redirected)

	case appleTVURLRE.MatchString(rawURL):
		return s.scrapeAppleTV(ctx, rawURL)

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
	}
}

// resolveITunesURL follows the permanent redirect from an iTunes movie
// page to its Apple TV page without fetching the page body.
func (s *Scraper) resolveITunesURL(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.noRedirect.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to resolve iTunes URL: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	location := resp.Header.Get("Location")
	if resp.StatusCode != http.StatusMovedPermanently || location == "" {
		s.logger.Debugf("iTunes URL %s returned status %d without a redirect", rawURL, resp.StatusCode)
		return "", fmt.Errorf("iTunes URL did not redirect to an Apple TV page (status %d)", resp.StatusCode)
	}
	if !appleTVURLRE.MatchString(location) {
		return "", fmt.Errorf("iTunes URL redirected to an unsupported location: %s", location)
	}

	s.logger.Debugf("Resolved iTunes URL to %s", location)
	return location, nil
}

// catalogResponse mirrors the parts of the catalog API payload we use.
type catalogResponse struct {
	Data struct {
		Content struct {
			Title string `json:"title"`
			Type  string `json:"type"`
			// ReleaseDate is a Unix timestamp in milliseconds.
			ReleaseDate int64 `json:"releaseDate"`
		} `json:"content"`
		Channels map[string]struct {
			ID       string `json:"id"`
			IsItunes bool   `json:"isItunes"`
		} `json:"channels"`
		Playables map[string]struct {
			ChannelID string `json:"channelId"`
			Assets    struct {
				HLSURL string `json:"hlsUrl"`
			} `json:"assets"`
		} `json:"playables"`
	} `json:"data"`
}

func (s *Scraper) scrapeAppleTV(ctx context.Context, rawURL string) (*models.Movie, error) {
	match := appleTVURLRE.FindStringSubmatch(rawURL)
	if match == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
	}
	countryCode, mediaID := match[1], match[2]

	storefront, ok := storefronts[strings.ToUpper(countryCode)]
	if !ok {
		return nil, fmt.Errorf("unknown storefront %q", countryCode)
	}

	apiURL, err := url.Parse(s.apiBase + mediaID)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog API URL: %w", err)
	}
	query := apiURL.Query()
	for key, value := range catalogAPIParams {
		query.Set(key, value)
	}
	query.Set("sf", storefront)
	apiURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	s.setHeaders(req)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("catalog API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog API returned status %d for %s", resp.StatusCode, mediaID)
	}

	var payload catalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode catalog API response: %w", err)
	}

	if payload.Data.Content.Type != "Movie" {
		return nil, fmt.Errorf("unsupported media type %q", payload.Data.Content.Type)
	}

	movie := &models.Movie{
		ID:    mediaID,
		Title: payload.Data.Content.Title,
	}
	if payload.Data.Content.ReleaseDate > 0 {
		movie.ReleaseYear = time.UnixMilli(payload.Data.Content.ReleaseDate).UTC().Year()
	}

	// Playlists only come from the iTunes channel; Apple TV+ titles are
	// DRM-gated and carry no usable subtitle playlist.
	itunesChannel := ""
	for _, channel := range payload.Data.Channels {
		if channel.IsItunes {
			itunesChannel = channel.ID
			break
		}
	}
	if itunesChannel == "" {
		return nil, fmt.Errorf("%w: %s (no iTunes channel)", ErrNoPlaylist, movie.Title)
	}

	for _, playable := range payload.Data.Playables {
		if playable.ChannelID == itunesChannel && playable.Assets.HLSURL != "" {
			movie.PlaylistURL = playable.Assets.HLSURL
			break
		}
	}
	if movie.PlaylistURL == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoPlaylist, movie.Title)
	}

	s.logger.Debugf("Resolved %q (%d) to playlist %s", movie.Title, movie.ReleaseYear, movie.PlaylistURL)
	return movie, nil
}

func (s *Scraper) setHeaders(req *http.Request) {
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}
}
