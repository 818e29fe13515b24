// Package updater checks GitHub for a newer release. The check is
// advisory: failures are logged at debug level and never fail a run.
package updater

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	repoOwner = "hlsub"
	repoName  = "hlsub"

	checkTimeout = 5 * time.Second
	maxBodySize  = 1 << 20
)

// apiBaseURL is overridable in tests.
var apiBaseURL = "https://api.github.com"

// releaseInfo mirrors the fields we use from the GitHub release payload.
type releaseInfo struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Check is the result of an update check.
type Check struct {
	CurrentVersion string
	LatestVersion  string
	ReleaseURL     string
	UpToDate       bool
}

// CheckLatest queries the GitHub releases API and compares the latest tag
// against the current version.
func CheckLatest(ctx context.Context, client *http.Client, currentVersion string) (*Check, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", apiBaseURL, repoOwner, repoName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("release check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("release check returned status %d", resp.StatusCode)
	}

	var release releaseInfo
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&release); err != nil {
		return nil, fmt.Errorf("failed to decode release payload: %w", err)
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	current := strings.TrimPrefix(currentVersion, "v")

	return &Check{
		CurrentVersion: current,
		LatestVersion:  latest,
		ReleaseURL:     release.HTMLURL,
		UpToDate:       latest == "" || latest == current,
	}, nil
}
