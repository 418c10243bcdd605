package http

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const DefaultImportURL = "https://cointracking.info/import/"

// ImportTrigger fires the unauthenticated "check" endpoint of a CoinTracking
// importer. The endpoint is a scraped web page rather than a documented API.
type ImportTrigger struct {
	client    *Client
	baseURL   string
	userAgent string
}

// NewImportTrigger returns a trigger rooted at baseURL. Empty arguments fall
// back to DefaultImportURL and BrowserUserAgent.
func NewImportTrigger(client *Client, baseURL, userAgent string) *ImportTrigger {
	if baseURL == "" {
		baseURL = DefaultImportURL
	}
	if userAgent == "" {
		userAgent = BrowserUserAgent
	}
	return &ImportTrigger{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
	}
}

// URL returns <base>/<path>/check.php?j=<id>&check=check. path may span
// several segments; each one is escaped on its own.
func (t *ImportTrigger) URL(path string, jobID int) string {
	return fmt.Sprintf("%s/%s/check.php?j=%d&check=check",
		t.baseURL, escapePath(path), jobID)
}

func escapePath(path string) string {
	var segments []string
	for _, segment := range strings.Split(path, "/") {
		if segment != "" {
			segments = append(segments, url.PathEscape(segment))
		}
	}
	return strings.Join(segments, "/")
}

// Trigger issues the GET for one job id. The response body is ignored.
func (t *ImportTrigger) Trigger(ctx context.Context, path string, jobID int) error {
	return t.client.Get(ctx, t.URL(path, jobID), map[string]string{
		"User-Agent": t.userAgent,
	})
}
