package refresh

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// browserUserAgent matches a recent Chrome string per spec §6's
// "Refresh HTTP exchange" so the scrape looks like an ordinary
// signed-in browser tab, not a bot.
const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// HTTPScraper performs the workspace-home HTML scrape (spec §4.6.3
// step 2, §6) via go-resty/resty/v2, the same HTTP client library the
// rest of this module's outbound calls use.
type HTTPScraper struct {
	client *resty.Client
}

// NewHTTPScraper builds a scraper with resty's redirect-following
// default behavior intact — Slack's sign-in bounce must be observed
// via the final URL, not suppressed.
func NewHTTPScraper() *HTTPScraper {
	return &HTTPScraper{client: resty.New()}
}

// Scrape implements Scraper.
func (s *HTTPScraper) Scrape(ctx context.Context, workspace, cookie string) (ScrapeResult, error) {
	if workspace == "" {
		return ScrapeResult{}, fmt.Errorf("no workspace configured")
	}

	url := fmt.Sprintf("https://%s.slack.com", workspace)
	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Cookie", "d="+cookie).
		SetHeader("User-Agent", browserUserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9").
		Get(url)
	if err != nil {
		return ScrapeResult{}, err
	}

	finalURL := url
	if resp.RawResponse != nil && resp.RawResponse.Request != nil && resp.RawResponse.Request.URL != nil {
		finalURL = resp.RawResponse.Request.URL.String()
	}

	return ScrapeResult{
		StatusCode: resp.StatusCode(),
		FinalURL:   finalURL,
		Body:       string(resp.Body()),
		SetCookie:  resp.Header().Values("Set-Cookie"),
	}, nil
}
