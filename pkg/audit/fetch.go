package audit

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/sw33tLie/degreeaudit/pkg/polling"
	"github.com/sw33tLie/degreeaudit/pkg/whttp"
)

// Loader produces an audit page. It returns ErrPageNotReady while the
// audit is still being generated.
type Loader func(ctx context.Context) (*Page, error)

// Fetcher downloads the audit page with the student's session cookie.
type Fetcher struct {
	Client *retryablehttp.Client // optional; nil = whttp default
	Cookie string
}

// Fetch downloads and scrapes the audit at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: http.MethodGet,
		URL:    url,
		Cookie: f.Cookie,
	}, f.Client)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching audit: unexpected status %d", res.StatusCode)
	}
	if res.Document != nil {
		return NewPage(res.Document)
	}
	return ParsePage(strings.NewReader(res.BodyString))
}

// URLLoader fetches url on every attempt.
func (f *Fetcher) URLLoader(url string) Loader {
	return func(ctx context.Context) (*Page, error) {
		return f.Fetch(ctx, url)
	}
}

// FileLoader reads a saved audit page on every attempt.
func FileLoader(path string) Loader {
	return func(context.Context) (*Page, error) {
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer file.Close()
		return ParsePage(file)
	}
}

// Import runs load until the page is ready. Only ErrPageNotReady is retried;
// any other error ends the import.
func Import(ctx context.Context, load Loader, p polling.Policy) (*Page, error) {
	return polling.Poll[*Page](ctx, p, polling.Is(ErrPageNotReady), load)
}
