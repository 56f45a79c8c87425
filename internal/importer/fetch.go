package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"
)

// maxFetchBytes caps how much of a remote file is read. 32 MiB is far
// beyond any reasonable import sheet.
const maxFetchBytes = 32 << 20

// Fetcher downloads remote import files. A failed download is a
// file-level error: nothing from the file is processed.
type Fetcher struct {
	Client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{Client: &http.Client{Timeout: timeout}}
}

// Fetch downloads url and parses it as an import table. Format dispatch
// looks at the url path only, so query strings do not confuse it; a
// remote source with no recognized extension is read as CSV.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxFetchBytes)

	name := strings.ToLower(url)
	if u, err := neturl.Parse(url); err == nil && u.Path != "" {
		name = strings.ToLower(u.Path)
	}
	if strings.HasSuffix(name, ".xlsx") || strings.HasSuffix(name, ".xlsm") {
		return ParseXLSX(body)
	}
	return ParseCSV(body)
}
