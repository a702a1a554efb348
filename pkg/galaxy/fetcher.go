package galaxy

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Failure classes for a fetch cycle. Callers at the sync boundary log
// these and keep serving previously cached data.
var (
	ErrNetwork    = errors.New("feed network failure")
	ErrDecompress = errors.New("feed decompress failure")
	ErrDecode     = errors.New("feed decode failure")
)

// Fetcher downloads gzip-compressed feed exports. Payloads live only in a
// transient buffer; nothing is left on disk.
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				return nil
			},
		},
	}
}

// Fetch downloads the URL and returns the decompressed payload. A payload
// that is not gzip-compressed is returned as-is, since the upstream has
// served both shapes over time.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrNetwork, err)
	}
	req.Header.Set("User-Agent", "SWGWatch-Fetcher/1.0")
	req.Header.Set("Accept", "application/gzip, application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code: %d", ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrNetwork, err)
	}

	if !isGzip(body) {
		return body, nil
	}

	gz, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompress, err)
	}
	defer gz.Close()

	raw, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecompress, err)
	}
	return raw, nil
}

// FetchAndDecode downloads, decompresses and decodes one feed document.
func (f *Fetcher) FetchAndDecode(ctx context.Context, url string) (*Node, error) {
	raw, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	node, err := Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return node, nil
}

func isGzip(b []byte) bool {
	return len(b) > 2 && b[0] == 0x1f && b[1] == 0x8b
}
