package fetcher

import (
	"context"
	"fmt"
	"net/http"

	"github.com/andreyxaxa/miniaturs/internal/dto"
)

type HTTPFetcher struct {
	client *http.Client
}

func New(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPFetcher{client: client}
}

// Open issues the GET and hands back the unread body together with the size hint
// and content type the origin declared. The caller closes Body.
func (f *HTTPFetcher) Open(ctx context.Context, url string) (*dto.OriginResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("HTTPFetcher - Open - http.NewRequestWithContext: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTPFetcher - Open - f.client.Do: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()

		return nil, fmt.Errorf("HTTPFetcher - Open - origin responded %s", resp.Status)
	}

	out := &dto.OriginResponse{Body: resp.Body}
	if resp.ContentLength >= 0 {
		size := uint64(resp.ContentLength)
		out.DeclaredSize = &size
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" {
		out.ContentType = &ct
	}

	return out, nil
}
