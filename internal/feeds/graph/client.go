// Package graph implements the JSON feed collaborator: a cursor-paginated
// events endpoint fetched with a bearer token.
package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
	"github.com/marciozomb13/FBEventSync/internal/core/ports/driven"
	"github.com/marciozomb13/FBEventSync/internal/logger"
)

const (
	defaultBaseURL = "https://graph.facebook.com/v2.9"

	// fields is the fixed field set every page requests.
	fields = "id,name,description,place,start_time,end_time,owner,is_canceled,rsvp_status"

	// pageLimit is the page size; the walker never asks for more.
	pageLimit = 100
)

// Ensure Client implements the feed port.
var _ driven.GraphFeed = (*Client)(nil)

// Client fetches feed pages. Requests go through a conservative token
// bucket so a fast walk cannot trip the remote API's quota.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
}

// NewClient creates a feed client. baseURL overrides the production
// endpoint; pass "" for the default.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(2.0), 5),
		baseURL:    baseURL,
	}
}

// envelope is the feed's page wire shape.
type envelope struct {
	Data   []json.RawMessage `json:"data"`
	Paging struct {
		Cursors struct {
			After string `json:"after"`
		} `json:"cursors"`
	} `json:"paging"`
}

// FetchPage fetches one page of up to 100 raw entries positioned by the
// opaque after cursor.
func (c *Client) FetchPage(ctx context.Context, ts oauth2.TokenSource, after string) (*domain.FeedPage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransportFailure, err)
	}

	token, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: token source: %w", domain.ErrTransportFailure, err)
	}

	q := url.Values{}
	q.Set("fields", fields)
	q.Set("limit", strconv.Itoa(pageLimit))
	if after != "" {
		q.Set("after", after)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me/events?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrTransportFailure, err)
	}
	token.SetAuthHeader(req)

	logger.Debug("sending feed page request (after=%q)", after)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrTransportFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: feed returned status %d", domain.ErrTransportFailure, resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: decode page envelope: %w", domain.ErrTransportFailure, err)
	}

	return &domain.FeedPage{
		Entries: env.Data,
		After:   env.Paging.Cursors.After,
	}, nil
}
