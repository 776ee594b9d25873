// Package ical implements the iCalendar feed collaborator: a one-shot
// fetch of the events or birthdays export, authorised by a uid/key pair
// carried as query parameters. The uid and key are secrets and never reach
// a log line; every diagnostic path goes through sanitizeURI first.
package ical

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
	"github.com/marciozomb13/FBEventSync/internal/core/ports/driven"
	"github.com/marciozomb13/FBEventSync/internal/logger"
)

const (
	defaultBaseURL = "https://www.facebook.com"

	eventsPath    = "/ical/u.php"
	birthdaysPath = "/ical/b.php"
)

// Ensure Client implements the feed port.
var _ driven.ICalFeed = (*Client)(nil)

// Client fetches iCal documents.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a feed client. baseURL overrides the production
// endpoint; pass "" for the default.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
	}
}

// Fetch retrieves the raw document bytes for the requested calendar.
func (c *Client) Fetch(ctx context.Context, uid, key, locale string, ctype domain.CalendarType) ([]byte, error) {
	feedURL, err := c.feedURL(uid, key, locale, ctype)
	if err != nil {
		return nil, err
	}

	logger.Debug("syncing %s iCal from %s", ctype, sanitizeURI(feedURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", domain.ErrTransportFailure, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s iCal: %s", domain.ErrTransportFailure, ctype, redactError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s iCal returned status %d", domain.ErrTransportFailure, ctype, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s iCal body: %w", domain.ErrTransportFailure, ctype, err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: %s iCal response body is empty", domain.ErrTransportFailure, ctype)
	}
	return body, nil
}

func (c *Client) feedURL(uid, key, locale string, ctype domain.CalendarType) (*url.URL, error) {
	path := eventsPath
	if ctype == domain.CalendarBirthdays {
		path = birthdaysPath
	}

	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("%w: parse feed URL: %w", domain.ErrTransportFailure, err)
	}

	q := url.Values{}
	q.Set("uid", uid)
	q.Set("key", key)
	q.Set("locale", locale)
	u.RawQuery = q.Encode()
	return u, nil
}

// sanitizeURI replaces the uid and key query values so the URI is safe to
// log.
func sanitizeURI(u *url.URL) string {
	clean := *u
	q := clean.Query()
	for _, param := range []string{"uid", "key"} {
		if q.Has(param) {
			q.Set(param, "hidden")
		}
	}
	clean.RawQuery = q.Encode()
	return clean.String()
}

// redactError strips URL detail out of transport errors; url.Error echoes
// the full request URL, query secrets included.
func redactError(err error) string {
	if uerr, ok := err.(*url.Error); ok {
		return fmt.Sprintf("%s request failed: %v", uerr.Op, uerr.Err)
	}
	return err.Error()
}
