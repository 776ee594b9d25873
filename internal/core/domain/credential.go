package domain

import "golang.org/x/oauth2"

// Credential bundles the tokens one pass authenticates with. The access
// token authorises the JSON feed; the feed uid/key pair authorises the
// iCalendar export. A Credential lives for exactly one pass.
//
// The uid and key are secrets: they must never appear in logs or error
// messages. Feed clients redact them before any diagnostic output.
type Credential struct {
	Account     string
	AccessToken string
	FeedUID     string
	FeedKey     string
}

// TokenSource exposes the access token as an oauth2.TokenSource for HTTP
// clients that authenticate per request.
func (c Credential) TokenSource() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: c.AccessToken,
		TokenType:   "Bearer",
	})
}
