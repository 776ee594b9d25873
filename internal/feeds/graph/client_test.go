package graph

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
)

func testTokenSource() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "tok-123"})
}

func TestClient_FetchPageSendsAuthAndQuery(t *testing.T) {
	var gotAuth, gotFields, gotLimit, gotAfter string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotFields = r.URL.Query().Get("fields")
		gotLimit = r.URL.Query().Get("limit")
		gotAfter = r.URL.Query().Get("after")
		fmt.Fprint(w, `{"data":[{"id":"1"}],"paging":{"cursors":{"after":"next-cursor"}}}`)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	page, err := client.FetchPage(context.Background(), testTokenSource(), "cur-1")

	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, fields, gotFields)
	assert.Equal(t, "100", gotLimit)
	assert.Equal(t, "cur-1", gotAfter)
	assert.Len(t, page.Entries, 1)
	assert.Equal(t, "next-cursor", page.After)
}

func TestClient_FetchPageOmitsEmptyCursor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("after"))
		fmt.Fprint(w, `{"data":[]}`)
	}))
	defer srv.Close()

	page, err := NewClient(srv.URL).FetchPage(context.Background(), testTokenSource(), "")

	require.NoError(t, err)
	assert.Empty(t, page.Entries)
	assert.Empty(t, page.After)
}

func TestClient_FetchPageNonOKStatusFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchPage(context.Background(), testTokenSource(), "")

	assert.ErrorIs(t, err, domain.ErrTransportFailure)
}

func TestClient_FetchPageBadEnvelopeFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `{"data": not-json`)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).FetchPage(context.Background(), testTokenSource(), "")

	assert.ErrorIs(t, err, domain.ErrTransportFailure)
}
