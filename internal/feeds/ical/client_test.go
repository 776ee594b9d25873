package ical

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marciozomb13/FBEventSync/internal/core/domain"
)

func TestClient_FetchRequestsEventsPath(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		fmt.Fprint(w, "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")
	}))
	defer srv.Close()

	body, err := NewClient(srv.URL).Fetch(context.Background(), "12345", "secret", "en_US", domain.CalendarEvents)

	require.NoError(t, err)
	assert.Equal(t, "/ical/u.php", gotPath)
	assert.Equal(t, "12345", gotQuery.Get("uid"))
	assert.Equal(t, "secret", gotQuery.Get("key"))
	assert.Equal(t, "en_US", gotQuery.Get("locale"))
	assert.NotEmpty(t, body)
}

func TestClient_FetchRequestsBirthdaysPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background(), "12345", "secret", "en_US", domain.CalendarBirthdays)

	require.NoError(t, err)
	assert.Equal(t, "/ical/b.php", gotPath)
}

func TestClient_FetchNonOKStatusFailsWithoutLeakingSecrets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background(), "12345", "topsecret", "en_US", domain.CalendarEvents)

	require.ErrorIs(t, err, domain.ErrTransportFailure)
	assert.NotContains(t, err.Error(), "12345")
	assert.NotContains(t, err.Error(), "topsecret")
}

func TestClient_FetchEmptyBodyFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background(), "12345", "secret", "en_US", domain.CalendarEvents)

	assert.ErrorIs(t, err, domain.ErrTransportFailure)
}

func TestClient_ConnectionErrorDoesNotLeakSecrets(t *testing.T) {
	// Point at a server that is already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	_, err := NewClient(srv.URL).Fetch(context.Background(), "12345", "topsecret", "en_US", domain.CalendarEvents)

	require.ErrorIs(t, err, domain.ErrTransportFailure)
	assert.NotContains(t, err.Error(), "12345")
	assert.NotContains(t, err.Error(), "topsecret")
}

func TestSanitizeURI_HidesUIDAndKey(t *testing.T) {
	u, err := url.Parse("https://example.com/ical/u.php?key=topsecret&locale=en_US&uid=12345")
	require.NoError(t, err)

	sanitized := sanitizeURI(u)

	assert.NotContains(t, sanitized, "topsecret")
	assert.NotContains(t, sanitized, "12345")
	assert.Contains(t, sanitized, "uid=hidden")
	assert.Contains(t, sanitized, "key=hidden")
	assert.Contains(t, sanitized, "locale=en_US")
}
