package preview

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveHTML(t *testing.T, html string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(html))
	}))
}

func TestFetch_OpenGraphTags(t *testing.T) {
	server := serveHTML(t, `
	<html><head>
		<title>Fallback Title</title>
		<meta property="og:title" content="Senior Gopher Wanted">
		<meta property="og:description" content="A real job at a real company.">
		<meta property="og:image" content="https://example.com/logo.png">
		<meta property="og:site_name" content="Example Jobs">
		<meta name="author" content="Jane Doe">
	</head><body></body></html>`)
	defer server.Close()

	f := NewFetcher(nil)
	p, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Senior Gopher Wanted", p.Title)
	assert.Equal(t, "A real job at a real company.", p.Description)
	assert.Equal(t, "https://example.com/logo.png", p.ImageURL)
	assert.Equal(t, "Example Jobs", p.SiteName)
	assert.Equal(t, "Jane Doe", p.Author)
	assert.Equal(t, server.URL, p.URL)
}

func TestFetch_TitleFallback(t *testing.T) {
	server := serveHTML(t, `<html><head><title>Plain Page</title></head><body></body></html>`)
	defer server.Close()

	f := NewFetcher(nil)
	p, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	parsed, _ := url.Parse(server.URL)
	assert.Equal(t, "Plain Page", p.Title)
	assert.Equal(t, parsed.Host, p.SiteName)
	// Missing metadata yields empty strings, not an error.
	assert.Empty(t, p.Description)
	assert.Empty(t, p.ImageURL)
	assert.Empty(t, p.Author)
}

func TestFetch_URLFallbackWhenNoTitle(t *testing.T) {
	server := serveHTML(t, `<html><body><p>nothing here</p></body></html>`)
	defer server.Close()

	f := NewFetcher(nil)
	p, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, server.URL, p.Title)
}

func TestFetch_NamedMetaBeforeTitle(t *testing.T) {
	server := serveHTML(t, `
	<html><head>
		<title>Doc Title</title>
		<meta name="description" content="From the named meta tag.">
		<meta name="twitter:title" content="Tweeted Title">
	</head><body></body></html>`)
	defer server.Close()

	f := NewFetcher(nil)
	p, err := f.Fetch(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Tweeted Title", p.Title)
	assert.Equal(t, "From the named meta tag.", p.Description)
}

func TestFetch_BlockedStatuses(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden, 999} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
		}))

		f := NewFetcher(nil)
		_, err := f.Fetch(context.Background(), server.URL)
		require.Error(t, err)

		var blocked *BlockedError
		require.ErrorAs(t, err, &blocked, "status %d must map to BlockedError", status)
		assert.Equal(t, status, blocked.StatusCode)

		server.Close()
	}
}

func TestFetch_GenericHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	f := NewFetcher(nil)
	_, err := f.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var blocked *BlockedError
	assert.False(t, errors.As(err, &blocked), "404 must not be a BlockedError")

	var generic *Error
	require.ErrorAs(t, err, &generic)
}

func TestFetch_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	f := NewFetcher(&Options{Timeout: 50 * time.Millisecond})
	_, err := f.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var timeout *TimeoutError
	assert.ErrorAs(t, err, &timeout)
}

func TestFetch_InvalidURL(t *testing.T) {
	f := NewFetcher(nil)
	_, err := f.Fetch(context.Background(), "not-a-url")
	require.Error(t, err)

	var generic *Error
	require.ErrorAs(t, err, &generic)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestFetch_FollowsRedirects(t *testing.T) {
	target := serveHTML(t, `<html><head><title>Final Page</title></head></html>`)
	defer target.Close()

	redirecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target.URL, http.StatusFound)
	}))
	defer redirecting.Close()

	f := NewFetcher(nil)
	p, err := f.Fetch(context.Background(), redirecting.URL)
	require.NoError(t, err)
	assert.Equal(t, "Final Page", p.Title)
}
