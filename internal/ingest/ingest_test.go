package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postingHTML(body string) string {
	return `<html><body>
		<nav>Navigation</nav>
		<div class="job-description">` + body + `</div>
		<footer>Footer</footer>
	</body></html>`
}

func TestFromText(t *testing.T) {
	posting, err := FromText("  Senior Go Engineer. Build services.  ")
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer. Build services.", posting.Text)
	assert.Equal(t, "text", posting.Source)
}

func TestFromText_Empty(t *testing.T) {
	_, err := FromText("   \n  ")
	require.Error(t, err)

	var ingErr *Error
	assert.ErrorAs(t, err, &ingErr)
}

func TestFromURL_Success(t *testing.T) {
	body := "<h2>Requirements</h2><p>" + strings.Repeat("Go experience required. ", 20) + "</p>"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(postingHTML(body)))
	}))
	defer server.Close()

	posting, err := FromURL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, posting.StatusCode)
	assert.Contains(t, posting.Text, "Requirements")
	assert.Contains(t, posting.Text, "Go experience required")
	assert.NotContains(t, posting.Text, "Navigation")
	assert.NotContains(t, posting.Text, "Footer")
}

func TestFromURL_InvalidURL(t *testing.T) {
	_, err := FromURL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var ingErr *Error
	assert.ErrorAs(t, err, &ingErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestFromURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	posting, err := FromURL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, posting)
	assert.Equal(t, http.StatusNotFound, posting.StatusCode)
	assert.Contains(t, err.Error(), "404")
}

func TestFromURL_TooShort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(postingHTML("<p>Short.</p>")))
	}))
	defer server.Close()

	posting, err := FromURL(context.Background(), server.URL, nil)
	require.Error(t, err)
	assert.NotNil(t, posting)
	assert.Contains(t, err.Error(), "too short")
}

func TestExtractMainText_FallbackToBody(t *testing.T) {
	text, err := ExtractMainText(`<html><body><div>Some content here.</div></body></html>`, JobPostingSelectors())
	require.NoError(t, err)
	assert.Contains(t, text, "Some content here")
}
