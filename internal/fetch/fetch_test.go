package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURL_Success(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body><h1>Test</h1></body></html>"))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "text/html", result.ContentType)
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestURL_CustomHeaders(t *testing.T) {
	var gotLang string
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		gotLang = r.Header.Get("Accept-Language")
	}))
	defer server.Close()

	_, err := URL(context.Background(), server.URL, &Options{Headers: map[string]string{"Accept-Language": "en"}})
	require.NoError(t, err)
	assert.Equal(t, "en", gotLang)
}

func TestURL_InvalidURL(t *testing.T) {
	for _, raw := range []string{"not-a-valid-url", "ftp://example.com/job", "https://"} {
		_, err := URL(context.Background(), raw, nil)
		var fetchErr *Error
		require.ErrorAs(t, err, &fetchErr, raw)
		assert.Contains(t, err.Error(), "invalid URL")
	}
}

func TestURL_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.Error(t, err)
	require.NotNil(t, result)
	assert.Equal(t, http.StatusNotFound, result.StatusCode)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestExtractMainText(t *testing.T) {
	tests := []struct {
		name      string
		html      string
		selectors []string
		contains  []string
		excludes  []string
	}{
		{
			name:      "main element without chrome",
			html:      `<html><body><nav>Navigation</nav><main><h1>Main Content</h1><p>This is the important text.</p></main><footer>Footer</footer></body></html>`,
			selectors: DefaultTextSelectors(),
			contains:  []string{"Main Content", "important text"},
			excludes:  []string{"Navigation", "Footer"},
		},
		{
			name:      "fallback to body",
			html:      `<html><body><div>Some content here.</div></body></html>`,
			selectors: DefaultTextSelectors(),
			contains:  []string{"Some content here"},
		},
		{
			name:      "job description selector",
			html:      `<html><body><div class="sidebar">Sidebar junk</div><div class="job-description"><h2>Requirements</h2><p>5 years experience in Go</p></div></body></html>`,
			selectors: JobPostingSelectors(),
			contains:  []string{"Requirements", "5 years experience in Go"},
			excludes:  []string{"Sidebar junk"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, err := ExtractMainText(tt.html, tt.selectors)
			require.NoError(t, err)
			for _, c := range tt.contains {
				assert.Contains(t, text, c)
			}
			for _, e := range tt.excludes {
				assert.NotContains(t, text, e)
			}
		})
	}
}

func TestExtractMainText_ListItemsOnOwnLines(t *testing.T) {
	html := `<main><ul><li>Build APIs in Go</li><li>Own PostgreSQL schemas</li></ul></main>`

	text, err := ExtractMainText(html, DefaultTextSelectors())
	require.NoError(t, err)
	assert.Equal(t, "Build APIs in Go\nOwn PostgreSQL schemas", text)
}

func TestExtractMainText_NoiseSelectors(t *testing.T) {
	html := `<main><p>Role details</p><div class="eeo-statement">Equal opportunity</div></main>`

	text, err := ExtractMainText(html, DefaultTextSelectors(), ".eeo-statement")
	require.NoError(t, err)
	assert.Equal(t, "Role details", text)
}

func TestCleanWhitespace(t *testing.T) {
	assert.Equal(t, "a b\nc", cleanWhitespace("  a   b \n\n\t\n c "))
	assert.Equal(t, "", cleanWhitespace(" \n "))
}
