package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/jquah/newsreel/lib/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNeedsEnrichment(t *testing.T) {
	assert.True(t, needsEnrichment("", "a summary"))
	assert.True(t, needsEnrichment("short echo of summary", "short echo of summary"))
	assert.False(t, needsEnrichment(strings.Repeat("x", 250), "short"))
}

func TestFirstImageURL_ResolvesRelativeToArticle(t *testing.T) {
	base, err := url.Parse("https://example.com/articles/42")
	require.NoError(t, err)

	fragment := `<div><p>text</p><img src="/static/pic.png"/><img src="https://cdn.example.com/b.png"/></div>`
	assert.Equal(t, "https://example.com/static/pic.png", firstImageURL(fragment, base))

	assert.Equal(t, "", firstImageURL("<p>no images here</p>", base))
}

func TestEnrich_FailureKeepsFeedContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	ing := &Ingester{log: zap.NewNop(), transport: http.DefaultTransport}
	article := &models.Article{
		URL:     srv.URL + "/article",
		Summary: "a summary",
		Content: "thin feed content",
	}

	ing.enrich(context.Background(), article)

	assert.Equal(t, "thin feed content", article.Content)
	assert.Equal(t, "", article.ImageURL)
}

func TestEnrich_SkipsWhenContentIsLongEnough(t *testing.T) {
	// No transport wired: any network call would panic the test.
	ing := &Ingester{log: zap.NewNop()}
	long := strings.Repeat("content ", 100)
	article := &models.Article{URL: "https://example.com/a", Summary: "s", Content: long}

	ing.enrich(context.Background(), article)
	assert.Equal(t, long, article.Content)
}
