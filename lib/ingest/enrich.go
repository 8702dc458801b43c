package ingest

import (
	"bytes"
	"context"
	"net/url"
	"strings"

	"github.com/antchfx/htmlquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/jquah/newsreel/lib/models"
	"golang.org/x/net/html"
)

// Feeds that merely echo the summary into the content field still beat
// this margin, so anything shorter gets scraped.
const scrapeMargin = 200

func needsEnrichment(content, summary string) bool {
	return len(content) < len(summary)+scrapeMargin
}

// enrich replaces thin feed-supplied content with the readable main
// content of the article's own page, and fills the thumbnail from the
// extracted markup when nothing earlier resolved one. Every failure is
// non-fatal: the article keeps its feed content.
func (ing *Ingester) enrich(ctx context.Context, article *models.Article) {
	if !needsEnrichment(article.Content, article.Summary) {
		return
	}

	raw, err := ing.fetchURL(ctx, article.URL, scrapeTimeout)
	if err != nil {
		ing.log.Sugar().Infow("Scrape failed, keeping feed content", "url", article.URL, "err", err)
		return
	}

	pageURL, err := url.Parse(article.URL)
	if err != nil {
		return
	}

	extracted, err := readability.FromReader(bytes.NewReader(raw), pageURL)
	if err != nil {
		ing.log.Sugar().Infow("Readability extraction failed", "url", article.URL, "err", err)
		return
	}

	if extracted.Content != "" {
		article.Content = extracted.Content
	}
	if article.ImageURL == "" {
		article.ImageURL = firstImageURL(extracted.Content, pageURL)
	}
}

// firstImageURL scans an HTML fragment for the first embedded image and
// resolves it against the page URL.
func firstImageURL(fragment string, base *url.URL) string {
	doc, err := htmlquery.Parse(strings.NewReader(fragment))
	if err != nil {
		return ""
	}

	src, err := url.Parse(imageSrc(htmlquery.FindOne(doc, "//img[@src]")))
	if err != nil || src.String() == "" {
		return ""
	}
	return base.ResolveReference(src).String()
}

func imageSrc(node *html.Node) string {
	if node == nil {
		return ""
	}
	for _, attr := range node.Attr {
		if attr.Key == "src" {
			return attr.Val
		}
	}
	return ""
}
