package ingest

import (
	"database/sql"
	"errors"
	"html"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/jquah/newsreel/lib/models"
	"github.com/mmcdole/gofeed"
)

// errSkipEntry marks an entry with no link; a link is the minimum viable
// identity for an article.
var errSkipEntry = errors.New("entry has no link")

const defaultTitle = "No Title Provided"

// normalizeEntry maps a raw feed entry onto an article draft keyed by
// the link's digest.
func normalizeEntry(source *models.Source, item *gofeed.Item, now time.Time, loc *time.Location) (*models.Article, error) {
	link := strings.TrimSpace(item.Link)
	if link == "" {
		return nil, errSkipEntry
	}

	title := html.UnescapeString(item.Title)
	if title == "" {
		title = defaultTitle
	}

	return &models.Article{
		SourceID:    source.ID,
		Title:       title,
		URL:         link,
		Summary:     item.Description,
		Content:     entryContent(item),
		ImageURL:    resolveThumbnail(item),
		PublishedAt: sql.NullTime{Time: publishedTime(item, now, loc), Valid: true},
		IngestedAt:  now.UTC(),
		Hash:        models.DigestLink(link),
	}, nil
}

// publishedTime parses the feed-supplied date string permissively.
// Timestamps without an offset are read in the deployment timezone, not
// UTC: feeds frequently omit offsets and tend to publish local times.
// Absent or unparseable dates default to now.
func publishedTime(item *gofeed.Item, now time.Time, loc *time.Location) time.Time {
	raw := item.Published
	if raw == "" {
		raw = item.Updated
	}
	if raw == "" {
		return now
	}

	t, err := dateparse.ParseIn(raw, loc)
	if err != nil {
		return now
	}
	return t
}

// entryContent prefers the first structured content block over the
// summary; an entry with neither yields empty content for the enricher
// to fill.
func entryContent(item *gofeed.Item) string {
	if item.Content != "" {
		return item.Content
	}
	return item.Description
}

// Thumbnail precedence is an ordered strategy list: structured media
// thumbnail, then image-typed enclosure. The scraped-page fallback runs
// later in the enricher.
type thumbnailStrategy func(*gofeed.Item) string

var thumbnailStrategies = []thumbnailStrategy{
	mediaThumbnail,
	imageEnclosure,
}

func resolveThumbnail(item *gofeed.Item) string {
	for _, strategy := range thumbnailStrategies {
		if url := strategy(item); url != "" {
			return url
		}
	}
	return ""
}

func mediaThumbnail(item *gofeed.Item) string {
	if media, ok := item.Extensions["media"]; ok {
		for _, thumb := range media["thumbnail"] {
			if url := thumb.Attrs["url"]; url != "" {
				return url
			}
		}
	}
	if item.Image != nil {
		return item.Image.URL
	}
	return ""
}

func imageEnclosure(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	return ""
}
