package lib

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/jquah/newsreel/lib/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedArticles(t *testing.T, svc *Service, n int, ingestedAt time.Time) {
	t.Helper()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		link := fmt.Sprintf("https://example.com/a/%d", i)
		require.NoError(t, svc.db.Create(&models.Article{
			Title:       fmt.Sprintf("Article %d", i),
			URL:         link,
			Hash:        models.DigestLink(link),
			PublishedAt: sql.NullTime{Time: base.Add(time.Duration(i) * time.Hour), Valid: true},
			IngestedAt:  ingestedAt,
		}).Error)
	}
}

func TestListArticles_OrderedAndPaginated(t *testing.T) {
	svc, _, _ := newTestService(t)
	seedArticles(t, svc, 20, time.Now().UTC())

	page, err := svc.ListArticles(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, page.Articles, articlesPerPage)
	assert.Equal(t, "Article 19", page.Articles[0].Title, "newest published first")
	assert.False(t, page.Stale)

	page, err = svc.ListArticles(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, page.Articles, 5)
	assert.Equal(t, "Article 4", page.Articles[0].Title)
}

func TestListArticles_FlagsStaleListings(t *testing.T) {
	svc, _, _ := newTestService(t)
	seedArticles(t, svc, 1, time.Now().UTC().Add(-2*time.Hour))

	page, err := svc.ListArticles(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, page.Stale, "newest ingested_at is past the TTL")
}

func TestGetArticle_NotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetArticle(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrNotFound)
}
