package ingest

import (
	"context"
	"net/url"

	"github.com/jquah/newsreel/lib/models"
)

// seedSources ensures a Source row exists for every configured feed URL.
// Get-or-create semantics: safe to call on every run, existing rows are
// left untouched (including an admin's enabled toggle).
func (ing *Ingester) seedSources(ctx context.Context) error {
	created := 0
	for _, feedURL := range ing.cfg.Feeds {
		src := models.Source{URL: feedURL}
		tx := ing.db.WithContext(ctx).
			Where(models.Source{URL: feedURL}).
			Attrs(models.Source{
				Name:    hostLabel(feedURL),
				Kind:    models.SourceKindRSS,
				Enabled: true,
			}).
			FirstOrCreate(&src)
		if err := tx.Error; err != nil {
			return err
		}
		if tx.RowsAffected > 0 {
			created++
			ing.log.Sugar().Infof("Created source %s (%s)", src.Name, src.URL)
		}
	}

	if created > 0 {
		ing.log.Sugar().Infof("Seeded %d new sources", created)
	}
	return nil
}

// hostLabel derives a best-effort display name from the URL's host.
func hostLabel(feedURL string) string {
	u, err := url.Parse(feedURL)
	if err != nil || u.Host == "" {
		return feedURL
	}
	return u.Host
}
