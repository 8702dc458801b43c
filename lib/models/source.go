package models

import "gorm.io/gorm"

const (
	SourceKindRSS        = "rss"
	SourceKindHackerNews = "hacker_news"
	SourceKindGuardian   = "guardian"
)

// Source is an external content endpoint. Admins disable a feed by
// toggling Enabled rather than deleting rows, so article references
// stay intact.
type Source struct {
	gorm.Model
	Name    string
	Kind    string `gorm:"default:rss"`
	URL     string `gorm:"unique"`
	Enabled bool   `gorm:"index:idx_source_enabled"`
}

type Sources []Source
