package models

import (
	"crypto/sha256"
	"database/sql"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Article is a normalized entry we list and link out to. Content starts
// as the feed-supplied snippet and may be overwritten by the enricher
// after the row exists.
type Article struct {
	gorm.Model
	SourceID uint `gorm:"index"`

	Title    string
	URL      string
	Summary  string
	Content  string
	ImageURL string

	PublishedAt sql.NullTime `gorm:"index:idx_article_pub_desc"`
	IngestedAt  time.Time

	// JSON-encoded lists (e.g. '["AI","Gadgets"]'); kept as TEXT to stay
	// sqlite-friendly.
	Tags     string
	Keywords string

	// Dedup key: sha256 of the entry link, sole identity for upserts.
	Hash string `gorm:"uniqueIndex;size:64"`
}

type Articles []Article

func DigestLink(link string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(link)))
}
