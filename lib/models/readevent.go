package models

import "gorm.io/gorm"

// ReadEvent meters one read per (subscriber, article, local calendar
// day). The composite unique index defends against double counting from
// refreshes and multiple tabs.
type ReadEvent struct {
	gorm.Model
	SubscriberID uint   `gorm:"uniqueIndex:uq_read_once_per_day;index:idx_reads_subscriber_date"`
	ArticleID    uint   `gorm:"uniqueIndex:uq_read_once_per_day"`
	Date         string `gorm:"uniqueIndex:uq_read_once_per_day;index:idx_reads_subscriber_date;size:10"` // YYYY-MM-DD in the deployment timezone
}
